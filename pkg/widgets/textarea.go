package widgets

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/keynav"
	"github.com/odvcencio/rove/pkg/terminal"
)

// TextArea is a multi-line text editor.
type TextArea struct {
	FocusableBase

	lines   [][]rune
	cursorX int // rune index within the cursor line
	cursorY int
	scrollY int

	style      backend.Style
	focusStyle backend.Style

	onChange func(text string)
}

// NewTextArea creates an empty text area.
func NewTextArea() *TextArea {
	a := &TextArea{
		lines:      [][]rune{nil},
		style:      backend.DefaultStyle(),
		focusStyle: backend.DefaultStyle(),
	}
	a.bindNode(a)
	a.node.SetTabStop(true)
	return a
}

// SetStyle sets the normal style.
func (a *TextArea) SetStyle(style backend.Style) {
	a.style = style
}

// SetFocusStyle sets the style used while focused.
func (a *TextArea) SetFocusStyle(style backend.Style) {
	a.focusStyle = style
}

// OnChange sets the callback for when the text changes.
func (a *TextArea) OnChange(fn func(text string)) {
	a.onChange = fn
}

// Text returns the full content.
func (a *TextArea) Text() string {
	parts := make([]string, len(a.lines))
	for i, line := range a.lines {
		parts[i] = string(line)
	}
	return strings.Join(parts, "\n")
}

// SetText replaces the content and moves the cursor to the end.
func (a *TextArea) SetText(text string) {
	raw := strings.Split(text, "\n")
	a.lines = make([][]rune, len(raw))
	for i, line := range raw {
		a.lines[i] = []rune(line)
	}
	if len(a.lines) == 0 {
		a.lines = [][]rune{nil}
	}
	a.cursorY = len(a.lines) - 1
	a.cursorX = len(a.lines[a.cursorY])
}

// Clear empties the text area.
func (a *TextArea) Clear() {
	a.lines = [][]rune{nil}
	a.cursorX = 0
	a.cursorY = 0
	a.scrollY = 0
}

// CursorPosition returns the cursor as (rune column, line).
func (a *TextArea) CursorPosition() (x, y int) {
	return a.cursorX, a.cursorY
}

// SetCursorPosition moves the cursor, clamped into the content.
func (a *TextArea) SetCursorPosition(x, y int) {
	if y < 0 {
		y = 0
	}
	if y >= len(a.lines) {
		y = len(a.lines) - 1
	}
	if x < 0 {
		x = 0
	}
	if x > len(a.lines[y]) {
		x = len(a.lines[y])
	}
	a.cursorX, a.cursorY = x, y
	a.ensureCursorVisible()
}

// Multiline reports whether the widget edits more than one line.
func (a *TextArea) Multiline() bool {
	return true
}

// CursorAtStart reports whether the cursor sits before the first rune of
// the whole text.
func (a *TextArea) CursorAtStart() bool {
	return a.cursorY == 0 && a.cursorX == 0
}

// CursorAtEnd reports whether the cursor sits after the last rune of the
// whole text.
func (a *TextArea) CursorAtEnd() bool {
	return a.cursorY == len(a.lines)-1 && a.cursorX == len(a.lines[a.cursorY])
}

// HasSelection reports whether a text range is selected. The text area
// has no selection support.
func (a *TextArea) HasSelection() bool {
	return false
}

// HandleKey applies the default editing action for a key event.
func (a *TextArea) HandleKey(ev terminal.KeyEvent) bool {
	switch ev.Key {
	case terminal.KeyEnter:
		line := a.lines[a.cursorY]
		rest := slices.Clone(line[a.cursorX:])
		a.lines[a.cursorY] = line[:a.cursorX]
		a.lines = slices.Insert(a.lines, a.cursorY+1, rest)
		a.cursorY++
		a.cursorX = 0
		a.ensureCursorVisible()
		a.notifyChange()
		return true

	case terminal.KeyBackspace:
		if a.cursorX > 0 {
			a.lines[a.cursorY] = slices.Delete(a.lines[a.cursorY], a.cursorX-1, a.cursorX)
			a.cursorX--
			a.notifyChange()
		} else if a.cursorY > 0 {
			prev := a.lines[a.cursorY-1]
			a.cursorX = len(prev)
			a.lines[a.cursorY-1] = append(prev, a.lines[a.cursorY]...)
			a.lines = slices.Delete(a.lines, a.cursorY, a.cursorY+1)
			a.cursorY--
			a.ensureCursorVisible()
			a.notifyChange()
		}
		return true

	case terminal.KeyDelete:
		line := a.lines[a.cursorY]
		if a.cursorX < len(line) {
			a.lines[a.cursorY] = slices.Delete(line, a.cursorX, a.cursorX+1)
			a.notifyChange()
		} else if a.cursorY < len(a.lines)-1 {
			a.lines[a.cursorY] = append(line, a.lines[a.cursorY+1]...)
			a.lines = slices.Delete(a.lines, a.cursorY+1, a.cursorY+2)
			a.notifyChange()
		}
		return true

	case terminal.KeyUp:
		if a.cursorY > 0 {
			a.cursorY--
			a.clampCursorX()
			a.ensureCursorVisible()
		}
		return true

	case terminal.KeyDown:
		if a.cursorY < len(a.lines)-1 {
			a.cursorY++
			a.clampCursorX()
			a.ensureCursorVisible()
		}
		return true

	case terminal.KeyLeft:
		if a.cursorX > 0 {
			a.cursorX--
		} else if a.cursorY > 0 {
			a.cursorY--
			a.cursorX = len(a.lines[a.cursorY])
			a.ensureCursorVisible()
		}
		return true

	case terminal.KeyRight:
		if a.cursorX < len(a.lines[a.cursorY]) {
			a.cursorX++
		} else if a.cursorY < len(a.lines)-1 {
			a.cursorY++
			a.cursorX = 0
			a.ensureCursorVisible()
		}
		return true

	case terminal.KeyHome:
		a.cursorX = 0
		return true

	case terminal.KeyEnd:
		a.cursorX = len(a.lines[a.cursorY])
		return true

	case terminal.KeyPageUp:
		a.cursorY -= a.pageSize()
		if a.cursorY < 0 {
			a.cursorY = 0
		}
		a.clampCursorX()
		a.ensureCursorVisible()
		return true

	case terminal.KeyPageDown:
		a.cursorY += a.pageSize()
		if a.cursorY >= len(a.lines) {
			a.cursorY = len(a.lines) - 1
		}
		a.clampCursorX()
		a.ensureCursorVisible()
		return true

	case terminal.KeyRune:
		if ev.Ctrl || ev.Alt || ev.Meta {
			return false
		}
		a.lines[a.cursorY] = slices.Insert(a.lines[a.cursorY], a.cursorX, ev.Rune)
		a.cursorX++
		a.notifyChange()
		return true
	}

	return false
}

func (a *TextArea) pageSize() int {
	if a.bounds.Height > 1 {
		return a.bounds.Height
	}
	return 1
}

func (a *TextArea) clampCursorX() {
	if a.cursorX > len(a.lines[a.cursorY]) {
		a.cursorX = len(a.lines[a.cursorY])
	}
}

func (a *TextArea) ensureCursorVisible() {
	if a.bounds.Height <= 0 {
		return
	}
	if a.cursorY < a.scrollY {
		a.scrollY = a.cursorY
	} else if a.cursorY >= a.scrollY+a.bounds.Height {
		a.scrollY = a.cursorY - a.bounds.Height + 1
	}
}

func (a *TextArea) notifyChange() {
	if a.onChange != nil {
		a.onChange(a.Text())
	}
}

// Render draws the text area.
func (a *TextArea) Render(t backend.RenderTarget) {
	bounds := a.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	style := a.style
	if a.focused {
		style = a.focusStyle
	}
	fillRect(t, bounds, ' ', style)

	for row := 0; row < bounds.Height; row++ {
		lineIdx := a.scrollY + row
		if lineIdx >= len(a.lines) {
			break
		}
		drawString(t, bounds, bounds.X, bounds.Y+row, string(a.lines[lineIdx]), style)
	}

	if a.focused {
		screenY := a.cursorY - a.scrollY
		if screenY >= 0 && screenY < bounds.Height {
			line := a.lines[a.cursorY]
			cursorX := bounds.X + runewidth.StringWidth(string(line[:a.cursorX]))
			if cursorX < bounds.X+bounds.Width {
				ch := ' '
				if a.cursorX < len(line) {
					ch = line[a.cursorX]
				}
				t.SetContent(cursorX, bounds.Y+screenY, ch, nil, style.Reverse(true))
			}
		}
	}
}

var (
	_ focus.Focusable     = (*TextArea)(nil)
	_ focus.KeyHandler    = (*TextArea)(nil)
	_ keynav.TextEditable = (*TextArea)(nil)
)
