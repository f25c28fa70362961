package widgets

import (
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/keynav"
	"github.com/odvcencio/rove/pkg/terminal"
)

// Input is a single-line text editor with cursor and selection support.
type Input struct {
	FocusableBase

	text        []rune
	cursor      int
	selAnchor   int // -1 when nothing is selected
	style       backend.Style
	focusStyle  backend.Style
	placeholder string

	onSubmit func(text string)
	onChange func(text string)
}

// NewInput creates an empty input. Inputs are tab stops; a container
// that manages its own stops clears the marker on tracking.
func NewInput() *Input {
	i := &Input{
		selAnchor:  -1,
		style:      backend.DefaultStyle(),
		focusStyle: backend.DefaultStyle().Bold(true),
	}
	i.bindNode(i)
	i.node.SetTabStop(true)
	return i
}

// SetPlaceholder sets the hint text shown while empty and unfocused.
func (i *Input) SetPlaceholder(text string) {
	i.placeholder = text
}

// SetStyle sets the normal style.
func (i *Input) SetStyle(style backend.Style) {
	i.style = style
}

// SetFocusStyle sets the style used while focused.
func (i *Input) SetFocusStyle(style backend.Style) {
	i.focusStyle = style
}

// OnSubmit sets the callback for when Enter is pressed.
func (i *Input) OnSubmit(fn func(text string)) {
	i.onSubmit = fn
}

// OnChange sets the callback for when the text changes.
func (i *Input) OnChange(fn func(text string)) {
	i.onChange = fn
}

// Text returns the current text.
func (i *Input) Text() string {
	return string(i.text)
}

// SetText replaces the text and moves the cursor to the end.
func (i *Input) SetText(text string) {
	i.text = []rune(text)
	i.cursor = len(i.text)
	i.selAnchor = -1
}

// Clear empties the input.
func (i *Input) Clear() {
	i.text = nil
	i.cursor = 0
	i.selAnchor = -1
}

// CursorPos returns the cursor position in runes.
func (i *Input) CursorPos() int {
	return i.cursor
}

// SetCursor moves the cursor, clamped into the text, and collapses any
// selection.
func (i *Input) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(i.text) {
		pos = len(i.text)
	}
	i.cursor = pos
	i.selAnchor = -1
}

// Select selects the rune range [start, end) and places the cursor at
// end.
func (i *Input) Select(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(i.text) {
		end = len(i.text)
	}
	if start >= end {
		i.selAnchor = -1
		return
	}
	i.selAnchor = start
	i.cursor = end
}

// SelectAll selects the whole text.
func (i *Input) SelectAll() {
	i.Select(0, len(i.text))
}

// ClearSelection collapses the selection, leaving the cursor in place.
func (i *Input) ClearSelection() {
	i.selAnchor = -1
}

// Multiline reports whether the widget edits more than one line.
func (i *Input) Multiline() bool {
	return false
}

// CursorAtStart reports whether the cursor sits before the first rune.
func (i *Input) CursorAtStart() bool {
	return i.cursor == 0
}

// CursorAtEnd reports whether the cursor sits after the last rune.
func (i *Input) CursorAtEnd() bool {
	return i.cursor == len(i.text)
}

// HasSelection reports whether a rune range is selected.
func (i *Input) HasSelection() bool {
	return i.selAnchor >= 0 && i.selAnchor != i.cursor
}

func (i *Input) selectionRange() (start, end int, ok bool) {
	if !i.HasSelection() {
		return 0, 0, false
	}
	if i.selAnchor < i.cursor {
		return i.selAnchor, i.cursor, true
	}
	return i.cursor, i.selAnchor, true
}

func (i *Input) deleteSelection() bool {
	start, end, ok := i.selectionRange()
	if !ok {
		return false
	}
	i.text = slices.Delete(i.text, start, end)
	i.cursor = start
	i.selAnchor = -1
	return true
}

func (i *Input) insertRune(r rune) {
	i.deleteSelection()
	i.text = slices.Insert(i.text, i.cursor, r)
	i.cursor++
	i.notifyChange()
}

// HandleKey applies the default editing action for a key event. Returns
// false for keys the input does not handle.
func (i *Input) HandleKey(ev terminal.KeyEvent) bool {
	switch ev.Key {
	case terminal.KeyEnter:
		if i.onSubmit != nil {
			i.onSubmit(i.Text())
		}
		return true

	case terminal.KeyBackspace:
		if i.deleteSelection() {
			i.notifyChange()
			return true
		}
		if i.cursor > 0 {
			i.text = slices.Delete(i.text, i.cursor-1, i.cursor)
			i.cursor--
			i.notifyChange()
		}
		return true

	case terminal.KeyDelete:
		if i.deleteSelection() {
			i.notifyChange()
			return true
		}
		if i.cursor < len(i.text) {
			i.text = slices.Delete(i.text, i.cursor, i.cursor+1)
			i.notifyChange()
		}
		return true

	case terminal.KeyLeft:
		if ev.Shift {
			i.extendSelection(-1)
			return true
		}
		if start, _, ok := i.selectionRange(); ok {
			i.cursor = start
			i.selAnchor = -1
			return true
		}
		if ev.Ctrl {
			i.cursor = i.wordBoundaryLeft()
		} else if i.cursor > 0 {
			i.cursor--
		}
		return true

	case terminal.KeyRight:
		if ev.Shift {
			i.extendSelection(1)
			return true
		}
		if _, end, ok := i.selectionRange(); ok {
			i.cursor = end
			i.selAnchor = -1
			return true
		}
		if ev.Ctrl {
			i.cursor = i.wordBoundaryRight()
		} else if i.cursor < len(i.text) {
			i.cursor++
		}
		return true

	case terminal.KeyHome:
		i.cursor = 0
		i.selAnchor = -1
		return true

	case terminal.KeyEnd:
		i.cursor = len(i.text)
		i.selAnchor = -1
		return true

	case terminal.KeyRune:
		if ev.Ctrl && (ev.Rune == 'a' || ev.Rune == 'A') {
			i.SelectAll()
			return true
		}
		if ev.Ctrl || ev.Alt || ev.Meta {
			return false
		}
		i.insertRune(ev.Rune)
		return true
	}

	return false
}

func (i *Input) extendSelection(dir int) {
	if i.selAnchor < 0 {
		i.selAnchor = i.cursor
	}
	next := i.cursor + dir
	if next < 0 || next > len(i.text) {
		return
	}
	i.cursor = next
	if i.selAnchor == i.cursor {
		i.selAnchor = -1
	}
}

func (i *Input) notifyChange() {
	if i.onChange != nil {
		i.onChange(i.Text())
	}
}

func (i *Input) wordBoundaryLeft() int {
	pos := i.cursor
	for pos > 0 && i.text[pos-1] == ' ' {
		pos--
	}
	for pos > 0 && i.text[pos-1] != ' ' {
		pos--
	}
	return pos
}

func (i *Input) wordBoundaryRight() int {
	pos := i.cursor
	for pos < len(i.text) && i.text[pos] != ' ' {
		pos++
	}
	for pos < len(i.text) && i.text[pos] == ' ' {
		pos++
	}
	return pos
}

// visibleStart returns the first visible rune index so the cursor always
// fits inside the bounds, keeping one cell free for an end-of-text
// cursor.
func (i *Input) visibleStart() int {
	width := i.bounds.Width
	if width <= 0 {
		return i.cursor
	}
	start := i.cursor
	used := 1
	for start > 0 {
		rw := runewidth.RuneWidth(i.text[start-1])
		if used+rw > width {
			break
		}
		used += rw
		start--
	}
	return start
}

// Render draws the input field.
func (i *Input) Render(t backend.RenderTarget) {
	bounds := i.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	style := i.style
	if i.focused {
		style = i.focusStyle
	}
	fillRect(t, bounds, ' ', style)

	if len(i.text) == 0 && !i.focused && i.placeholder != "" {
		drawString(t, bounds, bounds.X, bounds.Y, truncate(i.placeholder, bounds.Width), style.Dim(true))
		return
	}

	selStart, selEnd, hasSel := i.selectionRange()
	start := i.visibleStart()
	maxX := bounds.X + bounds.Width
	x := bounds.X
	for idx := start; idx < len(i.text); idx++ {
		r := i.text[idx]
		rw := runewidth.RuneWidth(r)
		if x+rw > maxX {
			break
		}
		cell := style
		if hasSel && idx >= selStart && idx < selEnd {
			cell = cell.Reverse(true)
		}
		if i.focused && idx == i.cursor {
			cell = cell.Reverse(true)
		}
		t.SetContent(x, bounds.Y, r, nil, cell)
		x += rw
	}

	// Cursor past the last rune renders on the trailing blank cell.
	if i.focused && i.cursor == len(i.text) && x < maxX {
		t.SetContent(x, bounds.Y, ' ', nil, style.Reverse(true))
	}
}

var (
	_ focus.Focusable     = (*Input)(nil)
	_ focus.KeyHandler    = (*Input)(nil)
	_ keynav.TextEditable = (*Input)(nil)
)
