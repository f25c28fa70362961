// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen

	// Bracketed paste state
	inPaste     bool
	pasteBuffer strings.Builder
}

// New creates a new tcell backend.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen creates a backend over an existing tcell screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse()
	b.screen.EnablePaste()
	return nil
}

// Fini cleans up the backend.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// SetCursorPos shows the cursor at the given position.
func (b *Backend) SetCursorPos(x, y int) {
	b.screen.ShowCursor(x, y)
}

// PollEvent blocks until an event is available.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		// Bracketed paste state machine
		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}

		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if out := convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent injects an event into the queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	if tev := reverseConvertEvent(ev); tev != nil {
		return b.screen.PostEvent(tev)
	}
	return nil
}

// Beep emits an audible bell.
func (b *Backend) Beep() {
	b.screen.Beep()
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// convertStyle converts backend.Style to tcell.Style.
func convertStyle(s backend.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(convertColor(s.FG)).
		Background(convertColor(s.BG))

	if s.Attrs&backend.AttrBold != 0 {
		style = style.Bold(true)
	}
	if s.Attrs&backend.AttrDim != 0 {
		style = style.Dim(true)
	}
	if s.Attrs&backend.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if s.Attrs&backend.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if s.Attrs&backend.AttrReverse != 0 {
		style = style.Reverse(true)
	}

	return style
}

// convertColor converts backend.Color to tcell.Color.
func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

// convertEvent converts a tcell event to terminal.Event.
func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKeyEvent(e)
	case *tcell.EventInterrupt:
		if wake, ok := e.Data().(terminal.WakeEvent); ok {
			return wake
		}
		return terminal.WakeEvent{}
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := e.Position()
		mods := e.Modifiers()
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: convertMouseButton(e.Buttons()),
			Action: convertMouseAction(e.Buttons()),
			Alt:    mods&tcell.ModAlt != 0,
			Ctrl:   mods&tcell.ModCtrl != 0,
			Shift:  mods&tcell.ModShift != 0,
			Meta:   mods&tcell.ModMeta != 0,
		}
	default:
		return nil
	}
}

// convertKeyEvent normalizes tcell key events: backtab becomes Tab+Shift,
// and Ctrl+letter chords become KeyRune with Ctrl set, so consumers see
// one uniform shape for modified keys.
func convertKeyEvent(e *tcell.EventKey) terminal.Event {
	mods := e.Modifiers()
	out := terminal.KeyEvent{
		Rune:  e.Rune(),
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
		Meta:  mods&tcell.ModMeta != 0,
	}

	k := e.Key()
	if k == tcell.KeyBacktab {
		out.Key = terminal.KeyTab
		out.Shift = true
		return out
	}
	if key, ok := convertKey(k); ok {
		out.Key = key
		return out
	}
	if r, ok := ctrlLetter(k); ok {
		out.Key = terminal.KeyRune
		out.Rune = r
		out.Ctrl = true
		return out
	}
	return nil
}

// convertKey maps the named tcell keys onto terminal.Key.
func convertKey(k tcell.Key) (terminal.Key, bool) {
	switch k {
	case tcell.KeyRune:
		return terminal.KeyRune, true
	case tcell.KeyUp:
		return terminal.KeyUp, true
	case tcell.KeyDown:
		return terminal.KeyDown, true
	case tcell.KeyRight:
		return terminal.KeyRight, true
	case tcell.KeyLeft:
		return terminal.KeyLeft, true
	case tcell.KeyPgUp:
		return terminal.KeyPageUp, true
	case tcell.KeyPgDn:
		return terminal.KeyPageDown, true
	case tcell.KeyHome:
		return terminal.KeyHome, true
	case tcell.KeyEnd:
		return terminal.KeyEnd, true
	case tcell.KeyInsert:
		return terminal.KeyInsert, true
	case tcell.KeyDelete:
		return terminal.KeyDelete, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return terminal.KeyBackspace, true
	case tcell.KeyTab:
		return terminal.KeyTab, true
	case tcell.KeyEnter:
		return terminal.KeyEnter, true
	case tcell.KeyEscape:
		return terminal.KeyEscape, true
	case tcell.KeyF1:
		return terminal.KeyF1, true
	case tcell.KeyF2:
		return terminal.KeyF2, true
	case tcell.KeyF3:
		return terminal.KeyF3, true
	case tcell.KeyF4:
		return terminal.KeyF4, true
	case tcell.KeyF5:
		return terminal.KeyF5, true
	case tcell.KeyF6:
		return terminal.KeyF6, true
	case tcell.KeyF7:
		return terminal.KeyF7, true
	case tcell.KeyF8:
		return terminal.KeyF8, true
	case tcell.KeyF9:
		return terminal.KeyF9, true
	case tcell.KeyF10:
		return terminal.KeyF10, true
	case tcell.KeyF11:
		return terminal.KeyF11, true
	case tcell.KeyF12:
		return terminal.KeyF12, true
	default:
		return terminal.KeyNone, false
	}
}

// ctrlLetter maps remaining C0 control keys onto the letter they chord.
// Tab, Enter, Backspace and Escape alias into this range and are handled
// before this is consulted.
func ctrlLetter(k tcell.Key) (rune, bool) {
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return 'a' + rune(k-tcell.KeyCtrlA), true
	}
	return 0, false
}

// convertMouseButton converts a tcell button mask to terminal.MouseButton.
func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

// convertMouseAction determines the mouse action from button state.
func convertMouseAction(buttons tcell.ButtonMask) terminal.MouseAction {
	if buttons == tcell.ButtonNone {
		return terminal.MouseRelease
	}
	return terminal.MousePress
}

// reverseConvertEvent converts terminal.Event to tcell.Event for PostEvent.
func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.WakeEvent:
		return tcell.NewEventInterrupt(e)
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	case terminal.KeyEvent:
		var mods tcell.ModMask
		if e.Alt {
			mods |= tcell.ModAlt
		}
		if e.Ctrl {
			mods |= tcell.ModCtrl
		}
		if e.Shift {
			mods |= tcell.ModShift
		}
		if e.Meta {
			mods |= tcell.ModMeta
		}
		return tcell.NewEventKey(reverseConvertKey(e), e.Rune, mods)
	default:
		return nil
	}
}

// reverseConvertKey maps terminal.Key back to the tcell constant.
func reverseConvertKey(e terminal.KeyEvent) tcell.Key {
	switch e.Key {
	case terminal.KeyRune:
		return tcell.KeyRune
	case terminal.KeyUp:
		return tcell.KeyUp
	case terminal.KeyDown:
		return tcell.KeyDown
	case terminal.KeyLeft:
		return tcell.KeyLeft
	case terminal.KeyRight:
		return tcell.KeyRight
	case terminal.KeyPageUp:
		return tcell.KeyPgUp
	case terminal.KeyPageDown:
		return tcell.KeyPgDn
	case terminal.KeyHome:
		return tcell.KeyHome
	case terminal.KeyEnd:
		return tcell.KeyEnd
	case terminal.KeyInsert:
		return tcell.KeyInsert
	case terminal.KeyDelete:
		return tcell.KeyDelete
	case terminal.KeyBackspace:
		return tcell.KeyBackspace2
	case terminal.KeyTab:
		if e.Shift {
			return tcell.KeyBacktab
		}
		return tcell.KeyTab
	case terminal.KeyEnter:
		return tcell.KeyEnter
	case terminal.KeyEscape:
		return tcell.KeyEscape
	default:
		return tcell.KeyRune
	}
}

// Ensure Backend implements backend.Backend
var _ backend.Backend = (*Backend)(nil)
