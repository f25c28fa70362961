package keynav

import (
	"github.com/odvcencio/rove/pkg/platform"
	"github.com/odvcencio/rove/pkg/terminal"
	"github.com/odvcencio/rove/pkg/tree"
)

// suppressed reports whether a bound key must be ignored because of
// what the focused widget would do with it. focused is the node that
// actually holds real focus.
func suppressed(ev terminal.KeyEvent, focused *tree.Node, jump platform.Modifier) bool {
	if focused == nil {
		return false
	}
	payload := focused.Payload()

	if _, ok := payload.(OptionChooser); ok {
		if ev.Key == terminal.KeyDown && !jump.Held(ev) {
			return true
		}
		if insertsText(ev) {
			return true
		}
	}

	ed, ok := payload.(TextEditable)
	if !ok {
		return false
	}
	if insertsText(ev) {
		return true
	}

	multi := ed.Multiline()
	switch ev.Key {
	case terminal.KeyHome, terminal.KeyEnd:
		if !multi {
			return true
		}
	case terminal.KeyPageUp, terminal.KeyPageDown:
		if multi {
			return true
		}
	case terminal.KeyLeft:
		// Leaving leftward is fine only once the cursor has nowhere
		// left to go.
		if !ed.CursorAtStart() || ed.HasSelection() {
			return true
		}
	case terminal.KeyRight:
		if !ed.CursorAtEnd() || ed.HasSelection() {
			return true
		}
	case terminal.KeyUp:
		if multi && !ed.CursorAtStart() {
			return true
		}
	case terminal.KeyDown:
		if multi && !ed.CursorAtEnd() {
			return true
		}
	}
	return false
}
