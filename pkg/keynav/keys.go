package keynav

import (
	"unicode"

	"github.com/odvcencio/rove/pkg/platform"
	"github.com/odvcencio/rove/pkg/terminal"
)

// Binding selects which key groups a controller responds to. Groups
// combine with bitwise OR.
type Binding uint16

const (
	// BindHorizontalArrows binds Left (previous) and Right (next).
	BindHorizontalArrows Binding = 1 << iota
	// BindVerticalArrows binds Up (previous) and Down (next).
	BindVerticalArrows
	// BindWASD binds w/a (previous) and s/d (next).
	BindWASD
	// BindIJKL binds i/j (previous) and k/l (next).
	BindIJKL
	// BindHomeEnd binds Home (first) and End (last).
	BindHomeEnd
	// BindPageKeys binds PageUp (first) and PageDown (last).
	BindPageKeys
	// BindTab binds Tab (next) and Shift+Tab (previous). Tab never
	// wraps, whatever the wrap setting.
	BindTab
)

const (
	// BindArrows covers both arrow axes.
	BindArrows = BindHorizontalArrows | BindVerticalArrows
	// BindGamerKeys covers both letter clusters.
	BindGamerKeys = BindWASD | BindIJKL
	// BindAll covers every group in the catalogue.
	BindAll = BindArrows | BindGamerKeys | BindHomeEnd | BindPageKeys | BindTab
)

// Direction is which way along the tracked order a movement goes.
type Direction int

const (
	DirPrevious Direction = iota
	DirNext
)

// Movement is a resolved navigation request: a direction, possibly
// jumping straight to that end of the order.
type Movement struct {
	Direction  Direction
	ToBoundary bool
}

// keyBinding is one catalogue entry: the group a key belongs to, the
// direction it requests, and whether it is inherently boundary-seeking.
type keyBinding struct {
	bit      Binding
	dir      Direction
	boundary bool
}

// lookup maps a key event to its catalogue entry. Letters match
// case-insensitively. The platform jump modifier is transparent for
// matching; any other modifier turns a letter into a chord the
// catalogue does not know.
func lookup(ev terminal.KeyEvent, jump platform.Modifier) (keyBinding, bool) {
	switch ev.Key {
	case terminal.KeyLeft:
		return keyBinding{BindHorizontalArrows, DirPrevious, false}, true
	case terminal.KeyRight:
		return keyBinding{BindHorizontalArrows, DirNext, false}, true
	case terminal.KeyUp:
		return keyBinding{BindVerticalArrows, DirPrevious, false}, true
	case terminal.KeyDown:
		return keyBinding{BindVerticalArrows, DirNext, false}, true
	case terminal.KeyHome:
		return keyBinding{BindHomeEnd, DirPrevious, true}, true
	case terminal.KeyEnd:
		return keyBinding{BindHomeEnd, DirNext, true}, true
	case terminal.KeyPageUp:
		return keyBinding{BindPageKeys, DirPrevious, true}, true
	case terminal.KeyPageDown:
		return keyBinding{BindPageKeys, DirNext, true}, true
	case terminal.KeyTab:
		if ev.Shift {
			return keyBinding{BindTab, DirPrevious, false}, true
		}
		return keyBinding{BindTab, DirNext, false}, true
	case terminal.KeyRune:
		if !plainRune(ev, jump) {
			return keyBinding{}, false
		}
		switch unicode.ToLower(ev.Rune) {
		case 'w', 'a':
			return keyBinding{BindWASD, DirPrevious, false}, true
		case 's', 'd':
			return keyBinding{BindWASD, DirNext, false}, true
		case 'i', 'j':
			return keyBinding{BindIJKL, DirPrevious, false}, true
		case 'k', 'l':
			return keyBinding{BindIJKL, DirNext, false}, true
		}
	}
	return keyBinding{}, false
}

// plainRune reports whether a rune event carries no modifiers other
// than, at most, the platform jump modifier.
func plainRune(ev terminal.KeyEvent, jump platform.Modifier) bool {
	if ev.Alt {
		return false
	}
	if jump == platform.ModifierMeta {
		return !ev.Ctrl
	}
	return !ev.Meta
}

// insertsText reports whether the key press would type a character
// into an editable field.
func insertsText(ev terminal.KeyEvent) bool {
	return ev.Key == terminal.KeyRune && !ev.Ctrl && !ev.Alt && !ev.Meta
}
