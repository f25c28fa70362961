// Package platform resolves host platform capabilities the navigation
// engine depends on. Callers resolve once at construction rather than
// querying per event.
package platform

import (
	"runtime"

	"github.com/odvcencio/rove/pkg/terminal"
)

// Modifier identifies which modifier key acts as the "jump to boundary"
// escape hatch for bound navigation keys.
type Modifier int

const (
	ModifierCtrl Modifier = iota
	ModifierMeta
)

// String returns the modifier name.
func (m Modifier) String() string {
	if m == ModifierMeta {
		return "meta"
	}
	return "ctrl"
}

// Held reports whether this modifier is held in the given key event.
func (m Modifier) Held(ev terminal.KeyEvent) bool {
	if m == ModifierMeta {
		return ev.Meta
	}
	return ev.Ctrl
}

// JumpModifier returns the jump modifier for the running platform:
// Meta on darwin, Ctrl everywhere else.
func JumpModifier() Modifier {
	return JumpModifierFor(runtime.GOOS)
}

// JumpModifierFor resolves the jump modifier for an explicit GOOS value.
func JumpModifierFor(goos string) Modifier {
	if goos == "darwin" {
		return ModifierMeta
	}
	return ModifierCtrl
}
