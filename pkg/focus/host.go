// Package focus tracks which tree node holds real focus and routes
// input to it. Key and pointer events bubble from the target node up
// through its ancestors, so containers can observe and consume events
// aimed at their descendants before the focused widget's own default
// action runs.
package focus

import (
	"github.com/odvcencio/rove/pkg/terminal"
	"github.com/odvcencio/rove/pkg/tree"
)

// Focusable is implemented by node payloads that want to know when
// real focus arrives or leaves.
type Focusable interface {
	Focus()
	Blur()
}

// KeyHandler is implemented by node payloads with a default key action,
// such as text editing. The default action runs only when no bubbling
// handler consumed the event.
type KeyHandler interface {
	HandleKey(ev terminal.KeyEvent) bool
}

type focusReg struct {
	scope     *tree.Node
	fn        func(cur, prev *tree.Node)
	cancelled bool
}

type keyReg struct {
	scope     *tree.Node
	fn        func(terminal.KeyEvent) bool
	cancelled bool
}

type pointerReg struct {
	scope     *tree.Node
	fn        func(*tree.Node) bool
	cancelled bool
}

// Host owns the single focus position for a tree of nodes and
// dispatches input events against it. All methods are intended for one
// goroutine, typically the event loop.
type Host struct {
	current *tree.Node

	focusRegs   []*focusReg
	keyRegs     []*keyReg
	pointerRegs []*pointerReg
}

// NewHost returns a host with nothing focused.
func NewHost() *Host {
	return &Host{}
}

// Current returns the focused node, or nil.
func (h *Host) Current() *tree.Node {
	return h.current
}

// SetFocus moves real focus to n. Passing nil clears focus. A node
// that is not focusable is ignored. Focus-change handlers run
// synchronously; a handler may itself call SetFocus, in which case the
// nested call completes first and the host ends up on the nested
// target.
func (h *Host) SetFocus(n *tree.Node) {
	if n == h.current {
		return
	}
	if n != nil && !n.Focusable() {
		return
	}

	prev := h.current
	h.current = n

	if prev != nil {
		if f, ok := prev.Payload().(Focusable); ok {
			f.Blur()
		}
	}
	if n != nil {
		if f, ok := n.Payload().(Focusable); ok {
			f.Focus()
		}
	}

	snapshot := make([]*focusReg, len(h.focusRegs))
	copy(snapshot, h.focusRegs)
	for _, reg := range snapshot {
		if reg.cancelled || !inScope(reg.scope, n, prev) {
			continue
		}
		reg.fn(n, prev)
	}
}

// inScope reports whether a transition touching cur or prev is visible
// from scope. A nil scope sees every transition.
func inScope(scope, cur, prev *tree.Node) bool {
	if scope == nil {
		return true
	}
	return (cur != nil && scope.Contains(cur)) || (prev != nil && scope.Contains(prev))
}

// OnFocusChange registers fn to run after focus transitions that enter
// or leave the subtree rooted at scope. A nil scope observes every
// transition. The returned function cancels the registration.
func (h *Host) OnFocusChange(scope *tree.Node, fn func(cur, prev *tree.Node)) func() {
	reg := &focusReg{scope: scope, fn: fn}
	h.focusRegs = append(h.focusRegs, reg)
	return func() {
		reg.cancelled = true
		for i, r := range h.focusRegs {
			if r == reg {
				h.focusRegs = append(h.focusRegs[:i], h.focusRegs[i+1:]...)
				return
			}
		}
	}
}

// OnKey registers a bubbling key handler at scope. The handler runs
// when a key event's target is inside scope, after handlers scoped
// deeper in the tree. Returning true consumes the event. A nil scope
// registers a catch-all that runs after the bubble chain.
func (h *Host) OnKey(scope *tree.Node, fn func(terminal.KeyEvent) bool) func() {
	reg := &keyReg{scope: scope, fn: fn}
	h.keyRegs = append(h.keyRegs, reg)
	return func() {
		reg.cancelled = true
		for i, r := range h.keyRegs {
			if r == reg {
				h.keyRegs = append(h.keyRegs[:i], h.keyRegs[i+1:]...)
				return
			}
		}
	}
}

// DispatchKey routes ev to the focused node: bubbling handlers from
// the focused node up to its root, then catch-all handlers, then the
// focused payload's default action. It reports whether anything
// consumed the event.
func (h *Host) DispatchKey(ev terminal.KeyEvent) bool {
	snapshot := make([]*keyReg, len(h.keyRegs))
	copy(snapshot, h.keyRegs)

	for p := h.current; p != nil; p = p.Parent() {
		for _, reg := range snapshot {
			if reg.cancelled || reg.scope != p {
				continue
			}
			if reg.fn(ev) {
				return true
			}
		}
	}
	for _, reg := range snapshot {
		if reg.cancelled || reg.scope != nil {
			continue
		}
		if reg.fn(ev) {
			return true
		}
	}

	if h.current != nil {
		if kh, ok := h.current.Payload().(KeyHandler); ok {
			return kh.HandleKey(ev)
		}
	}
	return false
}

// OnPointerDown registers a bubbling pointer handler at scope. The
// handler runs for presses on nodes inside scope. Returning true
// suppresses the focus-on-press default without stopping other
// handlers. A nil scope observes every press.
func (h *Host) OnPointerDown(scope *tree.Node, fn func(target *tree.Node) bool) func() {
	reg := &pointerReg{scope: scope, fn: fn}
	h.pointerRegs = append(h.pointerRegs, reg)
	return func() {
		reg.cancelled = true
		for i, r := range h.pointerRegs {
			if r == reg {
				h.pointerRegs = append(h.pointerRegs[:i], h.pointerRegs[i+1:]...)
				return
			}
		}
	}
}

// PointerDown delivers a press on target. Every handler whose scope
// contains target runs; if none suppressed the default, focus moves to
// the nearest focusable node at or above target.
func (h *Host) PointerDown(target *tree.Node) {
	if target == nil {
		return
	}

	snapshot := make([]*pointerReg, len(h.pointerRegs))
	copy(snapshot, h.pointerRegs)

	prevented := false
	for _, reg := range snapshot {
		if reg.cancelled {
			continue
		}
		if reg.scope != nil && !reg.scope.Contains(target) {
			continue
		}
		if reg.fn(target) {
			prevented = true
		}
	}
	if prevented {
		return
	}

	for p := target; p != nil; p = p.Parent() {
		if p.Focusable() {
			h.SetFocus(p)
			return
		}
	}
}
