// Package tree provides the node tree composite widgets are built from.
// Nodes carry the structural and focus-related attributes the navigation
// engine reads and writes: identity, focusability, the tab-stop marker,
// and the active-descendant designation. Structural mutations notify
// subtree observers synchronously, in document order.
package tree

import (
	"github.com/oklog/ulid/v2"
)

// Node is one element of a widget tree.
type Node struct {
	id        string
	parent    *Node
	children  []*Node
	focusable bool
	tabStop   bool
	activeID  string
	payload   any

	observers []*observer
}

// New creates a detached node.
func New() *Node {
	return &Node{}
}

// ID returns the node identifier, or "" when none has been assigned.
func (n *Node) ID() string {
	return n.id
}

// SetID assigns an explicit identifier.
func (n *Node) SetID(id string) {
	n.id = id
}

// EnsureID returns the node identifier, stamping a generated one first
// if the node has none. Generated identifiers are unique per process.
func (n *Node) EnsureID() string {
	if n.id == "" {
		n.id = "rove-" + ulid.Make().String()
	}
	return n.id
}

// Payload returns the widget occupying this node, or nil.
func (n *Node) Payload() any {
	return n.payload
}

// SetPayload associates a widget with this node.
func (n *Node) SetPayload(p any) {
	n.payload = p
}

// Focusable reports whether the node accepts real focus.
func (n *Node) Focusable() bool {
	return n.focusable
}

// SetFocusable marks the node as accepting (or refusing) real focus.
func (n *Node) SetFocusable(v bool) {
	n.focusable = v
}

// TabStop reports whether the node participates in the Tab order.
func (n *Node) TabStop() bool {
	return n.tabStop
}

// SetTabStop sets Tab-order participation.
func (n *Node) SetTabStop(v bool) {
	n.tabStop = v
}

// ActiveDescendantID returns the identifier of the virtually focused
// descendant designated on this node, or "" when none.
func (n *Node) ActiveDescendantID() string {
	return n.activeID
}

// SetActiveDescendantID designates a virtually focused descendant by
// identifier. An empty string clears the designation.
func (n *Node) SetActiveDescendantID(id string) {
	n.activeID = id
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Root returns the topmost ancestor of the node (itself when detached).
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Append adds child as the last child of n. A child attached elsewhere
// is detached first, so observers on the old tree see the removal
// before observers on the new one see the insertion.
func (n *Node) Append(child *Node) {
	n.InsertAt(len(n.children), child)
}

// InsertAt inserts child at index i among n's children, clamping i into
// range. Inserting an ancestor of n is ignored.
func (n *Node) InsertAt(i int, child *Node) {
	if child == nil || child == n || child.Contains(n) {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
	n.notify(Mutation{Added: []*Node{child}})
}

// Remove detaches child from n. Does nothing when child is not a child
// of n.
func (n *Node) Remove(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			n.notify(Mutation{Removed: []*Node{child}})
			return
		}
	}
}

// Detach removes the node from its parent, if any.
func (n *Node) Detach() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

// childIndex returns the index of child among n's children, or -1.
func (n *Node) childIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}
