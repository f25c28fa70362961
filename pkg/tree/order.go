package tree

// Walk visits n and its descendants in document order, pre-order,
// children before siblings. Returning false from fn stops the walk.
func Walk(n *Node, fn func(*Node) bool) {
	walk(n, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// path returns the child-index route from the root of n's tree down to
// n. The root itself has an empty path.
func path(n *Node) []int {
	var rev []int
	for p := n; p.parent != nil; p = p.parent {
		rev = append(rev, p.parent.childIndex(p))
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// Compare orders two nodes of the same tree by document position.
// It returns a negative value when a precedes b, zero when a == b, and
// a positive value when a follows b. An ancestor precedes its
// descendants. Nodes of different trees compare by path shape only;
// callers are expected to compare within one tree.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	pa, pb := path(a), path(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			return pa[i] - pb[i]
		}
	}
	return len(pa) - len(pb)
}

// IsFocusable reports whether n can take real focus right now.
func IsFocusable(n *Node) bool {
	return n != nil && n.focusable
}

// FocusableDescendants returns the focusable nodes strictly below root,
// in document order.
func FocusableDescendants(root *Node) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if n != root && n.focusable {
			out = append(out, n)
		}
		return true
	})
	return out
}
