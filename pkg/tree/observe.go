package tree

// Mutation describes one structural change. Added and Removed hold the
// roots of inserted or detached subtrees, not every node within them.
type Mutation struct {
	Added   []*Node
	Removed []*Node
}

type observer struct {
	fn        func(Mutation)
	cancelled bool
}

// Observe registers fn to run after every structural mutation within
// the subtree rooted at n. Delivery is synchronous, on the goroutine
// performing the mutation, after the tree already reflects the change.
// The returned function cancels the registration.
func (n *Node) Observe(fn func(Mutation)) func() {
	ob := &observer{fn: fn}
	n.observers = append(n.observers, ob)
	return func() {
		ob.cancelled = true
		for i, o := range n.observers {
			if o == ob {
				n.observers = append(n.observers[:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

// notify delivers m to observers on n and every ancestor. The observer
// list is snapshotted per node so registrations cancelled during
// delivery are skipped and additions do not receive the current batch.
func (n *Node) notify(m Mutation) {
	for p := n; p != nil; p = p.parent {
		if len(p.observers) == 0 {
			continue
		}
		snapshot := make([]*observer, len(p.observers))
		copy(snapshot, p.observers)
		for _, ob := range snapshot {
			if !ob.cancelled {
				ob.fn(m)
			}
		}
	}
}
