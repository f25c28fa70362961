package keynav

import (
	"slices"
	"sort"

	"github.com/odvcencio/rove/pkg/tree"
)

// tracker owns the tracked elements in document order plus the
// per-element bookkeeping that lives beside them. Side tables are
// keyed by node identity, never stored on the node.
type tracker struct {
	nodes   []*tree.Node
	current int // index into nodes, -1 while empty

	// savedStops holds each element's tab-stop value from before it
	// was offered. Entries are dropped on retirement and are never
	// written back; ever survives retirement so a detached element
	// that returns is recognized.
	savedStops map[*tree.Node]bool
	ever       map[*tree.Node]struct{}

	filter func(*tree.Node) bool
	// manageStops is set in roving mode, where the tracker owns the
	// single tab stop.
	manageStops bool
}

func newTracker(filter func(*tree.Node) bool, manageStops bool) *tracker {
	return &tracker{
		current:     -1,
		savedStops:  make(map[*tree.Node]bool),
		ever:        make(map[*tree.Node]struct{}),
		filter:      filter,
		manageStops: manageStops,
	}
}

func (t *tracker) len() int { return len(t.nodes) }

// node returns the element at index i, or nil when out of range.
func (t *tracker) node(i int) *tree.Node {
	if i < 0 || i >= len(t.nodes) {
		return nil
	}
	return t.nodes[i]
}

func (t *tracker) indexOf(n *tree.Node) int {
	for i, x := range t.nodes {
		if x == n {
			return i
		}
	}
	return -1
}

func (t *tracker) tracked(n *tree.Node) bool {
	return t.indexOf(n) >= 0
}

func (t *tracker) everTracked(n *tree.Node) bool {
	_, ok := t.ever[n]
	return ok
}

// offer inserts the batch members that pass the filter and are not
// already tracked. The batch is expected in document order, the way a
// subtree walk produces it, so one sorted insertion point serves the
// whole batch: O(batch + log N) rather than O(batch * N). The filter
// runs once per element, here, and never again. Returns the number of
// elements inserted.
func (t *tracker) offer(batch []*tree.Node) int {
	var add []*tree.Node
	for _, n := range batch {
		if n == nil || t.tracked(n) {
			continue
		}
		if t.filter != nil && !t.filter(n) {
			continue
		}
		add = append(add, n)
	}
	if len(add) == 0 {
		return 0
	}

	var curNode *tree.Node
	if t.current >= 0 {
		curNode = t.nodes[t.current]
	}

	ip := sort.Search(len(t.nodes), func(i int) bool {
		return tree.Compare(t.nodes[i], add[0]) > 0
	})

	for _, n := range add {
		t.ever[n] = struct{}{}
		t.savedStops[n] = n.TabStop()
		if t.manageStops {
			n.SetTabStop(false)
		}
	}
	t.nodes = slices.Insert(t.nodes, ip, add...)

	if curNode != nil {
		t.current = t.indexOf(curNode)
	} else {
		t.current = 0
		if t.manageStops {
			t.nodes[0].SetTabStop(true)
		}
	}
	return len(add)
}

// retire removes n from tracking. When n held the current marker,
// ownership transfers to the element now at position 0. The
// ever-tracked record survives so the element is re-offered if it
// comes back.
func (t *tracker) retire(n *tree.Node) bool {
	i := t.indexOf(n)
	if i < 0 {
		return false
	}
	delete(t.savedStops, n)
	t.nodes = append(t.nodes[:i], t.nodes[i+1:]...)

	switch {
	case len(t.nodes) == 0:
		t.current = -1
	case i == t.current:
		t.current = 0
		if t.manageStops {
			t.nodes[0].SetTabStop(true)
		}
	case i < t.current:
		t.current--
	}
	return true
}
