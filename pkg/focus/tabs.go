package focus

import "github.com/odvcencio/rove/pkg/tree"

// tabStops collects the focusable tab stops under root in document
// order.
func tabStops(root *tree.Node) []*tree.Node {
	var stops []*tree.Node
	tree.Walk(root, func(n *tree.Node) bool {
		if n.Focusable() && n.TabStop() {
			stops = append(stops, n)
		}
		return true
	})
	return stops
}

// NextTabStop returns the tab stop that follows from in document
// order, wrapping at the ends, or nil when root holds no tab stops.
// When from is nil or not itself a tab stop, the first (or last, going
// backward) stop is returned. Event loops use this for Tab presses
// nothing consumed.
func NextTabStop(root, from *tree.Node, backward bool) *tree.Node {
	stops := tabStops(root)
	if len(stops) == 0 {
		return nil
	}

	at := -1
	for i, s := range stops {
		if s == from {
			at = i
			break
		}
	}
	if at < 0 {
		// From outside the stop list, enter at the near end. When the
		// holder is a non-stop node inside the tree, find the stop
		// that follows it in document order.
		if from != nil && root.Contains(from) {
			for i, s := range stops {
				if tree.Compare(s, from) > 0 {
					if backward {
						if i == 0 {
							return stops[len(stops)-1]
						}
						return stops[i-1]
					}
					return stops[i]
				}
			}
			if backward {
				return stops[len(stops)-1]
			}
			return stops[0]
		}
		if backward {
			return stops[len(stops)-1]
		}
		return stops[0]
	}

	if backward {
		return stops[(at-1+len(stops))%len(stops)]
	}
	return stops[(at+1)%len(stops)]
}
