package keynav

// Edge reports which boundary a movement ran into when it clamped
// instead of moving.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeStart
	EdgeEnd
)

// next computes the destination index for a movement over n tracked
// elements. Tab presses never wrap, whatever wrap says. The returned
// Edge is non-zero only when the movement clamped at a boundary.
func next(current, n int, m Movement, wrap, isTab bool) (int, Edge) {
	if n <= 0 {
		return -1, EdgeNone
	}
	if current < 0 {
		current = 0
	} else if current >= n {
		current = n - 1
	}

	var raw int
	switch {
	case m.ToBoundary && m.Direction == DirPrevious:
		raw = 0
	case m.ToBoundary:
		raw = n - 1
	case m.Direction == DirPrevious:
		raw = current - 1
	default:
		raw = current + 1
	}

	if raw < 0 {
		if wrap && !isTab {
			return n - 1, EdgeNone
		}
		return 0, EdgeStart
	}
	if raw >= n {
		if wrap && !isTab {
			return 0, EdgeNone
		}
		return n - 1, EdgeEnd
	}
	return raw, EdgeNone
}
