package widgets

import "github.com/odvcencio/rove/pkg/tree"

// HitGrid maps screen cells to element nodes for pointer dispatch. The
// event loop rebuilds it each frame and resolves mouse presses through
// NodeAt before handing them to the focus host.
type HitGrid struct {
	width  int
	height int
	cells  []int
	nodes  []*tree.Node
}

// NewHitGrid creates a hit grid with the given dimensions.
func NewHitGrid(width, height int) *HitGrid {
	g := &HitGrid{}
	g.Resize(width, height)
	return g
}

// Resize updates the grid dimensions.
func (g *HitGrid) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width = width
	g.height = height
	size := width * height
	if size <= 0 {
		g.cells = nil
		g.nodes = nil
		return
	}
	g.cells = make([]int, size)
	g.Clear()
}

// Clear resets the grid contents.
func (g *HitGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = -1
	}
	g.nodes = g.nodes[:0]
}

// Add records a node occupying the given bounds. Later additions win on
// overlap.
func (g *HitGrid) Add(n *tree.Node, bounds Rect) {
	if n == nil || g.width <= 0 || g.height <= 0 {
		return
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	bounds = bounds.Intersection(Rect{X: 0, Y: 0, Width: g.width, Height: g.height})
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	id := len(g.nodes)
	g.nodes = append(g.nodes, n)

	for y := bounds.Y; y < bounds.Y+bounds.Height; y++ {
		row := y * g.width
		for x := bounds.X; x < bounds.X+bounds.Width; x++ {
			g.cells[row+x] = id
		}
	}
}

// AddWidget records a widget's node under its current bounds.
func (g *HitGrid) AddWidget(w Widget) {
	if w == nil {
		return
	}
	g.Add(w.Node(), w.Bounds())
}

// NodeAt returns the node at the given screen position, or nil.
func (g *HitGrid) NodeAt(x, y int) *tree.Node {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	idx := g.cells[y*g.width+x]
	if idx < 0 || idx >= len(g.nodes) {
		return nil
	}
	return g.nodes[idx]
}
