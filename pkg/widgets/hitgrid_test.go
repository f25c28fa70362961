package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/rove/pkg/tree"
)

func TestHitGrid_AddAndLookup(t *testing.T) {
	g := NewHitGrid(10, 5)
	n := tree.New()
	g.Add(n, Rect{X: 2, Y: 1, Width: 3, Height: 2})

	assert.Same(t, n, g.NodeAt(2, 1))
	assert.Same(t, n, g.NodeAt(4, 2))
	assert.Nil(t, g.NodeAt(5, 1), "the right edge is exclusive")
	assert.Nil(t, g.NodeAt(2, 3))
	assert.Nil(t, g.NodeAt(0, 0))
}

func TestHitGrid_OverlapLastWins(t *testing.T) {
	g := NewHitGrid(10, 5)
	under := tree.New()
	over := tree.New()
	g.Add(under, Rect{X: 0, Y: 0, Width: 10, Height: 5})
	g.Add(over, Rect{X: 3, Y: 1, Width: 2, Height: 2})

	assert.Same(t, over, g.NodeAt(3, 1))
	assert.Same(t, under, g.NodeAt(0, 0))
	assert.Same(t, under, g.NodeAt(5, 1))
}

func TestHitGrid_ClipsToGrid(t *testing.T) {
	g := NewHitGrid(4, 4)
	n := tree.New()
	g.Add(n, Rect{X: 2, Y: 2, Width: 10, Height: 10})

	assert.Same(t, n, g.NodeAt(3, 3))
	assert.Nil(t, g.NodeAt(1, 1))
}

func TestHitGrid_FullyOutside(t *testing.T) {
	g := NewHitGrid(4, 4)
	n := tree.New()
	g.Add(n, Rect{X: 10, Y: 10, Width: 3, Height: 3})

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Nil(t, g.NodeAt(x, y))
		}
	}
}

func TestHitGrid_OutOfRangeLookup(t *testing.T) {
	g := NewHitGrid(4, 4)
	n := tree.New()
	g.Add(n, Rect{X: 0, Y: 0, Width: 4, Height: 4})

	assert.Nil(t, g.NodeAt(-1, 0))
	assert.Nil(t, g.NodeAt(0, -1))
	assert.Nil(t, g.NodeAt(4, 0))
	assert.Nil(t, g.NodeAt(0, 4))
}

func TestHitGrid_Clear(t *testing.T) {
	g := NewHitGrid(4, 4)
	n := tree.New()
	g.Add(n, Rect{X: 0, Y: 0, Width: 2, Height: 2})

	g.Clear()
	assert.Nil(t, g.NodeAt(0, 0))

	// The grid is reusable after a clear.
	g.Add(n, Rect{X: 1, Y: 1, Width: 1, Height: 1})
	assert.Same(t, n, g.NodeAt(1, 1))
}

func TestHitGrid_Resize(t *testing.T) {
	g := NewHitGrid(4, 4)
	n := tree.New()
	g.Add(n, Rect{X: 0, Y: 0, Width: 4, Height: 4})

	g.Resize(8, 8)
	assert.Nil(t, g.NodeAt(0, 0), "resizing empties the grid")
	g.Add(n, Rect{X: 6, Y: 6, Width: 2, Height: 2})
	assert.Same(t, n, g.NodeAt(7, 7))

	g.Resize(8, 8)
	assert.Same(t, n, g.NodeAt(7, 7), "resizing to the same size keeps contents")
}

func TestHitGrid_ZeroSize(t *testing.T) {
	g := NewHitGrid(0, 0)
	n := tree.New()
	g.Add(n, Rect{X: 0, Y: 0, Width: 1, Height: 1})

	assert.Nil(t, g.NodeAt(0, 0))
}

func TestHitGrid_AddWidget(t *testing.T) {
	g := NewHitGrid(20, 10)
	lb := NewListBox()
	lb.Add("alpha")
	lb.Layout(Rect{X: 2, Y: 3, Width: 10, Height: 4})

	g.AddWidget(lb)
	require.Same(t, lb.Node(), g.NodeAt(5, 4))

	// Per-option rows resolve to the option when added after the list.
	g.AddWidget(lb.Options()[0])
	assert.Same(t, lb.Options()[0].Node(), g.NodeAt(2, 3))
	assert.Same(t, lb.Node(), g.NodeAt(2, 4))
}

func TestHitGrid_NilSafety(t *testing.T) {
	g := NewHitGrid(4, 4)
	g.Add(nil, Rect{X: 0, Y: 0, Width: 2, Height: 2})
	g.AddWidget(nil)

	assert.Nil(t, g.NodeAt(0, 0))
}
