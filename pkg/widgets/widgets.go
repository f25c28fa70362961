// Package widgets provides composite terminal widgets backed by element
// tree nodes. Every widget owns a *tree.Node whose payload points back at
// the widget, so the focus host and navigation controllers can reach
// widget behavior (text editing, option choosing) through the node.
package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/tree"
)

// Rect is a rectangle in screen cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersection returns the overlapping region of two rectangles. The
// result has zero width or height when they do not overlap.
func (r Rect) Intersection(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Widget is the common surface shared by all widgets.
type Widget interface {
	// Node returns the element tree node backing this widget.
	Node() *tree.Node
	// Layout stores the assigned screen bounds.
	Layout(bounds Rect)
	// Bounds returns the widget's assigned bounds.
	Bounds() Rect
	// Render draws the widget into its bounds.
	Render(t backend.RenderTarget)
}

// Base provides common widget state. Widget constructors call bindNode
// with the outer widget so events routed through the node reach it.
type Base struct {
	node    *tree.Node
	bounds  Rect
	focused bool
}

func (b *Base) bindNode(payload any) {
	b.node = tree.New()
	b.node.SetPayload(payload)
}

// Node returns the element tree node backing this widget.
func (b *Base) Node() *tree.Node {
	return b.node
}

// Layout stores the assigned bounds.
func (b *Base) Layout(bounds Rect) {
	b.bounds = bounds
}

// Bounds returns the widget's assigned bounds.
func (b *Base) Bounds() Rect {
	return b.bounds
}

// Focus marks the widget as focused.
func (b *Base) Focus() {
	b.focused = true
}

// Blur marks the widget as unfocused.
func (b *Base) Blur() {
	b.focused = false
}

// IsFocused reports whether the widget holds real focus.
func (b *Base) IsFocused() bool {
	return b.focused
}

// FocusableBase extends Base for widgets that accept real focus.
type FocusableBase struct {
	Base
}

func (f *FocusableBase) bindNode(payload any) {
	f.Base.bindNode(payload)
	f.node.SetFocusable(true)
}

// drawString draws text on one row, clipped to bounds, advancing by
// display width so wide runes occupy two cells. Returns the x position
// after the last drawn cell.
func drawString(t backend.RenderTarget, bounds Rect, x, y int, s string, style backend.Style) int {
	if y < bounds.Y || y >= bounds.Y+bounds.Height {
		return x
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > bounds.X+bounds.Width {
			break
		}
		if x >= bounds.X {
			t.SetContent(x, y, r, nil, style)
		}
		x += w
	}
	return x
}

// fillRect fills a rectangle with a character.
func fillRect(t backend.RenderTarget, bounds Rect, ch rune, style backend.Style) {
	for y := bounds.Y; y < bounds.Y+bounds.Height; y++ {
		for x := bounds.X; x < bounds.X+bounds.Width; x++ {
			t.SetContent(x, y, ch, nil, style)
		}
	}
}

// truncate shortens a string to fit maxWidth display cells, appending an
// ellipsis when truncated.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
