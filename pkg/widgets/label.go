package widgets

import "github.com/odvcencio/rove/pkg/backend"

// Label is a static line of text.
type Label struct {
	Base

	text  string
	style backend.Style
}

// NewLabel creates a label with the given text.
func NewLabel(text string) *Label {
	l := &Label{
		text:  text,
		style: backend.DefaultStyle(),
	}
	l.bindNode(l)
	return l
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}

// SetText replaces the label text.
func (l *Label) SetText(text string) {
	l.text = text
}

// SetStyle sets the render style.
func (l *Label) SetStyle(style backend.Style) {
	l.style = style
}

// Render draws the label.
func (l *Label) Render(t backend.RenderTarget) {
	if l.bounds.Width == 0 || l.bounds.Height == 0 {
		return
	}
	fillRect(t, l.bounds, ' ', l.style)
	drawString(t, l.bounds, l.bounds.X, l.bounds.Y, truncate(l.text, l.bounds.Width), l.style)
}
