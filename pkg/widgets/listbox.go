package widgets

import (
	"slices"

	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/keynav"
	"github.com/odvcencio/rove/pkg/terminal"
)

// ListBox is a roving-focus list. Its options are focusable children of
// the list node; attaching wires a navigation controller over them so
// exactly one option is the tab stop at any time.
type ListBox struct {
	Base

	options []*Option

	ctrl      *keynav.Controller
	cancelKey func()

	onSelect func(index int, option *Option)
}

// NewListBox creates an empty list.
func NewListBox() *ListBox {
	l := &ListBox{}
	l.bindNode(l)
	return l
}

// OnSelect sets the callback for when Enter activates the focused
// option.
func (l *ListBox) OnSelect(fn func(index int, option *Option)) {
	l.onSelect = fn
}

// Add appends an option with the given label and returns it.
func (l *ListBox) Add(label string) *Option {
	opt := NewOption(label)
	l.node.Append(opt.Node())
	l.options = append(l.options, opt)
	return opt
}

// Insert inserts an option at idx, clamped into range, and returns it.
func (l *ListBox) Insert(idx int, label string) *Option {
	if idx < 0 {
		idx = 0
	}
	if idx > len(l.options) {
		idx = len(l.options)
	}
	opt := NewOption(label)
	l.node.InsertAt(idx, opt.Node())
	l.options = slices.Insert(l.options, idx, opt)
	return opt
}

// RemoveAt removes the option at idx. The attached controller observes
// the structural change and retires the option.
func (l *ListBox) RemoveAt(idx int) {
	if idx < 0 || idx >= len(l.options) {
		return
	}
	l.node.Remove(l.options[idx].Node())
	l.options = slices.Delete(l.options, idx, idx+1)
}

// Options returns the current options in order.
func (l *ListBox) Options() []*Option {
	return slices.Clone(l.options)
}

// Len returns the number of options.
func (l *ListBox) Len() int {
	return len(l.options)
}

// FocusedIndex returns the index of the option holding real focus, or
// -1.
func (l *ListBox) FocusedIndex() int {
	for i, opt := range l.options {
		if opt.IsFocused() {
			return i
		}
	}
	return -1
}

// Attach wires keyboard navigation over the list. The options become the
// tracked collection of a roving-tabindex controller.
func (l *ListBox) Attach(host *focus.Host, opts keynav.Options) error {
	opts.Controlling = nil
	ctrl, err := keynav.Attach(l.node, host, opts)
	if err != nil {
		return err
	}
	l.ctrl = ctrl
	l.cancelKey = host.OnKey(l.node, func(ev terminal.KeyEvent) bool {
		if ev.Key != terminal.KeyEnter {
			return false
		}
		idx := l.FocusedIndex()
		if idx < 0 {
			return false
		}
		if l.onSelect != nil {
			l.onSelect(idx, l.options[idx])
		}
		return true
	})
	return nil
}

// Controller returns the attached navigation controller, or nil.
func (l *ListBox) Controller() *keynav.Controller {
	return l.ctrl
}

// Close detaches the navigation controller and key handler.
func (l *ListBox) Close() {
	if l.cancelKey != nil {
		l.cancelKey()
		l.cancelKey = nil
	}
	if l.ctrl != nil {
		l.ctrl.Close()
		l.ctrl = nil
	}
}

// Layout assigns one row per option from the top of the bounds.
func (l *ListBox) Layout(bounds Rect) {
	l.bounds = bounds
	for i, opt := range l.options {
		row := Rect{X: bounds.X, Y: bounds.Y + i, Width: bounds.Width, Height: 1}
		if i >= bounds.Height {
			row = Rect{}
		}
		opt.Layout(row)
	}
}

// Render draws the visible options.
func (l *ListBox) Render(t backend.RenderTarget) {
	if l.bounds.Width == 0 || l.bounds.Height == 0 {
		return
	}
	fillRect(t, l.bounds, ' ', backend.DefaultStyle())
	for _, opt := range l.options {
		opt.Render(t)
	}
}
