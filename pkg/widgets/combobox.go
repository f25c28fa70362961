package widgets

import (
	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/keynav"
	"github.com/odvcencio/rove/pkg/terminal"
	"github.com/odvcencio/rove/pkg/tree"
)

// ComboBox pairs an editable Input with a popup option list driven in
// active-descendant mode. Real focus stays on the input the whole time;
// Up and Down move a highlight through the options while typing keeps
// editing the text.
type ComboBox struct {
	Base

	input   *Input
	popup   *tree.Node
	options []*Option

	open    bool
	current *Option

	ctrl    *keynav.Controller
	cancels []func()

	onSelect func(value string)
}

// NewComboBox creates a combo box with an empty input and no options.
func NewComboBox() *ComboBox {
	c := &ComboBox{}
	c.bindNode(c)
	c.input = NewInput()
	c.node.Append(c.input.Node())
	c.popup = tree.New()
	c.node.Append(c.popup)
	return c
}

// Input returns the editable input element.
func (c *ComboBox) Input() *Input {
	return c.input
}

// Add appends an option with the given label and returns it.
func (c *ComboBox) Add(label string) *Option {
	opt := NewOption(label)
	c.popup.Append(opt.Node())
	c.options = append(c.options, opt)
	return opt
}

// Options returns the popup options in order.
func (c *ComboBox) Options() []*Option {
	out := make([]*Option, len(c.options))
	copy(out, c.options)
	return out
}

// OnSelect sets the callback for when an option is committed.
func (c *ComboBox) OnSelect(fn func(value string)) {
	c.onSelect = fn
}

// IsOpen reports whether the popup is showing.
func (c *ComboBox) IsOpen() bool {
	return c.open
}

// SetOpen shows or hides the popup.
func (c *ComboBox) SetOpen(open bool) {
	c.open = open
}

// Current returns the highlighted option, or nil while suspended.
func (c *ComboBox) Current() *Option {
	return c.current
}

// Value returns the input text.
func (c *ComboBox) Value() string {
	return c.input.Text()
}

// Attach wires active-descendant navigation over the options. The input
// becomes the controlling element: it keeps real focus while the
// controller moves the highlight.
func (c *ComboBox) Attach(host *focus.Host, opts keynav.Options) error {
	opts.Controlling = c.input.Node()
	userChange := opts.OnCurrentChange
	opts.OnCurrentChange = func(cur, prev *tree.Node) {
		c.applyCurrent(cur, prev)
		if userChange != nil {
			userChange(cur, prev)
		}
	}

	ctrl, err := keynav.Attach(c.node, host, opts)
	if err != nil {
		return err
	}
	c.ctrl = ctrl

	c.cancels = append(c.cancels,
		host.OnKey(c.input.Node(), func(ev terminal.KeyEvent) bool {
			switch ev.Key {
			case terminal.KeyEnter:
				if c.open && c.current != nil {
					c.commit(c.current)
					return true
				}
			case terminal.KeyEscape:
				if c.open {
					c.open = false
					return true
				}
			}
			return false
		}),
		host.OnFocusChange(c.node, func(cur, _ *tree.Node) {
			if cur == nil || !c.node.Contains(cur) {
				c.open = false
			}
		}),
		host.OnPointerDown(c.input.Node(), func(n *tree.Node) bool {
			if n == c.input.Node() {
				c.open = true
			}
			return false
		}),
		// The controller designates the pressed option before this
		// handler commits it.
		host.OnPointerDown(c.popup, func(n *tree.Node) bool {
			if opt := c.optionAt(n); opt != nil {
				c.commit(opt)
			}
			return false
		}),
	)
	return nil
}

// optionAt returns the popup option at or above n, or nil.
func (c *ComboBox) optionAt(n *tree.Node) *Option {
	for p := n; p != nil && p != c.popup; p = p.Parent() {
		if opt, ok := p.Payload().(*Option); ok {
			return opt
		}
	}
	return nil
}

// Controller returns the attached navigation controller, or nil.
func (c *ComboBox) Controller() *keynav.Controller {
	return c.ctrl
}

// Close detaches the navigation controller and handlers.
func (c *ComboBox) Close() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	if c.ctrl != nil {
		c.ctrl.Close()
		c.ctrl = nil
	}
}

func (c *ComboBox) applyCurrent(cur, prev *tree.Node) {
	if prev != nil {
		if opt, ok := prev.Payload().(*Option); ok {
			opt.SetHighlighted(false)
		}
	}
	if cur == nil {
		c.current = nil
		return
	}
	if opt, ok := cur.Payload().(*Option); ok {
		opt.SetHighlighted(true)
		c.current = opt
		c.open = true
	}
}

func (c *ComboBox) commit(opt *Option) {
	c.input.SetText(opt.Label())
	c.open = false
	if c.onSelect != nil {
		c.onSelect(opt.Label())
	}
}

// Layout places the input on the first row and, when open, one option
// per row below it.
func (c *ComboBox) Layout(bounds Rect) {
	c.bounds = bounds
	c.input.Layout(Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: 1})
	for i, opt := range c.options {
		row := Rect{X: bounds.X, Y: bounds.Y + 1 + i, Width: bounds.Width, Height: 1}
		if !c.open || 1+i >= bounds.Height {
			row = Rect{}
		}
		opt.Layout(row)
	}
}

// Render draws the input and, when open, the popup options.
func (c *ComboBox) Render(t backend.RenderTarget) {
	if c.bounds.Width == 0 || c.bounds.Height == 0 {
		return
	}
	c.input.Render(t)
	if !c.open {
		return
	}
	for _, opt := range c.options {
		opt.Render(t)
	}
}
