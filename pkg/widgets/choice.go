package widgets

import (
	"unicode"

	"github.com/odvcencio/rove/pkg/backend"
	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/keynav"
	"github.com/odvcencio/rove/pkg/terminal"
)

// Select is an inline option chooser, the terminal equivalent of a
// collapsed select control. Down cycles forward through the values and
// typed characters jump to the first value with that initial letter,
// which is why navigation containers leave those keys to it.
type Select struct {
	FocusableBase

	values   []string
	selected int

	style      backend.Style
	focusStyle backend.Style

	onChange func(index int, value string)
}

// NewSelect creates a chooser over the given values.
func NewSelect(values []string) *Select {
	s := &Select{
		values:     values,
		style:      backend.DefaultStyle(),
		focusStyle: backend.DefaultStyle().Bold(true),
	}
	s.bindNode(s)
	s.node.SetTabStop(true)
	return s
}

// IsOptionChooser marks the widget as a select-style control.
func (s *Select) IsOptionChooser() {}

// SetStyle sets the normal style.
func (s *Select) SetStyle(style backend.Style) {
	s.style = style
}

// SetFocusStyle sets the style used while focused.
func (s *Select) SetFocusStyle(style backend.Style) {
	s.focusStyle = style
}

// OnChange sets the callback for when the selected value changes.
func (s *Select) OnChange(fn func(index int, value string)) {
	s.onChange = fn
}

// Value returns the selected value, or "" when there are none.
func (s *Select) Value() string {
	if len(s.values) == 0 {
		return ""
	}
	return s.values[s.selected]
}

// SelectedIndex returns the index of the selected value.
func (s *Select) SelectedIndex() int {
	return s.selected
}

// SetSelectedIndex selects the value at idx, clamped into range.
func (s *Select) SetSelectedIndex(idx int) {
	if len(s.values) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	}
	if idx != s.selected {
		s.selected = idx
		s.notifyChange()
	}
}

func (s *Select) notifyChange() {
	if s.onChange != nil {
		s.onChange(s.selected, s.values[s.selected])
	}
}

// HandleKey cycles the selection. Down moves forward, Up moves back, and
// a typed letter jumps to the next value starting with it.
func (s *Select) HandleKey(ev terminal.KeyEvent) bool {
	if len(s.values) == 0 {
		return false
	}
	switch ev.Key {
	case terminal.KeyDown:
		if s.selected < len(s.values)-1 {
			s.selected++
			s.notifyChange()
		}
		return true
	case terminal.KeyUp:
		if s.selected > 0 {
			s.selected--
			s.notifyChange()
		}
		return true
	case terminal.KeyRune:
		if ev.Ctrl || ev.Alt || ev.Meta {
			return false
		}
		want := unicode.ToLower(ev.Rune)
		for step := 1; step <= len(s.values); step++ {
			idx := (s.selected + step) % len(s.values)
			first := []rune(s.values[idx])
			if len(first) > 0 && unicode.ToLower(first[0]) == want {
				s.selected = idx
				s.notifyChange()
				return true
			}
		}
		return true
	}
	return false
}

// Render draws the chooser as "< value >".
func (s *Select) Render(t backend.RenderTarget) {
	bounds := s.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}
	style := s.style
	if s.focused {
		style = s.focusStyle
	}
	fillRect(t, bounds, ' ', style)
	drawString(t, bounds, bounds.X, bounds.Y, truncate("< "+s.Value()+" >", bounds.Width), style)
}

// Option is a selectable entry used by ListBox rows and ComboBox popups.
// It carries two visual states: focused (roving focus sits on it) and
// highlighted (it is the virtual current element of an active-descendant
// container).
type Option struct {
	FocusableBase

	label       string
	highlighted bool

	style        backend.Style
	focusStyle   backend.Style
	currentStyle backend.Style
}

// NewOption creates an option with the given label.
func NewOption(label string) *Option {
	o := &Option{
		label:        label,
		style:        backend.DefaultStyle(),
		focusStyle:   backend.DefaultStyle().Reverse(true),
		currentStyle: backend.DefaultStyle().Reverse(true),
	}
	o.bindNode(o)
	return o
}

// Label returns the option text.
func (o *Option) Label() string {
	return o.label
}

// SetLabel replaces the option text.
func (o *Option) SetLabel(label string) {
	o.label = label
}

// SetStyle sets the normal style.
func (o *Option) SetStyle(style backend.Style) {
	o.style = style
}

// SetFocusStyle sets the style used while the option holds real focus.
func (o *Option) SetFocusStyle(style backend.Style) {
	o.focusStyle = style
}

// SetCurrentStyle sets the style used while the option is the virtual
// current element.
func (o *Option) SetCurrentStyle(style backend.Style) {
	o.currentStyle = style
}

// Highlighted reports whether the option is the virtual current element.
func (o *Option) Highlighted() bool {
	return o.highlighted
}

// SetHighlighted marks or unmarks the option as the virtual current
// element.
func (o *Option) SetHighlighted(on bool) {
	o.highlighted = on
}

// Render draws the option row.
func (o *Option) Render(t backend.RenderTarget) {
	bounds := o.bounds
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}
	style := o.style
	marker := "  "
	switch {
	case o.focused:
		style = o.focusStyle
		marker = "> "
	case o.highlighted:
		style = o.currentStyle
		marker = "> "
	}
	fillRect(t, bounds, ' ', style)
	drawString(t, bounds, bounds.X, bounds.Y, truncate(marker+o.label, bounds.Width), style)
}

var (
	_ focus.Focusable      = (*Select)(nil)
	_ focus.KeyHandler     = (*Select)(nil)
	_ keynav.OptionChooser = (*Select)(nil)
	_ focus.Focusable      = (*Option)(nil)
)
