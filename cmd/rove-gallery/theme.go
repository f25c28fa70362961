package main

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/odvcencio/rove/pkg/backend"
)

// theme is the palette applied across the gallery widgets.
type theme struct {
	header        backend.Style
	title         backend.Style
	status        backend.Style
	text          backend.Style
	textFocus     backend.Style
	option        backend.Style
	optionFocus   backend.Style
	optionCurrent backend.Style
}

// resolveTheme picks a palette from the configured name and the
// terminal's color capabilities. "auto" follows the detected background;
// a colorless terminal forces mono.
func resolveTheme(name string, noColor bool) theme {
	if noColor || termenv.EnvNoColor() || termenv.ColorProfile() == termenv.Ascii {
		return monoTheme()
	}
	switch strings.ToLower(name) {
	case "mono":
		return monoTheme()
	case "dark":
		return darkTheme()
	case "light":
		return lightTheme()
	default:
		if termenv.HasDarkBackground() {
			return darkTheme()
		}
		return lightTheme()
	}
}

func monoTheme() theme {
	base := backend.DefaultStyle()
	return theme{
		header:        base.Bold(true),
		title:         base.Underline(true),
		status:        base.Dim(true),
		text:          base,
		textFocus:     base,
		option:        base,
		optionFocus:   base.Reverse(true),
		optionCurrent: base.Bold(true),
	}
}

func darkTheme() theme {
	base := backend.DefaultStyle()
	return theme{
		header:        base.Foreground(backend.ColorBrightCyan).Bold(true),
		title:         base.Foreground(backend.ColorBrightBlue),
		status:        base.Foreground(backend.ColorBrightBlack),
		text:          base.Foreground(backend.ColorWhite),
		textFocus:     base.Foreground(backend.ColorBrightWhite),
		option:        base.Foreground(backend.ColorWhite),
		optionFocus:   base.Foreground(backend.ColorBrightWhite).Reverse(true),
		optionCurrent: base.Foreground(backend.ColorBrightYellow).Bold(true),
	}
}

func lightTheme() theme {
	base := backend.DefaultStyle()
	return theme{
		header:        base.Foreground(backend.ColorBlue).Bold(true),
		title:         base.Foreground(backend.ColorBlue),
		status:        base.Foreground(backend.ColorBrightBlack),
		text:          base.Foreground(backend.ColorBlack),
		textFocus:     base.Foreground(backend.ColorBlack).Bold(true),
		option:        base.Foreground(backend.ColorBlack),
		optionFocus:   base.Foreground(backend.ColorBlack).Reverse(true),
		optionCurrent: base.Foreground(backend.ColorMagenta).Bold(true),
	}
}

// applyTheme pushes the palette into every widget.
func (a *app) applyTheme(t theme) {
	a.header.SetStyle(t.header)
	a.listTitle.SetStyle(t.title)
	a.comboTitle.SetStyle(t.title)
	a.notesTitle.SetStyle(t.title)
	a.status.SetStyle(t.status)

	a.notes.SetStyle(t.text)
	a.notes.SetFocusStyle(t.textFocus)
	a.combo.Input().SetStyle(t.text)
	a.combo.Input().SetFocusStyle(t.textFocus)

	for _, opt := range a.list.Options() {
		opt.SetStyle(t.option)
		opt.SetFocusStyle(t.optionFocus)
		opt.SetCurrentStyle(t.optionCurrent)
	}
	for _, opt := range a.combo.Options() {
		opt.SetStyle(t.option)
		opt.SetFocusStyle(t.optionFocus)
		opt.SetCurrentStyle(t.optionCurrent)
	}
}
