package keynav

// TextEditable is implemented by node payloads that edit text. The
// resolver consults the focused widget, which may not be the tracked
// current element, to decide which keys must be left alone.
type TextEditable interface {
	// Multiline reports whether the widget edits more than one line.
	Multiline() bool
	// CursorAtStart reports whether the cursor sits before the first
	// character of the whole text.
	CursorAtStart() bool
	// CursorAtEnd reports whether the cursor sits after the last
	// character of the whole text.
	CursorAtEnd() bool
	// HasSelection reports whether a text range is selected.
	HasSelection() bool
}

// OptionChooser marks payloads of select-style controls that react to
// Down and to typed characters themselves.
type OptionChooser interface {
	IsOptionChooser()
}
