// Package backend defines the terminal backend abstraction. It allows
// swapping between tcell (real terminals) and the simulation backend
// (tests), so interaction tests can drive a full screen without a TTY.
package backend

import "github.com/odvcencio/rove/pkg/terminal"

// Backend is the terminal abstraction layer.
type Backend interface {
	// Init initializes the backend (enters alt screen, raw mode, etc).
	Init() error

	// Fini cleans up the backend and restores terminal state.
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent sets a cell at (x, y) with the given rune and style.
	// comb holds combining characters and may be nil.
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show synchronizes the internal buffer to the terminal.
	Show()

	// Clear clears the screen.
	Clear()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// SetCursorPos shows the cursor at the given position.
	SetCursorPos(x, y int)

	// PollEvent blocks until an event is available and returns it.
	// Returns nil when the backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error

	// Beep emits an audible bell.
	Beep()

	// Sync forces a full redraw on the next Show.
	Sync()
}

// RenderTarget is the subset of Backend widgets draw against.
type RenderTarget interface {
	Size() (width, height int)
	SetContent(x, y int, mainc rune, comb []rune, style Style)
}
