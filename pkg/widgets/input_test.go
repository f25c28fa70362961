package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/rove/pkg/terminal"
)

func keyEv(k terminal.Key) terminal.KeyEvent {
	return terminal.KeyEvent{Key: k}
}

func runeEv(r rune) terminal.KeyEvent {
	return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r}
}

func typeString(t *testing.T, in *Input, s string) {
	t.Helper()
	for _, r := range s {
		require.True(t, in.HandleKey(runeEv(r)))
	}
}

func TestInput_Typing(t *testing.T) {
	in := NewInput()
	typeString(t, in, "go")

	assert.Equal(t, "go", in.Text())
	assert.Equal(t, 2, in.CursorPos())
	assert.True(t, in.CursorAtEnd())
}

func TestInput_SetText(t *testing.T) {
	in := NewInput()
	in.SetText("héllo")

	assert.Equal(t, "héllo", in.Text())
	assert.Equal(t, 5, in.CursorPos(), "cursor counts runes, not bytes")
	assert.True(t, in.CursorAtEnd())
	assert.False(t, in.CursorAtStart())

	in.Clear()
	assert.Empty(t, in.Text())
	assert.Equal(t, 0, in.CursorPos())
}

func TestInput_InsertMidText(t *testing.T) {
	in := NewInput()
	in.SetText("ac")
	in.SetCursor(1)
	typeString(t, in, "b")

	assert.Equal(t, "abc", in.Text())
	assert.Equal(t, 2, in.CursorPos())
}

func TestInput_Backspace(t *testing.T) {
	in := NewInput()
	in.SetText("abc")

	require.True(t, in.HandleKey(keyEv(terminal.KeyBackspace)))
	assert.Equal(t, "ab", in.Text())
	assert.Equal(t, 2, in.CursorPos())

	in.SetCursor(0)
	require.True(t, in.HandleKey(keyEv(terminal.KeyBackspace)))
	assert.Equal(t, "ab", in.Text(), "backspace at the start changes nothing")
}

func TestInput_Delete(t *testing.T) {
	in := NewInput()
	in.SetText("abc")
	in.SetCursor(0)

	require.True(t, in.HandleKey(keyEv(terminal.KeyDelete)))
	assert.Equal(t, "bc", in.Text())
	assert.Equal(t, 0, in.CursorPos())

	in.SetCursor(2)
	require.True(t, in.HandleKey(keyEv(terminal.KeyDelete)))
	assert.Equal(t, "bc", in.Text(), "delete at the end changes nothing")
}

func TestInput_CursorMovement(t *testing.T) {
	in := NewInput()
	in.SetText("abc")

	require.True(t, in.HandleKey(keyEv(terminal.KeyLeft)))
	assert.Equal(t, 2, in.CursorPos())

	require.True(t, in.HandleKey(keyEv(terminal.KeyRight)))
	assert.Equal(t, 3, in.CursorPos())

	require.True(t, in.HandleKey(keyEv(terminal.KeyRight)))
	assert.Equal(t, 3, in.CursorPos(), "right at the end stays put")

	require.True(t, in.HandleKey(keyEv(terminal.KeyHome)))
	assert.Equal(t, 0, in.CursorPos())

	require.True(t, in.HandleKey(keyEv(terminal.KeyLeft)))
	assert.Equal(t, 0, in.CursorPos(), "left at the start stays put")

	require.True(t, in.HandleKey(keyEv(terminal.KeyEnd)))
	assert.Equal(t, 3, in.CursorPos())
}

func TestInput_WordJump(t *testing.T) {
	in := NewInput()
	in.SetText("hello brave world")
	in.SetCursor(0)

	ctrlRight := terminal.KeyEvent{Key: terminal.KeyRight, Ctrl: true}
	ctrlLeft := terminal.KeyEvent{Key: terminal.KeyLeft, Ctrl: true}

	require.True(t, in.HandleKey(ctrlRight))
	assert.Equal(t, 6, in.CursorPos(), "jump lands after the word and its spaces")

	require.True(t, in.HandleKey(ctrlRight))
	assert.Equal(t, 12, in.CursorPos())

	require.True(t, in.HandleKey(ctrlLeft))
	assert.Equal(t, 6, in.CursorPos())

	require.True(t, in.HandleKey(ctrlLeft))
	assert.Equal(t, 0, in.CursorPos())
}

func TestInput_ShiftExtendsSelection(t *testing.T) {
	in := NewInput()
	in.SetText("abcd")
	in.SetCursor(1)

	shiftRight := terminal.KeyEvent{Key: terminal.KeyRight, Shift: true}
	require.True(t, in.HandleKey(shiftRight))
	require.True(t, in.HandleKey(shiftRight))

	assert.True(t, in.HasSelection())
	assert.Equal(t, 3, in.CursorPos())

	// Plain Left collapses to the selection start.
	require.True(t, in.HandleKey(keyEv(terminal.KeyLeft)))
	assert.False(t, in.HasSelection())
	assert.Equal(t, 1, in.CursorPos())
}

func TestInput_SelectionCollapsesRight(t *testing.T) {
	in := NewInput()
	in.SetText("abcd")
	in.Select(1, 3)

	require.True(t, in.HandleKey(keyEv(terminal.KeyRight)))
	assert.False(t, in.HasSelection())
	assert.Equal(t, 3, in.CursorPos())
}

func TestInput_ShiftBackOverAnchorClearsSelection(t *testing.T) {
	in := NewInput()
	in.SetText("abcd")
	in.SetCursor(2)

	require.True(t, in.HandleKey(terminal.KeyEvent{Key: terminal.KeyRight, Shift: true}))
	require.True(t, in.HandleKey(terminal.KeyEvent{Key: terminal.KeyLeft, Shift: true}))

	assert.False(t, in.HasSelection(), "extending back to the anchor leaves nothing selected")
	assert.Equal(t, 2, in.CursorPos())
}

func TestInput_TypingReplacesSelection(t *testing.T) {
	in := NewInput()
	in.SetText("abcd")
	in.Select(1, 3)
	typeString(t, in, "X")

	assert.Equal(t, "aXd", in.Text())
	assert.Equal(t, 2, in.CursorPos())
	assert.False(t, in.HasSelection())
}

func TestInput_BackspaceRemovesSelection(t *testing.T) {
	in := NewInput()
	in.SetText("abcd")
	in.Select(1, 3)

	require.True(t, in.HandleKey(keyEv(terminal.KeyBackspace)))
	assert.Equal(t, "ad", in.Text())
	assert.Equal(t, 1, in.CursorPos())
}

func TestInput_SelectAll(t *testing.T) {
	in := NewInput()
	in.SetText("abcd")

	require.True(t, in.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'a', Ctrl: true}))
	assert.True(t, in.HasSelection())

	typeString(t, in, "z")
	assert.Equal(t, "z", in.Text())
}

func TestInput_SelectClamps(t *testing.T) {
	in := NewInput()
	in.SetText("abcd")

	in.Select(-2, 99)
	assert.True(t, in.HasSelection())
	assert.Equal(t, 4, in.CursorPos())

	in.Select(3, 3)
	assert.False(t, in.HasSelection(), "empty range selects nothing")

	in.SelectAll()
	in.ClearSelection()
	assert.False(t, in.HasSelection())
	assert.Equal(t, 4, in.CursorPos(), "clearing keeps the cursor in place")
}

func TestInput_SetCursorClamps(t *testing.T) {
	in := NewInput()
	in.SetText("ab")

	in.SetCursor(-5)
	assert.Equal(t, 0, in.CursorPos())

	in.SetCursor(99)
	assert.Equal(t, 2, in.CursorPos())
}

func TestInput_BoundaryReporting(t *testing.T) {
	in := NewInput()

	assert.False(t, in.Multiline())
	assert.True(t, in.CursorAtStart(), "empty text puts the cursor at both boundaries")
	assert.True(t, in.CursorAtEnd())

	in.SetText("ab")
	in.SetCursor(1)
	assert.False(t, in.CursorAtStart())
	assert.False(t, in.CursorAtEnd())
}

func TestInput_Callbacks(t *testing.T) {
	in := NewInput()

	var changes []string
	in.OnChange(func(text string) { changes = append(changes, text) })

	var submitted string
	in.OnSubmit(func(text string) { submitted = text })

	typeString(t, in, "hi")
	assert.Equal(t, []string{"h", "hi"}, changes)

	require.True(t, in.HandleKey(keyEv(terminal.KeyEnter)))
	assert.Equal(t, "hi", submitted)
}

func TestInput_ModifiedRunesUnhandled(t *testing.T) {
	in := NewInput()
	in.SetText("x")

	assert.False(t, in.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'b', Alt: true}))
	assert.False(t, in.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'b', Ctrl: true}))
	assert.False(t, in.HandleKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'b', Meta: true}))
	assert.Equal(t, "x", in.Text())

	assert.False(t, in.HandleKey(keyEv(terminal.KeyTab)), "unknown keys fall through")
	assert.False(t, in.HandleKey(keyEv(terminal.KeyUp)))
}

func TestInput_NodeBinding(t *testing.T) {
	in := NewInput()

	require.NotNil(t, in.Node())
	assert.True(t, in.Node().Focusable())
	assert.Same(t, in, in.Node().Payload())

	in.Focus()
	assert.True(t, in.IsFocused())
	in.Blur()
	assert.False(t, in.IsFocused())
}
