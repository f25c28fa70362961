package keynav

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/platform"
	"github.com/odvcencio/rove/pkg/telemetry"
	"github.com/odvcencio/rove/pkg/terminal"
	"github.com/odvcencio/rove/pkg/tree"
)

// fixture is a host with one controller over a container of items,
// plus one focusable node outside the container.
type fixture struct {
	host      *focus.Host
	root      *tree.Node
	container *tree.Node
	items     []*tree.Node
	outside   *tree.Node
	reg       *telemetry.Registry
	ctrl      *Controller
}

func newFixture(t *testing.T, n int, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		host:      focus.NewHost(),
		root:      tree.New(),
		container: tree.New(),
		outside:   tree.New(),
		reg:       telemetry.NewRegistry(),
	}
	f.outside.SetFocusable(true)
	f.root.Append(f.outside)
	f.root.Append(f.container)
	f.items = make([]*tree.Node, n)
	for i := range f.items {
		f.items[i] = tree.New()
		f.items[i].SetFocusable(true)
		f.container.Append(f.items[i])
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Metrics == nil {
		opts.Metrics = f.reg
	}
	ctrl, err := Attach(f.container, f.host, opts)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	t.Cleanup(ctrl.Close)
	f.ctrl = ctrl
	return f
}

func key(k terminal.Key) terminal.KeyEvent {
	return terminal.KeyEvent{Key: k}
}

// withJump adds whichever modifier the running platform treats as the
// jump-to-boundary key.
func withJump(ev terminal.KeyEvent) terminal.KeyEvent {
	if platform.JumpModifier() == platform.ModifierMeta {
		ev.Meta = true
	} else {
		ev.Ctrl = true
	}
	return ev
}

// assertSingleStop fails unless want is the only tab stop among the
// tracked items.
func assertSingleStop(t *testing.T, f *fixture, want *tree.Node) {
	t.Helper()
	for i, item := range f.items {
		if item == want {
			if !item.TabStop() {
				t.Errorf("item %d should hold the tab stop", i)
			}
			continue
		}
		if item.TabStop() {
			t.Errorf("item %d holds a stray tab stop", i)
		}
	}
}

func TestAttach_Validation(t *testing.T) {
	if _, err := Attach(nil, focus.NewHost(), Options{}); err == nil {
		t.Error("nil container should be rejected")
	}
	if _, err := Attach(tree.New(), nil, Options{}); err == nil {
		t.Error("nil host should be rejected")
	}
}

func TestAttach_InitialState(t *testing.T) {
	f := newFixture(t, 3, Options{})

	if f.ctrl.Current() != f.items[0] {
		t.Error("first tracked element should be current after attach")
	}
	assertSingleStop(t, f, f.items[0])

	tracked := f.ctrl.Tracked()
	if len(tracked) != 3 {
		t.Fatalf("tracked %d elements, want 3", len(tracked))
	}
	for i := range tracked {
		if tracked[i] != f.items[i] {
			t.Fatalf("tracked order wrong at %d", i)
		}
	}
}

// The walkthrough from the listbox documentation: three elements,
// vertical arrows plus Home/End, wrap off.
func TestController_VerticalWalkthrough(t *testing.T) {
	f := newFixture(t, 3, Options{})
	f.host.SetFocus(f.items[0])

	if !f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Fatal("Down should be consumed")
	}
	if f.host.Current() != f.items[1] || f.ctrl.Current() != f.items[1] {
		t.Fatal("Down should land on the second element")
	}
	assertSingleStop(t, f, f.items[1])

	if !f.host.DispatchKey(key(terminal.KeyEnd)) {
		t.Fatal("End should be consumed")
	}
	if f.ctrl.Current() != f.items[2] {
		t.Fatal("End should land on the last element")
	}

	if !f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Fatal("Down at the end without wrap should still be consumed")
	}
	if f.ctrl.Current() != f.items[2] || f.host.Current() != f.items[2] {
		t.Error("Down at the end without wrap should not move")
	}
	assertSingleStop(t, f, f.items[2])
}

func TestController_DefaultBindings(t *testing.T) {
	f := newFixture(t, 3, Options{})
	f.host.SetFocus(f.items[0])

	if f.host.DispatchKey(key(terminal.KeyRight)) {
		t.Error("horizontal arrows should be unbound by default")
	}
	if f.ctrl.Current() != f.items[0] {
		t.Error("unbound key moved the current element")
	}
	if f.host.DispatchKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 's'}) {
		t.Error("letter clusters should be unbound by default")
	}
}

func TestController_CustomBindings(t *testing.T) {
	f := newFixture(t, 3, Options{Keys: BindWASD})
	f.host.SetFocus(f.items[0])

	if !f.host.DispatchKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 's'}) {
		t.Fatal("'s' should be consumed with WASD bound")
	}
	if f.ctrl.Current() != f.items[1] {
		t.Error("'s' should move to the next element")
	}
	if f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("vertical arrows should not be bound when the mask excludes them")
	}
}

func TestController_WrapAround(t *testing.T) {
	f := newFixture(t, 3, Options{Wrap: true})
	f.host.SetFocus(f.items[0])

	f.host.DispatchKey(key(terminal.KeyUp))
	if f.ctrl.Current() != f.items[2] {
		t.Error("Up from the first element should wrap to the last")
	}
	f.host.DispatchKey(key(terminal.KeyDown))
	if f.ctrl.Current() != f.items[0] {
		t.Error("Down from the last element should wrap to the first")
	}
}

func TestController_JumpModifier(t *testing.T) {
	f := newFixture(t, 4, Options{})
	f.host.SetFocus(f.items[0])

	if !f.host.DispatchKey(withJump(key(terminal.KeyDown))) {
		t.Fatal("jump-modified Down should be consumed")
	}
	if f.ctrl.Current() != f.items[3] {
		t.Error("jump-modified Down should reach the last element")
	}

	f.host.DispatchKey(withJump(key(terminal.KeyUp)))
	if f.ctrl.Current() != f.items[0] {
		t.Error("jump-modified Up should reach the first element")
	}
}

func TestController_TabMovesAndEscapes(t *testing.T) {
	f := newFixture(t, 2, Options{Keys: BindTab, Wrap: true})
	f.host.SetFocus(f.items[0])

	if !f.host.DispatchKey(key(terminal.KeyTab)) {
		t.Fatal("Tab inside the collection should be consumed")
	}
	if f.ctrl.Current() != f.items[1] {
		t.Fatal("Tab should move to the next element")
	}

	// At the last element Tab stays unconsumed even with wrap on, so
	// the event loop can run the native tab order.
	if f.host.DispatchKey(key(terminal.KeyTab)) {
		t.Error("Tab at the last element should not be consumed")
	}
	if f.ctrl.Current() != f.items[1] {
		t.Error("unconsumed Tab should not move")
	}

	back := key(terminal.KeyTab)
	back.Shift = true
	if !f.host.DispatchKey(back) {
		t.Error("Shift+Tab inside the collection should be consumed")
	}
	if f.ctrl.Current() != f.items[0] {
		t.Error("Shift+Tab should move to the previous element")
	}
}

func TestController_PointerPrecedence(t *testing.T) {
	// Entry policy "first" would redirect focus arriving from outside;
	// explicit pointer intent must win over it.
	f := newFixture(t, 3, Options{Entry: EntryFirst})
	f.host.SetFocus(f.outside)

	f.host.PointerDown(f.items[2])

	if f.host.Current() != f.items[2] {
		t.Fatal("press should focus the pressed element")
	}
	if f.ctrl.Current() != f.items[2] {
		t.Error("pressed element should be current despite the entry policy")
	}
	assertSingleStop(t, f, f.items[2])

	// The same holds for presses inside the container.
	f.host.PointerDown(f.items[1])
	if f.ctrl.Current() != f.items[1] {
		t.Error("internal press should make the pressed element current")
	}
}

func TestController_PointerOnChildOfTracked(t *testing.T) {
	f := newFixture(t, 2, Options{})
	label := tree.New()
	f.items[1].Append(label)
	f.host.SetFocus(f.items[0])

	f.host.PointerDown(label)

	if f.ctrl.Current() != f.items[1] {
		t.Error("press on a descendant should select the tracked ancestor")
	}
}

func TestController_EntryPrevious(t *testing.T) {
	f := newFixture(t, 3, Options{})
	f.host.SetFocus(f.outside)

	f.host.SetFocus(f.items[1])

	if f.ctrl.Current() != f.items[1] {
		t.Error("element receiving focus from outside should become current")
	}
	assertSingleStop(t, f, f.items[1])
}

func TestController_EntryFirstRedirects(t *testing.T) {
	f := newFixture(t, 3, Options{Entry: EntryFirst})
	f.host.SetFocus(f.outside)

	f.host.SetFocus(f.items[2])

	if f.host.Current() != f.items[0] {
		t.Fatal("entry from outside should be redirected to the first element")
	}
	if f.ctrl.Current() != f.items[0] {
		t.Error("current should follow the redirect")
	}
	assertSingleStop(t, f, f.items[0])
}

func TestController_EntryFirstIgnoresInternalMoves(t *testing.T) {
	f := newFixture(t, 3, Options{Entry: EntryFirst})
	f.host.SetFocus(f.items[0])

	f.host.DispatchKey(key(terminal.KeyDown))

	if f.host.Current() != f.items[1] || f.ctrl.Current() != f.items[1] {
		t.Error("internal keyboard moves should not be redirected")
	}
}

func TestController_EntryFunc(t *testing.T) {
	var sawLeaving *tree.Node
	var target *tree.Node
	f := newFixture(t, 3, Options{
		EntryFunc: func(leaving *tree.Node) *tree.Node {
			sawLeaving = leaving
			return target
		},
	})
	target = f.items[2]
	f.host.SetFocus(f.outside)

	f.host.SetFocus(f.items[0])

	if sawLeaving != f.outside {
		t.Error("entry function should receive the element focus left")
	}
	if f.host.Current() != f.items[2] || f.ctrl.Current() != f.items[2] {
		t.Error("entry function destination should receive focus")
	}
}

func TestController_EntryFuncUnknownFallsBack(t *testing.T) {
	stranger := tree.New()
	stranger.SetFocusable(true)
	f := newFixture(t, 3, Options{
		EntryFunc: func(*tree.Node) *tree.Node { return stranger },
	})
	f.host.SetFocus(f.outside)

	f.host.SetFocus(f.items[1])

	if f.host.Current() != f.items[1] || f.ctrl.Current() != f.items[1] {
		t.Error("unknown destination should fall back to the focused element")
	}

	fallbacks, ok := f.reg.GetCounter(telemetry.MetricNavEntryFallbacksTotal,
		telemetry.Labels{"controller": f.ctrl.ID()})
	if !ok || fallbacks.Get() != 1 {
		t.Errorf("fallback not recorded, counter found=%v", ok)
	}
}

type fakeEditable struct {
	multiline bool
	atStart   bool
	atEnd     bool
	selection bool
}

func (e *fakeEditable) Multiline() bool     { return e.multiline }
func (e *fakeEditable) CursorAtStart() bool { return e.atStart }
func (e *fakeEditable) CursorAtEnd() bool   { return e.atEnd }
func (e *fakeEditable) HasSelection() bool  { return e.selection }

type fakeChooser struct{}

func (fakeChooser) IsOptionChooser() {}

func TestController_SuppressionSingleLine(t *testing.T) {
	ed := &fakeEditable{}
	f := newFixture(t, 3, Options{Keys: BindAll &^ BindTab})
	f.items[1].SetPayload(ed)
	f.host.SetFocus(f.items[1])

	// Mid-text: Left and Right belong to the editor.
	if f.host.DispatchKey(key(terminal.KeyLeft)) {
		t.Error("Left mid-text should be suppressed")
	}
	if f.host.DispatchKey(key(terminal.KeyHome)) {
		t.Error("Home in a single-line editor should be suppressed")
	}
	if f.host.DispatchKey(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'd'}) {
		t.Error("typing should be suppressed")
	}
	if f.ctrl.Current() != f.items[1] {
		t.Fatal("suppressed keys must not move")
	}

	// Vertical arrows still navigate out of a single-line editor.
	if !f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("Down should leave a single-line editor")
	}
	if f.ctrl.Current() != f.items[2] {
		t.Error("Down should have moved to the next element")
	}
}

func TestController_SuppressionCursorAtEdges(t *testing.T) {
	ed := &fakeEditable{atStart: true}
	f := newFixture(t, 3, Options{Keys: BindAll &^ BindTab})
	f.items[1].SetPayload(ed)
	f.host.SetFocus(f.items[1])

	if !f.host.DispatchKey(key(terminal.KeyLeft)) {
		t.Fatal("Left at text start should navigate")
	}
	if f.ctrl.Current() != f.items[0] {
		t.Error("Left at text start should reach the previous element")
	}

	f.host.SetFocus(f.items[1])
	ed.atStart, ed.selection = true, true
	if f.host.DispatchKey(key(terminal.KeyLeft)) {
		t.Error("Left with a selection should be suppressed")
	}

	ed.selection = false
	ed.atEnd = true
	if !f.host.DispatchKey(key(terminal.KeyRight)) {
		t.Error("Right at text end should navigate")
	}
}

func TestController_SuppressionMultiline(t *testing.T) {
	ed := &fakeEditable{multiline: true}
	f := newFixture(t, 3, Options{Keys: BindAll &^ BindTab})
	f.items[1].SetPayload(ed)
	f.host.SetFocus(f.items[1])

	if f.host.DispatchKey(key(terminal.KeyPageDown)) {
		t.Error("page keys in a multi-line editor should be suppressed")
	}
	if f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("Down mid-text in a multi-line editor should be suppressed")
	}
	if f.host.DispatchKey(key(terminal.KeyUp)) {
		t.Error("Up mid-text in a multi-line editor should be suppressed")
	}

	ed.atEnd = true
	if !f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("Down at the very end should navigate")
	}
	if f.ctrl.Current() != f.items[2] {
		t.Error("Down at the very end should reach the next element")
	}
}

func TestController_SuppressionChooser(t *testing.T) {
	f := newFixture(t, 3, Options{})
	f.items[0].SetPayload(fakeChooser{})
	f.host.SetFocus(f.items[0])

	if f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("Down on a chooser should be suppressed")
	}
	if f.ctrl.Current() != f.items[0] {
		t.Fatal("suppressed Down moved the current element")
	}

	if !f.host.DispatchKey(withJump(key(terminal.KeyDown))) {
		t.Error("jump-modified Down should bypass chooser suppression")
	}
	if f.ctrl.Current() != f.items[2] {
		t.Error("jump-modified Down should reach the last element")
	}

	f.host.SetFocus(f.items[0])
	if !f.host.DispatchKey(key(terminal.KeyUp)) {
		t.Error("Up on a chooser should navigate")
	}
}

func TestController_OverrideResolver(t *testing.T) {
	var dest *tree.Node
	f := newFixture(t, 4, Options{
		Resolver: func(ev terminal.KeyEvent, current *tree.Node) *tree.Node {
			return dest
		},
	})
	f.host.SetFocus(f.items[0])

	// Resolver default mask includes horizontal arrows.
	dest = nil
	if !f.host.DispatchKey(key(terminal.KeyRight)) {
		t.Fatal("declined resolver should fall back to the built-in transition")
	}
	if f.ctrl.Current() != f.items[1] {
		t.Error("built-in transition should have moved one step")
	}

	dest = f.items[3]
	f.host.DispatchKey(key(terminal.KeyDown))
	if f.ctrl.Current() != f.items[3] {
		t.Error("resolver destination should win over the built-in step")
	}
}

func TestController_OverrideResolverUntracked(t *testing.T) {
	stranger := tree.New()
	f := newFixture(t, 2, Options{
		Resolver: func(terminal.KeyEvent, *tree.Node) *tree.Node { return stranger },
	})
	f.host.SetFocus(f.items[0])

	if !f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Fatal("untracked resolver destination should fall back to the built-in step")
	}
	if f.ctrl.Current() != f.items[1] {
		t.Error("fallback step did not happen")
	}
}

func TestController_ResolverMakesTabConsumable(t *testing.T) {
	var dest *tree.Node
	f := newFixture(t, 2, Options{
		Keys: BindTab,
		Resolver: func(ev terminal.KeyEvent, current *tree.Node) *tree.Node {
			return dest
		},
	})
	f.host.SetFocus(f.items[1])

	// Declined: Tab at the last element stays unconsumed.
	dest = nil
	if f.host.DispatchKey(key(terminal.KeyTab)) {
		t.Fatal("declined Tab at the boundary should stay unconsumed")
	}

	// With a destination, even Tab is consumed.
	dest = f.items[0]
	if !f.host.DispatchKey(key(terminal.KeyTab)) {
		t.Error("Tab with a resolver destination should be consumed")
	}
	if f.ctrl.Current() != f.items[0] {
		t.Error("Tab should have moved to the resolver destination")
	}
}

func TestController_MutationTracksAddition(t *testing.T) {
	f := newFixture(t, 2, Options{})
	f.host.SetFocus(f.items[1])

	added := tree.New()
	added.SetFocusable(true)
	f.container.InsertAt(1, added)

	tracked := f.ctrl.Tracked()
	if len(tracked) != 3 || tracked[1] != added {
		t.Fatal("added node should be tracked in document order")
	}

	// items[1] is now the third element; Up reaches the insert.
	f.host.DispatchKey(key(terminal.KeyUp))
	if f.host.Current() != added {
		t.Error("navigation should reach the inserted element")
	}
}

func TestController_MutationIgnoresUnfocusable(t *testing.T) {
	f := newFixture(t, 2, Options{})

	plain := tree.New()
	f.container.Append(plain)

	if len(f.ctrl.Tracked()) != 2 {
		t.Error("unfocusable node should not be tracked")
	}
}

func TestController_MutationRetiresRemoval(t *testing.T) {
	f := newFixture(t, 3, Options{})
	f.host.SetFocus(f.items[0])

	f.container.Remove(f.items[0])

	tracked := f.ctrl.Tracked()
	if len(tracked) != 2 {
		t.Fatalf("tracked %d after removal, want 2", len(tracked))
	}
	if f.ctrl.Current() != f.items[1] {
		t.Error("current should transfer to the new first element")
	}
	if !f.items[1].TabStop() {
		t.Error("tab stop should transfer with the current marker")
	}
}

func TestController_MutationRetiresSubtree(t *testing.T) {
	f := newFixture(t, 1, Options{})
	group := tree.New()
	inner := tree.New()
	inner.SetFocusable(true)
	group.Append(inner)
	f.container.Append(group)

	if len(f.ctrl.Tracked()) != 2 {
		t.Fatal("focusable node inside an added subtree should be tracked")
	}

	f.container.Remove(group)
	if len(f.ctrl.Tracked()) != 1 {
		t.Error("nodes inside a removed subtree should be retired")
	}
}

func TestController_DetachReattachStaysEligible(t *testing.T) {
	f := newFixture(t, 3, Options{})
	item := f.items[1]

	f.container.Remove(item)
	// While detached the element stops passing the focusability check.
	item.SetFocusable(false)
	f.container.InsertAt(1, item)

	tracked := f.ctrl.Tracked()
	if len(tracked) != 3 || tracked[1] != item {
		t.Error("previously tracked element should be re-tracked on return")
	}
}

func TestController_FilterRejectionIsFinal(t *testing.T) {
	var rejected *tree.Node
	f := newFixture(t, 2, Options{
		Filter: func(n *tree.Node) bool { return n != rejected },
	})

	rejected = tree.New()
	rejected.SetFocusable(true)
	f.container.Append(rejected)

	if len(f.ctrl.Tracked()) != 2 {
		t.Fatal("filtered element should not be tracked")
	}

	// Re-discovering the same element changes nothing.
	f.container.Remove(rejected)
	f.container.Append(rejected)
	if len(f.ctrl.Tracked()) != 2 {
		t.Error("filtered element should stay untracked after re-insertion")
	}
}

func TestController_EmptyContainer(t *testing.T) {
	f := newFixture(t, 0, Options{})
	f.host.SetFocus(f.outside)

	if f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("keys over an empty collection should stay unconsumed")
	}

	item := tree.New()
	item.SetFocusable(true)
	f.container.Append(item)

	if f.ctrl.Current() != item {
		t.Error("first offered element should become current")
	}
	if !item.TabStop() {
		t.Error("first offered element should receive the tab stop")
	}
}

func TestController_ContextCancelDetaches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newFixture(t, 3, Options{Context: ctx})
	f.host.SetFocus(f.items[0])

	cancel()

	if f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("keypress after cancellation should not be consumed")
	}
	if f.ctrl.Current() != f.items[0] {
		t.Error("cancelled controller moved the current element")
	}
	assertSingleStop(t, f, f.items[0])
}

func TestController_CloseStopsEverything(t *testing.T) {
	f := newFixture(t, 2, Options{})
	f.host.SetFocus(f.items[0])
	f.ctrl.Close()

	if f.host.DispatchKey(key(terminal.KeyDown)) {
		t.Error("closed controller should not consume keys")
	}

	late := tree.New()
	late.SetFocusable(true)
	f.container.Append(late)
	if len(f.ctrl.Tracked()) != 2 {
		t.Error("closed controller should not observe mutations")
	}

	// Attribute state is left exactly as it was.
	if !f.items[0].TabStop() {
		t.Error("Close should not roll back tab stops")
	}

	f.ctrl.Close() // idempotent
}

func TestController_TwoControllersAreIndependent(t *testing.T) {
	f := newFixture(t, 2, Options{})

	other := tree.New()
	f.root.Append(other)
	otherItems := make([]*tree.Node, 2)
	for i := range otherItems {
		otherItems[i] = tree.New()
		otherItems[i].SetFocusable(true)
		other.Append(otherItems[i])
	}
	ctrl2, err := Attach(other, f.host, Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: f.reg,
	})
	if err != nil {
		t.Fatalf("attach second: %v", err)
	}
	defer ctrl2.Close()

	f.host.SetFocus(f.items[0])
	f.host.DispatchKey(key(terminal.KeyDown))

	if f.ctrl.Current() != f.items[1] {
		t.Error("first controller should have moved")
	}
	if ctrl2.Current() != otherItems[0] {
		t.Error("second controller should be untouched by the first container's keys")
	}

	f.host.SetFocus(otherItems[0])
	f.host.DispatchKey(key(terminal.KeyDown))
	if ctrl2.Current() != otherItems[1] {
		t.Error("second controller should move for its own container")
	}
	if f.ctrl.Current() != f.items[1] {
		t.Error("first controller should be untouched by the second container's keys")
	}
}

func TestController_MoveMetrics(t *testing.T) {
	f := newFixture(t, 3, Options{})
	f.host.SetFocus(f.items[0])

	f.host.DispatchKey(key(terminal.KeyDown))
	f.host.DispatchKey(key(terminal.KeyDown))

	labels := telemetry.Labels{"controller": f.ctrl.ID()}
	moves, ok := f.reg.GetCounter(telemetry.MetricNavMovesTotal, labels)
	if !ok || moves.Get() != 2 {
		t.Errorf("moves counter = %v (found=%v), want 2", moves.Get(), ok)
	}
	gauge, ok := f.reg.GetGauge(telemetry.MetricNavTrackedElements, labels)
	if !ok || gauge.Get() != 3 {
		t.Errorf("tracked gauge = %v (found=%v), want 3", gauge.Get(), ok)
	}
}
