// Package keynav implements keyboard navigation for composite
// controls. A Controller watches one container subtree and keeps a
// "current" element among its tracked descendants, moving it in
// response to bound keys, pointer presses, and focus changes, and
// keeping the tracked set synchronized with structural mutations.
//
// Two focus patterns are supported. In roving-tabindex mode, the
// default, real focus travels with the current element and exactly one
// tracked element is a tab stop at any time. In active-descendant
// mode, enabled by Options.Controlling, real focus stays parked on the
// controlling element while the current element is only designated on
// it by identifier.
package keynav

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/odvcencio/rove/pkg/focus"
	"github.com/odvcencio/rove/pkg/platform"
	"github.com/odvcencio/rove/pkg/telemetry"
	"github.com/odvcencio/rove/pkg/terminal"
	"github.com/odvcencio/rove/pkg/tree"
)

// EntryPolicy selects how a controller reconciles its current element
// when real focus enters the container from outside.
type EntryPolicy int

const (
	// EntryPrevious adopts whichever element received focus.
	EntryPrevious EntryPolicy = iota
	// EntryFirst redirects focus arriving from outside to the first
	// tracked element.
	EntryFirst
)

// Options configures Attach. The zero value is a usable roving
// configuration.
type Options struct {
	// Wrap lets stepwise movement continue past either boundary. Tab
	// is exempt and never wraps.
	Wrap bool

	// Keys is the bound key-group mask. Zero means vertical arrows
	// plus Home/End, or all arrows plus Home/End when Resolver is set.
	Keys Binding

	// Filter rejects elements from tracking. It runs once per element,
	// at insertion, and is never re-evaluated. Nil accepts everything.
	Filter func(*tree.Node) bool

	// Resolver, when set, is asked for a destination before the
	// built-in transition runs. Returning nil declines the keypress;
	// a destination that is not tracked is treated as a decline.
	Resolver func(ev terminal.KeyEvent, current *tree.Node) *tree.Node

	// Entry selects the focus-entry policy. EntryFunc, when set,
	// overrides Entry: it receives the element that held focus
	// immediately before entry, nil when unknown, and returns the
	// desired destination. An untracked destination logs a diagnostic
	// and falls back to EntryPrevious.
	Entry     EntryPolicy
	EntryFunc func(leaving *tree.Node) *tree.Node

	// Controlling switches the controller to active-descendant mode:
	// real focus stays on this element while the current element is
	// designated on it by identifier.
	Controlling *tree.Node

	// OnCurrentChange reports designation changes in active-descendant
	// mode. Either argument may be nil: (nil, prev) announces
	// suspension, (cur, nil) the first designation after one.
	OnCurrentChange func(cur, prev *tree.Node)

	// Context, when set, detaches the controller once done. Close
	// works regardless.
	Context context.Context

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Metrics receives engine counters. Nil means
	// telemetry.DefaultRegistry.
	Metrics *telemetry.Registry
}

// Controller is one attached navigation engine. All state is private
// to the instance; independent controllers over disjoint containers
// never interact. Methods must run on the event-loop goroutine.
type Controller struct {
	id        string
	container *tree.Node
	host      *focus.Host
	opts      Options
	jump      platform.Modifier
	track     *tracker
	log       *slog.Logger

	// suspended is meaningful in active-descendant mode only. A new
	// controller starts suspended; the first bound keypress designates
	// the element at position 0.
	suspended bool

	// pendingPointer remembers a press on a tracked element between
	// pointer-down and the focus notification it produces.
	pendingPointer *tree.Node

	moves          *telemetry.Counter
	suppressedKeys *telemetry.Counter
	suspensions    *telemetry.Counter
	resumes        *telemetry.Counter
	entryFallbacks *telemetry.Counter
	trackedGauge   *telemetry.Gauge
	offerSizes     *telemetry.Histogram

	cancels []func()
	closed  bool
}

// Attach wires a controller to the subtree rooted at container,
// dispatching through host. The currently focusable descendants are
// tracked immediately; structural mutations keep the set in sync until
// Close.
func Attach(container *tree.Node, host *focus.Host, opts Options) (*Controller, error) {
	if container == nil {
		return nil, fmt.Errorf("container is nil")
	}
	if host == nil {
		return nil, fmt.Errorf("focus host is nil")
	}
	if opts.Keys == 0 {
		if opts.Resolver != nil {
			opts.Keys = BindArrows | BindHomeEnd
		} else {
			opts.Keys = BindVerticalArrows | BindHomeEnd
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Metrics
	if reg == nil {
		reg = telemetry.DefaultRegistry
	}

	c := &Controller{
		id:        uuid.NewString(),
		container: container,
		host:      host,
		opts:      opts,
		jump:      platform.JumpModifier(),
		track:     newTracker(opts.Filter, opts.Controlling == nil),
		suspended: opts.Controlling != nil,
	}
	c.log = logger.With(
		slog.String("component", "keynav"),
		slog.String("controller", c.id),
	)

	labels := telemetry.Labels{"controller": c.id}
	c.moves = reg.RegisterCounter(telemetry.MetricNavMovesTotal, labels)
	c.suppressedKeys = reg.RegisterCounter(telemetry.MetricNavSuppressedTotal, labels)
	c.suspensions = reg.RegisterCounter(telemetry.MetricNavSuspensionsTotal, labels)
	c.resumes = reg.RegisterCounter(telemetry.MetricNavResumesTotal, labels)
	c.entryFallbacks = reg.RegisterCounter(telemetry.MetricNavEntryFallbacksTotal, labels)
	c.trackedGauge = reg.RegisterGauge(telemetry.MetricNavTrackedElements, labels)
	c.offerSizes = reg.RegisterHistogram(telemetry.MetricNavOfferBatchSize, labels, telemetry.SizeBuckets)

	keyScope := container
	if opts.Controlling != nil {
		// Keys arrive while real focus sits on the controlling
		// element, which may live outside the container subtree.
		keyScope = opts.Controlling
	}
	c.cancels = append(c.cancels,
		host.OnKey(keyScope, c.handleKey),
		host.OnFocusChange(nil, c.handleFocusChange),
		host.OnPointerDown(container, c.handlePointerDown),
		container.Observe(c.handleMutation),
	)

	var batch []*tree.Node
	for _, n := range tree.FocusableDescendants(container) {
		if n != opts.Controlling {
			batch = append(batch, n)
		}
	}
	c.recordOffer(c.track.offer(batch))

	c.log.Debug("controller attached",
		slog.Int("tracked", c.track.len()),
		slog.Bool("active_descendant", c.adMode()),
	)
	return c, nil
}

// ID returns the controller instance identifier used in logs and
// metric labels.
func (c *Controller) ID() string {
	return c.id
}

// Current returns the current element: the marker holder in roving
// mode, or the designated element in active-descendant mode, nil while
// suspended or while nothing is tracked.
func (c *Controller) Current() *tree.Node {
	if c.adMode() && c.suspended {
		return nil
	}
	return c.track.node(c.track.current)
}

// Tracked returns the tracked elements in document order.
func (c *Controller) Tracked() []*tree.Node {
	out := make([]*tree.Node, len(c.track.nodes))
	copy(out, c.track.nodes)
	return out
}

// Suspended reports whether an active-descendant controller currently
// has no designated element.
func (c *Controller) Suspended() bool {
	return c.adMode() && c.suspended
}

// Close detaches every notification and stops structural observation
// at once. Tab-stop markers and the designation attribute are left
// exactly as they were. Close is idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	c.log.Debug("controller closed")
}

// handleKey drives navigation for one key event. It reports whether
// the event was consumed.
func (c *Controller) handleKey(ev terminal.KeyEvent) bool {
	if c.closed {
		return false
	}
	if c.opts.Context != nil {
		select {
		case <-c.opts.Context.Done():
			c.log.Debug("context done, detaching")
			c.Close()
			return false
		default:
		}
	}

	b, ok := lookup(ev, c.jump)
	if !ok || c.opts.Keys&b.bit == 0 {
		return false
	}
	if suppressed(ev, c.host.Current(), c.jump) {
		c.suppressedKeys.Inc()
		return false
	}
	if c.track.len() == 0 {
		return false
	}

	isTab := b.bit == BindTab
	if c.adMode() && c.suspended {
		// The first keypress after suspension re-enters at the last
		// known position; its own movement is discarded.
		if isTab {
			return false
		}
		c.resume()
		return true
	}

	if c.opts.Resolver != nil {
		if dest := c.opts.Resolver(ev, c.track.node(c.track.current)); dest != nil {
			if i := c.track.indexOf(dest); i >= 0 {
				c.applyMove(i)
				return true
			}
			c.log.Debug("override resolver returned untracked element",
				slog.String("element", dest.ID()))
		}
	}

	move := Movement{
		Direction:  b.dir,
		ToBoundary: b.boundary || (!isTab && c.jump.Held(ev)),
	}
	idx, edge := next(c.track.current, c.track.len(), move, c.opts.Wrap, isTab)
	if idx < 0 {
		return false
	}
	if c.adMode() && edge != EdgeNone && !c.opts.Wrap {
		c.suspend()
		return !isTab
	}
	if idx == c.track.current {
		// Unmoved. Tab stays unconsumed so it can escape the
		// container through the native order.
		return !isTab
	}
	c.applyMove(idx)
	return true
}

// applyMove executes a movement to index i in the current mode.
func (c *Controller) applyMove(i int) {
	c.moves.Inc()
	if c.adMode() {
		c.designate(i)
		return
	}
	c.moveTo(i)
}

// handleFocusChange reconciles controller state with a real focus
// transition.
func (c *Controller) handleFocusChange(cur, prev *tree.Node) {
	if c.closed {
		return
	}
	if c.adMode() {
		c.adFocusChange(cur, prev)
		return
	}
	c.rovingFocusChange(cur, prev)
}

// handlePointerDown remembers or applies explicit pointer intent. The
// press target may be a descendant of the tracked element it lands on.
func (c *Controller) handlePointerDown(target *tree.Node) bool {
	if c.closed {
		return false
	}
	hit := c.trackedAncestor(target)
	if c.adMode() {
		if hit == nil {
			return false
		}
		c.moves.Inc()
		c.designate(c.track.indexOf(hit))
		// Real focus must stay on the controlling element.
		return true
	}
	if hit == nil || hit == c.host.Current() {
		c.pendingPointer = nil
		return false
	}
	c.pendingPointer = hit
	return false
}

// trackedAncestor returns the tracked element at or above n, stopping
// below the container.
func (c *Controller) trackedAncestor(n *tree.Node) *tree.Node {
	for p := n; p != nil && p != c.container; p = p.Parent() {
		if c.track.tracked(p) {
			return p
		}
	}
	return nil
}

// handleMutation keeps the tracked set aligned with the tree. Added
// nodes are offered when focusable now or tracked before; removed
// nodes are retired.
func (c *Controller) handleMutation(m tree.Mutation) {
	if c.closed {
		return
	}
	inserted := 0
	for _, root := range m.Added {
		var batch []*tree.Node
		tree.Walk(root, func(n *tree.Node) bool {
			if c.eligible(n) {
				batch = append(batch, n)
			}
			return true
		})
		inserted += c.track.offer(batch)
	}
	for _, root := range m.Removed {
		tree.Walk(root, func(n *tree.Node) bool {
			c.track.retire(n)
			return true
		})
	}
	c.recordOffer(inserted)
}

// eligible decides whether a discovered node belongs in the tracked
// set. The container and the controlling element never do.
func (c *Controller) eligible(n *tree.Node) bool {
	if n == c.container || n == c.opts.Controlling {
		return false
	}
	return tree.IsFocusable(n) || c.track.everTracked(n)
}

func (c *Controller) recordOffer(inserted int) {
	if inserted > 0 {
		c.offerSizes.Observe(float64(inserted))
	}
	c.trackedGauge.Set(int64(c.track.len()))
}

func (c *Controller) adMode() bool {
	return c.opts.Controlling != nil
}
