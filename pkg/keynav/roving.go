package keynav

import (
	"log/slog"

	"github.com/odvcencio/rove/pkg/tree"
)

// moveTo switches the tab-stop marker to the element at index i and
// asks the host to move real focus there. The current index is updated
// by the focus notification that results, so nothing runs after the
// focus request.
func (c *Controller) moveTo(i int) {
	target := c.track.node(i)
	if target == nil {
		return
	}
	if old := c.track.node(c.track.current); old != nil && old != target {
		old.SetTabStop(false)
	}
	target.SetTabStop(true)
	c.host.SetFocus(target)
}

// rovingFocusChange reconciles the current element with wherever real
// focus went. Every path that redirects focus returns immediately
// afterwards; the nested notification finishes the bookkeeping.
func (c *Controller) rovingFocusChange(cur, prev *tree.Node) {
	if cur == nil || !c.container.Contains(cur) {
		return
	}

	// Explicit pointer intent wins over any entry policy.
	if p := c.pendingPointer; p != nil {
		c.pendingPointer = nil
		if p == cur {
			if i := c.track.indexOf(p); i >= 0 {
				c.adopt(i)
				return
			}
		}
	}

	idx := c.track.indexOf(cur)
	fromOutside := prev == nil || !c.container.Contains(prev)
	if !fromOutside {
		if idx >= 0 {
			c.adopt(idx)
		}
		return
	}

	switch {
	case c.opts.EntryFunc != nil:
		c.entryByFunc(cur, prev, idx)
	case c.opts.Entry == EntryFirst:
		if first := c.track.node(0); first != nil && cur != first {
			c.host.SetFocus(first)
			return
		}
		if idx >= 0 {
			c.adopt(idx)
		}
	default:
		if idx >= 0 {
			c.adopt(idx)
		}
	}
}

// entryByFunc asks the custom entry policy for a destination. A nil
// destination or one the tracker does not know keeps the element that
// actually received focus.
func (c *Controller) entryByFunc(cur, prev *tree.Node, idx int) {
	if dest := c.opts.EntryFunc(prev); dest != nil {
		if i := c.track.indexOf(dest); i >= 0 {
			if dest == cur {
				c.adopt(i)
			} else {
				c.host.SetFocus(dest)
			}
			return
		}
		c.entryFallbacks.Inc()
		c.log.Warn("entry policy returned untracked element, keeping focused element",
			slog.String("element", dest.ID()))
	}
	if idx >= 0 {
		c.adopt(idx)
	}
}

// adopt makes index i current without touching real focus.
func (c *Controller) adopt(i int) {
	target := c.track.node(i)
	if target == nil {
		return
	}
	if old := c.track.node(c.track.current); old != nil && old != target {
		old.SetTabStop(false)
	}
	target.SetTabStop(true)
	c.track.current = i
}
