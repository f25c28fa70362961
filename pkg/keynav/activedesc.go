package keynav

import "github.com/odvcencio/rove/pkg/tree"

// designate makes the element at index i the virtual current element,
// stamping an identifier on it first if it has none.
func (c *Controller) designate(i int) {
	target := c.track.node(i)
	if target == nil {
		return
	}
	var prev *tree.Node
	if !c.suspended {
		prev = c.track.node(c.track.current)
	}
	c.track.current = i
	c.opts.Controlling.SetActiveDescendantID(target.EnsureID())
	c.suspended = false
	if c.opts.OnCurrentChange != nil && target != prev {
		c.opts.OnCurrentChange(target, prev)
	}
}

// suspend clears the designation while keeping the position, so the
// next bound keypress re-enters where navigation left off.
func (c *Controller) suspend() {
	if c.suspended {
		return
	}
	prev := c.track.node(c.track.current)
	c.suspended = true
	c.opts.Controlling.SetActiveDescendantID("")
	c.suspensions.Inc()
	if c.opts.OnCurrentChange != nil {
		c.opts.OnCurrentChange(nil, prev)
	}
}

// resume re-designates the element at the last known position.
func (c *Controller) resume() {
	c.resumes.Inc()
	c.designate(c.track.current)
}

// adFocusChange suspends when the controlling element loses focus.
// Regaining focus alone does not resume; the next bound keypress does.
func (c *Controller) adFocusChange(cur, prev *tree.Node) {
	if prev == c.opts.Controlling && cur != c.opts.Controlling {
		c.suspend()
	}
}
