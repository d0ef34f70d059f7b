package nodes

import (
	"fmt"
	"time"

	"github.com/zeusync/behave/internal/core/bt"
)

// Decorator nodes: Inverter, Succeeder, Repeat, Timeout

// Inverter flips Success and Fail; Running and Abort pass through.
type Inverter struct{ base }

func (d *Inverter) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	child, ok := onlyChild(c, n, d.name)
	if !ok {
		return bt.Fail
	}
	switch ret := c.Descend(n, child); ret {
	case bt.Success:
		return bt.Fail
	case bt.Fail:
		return bt.Success
	case bt.Running:
		return c.Yield(n)
	default:
		return ret
	}
}

// Succeeder reports Success whatever its child finished with.
type Succeeder struct{ base }

func (d *Succeeder) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	child, ok := onlyChild(c, n, d.name)
	if !ok {
		return bt.Fail
	}
	switch ret := c.Descend(n, child); ret {
	case bt.Running:
		return c.Yield(n)
	case bt.Abort:
		return bt.Abort
	default:
		return bt.Success
	}
}

// Repeat runs its child again after every success, at most one completed run
// per tick. It succeeds after Times runs (never when Times is 0) and fails as
// soon as the child fails.
type Repeat struct {
	base
	times int
}

func (d *Repeat) Configure(params bt.Params) error {
	times, err := params.Int("times", 0)
	if err != nil {
		return err
	}
	if times < 0 {
		return fmt.Errorf("%w: times cannot be negative", bt.ErrInvalidParam)
	}
	d.times = times
	return nil
}

func (d *Repeat) OnRemove() { d.times = 0 }

func (d *Repeat) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	child, ok := onlyChild(c, n, d.name)
	if !ok {
		return bt.Fail
	}
	b := bt.BoardOf[RepeatBoard](c, n)
	if !c.IsResume(n) {
		b.Count = 0
	}
	switch ret := c.Descend(n, child); ret {
	case bt.Success:
		b.Count++
		if d.times > 0 && b.Count >= d.times {
			return bt.Success
		}
		return c.Yield(n)
	case bt.Running:
		return c.Yield(n)
	default:
		return ret
	}
}

// Timeout fails its child once it has been running for longer than Duration.
// It holds the resumption point itself so that it can check the deadline
// before every tick of the child.
type Timeout struct {
	base
	duration time.Duration
}

func (d *Timeout) Configure(params bt.Params) error {
	dur, err := params.Duration("duration", 0)
	if err != nil {
		return err
	}
	if dur <= 0 {
		return fmt.Errorf("%w: duration must be positive", bt.ErrInvalidParam)
	}
	d.duration = dur
	return nil
}

func (d *Timeout) OnRemove() { d.duration = 0 }

func (d *Timeout) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	child, ok := onlyChild(c, n, d.name)
	if !ok {
		return bt.Fail
	}
	b := bt.BoardOf[TimeoutBoard](c, n)
	if !c.IsResume(n) {
		b.Deadline = c.Now().Add(d.duration)
	} else if !c.Now().Before(b.Deadline) {
		return bt.Fail
	}
	switch ret := child.Tick(c); ret {
	case bt.Running:
		return c.Hold(n)
	default:
		return ret
	}
}
