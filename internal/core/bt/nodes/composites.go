package nodes

import "github.com/zeusync/behave/internal/core/bt"

// Composite nodes: Selector, Sequence, Parallel

// Selector ticks children left to right until one succeeds (ordered OR).
// A running child suspends the selector at that index; on resume it reads the
// child's result instead of ticking earlier children again.
type Selector struct{ base }

func (s *Selector) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	b := bt.BoardOf[SelectorBoard](c, n)
	start := 0
	if c.IsResume(n) {
		start = b.LastIdx
		if c.Resolved(n) {
			switch ret := c.LastReturn(); ret {
			case bt.Success:
				return bt.Success
			case bt.Fail:
				start++
			default:
				invalidResult(c, n, s.name, ret)
				return bt.Fail
			}
		}
	}
	for i := start; i < n.Len(); i++ {
		b.LastIdx = i
		switch ret := n.Child(i).Tick(c); ret {
		case bt.Success:
			return bt.Success
		case bt.Fail:
		case bt.Running:
			return c.Yield(n)
		case bt.Abort:
			return bt.Abort
		default:
			invalidResult(c, n, s.name, ret)
		}
	}
	b.LastIdx = 0
	return bt.Fail
}

// Sequence ticks children left to right until one fails (ordered AND).
type Sequence struct{ base }

func (s *Sequence) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	b := bt.BoardOf[SequenceBoard](c, n)
	start := 0
	if c.IsResume(n) {
		start = b.LastIdx
		if c.Resolved(n) {
			switch ret := c.LastReturn(); ret {
			case bt.Fail:
				return bt.Fail
			case bt.Success:
				start++
			default:
				invalidResult(c, n, s.name, ret)
				return bt.Fail
			}
		}
	}
	for i := start; i < n.Len(); i++ {
		b.LastIdx = i
		switch ret := n.Child(i).Tick(c); ret {
		case bt.Success:
		case bt.Fail:
			return bt.Fail
		case bt.Running:
			return c.Yield(n)
		case bt.Abort:
			return bt.Abort
		default:
			invalidResult(c, n, s.name, ret)
			return bt.Fail
		}
	}
	b.LastIdx = 0
	return bt.Success
}

// Parallel ticks every unfinished child on every tick and succeeds once all
// of them have succeeded. A single failure fails the whole node in the same
// tick. Children that already finished are not ticked again.
type Parallel struct{ base }

func (p *Parallel) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	b := bt.BoardOf[ParallelBoard](c, n)
	if !c.IsResume(n) {
		clear(b.Results)
	}
	failed, running := false, false
	for _, child := range n.Children() {
		if ret, ok := b.Results[child.ID()]; ok && (ret == bt.Success || ret == bt.Fail) {
			continue
		}
		switch ret := child.Tick(c); ret {
		case bt.Success:
			b.Results[child.ID()] = ret
		case bt.Fail:
			b.Results[child.ID()] = ret
			failed = true
		case bt.Running:
			running = true
		case bt.Abort:
			clear(b.Results)
			return bt.Abort
		default:
			invalidResult(c, child, p.name, ret)
			failed = true
		}
	}
	switch {
	case failed:
		clear(b.Results)
		return bt.Fail
	case running:
		return c.Hold(n)
	default:
		clear(b.Results)
		return bt.Success
	}
}
