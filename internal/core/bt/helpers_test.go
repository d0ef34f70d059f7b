package bt

import "time"

type manualClock struct{ now time.Time }

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// scripted returns its results one per call, yielding on Running and
// repeating the last entry once the script is exhausted.
type scripted struct {
	rets  []Ret
	calls int
}

func script(rets ...Ret) *scripted { return &scripted{rets: rets} }

func (s *scripted) OnCreate() {}
func (s *scripted) OnRemove() {}

func (s *scripted) OnTickRun(n *Node, c *Context) Ret {
	ret := s.rets[min(s.calls, len(s.rets)-1)]
	s.calls++
	if ret == Running {
		return c.Yield(n)
	}
	return ret
}

// chain ticks its only child and yields while the child runs, reporting the
// resolved child result when resumed from the stack.
type chainProc struct{ resolved []Ret }

func (p *chainProc) OnCreate() {}
func (p *chainProc) OnRemove() {}

func (p *chainProc) OnTickRun(n *Node, c *Context) Ret {
	if c.Resolved(n) {
		p.resolved = append(p.resolved, c.LastReturn())
		return c.LastReturn()
	}
	if ret := n.Child(0).Tick(c); ret != Running {
		return ret
	}
	return c.Yield(n)
}
