package nodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/behave/internal/core/bt"
	"github.com/zeusync/behave/internal/core/observability/log"
)

type manualClock struct{ now time.Time }

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// scripted returns one result per call, yielding on Running and repeating
// the last entry once exhausted.
type scripted struct {
	rets  []bt.Ret
	calls int
}

func script(rets ...bt.Ret) *scripted { return &scripted{rets: rets} }

func (s *scripted) OnCreate() {}
func (s *scripted) OnRemove() {}

func (s *scripted) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	ret := s.rets[min(s.calls, len(s.rets)-1)]
	s.calls++
	if ret == bt.Running {
		return c.Yield(n)
	}
	return ret
}

// shape describes a test tree: a process and its children.
type shape struct {
	proc bt.Process
	kids []shape
}

func leaf(p bt.Process) shape { return shape{proc: p} }

func with(p bt.Process, kids ...shape) shape { return shape{proc: p, kids: kids} }

type harness struct {
	t     *testing.T
	alloc *bt.Allocator
	reg   *bt.Registry
	clock *manualClock
	core  zapcore.Core
	logs  *observer.ObservedLogs
	tree  bt.Tree
}

func newHarness(t *testing.T) *harness {
	reg := bt.NewRegistry()
	RegisterBuiltins(reg)
	core, logs := observer.New(zapcore.DebugLevel)
	return &harness{
		t:     t,
		alloc: bt.NewAllocator(bt.PoolSizes{}),
		reg:   reg,
		clock: newManualClock(),
		core:  core,
		logs:  logs,
	}
}

func (h *harness) proc(name string, params bt.Params) bt.Process {
	p, err := h.reg.Acquire(name, params)
	require.NoError(h.t, err)
	return p
}

func (h *harness) start(s shape, opts ...bt.Option) *bt.Tree {
	var next bt.NodeID
	var build func(s shape) *bt.Node
	build = func(s shape) *bt.Node {
		next++
		n := h.alloc.Node(next, s.proc)
		for _, k := range s.kids {
			n.AddChild(build(k))
		}
		return n
	}
	opts = append([]bt.Option{
		bt.WithClock(h.clock.Now),
		bt.WithLogger(log.FromZap(zap.New(h.core))),
	}, opts...)
	require.NoError(h.t, h.tree.Init(h.alloc, build(s), opts...))
	h.t.Cleanup(h.tree.Clear)
	return &h.tree
}

func (h *harness) ticks(n int) []bt.Ret {
	out := make([]bt.Ret, n)
	for i := range out {
		out[i] = h.tree.TickRun()
	}
	return out
}
