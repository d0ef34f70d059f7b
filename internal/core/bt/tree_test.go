package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeLeafRunsUntilDone(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	leaf := script(Running, Running, Success)
	var tree Tree
	require.NoError(t, tree.Init(a, a.Node(1, leaf)))
	defer tree.Clear()

	assert.Equal(t, Running, tree.TickRun())
	assert.Equal(t, StateSuspended, tree.State())
	assert.Equal(t, []NodeID{1}, tree.Context().Stack())

	assert.Equal(t, Running, tree.TickRun())
	assert.Equal(t, Success, tree.TickRun())
	assert.Equal(t, StateIdle, tree.State())
	assert.Zero(t, tree.Depth())
	assert.Equal(t, 3, leaf.calls)
}

func TestTreeStackIsAncestorChain(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	outer, inner := &chainProc{}, &chainProc{}
	leaf := script(Running, Running, Fail)

	root := a.Node(1, outer)
	mid := a.Node(2, inner)
	mid.AddChild(a.Node(3, leaf))
	root.AddChild(mid)

	var tree Tree
	require.NoError(t, tree.Init(a, root))
	defer tree.Clear()

	assert.Equal(t, Running, tree.TickRun())
	assert.Equal(t, []NodeID{1, 2, 3}, tree.Context().Stack())

	// resumes the leaf directly, the ancestors are not ticked
	assert.Equal(t, Running, tree.TickRun())
	assert.Empty(t, outer.resolved)
	assert.Equal(t, 2, leaf.calls)

	// the failure resolves one level per pass within the same tick
	assert.Equal(t, Fail, tree.TickRun())
	assert.Equal(t, []Ret{Fail}, inner.resolved)
	assert.Equal(t, []Ret{Fail}, outer.resolved)
	assert.Zero(t, tree.Depth())
}

func TestTreeAbortClearsSuspension(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	leaf := script(Running)
	root := a.Node(1, &chainProc{})
	root.AddChild(a.Node(2, leaf))

	var tree Tree
	require.NoError(t, tree.Init(a, root))
	defer tree.Clear()

	require.Equal(t, Running, tree.TickRun())
	require.Equal(t, 2, tree.Depth())

	tree.Abort()
	assert.Equal(t, Abort, tree.TickRun())
	assert.Zero(t, tree.Depth())
	assert.Equal(t, StateAborted, tree.State())
	assert.False(t, tree.Context().IsAbort())
	assert.Equal(t, 1, leaf.calls, "abort stops the descent before the leaf")

	// a fresh activation starts again at the root
	assert.Equal(t, Running, tree.TickRun())
	assert.Equal(t, 2, leaf.calls)
	assert.Equal(t, 2, tree.Depth())
}

func TestTreeAbortResultFromNode(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	root := a.Node(1, Func(func(n *Node, c *Context) Ret { return Abort }))

	var tree Tree
	require.NoError(t, tree.Init(a, root))
	defer tree.Clear()

	assert.Equal(t, Abort, tree.TickRun())
	assert.Equal(t, StateAborted, tree.State())
}

func TestTreeClearThenInitBehavesFresh(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	run := func() []Ret {
		leaf := script(Running, Success)
		root := a.Node(1, &chainProc{})
		root.AddChild(a.Node(2, leaf))
		var tree Tree
		require.NoError(t, tree.Init(a, root))
		defer tree.Clear()
		return []Ret{tree.TickRun(), tree.TickRun(), tree.TickRun()}
	}

	first := run()
	assert.Equal(t, first, run())

	stats := a.Stats()
	assert.Equal(t, 2, stats["nodes"].Created, "second run reuses released nodes")
	assert.Equal(t, 1, stats["contexts"].Created)
}

func TestTreeInitErrors(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	var tree Tree
	assert.ErrorIs(t, tree.Init(a, nil), ErrNoRoot)

	root := a.Node(1, script(Success))
	root.AddChild(a.Node(1, script(Success)))
	assert.ErrorIs(t, tree.Init(a, root), ErrDuplicateID)

	ok := a.Node(5, script(Success))
	require.NoError(t, tree.Init(a, ok))
	assert.ErrorIs(t, tree.Init(a, ok), ErrTreeActive)
	tree.Clear()
}

func TestTreeTickWithoutInit(t *testing.T) {
	var tree Tree
	assert.Equal(t, Fail, tree.TickRun())
}

func TestTreeReentrantTickPanics(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	var tree Tree
	root := a.Node(1, Func(func(n *Node, c *Context) Ret {
		return tree.TickRun()
	}))
	require.NoError(t, tree.Init(a, root))
	assert.Panics(t, func() { tree.TickRun() })
}

func TestTreeDeltaTime(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	clock := newManualClock()
	var deltas []float64
	root := a.Node(1, Func(func(n *Node, c *Context) Ret {
		deltas = append(deltas, c.DeltaTime().Seconds())
		return c.Yield(n)
	}))
	var tree Tree
	require.NoError(t, tree.Init(a, root, WithClock(clock.Now)))
	defer tree.Clear()

	tree.TickRun()
	clock.Advance(500e6)
	tree.TickRun()
	tree.Reset()
	clock.Advance(2e9)
	tree.TickRun()
	assert.Equal(t, []float64{0, 0.5, 0}, deltas)
}

func TestImplicitYieldOnRunning(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	calls := 0
	root := a.Node(7, Func(func(n *Node, c *Context) Ret {
		calls++
		if calls == 1 {
			assert.False(t, c.IsResume(n))
			return Running
		}
		assert.True(t, c.IsResume(n))
		return Success
	}))
	var tree Tree
	require.NoError(t, tree.Init(a, root))
	defer tree.Clear()

	assert.Equal(t, Running, tree.TickRun())
	assert.Equal(t, []NodeID{7}, tree.Context().Stack())
	assert.Equal(t, Success, tree.TickRun())
}
