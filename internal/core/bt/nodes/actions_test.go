package nodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/behave/internal/core/bt"
)

func TestWaitRunsUntilDeadline(t *testing.T) {
	h := newHarness(t)
	h.start(leaf(h.proc("Wait", bt.Params{"duration": "100ms"})))

	for _, at := range []time.Duration{0, 30, 30, 39} {
		h.clock.Advance(at * time.Millisecond)
		require.Equal(t, R, h.tree.TickRun(), "elapsed before deadline")
	}
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, S, h.tree.TickRun())
}

func TestWaitSurvivesManyResumes(t *testing.T) {
	h := newHarness(t)
	h.start(leaf(h.proc("Wait", bt.Params{"duration": 1})))

	for i := 0; i < 99; i++ {
		require.Equal(t, R, h.tree.TickRun())
		h.clock.Advance(10 * time.Millisecond)
	}
	h.clock.Advance(10 * time.Millisecond)
	assert.Equal(t, S, h.tree.TickRun())
}

func TestWaitZeroDurationSucceedsAtOnce(t *testing.T) {
	h := newHarness(t)
	h.start(leaf(h.proc("Wait", nil)))
	assert.Equal(t, S, h.tree.TickRun())
}

func TestMoveToWithoutTransformFails(t *testing.T) {
	h := newHarness(t)
	tree := h.start(leaf(h.proc("MoveTo", bt.Params{"target": []any{1, 0, 0}})))

	assert.Equal(t, F, tree.TickRun())
	assert.Zero(t, tree.Depth())
	assert.Equal(t, 1, h.logs.FilterMessage("move without a bound transform").Len())
}

func TestMoveToTreatsNilPointAsUnbound(t *testing.T) {
	h := newHarness(t)
	tree := h.start(leaf(h.proc("MoveTo", bt.Params{"target": []any{1, 0, 0}})),
		bt.WithBindings(bt.StaticBindings{T: (*bt.Point)(nil)}))

	assert.NotPanics(t, func() { assert.Equal(t, F, tree.TickRun()) })
	assert.Equal(t, 1, h.logs.FilterMessage("move without a bound transform").Len())
}

func TestMoveToSnapsOnFinalStep(t *testing.T) {
	h := newHarness(t)
	p := &bt.Point{}
	h.start(leaf(h.proc("MoveTo", bt.Params{"target": []any{10, 0, 0}, "speed": 4})),
		bt.WithBindings(bt.StaticBindings{T: p}))

	assert.Equal(t, R, h.tree.TickRun())
	assert.Equal(t, bt.Vec3{}, p.Pos)

	h.clock.Advance(time.Second)
	assert.Equal(t, R, h.tree.TickRun())
	assert.InDelta(t, 4, p.Pos.X, 1e-9)

	h.clock.Advance(time.Second)
	assert.Equal(t, R, h.tree.TickRun())
	assert.InDelta(t, 8, p.Pos.X, 1e-9)

	// the remaining 2 units are shorter than a step: snap and finish this tick
	h.clock.Advance(time.Second)
	assert.Equal(t, S, h.tree.TickRun())
	assert.Equal(t, bt.Vec3{X: 10}, p.Pos)
}

func TestMoveToIgnoresTimeBeforeItStarted(t *testing.T) {
	h := newHarness(t)
	p := &bt.Point{}
	h.start(with(h.proc("Sequence", nil),
		leaf(h.proc("Wait", bt.Params{"duration": 2})),
		leaf(h.proc("MoveTo", bt.Params{"target": []any{10, 0, 0}, "speed": 1})),
	), bt.WithBindings(bt.StaticBindings{T: p}))

	assert.Equal(t, R, h.tree.TickRun())
	h.clock.Advance(2 * time.Second)
	assert.Equal(t, R, h.tree.TickRun(), "wait done, move just started")
	assert.Equal(t, bt.Vec3{}, p.Pos)

	h.clock.Advance(time.Second)
	assert.Equal(t, R, h.tree.TickRun())
	assert.InDelta(t, 1, p.Pos.X, 1e-9)
}

func TestMoveToTargetFromVars(t *testing.T) {
	h := newHarness(t)
	p := &bt.Point{Pos: bt.Vec3{Y: 1}}
	vars := bt.NewVars()
	vars.Set("goal", bt.Vec3{Y: 1})
	h.start(leaf(h.proc("MoveTo", bt.Params{"target_var": "goal"})),
		bt.WithBindings(bt.StaticBindings{T: p}), bt.WithVars(vars))

	assert.Equal(t, S, h.tree.TickRun())

	vars.Set("goal", "nowhere")
	assert.Equal(t, F, h.tree.TickRun())
}

func TestMoveToRequiresTarget(t *testing.T) {
	h := newHarness(t)
	_, err := h.reg.Acquire("MoveTo", bt.Params{"speed": 2})
	assert.ErrorIs(t, err, bt.ErrInvalidParam)
}

func TestLogAndSetVar(t *testing.T) {
	h := newHarness(t)
	tree := h.start(with(h.proc("Sequence", nil),
		leaf(h.proc("SetVar", bt.Params{"key": "seen", "value": true})),
		leaf(h.proc("Log", bt.Params{"message": "spotted"})),
	))

	assert.Equal(t, S, tree.TickRun())
	seen, ok := tree.Vars().Bool("seen")
	assert.True(t, ok && seen)
	assert.Equal(t, 1, h.logs.FilterMessage("spotted").Len())
}

func TestResultAbort(t *testing.T) {
	h := newHarness(t)
	h.start(with(h.proc("Sequence", nil),
		leaf(h.proc("Result", bt.Params{"ret": "ABORT"})),
		leaf(script(S)),
	))
	assert.Equal(t, A, h.tree.TickRun())

	_, err := h.reg.Acquire("Result", bt.Params{"ret": "RUNNING"})
	assert.ErrorIs(t, err, bt.ErrInvalidParam)
}

func TestConditions(t *testing.T) {
	h := newHarness(t)
	vars := bt.NewVars()
	tree := h.start(with(h.proc("Sequence", nil),
		leaf(h.proc("VarIsSet", bt.Params{"key": "alert"})),
		leaf(h.proc("VarEquals", bt.Params{"key": "hp", "value": 40})),
	), bt.WithVars(vars))

	assert.Equal(t, F, tree.TickRun())
	vars.Set("alert", false)
	assert.Equal(t, F, tree.TickRun())
	vars.Set("alert", true)
	vars.Set("hp", 40.0)
	assert.Equal(t, S, tree.TickRun())
	vars.Set("hp", "40")
	assert.Equal(t, F, tree.TickRun())
}

func TestSelectorFallsBackAcrossTicks(t *testing.T) {
	h := newHarness(t)
	attempt := script(R, F)
	fallback := script(R, S)
	h.start(with(h.proc("Selector", nil), leaf(attempt), leaf(fallback)))

	assert.Equal(t, []bt.Ret{R, R, S}, h.ticks(3))
}
