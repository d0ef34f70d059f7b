package nodes

import (
	"fmt"
	"time"

	"github.com/zeusync/behave/internal/core/bt"
	"github.com/zeusync/behave/internal/core/observability/log"
)

// Log writes a message and succeeds in the same tick.
type Log struct {
	base
	message string
}

func (a *Log) Configure(params bt.Params) error {
	msg, err := params.String("message", "")
	if err != nil {
		return err
	}
	a.message = msg
	return nil
}

func (a *Log) OnRemove() { a.message = "" }

func (a *Log) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	c.Logger().Info(a.message, log.Int("node", int(n.ID())), log.Int64("tick", int64(c.Ticks())))
	return bt.Success
}

// Wait succeeds once Duration has elapsed on the tree clock since it started.
type Wait struct {
	base
	duration time.Duration
}

func (a *Wait) Configure(params bt.Params) error {
	d, err := params.Duration("duration", 0)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("%w: negative duration", bt.ErrInvalidParam)
	}
	a.duration = d
	return nil
}

func (a *Wait) OnRemove() { a.duration = 0 }

func (a *Wait) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	b := bt.BoardOf[WaitBoard](c, n)
	if !c.IsResume(n) {
		b.Deadline = c.Now().Add(a.duration)
	}
	if c.Now().Before(b.Deadline) {
		return c.Yield(n)
	}
	return bt.Success
}

// MoveTo moves the bound transform towards a target at Speed units per second.
// The target is either fixed or read from a variable holding a bt.Vec3. Only
// time elapsed since the move started counts, so the first tick never steps.
type MoveTo struct {
	base
	target    bt.Vec3
	targetVar string
	speed     float64
}

func (a *MoveTo) Configure(params bt.Params) error {
	var err error
	if a.target, err = params.Vec3("target", bt.Vec3{}); err != nil {
		return err
	}
	if a.targetVar, err = params.String("target_var", ""); err != nil {
		return err
	}
	if !params.Has("target") && a.targetVar == "" {
		return fmt.Errorf("%w: target or target_var is required", bt.ErrInvalidParam)
	}
	if a.speed, err = params.Float("speed", 1); err != nil {
		return err
	}
	if a.speed <= 0 {
		return fmt.Errorf("%w: speed must be positive", bt.ErrInvalidParam)
	}
	return nil
}

func (a *MoveTo) OnRemove() {
	a.target, a.targetVar, a.speed = bt.Vec3{}, "", 0
}

func (a *MoveTo) OnTickRun(n *bt.Node, c *bt.Context) bt.Ret {
	tr, ok := c.Bindings().Transform()
	if !ok {
		c.Logger().Error("move without a bound transform", log.Int("node", int(n.ID())))
		return bt.Fail
	}
	target := a.target
	if a.targetVar != "" {
		v, _ := c.Vars().Get(a.targetVar)
		t, ok := v.(bt.Vec3)
		if !ok {
			c.Logger().Error("move target variable is not a position",
				log.Int("node", int(n.ID())),
				log.String("var", a.targetVar),
			)
			return bt.Fail
		}
		target = t
	}

	b := bt.BoardOf[MoveBoard](c, n)
	if !c.IsResume(n) {
		b.Last = c.Now()
	}
	elapsed := c.Now().Sub(b.Last)
	b.Last = c.Now()

	pos := tr.Position()
	remaining := pos.Distance(target)
	step := a.speed * elapsed.Seconds()
	if step >= remaining {
		tr.SetPosition(target)
		return bt.Success
	}
	tr.SetPosition(pos.Add(target.Sub(pos).Scale(step / remaining)))
	return c.Yield(n)
}

// SetVar writes a variable and succeeds.
type SetVar struct {
	base
	key   string
	value any
}

func (a *SetVar) Configure(params bt.Params) error {
	key, err := params.String("key", "")
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: key is required", bt.ErrInvalidParam)
	}
	a.key, a.value = key, params["value"]
	return nil
}

func (a *SetVar) OnRemove() { a.key, a.value = "", nil }

func (a *SetVar) OnTickRun(_ *bt.Node, c *bt.Context) bt.Ret {
	c.Vars().Set(a.key, a.value)
	return bt.Success
}

// Result finishes immediately with a fixed result.
type Result struct {
	base
	ret bt.Ret
}

func (a *Result) Configure(params bt.Params) error {
	s, err := params.String("ret", "SUCCESS")
	if err != nil {
		return err
	}
	var ret bt.Ret
	if err := ret.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("%w: %v", bt.ErrInvalidParam, err)
	}
	if ret == bt.Running {
		return fmt.Errorf("%w: result cannot be RUNNING", bt.ErrInvalidParam)
	}
	a.ret = ret
	return nil
}

func (a *Result) OnRemove() { a.ret = bt.Invalid }

func (a *Result) OnTickRun(_ *bt.Node, c *bt.Context) bt.Ret {
	if a.ret == bt.Abort {
		c.SetAbort()
	}
	return a.ret
}
