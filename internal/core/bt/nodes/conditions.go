package nodes

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zeusync/behave/internal/core/bt"
)

// VarIsSet succeeds when the variable exists and, for booleans, is true.
type VarIsSet struct {
	base
	key string
}

func (p *VarIsSet) Configure(params bt.Params) error {
	key, err := params.String("key", "")
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("%w: key is required", bt.ErrInvalidParam)
	}
	p.key = key
	return nil
}

func (p *VarIsSet) OnRemove() { p.key = "" }

func (p *VarIsSet) OnTickRun(_ *bt.Node, c *bt.Context) bt.Ret {
	v, ok := c.Vars().Get(p.key)
	if !ok {
		return bt.Fail
	}
	if b, isBool := v.(bool); isBool && !b {
		return bt.Fail
	}
	return bt.Success
}

// VarEquals succeeds when the variable equals the configured value.
// Numbers compare by value whatever their decoded type.
type VarEquals struct {
	base
	key   string
	value any
}

func (p *VarEquals) Configure(params bt.Params) error {
	key, err := params.String("key", "")
	if err != nil {
		return err
	}
	if key == "" || !params.Has("value") {
		return errors.Join(bt.ErrInvalidParam, errors.New("key and value are required"))
	}
	p.key, p.value = key, params["value"]
	return nil
}

func (p *VarEquals) OnRemove() { p.key, p.value = "", nil }

func (p *VarEquals) OnTickRun(_ *bt.Node, c *bt.Context) bt.Ret {
	v, ok := c.Vars().Get(p.key)
	if ok && equalValues(v, p.value) {
		return bt.Success
	}
	return bt.Fail
}

func equalValues(a, b any) bool {
	fa, errA := bt.Params{"v": a}.Float("v", 0)
	fb, errB := bt.Params{"v": b}.Float("v", 0)
	if errA == nil && errB == nil {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}
