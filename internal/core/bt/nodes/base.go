package nodes

import (
	"github.com/zeusync/behave/internal/core/bt"
	"github.com/zeusync/behave/internal/core/observability/log"
)

// base implements the lifecycle hooks shared by stateless processes and keeps
// the registered name for log entries.
type base struct{ name string }

func (b *base) Name() string { return b.name }
func (b *base) OnCreate()    {}
func (b *base) OnRemove()    {}

func named(name string) base { return base{name: name} }

func invalidResult(c *bt.Context, n *bt.Node, process string, ret bt.Ret) {
	c.Logger().Error("unexpected child result",
		log.String("process", process),
		log.Int("node", int(n.ID())),
		log.Stringer("ret", ret),
	)
}

// onlyChild returns the single child of a decorator, logging when the shape is wrong.
func onlyChild(c *bt.Context, n *bt.Node, process string) (*bt.Node, bool) {
	if n.Len() != 1 {
		c.Logger().Error("decorator needs exactly one child",
			log.String("process", process),
			log.Int("node", int(n.ID())),
			log.Int("children", n.Len()),
		)
		return nil, false
	}
	return n.Child(0), true
}
