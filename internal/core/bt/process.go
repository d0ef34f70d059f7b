package bt

// Process is the logic bound to a Node.
//
// A process instance may be shared by many nodes and many trees, so it must not
// keep per-activation state in its own fields. Anything that has to survive a
// suspension lives in the node's blackboard (see BoardOf) or in the Context.
type Process interface {
	// OnCreate runs when the instance is handed out by the registry.
	OnCreate()
	// OnRemove runs when the instance goes back to the registry.
	OnRemove()
	// OnTickRun evaluates n for the current tick.
	OnTickRun(n *Node, c *Context) Ret
}

// Configurable processes receive their definition parameters after creation.
type Configurable interface {
	Configure(params Params) error
}

// Func adapts a plain function into a Process.
func Func(fn func(n *Node, c *Context) Ret) Process {
	return &funcProcess{fn: fn}
}

type funcProcess struct {
	fn func(n *Node, c *Context) Ret
}

func (*funcProcess) OnCreate() {}
func (*funcProcess) OnRemove() {}

func (p *funcProcess) OnTickRun(n *Node, c *Context) Ret { return p.fn(n, c) }
