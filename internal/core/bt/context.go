package bt

import (
	"time"

	"github.com/zeusync/behave/internal/core/observability/log"
)

// Context is the run state of one tree: the abort flag, the suspension stack
// and the result handed from a resolved node to its parent.
//
// The suspension stack holds node ids, bottom to top, forming an ancestor chain
// from the root (or the outermost suspended composite) down to the deepest
// suspended node. It is plain data: dropping it cancels every suspension.
//
// Ticking is split into passes. A pass ticks one node, either the root when
// nothing is suspended or the current stack top. While a pass descends, the
// context tracks the live call path; a node that yields records that path as
// the new suspension chain, which replaces the stack above the pass origin
// once the pass unwinds.
type Context struct {
	alloc *Allocator
	tree  *Tree

	abort      bool
	stack      []NodeID
	lastReturn Ret

	// per-pass state
	frames    []NodeID
	chain     []NodeID
	origin    NodeID
	resolving bool

	// nodes that ended the previous tick Running
	suspended map[NodeID]struct{}

	now   time.Time
	delta time.Duration
	ticks uint64
}

func newContext() *Context {
	return &Context{suspended: make(map[NodeID]struct{})}
}

func (c *Context) OnCreate() {}

func (c *Context) OnRelease() {
	c.reset()
	c.alloc = nil
	c.tree = nil
	c.now = time.Time{}
	c.delta = 0
	c.ticks = 0
}

// reset drops every suspension and the abort request.
func (c *Context) reset() {
	c.abort = false
	c.stack = c.stack[:0]
	c.lastReturn = Invalid
	c.frames = c.frames[:0]
	c.chain = c.chain[:0]
	c.origin = 0
	c.resolving = false
	clear(c.suspended)
}

// Yield suspends n and returns Running. n resumes from the stack on the next
// tick, after any of its suspended descendants have resolved.
func (c *Context) Yield(n *Node) Ret {
	depth := c.depthOf(n)
	if depth < 0 {
		c.logger().Error("yield outside of node tick", log.Int("node", int(n.id)))
		return Running
	}
	if len(c.chain) <= depth || c.chain[depth] != n.id {
		c.chain = append(c.chain[:0], c.frames[:depth+1]...)
	}
	return Running
}

// Hold suspends n as the resumption point: suspensions recorded below n during
// this pass are discarded because n re-ticks those children itself.
func (c *Context) Hold(n *Node) Ret {
	c.Yield(n)
	if depth := c.depthOf(n); depth >= 0 && len(c.chain) > depth+1 {
		c.chain = c.chain[:depth+1]
	}
	return Running
}

// IsResume reports whether n ended its previous tick Running and is now
// continuing rather than starting over.
func (c *Context) IsResume(n *Node) bool {
	_, ok := c.suspended[n.id]
	return ok
}

// Resolved reports whether n is being resumed from the stack because the child
// it was waiting on finished. The child's result is LastReturn.
func (c *Context) Resolved(n *Node) bool {
	return c.resolving && c.origin == n.id && len(c.frames) == 1
}

// LastReturn is the result of the node most recently popped from the stack.
func (c *Context) LastReturn() Ret {
	return c.lastReturn
}

// Descend is the child step of single-child decorators: the resolved result
// when n resumes after child finished, otherwise child's tick result.
func (c *Context) Descend(n, child *Node) Ret {
	if c.Resolved(n) {
		return c.lastReturn
	}
	return child.Tick(c)
}

// SetAbort requests that the tree stops this tick and discards its suspensions.
func (c *Context) SetAbort() {
	c.abort = true
}

func (c *Context) IsAbort() bool {
	return c.abort
}

// Now is the clock reading taken at the start of the current tick.
func (c *Context) Now() time.Time {
	return c.now
}

// DeltaTime is the time elapsed since the previous tick of this activation.
func (c *Context) DeltaTime() time.Duration {
	return c.delta
}

// Ticks counts TickRun calls since the tree was initialized.
func (c *Context) Ticks() uint64 {
	return c.ticks
}

func (c *Context) Vars() *Vars {
	return c.tree.vars
}

func (c *Context) Bindings() Bindings {
	return c.tree.bindings
}

func (c *Context) Logger() log.Log {
	return c.logger()
}

// Depth is the number of suspended nodes on the stack.
func (c *Context) Depth() int {
	return len(c.stack)
}

// Stack returns a copy of the suspension stack, bottom first.
func (c *Context) Stack() []NodeID {
	out := make([]NodeID, len(c.stack))
	copy(out, c.stack)
	return out
}

func (c *Context) logger() log.Log {
	if c.tree == nil || c.tree.logger == nil {
		return log.NewNop()
	}
	return c.tree.logger
}

func (c *Context) depthOf(n *Node) int {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i] == n.id {
			return i
		}
	}
	return -1
}

func (c *Context) enter(n *Node) {
	if len(c.frames) > 0 {
		// the origin descended, so the resolved result was either consumed or ignored
		c.resolving = false
	}
	c.frames = append(c.frames, n.id)
}

func (c *Context) leave(n *Node, ret Ret) {
	depth := len(c.frames) - 1
	switch ret {
	case Running:
		if len(c.chain) <= depth || c.chain[depth] != n.id {
			c.chain = append(c.chain[:0], c.frames...)
		}
		c.suspended[n.id] = struct{}{}
	default:
		if len(c.chain) > depth {
			c.chain = c.chain[:depth]
		}
		c.forget(n)
		if ret == Abort {
			c.abort = true
		}
	}
	if depth == 0 {
		c.resolving = false
	}
	c.frames = c.frames[:depth]
}

// forget clears the suspended marks of n and its subtree.
func (c *Context) forget(n *Node) {
	if len(c.suspended) == 0 {
		return
	}
	delete(c.suspended, n.id)
	for _, child := range n.children {
		c.forget(child)
	}
}

// pass ticks n, the node at stack index base (or the root when base equals
// the stack length), and rewrites the stack above base with the chain the
// pass recorded.
func (c *Context) pass(n *Node, base int, resolving bool) Ret {
	c.frames = c.frames[:0]
	c.chain = c.chain[:0]
	c.origin = n.id
	c.resolving = resolving
	ret := n.Tick(c)
	c.resolving = false
	c.stack = append(c.stack[:base], c.chain...)
	return ret
}
