package bt

import (
	"fmt"
	"time"

	"github.com/zeusync/behave/internal/core/observability/log"
)

// State is where a tree is in its activation cycle.
type State uint8

const (
	// StateIdle: nothing suspended, the next tick starts at the root.
	StateIdle State = iota
	// StateSuspended: the next tick resumes from the stack top.
	StateSuspended
	// StateAborted: the last tick was aborted and the context was cleared.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSuspended:
		return "suspended"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Tree owns a root node and the context that runs it.
type Tree struct {
	name     string
	alloc    *Allocator
	root     *Node
	index    map[NodeID]*Node
	ctx      *Context
	state    State
	ticking  bool
	last     time.Time
	clock    func() time.Time
	bindings Bindings
	vars     *Vars
	logger   log.Log
}

type Option func(*Tree)

// WithClock sets the monotonic clock read once per tick. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(t *Tree) { t.clock = clock }
}

func WithBindings(b Bindings) Option {
	return func(t *Tree) { t.bindings = b }
}

func WithVars(v *Vars) Option {
	return func(t *Tree) { t.vars = v }
}

func WithLogger(l log.Log) Option {
	return func(t *Tree) { t.logger = l }
}

func WithName(name string) Option {
	return func(t *Tree) { t.name = name }
}

// Init binds root to the tree and acquires a context from alloc.
// Node ids must be unique within root's subtree.
func (t *Tree) Init(alloc *Allocator, root *Node, opts ...Option) error {
	if t.ctx != nil {
		return ErrTreeActive
	}
	if root == nil {
		return ErrNoRoot
	}
	index := make(map[NodeID]*Node)
	if err := indexNodes(root, index); err != nil {
		return err
	}

	*t = Tree{
		alloc: alloc,
		root:  root,
		index: index,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.bindings == nil {
		t.bindings = StaticBindings{}
	}
	if t.vars == nil {
		t.vars = NewVars()
	}
	if t.logger == nil {
		t.logger = log.NewNop()
	}
	if t.name != "" {
		t.logger = t.logger.With(log.String("tree", t.name))
	}

	t.ctx = alloc.acquireContext()
	t.ctx.tree = t
	return nil
}

func indexNodes(n *Node, index map[NodeID]*Node) error {
	if _, ok := index[n.id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, n.id)
	}
	index[n.id] = n
	for _, child := range n.children {
		if err := indexNodes(child, index); err != nil {
			return err
		}
	}
	return nil
}

// TickRun runs one tick. With nothing suspended it ticks the root; otherwise
// it resumes the stack top and keeps resolving outwards until a node
// suspends again or the stack drains. An abort requested during the tick
// clears the context and wins over any other result.
func (t *Tree) TickRun() Ret {
	c := t.ctx
	if c == nil {
		t.log().Error("tick on a tree that is not initialized")
		return Fail
	}
	if t.ticking {
		panic("bt: reentrant TickRun")
	}
	t.ticking = true
	defer func() { t.ticking = false }()

	now := t.clock()
	if !t.last.IsZero() {
		c.delta = now.Sub(t.last)
	} else {
		c.delta = 0
	}
	c.now, t.last = now, now
	c.ticks++

	var ret Ret
	if len(c.stack) == 0 {
		ret = c.pass(t.root, 0, false)
	} else {
		resolving := false
		for len(c.stack) > 0 {
			base := len(c.stack) - 1
			top, ok := t.index[c.stack[base]]
			if !ok {
				t.log().Error("suspended node is not part of the tree", log.Int("node", int(c.stack[base])))
				c.abort = true
				break
			}
			ret = c.pass(top, base, resolving)
			if ret == Running || c.abort {
				break
			}
			c.lastReturn = ret
			resolving = true
		}
	}

	if c.abort {
		c.reset()
		t.state = StateAborted
		return Abort
	}
	if len(c.stack) > 0 {
		t.state = StateSuspended
	} else {
		t.state = StateIdle
	}
	return ret
}

// Abort requests an abort. It takes effect on the next TickRun.
func (t *Tree) Abort() {
	if t.ctx != nil {
		t.ctx.SetAbort()
	}
}

// Reset drops every suspension so the next tick starts at the root.
func (t *Tree) Reset() {
	if t.ctx != nil {
		t.ctx.reset()
	}
	t.state = StateIdle
	t.last = time.Time{}
}

// Clear releases the context and the node subtree. It must be called exactly
// once per Init; the tree can then be initialized again.
func (t *Tree) Clear() {
	if t.ctx == nil {
		return
	}
	if t.ticking {
		panic("bt: Clear during TickRun")
	}
	t.alloc.releaseContext(t.ctx)
	t.alloc.ReleaseNode(t.root)
	*t = Tree{}
}

func (t *Tree) Name() string         { return t.name }
func (t *Tree) Root() *Node          { return t.root }
func (t *Tree) State() State         { return t.state }
func (t *Tree) Context() *Context    { return t.ctx }
func (t *Tree) Vars() *Vars          { return t.vars }
func (t *Tree) Initialized() bool    { return t.ctx != nil }
func (t *Tree) Find(id NodeID) *Node { return t.index[id] }

// Depth is the length of the suspension stack.
func (t *Tree) Depth() int {
	if t.ctx == nil {
		return 0
	}
	return len(t.ctx.stack)
}

func (t *Tree) log() log.Log {
	if t.logger == nil {
		return log.NewNop()
	}
	return t.logger
}
