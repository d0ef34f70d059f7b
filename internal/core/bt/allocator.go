package bt

import "github.com/zeusync/behave/pkg/generic"

// Allocator owns the pools a set of trees draws from: nodes, contexts and
// node blackboards. It is passed explicitly to everything that builds or runs
// trees and, like the trees themselves, is used from a single goroutine.
type Allocator struct {
	nodes    *generic.Pool[*Node]
	contexts *generic.Pool[*Context]
	boards   map[any]*generic.Pool[Blackboard]
}

// PoolSizes is the number of instances created up front per pool.
type PoolSizes struct {
	Nodes    int `yaml:"nodes" validate:"gte=0"`
	Contexts int `yaml:"contexts" validate:"gte=0"`
}

func NewAllocator(warm PoolSizes) *Allocator {
	a := &Allocator{boards: make(map[any]*generic.Pool[Blackboard])}
	a.nodes = generic.NewHotPool(func() *Node { return &Node{} }, warm.Nodes)
	a.contexts = generic.NewHotPool(func() *Context { return newContext() }, warm.Contexts)
	return a
}

// Node acquires a node and initializes its identity.
func (a *Allocator) Node(id NodeID, process Process) *Node {
	n := a.nodes.Get()
	n.Init(id, process)
	return n
}

// ReleaseNode returns n and its whole subtree, including blackboards, to the pools.
// Processes are not released: they are shared and belong to whoever acquired them.
func (a *Allocator) ReleaseNode(n *Node) {
	if n == nil {
		return
	}
	for _, child := range n.children {
		a.ReleaseNode(child)
	}
	n.dropBoard()
	a.nodes.Put(n)
}

func (a *Allocator) acquireContext() *Context {
	c := a.contexts.Get()
	c.alloc = a
	return c
}

func (a *Allocator) releaseContext(c *Context) {
	a.contexts.Put(c)
}

func (a *Allocator) boardPool(key any, generate func() Blackboard) *generic.Pool[Blackboard] {
	p, ok := a.boards[key]
	if !ok {
		p = newBoardPool(generate)
		a.boards[key] = p
	}
	return p
}

// Stats reports pool counters. Board pools are summed under "boards".
func (a *Allocator) Stats() map[string]generic.PoolStats {
	var boards generic.PoolStats
	for _, p := range a.boards {
		s := p.Stats()
		boards.Created += s.Created
		boards.Acquired += s.Acquired
		boards.Released += s.Released
		boards.Idle += s.Idle
	}
	return map[string]generic.PoolStats{
		"nodes":    a.nodes.Stats(),
		"contexts": a.contexts.Stats(),
		"boards":   boards,
	}
}
