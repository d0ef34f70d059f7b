package bt

import "github.com/zeusync/behave/pkg/generic"

// NodeID identifies a node inside its tree.
type NodeID int32

// Node is a vertex of the static tree graph: identity, ordered children and
// the process that decides what ticking it means.
type Node struct {
	id       NodeID
	children []*Node
	process  Process
	board    Blackboard

	boardPool *generic.Pool[Blackboard]
}

// Init sets the node identity. It is called once after the node is acquired.
func (n *Node) Init(id NodeID, process Process) {
	n.id = id
	n.process = process
}

// AddChild appends child. Children are evaluated in insertion order.
func (n *Node) AddChild(child *Node) {
	n.children = append(n.children, child)
}

func (n *Node) ID() NodeID        { return n.id }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) Len() int          { return len(n.children) }
func (n *Node) Child(i int) *Node { return n.children[i] }
func (n *Node) Process() Process  { return n.process }
func (n *Node) Board() Blackboard { return n.board }

// Tick evaluates the node inside c. When an abort was requested it returns
// Running without descending, so the current tick unwinds untouched.
func (n *Node) Tick(c *Context) Ret {
	if c.abort {
		return Running
	}
	c.enter(n)
	ret := n.process.OnTickRun(n, c)
	c.leave(n, ret)
	return ret
}

func (n *Node) OnCreate() {}

func (n *Node) OnRelease() {
	n.id = 0
	n.process = nil
	clear(n.children)
	n.children = n.children[:0]
	n.board = nil
	n.boardPool = nil
}

func (n *Node) dropBoard() {
	if n.board != nil {
		n.boardPool.Put(n.board)
		n.board, n.boardPool = nil, nil
	}
}
