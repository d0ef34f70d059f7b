package bt

import "github.com/zeusync/behave/pkg/generic"

// Blackboard is pooled scratch storage owned by a single node.
// Create resets the fields when the board is acquired, Clear when it is released.
type Blackboard interface {
	Create()
	Clear()
}

// BoardOf returns the blackboard of type T attached to n, acquiring one from the
// tree allocator on first use. The board stays with the node until the node is released.
func BoardOf[T any, P interface {
	*T
	Blackboard
}](c *Context, n *Node) P {
	if b, ok := n.board.(P); ok {
		return b
	}
	n.dropBoard()
	pool := c.alloc.boardPool(boardKey[T, P](), func() Blackboard { return P(new(T)) })
	b := pool.Get().(P)
	n.board, n.boardPool = b, pool
	return b
}

// boardKey identifies a board type without reflection: a typed nil pointer
// boxed in an interface compares equal only to the same type.
func boardKey[T any, P interface {
	*T
	Blackboard
}]() any {
	return P(nil)
}

func newBoardPool(generate func() Blackboard) *generic.Pool[Blackboard] {
	return generic.NewPoolWithHooks(generate,
		func(b Blackboard) { b.Create() },
		func(b Blackboard) { b.Clear() },
	)
}
