package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterBoard struct{ N int }

func (b *counterBoard) Create() { b.N = 0 }
func (b *counterBoard) Clear()  { b.N = 0 }

type otherBoard struct{ S string }

func (b *otherBoard) Create() {}
func (b *otherBoard) Clear()  { b.S = "" }

func TestReleasedNodeIsReset(t *testing.T) {
	a := NewAllocator(PoolSizes{Nodes: 2})
	root := a.Node(4, script(Success))
	root.AddChild(a.Node(5, script(Success)))
	a.ReleaseNode(root)

	for i := 0; i < 2; i++ {
		n := a.Node(0, nil)
		assert.Zero(t, n.ID())
		assert.Empty(t, n.Children())
		assert.Nil(t, n.Process())
		assert.Nil(t, n.Board())
	}
	assert.Equal(t, 2, a.Stats()["nodes"].Created)
}

func TestReleaseNodeTwicePanics(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	n := a.Node(1, script(Success))
	a.ReleaseNode(n)
	assert.Panics(t, func() { a.ReleaseNode(n) })
}

func TestBoardOfIsPooledPerType(t *testing.T) {
	a := NewAllocator(PoolSizes{})
	var tree Tree
	n := a.Node(1, nil)
	require.NoError(t, tree.Init(a, n))
	c := tree.Context()

	b := BoardOf[counterBoard](c, n)
	b.N = 3
	assert.Same(t, b, BoardOf[counterBoard](c, n))

	// switching type returns the previous board to its pool
	o := BoardOf[otherBoard](c, n)
	o.S = "x"
	assert.Equal(t, 1, a.Stats()["boards"].Idle)

	tree.Clear()
	stats := a.Stats()["boards"]
	assert.Equal(t, 2, stats.Idle)
	assert.Equal(t, 2, stats.Created)

	var again Tree
	m := a.Node(2, nil)
	require.NoError(t, again.Init(a, m))
	defer again.Clear()
	reused := BoardOf[counterBoard](again.Context(), m)
	assert.Same(t, b, reused)
	assert.Zero(t, reused.N)
}
