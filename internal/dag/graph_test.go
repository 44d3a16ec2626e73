package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_AppendNode_Chain(t *testing.T) {
	g := NewGraph()

	n0, err := g.AppendNode("op0", nil)
	require.NoError(t, err)

	n1, err := g.AppendNode("op1", []int{1})
	require.NoError(t, err)

	n2, err := g.AppendNode("op2", []int{1, 2})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Same(t, n0, g.Head())
	assert.Same(t, n2, g.Tail())

	assert.Equal(t, []*Node{n0}, n1.Operands)
	assert.Equal(t, []*Node{n1, n0}, n2.Operands)
	assert.Equal(t, []*Node{n1, n2}, n0.Users)
	assert.Equal(t, []*Node{n2}, n1.Users)
}

func TestGraph_AppendNode_SelfReferenceAddsNoUserEdge(t *testing.T) {
	g := NewGraph()

	n0, err := g.AppendNode("op0", nil)
	require.NoError(t, err)

	n1, err := g.AppendNode("op1", []int{0})
	require.NoError(t, err)

	assert.Equal(t, []*Node{n1}, n1.Operands)
	assert.Empty(t, n1.Users)
	assert.Empty(t, n0.Users)
}

func TestGraph_AppendNode_InvalidOperandBeforeHead(t *testing.T) {
	g := NewGraph()

	_, err := g.AppendNode("op0", []int{1})
	require.Error(t, err)
}

func TestGraph_MultiplicityOfOperandsAndUsers(t *testing.T) {
	g := NewGraph()

	n0, err := g.AppendNode("op0", nil)
	require.NoError(t, err)

	n1, err := g.AppendNode("op1", []int{1, 1})
	require.NoError(t, err)

	assert.Equal(t, []*Node{n0, n0}, n1.Operands)
	assert.Equal(t, []*Node{n1, n1}, n0.Users)
}

func TestGraph_MoveAfter(t *testing.T) {
	g := NewGraph()
	n0, _ := g.AppendNode("op0", nil)
	n1, _ := g.AppendNode("op1", []int{1})
	n2, _ := g.AppendNode("op2", []int{1})

	g.MoveAfter(n2, n0)

	got := g.Nodes()
	assert.Equal(t, []*Node{n0, n2, n1}, got)
	assert.Same(t, n1, g.Tail())
	assert.Same(t, n0, g.Head())
}

func TestGraph_MoveBefore_ToHead(t *testing.T) {
	g := NewGraph()
	n0, _ := g.AppendNode("op0", nil)
	n1, _ := g.AppendNode("op1", []int{1})
	n2, _ := g.AppendNode("op2", []int{1})

	g.MoveBefore(n2, n0)

	got := g.Nodes()
	assert.Equal(t, []*Node{n2, n0, n1}, got)
	assert.Same(t, n2, g.Head())
}

func TestGraph_ReplaceUsesWithin_RestrictedToCohort(t *testing.T) {
	g := NewGraph()
	producer, _ := g.AppendNode("op0", nil)
	near, _ := g.AppendNode("op1", []int{1})
	far, _ := g.AppendNode("op2", []int{2})
	copyNode := g.NewCopyNode(producer)

	g.ReplaceUsesWithin(producer, copyNode, []*Node{far})

	assert.Equal(t, []*Node{producer}, near.Operands)
	assert.Equal(t, []*Node{copyNode}, far.Operands)
	assert.Equal(t, []*Node{near, copyNode}, producer.Users)
	assert.Equal(t, []*Node{far}, copyNode.Users)
}

func TestGraph_ReplaceUsesWithin_PreservesMultiplicity(t *testing.T) {
	g := NewGraph()
	producer, _ := g.AppendNode("op0", nil)
	user, _ := g.AppendNode("op1", []int{1, 1})
	copyNode := g.NewCopyNode(producer)

	g.ReplaceUsesWithin(producer, copyNode, []*Node{user})

	assert.Equal(t, []*Node{copyNode, producer}, user.Operands)
	assert.Equal(t, []*Node{user, copyNode}, producer.Users)
	assert.Equal(t, []*Node{user}, copyNode.Users)
}

func TestGraph_DeepCopy_Isomorphism(t *testing.T) {
	g := NewGraph()
	n0, _ := g.AppendNode("op0", nil)
	n1, _ := g.AppendNode("op1", []int{1})
	n2, _ := g.AppendNode("op2", []int{1, 2})
	_ = n1

	cp, mapping := g.DeepCopy()

	require.Equal(t, g.Len(), cp.Len())

	orig := g.Nodes()
	copied := cp.Nodes()
	for i, on := range orig {
		cn := copied[i]
		assert.Equal(t, on.OpCode, cn.OpCode)
		assert.NotSame(t, on, cn)
		assert.Same(t, mapping[on], cn)
		for j, op := range on.Operands {
			assert.Same(t, mapping[op], cn.Operands[j])
		}
	}

	assert.NotSame(t, n0, mapping[n0])
	assert.NotSame(t, n2, mapping[n2])
}

func TestGraph_Reorder_CommitsPositionAssignment(t *testing.T) {
	g := NewGraph()
	n0, _ := g.AppendNode("op0", nil)
	n1, _ := g.AppendNode("op1", []int{1})
	n2, _ := g.AppendNode("op2", []int{1})

	n0.Position = 2
	n1.Position = 0
	n2.Position = 1

	g.Reorder()

	assert.Equal(t, []*Node{n1, n2, n0}, g.Nodes())
	assert.Same(t, n1, g.Head())
	assert.Same(t, n0, g.Tail())
}

func TestGraph_SyncPositionsFromOrder(t *testing.T) {
	g := NewGraph()
	n0, _ := g.AppendNode("op0", nil)
	n1, _ := g.AppendNode("op1", []int{1})
	n2, _ := g.AppendNode("op2", []int{1})

	g.SyncPositionsFromOrder()

	assert.Equal(t, 0, n0.Position)
	assert.Equal(t, 1, n1.Position)
	assert.Equal(t, 2, n2.Position)
}
