package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildChain(t *testing.T, positions ...int) *Graph {
	t.Helper()
	g := NewGraph()
	n0, _ := g.AppendNode("op0", nil)
	n1, _ := g.AppendNode("op1", []int{1})
	n2, _ := g.AppendNode("op2", []int{1, 2})
	nodes := []*Node{n0, n1, n2}
	for i, p := range positions {
		nodes[i].Position = p
	}
	return g
}

func TestSatisfies_LooseModeIgnoresDistance(t *testing.T) {
	g := buildChain(t, 0, 1, 9)
	assert.True(t, Satisfies(g, false, 7))
	assert.False(t, Satisfies(g, true, 7))
}

func TestSatisfies_LooseModeRejectsOutOfOrder(t *testing.T) {
	g := buildChain(t, 2, 1, 0)
	assert.False(t, Satisfies(g, false, 7))
}

func TestSatisfies_SkipsSelfReference(t *testing.T) {
	g := NewGraph()
	n0, _ := g.AppendNode("op0", nil)
	n1, _ := g.AppendNode("op1", []int{0})
	n0.Position = 0
	n1.Position = 1

	assert.True(t, Satisfies(g, true, 7))
}

func TestSatisfies_NoOpWhenAlreadyInBounds(t *testing.T) {
	g := buildChain(t, 0, 1, 2)
	assert.True(t, Satisfies(g, true, 7))
}
