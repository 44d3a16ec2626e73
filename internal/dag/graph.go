package dag

import (
	"fmt"
	"sort"

	"github.com/regwindow/scheduler/pkg/schederr"
)

// Graph is an in-memory DAG realized as a doubly linked chain over its
// nodes: head has no Prev, tail has no Next, and every node's Operands
// point strictly earlier in that chain (save for the self-reference
// wrinkle documented on AppendNode).
//
// Nodes never leave the graph once created; the arena only grows, by
// AppendNode during parsing or NewCopyNode during copy insertion.
// Reordering is expressed by splicing prev/next links (MoveAfter,
// MoveBefore, Reorder), never by removing and re-adding nodes.
type Graph struct {
	head *Node
	tail *Node

	arena        []*Node
	nextIdentity uint32
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the total number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.arena)
}

// Head returns the first node in the linear order, or nil if the graph is empty.
func (g *Graph) Head() *Node {
	return g.head
}

// Tail returns the last node in the linear order, or nil if the graph is empty.
func (g *Graph) Tail() *Node {
	return g.tail
}

// Nodes returns the graph's nodes in current linear order, head to tail.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.arena))
	for n := g.head; n != nil; n = n.next {
		out = append(out, n)
	}
	return out
}

// AppendNode appends a new node to the tail of the linear order.
// operandOffsets are read backwards from the new node's about-to-be-assigned
// tail position: 1 means the immediate predecessor, 2 the one before that,
// and so on. An offset of 0 is a self-reference: it records an operand edge
// from the new node to itself, but does not add a user edge, since it
// represents no real dependency (the node is simply declaring it reads
// nothing meaningful through that operand slot). AppendNode fails with
// schederr.CodeInvalidOperand if an offset points before the head.
func (g *Graph) AppendNode(opCode string, operandOffsets []int) (*Node, error) {
	pos := len(g.arena)
	n := &Node{identity: g.nextIdentity, OpCode: opCode, Position: PositionUnset}

	for _, k := range operandOffsets {
		if k < 0 {
			return nil, schederr.New(schederr.CodeInvalidOperand, fmt.Sprintf("negative operand offset %d", k))
		}
		if k == 0 {
			n.Operands = append(n.Operands, n)
			continue
		}
		if k > pos {
			return nil, schederr.New(schederr.CodeInvalidOperand, fmt.Sprintf("operand offset %d points before the head", k))
		}
		operand := g.arena[pos-k]
		n.Operands = append(n.Operands, operand)
		operand.Users = append(operand.Users, n)
	}

	g.nextIdentity++
	g.append(n)
	return n, nil
}

// NewCopyNode appends a synthetic "copy" node to the tail of the arena with
// operand as its sole dependency. It does not splice the node into any
// particular place in the linear order beyond the tail; callers (the copy
// inserter) relocate it with MoveAfter/MoveBefore immediately afterward.
func (g *Graph) NewCopyNode(operand *Node) *Node {
	n := &Node{identity: g.nextIdentity, OpCode: "copy", Position: PositionUnset}
	g.nextIdentity++
	n.Operands = append(n.Operands, operand)
	operand.Users = append(operand.Users, n)
	g.append(n)
	return n
}

func (g *Graph) append(n *Node) {
	g.arena = append(g.arena, n)
	n.prev = g.tail
	if g.tail != nil {
		g.tail.next = n
	} else {
		g.head = n
	}
	g.tail = n
}

// unlink removes n from the chain without touching its operand/user edges.
func (g *Graph) unlink(n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		g.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		g.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

// MoveAfter splices n out of its current chain position and relinks it
// immediately after target.
func (g *Graph) MoveAfter(n, target *Node) {
	if n == target {
		return
	}
	g.unlink(n)
	n.prev = target
	n.next = target.next
	if target.next != nil {
		target.next.prev = n
	} else {
		g.tail = n
	}
	target.next = n
}

// MoveBefore splices n out of its current chain position and relinks it
// immediately before target. Relinking ahead of the head is handled by an
// explicit check (target.prev == nil), rather than by comparing a node
// against itself.
func (g *Graph) MoveBefore(n, target *Node) {
	if n == target {
		return
	}
	g.unlink(n)
	n.next = target
	n.prev = target.prev
	if target.prev != nil {
		target.prev.next = n
	} else {
		g.head = n
	}
	target.prev = n
}

// ReplaceUsesWithin rewrites, for every user in cohort, one operand edge
// that currently points to old so that it points to new instead, updating
// both Operands and Users. cohort is a multiset: a user appearing twice
// causes two distinct operand occurrences to be rewritten, preserving bag
// semantics on both old.Users and new.Users. Users outside cohort, or uses
// of old by cohort members beyond the matched multiplicity, are untouched.
func (g *Graph) ReplaceUsesWithin(old, new *Node, cohort []*Node) {
	counts := make(map[*Node]int, len(cohort))
	for _, u := range cohort {
		counts[u]++
	}

	for u, count := range counts {
		for i := 0; i < count; i++ {
			if !rewriteOneOperand(u, old, new) {
				break
			}
			new.Users = append(new.Users, u)
			removeOneUser(old, u)
		}
	}
}

func rewriteOneOperand(u, old, new *Node) bool {
	for idx, op := range u.Operands {
		if op == old {
			u.Operands[idx] = new
			return true
		}
	}
	return false
}

func removeOneUser(n, u *Node) {
	for i, x := range n.Users {
		if x == u {
			n.Users = append(n.Users[:i], n.Users[i+1:]...)
			return
		}
	}
}

// SyncPositionsFromOrder assigns every node's Position to its zero-based
// index along the current head-to-tail chain. The DFS search reads and
// writes Position as scratch state during its own traversal; call this
// first whenever Position should instead reflect the graph's actual linear
// order (before a fresh search, or to validate the order as committed).
func (g *Graph) SyncPositionsFromOrder() {
	i := 0
	for n := g.head; n != nil; n = n.next {
		n.Position = i
		i++
	}
}

// Reorder rebuilds the head/tail chain so nodes appear in ascending
// Position order, committing a successful search's assignment as the
// graph's actual linear order.
func (g *Graph) Reorder() {
	ordered := append([]*Node(nil), g.arena...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	for i, n := range ordered {
		if i == 0 {
			n.prev = nil
			g.head = n
		} else {
			n.prev = ordered[i-1]
			ordered[i-1].next = n
		}
		if i == len(ordered)-1 {
			n.next = nil
			g.tail = n
		}
	}
}

// DeepCopy returns an isomorphic graph made of fresh Node values (each
// keeping its original's Identity), along with a mapping from each
// original node to its copy. The copy's Position
// fields start out equal to the originals'; searches operating on the copy
// reset them before use.
func (g *Graph) DeepCopy() (*Graph, map[*Node]*Node) {
	mapping := make(map[*Node]*Node, len(g.arena))
	cp := &Graph{nextIdentity: g.nextIdentity}
	cp.arena = make([]*Node, 0, len(g.arena))

	for _, n := range g.arena {
		nn := &Node{identity: n.identity, OpCode: n.OpCode, Position: n.Position}
		mapping[n] = nn
		cp.arena = append(cp.arena, nn)
	}

	for _, n := range g.arena {
		nn := mapping[n]
		for _, op := range n.Operands {
			nn.Operands = append(nn.Operands, mapping[op])
		}
		for _, u := range n.Users {
			nn.Users = append(nn.Users, mapping[u])
		}
	}

	for n := g.head; n != nil; n = n.next {
		nn := mapping[n]
		if n.prev != nil {
			nn.prev = mapping[n.prev]
		}
		if n.next != nil {
			nn.next = mapping[n.next]
		}
	}
	if g.head != nil {
		cp.head = mapping[g.head]
	}
	if g.tail != nil {
		cp.tail = mapping[g.tail]
	}

	return cp, mapping
}
