// Package dag implements the node/graph model the scheduler operates on:
// a doubly linked chain of operations where each node records the
// operands it reads and the users that read it back.
package dag

// PositionUnset marks a node whose schedule position has not yet been
// assigned by a search pass.
const PositionUnset = -1

// Node is one operation in the graph.
//
// Identity and Position are kept as separate fields on purpose: Identity
// is assigned once, at creation, and never changes; Position is the
// mutable slot the search repeatedly assigns and backtracks while
// looking for a valid linear order. The reference implementation this
// scheduler is modeled on overloads a single ID field for both jobs,
// which makes a node's "real" id ambiguous mid-search.
type Node struct {
	identity uint32

	// OpCode labels the operation. Nodes synthesized by the copy
	// inserter carry OpCode "copy".
	OpCode string

	// Position is the node's assigned place in the linear schedule, or
	// PositionUnset if no search pass has assigned it yet.
	Position int

	// Operands are the nodes this node reads, in positional order. The
	// slice is a multiset: the same producer may appear more than once
	// if a node reads it through more than one operand slot.
	Operands []*Node

	// Users are the nodes that read this node's value. Like Operands,
	// this is a multiset.
	Users []*Node

	prev *Node
	next *Node
}

// Identity returns the node's stable id: its input-line index for
// parsed nodes, or, for nodes the copy inserter synthesized, the next
// sequential id after every node the graph already held.
func (n *Node) Identity() uint32 {
	return n.identity
}

// IsCopy reports whether the copy inserter synthesized this node.
func (n *Node) IsCopy() bool {
	return n.OpCode == "copy"
}

// Prev returns the previous node in the graph's list order, or nil if n
// is the head.
func (n *Node) Prev() *Node {
	return n.prev
}

// Next returns the next node in the graph's list order, or nil if n is
// the tail.
func (n *Node) Next() *Node {
	return n.next
}
