package dag

// Satisfies reports whether g's nodes, read through their Position field,
// form a valid linear order: every operand sits at a strictly earlier
// Position than its consumer and, when checkDistance is true, no
// consumer's Position exceeds its operand's by more than dMax. A node's
// self-operand (see AppendNode) carries no real dependency and is skipped.
//
// Satisfies is iteration-order-agnostic: it only compares Position values,
// so it is equally correct whether the graph's chain reflects the order
// being validated (the usual case) or is mid-search scratch state holding
// a candidate assignment the DFS has not yet committed with Reorder.
func Satisfies(g *Graph, checkDistance bool, dMax int) bool {
	for n := g.head; n != nil; n = n.next {
		for _, op := range n.Operands {
			if op == n {
				continue
			}
			if op.Position >= n.Position {
				return false
			}
			if checkDistance && n.Position-op.Position > dMax {
				return false
			}
		}
	}
	return true
}
