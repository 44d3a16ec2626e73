// Package schedule implements the ordering search: a DFS with
// backtracking over target positions for a DAG's nodes, pruned by a
// critical-path lower bound, that looks for a linear order satisfying the
// define-before-use (and, in strict mode, the distance-bound) validator.
package schedule

import "github.com/regwindow/scheduler/internal/dag"

// Options holds the search's tunables.
type Options struct {
	// DMax is the maximum allowed distance between a producer and any of
	// its users, enforced only when FindOrder is asked to run in strict mode.
	DMax int
}

// Scheduler finds a legal linear order for a graph's nodes via DFS with
// critical-path pruning, organized as a struct-plus-options pair the same
// way a one-shot generator is elsewhere in this codebase.
type Scheduler struct {
	Options Options
}

// NewScheduler returns a Scheduler configured with opts.
func NewScheduler(opts Options) *Scheduler {
	return &Scheduler{Options: opts}
}

// FindOrder searches for an assignment of distinct positions {0, ..., N-1}
// to g's N nodes such that the resulting order satisfies dag.Satisfies in
// the requested mode. Nodes are visited in g's current linear order;
// candidate positions are tried in increasing order, making the search
// deterministic.
//
// On success, every node's Position field holds its place in the solution
// (callers should call g.Reorder() to commit it to the chain) and FindOrder
// returns true. On failure every node's Position is reset to
// dag.PositionUnset and FindOrder returns false.
func (s *Scheduler) FindOrder(g *dag.Graph, strict bool) bool {
	nodes := g.Nodes()
	n := len(nodes)

	for _, nd := range nodes {
		nd.Position = dag.PositionUnset
	}

	available := make([]bool, n)
	for i := range available {
		available[i] = true
	}

	memo := make(criticalPathMemo, n)
	found := s.dfs(g, nodes, 0, available, memo, strict, n)
	if !found {
		for _, nd := range nodes {
			nd.Position = dag.PositionUnset
		}
	}
	return found
}

func (s *Scheduler) dfs(g *dag.Graph, nodes []*dag.Node, idx int, available []bool, memo criticalPathMemo, strict bool, n int) bool {
	if idx == len(nodes) {
		return dag.Satisfies(g, strict, s.Options.DMax)
	}

	cur := nodes[idx]
	cp := criticalPath(cur, memo)

	for p := 0; p < n; p++ {
		if !available[p] {
			continue
		}
		if p+cp > n {
			// Critical-path prune: the subtree rooted at cur cannot fit
			// in the remaining positions. cp positions starting at p
			// (p, p+1, ..., p+cp-1) must all exist, so p+cp-1 <= n-1.
			continue
		}

		cur.Position = p
		if s.localCheck(cur, p, strict) {
			available[p] = false
			if s.dfs(g, nodes, idx+1, available, memo, strict, n) {
				return true
			}
			available[p] = true
		}
		cur.Position = dag.PositionUnset
	}

	return false
}

// localCheck compares cur's tentative position p only against cur's
// already-assigned operands and users; a user visited later in input order
// still carries dag.PositionUnset and is simply skipped, since out-of-order
// visitation (relative to the eventual schedule) is permitted.
func (s *Scheduler) localCheck(cur *dag.Node, p int, strict bool) bool {
	for _, op := range cur.Operands {
		if op == cur || op.Position == dag.PositionUnset {
			continue
		}
		if op.Position >= p {
			return false
		}
		if strict && p-op.Position > s.Options.DMax {
			return false
		}
	}

	for _, u := range cur.Users {
		if u == cur || u.Position == dag.PositionUnset {
			continue
		}
		if u.Position <= p {
			return false
		}
		if strict && u.Position-p > s.Options.DMax {
			return false
		}
	}

	return true
}
