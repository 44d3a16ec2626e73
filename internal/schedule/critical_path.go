package schedule

import "github.com/regwindow/scheduler/internal/dag"

// criticalPathMemo caches critical-path lengths for a single search run.
type criticalPathMemo map[*dag.Node]int

// criticalPath returns the length, in nodes, of the longest directed path
// rooted at n through n's Users-subgraph (n itself counts as the first
// node on that path). It walks the subgraph breadth-first, tracking the
// longest distance reached at each node, and memoizes the result so a
// node's critical path is computed once per search regardless of how many
// times the DFS visits it while probing candidate positions.
func criticalPath(n *dag.Node, memo criticalPathMemo) int {
	if v, ok := memo[n]; ok {
		return v
	}

	depth := map[*dag.Node]int{n: 0}
	queue := []*dag.Node{n}
	maxDepth := 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := depth[cur]
		if d > maxDepth {
			maxDepth = d
		}
		for _, u := range cur.Users {
			if nd, seen := depth[u]; !seen || nd < d+1 {
				depth[u] = d + 1
				queue = append(queue, u)
			}
		}
	}

	cp := maxDepth + 1
	memo[n] = cp
	return cp
}
