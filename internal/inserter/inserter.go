// Package inserter implements the copy-insertion transform: when the
// ordering search cannot meet the distance bound by reordering alone, it
// splices synthetic "copy" nodes along over-long def-use chains so the
// search can re-try on an enlarged graph with every use within reach of
// some link in the chain.
package inserter

import (
	"sort"

	"github.com/regwindow/scheduler/internal/dag"
)

// Options holds the inserter's tunables.
type Options struct {
	// DMax is the distance bound the inserted chains aim to satisfy.
	DMax int
}

// Inserter splices copy nodes onto a graph's long def-use chains,
// organized the same way the ordering search is: a struct holding Options.
type Inserter struct {
	Options Options
}

// New returns an Inserter configured with opts.
func New(opts Options) *Inserter {
	return &Inserter{Options: opts}
}

// Insert enlarges g in place, bucketing each node's far users by gap
// factor and extending a shared copy chain per producer so that every use
// is re-homed within DMax of some link in its chain. It assumes g's
// Position fields reflect the graph's current linear order and refreshes
// them (via g.SyncPositionsFromOrder) before classifying each producer in
// turn, since earlier producers' insertions shift the positions of
// everything after them.
func (ins *Inserter) Insert(g *dag.Graph) {
	producers := g.Nodes()
	for _, producer := range producers {
		g.SyncPositionsFromOrder()
		ins.insertForProducer(g, producer)
	}
}

// insertForProducer buckets producer's far users by gap factor and grows a
// copy chain rooted at producer one bucket at a time, in ascending gap
// order, redirecting each bucket's users to the chain's current tail as
// soon as the chain has been extended far enough to reach them.
func (ins *Inserter) insertForProducer(g *dag.Graph, producer *dag.Node) {
	buckets := make(map[int][]*dag.Node)
	for _, u := range producer.Users {
		gap := u.Position - producer.Position
		if gap <= ins.Options.DMax {
			continue
		}
		k := gap / ins.Options.DMax
		buckets[k] = append(buckets[k], u)
	}
	if len(buckets) == 0 {
		return
	}

	ks := make([]int, 0, len(buckets))
	for k := range buckets {
		ks = append(ks, k)
	}
	sort.Ints(ks)

	tail := producer
	inserted := 0
	sinceLimit := 0

	for _, k := range ks {
		target := k
		for inserted < target {
			cp := g.NewCopyNode(tail)
			g.MoveAfter(cp, tail)
			tail = cp
			inserted++
			sinceLimit++
			if sinceLimit == ins.Options.DMax {
				// Self-limit: the copies inserted so far have themselves
				// consumed positions and widened the span the remaining
				// links must still bridge, so the remaining insertion
				// count for this producer is bumped by one.
				target++
				sinceLimit = 0
			}
		}
		g.ReplaceUsesWithin(producer, tail, buckets[k])
	}
}
