// Package orchestrator sequences the scheduler's stages: validate, try a
// pure reorder, then alternate copy insertion with reordering up to a
// retry cap, logging progress between stages throughout.
package orchestrator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/regwindow/scheduler/internal/dag"
	"github.com/regwindow/scheduler/internal/inserter"
	"github.com/regwindow/scheduler/internal/schedule"
	"github.com/regwindow/scheduler/pkg/logx"
	"github.com/regwindow/scheduler/pkg/schederr"
)

const tracerName = "github.com/regwindow/scheduler/internal/orchestrator"

// Options holds the orchestrator's tunables, shared with the scheduler and
// inserter it drives.
type Options struct {
	DMax     int
	MaxIters int
}

// Result describes the outcome of a single Run.
type Result struct {
	Graph             *dag.Graph
	Strict            bool
	IterationsUsed    int
	CopiesInserted    int
	NoReorderNeeded   bool
	ReorderOnlyFixed  bool
	InsertionRequired bool
}

// Orchestrator runs the CORE §4.5 policy loop: validate, try reordering
// alone, then alternate copy insertion with reordering up to MaxIters
// times before settling for the best loose-mode result.
type Orchestrator struct {
	Options   Options
	Scheduler *schedule.Scheduler
	Inserter  *inserter.Inserter
	Logger    logx.Logger
}

// New returns an Orchestrator wired with a Scheduler and Inserter sharing
// opts.DMax.
func New(opts Options, logger logx.Logger) *Orchestrator {
	if logger == nil {
		logger = &logx.NullLogger{}
	}
	return &Orchestrator{
		Options:   opts,
		Scheduler: schedule.NewScheduler(schedule.Options{DMax: opts.DMax}),
		Inserter:  inserter.New(inserter.Options{DMax: opts.DMax}),
		Logger:    logger,
	}
}

// Run executes the orchestration policy against g, returning a graph that
// satisfies the strict validator, or the best loose-mode result reachable
// within MaxIters insertion passes. Exhausting the iteration cap without a
// strict solution is reported, not panicked, as schederr.CodeInsertionOverflow
// alongside the best-effort graph.
func (o *Orchestrator) Run(ctx context.Context, g *dag.Graph) (*Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "orchestrator.Run")
	defer span.End()

	start := time.Now()
	span.SetAttributes(attribute.Int("node_count", g.Len()))

	g.SyncPositionsFromOrder()
	if dag.Satisfies(g, true, o.Options.DMax) {
		o.Logger.Info("input already satisfies the distance bound; no reordering needed")
		span.SetAttributes(attribute.Bool("no_reorder_needed", true))
		return &Result{Graph: g, Strict: true, NoReorderNeeded: true}, nil
	}

	snapshot, _ := g.DeepCopy()

	if o.Scheduler.FindOrder(snapshot, true) {
		snapshot.Reorder()
		o.Logger.WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("reordering alone satisfied the distance bound")
		span.SetAttributes(attribute.Bool("reorder_only_fixed", true))
		return &Result{Graph: snapshot, Strict: true, ReorderOnlyFixed: true}, nil
	}

	baseline := snapshot.Len()
	for iter := 1; iter <= o.Options.MaxIters; iter++ {
		_, iterSpan := otel.Tracer(tracerName).Start(ctx, "orchestrator.insertionIteration",
			trace.WithAttributes(attribute.Int("iteration", iter)))

		o.Inserter.Insert(snapshot)
		inserted := snapshot.Len() - baseline
		o.Logger.WithField("iteration", iter).WithField("nodes_inserted", inserted).
			Debug("insertion iteration complete")
		iterSpan.SetAttributes(attribute.Int("nodes_inserted", inserted))

		if o.Scheduler.FindOrder(snapshot, true) {
			snapshot.Reorder()
			iterSpan.End()
			o.Logger.WithField("iterations", iter).WithField("duration_ms", time.Since(start).Milliseconds()).
				Info("copy insertion was required to satisfy the distance bound")
			span.SetAttributes(
				attribute.Bool("insertion_required", true),
				attribute.Int("iterations_used", iter),
			)
			return &Result{
				Graph:             snapshot,
				Strict:            true,
				IterationsUsed:    iter,
				CopiesInserted:    snapshot.Len() - baseline,
				InsertionRequired: true,
			}, nil
		}
		iterSpan.End()
	}

	// Iteration cap exhausted without a strict solution: fall back to the
	// best loose-mode result (define-before-use only, distance bound not
	// guaranteed) and report InsertionOverflow.
	if !o.Scheduler.FindOrder(snapshot, false) {
		span.SetStatus(codes.Error, "no valid order found even in loose mode")
		return nil, schederr.New(schederr.CodeInputError, "input is not a valid DAG: no legal order exists")
	}
	snapshot.Reorder()

	span.SetStatus(codes.Error, "insertion iteration limit exceeded")
	return &Result{
			Graph:          snapshot,
			Strict:         false,
			IterationsUsed: o.Options.MaxIters,
			CopiesInserted: snapshot.Len() - baseline,
		}, schederr.Wrap(schederr.CodeInsertionOverflow,
			"exhausted insertion iterations without a strict solution",
			nil)
}
