package logx

import (
	"fmt"
	"sync"
	"time"
)

// Phase records the start and duration of one named unit of work inside a Timer.
type Phase struct {
	Name      string
	StartTime time.Time
	Duration  time.Duration
	completed bool
}

// Timer accumulates named phase durations for a single run, e.g. one
// orchestrator invocation with phases "validate", "reorder", "insert#1".
type Timer struct {
	mu         sync.Mutex
	name       string
	startTime  time.Time
	phases     map[string]*Phase
	phaseOrder []string
	clock      Clock
}

// NewTimer creates a Timer named after the operation it measures.
func NewTimer(name string, clock Clock) *Timer {
	if clock == nil {
		clock = NewRealClock()
	}
	return &Timer{
		name:      name,
		phases:    make(map[string]*Phase),
		clock:     clock,
		startTime: clock.Now(),
	}
}

// Start begins timing phaseName. Call Stop with the same name to record its duration.
func (t *Timer) Start(phaseName string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.phases[phaseName] = &Phase{Name: phaseName, StartTime: t.clock.Now()}
	t.phaseOrder = append(t.phaseOrder, phaseName)
}

// Stop ends timing phaseName and returns its duration. Safe to call once per phase.
func (t *Timer) Stop(phaseName string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	phase, ok := t.phases[phaseName]
	if !ok || phase.completed {
		return 0
	}
	phase.Duration = t.clock.Since(phase.StartTime)
	phase.completed = true
	return phase.Duration
}

// TimeFunc times fn as a named phase and returns its duration.
func (t *Timer) TimeFunc(phaseName string, fn func()) time.Duration {
	t.Start(phaseName)
	fn()
	return t.Stop(phaseName)
}

// Total returns the elapsed time since the Timer was created.
func (t *Timer) Total() time.Duration {
	return t.clock.Since(t.startTime)
}

// LogSummary writes one line per completed phase plus a total, through logger,
// at debug level.
func (t *Timer) LogSummary(logger Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, name := range t.phaseOrder {
		phase := t.phases[name]
		if !phase.completed {
			continue
		}
		logger.Debug("%s: phase %q took %s", t.name, phase.Name, fmt.Sprint(phase.Duration))
	}
	logger.Debug("%s: total %s", t.name, fmt.Sprint(t.Total()))
}
