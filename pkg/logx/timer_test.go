package logx

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer_StartStop(t *testing.T) {
	clock := NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := NewTimer("run", clock)

	timer.Start("validate")
	clock.Advance(5 * time.Millisecond)
	d := timer.Stop("validate")

	assert.Equal(t, 5*time.Millisecond, d)
}

func TestTimer_StopWithoutStart(t *testing.T) {
	timer := NewTimer("run", NewFakeClock(time.Now()))

	d := timer.Stop("reorder")

	assert.Equal(t, time.Duration(0), d)
}

func TestTimer_StopTwice(t *testing.T) {
	clock := NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := NewTimer("run", clock)

	timer.Start("insert#1")
	clock.Advance(2 * time.Millisecond)
	first := timer.Stop("insert#1")
	clock.Advance(3 * time.Millisecond)
	second := timer.Stop("insert#1")

	assert.Equal(t, 2*time.Millisecond, first)
	assert.Equal(t, time.Duration(0), second)
}

func TestTimer_TimeFunc(t *testing.T) {
	clock := NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := NewTimer("run", clock)

	d := timer.TimeFunc("search", func() {
		clock.Advance(7 * time.Millisecond)
	})

	assert.Equal(t, 7*time.Millisecond, d)
}

func TestTimer_Total(t *testing.T) {
	clock := NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := NewTimer("run", clock)

	clock.Advance(10 * time.Millisecond)

	assert.Equal(t, 10*time.Millisecond, timer.Total())
}

func TestTimer_LogSummary(t *testing.T) {
	clock := NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	timer := NewTimer("run", clock)
	logger := NewDefaultLogger(LevelDebug, io.Discard)

	timer.Start("validate")
	clock.Advance(1 * time.Millisecond)
	timer.Stop("validate")
	timer.Start("reorder")
	clock.Advance(2 * time.Millisecond)

	assert.NotPanics(t, func() {
		timer.LogSummary(logger)
	})
}

func TestTimer_NewTimerDefaultsToRealClock(t *testing.T) {
	timer := NewTimer("run", nil)

	assert.NotNil(t, timer)
	assert.True(t, timer.Total() >= 0)
}
