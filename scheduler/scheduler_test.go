package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kawasemi/dungeon-crawler/server/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTickerRuns(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	defer s.Stop()

	var calls atomic.Int64
	s.AddTicker("flush", 10*time.Millisecond, func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestStopStopsTicker(t *testing.T) {
	s := scheduler.New(zap.NewNop())

	var calls atomic.Int64
	s.AddTicker("flush", 10*time.Millisecond, func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() >= 1 },
		time.Second, 5*time.Millisecond)

	s.Stop()
	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), after+1)
}

func TestPanickingTaskKeepsTicking(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	defer s.Stop()

	var calls atomic.Int64
	s.AddTicker("flaky", 10*time.Millisecond, func() {
		calls.Add(1)
		panic("boom")
	})

	require.Eventually(t, func() bool { return calls.Load() >= 2 },
		time.Second, 5*time.Millisecond)
}

func TestReplaceTicker(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	defer s.Stop()

	var first, second atomic.Int64
	s.AddTicker("flush", 10*time.Millisecond, func() { first.Add(1) })
	s.AddTicker("flush", 10*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() >= 2 },
		time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, first.Load(), int64(1))
}
