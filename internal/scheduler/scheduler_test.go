package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) Refresh(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		panic("refresh without deadline")
	}
	c.calls.Add(1)
}

func TestRunOnceRefreshesEveryTarget(t *testing.T) {
	a, b := &countingRefresher{}, &countingRefresher{}
	s := New([]Refresher{a, b}, time.Minute, zaptest.NewLogger(t).Sugar())

	s.RunOnce()

	if a.calls.Load() != 1 || b.calls.Load() != 1 {
		t.Fatalf("unexpected calls a=%d b=%d", a.calls.Load(), b.calls.Load())
	}
}

func TestStartRefreshesPeriodically(t *testing.T) {
	r := &countingRefresher{}
	s := New([]Refresher{r}, 20*time.Millisecond, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for r.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 rounds, got %d", r.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartWithoutTargets(t *testing.T) {
	s := New(nil, time.Minute, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}

func TestStartRejectsZeroInterval(t *testing.T) {
	s := New([]Refresher{&countingRefresher{}}, 0, nil)
	if err := s.Start(); err == nil {
		t.Fatal("expected error")
	}
}
