package persist_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/quizkeeper/internal/client/persist"
	"github.com/dmitrijs2005/quizkeeper/internal/client/persist/persisttest"
)

type recorder struct {
	mu      sync.Mutex
	calls   int
	results []persist.Result
	err     error
}

func (r *recorder) save(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *recorder) observe(res persist.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newScheduler(t *testing.T) (*persist.Scheduler, *persisttest.ManualClock, *recorder) {
	t.Helper()
	clock := persisttest.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	rec := &recorder{}
	s := persist.New(rec.save,
		persist.WithClock(clock),
		persist.WithDelay(250*time.Millisecond),
		persist.WithObserver(rec.observe),
	)
	return s, clock, rec
}

func TestScheduler_BurstCoalescesIntoOneWrite(t *testing.T) {
	s, clock, rec := newScheduler(t)

	for i := 0; i < 10; i++ {
		if i > 0 {
			clock.Advance(20 * time.Millisecond)
		}
		s.MarkDirty("")
	}
	require.Equal(t, 0, rec.count(), "no write while mutations keep arriving")
	require.Equal(t, persist.StatePending, s.State())

	clock.Advance(249 * time.Millisecond)
	require.Equal(t, 0, rec.count())

	clock.Advance(time.Millisecond)
	require.Equal(t, 1, rec.count())
	require.Equal(t, persist.StateIdle, s.State())

	clock.Advance(time.Second)
	require.Equal(t, 1, rec.count())
}

func TestScheduler_FlushCancelsPendingTimer(t *testing.T) {
	s, clock, rec := newScheduler(t)

	s.MarkDirty("Submitted.")
	clock.Advance(100 * time.Millisecond)

	require.NoError(t, s.FlushNow(context.Background()))
	require.Equal(t, 1, rec.count(), "flush writes immediately")
	require.Equal(t, 0, clock.Pending())

	clock.Advance(time.Second)
	require.Equal(t, 1, rec.count(), "cancelled timer must not write again")

	require.Len(t, rec.results, 1)
	require.Equal(t, "Submitted.", rec.results[0].Msg)
	require.True(t, rec.results[0].Flushed)
}

func TestScheduler_FlushWithoutPendingStillWrites(t *testing.T) {
	s, _, rec := newScheduler(t)
	require.NoError(t, s.FlushNow(context.Background()))
	require.Equal(t, 1, rec.count())
}

func TestScheduler_LatestMessageWins(t *testing.T) {
	s, clock, rec := newScheduler(t)

	s.MarkDirty("Copied.")
	s.MarkDirty("")
	s.MarkDirty("Deleted quiz.")
	clock.Advance(250 * time.Millisecond)

	require.Len(t, rec.results, 1)
	require.Equal(t, "Deleted quiz.", rec.results[0].Msg)
	require.False(t, rec.results[0].Flushed)
	require.Equal(t, clock.Now(), rec.results[0].At)
}

func TestScheduler_Cancel(t *testing.T) {
	s, clock, rec := newScheduler(t)

	require.False(t, s.Cancel())
	s.MarkDirty("x")
	require.True(t, s.Cancel())
	require.Equal(t, persist.StateIdle, s.State())

	clock.Advance(time.Second)
	require.Equal(t, 0, rec.count())

	// a later mark does not resurrect the cancelled message
	s.MarkDirty("")
	clock.Advance(250 * time.Millisecond)
	require.Equal(t, "", rec.results[0].Msg)
}

func TestScheduler_FailureReportedAndRetriedOnNextMark(t *testing.T) {
	s, clock, rec := newScheduler(t)
	errDisk := errors.New("disk full")
	rec.err = errDisk

	s.MarkDirty("")
	clock.Advance(250 * time.Millisecond)
	require.Len(t, rec.results, 1)
	require.ErrorIs(t, rec.results[0].Err, errDisk)

	require.ErrorIs(t, s.FlushNow(context.Background()), errDisk)

	rec.err = nil
	s.MarkDirty("")
	clock.Advance(250 * time.Millisecond)
	require.Equal(t, 3, rec.count())
	require.NoError(t, rec.results[2].Err)
}

func TestScheduler_WritesNeverOverlap(t *testing.T) {
	clock := persisttest.NewManualClock(time.Now())
	var inflight, peak, calls atomic.Int32
	started := make(chan struct{}, 2)
	release := make(chan struct{})

	s := persist.New(func(context.Context) error {
		n := inflight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		calls.Add(1)
		started <- struct{}{}
		<-release
		inflight.Add(-1)
		return nil
	}, persist.WithClock(clock))

	flushDone := make(chan error, 1)
	go func() { flushDone <- s.FlushNow(context.Background()) }()
	<-started
	require.Equal(t, persist.StateWriting, s.State())

	// a mutation during a write re-arms the timer without blocking
	s.MarkDirty("")

	timerDone := make(chan struct{})
	go func() {
		clock.Advance(persist.DefaultDelay)
		close(timerDone)
	}()

	close(release)
	require.NoError(t, <-flushDone)
	<-timerDone

	require.Equal(t, int32(2), calls.Load())
	require.Equal(t, int32(1), peak.Load())
	require.Equal(t, persist.StateIdle, s.State())
}

func TestScheduler_RealClock(t *testing.T) {
	var calls atomic.Int32
	s := persist.New(func(context.Context) error {
		calls.Add(1)
		return nil
	}, persist.WithDelay(5*time.Millisecond))

	for i := 0; i < 10; i++ {
		s.MarkDirty("")
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	require.Never(t, func() bool { return calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", persist.StateIdle.String())
	require.Equal(t, "pending", persist.StatePending.String())
	require.Equal(t, "writing", persist.StateWriting.String())
}

func TestScheduler_WaitBlocksOnInflightWrite(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s := persist.New(func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	go func() { _ = s.FlushNow(context.Background()) }()
	<-started

	waited := make(chan struct{})
	go func() {
		s.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned while a write was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the write finished")
	}
}
