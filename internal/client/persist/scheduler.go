// Package persist coalesces bursts of document mutations into single saves.
//
// A Scheduler moves through idle -> pending -> writing -> idle. MarkDirty
// (re)arms a trailing debounce timer; when it fires the save function runs.
// FlushNow cancels the timer and saves immediately. Saves never overlap: a
// flush that arrives during a timer-driven save waits for it to finish, and
// a mutation that arrives during a save only re-arms the timer.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/quizkeeper/internal/logging"
)

// DefaultDelay is the quiet period after the last mutation before saving.
const DefaultDelay = 250 * time.Millisecond

type State int

const (
	StateIdle State = iota
	StatePending
	StateWriting
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateWriting:
		return "writing"
	default:
		return "idle"
	}
}

// SaveFunc encrypts and writes the current document.
type SaveFunc func(ctx context.Context) error

// Result describes one completed save attempt. Msg is the message passed to
// the MarkDirty call that triggered it, if any.
type Result struct {
	Msg     string
	Err     error
	Flushed bool
	At      time.Time
}

// Observer is told about every save attempt. It is called without internal
// locks held, from the timer goroutine for debounced saves.
type Observer func(Result)

type Scheduler struct {
	save     SaveFunc
	clock    Clock
	delay    time.Duration
	observer Observer
	log      logging.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	msg     string
	writing bool
}

type Option func(*Scheduler)

func WithDelay(d time.Duration) Option { return func(s *Scheduler) { s.delay = d } }

func WithClock(c Clock) Option { return func(s *Scheduler) { s.clock = c } }

func WithObserver(o Observer) Option { return func(s *Scheduler) { s.observer = o } }

func WithLogger(l logging.Logger) Option { return func(s *Scheduler) { s.log = l } }

func New(save SaveFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		save:  save,
		clock: RealClock(),
		delay: DefaultDelay,
		log:   logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.delay < 0 {
		s.delay = 0
	}
	s.log = s.log.With("component", "persist")
	return s
}

// MarkDirty schedules a save delay after now, replacing any pending one.
// A non-empty msg is reported with the resulting save; the latest wins.
func (s *Scheduler) MarkDirty(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	if msg != "" {
		s.msg = msg
	}
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.timer == nil {
		// superseded by a later mark, a flush or a cancel
		s.mu.Unlock()
		return
	}
	s.timer = nil
	msg := s.msg
	s.msg = ""
	s.mu.Unlock()

	_ = s.write(context.Background(), msg, false)
}

// FlushNow cancels any pending save and saves immediately, returning once
// the write has completed or failed.
func (s *Scheduler) FlushNow(ctx context.Context) error {
	s.mu.Lock()
	s.stopLocked()
	msg := s.msg
	s.msg = ""
	s.mu.Unlock()

	return s.write(ctx, msg, true)
}

// Cancel drops a pending save without writing and reports whether one was
// pending. A save already in progress is not interrupted.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.timer != nil
	s.stopLocked()
	s.msg = ""
	return pending
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Wait blocks until a save in progress, if any, has finished.
func (s *Scheduler) Wait() {
	s.writeMu.Lock()
	s.writeMu.Unlock()
}

// State reports writing while a save runs, pending while a timer is armed.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.writing:
		return StateWriting
	case s.timer != nil:
		return StatePending
	default:
		return StateIdle
	}
}

func (s *Scheduler) write(ctx context.Context, msg string, flushed bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.setWriting(true)
	err := s.save(ctx)
	s.setWriting(false)

	if err != nil {
		s.log.Error(ctx, "save failed", "error", err, "flushed", flushed)
	} else {
		s.log.Debug(ctx, "saved", "flushed", flushed)
	}
	if s.observer != nil {
		s.observer(Result{Msg: msg, Err: err, Flushed: flushed, At: s.clock.Now()})
	}
	return err
}

func (s *Scheduler) setWriting(v bool) {
	s.mu.Lock()
	s.writing = v
	s.mu.Unlock()
}
