package readiness

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultSettleDelay is the window between draining to zero and becoming ready.
const DefaultSettleDelay = 10 * time.Millisecond

// ReadyFunc observes ready transitions.
type ReadyFunc func(ctx context.Context, first bool)

// Option configures a Tracker.
type Option func(*Tracker)

// WithSettleDelay sets the re-check delay after the pending count reaches zero.
// Negative values are ignored; zero re-checks on the next timer tick.
func WithSettleDelay(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.settleDelay = d
		}
	}
}

// WithLogger sets the tracker logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// Tracker counts pending loads and fires ready transitions.
// It is safe for concurrent use.
type Tracker struct {
	logger    *slog.Logger
	timer     *time.Timer
	readyCh   chan struct{}
	observers []ReadyFunc

	settleDelay time.Duration
	pending     int
	// generation changes on every Begin and Reset; a settle re-check scheduled
	// under an older generation is discarded.
	generation uint64
	transitions uint64

	mu        sync.Mutex
	ready     bool
	everReady bool
}

// New creates a not-ready tracker with zero pending loads.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		settleDelay: DefaultSettleDelay,
		readyCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnReady registers an observer for ready transitions.
func (t *Tracker) OnReady(fn ReadyFunc) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Begin records a started load and clears the ready flag.
func (t *Tracker) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending++
	t.generation++
	t.stopTimerLocked()

	if t.ready {
		t.ready = false
		t.readyCh = make(chan struct{})
	}
}

// Done records a finished load, successful or not.
// When the count reaches zero a settle re-check is scheduled.
func (t *Tracker) Done(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == 0 {
		return ErrNotPending
	}

	t.pending--
	if t.pending == 0 {
		t.scheduleLocked(ctx)
	}
	return nil
}

// Settle schedules a re-check when nothing is pending. It lets a caller that
// issued no loads at all still reach ready.
func (t *Tracker) Settle(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == 0 && !t.ready {
		t.scheduleLocked(ctx)
	}
}

// Pending returns the number of outstanding loads.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Ready reports whether the tracker is in the ready state.
func (t *Tracker) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready
}

// Transitions returns how many times the tracker has become ready.
func (t *Tracker) Transitions() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transitions
}

// Wait blocks until the tracker is ready or ctx is done.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	if t.ready {
		t.mu.Unlock()
		return nil
	}
	ch := t.readyCh
	t.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset returns the tracker to its initial state. Observers are kept.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTimerLocked()
	t.pending = 0
	t.generation++
	t.transitions = 0
	t.ready = false
	t.everReady = false
	t.readyCh = make(chan struct{})
}

func (t *Tracker) scheduleLocked(ctx context.Context) {
	t.stopTimerLocked()
	gen := t.generation
	ctx = context.WithoutCancel(ctx)
	t.timer = time.AfterFunc(t.settleDelay, func() {
		t.settle(ctx, gen)
	})
}

func (t *Tracker) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) settle(ctx context.Context, gen uint64) {
	t.mu.Lock()
	if gen != t.generation || t.pending != 0 || t.ready {
		t.mu.Unlock()
		return
	}

	t.ready = true
	t.transitions++
	first := !t.everReady
	t.everReady = true
	t.timer = nil
	close(t.readyCh)
	observers := make([]ReadyFunc, len(t.observers))
	copy(observers, t.observers)
	t.mu.Unlock()

	t.logger.DebugContext(ctx, "runtime ready", slog.Bool("first", first))

	for _, fn := range observers {
		fn(ctx, first)
	}
}
