package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/awesome/pkg/event"
	"github.com/dmitrymomot/awesome/pkg/logger"
)

// Tracker counts outstanding loads. *readiness.Tracker implements it.
type Tracker interface {
	Begin()
	Done(ctx context.Context) error
}

// Publisher receives completion signals. *event.Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, e event.Event)
}

// Loader fetches resources once per URL and reports their completion.
//
// Completions are serialized: executors, published events and tracker
// decrements never run concurrently with each other. Scripts complete in
// the order they were requested regardless of the order their fetches
// finish.
type Loader struct {
	fetcher   Fetcher
	executors map[Kind]Executor
	tracker   Tracker
	publisher Publisher
	logger    *slog.Logger
	sem       *semaphore.Weighted
	timeout   time.Duration

	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	head   map[string]*Resource
	order  []string
	queue  []*slot
	closed bool

	// turn serializes completions.
	turn sync.Mutex
}

// slot holds an ordered script until every earlier script has completed.
type slot struct {
	res     *Resource
	body    []byte
	err     error
	fetched bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithExecutor sets the executor applied to fetched bodies of kind.
// Resources without an executor complete as soon as they are fetched.
func WithExecutor(kind Kind, e Executor) Option {
	return func(l *Loader) {
		l.executors[kind] = e
	}
}

// WithTracker sets the tracker notified of script and language loads.
func WithTracker(t Tracker) Option {
	return func(l *Loader) {
		l.tracker = t
	}
}

// WithPublisher sets the receiver of completion signals.
func WithPublisher(p Publisher) Option {
	return func(l *Loader) {
		l.publisher = p
	}
}

// WithLogger sets the loader logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithLoadTimeout fails a load that has not been fetched within d.
// Zero, the default, waits forever: a hung resource keeps readiness pending.
func WithLoadTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.timeout = max(d, 0)
	}
}

// WithMaxConcurrent bounds the number of fetches in flight. Zero means unbounded.
func WithMaxConcurrent(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.sem = semaphore.NewWeighted(int64(n))
		} else {
			l.sem = nil
		}
	}
}

// New creates a loader reading resources through f.
func New(f Fetcher, opts ...Option) *Loader {
	base, cancel := context.WithCancel(context.Background())
	l := &Loader{
		fetcher:   f,
		executors: make(map[Kind]Executor),
		logger:    logger.NewNope(),
		base:      base,
		cancel:    cancel,
		head:      make(map[string]*Resource),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load requests url unless it was requested before. It reports whether a
// new load started. For script and language kinds the tracker is notified
// before Load returns.
func (l *Loader) Load(ctx context.Context, url string, kind Kind) bool {
	if !kind.Valid() {
		l.logger.ErrorContext(ctx, "resource refused",
			slog.String("url", url),
			slog.String("kind", string(kind)),
			slog.String("error", ErrUnknownKind.Error()),
		)
		return false
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	if _, ok := l.head[url]; ok {
		l.mu.Unlock()
		return false
	}

	res := &Resource{ID: uuid.New(), URL: url, Kind: kind, State: StateLoading}
	l.head[url] = res
	l.order = append(l.order, url)

	var s *slot
	if kind == KindScript {
		s = &slot{res: res}
		l.queue = append(l.queue, s)
	}
	if kind.tracked() && l.tracker != nil {
		l.tracker.Begin()
	}
	l.wg.Add(1)
	l.mu.Unlock()

	ctx = logger.WithResource(context.WithoutCancel(ctx), res.ID.String(), url, string(kind))
	l.logger.DebugContext(ctx, "resource requested")

	go l.run(ctx, res, s)
	return true
}

// Request loads url as a language resource.
func (l *Loader) Request(ctx context.Context, url string) bool {
	return l.Load(ctx, url, KindLanguage)
}

// Has reports whether url was ever requested, including failed loads.
func (l *Loader) Has(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.head[url]
	return ok
}

// Resource returns a copy of the record for url.
func (l *Loader) Resource(url string) (Resource, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	res, ok := l.head[url]
	if !ok {
		return Resource{}, false
	}
	return *res, true
}

// Resources returns every record in request order.
func (l *Loader) Resources() []Resource {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Resource, 0, len(l.order))
	for _, url := range l.order {
		out = append(out, *l.head[url])
	}
	return out
}

// Wait blocks until every started load has completed.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close cancels in-flight fetches and waits for their completions.
// Later calls to Load are ignored.
func (l *Loader) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()
	return nil
}

// Reset forgets every recorded resource. Call it only while no load is in flight.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.head = make(map[string]*Resource)
	l.order = nil
	l.queue = nil
}

func (l *Loader) run(ctx context.Context, res *Resource, s *slot) {
	defer l.wg.Done()

	body, err := l.fetch(ctx, res.URL)

	if s == nil {
		l.turn.Lock()
		l.complete(ctx, res, body, err)
		l.turn.Unlock()
		return
	}

	l.mu.Lock()
	s.body, s.err, s.fetched = body, err, true
	l.mu.Unlock()
	l.drain(ctx)
}

// drain completes fetched scripts from the head of the queue until it
// reaches one still in flight.
func (l *Loader) drain(ctx context.Context) {
	l.turn.Lock()
	defer l.turn.Unlock()

	for {
		l.mu.Lock()
		if len(l.queue) == 0 || !l.queue[0].fetched {
			l.mu.Unlock()
			return
		}
		s := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		// Each completion logs with its own resource context.
		rctx := logger.WithResource(ctx, s.res.ID.String(), s.res.URL, string(s.res.Kind))
		l.complete(rctx, s.res, s.body, s.err)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(l.base, cancel)
	defer stop()

	if l.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeoutCause(ctx, l.timeout, ErrTimeout)
		defer cancelTimeout()
	}

	if l.sem != nil {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return nil, l.cause(ctx, err)
		}
		defer l.sem.Release(1)
	}

	body, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, l.cause(ctx, err)
	}
	return body, nil
}

func (l *Loader) cause(ctx context.Context, err error) error {
	if l.base.Err() != nil {
		return errors.Join(ErrClosed, err)
	}
	if c := context.Cause(ctx); c != nil && !errors.Is(err, c) {
		return errors.Join(c, err)
	}
	return err
}

// complete executes the body, publishes exactly one signal and decrements
// the tracker. Callers hold l.turn.
func (l *Loader) complete(ctx context.Context, res *Resource, body []byte, err error) {
	if err == nil {
		if exec, ok := l.executors[res.Kind]; ok && exec != nil {
			if execErr := l.execute(ctx, exec, res, body); execErr != nil {
				err = execErr
			}
		}
	}

	l.mu.Lock()
	if err != nil {
		res.State, res.Err = StateErrored, err
	} else {
		res.State = StateLoaded
	}
	l.mu.Unlock()

	switch {
	case err != nil:
		l.logger.WarnContext(ctx, "resource failed", slog.String("error", err.Error()))
		l.publish(ctx, event.Event{Name: event.ResourceError, URL: res.URL, Err: err})
	case res.Kind == KindLanguage:
		l.logger.DebugContext(ctx, "language loaded")
		l.publish(ctx, event.Event{Name: event.LanguageLoaded, URL: res.URL})
	default:
		l.logger.DebugContext(ctx, "resource loaded")
		l.publish(ctx, event.Event{Name: event.ResourceLoaded, URL: res.URL})
	}

	if res.Kind.tracked() && l.tracker != nil {
		if err := l.tracker.Done(ctx); err != nil {
			l.logger.ErrorContext(ctx, "tracker out of balance", slog.String("error", err.Error()))
		}
	}
}

func (l *Loader) execute(ctx context.Context, exec Executor, res *Resource, body []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader: executor panicked: %v", r)
		}
	}()

	l.mu.Lock()
	snapshot := *res
	l.mu.Unlock()
	return exec.Execute(ctx, snapshot, body)
}

func (l *Loader) publish(ctx context.Context, e event.Event) {
	if l.publisher != nil {
		l.publisher.Publish(ctx, e)
	}
}
