package awesome

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/config"
	"github.com/dmitrymomot/awesome/pkg/constants"
	"github.com/dmitrymomot/awesome/pkg/event"
	"github.com/dmitrymomot/awesome/pkg/i18n"
	"github.com/dmitrymomot/awesome/pkg/loader"
	"github.com/dmitrymomot/awesome/pkg/logger"
	"github.com/dmitrymomot/awesome/pkg/readiness"
)

// Runtime is the application context: it owns the event bus, the readiness
// tracker, the configuration and constants stores, the localization engine
// and the resource loader, and sequences them at startup.
type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	fetcher    loader.Fetcher
	prefs      cache.Cache[string]
	ownPrefs   bool
	dispatcher Dispatcher
	screens    Screens
	styles     loader.Executor

	bus       *event.Bus
	tracker   *readiness.Tracker
	config    *config.Store
	constants *constants.Registry
	i18n      *i18n.Engine
	loader    *loader.Loader

	unsubscribe []func()

	mu      sync.Mutex
	wanted  string
	started bool
	closed  bool
}

// New builds a runtime. Components are created in dependency order:
// bus, tracker, stores, localization engine, loader.
func New(opts ...Option) (*Runtime, error) {
	rt := &Runtime{logger: logger.NewNope()}
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, errors.Join(ErrInvalidOption, err)
		}
	}
	rt.cfg.applyDefaults()

	if rt.fetcher == nil {
		rt.fetcher = defaultFetcher()
	}
	if rt.prefs == nil {
		rt.prefs = cache.NewMemory[string](cache.WithCleanupInterval(0))
		rt.ownPrefs = true
	}

	rt.bus = event.NewBus()
	rt.tracker = readiness.New(
		readiness.WithSettleDelay(rt.cfg.SettleDelay),
		readiness.WithLogger(rt.logger),
	)
	rt.config = config.New()
	rt.constants = constants.New()

	engine, err := i18n.New(
		i18n.WithPreferences(rt.prefs),
		i18n.WithResources(resources{rt}, rt.languageURL),
		i18n.WithPublisher(rt.bus),
		i18n.WithLogger(rt.logger),
		i18n.WithMissingKeyHandler(func(key string) {
			rt.logger.Debug("missing language string", slog.String("key", key))
		}),
	)
	if err != nil {
		return nil, err
	}
	rt.i18n = engine

	loaderOpts := []loader.Option{
		loader.WithTracker(rt.tracker),
		loader.WithPublisher(rt.bus),
		loader.WithLogger(rt.logger),
		loader.WithExecutor(loader.KindScript, loader.ExecutorFunc(rt.executeScript)),
		loader.WithExecutor(loader.KindLanguage, loader.ExecutorFunc(rt.executeLanguage)),
		loader.WithLoadTimeout(rt.cfg.LoadTimeout),
		loader.WithMaxConcurrent(rt.cfg.MaxConcurrent),
	}
	if rt.styles != nil {
		loaderOpts = append(loaderOpts, loader.WithExecutor(loader.KindStylesheet, rt.styles))
	}
	rt.loader = loader.New(rt.fetcher, loaderOpts...)

	rt.tracker.OnReady(rt.onReady)
	rt.unsubscribe = append(rt.unsubscribe,
		rt.bus.Subscribe(event.WantsLanguage, rt.onWantsLanguage),
		rt.bus.Subscribe(event.LanguageLoaded, rt.onLanguageSettled),
		rt.bus.Subscribe(event.ResourceError, rt.onLanguageSettled),
	)

	return rt, nil
}

// Start issues the bootstrap load sequence. It returns immediately; use
// Wait or subscribe to event.Ready to learn when everything has settled.
func (rt *Runtime) Start(ctx context.Context) error {
	rt.mu.Lock()
	switch {
	case rt.closed:
		rt.mu.Unlock()
		return ErrClosed
	case rt.started:
		rt.mu.Unlock()
		return ErrAlreadyStarted
	}
	rt.started = true
	rt.mu.Unlock()

	rt.logger.InfoContext(ctx, "runtime starting", slog.String("base_path", rt.cfg.BasePath))

	rt.loader.Load(ctx, rt.resolve("css/component.css"), loader.KindStylesheet)

	for _, lib := range rt.cfg.Libraries {
		rt.loader.Load(ctx, rt.resolve(lib), loader.KindScript)
	}

	rt.loader.Load(ctx, rt.languageURL(i18n.DefaultCode), loader.KindLanguage)
	rt.loader.Load(ctx, rt.url("config"), loader.KindScript)

	for _, p := range []string{
		"stores/constants",
		"actions/constants",
		"components/constants",
		"dispatchers/store",
		"dispatchers/action",
		"dispatchers/component",
		"stores/store",
	} {
		rt.loader.Load(ctx, rt.url(p), loader.KindScript)
	}
	return nil
}

// Wait blocks until the runtime is ready.
func (rt *Runtime) Wait(ctx context.Context) error {
	return rt.tracker.Wait(ctx)
}

// Ready reports whether every requested script and language has settled.
func (rt *Runtime) Ready() bool {
	return rt.tracker.Ready()
}

// ReadyCheck fails while the runtime is not ready. It fits health.CheckFunc.
func (rt *Runtime) ReadyCheck(context.Context) error {
	if !rt.tracker.Ready() {
		return ErrNotReady
	}
	return nil
}

// RequireScript loads a script relative to BasePath unless already loaded.
func (rt *Runtime) RequireScript(ctx context.Context, path string) bool {
	return rt.loader.Load(ctx, rt.resolve(path), loader.KindScript)
}

// RequireCSS loads a stylesheet relative to BasePath unless already loaded.
func (rt *Runtime) RequireCSS(ctx context.Context, path string) bool {
	return rt.loader.Load(ctx, rt.resolve(path), loader.KindStylesheet)
}

// RequireLanguage loads the table for code without applying it.
func (rt *Runtime) RequireLanguage(ctx context.Context, code string) bool {
	return rt.loader.Load(ctx, rt.languageURL(i18n.Normalize(code)), loader.KindLanguage)
}

// SetLanguage resolves code. When its table must be loaded first, the
// runtime resolves again once the load settles and SetLanguage returns
// ("", false).
func (rt *Runtime) SetLanguage(ctx context.Context, code string) (string, bool) {
	applied, ok := rt.i18n.Resolve(ctx, code)
	if ok {
		rt.setWanted("")
	}
	return applied, ok
}

// Bus returns the runtime event bus.
func (rt *Runtime) Bus() *event.Bus { return rt.bus }

// Config returns the configuration store.
func (rt *Runtime) Config() *config.Store { return rt.config }

// Constants returns the constants registry.
func (rt *Runtime) Constants() *constants.Registry { return rt.constants }

// I18n returns the localization engine.
func (rt *Runtime) I18n() *i18n.Engine { return rt.i18n }

// Loader returns the resource loader.
func (rt *Runtime) Loader() *loader.Loader { return rt.loader }

// Tracker returns the readiness tracker.
func (rt *Runtime) Tracker() *readiness.Tracker { return rt.tracker }

// Close cancels in-flight loads and detaches the runtime from its bus.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	if rt.closed {
		rt.mu.Unlock()
		return nil
	}
	rt.closed = true
	rt.mu.Unlock()

	err := rt.loader.Close()
	for _, unsub := range rt.unsubscribe {
		unsub()
	}
	if rt.ownPrefs {
		err = errors.Join(err, rt.prefs.Close())
	}
	return err
}

// Reset clears every store and forgets loaded resources so Start can run
// again. The persisted language preference is kept. Call it only while no
// load is in flight.
func (rt *Runtime) Reset() {
	rt.loader.Wait()
	rt.loader.Reset()
	rt.tracker.Reset()
	rt.config.Reset()
	rt.constants.Reset()
	rt.i18n.Reset()

	rt.mu.Lock()
	rt.wanted = ""
	rt.started = false
	rt.mu.Unlock()
}

// onReady announces a drain to zero. Detection and routing may start new
// loads; the announcement is then left to the drain that follows them.
func (rt *Runtime) onReady(ctx context.Context, first bool) {
	transition := rt.tracker.Transitions()
	if first {
		code, ok := rt.i18n.Detect(ctx, rt.cfg.ClientLanguage)
		rt.logger.InfoContext(ctx, "runtime ready",
			slog.String("language", code),
			slog.Bool("language_deferred", !ok),
		)
		rt.route(ctx)
	}
	if !rt.tracker.Ready() || rt.tracker.Transitions() != transition {
		return
	}
	rt.bus.Publish(ctx, event.Event{Name: event.Ready})
}

func (rt *Runtime) onWantsLanguage(_ context.Context, e event.Event) {
	rt.setWanted(e.Code)
}

// onLanguageSettled resolves the wanted code again once a language resource
// has loaded or failed.
func (rt *Runtime) onLanguageSettled(ctx context.Context, e event.Event) {
	if e.Name == event.ResourceError {
		res, ok := rt.loader.Resource(e.URL)
		if !ok || res.Kind != loader.KindLanguage {
			return
		}
	}

	rt.mu.Lock()
	wanted := rt.wanted
	rt.mu.Unlock()
	if wanted == "" {
		return
	}

	if _, ok := rt.i18n.Resolve(ctx, wanted); ok {
		rt.mu.Lock()
		if rt.wanted == wanted {
			rt.wanted = ""
		}
		rt.mu.Unlock()
	}
}

func (rt *Runtime) setWanted(code string) {
	rt.mu.Lock()
	rt.wanted = code
	rt.mu.Unlock()
}

// url returns the document named p under BasePath with the configured extension.
func (rt *Runtime) url(p string) string {
	return rt.resolve(p + "." + rt.cfg.Extension)
}

func (rt *Runtime) languageURL(code string) string {
	return rt.url("language/" + code)
}

// resolve joins relative paths to BasePath. Absolute URLs and rooted
// paths are returned unchanged.
func (rt *Runtime) resolve(p string) string {
	if u, err := url.Parse(p); err == nil && (u.IsAbs() || strings.HasPrefix(p, "/")) {
		return p
	}
	base := rt.cfg.BasePath
	switch {
	case base == "":
		return p
	case strings.HasSuffix(base, "/"):
		return base + p
	default:
		return base + "/" + p
	}
}

// resources exposes the loader to the localization engine, which is built first.
type resources struct{ rt *Runtime }

func (r resources) Has(url string) bool { return r.rt.loader.Has(url) }

func (r resources) Request(ctx context.Context, url string) bool {
	return r.rt.loader.Load(ctx, url, loader.KindLanguage)
}

func defaultFetcher() loader.Fetcher {
	web := &loader.HTTPFetcher{}
	return loader.SchemeFetcher{
		"http":  web,
		"https": web,
		"":      &loader.FSFetcher{FS: os.DirFS(".")},
	}
}
