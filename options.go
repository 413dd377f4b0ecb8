package awesome

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/loader"
)

// Option configures the Runtime.
type Option func(*Runtime) error

// WithConfig sets the runtime configuration.
func WithConfig(cfg Config) Option {
	return func(rt *Runtime) error {
		rt.cfg = cfg
		return nil
	}
}

// WithFetcher sets how resources are fetched. The default serves http(s)
// URLs over the network and everything else from the working directory.
func WithFetcher(f loader.Fetcher) Option {
	return func(rt *Runtime) error {
		if f == nil {
			return errors.New("awesome: nil fetcher")
		}
		rt.fetcher = f
		return nil
	}
}

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) error {
		if l != nil {
			rt.logger = l
		}
		return nil
	}
}

// WithPreferences sets the durable store of the chosen locale.
// Without it the preference lives in process memory.
func WithPreferences(c cache.Cache[string]) Option {
	return func(rt *Runtime) error {
		rt.prefs = c
		return nil
	}
}

// WithDispatcher sets the action dispatcher used for startup routing.
func WithDispatcher(d Dispatcher) Option {
	return func(rt *Runtime) error {
		rt.dispatcher = d
		return nil
	}
}

// WithScreens sets the screen state consulted by startup routing.
func WithScreens(s Screens) Option {
	return func(rt *Runtime) error {
		rt.screens = s
		return nil
	}
}

// WithStylesheetExecutor sets the executor receiving fetched stylesheets.
func WithStylesheetExecutor(e loader.Executor) Option {
	return func(rt *Runtime) error {
		rt.styles = e
		return nil
	}
}
