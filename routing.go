package awesome

import (
	"context"
	"log/slog"
)

// Dispatcher triggers named actions on the application's action dispatcher.
type Dispatcher interface {
	Trigger(ctx context.Context, action string, data map[string]string) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, action string, data map[string]string) error

func (f DispatcherFunc) Trigger(ctx context.Context, action string, data map[string]string) error {
	return f(ctx, action, data)
}

// Screens reports the screen state startup routing depends on.
type Screens interface {
	// Active returns the id of the screen currently shown, or "".
	Active() string
}

// route performs the startup routing decision: the route action always
// receives the fragment; the start-screen action fires only when no screen
// is active and a start screen is known, the fragment taking precedence
// over the configured default.
func (rt *Runtime) route(ctx context.Context) {
	if rt.dispatcher == nil {
		return
	}

	fragment := rt.cfg.Fragment
	if err := rt.dispatcher.Trigger(ctx, rt.cfg.RouteAction, map[string]string{"fragment": fragment}); err != nil {
		rt.logger.ErrorContext(ctx, "route action failed",
			slog.String("action", rt.cfg.RouteAction),
			slog.String("error", err.Error()),
		)
	}

	if rt.screens != nil && rt.screens.Active() != "" {
		return
	}

	start := fragment
	if start == "" {
		start = rt.cfg.StartScreen
	}
	if start == "" {
		return
	}

	if err := rt.dispatcher.Trigger(ctx, rt.cfg.StartAction, map[string]string{"screen": start}); err != nil {
		rt.logger.ErrorContext(ctx, "start screen action failed",
			slog.String("action", rt.cfg.StartAction),
			slog.String("screen", start),
			slog.String("error", err.Error()),
		)
	}
}
