package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/event"
)

func TestBus_Publish(t *testing.T) {
	t.Parallel()

	t.Run("delivers only to matching subscribers in order", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		var got []string
		bus.Subscribe(event.LanguageSet, func(_ context.Context, e event.Event) {
			got = append(got, "first:"+e.Code)
		})
		bus.Subscribe(event.LanguageSet, func(_ context.Context, e event.Event) {
			got = append(got, "second:"+e.Code)
		})
		bus.Subscribe(event.Ready, func(_ context.Context, _ event.Event) {
			got = append(got, "ready")
		})

		bus.Publish(context.Background(), event.Event{Name: event.LanguageSet, Code: "es"})

		require.Equal(t, []string{"first:es", "second:es"}, got)
	})

	t.Run("catch-all receives every signal", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		var names []event.Name
		bus.SubscribeAll(func(_ context.Context, e event.Event) {
			names = append(names, e.Name)
		})

		ctx := context.Background()
		bus.Publish(ctx, event.Event{Name: event.ResourceLoaded, URL: "/a.yaml"})
		bus.Publish(ctx, event.Event{Name: event.Ready})

		require.Equal(t, []event.Name{event.ResourceLoaded, event.Ready}, names)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		calls := 0
		unsubscribe := bus.Subscribe(event.Ready, func(context.Context, event.Event) { calls++ })

		bus.Publish(context.Background(), event.Event{Name: event.Ready})
		unsubscribe()
		unsubscribe()
		bus.Publish(context.Background(), event.Event{Name: event.Ready})

		require.Equal(t, 1, calls)
	})

	t.Run("handler may subscribe during publish", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		late := 0
		bus.Subscribe(event.Ready, func(context.Context, event.Event) {
			bus.Subscribe(event.Ready, func(context.Context, event.Event) { late++ })
		})

		bus.Publish(context.Background(), event.Event{Name: event.Ready})
		require.Equal(t, 0, late)

		bus.Publish(context.Background(), event.Event{Name: event.Ready})
		require.Equal(t, 1, late)
	})

	t.Run("reset drops subscriptions", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus()
		calls := 0
		bus.Subscribe(event.Ready, func(context.Context, event.Event) { calls++ })
		bus.Reset()
		bus.Publish(context.Background(), event.Event{Name: event.Ready})

		require.Zero(t, calls)
	})
}
