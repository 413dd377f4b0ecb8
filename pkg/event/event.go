package event

import (
	"context"
	"sync"
)

// Name identifies a signal.
type Name string

// Signals produced by the runtime.
const (
	ResourceLoaded Name = "resource-loaded"
	ResourceError  Name = "resource-error"
	LanguageLoaded Name = "language-loaded"
	LanguageSet    Name = "language-set"
	WantsLanguage  Name = "wants-language"
	Ready          Name = "ready"
)

// Event is the payload delivered to subscribers.
// URL is set for resource and language-loaded signals, Code for locale signals.
type Event struct {
	Err  error
	Name Name
	URL  string
	Code string
}

// Handler receives published events.
type Handler func(ctx context.Context, e Event)

type subscription struct {
	handler Handler
	id      uint64
}

// Bus is a synchronous publish/subscribe hub keyed by signal name.
// It is safe for concurrent use.
type Bus struct {
	subs   map[Name][]subscription
	all    []subscription
	mu     sync.RWMutex
	nextID uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Name][]subscription)}
}

// Subscribe registers h for the named signal and returns a function that
// removes the registration. Calling the returned function twice is harmless.
func (b *Bus) Subscribe(name Name, h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs[name] = removeSubscription(b.subs[name], id)
	}
}

// SubscribeAll registers h for every signal.
func (b *Bus) SubscribeAll(h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.all = removeSubscription(b.all, id)
	}
}

// Publish delivers e to the handlers registered for e.Name, then to the
// catch-all handlers. The handler list is snapshotted before delivery, so
// handlers may subscribe or unsubscribe while being called.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	named := b.subs[e.Name]
	handlers := make([]Handler, 0, len(named)+len(b.all))
	for _, s := range named {
		handlers = append(handlers, s.handler)
	}
	for _, s := range b.all {
		handlers = append(handlers, s.handler)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
}

// Reset drops every subscription.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[Name][]subscription)
	b.all = nil
}

func removeSubscription(list []subscription, id uint64) []subscription {
	for i, s := range list {
		if s.id == id {
			out := make([]subscription, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return list
}
