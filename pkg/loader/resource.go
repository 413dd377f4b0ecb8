package loader

import (
	"context"

	"github.com/google/uuid"
)

// Kind is the type of a requested resource.
type Kind string

const (
	// KindScript resources complete and execute in request order.
	KindScript Kind = "script"
	// KindLanguage resources complete as soon as they arrive.
	KindLanguage Kind = "language"
	// KindStylesheet resources are fetched without ordering and never
	// count toward readiness.
	KindStylesheet Kind = "stylesheet"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindScript, KindLanguage, KindStylesheet:
		return true
	}
	return false
}

// tracked reports whether loads of this kind hold back readiness.
func (k Kind) tracked() bool {
	return k == KindScript || k == KindLanguage
}

// State is the lifecycle stage of a resource.
type State string

const (
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateErrored State = "errored"
)

// Resource is the record kept for every requested URL. Errored resources
// stay recorded, so a failed URL is never requested again.
type Resource struct {
	Err   error
	URL   string
	Kind  Kind
	State State
	ID    uuid.UUID
}

// Fetcher retrieves the body of a resource.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Executor applies a fetched body. An error fails the resource.
type Executor interface {
	Execute(ctx context.Context, res Resource, body []byte) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, res Resource, body []byte) error

func (f ExecutorFunc) Execute(ctx context.Context, res Resource, body []byte) error {
	return f(ctx, res, body)
}
