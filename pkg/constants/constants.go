package constants

import (
	"maps"
	"slices"
	"sync"
)

// Namespace names one of the three constant accumulators.
type Namespace string

const (
	Action    Namespace = "action"
	Store     Namespace = "store"
	Component Namespace = "component"
)

// Namespaces lists every namespace in bootstrap order.
var Namespaces = []Namespace{Action, Store, Component}

// Valid reports whether ns is a known namespace.
func (ns Namespace) Valid() bool {
	return slices.Contains(Namespaces, ns)
}

// Registry holds the constant namespaces. It is safe for concurrent use;
// each Merge is atomic.
type Registry struct {
	spaces map[Namespace]map[string]string
	mu     sync.RWMutex
}

// New creates a registry with empty namespaces.
func New() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Merge shallow-merges patch into ns and validates the result.
// It returns a copy of the namespace after the merge. On a uniqueness violation
// it returns a *DuplicateError and the namespace keeps its previous contents.
func (r *Registry) Merge(ns Namespace, patch map[string]string) (map[string]string, error) {
	if !ns.Valid() {
		return nil, ErrUnknownNamespace
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.spaces[ns]
	if err := validate(ns, current, patch); err != nil {
		return nil, err
	}

	maps.Copy(current, patch)
	return maps.Clone(current), nil
}

// MergeAll merges patches into several namespaces at once. Either every
// patch is applied or, on the first violation, none is.
func (r *Registry) MergeAll(patches map[Namespace]map[string]string) error {
	for ns := range patches {
		if !ns.Valid() {
			return ErrUnknownNamespace
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ns := range Namespaces {
		if patch, ok := patches[ns]; ok {
			if err := validate(ns, r.spaces[ns], patch); err != nil {
				return err
			}
		}
	}
	for ns, patch := range patches {
		maps.Copy(r.spaces[ns], patch)
	}
	return nil
}

// Get returns a copy of the namespace contents.
func (r *Registry) Get(ns Namespace) map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	space, ok := r.spaces[ns]
	if !ok {
		return nil
	}
	return maps.Clone(space)
}

// Value returns the value registered under key in ns.
func (r *Registry) Value(ns Namespace, key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.spaces[ns][key]
	return v, ok
}

// Reset empties every namespace.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spaces = make(map[Namespace]map[string]string, len(Namespaces))
	for _, ns := range Namespaces {
		r.spaces[ns] = make(map[string]string)
	}
}

// validate checks patch against the accumulated entries without mutating them.
// Keys are visited in sorted order so the reported collision is deterministic.
func validate(ns Namespace, current, patch map[string]string) error {
	owners := make(map[string]string, len(current)+len(patch))
	for k, v := range current {
		owners[v] = k
	}

	for _, key := range slices.Sorted(maps.Keys(patch)) {
		value := patch[key]

		if _, ok := current[key]; ok {
			return &DuplicateError{Err: ErrDuplicateKey, Namespace: ns, Key: key, Value: value}
		}

		if owner, ok := owners[value]; ok && owner != key {
			return &DuplicateError{Err: ErrDuplicateValue, Namespace: ns, Key: key, Other: owner, Value: value}
		}
		owners[value] = key
	}

	return nil
}
