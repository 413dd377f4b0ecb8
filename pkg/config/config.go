package config

import "sync"

// Tree is a nested configuration mapping. Leaves are scalars or slices.
type Tree = map[string]any

// Store holds the configuration tree. It is safe for concurrent use and every
// Merge is applied atomically.
type Store struct {
	tree Tree
	mu   sync.RWMutex
}

// New creates an empty store.
func New() *Store {
	return &Store{tree: make(Tree)}
}

// Merge merges patch into the tree and returns a snapshot of the result.
// Mappings from the patch are copied, so the caller may reuse patch freely.
func (s *Store) Merge(patch Tree) Tree {
	s.mu.Lock()
	defer s.mu.Unlock()

	mergeInto(s.tree, patch)
	return deepCopy(s.tree)
}

// Tree returns a snapshot of the whole tree.
func (s *Store) Tree() Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepCopy(s.tree)
}

// Get walks path and returns the value found there.
// Mappings and sequences are returned as snapshots.
func (s *Store) Get(path ...string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cur any = s.tree
	for _, key := range path {
		m, ok := asTree(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}

	return cloneValue(cur), true
}

// String returns the string at path, or "" when missing or not a string.
func (s *Store) String(path ...string) string {
	v, ok := s.Get(path...)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Reset empties the tree.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = make(Tree)
}

func mergeInto(dst, patch Tree) {
	for key, incoming := range patch {
		in, incomingIsTree := asTree(incoming)
		if !incomingIsTree {
			dst[key] = cloneValue(incoming)
			continue
		}

		if existing, ok := asTree(dst[key]); ok {
			mergeInto(existing, in)
			continue
		}
		dst[key] = deepCopy(in)
	}
}

// asTree normalizes the mapping shapes produced by YAML and JSON decoders.
func asTree(v any) (Tree, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		t := make(Tree, len(m))
		for k, val := range m {
			t[k] = val
		}
		return t, true
	default:
		return nil, false
	}
}

func deepCopy(src Tree) Tree {
	dst := make(Tree, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

// cloneValue copies mappings and sequences so the tree never shares them
// with a caller.
func cloneValue(v any) any {
	if m, ok := asTree(v); ok {
		return deepCopy(m)
	}
	list, ok := v.([]any)
	if !ok {
		return v
	}
	dst := make([]any, len(list))
	for i, item := range list {
		dst[i] = cloneValue(item)
	}
	return dst
}
