// Package config implements the process-wide configuration tree.
//
// The tree only grows through merges. Merge walks the patch depth-first: where
// both sides hold a mapping it recurses, otherwise the incoming value replaces
// the existing one outright (a scalar may replace a mapping and vice versa).
// Keys absent from a patch are never removed.
//
//	store := config.New()
//	store.Merge(config.Tree{"theme": config.Tree{"color": "blue", "size": 12}})
//	store.Merge(config.Tree{"theme": config.Tree{"color": "red"}})
//	// theme.color == "red", theme.size == 12
package config
