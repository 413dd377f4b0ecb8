// Package constants holds the three constant namespaces (action, store,
// component) shared by dispatchers, stores and components.
//
// Writes are shallow merges validated against the whole accumulated namespace:
// a key may not be written twice and two keys may not share
// a value. A rejected merge leaves the namespace untouched.
//
//	reg := constants.New()
//	_, err := reg.Merge(constants.Action, map[string]string{
//		"FILE_LOADED": "file-loaded",
//	})
//	var dup *constants.DuplicateError
//	if errors.As(err, &dup) {
//		// constant collision, a programming error
//	}
package constants
