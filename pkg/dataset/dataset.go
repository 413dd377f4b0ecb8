// Package dataset merges component data attributes with their defaults.
package dataset

import "strings"

// Prefix marks data attributes.
const Prefix = "data-"

// Merge fills every key of defaults missing from data and returns data.
// Values already present in data win. A nil data map is allocated.
func Merge(data, defaults map[string]string) map[string]string {
	if data == nil {
		data = make(map[string]string, len(defaults))
	}
	for k, v := range defaults {
		if _, ok := data[k]; !ok {
			data[k] = v
		}
	}
	return data
}

// AttributeFromData maps "data-name" to "name". Keys without the prefix
// report false.
func AttributeFromData(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, Prefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// UpdateAttribute sets attrs[name] = value when key is the data attribute
// "data-name" and reports whether it did.
func UpdateAttribute(attrs map[string]string, key, value string) bool {
	name, ok := AttributeFromData(key)
	if !ok || attrs == nil {
		return false
	}
	attrs[name] = value
	return true
}
