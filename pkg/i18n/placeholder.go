package i18n

import (
	"fmt"
	"strings"
)

// ReplacePlaceholders replaces ${name} placeholders in the template with values
// from the provided map. Names match case-insensitively, an exact-case key
// winning over a folded one. Placeholders without a value remain unchanged.
//
// Example:
//
//	template: "Hello, ${name}! You have ${count} messages."
//	placeholders: M{"name": "John", "count": 5}
//	returns: "Hello, John! You have 5 messages."
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) < 1 || !strings.Contains(template, "${") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			break
		}
		end += start + 2

		b.WriteString(rest[:start])
		if value, ok := lookupPlaceholder(placeholders, rest[start+2:end]); ok {
			b.WriteString(fmt.Sprintf("%v", value))
		} else {
			b.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
	b.WriteString(rest)

	return b.String()
}

func lookupPlaceholder(placeholders M, name string) (any, bool) {
	if v, ok := placeholders[name]; ok {
		return v, true
	}
	for key, v := range placeholders {
		if strings.EqualFold(key, name) {
			return v, true
		}
	}
	return nil, false
}
