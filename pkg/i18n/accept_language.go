package i18n

import (
	"slices"
	"strconv"
	"strings"
)

// Values longer than this are truncated before parsing.
const maxAcceptLanguageLength = 4096

// Preference is one entry of an Accept-Language style value.
type Preference struct {
	Code    string
	Quality float64
}

// ParsePreferences splits an Accept-Language style value ("es-MX,es;q=0.9")
// into normalized codes, highest quality first. Entries of equal quality keep
// their order. Wildcards and entries with q=0 are dropped.
func ParsePreferences(header string) []Preference {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var prefs []Preference
	for entry := range strings.SplitSeq(header, ",") {
		code, params, _ := strings.Cut(entry, ";")
		code = Normalize(code)
		if code == "" || code == "*" {
			continue
		}

		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed < 0 || parsed > 1 {
				continue
			}
			q = parsed
		}
		if q == 0 {
			continue
		}
		prefs = append(prefs, Preference{Code: code, Quality: q})
	}

	slices.SortStableFunc(prefs, func(a, b Preference) int {
		switch {
		case a.Quality > b.Quality:
			return -1
		case a.Quality < b.Quality:
			return 1
		}
		return 0
	})
	return prefs
}

// Negotiate returns the entry of available that best serves header, or "".
// Preferences are tried by quality; at one quality level an exact code wins
// over a code sharing only the primary subtag ("es-MX" accepts "es").
func Negotiate(header string, available []string) string {
	var (
		best    string
		quality float64
	)
	for _, pref := range ParsePreferences(header) {
		if best != "" && pref.Quality < quality {
			break
		}
		for _, code := range available {
			normalized := Normalize(code)
			if normalized == pref.Code {
				return code
			}
			if best == "" && baseLanguage(normalized) == baseLanguage(pref.Code) {
				best, quality = code, pref.Quality
			}
		}
	}
	return best
}
