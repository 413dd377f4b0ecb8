package i18n

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/awesome/pkg/cache"
	"github.com/dmitrymomot/awesome/pkg/event"
)

const (
	// DefaultCode names the authoritative fallback table.
	DefaultCode = "default"

	// PreferenceKey is the storage key of the persisted locale.
	PreferenceKey = "language"
)

// M holds placeholder values for DynamicString.
type M map[string]any

// Table maps string keys to templates.
type Table map[string]string

// Resources lets the engine check for and request language resources.
// Has must report true for every resource ever requested, including failed ones.
type Resources interface {
	Has(url string) bool
	Request(ctx context.Context, url string) bool
}

// Publisher receives locale signals.
type Publisher interface {
	Publish(ctx context.Context, e event.Event)
}

// Engine resolves locales and serves the computed current table.
// It is safe for concurrent use.
type Engine struct {
	tables  map[string]Table
	current Table

	prefs     cache.Cache[string]
	resources Resources
	publisher Publisher
	logger    *slog.Logger

	// urlFor maps a locale code to its language resource URL.
	urlFor func(code string) string

	missingKeyHandler func(key string)

	applied string
	mu      sync.RWMutex
}

// Option configures the Engine during construction.
type Option func(*Engine) error

// New creates an engine with an empty default table unless one is supplied.
// The current table starts as a copy of the default table.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		tables: map[string]Table{DefaultCode: {}},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, errors.Join(ErrInvalidOption, err)
		}
	}

	if e.urlFor == nil {
		e.urlFor = func(code string) string { return code + ".yaml" }
	}

	e.current = maps.Clone(e.tables[DefaultCode])
	e.applied = DefaultCode

	return e, nil
}

// WithDefaultTable sets the default table.
func WithDefaultTable(t Table) Option {
	return func(e *Engine) error {
		e.tables[DefaultCode] = maps.Clone(t)
		return nil
	}
}

// WithTable registers a table for a locale code.
func WithTable(code string, t Table) Option {
	return func(e *Engine) error {
		code = Normalize(code)
		if code == "" {
			return ErrEmptyLanguage
		}
		e.mergeTable(code, t)
		return nil
	}
}

// WithPreferences sets the durable storage for the chosen locale.
func WithPreferences(c cache.Cache[string]) Option {
	return func(e *Engine) error {
		e.prefs = c
		return nil
	}
}

// WithResources enables on-demand loading of language resources.
// urlFor maps a locale code to the resource URL, conventionally "<dir>/<code>.<ext>".
func WithResources(r Resources, urlFor func(code string) string) Option {
	return func(e *Engine) error {
		if r == nil || urlFor == nil {
			return ErrNilResources
		}
		e.resources = r
		e.urlFor = urlFor
		return nil
	}
}

// WithPublisher sets the receiver of language-set and wants-language signals.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) error {
		e.publisher = p
		return nil
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) error {
		if l != nil {
			e.logger = l
		}
		return nil
	}
}

// WithMissingKeyHandler sets a function called when DynamicString misses a key.
// Useful for spotting untranslated strings during development.
func WithMissingKeyHandler(fn func(key string)) Option {
	return func(e *Engine) error {
		e.missingKeyHandler = fn
		return nil
	}
}

// AddTable registers or extends the table for code. Keys already present are
// overwritten. If code is the applied locale, current is recomputed.
func (e *Engine) AddTable(code string, t Table) error {
	code = Normalize(code)
	if code == "" {
		return ErrEmptyLanguage
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.mergeTable(code, t)
	if code == e.applied || code == DefaultCode {
		e.current = e.overlayLocked(e.applied)
	}
	return nil
}

// HasTable reports whether a table is registered for code.
func (e *Engine) HasTable(code string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.tables[Normalize(code)]
	return ok
}

// Table returns a copy of the table registered for code.
func (e *Engine) Table(code string) (Table, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	t, ok := e.tables[Normalize(code)]
	if !ok {
		return nil, false
	}
	return maps.Clone(t), true
}

// Languages returns the registered codes, default first, others sorted.
func (e *Engine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	codes := make([]string, 0, len(e.tables))
	for code := range e.tables {
		if code != DefaultCode {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return append([]string{DefaultCode}, codes...)
}

// Current returns a copy of the computed current table.
func (e *Engine) Current() Table {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.current)
}

// Language returns the code whose table is currently applied.
func (e *Engine) Language() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.applied
}

// String returns current[key].
func (e *Engine) String(key string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.current[key]
	return v, ok
}

// DynamicString looks key up in the current table and substitutes every
// ${name} placeholder found in params. A missing key returns ("", false)
// without substitution.
func (e *Engine) DynamicString(key string, params M) (string, bool) {
	tmpl, ok := e.String(key)
	if !ok {
		if e.missingKeyHandler != nil {
			e.missingKeyHandler(key)
		}
		return "", false
	}
	return ReplacePlaceholders(tmpl, params), true
}

// Resolve applies the best table for requested.
//
// The cascade is: exact code; for region codes, request the code's resource
// if it was never requested; the primary subtag; request the primary subtag's
// resource if it was never requested; the default table. When a resource is
// requested, the requested code is persisted, wants-language is published and
// Resolve returns ("", false): the caller resolves again once the resource
// has loaded or failed.
func (e *Engine) Resolve(ctx context.Context, requested string) (string, bool) {
	code := Normalize(requested)
	if code == "" {
		code = DefaultCode
	}

	if e.HasTable(code) {
		return e.apply(ctx, code), true
	}

	primary := baseLanguage(code)
	if primary != code && e.request(ctx, code, code) {
		return "", false
	}

	if e.HasTable(primary) {
		return e.apply(ctx, primary), true
	}

	if e.request(ctx, code, primary) {
		return "", false
	}

	return e.apply(ctx, DefaultCode), true
}

// Detect performs first-run locale detection. A stored preference wins;
// otherwise the client's Accept-Language style value is negotiated against the
// registered tables and, failing a match, its preferred code is resolved so
// that its resource can be requested.
func (e *Engine) Detect(ctx context.Context, negotiated string) (string, bool) {
	if pref, ok := e.Preference(ctx); ok {
		return e.Resolve(ctx, pref)
	}

	if negotiated == "" {
		return e.Resolve(ctx, DefaultCode)
	}

	if match := Negotiate(negotiated, e.Languages()[1:]); match != "" {
		return e.Resolve(ctx, match)
	}

	prefs := ParsePreferences(negotiated)
	if len(prefs) == 0 {
		return e.Resolve(ctx, DefaultCode)
	}
	return e.Resolve(ctx, prefs[0].Code)
}

// Preference returns the persisted locale, if any.
func (e *Engine) Preference(ctx context.Context) (string, bool) {
	if e.prefs == nil {
		return "", false
	}
	code, err := e.prefs.Get(ctx, PreferenceKey)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			e.logger.WarnContext(ctx, "failed to read language preference", slog.Any("error", err))
		}
		return "", false
	}
	return code, code != ""
}

// Reset drops every table except an empty default and re-applies it.
// The persisted preference is left alone.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tables = map[string]Table{DefaultCode: {}}
	e.current = Table{}
	e.applied = DefaultCode
}

// request requests the language resource for code if it was never requested.
func (e *Engine) request(ctx context.Context, requested, code string) bool {
	if e.resources == nil || code == DefaultCode {
		return false
	}

	url := e.urlFor(code)
	if e.resources.Has(url) {
		return false
	}

	if !e.resources.Request(ctx, url) {
		return false
	}
	e.persist(ctx, requested)
	e.publish(ctx, event.Event{Name: event.WantsLanguage, Code: requested, URL: url})
	e.logger.DebugContext(ctx, "language requested",
		slog.String("code", requested),
		slog.String("url", url),
	)
	return true
}

func (e *Engine) apply(ctx context.Context, code string) string {
	e.mu.Lock()
	e.current = e.overlayLocked(code)
	e.applied = code
	e.mu.Unlock()

	e.persist(ctx, code)
	e.publish(ctx, event.Event{Name: event.LanguageSet, Code: code})
	return code
}

// overlayLocked returns default overlaid by the table for code.
func (e *Engine) overlayLocked(code string) Table {
	current := maps.Clone(e.tables[DefaultCode])
	if current == nil {
		current = Table{}
	}
	if code != DefaultCode {
		maps.Copy(current, e.tables[code])
	}
	return current
}

func (e *Engine) mergeTable(code string, t Table) {
	existing, ok := e.tables[code]
	if !ok {
		existing = make(Table, len(t))
		e.tables[code] = existing
	}
	maps.Copy(existing, t)
}

func (e *Engine) persist(ctx context.Context, code string) {
	if e.prefs == nil || code == "" {
		return
	}
	if err := e.prefs.Set(ctx, PreferenceKey, code, -1); err != nil {
		e.logger.WarnContext(ctx, "failed to persist language preference",
			slog.String("code", code),
			slog.Any("error", err),
		)
	}
}

func (e *Engine) publish(ctx context.Context, ev event.Event) {
	if e.publisher != nil {
		e.publisher.Publish(ctx, ev)
	}
}

// Normalize canonicalizes a locale code ("en_us" becomes "en-US").
// The default code and unparsable codes are lowercased and trimmed.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, DefaultCode) {
		return strings.ToLower(code)
	}
	code = strings.ReplaceAll(code, "_", "-")
	if tag, err := language.Parse(code); err == nil {
		return tag.String()
	}
	return strings.ToLower(code)
}

// baseLanguage strips the region from a language tag (e.g., "en-US" → "en").
// Returns the input unchanged if there is no region.
func baseLanguage(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	return lang
}
