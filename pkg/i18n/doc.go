// Package i18n resolves the active locale and serves its string table.
//
// An [Engine] holds one [Table] per locale code plus the always present
// "default" table. Resolving a locale computes the current table as the
// default table overlaid by the resolved one, so every key of the default
// table is always available:
//
//	engine, err := i18n.New(
//		i18n.WithDefaultTable(i18n.Table{"greet": "Hi ${name}", "bye": "Bye"}),
//		i18n.WithTable("es", i18n.Table{"greet": "Hola ${name}"}),
//	)
//
//	engine.Resolve(ctx, "es-MX")                      // applies "es"
//	engine.DynamicString("greet", i18n.M{"name": "Ann"}) // "Hola Ann", true
//	engine.DynamicString("bye", nil)                  // "Bye", true
//
// # Resolution Cascade
//
// Resolve tries, in order: the exact code; the code's language resource, if
// the code carries a region and was never requested; the primary subtag; the
// primary subtag's resource, if never requested; the default table. When a
// resource is requested Resolve returns ("", false) and publishes
// [event.WantsLanguage]; the caller resolves again once the resource has
// loaded or failed. Resources are requested through the [Resources] interface
// configured with [WithResources].
//
// # Preferences
//
// With [WithPreferences] the chosen code is persisted under [PreferenceKey]
// in any [cache.Cache]. [Engine.Detect] prefers the stored code and otherwise
// negotiates an Accept-Language style value against the registered tables.
//
// # Files
//
// [WithJSONDir] and [WithYAMLDir] load "<code>.json" and "<code>.yaml" files
// from the root of an fs.FS. Nested keys are flattened with dots.
package i18n
