// Package awesome is the bootstrap runtime of the awesome component suite.
//
// A [Runtime] prepares the shared application context before any component
// becomes usable. It loads resources once per URL, tracks how many are in
// flight, and turns the drain to zero into a single ready signal. It also
// negotiates the user's language and holds the configuration tree and the
// action, store and component constants.
//
//	rt, err := awesome.New(
//		awesome.WithConfig(awesome.Config{BasePath: "https://cdn.example.com/awesome/"}),
//		awesome.WithDispatcher(actions),
//		awesome.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	defer rt.Close()
//
//	if err := rt.Start(ctx); err != nil {
//		return err
//	}
//	if err := rt.Wait(ctx); err != nil {
//		return err
//	}
//
// # Bootstrap Sequence
//
// Start requests, relative to Config.BasePath:
//
//  1. css/component.css
//  2. Config.Libraries
//  3. language/default.yaml and config.yaml
//  4. stores/constants.yaml, actions/constants.yaml, components/constants.yaml
//  5. dispatchers/store.yaml, dispatchers/action.yaml, dispatchers/component.yaml
//  6. stores/store.yaml
//
// Scripts complete in this order whatever order they arrive in. Every script
// except config.yaml is a [Manifest]; config.yaml is merged into the
// configuration tree as is. Language documents are flat tables named after
// their file.
//
// # Ready
//
// On the first ready transition the runtime detects the language (stored
// preference first, then Config.ClientLanguage) and performs startup
// routing through the [Dispatcher]. Every ready transition publishes
// event.Ready on the bus. Later loads, such as [Runtime.RequireScript],
// make the runtime not ready until they settle.
package awesome
