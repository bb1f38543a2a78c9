// Package viewer owns the embedded view lifecycle: one shared preview
// session reused across generation runs, navigated in place, with optional
// navigation-assist key forwarding into the rendered content.
package viewer

// View is the embedded view widget boundary. Implementations wrap whatever
// actually renders the generated document (a browser tab driven over a
// command stream, a test fake).
type View interface {
	// Navigate points the view at a URL.
	Navigate(url string) error

	// OnLoadComplete registers the callback invoked when a navigation
	// finishes loading. Registering replaces any previous callback.
	OnLoadComplete(fn func())

	// ExecuteScript runs script text inside the rendered view.
	ExecuteScript(script string) error

	// IsAlive reports whether the underlying view still exists.
	IsAlive() bool
}

// Factory creates fresh views for new sessions.
type Factory interface {
	NewSession(url string) (View, error)
}
