package crossbind

// Binder is the fixed capability a framework shim exposes: binding a route
// into the native router and mounting the document and docs-UI endpoints.
// The core depends only on this interface, never on concrete framework types.
type Binder interface {
	// AddRoute binds one route into the host framework's router, translating
	// the canonical {name} path syntax to the framework's own.
	AddRoute(rt Route) error

	// ServeSpec mounts a GET endpoint serving the OpenAPI document as JSON.
	ServeSpec(path string) error

	// ServeDocs mounts a GET endpoint serving a documentation UI that loads
	// the document from specURL.
	ServeDocs(path, specURL string) error
}

// BindAll binds every registered route of r into b, in registration order.
func BindAll(r *Router, b Binder) error {
	for _, rt := range r.Routes() {
		if err := b.AddRoute(rt); err != nil {
			return err
		}
	}
	return nil
}
