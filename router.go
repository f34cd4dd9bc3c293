package crossbind

import (
	"slices"
	"strings"
	"sync"
)

// Router is the route registry: an ordered collection of routes plus the API
// metadata that heads the generated document. It never dispatches requests
// itself — framework shims bind its routes into their native routers.
type Router struct {
	mu     sync.Mutex
	routes []routeInfo

	title   string
	version string
	desc    string

	schemas *SchemaRegistry

	specOnce sync.Once
	spec     *Document
	specErr  error
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the API title (used in the OpenAPI document).
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// WithVersion sets the API version (used in the OpenAPI document).
func WithVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// WithAPIDescription sets the API description (used in the OpenAPI document).
func WithAPIDescription(desc string) RouterOption {
	return func(r *Router) {
		r.desc = desc
	}
}

// WithSchemaRegistry sets the component-schema cache the router's document
// build uses. Routers get a private registry by default; pass a shared one to
// reuse cached fragments across routers. A shared registry means shared
// component names: two distinct types claiming one name fail the build.
func WithSchemaRegistry(sr *SchemaRegistry) RouterOption {
	return func(r *Router) {
		r.schemas = sr
	}
}

// New creates a Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{}
	for _, opt := range opts {
		opt(r)
	}
	if r.schemas == nil {
		r.schemas = NewSchemaRegistry()
	}
	return r
}

// addRoute appends a route. No duplicate detection is performed: re-adding
// the same path and method keeps both entries, and shims that need dedup
// perform it when binding into their native routers.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, ri)
}

// Routes returns read-only views of the registered routes in registration
// order. That order determines document iteration order, nothing more.
func (r *Router) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Route, len(r.routes))
	for i := range r.routes {
		out[i] = Route{info: &r.routes[i]}
	}
	return out
}

// Include re-registers every route of other on r with prefix prepended,
// slash-normalized so exactly one / separates prefix and path. The copies are
// additive: other keeps its own routes unchanged.
func (r *Router) Include(other *Router, prefix string) {
	other.mu.Lock()
	routes := slices.Clone(other.routes)
	other.mu.Unlock()

	for _, ri := range routes {
		ri.path = joinPath(prefix, ri.path)
		r.addRoute(ri)
	}
}

// joinPath joins a prefix and a path with exactly one slash between them. An
// empty path yields the bare prefix, so a group can register its root route.
func joinPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	rest := strings.TrimPrefix(path, "/")
	if rest == "" {
		return strings.TrimSuffix(prefix, "/")
	}
	return strings.TrimSuffix(prefix, "/") + "/" + rest
}

// Spec builds the OpenAPI document for the currently registered routes. The
// document is built once, on first access, and cached for the router's
// lifetime: repeated calls return the identical value, and mutating routes
// afterward does not rebuild it. A *SchemaError aborts the build.
func (r *Router) Spec() (*Document, error) {
	r.specOnce.Do(func() {
		r.spec, r.specErr = r.buildSpec()
	})
	return r.spec, r.specErr
}
