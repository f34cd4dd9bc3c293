package crossbind

import (
	"context"
	"reflect"
	"regexp"
)

// routeInfo is the registry record for one endpoint: path, method, response
// metadata, the derived signature, and the framework-neutral invoker. It is a
// side table — metadata is never attached to the endpoint function itself, so
// the same function can be registered twice with different metadata.
type routeInfo struct {
	method string
	path   string

	summary     string
	desc        string
	tags        []string
	operationID string
	deprecated  bool
	status      int

	sig      *signature
	respType reflect.Type

	invoke func(ctx context.Context, data RequestData) (any, error)
}

// Route is the read-only view of a registered route handed to framework
// shims: the narrow contract between the core and any host framework.
type Route struct {
	info *routeInfo
}

// Method returns the HTTP method, uppercased.
func (rt Route) Method() string { return rt.info.method }

// Path returns the canonical route path with {name} placeholders. Shims
// translate to their framework's native placeholder syntax.
func (rt Route) Path() string { return rt.info.path }

// Status returns the declared success status code.
func (rt Route) Status() int { return rt.info.status }

// PathParams returns the names of the path's {name} placeholders in order.
func (rt Route) PathParams() []string { return pathPlaceholders(rt.info.path) }

// Handle resolves the request data against the endpoint's signature, invokes
// the endpoint, and returns its raw result (nil for no-content responses).
// Resolution failures come back as *ResolveError; errors raised by the
// endpoint body pass through untouched so shims can tell the two apart.
func (rt Route) Handle(ctx context.Context, data RequestData) (any, error) {
	return rt.info.invoke(ctx, data)
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// pathPlaceholders extracts the {name} tokens from a route path.
func pathPlaceholders(path string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(path, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m[1]
	}
	return names
}

// TranslatePath rewrites the canonical {name} placeholders using the host
// framework's prefix syntax, e.g. TranslatePath("/items/{id}", ":") yields
// "/items/:id". Shims for frameworks with non-brace placeholder syntax use it
// when binding routes.
func TranslatePath(path, prefix string) string {
	return placeholderPattern.ReplaceAllString(path, prefix+"$1")
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithStatus sets the success HTTP status code for the response.
func WithStatus(code int) RouteOption {
	return func(ri *routeInfo) {
		ri.status = code
	}
}

// WithSummary sets the OpenAPI summary for the route.
func WithSummary(s string) RouteOption {
	return func(ri *routeInfo) {
		ri.summary = s
	}
}

// WithDescription sets the OpenAPI description for the route.
func WithDescription(d string) RouteOption {
	return func(ri *routeInfo) {
		ri.desc = d
	}
}

// WithTags adds OpenAPI tags to the route.
func WithTags(tags ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.tags = append(ri.tags, tags...)
	}
}

// WithOperationID sets a custom OpenAPI operationId.
func WithOperationID(id string) RouteOption {
	return func(ri *routeInfo) {
		ri.operationID = id
	}
}

// WithDeprecated marks the route as deprecated in the OpenAPI document.
func WithDeprecated() RouteOption {
	return func(ri *routeInfo) {
		ri.deprecated = true
	}
}
