package crossbind

import "slices"

// Group is a collection of routes under a shared prefix with shared tags.
type Group struct {
	router *Router
	prefix string
	tags   []string
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupTags adds default tags to all routes registered on the group.
func WithGroupTags(tags ...string) GroupOption {
	return func(g *Group) {
		g.tags = append(g.tags, tags...)
	}
}

// Group creates a route group with the given prefix and options.
func (r *Router) Group(prefix string, opts ...GroupOption) *Group {
	g := &Group{
		router: r,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// addRoute implements Registrar for Group.
func (g *Group) addRoute(ri routeInfo) {
	ri.path = joinPath(g.prefix, ri.path)
	ri.tags = slices.Concat(g.tags, ri.tags)
	g.router.addRoute(ri)
}
