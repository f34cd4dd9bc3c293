package crossbind

import (
	"context"
	"net/http"
	"reflect"
	"strings"
)

// Handler is the core typed endpoint signature. The framework owns parameter
// resolution and serialization — handlers never see a raw request object.
type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
}

// register is the internal generic registration function. It derives the
// endpoint signature once and builds the framework-neutral invoker closure
// every shim calls through Route.Handle.
func register[Req, Resp any](reg Registrar, method, path string, h Handler[Req, Resp], opts ...RouteOption) {
	sig := signatureOf(reflect.TypeFor[Req]())
	respType := reflect.TypeFor[Resp]()

	ri := routeInfo{
		method:   strings.ToUpper(method),
		path:     path,
		sig:      sig,
		respType: respType,
	}

	for _, opt := range opts {
		opt(&ri)
	}

	// Default status: Void response → 204, otherwise 200.
	if ri.status == 0 {
		if respType == reflect.TypeFor[Void]() {
			ri.status = http.StatusNoContent
		} else {
			ri.status = http.StatusOK
		}
	}

	isVoid := respType == reflect.TypeFor[Void]()

	ri.invoke = func(ctx context.Context, data RequestData) (any, error) {
		req := new(Req)
		if err := sig.resolve(reflect.ValueOf(req).Elem(), data); err != nil {
			return nil, err
		}

		if sv, ok := any(req).(SelfValidator); ok {
			if err := sv.Validate(); err != nil {
				return nil, err
			}
		}

		resp, err := h(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil || isVoid {
			return nil, nil
		}
		return resp, nil
	}

	reg.addRoute(ri)
}

// Get registers a GET handler.
func Get[Req, Resp any](reg Registrar, path string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, path, h, opts...)
}

// Post registers a POST handler.
func Post[Req, Resp any](reg Registrar, path string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPost, path, h, opts...)
}

// Put registers a PUT handler.
func Put[Req, Resp any](reg Registrar, path string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPut, path, h, opts...)
}

// Patch registers a PATCH handler.
func Patch[Req, Resp any](reg Registrar, path string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPatch, path, h, opts...)
}

// Delete registers a DELETE handler.
func Delete[Req, Resp any](reg Registrar, path string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodDelete, path, h, opts...)
}
