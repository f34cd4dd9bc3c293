// Package httpshim binds crossbind routers into a net/http ServeMux. Go 1.22
// route patterns use the same {name} placeholder syntax as canonical route
// paths, so no path translation is needed.
package httpshim

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/crossbind/crossbind"
)

// Shim implements crossbind.Binder on top of an http.ServeMux.
type Shim struct {
	router     *crossbind.Router
	mux        *http.ServeMux
	middleware []Middleware
}

// Option configures a Shim.
type Option func(*Shim)

// WithMiddleware adds middleware around every bound handler, applied in the
// order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Shim) {
		s.middleware = append(s.middleware, mw...)
	}
}

// New creates a shim for the given router.
func New(r *crossbind.Router, opts ...Option) *Shim {
	s := &Shim{
		router: r,
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount is the common case in one call: bind all routes, serve the document
// at /openapi.json, and the Swagger UI at /docs.
func Mount(r *crossbind.Router, opts ...Option) (*Shim, error) {
	s := New(r, opts...)
	if err := crossbind.BindAll(r, s); err != nil {
		return nil, err
	}
	if err := s.ServeSpec("/openapi.json"); err != nil {
		return nil, err
	}
	if err := s.ServeDocs("/docs", "/openapi.json"); err != nil {
		return nil, err
	}
	return s, nil
}

// AddRoute implements crossbind.Binder.
func (s *Shim) AddRoute(rt crossbind.Route) error {
	s.mux.Handle(rt.Method()+" "+rt.Path(), s.handler(rt))
	return nil
}

// ServeSpec implements crossbind.Binder.
func (s *Shim) ServeSpec(path string) error {
	s.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		doc, err := s.router.Spec()
		if err != nil {
			writeProblem(w, crossbind.Problem(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(doc)
	})
	return nil
}

// ServeDocs implements crossbind.Binder, mounting Swagger UI.
func (s *Shim) ServeDocs(path, specURL string) error {
	page := []byte(crossbind.SwaggerUIHTML(specURL))
	s.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort write
		w.Write(page)
	})
	return nil
}

// ServeRedoc mounts a Redoc page at path, loading the document from specURL.
func (s *Shim) ServeRedoc(path, specURL string) error {
	page := []byte(crossbind.RedocHTML(specURL))
	s.mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort write
		w.Write(page)
	})
	return nil
}

// Handler returns the shim's http.Handler with middleware applied.
func (s *Shim) Handler() http.Handler {
	h := http.Handler(s.mux)
	for i := len(s.middleware) - 1; i >= 0; i-- {
		h = s.middleware[i](h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (s *Shim) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// ListenAndServe starts an HTTP server on addr. It blocks until the context
// is cancelled, then shuts down gracefully.
func (s *Shim) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handler adapts one route to net/http: extract the generic request data,
// hand it to the core, serialize the result.
func (s *Shim) handler(rt crossbind.Route) http.Handler {
	pathNames := rt.PathParams()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := crossbind.RequestData{Params: make(map[string]string)}

		for key, vals := range r.URL.Query() {
			if len(vals) > 0 {
				data.Params[key] = vals[0]
			}
		}
		for _, name := range pathNames {
			if val := r.PathValue(name); val != "" {
				data.Params[name] = val
			}
		}

		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&data.Body); err != nil && !errors.Is(err, io.EOF) {
				writeProblem(w, crossbind.Problem(crossbind.Error(http.StatusBadRequest, "malformed JSON body: "+err.Error())))
				return
			}
		}

		result, err := rt.Handle(r.Context(), data)
		if err != nil {
			writeProblem(w, crossbind.Problem(err))
			return
		}

		if result == nil {
			w.WriteHeader(rt.Status())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rt.Status())
		//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(crossbind.Serialize(result))
	})
}

// writeProblem writes an RFC 9457 problem document.
func writeProblem(w http.ResponseWriter, pd *crossbind.ProblemDetail) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(pd.Status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(pd)
}
