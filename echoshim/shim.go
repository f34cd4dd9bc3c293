// Package echoshim binds crossbind routers into an Echo instance, translating
// the canonical {name} path syntax to Echo's :name parameters. Handlers that
// return *echo.HTTPError keep Echo's native error rendering: the shim passes
// them through unmodified.
package echoshim

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crossbind/crossbind"
)

// Shim implements crossbind.Binder on top of an echo.Echo.
type Shim struct {
	router *crossbind.Router
	echo   *echo.Echo
}

// New creates a shim for the given router. Pass nil to create a bare Echo
// instance.
func New(r *crossbind.Router, e *echo.Echo) *Shim {
	if e == nil {
		e = echo.New()
		e.HideBanner = true
	}
	return &Shim{router: r, echo: e}
}

// Mount binds all routes, the document at /openapi.json, and Swagger UI at
// /docs, returning the shim ready to serve.
func Mount(r *crossbind.Router, e *echo.Echo) (*Shim, error) {
	s := New(r, e)
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

// Echo returns the underlying Echo instance.
func (s *Shim) Echo() *echo.Echo { return s.echo }

// AddRoute implements crossbind.Binder.
func (s *Shim) AddRoute(rt crossbind.Route) error {
	s.echo.Add(rt.Method(), echoPath(rt.Path()), s.handler(rt))
	return nil
}

// ServeSpec implements crossbind.Binder.
func (s *Shim) ServeSpec(path string) error {
	s.echo.GET(path, func(c echo.Context) error {
		doc, err := s.router.Spec()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, doc)
	})
	return nil
}

// ServeDocs implements crossbind.Binder, mounting Swagger UI.
func (s *Shim) ServeDocs(path, specURL string) error {
	page := crossbind.SwaggerUIHTML(specURL)
	s.echo.GET(path, func(c echo.Context) error {
		return c.HTML(http.StatusOK, page)
	})
	return nil
}

// handler adapts one route to echo.
func (s *Shim) handler(rt crossbind.Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		data := crossbind.RequestData{Params: make(map[string]string)}

		for key, vals := range c.QueryParams() {
			if len(vals) > 0 {
				data.Params[key] = vals[0]
			}
		}
		names := c.ParamNames()
		values := c.ParamValues()
		for i, name := range names {
			if i < len(values) {
				data.Params[name] = values[i]
			}
		}

		req := c.Request()
		if req.Body != nil && req.ContentLength != 0 {
			if err := json.NewDecoder(req.Body).Decode(&data.Body); err != nil && !errors.Is(err, io.EOF) {
				pd := crossbind.Problem(crossbind.Error(http.StatusBadRequest, "malformed JSON body: "+err.Error()))
				return c.JSON(pd.Status, pd)
			}
		}

		result, err := rt.Handle(req.Context(), data)
		if err != nil {
			// Native framework errors propagate untouched so Echo's own
			// error rendering takes over.
			var he *echo.HTTPError
			if errors.As(err, &he) {
				return he
			}
			pd := crossbind.Problem(err)
			return c.JSON(pd.Status, pd)
		}

		if result == nil {
			return c.NoContent(rt.Status())
		}
		return c.JSON(rt.Status(), crossbind.Serialize(result))
	}
}

// echoPath converts canonical {name} placeholders to Echo's :name syntax.
func echoPath(path string) string {
	return crossbind.TranslatePath(path, ":")
}
