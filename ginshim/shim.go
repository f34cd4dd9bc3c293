// Package ginshim binds crossbind routers into a Gin engine, translating the
// canonical {name} path syntax to Gin's :name parameters.
package ginshim

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crossbind/crossbind"
)

// Shim implements crossbind.Binder on top of a gin.Engine.
type Shim struct {
	router *crossbind.Router
	engine *gin.Engine
}

// New creates a shim for the given router. Pass nil to create a bare engine
// (gin.New, no default middleware — Gin's own middleware stack remains the
// caller's business).
func New(r *crossbind.Router, engine *gin.Engine) *Shim {
	if engine == nil {
		engine = gin.New()
	}
	return &Shim{router: r, engine: engine}
}

// Mount binds all routes, the document at /openapi.json, and Swagger UI at
// /docs, returning the shim ready to serve.
func Mount(r *crossbind.Router, engine *gin.Engine) (*Shim, error) {
	s := New(r, engine)
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

// Engine returns the underlying gin engine.
func (s *Shim) Engine() *gin.Engine { return s.engine }

// AddRoute implements crossbind.Binder.
func (s *Shim) AddRoute(rt crossbind.Route) error {
	s.engine.Handle(rt.Method(), ginPath(rt.Path()), s.handler(rt))
	return nil
}

// ServeSpec implements crossbind.Binder.
func (s *Shim) ServeSpec(path string) error {
	s.engine.GET(path, func(c *gin.Context) {
		doc, err := s.router.Spec()
		if err != nil {
			pd := crossbind.Problem(err)
			c.JSON(pd.Status, pd)
			return
		}
		c.JSON(http.StatusOK, doc)
	})
	return nil
}

// ServeDocs implements crossbind.Binder, mounting Swagger UI.
func (s *Shim) ServeDocs(path, specURL string) error {
	page := []byte(crossbind.SwaggerUIHTML(specURL))
	s.engine.GET(path, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	return nil
}

// handler adapts one route to gin: path params from c.Params, query values
// from the URL, the body decoded into a generic map, then the core takes over.
func (s *Shim) handler(rt crossbind.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := crossbind.RequestData{Params: make(map[string]string)}

		for key, vals := range c.Request.URL.Query() {
			if len(vals) > 0 {
				data.Params[key] = vals[0]
			}
		}
		for _, p := range c.Params {
			data.Params[p.Key] = p.Value
		}

		if c.Request.Body != nil && c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&data.Body); err != nil && !errors.Is(err, io.EOF) {
				pd := crossbind.Problem(crossbind.Error(http.StatusBadRequest, "malformed JSON body: "+err.Error()))
				c.AbortWithStatusJSON(pd.Status, pd)
				return
			}
		}

		result, err := rt.Handle(c.Request.Context(), data)
		if err != nil {
			pd := crossbind.Problem(err)
			c.AbortWithStatusJSON(pd.Status, pd)
			return
		}

		if result == nil {
			c.Status(rt.Status())
			return
		}
		c.JSON(rt.Status(), crossbind.Serialize(result))
	}
}

// ginPath converts canonical {name} placeholders to Gin's :name syntax.
func ginPath(path string) string {
	return crossbind.TranslatePath(path, ":")
}
