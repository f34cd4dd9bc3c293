package echoshim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crossbind/crossbind"
	"github.com/crossbind/crossbind/echoshim"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type getItemReq struct {
	ItemID int `param:"item_id"`
}

type createItemReq struct {
	Item struct {
		Name string `json:"name" required:"true"`
	}
}

func newTestShim(t *testing.T) *echoshim.Shim {
	t.Helper()

	r := crossbind.New(crossbind.WithTitle("Test API"))

	crossbind.Get(r, "/items/{item_id}", func(_ context.Context, req *getItemReq) (*item, error) {
		switch req.ItemID {
		case 404:
			return nil, crossbind.Error(http.StatusNotFound, "no such item")
		case 418:
			return nil, echo.NewHTTPError(http.StatusTeapot, "framework native")
		}
		return &item{ID: req.ItemID, Name: "widget"}, nil
	})

	crossbind.Post(r, "/items", func(_ context.Context, req *createItemReq) (*item, error) {
		return &item{ID: 1, Name: req.Item.Name}, nil
	}, crossbind.WithStatus(http.StatusCreated))

	s, err := echoshim.Mount(r, nil)
	require.NoError(t, err)
	return s
}

func TestShim_get(t *testing.T) {
	t.Parallel()

	s := newTestShim(t)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":42,"name":"widget"}`, rec.Body.String())
}

func TestShim_post(t *testing.T) {
	t.Parallel()

	s := newTestShim(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"gadget"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"gadget"}`, rec.Body.String())
}

func TestShim_resolveErrorIs422(t *testing.T) {
	t.Parallel()

	s := newTestShim(t)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/zero", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "item_id")
}

func TestShim_statusCoderKeepsStatus(t *testing.T) {
	t.Parallel()

	s := newTestShim(t)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/404", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no such item")
}

func TestShim_nativeErrorPassesThrough(t *testing.T) {
	t.Parallel()

	// An *echo.HTTPError returned by a handler reaches Echo's own error
	// rendering instead of the problem document mapping.
	s := newTestShim(t)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/418", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), "framework native")
}

func TestShim_servesSpec(t *testing.T) {
	t.Parallel()

	s := newTestShim(t)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/items/{item_id}")
}
