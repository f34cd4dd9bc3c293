package crossbind_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crossbind/crossbind"
)

type specItem struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tags  []string `json:"tags"`
}

type specItemInput struct {
	Name  string  `json:"name" required:"true" doc:"Item name"`
	Price float64 `json:"price" minimum:"0"`
}

type specItemList struct {
	Items []specItem `json:"items"`
	Total int        `json:"total"`
}

func buildSpecRouter() *crossbind.Router {
	type listReq struct {
		Filter struct {
			Tag   string `json:"tag" doc:"Only items with this tag"`
			Limit int    `json:"limit" default:"20"`
		}
	}
	type getReq struct {
		ItemID int  `param:"item_id"`
		Pretty bool `json:"pretty" default:"false"`
	}
	type createReq struct {
		Item specItemInput
	}
	type deleteReq struct {
		ItemID int `param:"item_id"`
	}

	r := crossbind.New(crossbind.WithTitle("Items API"), crossbind.WithVersion("2.0.0"))

	crossbind.Get(r, "/items", func(_ context.Context, _ *listReq) (*specItemList, error) {
		return &specItemList{}, nil
	}, crossbind.WithSummary("List items"), crossbind.WithTags("items"))

	crossbind.Post(r, "/items", func(_ context.Context, req *createReq) (*specItem, error) {
		return &specItem{Name: req.Item.Name}, nil
	}, crossbind.WithStatus(http.StatusCreated), crossbind.WithTags("items"))

	crossbind.Get(r, "/items/{item_id}", func(_ context.Context, _ *getReq) (*specItem, error) {
		return &specItem{}, nil
	}, crossbind.WithTags("items"))

	crossbind.Delete(r, "/items/{item_id}", func(_ context.Context, _ *deleteReq) (*crossbind.Void, error) {
		return &crossbind.Void{}, nil
	}, crossbind.WithTags("items"), crossbind.WithDeprecated())

	return r
}

func TestSpec_basic(t *testing.T) {
	t.Parallel()

	r := buildSpecRouter()
	spec, err := r.Spec()
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", spec.OpenAPI)
	assert.Equal(t, "Items API", spec.Info.Title)
	assert.Equal(t, "2.0.0", spec.Info.Version)

	// Named response types land in components.
	require.NotNil(t, spec.Components)
	require.Contains(t, spec.Components.Schemas, "specItemList")
	require.Contains(t, spec.Components.Schemas, "specItem")
	require.Contains(t, spec.Components.Schemas, "specItemInput")

	list := spec.Components.Schemas["specItemList"]
	assert.Equal(t, "object", list.Type)
	require.Contains(t, list.Properties, "items")
	assert.Equal(t, "#/components/schemas/specItem", list.Properties["items"].Items.Ref)

	input := spec.Components.Schemas["specItemInput"]
	assert.Equal(t, []string{"name"}, input.Required)
	require.NotNil(t, input.Properties["price"].Minimum)
	assert.Equal(t, 0.0, *input.Properties["price"].Minimum)

	// GET /items — the structured filter expands to query parameters.
	getItems, ok := spec.Paths["/items"]["get"]
	require.True(t, ok)
	assert.Equal(t, "List items", getItems.Summary)
	assert.Contains(t, getItems.Tags, "items")
	assert.Nil(t, getItems.RequestBody)
	require.Len(t, getItems.Parameters, 2)

	tag := getItems.Parameters[0]
	assert.Equal(t, "tag", tag.Name)
	assert.Equal(t, "query", tag.In)
	assert.False(t, tag.Required)
	assert.Equal(t, "Only items with this tag", tag.Description)

	limit := getItems.Parameters[1]
	assert.Equal(t, "limit", limit.Name)
	assert.Equal(t, "integer", limit.Schema.Type)
	assert.Equal(t, 20, limit.Schema.Default)

	respSchema := getItems.Responses["200"].Content["application/json"].Schema
	require.NotNil(t, respSchema)
	assert.Equal(t, "#/components/schemas/specItemList", respSchema.Ref)

	// POST /items — structured parameter becomes the request body.
	postItems, ok := spec.Paths["/items"]["post"]
	require.True(t, ok)
	require.NotNil(t, postItems.RequestBody)
	assert.True(t, postItems.RequestBody.Required)
	bodySchema := postItems.RequestBody.Content["application/json"].Schema
	require.NotNil(t, bodySchema)
	assert.Equal(t, "#/components/schemas/specItemInput", bodySchema.Ref)
	created := postItems.Responses["201"]
	assert.Equal(t, "Created", created.Description)
	assert.Equal(t, "#/components/schemas/specItem", created.Content["application/json"].Schema.Ref)

	// GET /items/{item_id} — path placeholder decides parameter location.
	getItem, ok := spec.Paths["/items/{item_id}"]["get"]
	require.True(t, ok)
	require.Len(t, getItem.Parameters, 2)

	itemID := getItem.Parameters[0]
	assert.Equal(t, "item_id", itemID.Name)
	assert.Equal(t, "path", itemID.In)
	assert.True(t, itemID.Required)
	assert.Equal(t, "integer", itemID.Schema.Type)

	pretty := getItem.Parameters[1]
	assert.Equal(t, "pretty", pretty.Name)
	assert.Equal(t, "query", pretty.In)
	assert.False(t, pretty.Required)
	assert.Equal(t, false, pretty.Schema.Default)

	// DELETE — Void response means 204 with no content.
	delItem, ok := spec.Paths["/items/{item_id}"]["delete"]
	require.True(t, ok)
	assert.True(t, delItem.Deprecated)
	noContent, ok := delItem.Responses["204"]
	require.True(t, ok)
	assert.Equal(t, "No Content", noContent.Description)
	assert.Empty(t, noContent.Content)
}

func TestSpec_cached(t *testing.T) {
	t.Parallel()

	r := buildSpecRouter()

	first, err := r.Spec()
	require.NoError(t, err)
	second, err := r.Spec()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSpec_unsupportedResponseType(t *testing.T) {
	t.Parallel()

	r := crossbind.New()
	crossbind.Get(r, "/bad", func(_ context.Context, _ *crossbind.Void) (*string, error) {
		s := "nope"
		return &s, nil
	})

	_, err := r.Spec()
	require.Error(t, err)

	var se *crossbind.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "GET /bad", se.Route)
	assert.Contains(t, se.Detail, "unsupported response type")
}

func TestSpec_sharedRegistryNameCollision(t *testing.T) {
	t.Parallel()

	reg := crossbind.NewSchemaRegistry()

	a := crossbind.New(crossbind.WithSchemaRegistry(reg))
	{
		type Widget struct {
			Name string `json:"name"`
		}
		crossbind.Get(a, "/widgets", func(_ context.Context, _ *crossbind.Void) (*Widget, error) {
			return &Widget{}, nil
		})
	}

	b := crossbind.New(crossbind.WithSchemaRegistry(reg))
	{
		type Widget struct {
			Label string `json:"label"`
		}
		crossbind.Get(b, "/widgets", func(_ context.Context, _ *crossbind.Void) (*Widget, error) {
			return &Widget{}, nil
		})
	}

	_, err := a.Spec()
	require.NoError(t, err)

	_, err = b.Spec()
	require.Error(t, err)

	var se *crossbind.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Detail, `component name "Widget"`)
}

func TestSpec_privateRegistriesDoNotCollide(t *testing.T) {
	t.Parallel()

	a := crossbind.New()
	{
		type Gadget struct {
			Name string `json:"name"`
		}
		crossbind.Get(a, "/gadgets", func(_ context.Context, _ *crossbind.Void) (*Gadget, error) {
			return &Gadget{}, nil
		})
	}

	b := crossbind.New()
	{
		type Gadget struct {
			Label string `json:"label"`
		}
		crossbind.Get(b, "/gadgets", func(_ context.Context, _ *crossbind.Void) (*Gadget, error) {
			return &Gadget{}, nil
		})
	}

	_, err := a.Spec()
	require.NoError(t, err)
	_, err = b.Spec()
	require.NoError(t, err)
}

func TestSpec_sliceQueryParamResolvable(t *testing.T) {
	t.Parallel()

	// A documented array parameter must also be accepted at resolution time:
	// the comma-separated form backs the array the document advertises.
	type listReq struct {
		Filter struct {
			Tags []string `json:"tags"`
		}
	}

	r := crossbind.New()
	crossbind.Get(r, "/items", func(_ context.Context, _ *listReq) (*specItemList, error) {
		return &specItemList{}, nil
	})

	spec, err := r.Spec()
	require.NoError(t, err)

	params := spec.Paths["/items"]["get"].Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "tags", params[0].Name)
	assert.Equal(t, "array", params[0].Schema.Type)
	require.NotNil(t, params[0].Schema.Items)
	assert.Equal(t, "string", params[0].Schema.Items.Type)

	got, err := crossbind.Resolve[listReq](crossbind.RequestData{
		Params: map[string]string{"tags": "sale,new"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sale", "new"}, got.Filter.Tags)
}

func TestSpec_durationDefaultRendersAsString(t *testing.T) {
	t.Parallel()

	type metricsReq struct {
		Window time.Duration `json:"window" default:"5m"`
	}

	r := crossbind.New()
	crossbind.Get(r, "/metrics", func(_ context.Context, _ *metricsReq) (*specItemList, error) {
		return &specItemList{}, nil
	})

	spec, err := r.Spec()
	require.NoError(t, err)

	params := spec.Paths["/metrics"]["get"].Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "string", params[0].Schema.Type)
	assert.Equal(t, "duration", params[0].Schema.Format)
	assert.Equal(t, "5m0s", params[0].Schema.Default)
}

func TestSpec_defaultInfo(t *testing.T) {
	t.Parallel()

	r := crossbind.New()
	crossbind.Get(r, "/ping", ping)

	spec, err := r.Spec()
	require.NoError(t, err)
	assert.Equal(t, "API", spec.Info.Title)
	assert.Equal(t, "0.0.0", spec.Info.Version)
}
