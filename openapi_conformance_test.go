package crossbind_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSpec_validDocument runs the generated document through a full OpenAPI
// 3.0 validator, catching structural mistakes no field-by-field assertion
// would.
func TestSpec_validDocument(t *testing.T) {
	t.Parallel()

	r := buildSpecRouter()
	spec, err := r.Spec()
	require.NoError(t, err)

	raw, err := json.Marshal(spec)
	require.NoError(t, err)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	assert.Equal(t, "Items API", doc.Info.Title)
	assert.Len(t, doc.Paths, 2)
}

func TestWriteSpec(t *testing.T) {
	t.Parallel()

	r := buildSpecRouter()

	var buf bytes.Buffer
	require.NoError(t, r.WriteSpec(&buf))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "3.0.3", out["openapi"])
}

func TestWriteSpecYAML(t *testing.T) {
	t.Parallel()

	r := buildSpecRouter()

	var buf bytes.Buffer
	require.NoError(t, r.WriteSpecYAML(&buf))
	assert.Contains(t, buf.String(), "openapi: 3.0.3")
	assert.Contains(t, buf.String(), "/items/{item_id}")
}
