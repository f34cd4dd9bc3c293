package crossbind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crossbind/crossbind"
)

func TestSwaggerUIHTML(t *testing.T) {
	t.Parallel()

	page := crossbind.SwaggerUIHTML("/openapi.json")
	assert.Contains(t, page, "swagger-ui")
	assert.Contains(t, page, "/openapi.json")
}

func TestRedocHTML(t *testing.T) {
	t.Parallel()

	page := crossbind.RedocHTML("/openapi.json")
	assert.Contains(t, page, "redoc")
	assert.Contains(t, page, "/openapi.json")
}
