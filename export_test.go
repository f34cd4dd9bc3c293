package crossbind

import "reflect"

// Test-only exports for internal functions.
var (
	SnakeCase        = snakeCase
	CoerceValue      = coerceValue
	JSONFieldName    = jsonFieldName
	CheckConstraints = checkConstraints
	JoinPath         = joinPath
	PathPlaceholders = pathPlaceholders
)

// TypeSchema renders a type as a context-free schema fragment, with named
// struct types rendered as bare component references.
func TypeSchema(t reflect.Type) (JSONSchema, error) {
	return schemaOf(t, componentRefs{})
}
