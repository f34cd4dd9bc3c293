package crossbind

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// JSONSchema represents a JSON Schema object (the subset OpenAPI 3.0 uses).
type JSONSchema struct {
	Type        string                `json:"type,omitempty"`
	Format      string                `json:"format,omitempty"`
	Properties  map[string]JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema           `json:"items,omitempty"`
	Required    []string              `json:"required,omitempty"`
	Description string                `json:"description,omitempty"`
	Enum        []string              `json:"enum,omitempty"`
	Ref         string                `json:"$ref,omitempty"`

	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinItems  *int     `json:"minItems,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty"`
	Default   any      `json:"default,omitempty"`

	// AdditionalProperties can be a schema for map value types.
	AdditionalProperties *JSONSchema `json:"additionalProperties,omitempty"`
}

// SchemaRegistry caches component schema fragments by type. It is append-only
// and write-once per key: once a type's fragment is stored it is never
// recomputed or evicted, so concurrent reads need no coordination and
// concurrent first-writes recompute equal values. Each Router owns a private
// registry unless one is shared via WithSchemaRegistry.
type SchemaRegistry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]JSONSchema
	names  map[string]reflect.Type
}

// NewSchemaRegistry creates an empty schema cache.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		byType: make(map[reflect.Type]JSONSchema),
		names:  make(map[string]reflect.Type),
	}
}

// fragment returns the component schema body for a named struct type,
// computing and caching it on first reference. The component name is the bare
// type name: a name already claimed by a different type is a collision and
// fails with *SchemaError rather than silently reusing the cached fragment.
func (sr *SchemaRegistry) fragment(t reflect.Type) (JSONSchema, error) {
	name := t.Name()

	sr.mu.RLock()
	frag, cached := sr.byType[t]
	claimed, nameTaken := sr.names[name]
	sr.mu.RUnlock()

	if cached {
		return frag, nil
	}
	if nameTaken && claimed != t {
		return JSONSchema{}, nameCollision(name, claimed, t)
	}

	frag, err := structBody(t, componentRefs{})
	if err != nil {
		return JSONSchema{}, err
	}

	sr.mu.Lock()
	defer sr.mu.Unlock()
	if existing, ok := sr.names[name]; ok && existing != t {
		return JSONSchema{}, nameCollision(name, existing, t)
	}
	sr.byType[t] = frag
	sr.names[name] = t
	return frag, nil
}

func nameCollision(name string, a, b reflect.Type) error {
	return &SchemaError{
		Detail: fmt.Sprintf("component name %q claimed by both %s and %s", name, a, b),
	}
}

// refResolver decides how a named struct type is rendered where it is
// referenced: always as a $ref, with registration handled by the caller.
type refResolver interface {
	refFor(t reflect.Type) (string, error)
}

// componentRefs renders bare references without registering the target;
// used while computing cached fragments, whose dependencies are pulled in
// separately so the fragment itself stays context-free.
type componentRefs struct{}

func (componentRefs) refFor(t reflect.Type) (string, error) {
	return "#/components/schemas/" + t.Name(), nil
}

// componentSet collects the named schemas referenced during one document
// build, backed by the registry cache. Nested named types are hoisted to the
// top-level component mapping and appear as $refs in the leaves.
type componentSet struct {
	registry *SchemaRegistry
	schemas  map[string]JSONSchema
	types    map[reflect.Type]bool
}

func newComponentSet(sr *SchemaRegistry) *componentSet {
	return &componentSet{
		registry: sr,
		schemas:  make(map[string]JSONSchema),
		types:    make(map[reflect.Type]bool),
	}
}

func (cs *componentSet) refFor(t reflect.Type) (string, error) {
	if err := cs.add(t); err != nil {
		return "", err
	}
	return "#/components/schemas/" + t.Name(), nil
}

func (cs *componentSet) add(t reflect.Type) error {
	if cs.types[t] {
		return nil
	}
	frag, err := cs.registry.fragment(t)
	if err != nil {
		return err
	}
	cs.types[t] = true
	cs.schemas[t.Name()] = frag

	// Hoist nested named types. The marker above makes cycles terminate.
	for _, dep := range namedStructDeps(t) {
		if err := cs.add(dep); err != nil {
			return err
		}
	}
	return nil
}

// namedStructDeps returns the named struct types reachable from t's fields
// through pointers, slices, arrays, and maps, one level of naming deep.
func namedStructDeps(t reflect.Type) []reflect.Type {
	var deps []reflect.Type
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		collectNamedStructs(f.Type, &deps)
	}
	return deps
}

func collectNamedStructs(t reflect.Type, deps *[]reflect.Type) {
	//exhaustive:ignore
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		collectNamedStructs(t.Elem(), deps)
	case reflect.Map:
		collectNamedStructs(t.Elem(), deps)
	case reflect.Struct:
		if isNamedStruct(t) {
			*deps = append(*deps, t)
			return
		}
		// Anonymous struct: its fields may still reference named types.
		for i := range t.NumField() {
			if t.Field(i).IsExported() {
				collectNamedStructs(t.Field(i).Type, deps)
			}
		}
	}
}

// isNamedStruct reports whether t is a struct type that gets its own
// component entry. Well-known scalar-like structs are excluded.
func isNamedStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t.Name() != "" &&
		t != reflect.TypeFor[time.Time]() &&
		t != reflect.TypeFor[Void]()
}

// schemaOf converts a Go type to a schema fragment. Named struct types are
// rendered as $refs via res; everything else is rendered inline.
func schemaOf(t reflect.Type, res refResolver) (JSONSchema, error) {
	if t.Kind() == reflect.Pointer {
		return schemaOf(t.Elem(), res)
	}

	switch t {
	case reflect.TypeFor[time.Time]():
		return JSONSchema{Type: "string", Format: "date-time"}, nil
	case reflect.TypeFor[time.Duration]():
		return JSONSchema{Type: "string", Format: "duration"}, nil
	case reflect.TypeFor[Void]():
		return JSONSchema{}, nil
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return JSONSchema{Type: "string"}, nil
	case reflect.Bool:
		return JSONSchema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return JSONSchema{Type: "number"}, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return JSONSchema{Type: "string", Format: "byte"}, nil
		}
		items, err := schemaOf(t.Elem(), res)
		if err != nil {
			return JSONSchema{}, err
		}
		return JSONSchema{Type: "array", Items: &items}, nil
	case reflect.Array:
		items, err := schemaOf(t.Elem(), res)
		if err != nil {
			return JSONSchema{}, err
		}
		return JSONSchema{Type: "array", Items: &items}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return JSONSchema{Type: "object"}, nil
		}
		vals, err := schemaOf(t.Elem(), res)
		if err != nil {
			return JSONSchema{}, err
		}
		return JSONSchema{Type: "object", AdditionalProperties: &vals}, nil
	case reflect.Struct:
		if isNamedStruct(t) {
			ref, err := res.refFor(t)
			if err != nil {
				return JSONSchema{}, err
			}
			return JSONSchema{Ref: ref}, nil
		}
		return structBody(t, res)
	case reflect.Interface:
		return JSONSchema{}, nil
	default:
		return JSONSchema{}, &SchemaError{Detail: fmt.Sprintf("unsupported type %s", t)}
	}
}

// structBody renders a struct type as an inline object schema, applying doc,
// required, default, and constraint tags per field. The constraint tags are
// the same ones checked at resolution time, so documented limits always match
// enforced limits.
func structBody(t reflect.Type, res refResolver) (JSONSchema, error) {
	schema := JSONSchema{
		Type:       "object",
		Properties: make(map[string]JSONSchema),
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		prop, err := schemaOf(f.Type, res)
		if err != nil {
			return JSONSchema{}, err
		}

		// Keywords do not apply to a $ref node in 3.0; skip decoration there.
		if prop.Ref == "" {
			decorateSchema(&prop, f)
		}

		schema.Properties[name] = prop

		if f.Tag.Get("required") == "true" {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema, nil
}

// decorateSchema applies doc, default, and constraint tags to a property.
func decorateSchema(prop *JSONSchema, f reflect.StructField) {
	if doc := f.Tag.Get("doc"); doc != "" {
		prop.Description = doc
	}
	if def, ok := f.Tag.Lookup("default"); ok {
		prop.Default = defaultForSchema(def, f.Type)
	}
	if tag := f.Tag.Get("enum"); tag != "" {
		prop.Enum = strings.Split(tag, ",")
	}
	if tag := f.Tag.Get("pattern"); tag != "" {
		prop.Pattern = tag
	}
	if v, ok := floatTag(f, "minimum"); ok {
		prop.Minimum = &v
	}
	if v, ok := floatTag(f, "maximum"); ok {
		prop.Maximum = &v
	}
	if v, ok := intTag(f, "minLength"); ok {
		prop.MinLength = &v
	}
	if v, ok := intTag(f, "maxLength"); ok {
		prop.MaxLength = &v
	}
	if v, ok := intTag(f, "minItems"); ok {
		prop.MinItems = &v
	}
	if v, ok := intTag(f, "maxItems"); ok {
		prop.MaxItems = &v
	}
}

// defaultForSchema renders a default tag as a typed JSON value when possible,
// falling back to the raw string.
func defaultForSchema(raw string, t reflect.Type) any {
	v, err := coerceValue(raw, t)
	if err != nil {
		return raw
	}
	return schemaDefault(v)
}

// schemaDefault renders a parsed default in its wire form. Durations use their
// string notation, matching the string/duration schema they are documented
// with; everything else is the typed value.
func schemaDefault(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	return v
}

func floatTag(f reflect.StructField, name string) (float64, bool) {
	tag := f.Tag.Get(name)
	if tag == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tag, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intTag(f reflect.StructField, name string) (int, bool) {
	tag := f.Tag.Get(name)
	if tag == "" {
		return 0, false
	}
	v, err := strconv.Atoi(tag)
	if err != nil {
		return 0, false
	}
	return v, true
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
