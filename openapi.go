package crossbind

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Document is the top-level OpenAPI 3.0 document.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Paths      map[string]PathItem `json:"paths"`
	Components *Components         `json:"components,omitempty"`
}

// Info holds API metadata.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Components holds the shared, deduplicated schema fragments referenced by
// $ref across operations.
type Components struct {
	Schemas map[string]JSONSchema `json:"schemas,omitempty"`
}

// PathItem maps HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string       `json:"summary,omitempty"`
	Description string       `json:"description,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	OperationID string       `json:"operationId,omitempty"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"`
	Responses   Responses    `json:"responses"`
	Deprecated  bool         `json:"deprecated,omitempty"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string     `json:"name"`
	In          string     `json:"in"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Schema      JSONSchema `json:"schema"`
}

// RequestBody describes the request body.
type RequestBody struct {
	Required bool                `json:"required"`
	Content  map[string]MediaObj `json:"content"`
}

// MediaObj is a media type object with an optional schema.
type MediaObj struct {
	Schema *JSONSchema `json:"schema,omitempty"`
}

// Responses maps HTTP status codes to response objects.
type Responses map[string]Response

// Response describes a single response.
type Response struct {
	Description string              `json:"description"`
	Content     map[string]MediaObj `json:"content,omitempty"`
}

// buildSpec assembles the document by statically walking the registered
// routes in registration order. It is a pure function of the routes at call
// time; Router.Spec caches its result.
func (r *Router) buildSpec() (*Document, error) {
	doc := &Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       r.title,
			Version:     r.version,
			Description: r.desc,
		},
		Paths: make(map[string]PathItem),
	}
	if doc.Info.Title == "" {
		doc.Info.Title = "API"
	}
	if doc.Info.Version == "" {
		doc.Info.Version = "0.0.0"
	}

	cs := newComponentSet(r.schemas)

	r.mu.Lock()
	routes := slices.Clone(r.routes)
	r.mu.Unlock()

	for i := range routes {
		ri := &routes[i]

		op, err := buildOperation(ri, cs)
		if err != nil {
			var se *SchemaError
			if errors.As(err, &se) && se.Route == "" {
				se.Route = ri.method + " " + ri.path
			}
			return nil, err
		}

		method := strings.ToLower(ri.method)
		if doc.Paths[ri.path] == nil {
			doc.Paths[ri.path] = make(PathItem)
		}
		doc.Paths[ri.path][method] = op
	}

	if len(cs.schemas) > 0 {
		doc.Components = &Components{Schemas: cs.schemas}
	}

	return doc, nil
}

// buildOperation derives one operation from a route: the same signature that
// resolves requests at runtime decides parameter locations, the request body,
// and the response schema here.
func buildOperation(ri *routeInfo, cs *componentSet) (Operation, error) {
	op := Operation{
		Summary:     ri.summary,
		Description: ri.desc,
		Tags:        ri.tags,
		OperationID: ri.operationID,
		Deprecated:  ri.deprecated,
		Responses:   make(Responses),
	}

	placeholders := pathPlaceholders(ri.path)

	for i := range ri.sig.params {
		p := &ri.sig.params[i]

		switch p.kind {
		case kindStruct:
			if ri.method == http.MethodGet {
				expanded, err := expandQueryParams(p.typ, cs)
				if err != nil {
					return Operation{}, err
				}
				op.Parameters = append(op.Parameters, expanded...)
				continue
			}
			body, err := requestBodySchema(p.typ, cs)
			if err != nil {
				return Operation{}, err
			}
			op.RequestBody = body

		case kindScalar, kindAny:
			schema := JSONSchema{Type: "string"}
			if p.kind == kindScalar {
				var err error
				schema, err = schemaOf(p.typ, cs)
				if err != nil {
					return Operation{}, err
				}
			}
			if p.hasDefault {
				schema.Default = schemaDefault(p.defaultVal)
			}

			in := "query"
			if slices.Contains(placeholders, p.name) {
				in = "path"
			}

			op.Parameters = append(op.Parameters, Parameter{
				Name:     p.name,
				In:       in,
				Required: in == "path" || !p.hasDefault,
				Schema:   schema,
			})
		}
	}

	resp := Response{Description: statusText(ri.status)}
	schema, err := responseSchema(ri.respType, cs)
	if err != nil {
		return Operation{}, err
	}
	if schema != nil {
		resp.Content = map[string]MediaObj{
			"application/json": {Schema: schema},
		}
	}
	op.Responses[strconv.Itoa(ri.status)] = resp

	return op, nil
}

// expandQueryParams flattens a structured type's scalar fields into one query
// parameter each, mirroring how GET resolution reads the type from query
// values. Field-level required-ness carries over.
func expandQueryParams(t reflect.Type, cs *componentSet) ([]Parameter, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var params []Parameter
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || classifyParam(f.Type) != kindScalar {
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		schema, err := schemaOf(f.Type, cs)
		if err != nil {
			return nil, err
		}
		decorateSchema(&schema, f)

		p := Parameter{
			Name:     name,
			In:       "query",
			Required: f.Tag.Get("required") == "true",
			Schema:   schema,
		}
		if doc := f.Tag.Get("doc"); doc != "" {
			p.Description = doc
			p.Schema.Description = ""
		}

		params = append(params, p)
	}
	return params, nil
}

// requestBodySchema renders a structured parameter as the operation's request
// body: named types become component references, anonymous structs inline.
func requestBodySchema(t reflect.Type, cs *componentSet) (*RequestBody, error) {
	schema, err := schemaOf(t, cs)
	if err != nil {
		return nil, err
	}
	return &RequestBody{
		Required: true,
		Content: map[string]MediaObj{
			"application/json": {Schema: &schema},
		},
	}, nil
}

// responseSchema maps a response type to its schema: Void means no content, a
// structured type references its component, a list of structured types is an
// array of references. Any other shape is an authoring error reported loudly
// at build time instead of a silently undocumented response.
func responseSchema(t reflect.Type, cs *componentSet) (*JSONSchema, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == reflect.TypeFor[Void]() {
		return nil, nil
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.Struct:
		if !structuredType(t) {
			break
		}
		schema, err := schemaOf(t, cs)
		if err != nil {
			return nil, err
		}
		return &schema, nil
	case reflect.Slice:
		elem := t.Elem()
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if !structuredType(elem) {
			break
		}
		items, err := schemaOf(elem, cs)
		if err != nil {
			return nil, err
		}
		return &JSONSchema{Type: "array", Items: &items}, nil
	}

	return nil, &SchemaError{Detail: fmt.Sprintf("unsupported response type %s: declare a structured type, a list of structured types, or Void", t)}
}

// structuredType reports whether t is a struct usable as a response model:
// any struct except the scalar-like well-known ones.
func structuredType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t != reflect.TypeFor[time.Time]() &&
		t != reflect.TypeFor[Void]()
}

// statusText is http.StatusText with a fallback for nonstandard codes, since
// a response description must always be present.
func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Response"
}
