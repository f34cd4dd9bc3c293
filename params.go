package crossbind

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Void is used as a type parameter when a request has no parameters and no
// body, or a response has no body (defaults to 204 No Content).
type Void struct{}

// paramKind classifies how a declared parameter resolves at request time.
// The same classification picks the parameter's place in the OpenAPI
// document, so runtime behavior and documentation cannot drift apart.
type paramKind int

const (
	kindScalar      paramKind = iota // coerced from a path or query value
	kindStruct                       // constructed from the body (or, on GET, query values)
	kindAny                          // untyped passthrough: raw string, no conversion
	kindUnsupported                  // no resolution strategy exists
)

// param is one entry of an endpoint signature.
type param struct {
	name       string
	index      int // field index in the request struct
	typ        reflect.Type
	kind       paramKind
	hasDefault bool
	defaultVal any
}

// signature is the ordered parameter list derived from a request struct type.
// It is the single source of truth for both resolution and schema generation.
type signature struct {
	typ    reflect.Type
	params []param
}

var signatures sync.Map // reflect.Type → *signature

// signatureOf returns the cached signature for a request type, deriving it on
// first use. The cache is append-only and write-once per key; concurrent
// first derivations produce equal values, so no mutual exclusion is needed
// beyond the map itself.
func signatureOf(t reflect.Type) *signature {
	if s, ok := signatures.Load(t); ok {
		return s.(*signature)
	}
	s, _ := signatures.LoadOrStore(t, newSignature(t))
	return s.(*signature)
}

// newSignature derives the signature for a request struct type. It panics on
// authoring defects (non-struct request type, unusable default tag): those
// are registration-time bugs, not request-time conditions.
func newSignature(t reflect.Type) *signature {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	sig := &signature{typ: t}
	if t == reflect.TypeFor[Void]() {
		return sig
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("crossbind: request type %s is not a struct", t))
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		p := param{
			name:  paramName(f),
			index: i,
			typ:   f.Type,
			kind:  classifyParam(f.Type),
		}

		if p.kind == kindUnsupported {
			panic(fmt.Sprintf("crossbind: %s.%s: type %s cannot be resolved from path or query values", t.Name(), f.Name, f.Type))
		}
		if p.kind == kindStruct {
			checkStructDefaults(t, f)
		}

		if def, ok := f.Tag.Lookup("default"); ok {
			p.hasDefault = true
			switch p.kind {
			case kindAny:
				p.defaultVal = def
			case kindScalar:
				v, err := coerceValue(def, f.Type)
				if err != nil {
					panic(fmt.Sprintf("crossbind: %s.%s has unusable default %q: %v", t.Name(), f.Name, def, err))
				}
				p.defaultVal = v
			case kindStruct:
				panic(fmt.Sprintf("crossbind: %s.%s: structured parameters cannot declare a default tag", t.Name(), f.Name))
			}
		}

		sig.params = append(sig.params, p)
	}
	return sig
}

// classifyParam maps a field type to its resolution strategy. time.Time and
// time.Duration are scalars despite being structs/named types under the hood.
// Slices of scalars are scalars too: they resolve from one comma-separated
// value, and the builder documents them as array parameters.
func classifyParam(t reflect.Type) paramKind {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case reflect.TypeFor[time.Time](), reflect.TypeFor[time.Duration]():
		return kindScalar
	}
	//exhaustive:ignore
	switch t.Kind() {
	case reflect.Interface:
		return kindAny
	case reflect.Struct:
		return kindStruct
	case reflect.Slice:
		elem := t.Elem()
		if elem.Kind() == reflect.Uint8 {
			return kindScalar
		}
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Slice && classifyParam(elem) == kindScalar {
			return kindScalar
		}
		return kindUnsupported
	case reflect.Map, reflect.Array, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return kindUnsupported
	default:
		return kindScalar
	}
}

// checkStructDefaults verifies that the default tags on a structured
// parameter's scalar fields parse, so a malformed default surfaces at
// registration the same way a top-level scalar's does, not per request.
func checkStructDefaults(owner reflect.Type, f reflect.StructField) {
	st := f.Type
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	for i := range st.NumField() {
		sf := st.Field(i)
		if !sf.IsExported() || classifyParam(sf.Type) != kindScalar {
			continue
		}
		def, ok := sf.Tag.Lookup("default")
		if !ok {
			continue
		}
		if _, err := coerceValue(def, sf.Type); err != nil {
			panic(fmt.Sprintf("crossbind: %s.%s: field %s has unusable default %q: %v", owner.Name(), f.Name, sf.Name, def, err))
		}
	}
}

// paramName returns the wire name for a request struct field: the param tag,
// then the json tag, then the snake_cased field name.
func paramName(f reflect.StructField) string {
	if tag := f.Tag.Get("param"); tag != "" {
		return tag
	}
	if tag := f.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(f.Name)
}

// snakeCase converts a CamelCase field name to its snake_case wire form,
// keeping acronym runs together (ItemID → item_id).
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
