package crossbind

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// RequestData is the framework-neutral view of one HTTP request. Every shim
// reduces its native request object to this shape before calling the core.
type RequestData struct {
	// Params holds path and query scalar values flattened into one map.
	// Path values win over query values of the same name.
	Params map[string]string

	// Body is the parsed JSON request body; nil or empty when there is none.
	Body map[string]any
}

// Resolve builds a request value of type Req from framework-neutral request
// data. Parameters are processed in declaration order and the first failure
// is reported, so error ordering is deterministic. The result is a pure
// function of the signature and the two inputs.
func Resolve[Req any](data RequestData) (*Req, error) {
	req := new(Req)
	sig := signatureOf(reflect.TypeFor[Req]())
	if err := sig.resolve(reflect.ValueOf(req).Elem(), data); err != nil {
		return nil, err
	}
	return req, nil
}

// resolve populates v, an addressable struct value, from data. Precedence per
// parameter: structured types construct from the body (or, when the body is
// empty, from the flattened scalar values), scalars coerce from Params,
// declared defaults fill the gaps, and anything left is a missing parameter.
func (s *signature) resolve(v reflect.Value, data RequestData) error {
	for i := range s.params {
		p := &s.params[i]
		field := v.Field(p.index)

		if p.kind == kindStruct {
			if err := constructStruct(field, p, data); err != nil {
				return err
			}
			continue
		}

		raw, ok := data.Params[p.name]
		if !ok {
			if p.hasDefault {
				field.Set(reflect.ValueOf(p.defaultVal))
				continue
			}
			return &ResolveError{Kind: KindMissingParameter, Param: p.name}
		}

		if p.kind == kindAny {
			field.Set(reflect.ValueOf(raw))
			continue
		}

		val, err := coerceValue(raw, field.Type())
		if err != nil {
			return &ResolveError{Kind: KindCast, Param: p.name, Type: typeName(field.Type()), err: err}
		}
		field.Set(reflect.ValueOf(val))
	}
	return nil
}

// constructStruct builds a structured parameter from the body when one is
// present, and from the scalar values otherwise. The scalar path is what lets
// GET endpoints declare a structured "filter" whose fields arrive as query
// parameters. Constraint tags are checked on the constructed value.
func constructStruct(field reflect.Value, p *param, data RequestData) error {
	t := field.Type()
	target := field
	if t.Kind() == reflect.Pointer {
		target = reflect.New(t.Elem()).Elem()
	}

	var err error
	if len(data.Body) > 0 {
		err = fromBody(target, data.Body)
	} else {
		err = fromParams(target, data.Params)
	}
	if err == nil {
		err = checkConstraints(target)
	}
	if err != nil {
		return &ResolveError{Kind: KindValidation, Param: p.name, err: err}
	}

	if t.Kind() == reflect.Pointer {
		field.Set(target.Addr())
	}
	return nil
}

// fromBody constructs a struct from a parsed JSON body. Required fields are
// checked for presence first, in declaration order, then the body is decoded;
// a wrong-typed field surfaces as the decoder's type error.
func fromBody(v reflect.Value, body map[string]any) error {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("required") != "true" {
			continue
		}
		name := jsonFieldName(f)
		if _, ok := body[name]; !ok {
			return fmt.Errorf("missing required field %q", name)
		}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v.Addr().Interface())
}

// fromParams constructs a struct from flattened scalar values, coercing each
// scalar field by name. Non-scalar fields are skipped: a structured type
// bound from query values is flat by definition.
func fromParams(v reflect.Value, params map[string]string) error {
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || classifyParam(f.Type) != kindScalar {
			continue
		}

		name := jsonFieldName(f)
		raw, ok := params[name]
		if !ok {
			raw, ok = f.Tag.Lookup("default")
		}
		if !ok {
			if f.Tag.Get("required") == "true" {
				return fmt.Errorf("missing required field %q", name)
			}
			continue
		}

		val, err := coerceValue(raw, f.Type)
		if err != nil {
			return fmt.Errorf("field %q is not a valid %s: %w", name, typeName(f.Type), err)
		}
		v.Field(i).Set(reflect.ValueOf(val))
	}
	return nil
}
