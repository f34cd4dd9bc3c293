package crossbind

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// coerceValue converts a raw textual value into the target type. Raw values
// always originate from path segments or query strings, so the input is a
// string regardless of the declared type. The returned value's dynamic type
// is exactly t (or *t's element for pointers), so it can be set on a struct
// field directly.
func coerceValue(raw string, t reflect.Type) (any, error) {
	if t.Kind() == reflect.Pointer {
		inner, err := coerceValue(raw, t.Elem())
		if err != nil {
			return nil, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(reflect.ValueOf(inner))
		return p.Interface(), nil
	}

	if t.Kind() == reflect.Slice {
		return coerceSlice(raw, t)
	}

	switch t {
	case reflect.TypeFor[time.Duration]():
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		return d, nil
	case reflect.TypeFor[time.Time]():
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, err
		}
		return ts, nil
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return convert(reflect.ValueOf(raw), t), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		return convert(reflect.ValueOf(b), t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return convert(reflect.ValueOf(n), t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return convert(reflect.ValueOf(n), t), nil
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return nil, err
		}
		return convert(reflect.ValueOf(n), t), nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %s", t)
	}
}

// coerceSlice splits a comma-separated value and coerces each element, so a
// slice-typed parameter resolves from "a,b,c". []byte is the exception: the
// raw value passes through as bytes.
func coerceSlice(raw string, t reflect.Type) (any, error) {
	if t.Elem().Kind() == reflect.Uint8 {
		return convert(reflect.ValueOf([]byte(raw)), t), nil
	}
	if raw == "" {
		return reflect.MakeSlice(t, 0, 0).Interface(), nil
	}

	parts := strings.Split(raw, ",")
	out := reflect.MakeSlice(t, len(parts), len(parts))
	for i, part := range parts {
		elem, err := coerceValue(part, t.Elem())
		if err != nil {
			return nil, err
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

// convert adjusts a parsed value to named types (e.g. type UserID int64).
func convert(v reflect.Value, t reflect.Type) any {
	return v.Convert(t).Interface()
}

// typeName is the target type's name as reported in cast errors.
func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
