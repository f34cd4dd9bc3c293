package crossbind

import (
	"reflect"
	"time"
)

// Serialize normalizes an endpoint result into a plain JSON-compatible value:
// structs become maps keyed by their JSON field names, slices serialize
// element-wise, string-keyed maps value-wise, and everything else is returned
// unchanged. It is total — it never fails — and idempotent: serializing an
// already-serialized value yields an equal value.
func Serialize(v any) any {
	if v == nil {
		return nil
	}
	return serializeValue(reflect.ValueOf(v))
}

func serializeValue(rv reflect.Value) any {
	//exhaustive:ignore
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return serializeValue(rv.Elem())

	case reflect.Struct:
		if rv.Type() == reflect.TypeFor[time.Time]() {
			return rv.Interface()
		}
		t := rv.Type()
		out := make(map[string]any, t.NumField())
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := jsonFieldName(f)
			if name == "-" {
				continue
			}
			out[name] = serializeValue(rv.Field(i))
		}
		return out

	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = serializeValue(rv.Index(i))
		}
		return out

	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = serializeValue(rv.Index(i))
		}
		return out

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rv.Interface()
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = serializeValue(iter.Value())
		}
		return out

	default:
		return rv.Interface()
	}
}
