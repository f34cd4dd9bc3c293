package crossbind

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Constraint tags use the JSON Schema keyword names (minimum, maximum,
// minLength, maxLength, pattern, enum, minItems, maxItems) so the same tag
// both validates the constructed value and appears in the generated schema.

var patterns sync.Map // pattern string → *regexp.Regexp

func compiledPattern(expr string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	actual, _ := patterns.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

// checkConstraints validates constraint tags on a constructed struct value,
// recursing into nested structs. The first violation in field order is
// returned, keeping resolution errors deterministic.
func checkConstraints(v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)

		if err := checkFieldConstraints(f, fv); err != nil {
			return err
		}

		if fv.Kind() == reflect.Struct || (fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct) {
			if err := checkConstraints(fv); err != nil {
				return fmt.Errorf("field %q: %w", jsonFieldName(f), err)
			}
		}
	}
	return nil
}

func checkFieldConstraints(f reflect.StructField, fv reflect.Value) error {
	name := jsonFieldName(f)

	if fv.Kind() == reflect.String {
		val := fv.String()
		if tag := f.Tag.Get("minLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) < n {
				return fmt.Errorf("field %q must be at least %d characters", name, n)
			}
		}
		if tag := f.Tag.Get("maxLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) > n {
				return fmt.Errorf("field %q must be at most %d characters", name, n)
			}
		}
		if tag := f.Tag.Get("pattern"); tag != "" {
			if re, err := compiledPattern(tag); err == nil && !re.MatchString(val) {
				return fmt.Errorf("field %q must match pattern %s", name, tag)
			}
		}
		if tag := f.Tag.Get("enum"); tag != "" {
			allowed := strings.Split(tag, ",")
			if !contains(allowed, val) {
				return fmt.Errorf("field %q must be one of [%s]", name, tag)
			}
		}
	}

	if isNumericKind(fv.Kind()) {
		val := toFloat64(fv)
		if tag := f.Tag.Get("minimum"); tag != "" {
			if lower, err := strconv.ParseFloat(tag, 64); err == nil && val < lower {
				return fmt.Errorf("field %q must be at least %s", name, tag)
			}
		}
		if tag := f.Tag.Get("maximum"); tag != "" {
			if upper, err := strconv.ParseFloat(tag, 64); err == nil && val > upper {
				return fmt.Errorf("field %q must be at most %s", name, tag)
			}
		}
	}

	if fv.Kind() == reflect.Slice {
		length := fv.Len()
		if tag := f.Tag.Get("minItems"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && length < n {
				return fmt.Errorf("field %q must have at least %d items", name, n)
			}
		}
		if tag := f.Tag.Get("maxItems"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && length > n {
				return fmt.Errorf("field %q must have at most %d items", name, n)
			}
		}
	}

	return nil
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

func isNumericKind(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func toFloat64(v reflect.Value) float64 {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default: // float32, float64
		return v.Float()
	}
}
