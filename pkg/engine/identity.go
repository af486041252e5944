// Row identity resolution.
package engine

import (
	"fmt"
	"reflect"
	"strings"
)

// IdentityFunc resolves the stable identity of a row for selection and bulk
// actions. Identities must stay valid across re-sorts and re-filters; there
// is deliberately no fallback to the row's position, which changes whenever
// the sort or filter does.
type IdentityFunc[T any] func(row T) (string, error)

// identityFromPath builds an IdentityFunc that walks a dotted path through
// map keys and struct fields (matched case-insensitively). The resolved
// value is stringified; an empty result is an unresolved identity.
func identityFromPath[T any](path string) IdentityFunc[T] {
	segments := strings.Split(path, ".")
	return func(row T) (string, error) {
		v, err := walkPath(reflect.ValueOf(row), segments)
		if err != nil {
			return "", fmt.Errorf("%w: path %q: %v", ErrIdentityUnresolved, path, err)
		}
		id := stringify(v)
		if id == "" {
			return "", fmt.Errorf("%w: path %q resolved to empty value", ErrIdentityUnresolved, path)
		}
		return id, nil
	}
}

// walkPath follows one dotted-path segment at a time through maps, structs,
// pointers, and interfaces.
func walkPath(v reflect.Value, segments []string) (any, error) {
	for _, seg := range segments {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, fmt.Errorf("nil value at %q", seg)
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return nil, fmt.Errorf("map key type %s at %q", v.Type().Key(), seg)
			}
			entry := v.MapIndex(reflect.ValueOf(seg))
			if !entry.IsValid() {
				return nil, fmt.Errorf("missing key %q", seg)
			}
			v = entry
		case reflect.Struct:
			field := fieldByNameFold(v, seg)
			if !field.IsValid() {
				return nil, fmt.Errorf("missing field %q", seg)
			}
			v = field
		default:
			return nil, fmt.Errorf("cannot descend into %s at %q", v.Kind(), seg)
		}
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("unexported value")
	}
	return v.Interface(), nil
}

// fieldByNameFold finds an exported struct field by case-insensitive name.
func fieldByNameFold(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}
