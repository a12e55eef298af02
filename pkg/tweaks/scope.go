package tweaks

import (
	"fmt"
	"reflect"
	"strings"
)

// Scope resolves dotted expressions ("form.email") at render time.
type Scope interface {
	Resolve(path string) (any, bool)
}

// Lookuper is implemented by values that resolve named children, such as
// *forms.Form.
type Lookuper interface {
	Lookup(name string) (any, bool)
}

// MapScope resolves the first path segment from the map and walks the rest
// through nested maps, Lookupers, exported struct fields and string-keyed
// maps.
type MapScope map[string]any

// Resolve implements Scope.
func (s MapScope) Resolve(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	current, ok := s[parts[0]]
	if !ok {
		return nil, false
	}
	for _, part := range parts[1:] {
		current, ok = lookupPart(current, part)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func lookupPart(value any, part string) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case map[string]any:
		out, ok := v[part]
		return out, ok
	case Lookuper:
		return v.Lookup(part)
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		item := rv.MapIndex(reflect.ValueOf(part).Convert(rv.Type().Key()))
		if !item.IsValid() {
			return nil, false
		}
		return item.Interface(), true
	case reflect.Struct:
		field := rv.FieldByName(part)
		if !field.IsValid() || !field.CanInterface() {
			return nil, false
		}
		return field.Interface(), true
	}
	return nil, false
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
