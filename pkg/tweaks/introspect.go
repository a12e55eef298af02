package tweaks

import (
	"reflect"
	"strings"
)

// FieldType returns the lower-cased type name of the field definition behind
// a bound field ("charfield", "emailfield", ...), or "" for other values.
func FieldType(field any) string {
	bound, ok := asBound(field)
	if !ok || bound.Field() == nil {
		return ""
	}
	return typeName(bound.Field())
}

// WidgetType returns the lower-cased type name of a bound field's widget
// ("textinput", "select", ...), or "" for other values.
func WidgetType(field any) string {
	bound, ok := asBound(field)
	if !ok || bound.Widget() == nil {
		return ""
	}
	return typeName(bound.Widget())
}

func typeName(value any) string {
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
