package tweaks

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"reflect"
	"sort"

	"github.com/a-h/templ"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

// Field decorates a bound field with attribute directives. It implements
// forms.BoundWidget and templ.Component, so it renders anywhere the wrapped
// field does.
type Field struct {
	base       forms.BoundWidget
	directives []Directive
}

var (
	_ forms.BoundWidget = (*Field)(nil)
	_ templ.Component   = (*Field)(nil)
)

// Wrap returns a decorator around field carrying the given directives. When
// field is already a *Field the directives are appended to a copy of its
// list.
func Wrap(field forms.BoundWidget, directives ...Directive) *Field {
	if existing, ok := field.(*Field); ok {
		combined := make([]Directive, 0, len(existing.directives)+len(directives))
		combined = append(combined, existing.directives...)
		combined = append(combined, directives...)
		return &Field{base: existing.base, directives: combined}
	}
	return &Field{base: field, directives: append([]Directive(nil), directives...)}
}

func (f *Field) Name() string         { return f.base.Name() }
func (f *Field) Field() forms.Field   { return f.base.Field() }
func (f *Field) Widget() forms.Widget { return f.base.Widget() }
func (f *Field) Errors() []string     { return f.base.Errors() }

// Unwrap returns the decorated bound field.
func (f *Field) Unwrap() forms.BoundWidget { return f.base }

// Directives returns the directives in application order.
func (f *Field) Directives() []Directive {
	return append([]Directive(nil), f.directives...)
}

// AsWidget stages the directives into a copy of attrs and forwards to the
// wrapped field. APPEND directives extend the static attributes of the widget
// actually rendered.
func (f *Field) AsWidget(widget forms.Widget, attrs forms.Attrs, onlyInitial bool) (template.HTML, error) {
	target := widget
	if target == nil {
		target = f.base.Widget()
	}
	staged := attrs.Clone()
	for _, d := range f.directives {
		d.stage(target, staged)
	}
	return f.base.AsWidget(widget, staged, onlyInitial)
}

// HTML renders the decorated field with its own widget.
func (f *Field) HTML() (template.HTML, error) {
	return f.AsWidget(nil, nil, false)
}

// String renders the decorated field, returning "" when the widget fails.
func (f *Field) String() string {
	out, err := f.HTML()
	if err != nil {
		return ""
	}
	return string(out)
}

// Render implements templ.Component.
func (f *Field) Render(_ context.Context, w io.Writer) error {
	return forms.Write(w, f)
}

// Attr sets an attribute from "name:value".
func Attr(field any, attr string) any {
	bound, ok := asBound(field)
	if !ok {
		return passthrough(field)
	}
	name, value := ParseAttr(attr)
	return Wrap(bound, Set(name, value))
}

// AppendAttr appends to an attribute from "name:value".
func AppendAttr(field any, attr string) any {
	bound, ok := asBound(field)
	if !ok {
		return passthrough(field)
	}
	name, value := ParseAttr(attr)
	return Wrap(bound, Append(name, value))
}

// AddClass appends a CSS class.
func AddClass(field any, class string) any {
	return AppendAttr(field, "class:"+class)
}

// AddErrorClass appends a CSS class only when the field has validation
// errors.
func AddErrorClass(field any, class string) any {
	bound, ok := asBound(field)
	if !ok {
		return passthrough(field)
	}
	if len(bound.Errors()) == 0 {
		return field
	}
	return AddClass(bound, class)
}

// SetData sets a data-* attribute from "name:value".
func SetData(field any, data string) any {
	return Attr(field, "data-"+data)
}

// Spread sets every attribute in attrs, in name order. Boolean true renders
// as an empty value and false skips the attribute; other values are
// formatted with fmt.
func Spread(field any, attrs templ.Attributes) any {
	bound, ok := asBound(field)
	if !ok {
		return passthrough(field)
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	directives := make([]Directive, 0, len(names))
	for _, name := range names {
		switch v := attrs[name].(type) {
		case bool:
			if v {
				directives = append(directives, Set(name, ""))
			}
		case string:
			directives = append(directives, Set(name, v))
		default:
			directives = append(directives, Set(name, fmt.Sprint(v)))
		}
	}
	return Wrap(bound, directives...)
}

// Apply stages directives on field with every OpSet directive ahead of every
// OpAppend one; relative order within each group is kept.
func Apply(field any, directives ...Directive) any {
	bound, ok := asBound(field)
	if !ok {
		return passthrough(field)
	}
	ordered := make([]Directive, 0, len(directives))
	for _, d := range directives {
		if d.Op == OpSet {
			ordered = append(ordered, d)
		}
	}
	for _, d := range directives {
		if d.Op != OpSet {
			ordered = append(ordered, d)
		}
	}
	return Wrap(bound, ordered...)
}

// Render renders a bound field or decorator. Empty inputs render as "" and
// other values are formatted with fmt.
func Render(field any) (template.HTML, error) {
	if bound, ok := asBound(field); ok {
		return bound.AsWidget(nil, nil, false)
	}
	if isEmpty(field) {
		return "", nil
	}
	return template.HTML(template.HTMLEscapeString(fmt.Sprint(field))), nil
}

func asBound(field any) (forms.BoundWidget, bool) {
	if isEmpty(field) {
		return nil, false
	}
	bound, ok := field.(forms.BoundWidget)
	return bound, ok
}

func passthrough(field any) any {
	if isEmpty(field) {
		return ""
	}
	return field
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	}
	return false
}
