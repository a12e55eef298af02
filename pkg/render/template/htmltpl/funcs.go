package htmltpl

import (
	"html/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/goliatone/go-widgettweaks/pkg/tweaks"
)

// Funcs holds the widget helpers. Parameters come first so the helpers chain
// in pipelines; the last argument is the piped field.
var Funcs = template.FuncMap{
	"attr":            attr,
	"append_attr":     appendAttr,
	"add_class":       addClass,
	"add_error_class": addErrorClass,
	"set_data":        setData,
	"field_type":      tweaks.FieldType,
	"widget_type":     tweaks.WidgetType,
	"widget":          tweaks.Render,
	tweaks.TagName:    renderField,
}

// FuncMap returns slim-sprig's generic functions with Funcs layered on top.
func FuncMap() template.FuncMap {
	funcs := template.FuncMap(sprig.GenericFuncMap())
	for name, fn := range Funcs {
		funcs[name] = fn
	}
	return funcs
}

func attr(param string, field any) any          { return tweaks.Attr(field, param) }
func appendAttr(param string, field any) any    { return tweaks.AppendAttr(field, param) }
func addClass(class string, field any) any      { return tweaks.AddClass(field, class) }
func addErrorClass(class string, field any) any { return tweaks.AddErrorClass(field, class) }
func setData(param string, field any) any       { return tweaks.SetData(field, param) }

// renderField applies attr=value and attr+=value pairs to field and renders
// it. Each pair is one string the template has already evaluated, so the
// value is always literal: "placeholder=name" renders placeholder="name" and
// never looks name up. Build dynamic values in the template instead, as in
// (printf "placeholder=%s" .name).
func renderField(field any, pairs ...string) (template.HTML, error) {
	directives := make([]tweaks.Directive, 0, len(pairs))
	for _, raw := range pairs {
		pair, err := tweaks.ParsePair(raw)
		if err != nil {
			return "", err
		}
		directives = append(directives, tweaks.Directive{Name: pair.Attr, Op: pair.Op, Value: pair.Value.Raw})
	}
	return tweaks.Render(tweaks.Apply(field, directives...))
}
