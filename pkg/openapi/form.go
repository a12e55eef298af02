package openapi

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

// ExtensionKey is the schema extension carrying per-property widget
// settings:
//
//	x-widgettweaks:
//	  widget: textarea
//	  order: 2
//	  attrs: {rows: 4}
const ExtensionKey = "x-widgettweaks"

type extension struct {
	Widget string      `mapstructure:"widget"`
	Order  *int        `mapstructure:"order"`
	Attrs  forms.Attrs `mapstructure:"attrs"`
}

// ComponentForm builds a form from a schema component.
func (d *Document) ComponentForm(name string, options ...forms.Option) (*forms.Form, error) {
	schema, err := d.component(name)
	if err != nil {
		return nil, err
	}
	return buildForm(schema, options...)
}

// OperationForm builds a form from an operation's request body. Form
// encodings are preferred over JSON when both are declared.
func (d *Document) OperationForm(operationID string, options ...forms.Option) (*forms.Form, error) {
	schema, err := d.operation(operationID)
	if err != nil {
		return nil, err
	}
	return buildForm(schema, options...)
}

type property struct {
	name   string
	schema *openapi3.Schema
	ext    extension
}

// buildForm adds one field per scalar property. Properties are ordered by
// their x-widgettweaks order, then by name; arrays and objects are skipped.
func buildForm(schema *openapi3.Schema, options ...forms.Option) (*forms.Form, error) {
	if schema == nil {
		return nil, fmt.Errorf("openapi: schema is nil")
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	props := make([]property, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		ext, err := decodeExtension(ref.Value.Extensions)
		if err != nil {
			return nil, fmt.Errorf("openapi: property %q: %w", name, err)
		}
		props = append(props, property{name: name, schema: ref.Value, ext: ext})
	}
	sort.SliceStable(props, func(i, j int) bool {
		oi, oj := orderOf(props[i]), orderOf(props[j])
		if oi != oj {
			return oi < oj
		}
		return props[i].name < props[j].name
	})

	registry := forms.NewRegistry()
	form := forms.New(append([]forms.Option{forms.WithRegistry(registry)}, options...)...)
	for _, prop := range props {
		field, ok := fieldFor(prop.schema, required[prop.name])
		if !ok {
			continue
		}
		if prop.ext.Widget != "" || len(prop.ext.Attrs) > 0 {
			widget, err := registry.Build(prop.ext.Widget, field, prop.ext.Attrs)
			if err != nil {
				return nil, fmt.Errorf("openapi: property %q: %w", prop.name, err)
			}
			field.Base().Widget = widget
		}
		if err := form.Add(prop.name, field); err != nil {
			return nil, fmt.Errorf("openapi: %w", err)
		}
	}
	return form, nil
}

func fieldFor(schema *openapi3.Schema, required bool) (forms.Field, bool) {
	options := forms.Options{
		Label:    schema.Title,
		Required: required,
		HelpText: schema.Description,
		Initial:  schema.Default,
	}

	if len(schema.Enum) > 0 {
		choices := make([]forms.Choice, 0, len(schema.Enum))
		for _, value := range schema.Enum {
			s := fmt.Sprint(value)
			choices = append(choices, forms.Choice{Value: s, Label: s})
		}
		return &forms.ChoiceField{Options: options, Choices: choices}, true
	}

	switch schemaType(schema.Type) {
	case openapi3.TypeString:
		switch strings.ToLower(schema.Format) {
		case "email":
			return &forms.EmailField{Options: options}, true
		case "password":
			options.WidgetHint = forms.WidgetPassword
		}
		field := &forms.CharField{Options: options, MinLength: int(schema.MinLength)}
		if schema.MaxLength != nil {
			field.MaxLength = int(*schema.MaxLength)
		}
		return field, true
	case openapi3.TypeInteger:
		field := &forms.IntegerField{Options: options}
		if schema.Min != nil {
			lo := int(*schema.Min)
			field.Min = &lo
		}
		if schema.Max != nil {
			hi := int(*schema.Max)
			field.Max = &hi
		}
		return field, true
	case openapi3.TypeNumber:
		options.WidgetHint = forms.WidgetNumber
		return &forms.CharField{Options: options}, true
	case openapi3.TypeBoolean:
		return &forms.BooleanField{Options: options}, true
	}
	return nil, false
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != openapi3.TypeNull {
			return value
		}
	}
	return ""
}

func decodeExtension(extensions map[string]any) (extension, error) {
	var ext extension
	raw, ok := extensions[ExtensionKey]
	if !ok || raw == nil {
		return ext, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &ext,
	})
	if err != nil {
		return ext, err
	}
	if err := decoder.Decode(raw); err != nil {
		return ext, fmt.Errorf("decode %s: %w", ExtensionKey, err)
	}
	return ext, nil
}

func orderOf(p property) int {
	if p.ext.Order != nil {
		return *p.ext.Order
	}
	return math.MaxInt
}
