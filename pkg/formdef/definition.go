package formdef

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

// Field types understood by Build.
const (
	TypeChar    = "char"
	TypeEmail   = "email"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeChoice  = "choice"
)

// Definition describes a form.
type Definition struct {
	Prefix string            `mapstructure:"prefix"`
	AutoID *string           `mapstructure:"auto_id"`
	Fields []FieldDefinition `mapstructure:"fields"`
}

// FieldDefinition describes one field. Type defaults to "char".
type FieldDefinition struct {
	Name      string         `mapstructure:"name"`
	Type      string         `mapstructure:"type"`
	Label     string         `mapstructure:"label"`
	Required  bool           `mapstructure:"required"`
	HelpText  string         `mapstructure:"help_text"`
	Initial   any            `mapstructure:"initial"`
	Widget    string         `mapstructure:"widget"`
	Attrs     forms.Attrs    `mapstructure:"attrs"`
	MinLength int            `mapstructure:"min_length"`
	MaxLength int            `mapstructure:"max_length"`
	Min       *int           `mapstructure:"min"`
	Max       *int           `mapstructure:"max"`
	Choices   []forms.Choice `mapstructure:"choices"`
}

// Load reads a definition from a YAML file.
func Load(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("formdef: open %s: %w", path, err)
	}
	defer f.Close()

	def, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("formdef: %s: %w", path, err)
	}
	return def, nil
}

// Decode reads a YAML definition. Scalars are weakly typed, so "3" and 3 are
// both accepted for numeric settings, and a choice may be written as a bare
// string used for both value and label.
func Decode(r io.Reader) (*Definition, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("formdef: empty definition")
		}
		return nil, fmt.Errorf("formdef: parse yaml: %w", err)
	}

	def := &Definition{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       choiceHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           def,
	})
	if err != nil {
		return nil, fmt.Errorf("formdef: build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("formdef: decode: %w", err)
	}
	return def, nil
}

func choiceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(forms.Choice{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return forms.Choice{Value: v, Label: v}, nil
	case map[string]any:
		out := forms.Choice{}
		if value, ok := v["value"]; ok {
			out.Value = fmt.Sprint(value)
		}
		out.Label = out.Value
		if label, ok := v["label"]; ok {
			out.Label = fmt.Sprint(label)
		}
		return out, nil
	}
	if from.Kind() == reflect.Int || from.Kind() == reflect.Float64 || from.Kind() == reflect.Bool {
		s := fmt.Sprint(data)
		return forms.Choice{Value: s, Label: s}, nil
	}
	return data, nil
}

// Build constructs a form from the definition. Named widgets come from a
// default registry and are seeded with the field's attrs; options apply
// after the definition's own prefix and auto_id.
func (d *Definition) Build(options ...forms.Option) (*forms.Form, error) {
	if d == nil {
		return nil, fmt.Errorf("formdef: definition is nil")
	}

	opts := make([]forms.Option, 0, len(options)+2)
	if d.Prefix != "" {
		opts = append(opts, forms.WithPrefix(d.Prefix))
	}
	if d.AutoID != nil {
		opts = append(opts, forms.WithAutoID(*d.AutoID))
	}
	opts = append(opts, options...)

	registry := forms.NewRegistry()
	opts = append([]forms.Option{forms.WithRegistry(registry)}, opts...)
	form := forms.New(opts...)

	for i, fd := range d.Fields {
		field, err := fd.field()
		if err != nil {
			return nil, fmt.Errorf("formdef: fields[%d]: %w", i, err)
		}
		if fd.Widget != "" || len(fd.Attrs) > 0 {
			widget, err := registry.Build(fd.Widget, field, fd.Attrs)
			if err != nil {
				return nil, fmt.Errorf("formdef: field %q: %w", fd.Name, err)
			}
			field.Base().Widget = widget
		}
		if err := form.Add(fd.Name, field); err != nil {
			return nil, fmt.Errorf("formdef: %w", err)
		}
	}
	return form, nil
}

func (fd FieldDefinition) field() (forms.Field, error) {
	options := forms.Options{
		Label:    fd.Label,
		Required: fd.Required,
		HelpText: fd.HelpText,
		Initial:  fd.Initial,
	}

	switch strings.ToLower(strings.TrimSpace(fd.Type)) {
	case "", TypeChar, "string", "text":
		return &forms.CharField{Options: options, MinLength: fd.MinLength, MaxLength: fd.MaxLength}, nil
	case TypeEmail:
		return &forms.EmailField{Options: options}, nil
	case TypeInteger, "int", "number":
		return &forms.IntegerField{Options: options, Min: fd.Min, Max: fd.Max}, nil
	case TypeBoolean, "bool":
		return &forms.BooleanField{Options: options}, nil
	case TypeChoice, "select":
		if len(fd.Choices) == 0 {
			return nil, fmt.Errorf("choice field %q has no choices", fd.Name)
		}
		return &forms.ChoiceField{Options: options, Choices: fd.Choices}, nil
	default:
		return nil, fmt.Errorf("field %q has unknown type %q", fd.Name, fd.Type)
	}
}
