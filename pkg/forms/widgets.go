package forms

import (
	"fmt"
	"html"
	"html/template"
	"strings"
)

// Widget renders a single form control. Attrs exposes the widget's static
// attributes; Render receives the per-render attributes that take precedence
// over them.
type Widget interface {
	Attrs() Attrs
	Render(name string, value any, attrs Attrs) (template.HTML, error)
}

// Choice is an option offered by a Select widget.
type Choice struct {
	Value string
	Label string
}

// TextInput renders <input type="text">.
type TextInput struct {
	Attributes Attrs
}

func (w *TextInput) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *TextInput) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *TextInput) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	return renderInput("text", name, value, w.Attributes, attrs), nil
}

// EmailInput renders <input type="email">.
type EmailInput struct {
	Attributes Attrs
}

func (w *EmailInput) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *EmailInput) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *EmailInput) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	return renderInput("email", name, value, w.Attributes, attrs), nil
}

// NumberInput renders <input type="number">.
type NumberInput struct {
	Attributes Attrs
}

func (w *NumberInput) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *NumberInput) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *NumberInput) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	return renderInput("number", name, value, w.Attributes, attrs), nil
}

// HiddenInput renders <input type="hidden">.
type HiddenInput struct {
	Attributes Attrs
}

func (w *HiddenInput) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *HiddenInput) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *HiddenInput) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	return renderInput("hidden", name, value, w.Attributes, attrs), nil
}

// PasswordInput renders <input type="password">. The bound value is only
// echoed back when RenderValue is set.
type PasswordInput struct {
	Attributes  Attrs
	RenderValue bool
}

func (w *PasswordInput) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *PasswordInput) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *PasswordInput) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	if !w.RenderValue {
		value = nil
	}
	return renderInput("password", name, value, w.Attributes, attrs), nil
}

// CheckboxInput renders <input type="checkbox">, checked when the value is
// truthy.
type CheckboxInput struct {
	Attributes Attrs
}

func (w *CheckboxInput) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *CheckboxInput) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *CheckboxInput) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	merged := w.Attributes.Merge(attrs)
	if _, ok := merged["type"]; !ok {
		merged["type"] = "checkbox"
	}
	merged["name"] = name
	if isChecked(value) {
		merged["checked"] = "checked"
	}
	return template.HTML("<input" + string(merged.HTML()) + ">"), nil
}

// Textarea renders a <textarea> element with the value as escaped content.
type Textarea struct {
	Attributes Attrs
}

func (w *Textarea) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *Textarea) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *Textarea) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	merged := w.Attributes.Merge(attrs)
	merged["name"] = name
	var builder strings.Builder
	builder.WriteString("<textarea")
	builder.WriteString(string(merged.HTML()))
	builder.WriteString(">")
	builder.WriteString(html.EscapeString(formatValue(value)))
	builder.WriteString("</textarea>")
	return template.HTML(builder.String()), nil
}

// Select renders a <select> with one <option> per choice.
type Select struct {
	Attributes Attrs
	Choices    []Choice
}

func (w *Select) Attrs() Attrs         { return w.Attributes.Clone() }
func (w *Select) SetAttrs(attrs Attrs) { w.Attributes = attrs.Clone() }

func (w *Select) Render(name string, value any, attrs Attrs) (template.HTML, error) {
	merged := w.Attributes.Merge(attrs)
	merged["name"] = name
	selected := formatValue(value)

	var builder strings.Builder
	builder.WriteString("<select")
	builder.WriteString(string(merged.HTML()))
	builder.WriteString(">")
	for _, choice := range w.Choices {
		builder.WriteString(`<option value="`)
		builder.WriteString(html.EscapeString(choice.Value))
		builder.WriteString(`"`)
		if choice.Value == selected {
			builder.WriteString(` selected`)
		}
		builder.WriteString(">")
		label := choice.Label
		if label == "" {
			label = choice.Value
		}
		builder.WriteString(html.EscapeString(label))
		builder.WriteString("</option>")
	}
	builder.WriteString("</select>")
	return template.HTML(builder.String()), nil
}

func renderInput(inputType, name string, value any, static, attrs Attrs) template.HTML {
	merged := static.Merge(attrs)
	if _, ok := merged["type"]; !ok {
		merged["type"] = inputType
	}
	merged["name"] = name
	if formatted := formatValue(value); formatted != "" {
		merged["value"] = formatted
	}
	return template.HTML("<input" + string(merged.HTML()) + ">")
}

func formatValue(value any) string {
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

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}
