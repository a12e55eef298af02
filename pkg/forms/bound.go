package forms

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode"
)

// BoundWidget is the rendering contract shared by bound fields and anything
// decorating them. AsWidget renders with the given widget (nil means the
// field's own) and per-render attributes; onlyInitial renders the hidden
// "initial-" variant carrying the field's initial value.
type BoundWidget interface {
	Name() string
	Field() Field
	Widget() Widget
	Errors() []string
	AsWidget(widget Widget, attrs Attrs, onlyInitial bool) (template.HTML, error)
}

// BoundField is a field definition bound to a form instance.
type BoundField struct {
	form   *Form
	name   string
	field  Field
	widget Widget
}

var _ BoundWidget = (*BoundField)(nil)

func (b *BoundField) Name() string   { return b.name }
func (b *BoundField) Field() Field   { return b.field }
func (b *BoundField) Widget() Widget { return b.widget }

// HTMLName is the name attribute used for the control.
func (b *BoundField) HTMLName() string {
	return b.form.htmlName(b.name)
}

// ID is the element id derived from the form's auto id format, or "".
func (b *BoundField) ID() string {
	if b.form.autoID == "" {
		return ""
	}
	if strings.Contains(b.form.autoID, "%s") {
		return fmt.Sprintf(b.form.autoID, b.HTMLName())
	}
	return b.HTMLName()
}

// Label returns the configured label or one derived from the field name.
func (b *BoundField) Label() string {
	if label := strings.TrimSpace(b.field.Base().Label); label != "" {
		return label
	}
	return prettyName(b.name)
}

// HelpText returns the field's help text with unsafe markup removed.
func (b *BoundField) HelpText() template.HTML {
	return template.HTML(SanitizeHelpText(b.field.Base().HelpText))
}

// Errors returns the validation messages recorded for this field.
func (b *BoundField) Errors() []string {
	return append([]string(nil), b.form.errors[b.name]...)
}

// Value is the submitted value when the form is bound, the initial value
// otherwise.
func (b *BoundField) Value() any {
	if b.form.bound {
		return b.form.data.Get(b.HTMLName())
	}
	return b.field.Base().Initial
}

// AsWidget renders the field. Attributes in attrs win over the widget's
// static attributes; attrs itself is not modified.
func (b *BoundField) AsWidget(widget Widget, attrs Attrs, onlyInitial bool) (template.HTML, error) {
	if widget == nil {
		widget = b.widget
	}
	if widget == nil {
		return "", fmt.Errorf("forms: field %q has no widget", b.name)
	}
	staged := attrs.Clone()
	name := b.HTMLName()
	value := b.Value()
	id := b.ID()
	if onlyInitial {
		name = "initial-" + name
		value = b.field.Base().Initial
		if id != "" {
			id = "initial-" + id
		}
	}
	if id != "" && staged.Get("id") == "" && widget.Attrs().Get("id") == "" {
		staged["id"] = id
	}
	return widget.Render(name, value, staged)
}

// HTML renders the field with its own widget.
func (b *BoundField) HTML() (template.HTML, error) {
	return b.AsWidget(nil, nil, false)
}

// String renders the field, returning "" when the widget fails.
func (b *BoundField) String() string {
	out, err := b.HTML()
	if err != nil {
		return ""
	}
	return string(out)
}

// Render implements templ.Component.
func (b *BoundField) Render(_ context.Context, w io.Writer) error {
	return Write(w, b)
}

// Write renders a bound widget into w.
func Write(w io.Writer, field BoundWidget) error {
	out, err := field.AsWidget(nil, nil, false)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, string(out))
	return err
}

func prettyName(name string) string {
	if name == "" {
		return ""
	}
	spaced := strings.ReplaceAll(name, "_", " ")
	runes := []rune(spaced)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
