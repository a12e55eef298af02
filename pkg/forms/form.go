package forms

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"
)

// NonFieldErrors is the Errors key holding messages not tied to one field.
const NonFieldErrors = "__all__"

// ContextErrorsKey is the Context key holding the non-field errors.
const ContextErrorsKey = "non_field_errors"

// FieldError is a validation message attached to a field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" || e.Field == NonFieldErrors {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Option configures a Form.
type Option func(*Form)

// WithRegistry sets the registry used to pick widgets for fields that do not
// carry an explicit Widget.
func WithRegistry(reg *Registry) Option {
	return func(f *Form) {
		if reg != nil {
			f.registry = reg
		}
	}
}

// WithPrefix namespaces every HTML name as "<prefix>-<name>".
func WithPrefix(prefix string) Option {
	return func(f *Form) {
		f.prefix = strings.TrimSpace(prefix)
	}
}

// WithAutoID sets the format used to derive element ids from HTML names. The
// format must contain one %s verb; an empty format disables automatic ids.
func WithAutoID(format string) Option {
	return func(f *Form) {
		f.autoID = format
	}
}

type entry struct {
	field  Field
	widget Widget
}

// Form is an ordered set of named fields plus, once bound, the submitted data
// and the validation outcome.
type Form struct {
	registry *Registry
	prefix   string
	autoID   string

	order  []string
	fields map[string]entry

	bound   bool
	data    url.Values
	cleaned map[string]any
	errors  map[string][]string
}

// New constructs an empty, unbound form.
func New(options ...Option) *Form {
	form := &Form{
		autoID: "id_%s",
		fields: make(map[string]entry),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(form)
	}
	if form.registry == nil {
		form.registry = NewRegistry()
	}
	return form
}

// Add appends a field. The widget is resolved immediately so a misconfigured
// widget hint fails at construction time.
func (f *Form) Add(name string, field Field) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("forms: field name is required")
	}
	if name == NonFieldErrors || name == ContextErrorsKey {
		return fmt.Errorf("forms: field name %q is reserved", name)
	}
	if field == nil {
		return fmt.Errorf("forms: field %q is nil", name)
	}
	if _, exists := f.fields[name]; exists {
		return fmt.Errorf("forms: duplicate field %q", name)
	}
	widget, err := f.registry.Widget(field)
	if err != nil {
		return fmt.Errorf("forms: field %q: %w", name, err)
	}
	f.order = append(f.order, name)
	f.fields[name] = entry{field: field, widget: widget}
	return nil
}

// MustAdd mirrors Add but panics on error, simplifying static form setup.
func (f *Form) MustAdd(name string, field Field) *Form {
	if err := f.Add(name, field); err != nil {
		panic(err)
	}
	return f
}

// Bind cleans every field against data and records the outcome. The returned
// error aggregates one *FieldError per failing field and is nil when the form
// is valid.
func (f *Form) Bind(data url.Values) error {
	f.bound = true
	f.data = cloneValues(data)
	f.cleaned = make(map[string]any, len(f.order))
	f.errors = make(map[string][]string)

	var errs error
	for _, name := range f.order {
		field := f.fields[name].field
		value, err := field.Clean(f.data.Get(f.htmlName(name)))
		if err != nil {
			f.errors[name] = append(f.errors[name], err.Error())
			errs = multierr.Append(errs, &FieldError{Field: name, Message: err.Error()})
			continue
		}
		f.cleaned[name] = value
	}
	return errs
}

// AddError attaches a message to a field, or to the form as a whole when name
// is empty or NonFieldErrors. It marks the form bound.
func (f *Form) AddError(name, message string) {
	if f.errors == nil {
		f.errors = make(map[string][]string)
	}
	if name == "" {
		name = NonFieldErrors
	}
	f.bound = true
	f.errors[name] = append(f.errors[name], message)
	if f.cleaned != nil {
		delete(f.cleaned, name)
	}
}

// IsBound reports whether Bind has been called.
func (f *Form) IsBound() bool { return f.bound }

// IsValid reports whether the form is bound and carries no errors.
func (f *Form) IsValid() bool {
	return f.bound && len(f.errors) == 0
}

// Errors returns a copy of the recorded messages keyed by field name.
func (f *Form) Errors() map[string][]string {
	out := make(map[string][]string, len(f.errors))
	for name, messages := range f.errors {
		out[name] = append([]string(nil), messages...)
	}
	return out
}

// NonFieldErrors returns the messages attached to the form as a whole.
func (f *Form) NonFieldErrors() []string {
	return append([]string(nil), f.errors[NonFieldErrors]...)
}

// CleanedData returns the cleaned values of the fields that validated.
func (f *Form) CleanedData() map[string]any {
	out := make(map[string]any, len(f.cleaned))
	for name, value := range f.cleaned {
		out[name] = value
	}
	return out
}

// Names returns the field names in declaration order.
func (f *Form) Names() []string {
	return append([]string(nil), f.order...)
}

// BoundField returns the named field bound to this form, or nil.
func (f *Form) BoundField(name string) *BoundField {
	item, ok := f.fields[name]
	if !ok {
		return nil
	}
	return &BoundField{form: f, name: name, field: item.field, widget: item.widget}
}

// Fields returns every bound field in declaration order.
func (f *Form) Fields() []*BoundField {
	out := make([]*BoundField, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.BoundField(name))
	}
	return out
}

// Lookup resolves a field name to its bound field. It lets template scopes
// walk "form.email" style paths.
func (f *Form) Lookup(name string) (any, bool) {
	bf := f.BoundField(name)
	if bf == nil {
		return nil, false
	}
	return bf, true
}

// Context exposes the bound fields keyed by name, the shape template engines
// expect for "form.email" lookups, plus the non-field errors under
// ContextErrorsKey.
func (f *Form) Context() map[string]any {
	out := make(map[string]any, len(f.order)+1)
	for _, name := range f.order {
		out[name] = f.BoundField(name)
	}
	out[ContextErrorsKey] = f.NonFieldErrors()
	return out
}

func (f *Form) htmlName(name string) string {
	if f.prefix == "" {
		return name
	}
	return f.prefix + "-" + name
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for key, values := range in {
		out[key] = append([]string(nil), values...)
	}
	return out
}
