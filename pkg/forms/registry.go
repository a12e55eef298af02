package forms

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetEmail    = "email"
	WidgetNumber   = "number"
	WidgetPassword = "password"
	WidgetHidden   = "hidden"
	WidgetCheckbox = "checkbox"
	WidgetTextarea = "textarea"
	WidgetSelect   = "select"
)

// Matcher decides whether a widget should be used for the supplied field.
type Matcher func(field Field) bool

// Factory builds a fresh widget for a field.
type Factory func(field Field) Widget

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for field definitions based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order.
type Registry struct {
	mu        sync.RWMutex
	rules     []rule
	factories map[string]Factory
}

// NewRegistry constructs a registry with the built-in widgets and matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{factories: make(map[string]Factory)}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for the named widget. Higher priority values take
// precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// RegisterWidget associates a widget factory with a name. Existing entries
// are replaced.
func (r *Registry) RegisterWidget(name string, factory Factory) {
	if r == nil || factory == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.factories == nil {
		r.factories = make(map[string]Factory)
	}
	r.factories[trimmed] = factory
}

// Resolve returns the widget name for a field. The WidgetHint option is
// honoured before matcher evaluation.
func (r *Registry) Resolve(field Field) (string, bool) {
	if field == nil {
		return "", false
	}
	if explicit := strings.TrimSpace(field.Base().WidgetHint); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Widget returns the widget a field renders with: the Widget option when
// set, otherwise the registry's resolution.
func (r *Registry) Widget(field Field) (Widget, error) {
	if field == nil {
		return nil, fmt.Errorf("forms: field is nil")
	}
	if w := field.Base().Widget; w != nil {
		return w, nil
	}
	return r.Build("", field, nil)
}

// Build constructs the named widget for field and seeds its static
// attributes when the widget accepts them.
func (r *Registry) Build(name string, field Field, attrs Attrs) (Widget, error) {
	if r == nil {
		return nil, fmt.Errorf("forms: registry is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		resolved, ok := r.Resolve(field)
		if !ok {
			return nil, fmt.Errorf("forms: no widget resolves for %T", field)
		}
		name = resolved
	}
	r.mu.RLock()
	factory := r.factories[name]
	r.mu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("forms: widget %q not registered", name)
	}
	widget := factory(field)
	if len(attrs) > 0 {
		setter, ok := widget.(interface{ SetAttrs(Attrs) })
		if !ok {
			return nil, fmt.Errorf("forms: widget %q does not accept static attributes", name)
		}
		setter.SetAttrs(attrs)
	}
	return widget, nil
}

func (r *Registry) registerBuiltins() {
	r.RegisterWidget(WidgetText, func(Field) Widget { return &TextInput{} })
	r.RegisterWidget(WidgetEmail, func(Field) Widget { return &EmailInput{} })
	r.RegisterWidget(WidgetNumber, func(Field) Widget { return &NumberInput{} })
	r.RegisterWidget(WidgetPassword, func(Field) Widget { return &PasswordInput{} })
	r.RegisterWidget(WidgetHidden, func(Field) Widget { return &HiddenInput{} })
	r.RegisterWidget(WidgetCheckbox, func(Field) Widget { return &CheckboxInput{} })
	r.RegisterWidget(WidgetTextarea, func(Field) Widget { return &Textarea{} })
	r.RegisterWidget(WidgetSelect, func(field Field) Widget {
		w := &Select{}
		if choice, ok := field.(*ChoiceField); ok {
			w.Choices = append([]Choice(nil), choice.Choices...)
		}
		return w
	})

	r.Register(WidgetCheckbox, 90, func(field Field) bool {
		_, ok := field.(*BooleanField)
		return ok
	})
	r.Register(WidgetSelect, 80, func(field Field) bool {
		_, ok := field.(*ChoiceField)
		return ok
	})
	r.Register(WidgetEmail, 70, func(field Field) bool {
		_, ok := field.(*EmailField)
		return ok
	})
	r.Register(WidgetNumber, 60, func(field Field) bool {
		_, ok := field.(*IntegerField)
		return ok
	})
	r.Register(WidgetText, 0, func(Field) bool { return true })
}
