package forms

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrRequired is returned by Clean when a required field receives no value.
var ErrRequired = errors.New("This field is required.")

// Options holds the settings shared by every field definition.
type Options struct {
	Label    string
	Required bool
	HelpText string
	Initial  any
	// Widget overrides the widget the registry would pick.
	Widget Widget
	// WidgetHint names a registry widget ("textarea", "password", ...).
	WidgetHint string
}

// Field is a form field definition: it knows how to clean a raw submitted
// value. Concrete fields embed Options.
type Field interface {
	Base() *Options
	Clean(raw string) (any, error)
}

// CharField accepts free text, optionally bounded in length.
type CharField struct {
	Options
	MinLength int
	MaxLength int
}

func (f *CharField) Base() *Options { return &f.Options }

func (f *CharField) Clean(raw string) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return "", nil
	}
	length := utf8.RuneCountInString(value)
	if f.MinLength > 0 && length < f.MinLength {
		return nil, fmt.Errorf("Ensure this value has at least %d characters (it has %d).", f.MinLength, length)
	}
	if f.MaxLength > 0 && length > f.MaxLength {
		return nil, fmt.Errorf("Ensure this value has at most %d characters (it has %d).", f.MaxLength, length)
	}
	return value, nil
}

// EmailField accepts a single e-mail address.
type EmailField struct {
	Options
}

func (f *EmailField) Base() *Options { return &f.Options }

func (f *EmailField) Clean(raw string) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return "", nil
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return nil, errors.New("Enter a valid email address.")
	}
	return value, nil
}

// IntegerField accepts whole numbers, optionally bounded.
type IntegerField struct {
	Options
	Min *int
	Max *int
}

func (f *IntegerField) Base() *Options { return &f.Options }

func (f *IntegerField) Clean(raw string) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, errors.New("Enter a whole number.")
	}
	if f.Min != nil && n < *f.Min {
		return nil, fmt.Errorf("Ensure this value is greater than or equal to %d.", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		return nil, fmt.Errorf("Ensure this value is less than or equal to %d.", *f.Max)
	}
	return n, nil
}

// BooleanField is checked or not. A required BooleanField must be checked.
type BooleanField struct {
	Options
}

func (f *BooleanField) Base() *Options { return &f.Options }

func (f *BooleanField) Clean(raw string) (any, error) {
	checked := isChecked(raw)
	if !checked && f.Required {
		return nil, ErrRequired
	}
	return checked, nil
}

// ChoiceField accepts one of a fixed set of values.
type ChoiceField struct {
	Options
	Choices []Choice
}

func (f *ChoiceField) Base() *Options { return &f.Options }

func (f *ChoiceField) Clean(raw string) (any, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return nil, ErrRequired
		}
		return "", nil
	}
	for _, choice := range f.Choices {
		if choice.Value == value {
			return value, nil
		}
	}
	return nil, fmt.Errorf("Select a valid choice. %s is not one of the available choices.", value)
}
