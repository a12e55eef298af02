package prompt

import (
	"context"
	"fmt"
	"net/url"

	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

// Fill asks for a value for every field of form, choosing the prompt from
// the field's widget, and returns the answers keyed by HTML name so they can
// be passed to form.Bind. Text answers are checked with the field's Clean
// before they are accepted.
func Fill(ctx context.Context, driver Driver, form *forms.Form) (url.Values, error) {
	if driver == nil {
		return nil, fmt.Errorf("prompt: driver is nil")
	}
	if form == nil {
		return nil, fmt.Errorf("prompt: form is nil")
	}

	values := url.Values{}
	for _, bound := range form.Fields() {
		answer, err := ask(ctx, driver, bound)
		if err != nil {
			return nil, fmt.Errorf("prompt: field %q: %w", bound.Name(), err)
		}
		if answer != "" {
			values.Set(bound.HTMLName(), answer)
		}
	}
	return values, nil
}

func ask(ctx context.Context, driver Driver, bound *forms.BoundField) (string, error) {
	field := bound.Field()
	opts := field.Base()
	message := bound.Label()
	help := opts.HelpText
	initial := ""
	if opts.Initial != nil {
		initial = fmt.Sprint(opts.Initial)
	}
	validate := func(answer string) error {
		_, err := field.Clean(answer)
		return err
	}

	switch w := bound.Widget().(type) {
	case *forms.CheckboxInput:
		checked, err := driver.Confirm(ctx, ConfirmConfig{Message: message, Help: help, Default: initial == "true"})
		if err != nil || !checked {
			return "", err
		}
		return "on", nil
	case *forms.Select:
		if len(w.Choices) == 0 {
			return "", nil
		}
		options := make([]string, len(w.Choices))
		defaultIndex := -1
		for i, choice := range w.Choices {
			options[i] = choice.Label
			if choice.Value == initial {
				defaultIndex = i
			}
		}
		idx, err := driver.Select(ctx, SelectConfig{Message: message, Help: help, Options: options, DefaultIndex: defaultIndex})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(w.Choices) {
			return "", fmt.Errorf("selection %d out of range", idx)
		}
		return w.Choices[idx].Value, nil
	case *forms.PasswordInput:
		return driver.Password(ctx, InputConfig{Message: message, Help: help, Validator: validate})
	case *forms.Textarea:
		return driver.TextArea(ctx, InputConfig{Message: message, Help: help, Default: initial, Validator: validate})
	case *forms.HiddenInput:
		return initial, nil
	default:
		return driver.Input(ctx, InputConfig{Message: message, Help: help, Default: initial, Validator: validate})
	}
}
