// Package widgettweaks lets templates change the HTML attributes of form
// widgets without touching form definitions. The filters and the
// render_field tag live in pkg/tweaks and are registered with pongo2 by
// pkg/render/template/pongo and with html/template by
// pkg/render/template/htmltpl.
package widgettweaks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-widgettweaks/pkg/formdef"
	"github.com/goliatone/go-widgettweaks/pkg/forms"
	"github.com/goliatone/go-widgettweaks/pkg/openapi"
	"github.com/goliatone/go-widgettweaks/pkg/render/template/htmltpl"
	"github.com/goliatone/go-widgettweaks/pkg/render/template/pongo"
	"github.com/goliatone/go-widgettweaks/pkg/tweaks"
)

// Directive aliases tweaks.Directive for callers staging attributes in Go.
type Directive = tweaks.Directive

// SyntaxError aliases the render_field parse error.
type SyntaxError = tweaks.SyntaxError

// Source names where a form definition comes from: a YAML definition, or an
// OpenAPI document plus a schema component or operation id.
type Source struct {
	FormPath    string
	OpenAPIPath string
	Component   string
	Operation   string
}

// LoadForm builds a fresh, unbound form from src.
func LoadForm(ctx context.Context, src Source, options ...forms.Option) (*forms.Form, error) {
	switch {
	case src.FormPath != "" && src.OpenAPIPath != "":
		return nil, errors.New("widgettweaks: use either a form definition or an OpenAPI document, not both")
	case src.FormPath != "":
		def, err := formdef.Load(src.FormPath)
		if err != nil {
			return nil, err
		}
		return def.Build(options...)
	case src.OpenAPIPath != "":
		doc, err := openapi.Load(ctx, src.OpenAPIPath)
		if err != nil {
			return nil, err
		}
		switch {
		case src.Component != "":
			return doc.ComponentForm(src.Component, options...)
		case src.Operation != "":
			return doc.OperationForm(src.Operation, options...)
		default:
			return nil, fmt.Errorf("widgettweaks: OpenAPI source needs a component (one of %s) or an operation (one of %s)",
				strings.Join(doc.Components(), ", "), strings.Join(doc.Operations(), ", "))
		}
	default:
		return nil, errors.New("widgettweaks: a form source is required")
	}
}

// NewPongo constructs a pongo2 engine with the widget filters and the
// render_field tag registered.
func NewPongo(options ...pongo.Option) (*pongo.Engine, error) {
	return pongo.New(options...)
}

// NewHTMLTemplate constructs an html/template engine with the widget
// functions in its FuncMap.
func NewHTMLTemplate(options ...htmltpl.Option) (*htmltpl.Engine, error) {
	return htmltpl.New(options...)
}

// RenderTag parses a single render_field tag and renders it against scope.
func RenderTag(src string, scope tweaks.Scope) (string, error) {
	tag, err := tweaks.ParseTag(src)
	if err != nil {
		return "", err
	}
	out, err := tweaks.Render(tag.Render(scope))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
