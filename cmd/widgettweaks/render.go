package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	rendertemplate "github.com/goliatone/go-widgettweaks/pkg/render/template"
	"github.com/goliatone/go-widgettweaks/pkg/render/template/htmltpl"
	"github.com/goliatone/go-widgettweaks/pkg/render/template/pongo"
)

const (
	enginePongo = "pongo"
	engineHTML  = "html"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		templatePath string
		engineName   string
		bind         []string
		vars         []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template against a form",
		Long: `Render a pongo2 (Django syntax) or html/template file with the form available as "form".
Templates next to it can be included: {% include "part.html" %} for pongo,
{{ template "part.html" . }} for html. Use --bind to submit values first so
error classes apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if templatePath == "" {
				return fmt.Errorf("--template is required")
			}
			dir, name := filepath.Split(templatePath)
			ext := filepath.Ext(name)
			if ext == "" {
				return fmt.Errorf("template %q needs a file extension", templatePath)
			}

			form, err := a.loadForm(cmd.Context())
			if err != nil {
				return err
			}
			if len(bind) > 0 {
				values, err := parsePairs(bind)
				if err != nil {
					return err
				}
				if err := form.Bind(values); err != nil {
					a.logger.Debug("bound with errors", zap.Error(err))
				}
			}

			data, err := parseVars(vars)
			if err != nil {
				return err
			}
			data["form"] = form

			engine, err := newEngine(engineName, dir, ext)
			if err != nil {
				return err
			}
			if _, err := engine.Render(name, data, a.out); err != nil {
				return err
			}
			a.logger.Info("rendered", zap.String("template", templatePath), zap.String("engine", engineName))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&templatePath, "template", "t", "", "template file")
	flags.StringVar(&engineName, "engine", enginePongo, "template engine: pongo or html")
	flags.StringArrayVar(&bind, "bind", nil, "submit name=value before rendering (repeatable)")
	flags.StringArrayVar(&vars, "var", nil, "extra template variable key=value (repeatable)")
	return cmd
}

// newEngine builds the named engine loading templates with extension ext
// from dir.
func newEngine(name, dir, ext string) (rendertemplate.TemplateRenderer, error) {
	if dir == "" {
		dir = "."
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", enginePongo:
		return pongo.New(pongo.WithBaseDir(dir), pongo.WithExtension(ext))
	case engineHTML:
		return htmltpl.New(htmltpl.WithBaseDir(dir), htmltpl.WithExtension(ext))
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}

func parseVars(pairs []string) (map[string]any, error) {
	values, err := parsePairs(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	for key := range values {
		out[key] = values.Get(key)
	}
	return out, nil
}
