package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-widgettweaks"
	"github.com/goliatone/go-widgettweaks/internal/logging"
	"github.com/goliatone/go-widgettweaks/internal/prompt"
	"github.com/goliatone/go-widgettweaks/pkg/forms"
)

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *zap.Logger
	driver prompt.Driver

	logLevel  string
	formPath  string
	specPath  string
	component string
	operation string
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newCommand(&app{in: in, out: out, errOut: errOut, logger: zap.NewNop()})
}

func newCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "widgettweaks",
		Short:         "Preview form widgets with template attribute tweaks",
		Long:          `widgettweaks renders form fields through the attr, add_class, add_error_class, set_data and render_field helpers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Config{Level: a.logLevel}, a.errOut, a.errOut)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", logging.LevelNone, "console log level: none, normal or debug")
	flags.StringVar(&a.formPath, "form", "", "YAML form definition")
	flags.StringVar(&a.specPath, "openapi", "", "OpenAPI document to build the form from")
	flags.StringVar(&a.component, "component", "", "schema component used with --openapi")
	flags.StringVar(&a.operation, "operation", "", "operation id whose request body is used with --openapi")

	root.AddCommand(
		newRenderCmd(a),
		newTagCmd(a),
		newFillCmd(a),
		newServeCmd(a),
	)
	return root
}

// loadForm builds a fresh form from --form or --openapi.
func (a *app) loadForm(ctx context.Context) (*forms.Form, error) {
	form, err := widgettweaks.LoadForm(ctx, widgettweaks.Source{
		FormPath:    a.formPath,
		OpenAPIPath: a.specPath,
		Component:   a.component,
		Operation:   a.operation,
	})
	if err != nil {
		return nil, fmt.Errorf("load form: %w", err)
	}
	return form, nil
}

// formLoader returns a constructor that rebuilds the form on every call.
func (a *app) formLoader(ctx context.Context) func() (*forms.Form, error) {
	return func() (*forms.Form, error) {
		return a.loadForm(ctx)
	}
}

// parsePairs turns name=value flags into url.Values.
func parsePairs(pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		values.Add(strings.TrimSpace(name), value)
	}
	return values, nil
}
