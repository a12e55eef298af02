package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-widgettweaks/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr         string
		templatesDir string
		title        string
		inputClass   string
		errorClass   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an interactive preview of the form",
		Long: `Serve the form on GET /, validate submissions on POST /, re-render single
fields for htmx requests targeting field-<name>, and expose /metrics and /healthz.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Fail fast on a broken definition instead of on the first request.
			if _, err := a.loadForm(ctx); err != nil {
				return err
			}

			options := []server.Option{
				server.WithLogger(a.logger),
				server.WithTitle(title),
				server.WithClasses(inputClass, errorClass),
			}
			if templatesDir != "" {
				options = append(options, server.WithTemplates(os.DirFS(templatesDir)))
			}

			srv, err := server.New(a.formLoader(ctx), options...)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", ":8080", "listen address")
	flags.StringVar(&templatesDir, "templates", "", "directory with page.html and field.html overrides")
	flags.StringVar(&title, "title", "Form preview", "page title")
	flags.StringVar(&inputClass, "input-class", "input", "class added to every widget")
	flags.StringVar(&errorClass, "error-class", "is-invalid", "class added to widgets of invalid fields")
	return cmd
}
