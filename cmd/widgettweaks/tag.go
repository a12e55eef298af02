package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-widgettweaks/pkg/tweaks"
)

func newTagCmd(a *app) *cobra.Command {
	var (
		bind []string
		vars []string
	)

	cmd := &cobra.Command{
		Use:   "tag 'render_field <field> attr=value ...'",
		Short: "Evaluate a single render_field tag",
		Long: `Parse and render one render_field tag. Fields resolve by name or as form.<name>;
unquoted values resolve against --var.`,
		Example: `  widgettweaks tag --form signup.yaml 'render_field email class="input" placeholder=hint' --var hint=you@example.com`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := tweaks.ParseTag(args[0])
			if err != nil {
				return err
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
				_ = form.Bind(values)
			}

			data, err := parseVars(vars)
			if err != nil {
				return err
			}
			scope := tweaks.MapScope(data)
			for _, field := range form.Fields() {
				scope[field.Name()] = field
			}
			scope["form"] = form

			out, err := tweaks.Render(tag.Render(scope))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, out)
			return err
		},
	}

	cmd.Flags().StringArrayVar(&bind, "bind", nil, "submit name=value before rendering (repeatable)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "scope variable key=value (repeatable)")
	return cmd
}
