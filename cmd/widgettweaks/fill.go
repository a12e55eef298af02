package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-widgettweaks/internal/prompt"
)

// errInvalid reports a submission that failed validation; the details are
// already printed.
var errInvalid = errors.New("form is invalid")

func newFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively and print the cleaned data as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := a.loadForm(cmd.Context())
			if err != nil {
				return err
			}

			values, err := prompt.Fill(cmd.Context(), a.promptDriver(), form)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(a.out)
			defer enc.Close()

			if err := form.Bind(values); err != nil {
				a.logger.Debug("submission rejected", zap.Error(err))
				if encErr := enc.Encode(map[string]any{"errors": form.Errors()}); encErr != nil {
					return encErr
				}
				return errInvalid
			}
			return enc.Encode(map[string]any{"data": form.CleanedData()})
		},
	}
}

func (a *app) promptDriver() prompt.Driver {
	if a.driver != nil {
		return a.driver
	}
	in, inOK := a.in.(terminal.FileReader)
	out, outOK := a.out.(terminal.FileWriter)
	if inOK && outOK {
		return prompt.NewSurveyDriver(survey.WithStdio(in, out, a.errOut))
	}
	return prompt.NewSurveyDriver()
}
