package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var inFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check résumé JSON against the résumé schema",
		Long:  "Validates a résumé JSON document against the embedded schema and checks the fields rendering cannot do without.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readInput(cmd, inFile)
			if err != nil {
				return err
			}

			schemaErr := schemas.ValidateResume(string(content))
			var verr *schemas.ValidationError
			if schemaErr != nil && !errors.As(schemaErr, &verr) {
				return schemaErr
			}
			if root.verbose {
				observability.NewPrinter(cmd.OutOrStdout()).PrintValidation("resume", verr)
			}
			if verr != nil {
				return verr
			}

			var data types.ResumeData
			if err := json.Unmarshal(content, &data); err != nil {
				return fmt.Errorf("failed to parse resume JSON: %w", err)
			}
			if err := data.Validate(); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "resume is valid")
			return err
		},
	}

	cmd.Flags().StringVarP(&inFile, "in", "i", "", "Path to résumé JSON (- for stdin)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
