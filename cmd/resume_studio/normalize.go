package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/parsing"
)

func newNormalizeCmd(root *rootOptions) *cobra.Command {
	var inFile string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Extract and normalize the JSON block of a saved model answer",
		Long:  "Reads a raw model answer, extracts its embedded JSON payload and prints the normalized analysis result.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readInput(cmd, inFile)
			if err != nil {
				return err
			}

			result, err := parsing.NormalizeText(string(raw))
			if err != nil {
				return err
			}

			if root.verbose {
				observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis("ANALYSIS", result)
				return nil
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&inFile, "in", "i", "", "Path to the raw model answer (- for stdin)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
