package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/types"
)

func newRenderLaTeXCmd(root *rootOptions) *cobra.Command {
	var inFile, outFile, templateFile string

	cmd := &cobra.Command{
		Use:   "render-latex",
		Short: "Render résumé JSON to LaTeX",
		Long:  "Renders a résumé JSON document with the built-in template, or with --template, and writes the LaTeX source to --out or stdout.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readInput(cmd, inFile)
			if err != nil {
				return err
			}

			var data types.ResumeData
			if err := json.Unmarshal(content, &data); err != nil {
				return fmt.Errorf("failed to parse resume JSON: %w", err)
			}
			if err := data.Validate(); err != nil {
				return err
			}

			tmpl := templateFile
			if tmpl == "" {
				tmpl = root.cfg.Template
			}

			var latex string
			if tmpl == "" {
				latex, err = rendering.RenderResume(&data)
			} else {
				latex, err = rendering.RenderResumeWithTemplate(&data, tmpl)
			}
			if err != nil {
				return fmt.Errorf("failed to render LaTeX: %w", err)
			}

			if root.verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintResume(&data)
			}
			return writeOutput(cmd, outFile, latex)
		},
	}

	cmd.Flags().StringVarP(&inFile, "in", "i", "", "Path to résumé JSON (- for stdin)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Path to output .tex file (default stdout)")
	cmd.Flags().StringVarP(&templateFile, "template", "t", "", "Path to a custom LaTeX template")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
