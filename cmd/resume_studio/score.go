package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/analysis"
	"github.com/jonathan/resume-studio/internal/fetch"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/observability"
)

// Score modes.
const (
	modeATS      = "ats"
	modeGuidance = "guidance"
	modeReport   = "report"
)

func newScoreCmd(root *rootOptions) *cobra.Command {
	var (
		resumeFile string
		jobFile    string
		jobURL     string
		role       string
		mode       string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a résumé file against a job description",
		Long: `Extracts the text of a PDF, DOCX or plain-text résumé and asks the model
for an ATS score (--mode ats), rewrite guidance (--mode guidance) or both
(--mode report). The job description comes from --job or --job-url.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch mode {
			case modeATS, modeGuidance, modeReport:
			default:
				return fmt.Errorf("unknown mode %q (want ats, guidance or report)", mode)
			}
			if (jobFile == "") == (jobURL == "") {
				return errors.New("exactly one of --job or --job-url is required")
			}
			if root.cfg.APIKey == "" {
				return errors.New("GEMINI_API_KEY environment variable is required")
			}

			ctx := cmd.Context()

			resume, err := ingestion.IngestFromFile(ctx, resumeFile)
			if err != nil {
				return fmt.Errorf("failed to read resume: %w", err)
			}

			var job string
			if jobURL != "" {
				job, err = fetch.JobDescription(ctx, jobURL, &fetch.Options{Timeout: root.cfg.FetchTimeout})
			} else {
				var content []byte
				content, err = readInput(cmd, jobFile)
				job = string(content)
			}
			if err != nil {
				return fmt.Errorf("failed to load job description: %w", err)
			}

			client, err := newModelClient(ctx, root.cfg.APIKey)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := client.Close(); cerr != nil {
					logger.Warn().Err(cerr).Msg("failed to close model client")
				}
			}()

			svc := analysis.NewService(client, analysis.WithTier(root.cfg.Tier()))
			req := analysis.Request{
				JobDescription: strings.TrimSpace(job),
				Resume:         resume,
				Role:           role,
				StrictATS:      strict,
			}
			logger.Debug().Str("mode", mode).Int("resume_chars", len(resume)).Int("job_chars", len(job)).Msg("scoring resume")

			printer := observability.NewPrinter(cmd.OutOrStdout())
			switch mode {
			case modeATS:
				result, err := svc.Score(ctx, req)
				if err != nil {
					return err
				}
				if root.verbose {
					printer.PrintAnalysis("ATS SCORE", result)
					return nil
				}
				return printJSON(cmd, result)
			case modeGuidance:
				result, err := svc.Guide(ctx, req)
				if err != nil {
					return err
				}
				if root.verbose {
					printer.PrintAnalysis("GUIDANCE", result)
					return nil
				}
				return printJSON(cmd, result)
			default:
				report, err := svc.Report(ctx, req)
				if err != nil {
					return err
				}
				if root.verbose {
					printer.PrintAnalysis("ATS SCORE", report.ATS)
					printer.PrintAnalysis("GUIDANCE", report.Guidance)
					return nil
				}
				return printJSON(cmd, report)
			}
		},
	}

	cmd.Flags().StringVarP(&resumeFile, "resume", "r", "", "Path to the résumé (PDF, DOCX or text)")
	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to the job description text (- for stdin)")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL of the job posting")
	cmd.Flags().StringVar(&role, "role", "", "Target seniority, e.g. Senior")
	cmd.Flags().StringVarP(&mode, "mode", "m", modeATS, "ats, guidance or report")
	cmd.Flags().BoolVar(&strict, "strict", false, "Prefer exact job description terminology")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}
