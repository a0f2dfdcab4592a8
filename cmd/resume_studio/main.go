// Package main provides the resume_studio CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/logger"
)

// rootOptions holds the persistent flags and the configuration they resolve to.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "resume_studio",
		Short: "Resume Studio LaTeX generator and ATS assistant",
		Long:  "Resume Studio renders structured résumé data to LaTeX and scores résumés against job descriptions with a generative model.",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if opts.logFormat != "" {
				cfg.LogFormat = opts.logFormat
			}
			if opts.verbose && opts.logLevel == "" {
				cfg.LogLevel = "debug"
			}
			opts.cfg = cfg

			logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON or YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (json or pretty)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print human-readable summaries")

	cmd.AddCommand(
		newServeCmd(opts),
		newRenderLaTeXCmd(opts),
		newNormalizeCmd(opts),
		newScoreCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
