package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/analysis"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/documents"
	"github.com/jonathan/resume-studio/internal/fetch"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server that renders résumé data to LaTeX and exposes the
ATS scoring, guidance and enhancement routes. The archive is enabled when
DATABASE_URL is set; the model routes are enabled when GEMINI_API_KEY is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			if port > 0 {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, cleanup, err := buildServer(ctx, cfg.Addr(), root)
			if err != nil {
				return err
			}
			defer cleanup()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides PORT and the config file)")
	return cmd
}

// buildServer wires the configured archive and model into a server.
// cleanup releases the database pool and the model client.
func buildServer(ctx context.Context, addr string, root *rootOptions) (*server.Server, func(), error) {
	cfg := root.cfg
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	docOpts := []documents.Option{}
	if cfg.Template != "" {
		docOpts = append(docOpts, documents.WithTemplate(cfg.Template))
	}
	analysisOpts := []analysis.Option{analysis.WithTier(cfg.Tier())}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		docOpts = append(docOpts, documents.WithArchive(database))
		analysisOpts = append(analysisOpts, analysis.WithArchive(database))
	} else {
		logger.Warn().Msg("DATABASE_URL not set; documents will not be archived")
	}

	serverOpts := []server.Option{
		server.WithCORSOrigin(cfg.CORSOrigin),
		server.WithMaxUpload(int64(cfg.MaxUploadMB) << 20),
		server.WithJobFetcher(func(ctx context.Context, url string) (string, error) {
			return fetch.JobDescription(ctx, url, &fetch.Options{Timeout: cfg.FetchTimeout})
		}),
	}

	if cfg.APIKey != "" {
		client, err := newModelClient(ctx, cfg.APIKey)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = client.Close() })
		serverOpts = append(serverOpts, server.WithAnalysis(analysis.NewService(client, analysisOpts...)))
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; model routes will answer 503")
	}

	docs := documents.NewService(documents.NewSlot(), docOpts...)
	return server.New(addr, docs, serverOpts...), cleanup, nil
}

// newModelClient is replaced in tests.
var newModelClient = func(ctx context.Context, apiKey string) (llm.Client, error) {
	client, err := llm.NewGeminiClient(ctx, nil, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}
