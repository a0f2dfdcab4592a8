// Package analysis runs the model-backed résumé flows: ATS scoring, guidance
// and résumé enhancement.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/parsing"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
	"golang.org/x/sync/errgroup"
)

// Analysis kinds, matching the archive.
const (
	KindATS      = "ats"
	KindGuidance = "guidance"
)

// MissingSummary is shown when a guidance answer has no summary rewrite.
const MissingSummary = "No summary rewrite returned. Check the raw response for details."

// Request is one résumé checked against one job description.
type Request struct {
	JobDescription string
	Resume         string
	Role           string
	StrictATS      bool
}

// Validate reports the first missing required field.
func (r Request) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return &types.FieldError{Field: "jobDescription", Message: "is required"}
	}
	if strings.TrimSpace(r.Resume) == "" {
		return &types.FieldError{Field: "resume", Message: "is required"}
	}
	return nil
}

// Report combines an ATS score with guidance for the same request.
type Report struct {
	ATS      *types.AnalysisResult `json:"ats"`
	Guidance *types.AnalysisResult `json:"guidance"`
}

// Archive persists analysis results. *db.DB implements it.
type Archive interface {
	SaveAnalysis(ctx context.Context, kind string, result *types.AnalysisResult) (uuid.UUID, error)
}

// Service calls the model and turns its answers into typed results.
type Service struct {
	client  llm.Client
	tier    llm.ModelTier
	archive Archive
}

// Option configures a Service.
type Option func(*Service)

// WithTier selects the model tier used for scoring and guidance.
func WithTier(tier llm.ModelTier) Option {
	return func(s *Service) { s.tier = tier }
}

// WithArchive stores every analysis result in a.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// NewService returns a Service backed by client.
func NewService(client llm.Client, opts ...Option) *Service {
	s := &Service{client: client, tier: llm.TierStandard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score asks the model for an ATS score and keyword gaps.
func (s *Service) Score(ctx context.Context, req Request) (*types.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet(prompts.AnalysisFile, prompts.KeyATSScore), map[string]string{
		"JobDescription": req.JobDescription,
		"Resume":         req.Resume,
	})

	result, err := s.analyze(ctx, prompt, s.tier)
	if err != nil {
		return nil, err
	}
	s.save(ctx, KindATS, result)
	return result, nil
}

// Guide asks the model for human-readable guidance plus a structured block of
// rewrites and skills to add.
func (s *Service) Guide(ctx context.Context, req Request) (*types.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	modeKey := prompts.KeyGuidanceBalanced
	if req.StrictATS {
		modeKey = prompts.KeyGuidanceStrict
	}
	role := ""
	if r := strings.TrimSpace(req.Role); r != "" {
		role = "Target seniority: " + r + "."
	}

	prompt := prompts.Format(prompts.MustGet(prompts.AnalysisFile, prompts.KeyGuidance), map[string]string{
		"Mode":           prompts.MustGet(prompts.AnalysisFile, modeKey),
		"Role":           role,
		"JobDescription": req.JobDescription,
		"Resume":         req.Resume,
	})

	result, err := s.analyze(ctx, prompt, s.tier)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Summary) == "" {
		result.Summary = MissingSummary
	}
	s.save(ctx, KindGuidance, result)
	return result, nil
}

// Report runs Score and Guide concurrently. Either failure fails the report.
func (s *Service) Report(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var report Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := s.Score(gctx, req)
		if err != nil {
			return fmt.Errorf("ats score: %w", err)
		}
		report.ATS = result
		return nil
	})
	g.Go(func() error {
		result, err := s.Guide(gctx, req)
		if err != nil {
			return fmt.Errorf("guidance: %w", err)
		}
		report.Guidance = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &report, nil
}

// Enhance asks the model to rewrite data for jobDescription and returns the
// rewritten résumé. The original name is kept when the model drops it.
func (s *Service) Enhance(ctx context.Context, data *types.ResumeData, jobDescription string) (*types.ResumeData, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, &types.FieldError{Field: "jobDescription", Message: "is required"}
	}

	candidate, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate data: %w", err)
	}

	prompt := prompts.Format(prompts.MustGet(prompts.AnalysisFile, prompts.KeyEnhanceResume), map[string]string{
		"JobDescription": jobDescription,
		"CandidateData":  string(candidate),
	})

	raw, err := s.generate(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}

	if payload, ok := parsing.Extract(raw); ok {
		if verr := schemas.ValidateResume(string(payload)); verr != nil {
			logger.Warn().Err(verr).Msg("enhanced resume does not match schema")
		}
	}

	enhanced, err := parsing.ExtractResume(raw)
	if err != nil {
		return nil, err
	}
	if enhanced.Name == "" {
		enhanced.Name = data.Name
	}
	return enhanced, nil
}

func (s *Service) analyze(ctx context.Context, prompt string, tier llm.ModelTier) (*types.AnalysisResult, error) {
	raw, err := s.generate(ctx, prompt, tier)
	if err != nil {
		return nil, err
	}

	result, err := parsing.NormalizeText(raw)
	if err != nil {
		return nil, err
	}

	if verr := schemas.ValidateAnalysisPayload(string(result.Payload)); verr != nil {
		logger.Warn().Err(verr).Msg("model payload does not match schema")
	}
	return result, nil
}

func (s *Service) generate(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if s.client == nil {
		return "", &UpstreamError{Message: "no model client configured"}
	}

	raw, err := s.client.GenerateContent(ctx, prompt, tier)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &UpstreamError{Message: "model call failed", Cause: err}
	}
	return raw, nil
}

func (s *Service) save(ctx context.Context, kind string, result *types.AnalysisResult) {
	if s.archive == nil {
		return
	}
	if _, err := s.archive.SaveAnalysis(ctx, kind, result); err != nil {
		logger.Warn().Err(err).Str("kind", kind).Msg("failed to archive analysis")
	}
}
