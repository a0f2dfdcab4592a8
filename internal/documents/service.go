package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/types"
)

// Archive persists generated documents. *db.DB implements it.
type Archive interface {
	SaveDocument(ctx context.Context, doc *db.Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*db.Document, error)
	ListDocuments(ctx context.Context, limit int) ([]db.DocumentSummary, error)
}

// Renderer turns résumé data into LaTeX source.
type Renderer func(data *types.ResumeData) (string, error)

// Service validates, renders and publishes résumés.
type Service struct {
	slot    *Slot
	render  Renderer
	archive Archive
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithArchive stores every generated document in a.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithRenderer replaces the built-in template renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.render = r }
}

// WithTemplate renders with the template file at path instead of the built-in one.
func WithTemplate(path string) Option {
	return func(s *Service) {
		s.render = func(data *types.ResumeData) (string, error) {
			return rendering.RenderResumeWithTemplate(data, path)
		}
	}
}

// NewService returns a Service that publishes into slot.
func NewService(slot *Slot, opts ...Option) *Service {
	s := &Service{
		slot:   slot,
		render: rendering.RenderResume,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates data, renders it, and publishes the result to the slot.
// A missing name is rejected with *types.FieldError before any rendering.
// Archive failures are logged and do not fail the submission.
func (s *Service) Submit(ctx context.Context, data *types.ResumeData) (Document, error) {
	if err := data.Validate(); err != nil {
		return Document{}, err
	}

	latex, err := s.render(data)
	if err != nil {
		return Document{}, fmt.Errorf("failed to render resume: %w", err)
	}

	doc := Document{
		ID:          uuid.New(),
		Name:        data.Name.String(),
		LaTeX:       latex,
		GeneratedAt: s.now().UTC(),
	}

	if s.archive != nil {
		record := &db.Document{ID: doc.ID, Name: doc.Name, LaTeX: latex, Resume: data}
		if err := s.archive.SaveDocument(ctx, record); err != nil {
			logger.Warn().Err(err).Str("document_id", doc.ID.String()).Msg("failed to archive document")
		}
	}

	s.slot.Publish(doc)
	logger.Info().
		Str("document_id", doc.ID.String()).
		Int("bytes", len(latex)).
		Msg("published resume document")

	return doc, nil
}

// Poll returns the latest document if it has not been seen yet.
func (s *Service) Poll() (Document, bool) {
	return s.slot.Poll()
}

// Lookup fetches an archived document. It returns ErrNoArchive when the service
// has no archive and ErrNotFound when the ID is unknown.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (*db.Document, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	doc, err := s.archive.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Recent lists archived documents, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]db.DocumentSummary, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	return s.archive.ListDocuments(ctx, limit)
}
