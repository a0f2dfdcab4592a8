package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-studio/internal/types"
)

// -----------------------------------------------------------------------------
// Document Methods
// -----------------------------------------------------------------------------

// SaveDocument inserts a generated document. A nil ID is replaced with a new one
// and CreatedAt is filled from the database.
func (db *DB) SaveDocument(ctx context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	resumeJSON, err := json.Marshal(doc.Resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_documents (id, name, latex, resume)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		doc.ID, doc.Name, doc.LaTeX, resumeJSON,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID. It returns nil, nil when none exists.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	var resumeJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, name, latex, resume, created_at
		 FROM resume_documents WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.Name, &doc.LaTeX, &resumeJSON, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if resumeJSON != nil {
		var resume types.ResumeData
		if err := json.Unmarshal(resumeJSON, &resume); err == nil {
			doc.Resume = &resume
		}
	}

	return &doc, nil
}

// ListDocuments returns the most recent documents, newest first.
func (db *DB) ListDocuments(ctx context.Context, limit int) ([]DocumentSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, name, created_at FROM resume_documents
		 ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []DocumentSummary{}
	for rows.Next() {
		var d DocumentSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// -----------------------------------------------------------------------------
// Analysis Methods
// -----------------------------------------------------------------------------

// SaveAnalysis stores an analysis result and returns its ID.
// Absent scores are stored as NULL.
func (db *DB) SaveAnalysis(ctx context.Context, kind string, result *types.AnalysisResult) (uuid.UUID, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, kind, ats_score, keyword_match, result, raw)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, kind, scoreValue(result.ATSScore), scoreValue(result.KeywordMatch), resultJSON, result.Raw,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis retrieves an analysis by ID. It returns nil, nil when none exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	var a Analysis
	var resultJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, kind, result, created_at FROM analyses WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Kind, &resultJSON, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	a.Result = &result
	return &a, nil
}

func scoreValue(s types.Score) *float64 {
	if !s.Present {
		return nil
	}
	v := s.Value
	return &v
}
