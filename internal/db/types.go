package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/types"
)

// Document is an archived generated résumé.
type Document struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	LaTeX     string            `json:"latex"`
	Resume    *types.ResumeData `json:"resume"`
	CreatedAt time.Time         `json:"created_at"`
}

// DocumentSummary is a Document without its body, for listings.
type DocumentSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Analysis kinds
const (
	AnalysisKindATS      = "ats"
	AnalysisKindGuidance = "guidance"
)

// Analysis is an archived analysis result.
type Analysis struct {
	ID        uuid.UUID             `json:"id"`
	Kind      string                `json:"kind"`
	Result    *types.AnalysisResult `json:"result"`
	CreatedAt time.Time             `json:"created_at"`
}
