package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/analysis"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/types"
)

// SubmitResponse is returned by POST /resume.
type SubmitResponse struct {
	Message string `json:"message"`
	LaTeX   string `json:"latex"`
	ID      string `json:"id"`
}

// PollResponse is returned by GET /resume. LaTeX is empty unless Updated.
type PollResponse struct {
	LaTeX   string `json:"latex"`
	Updated bool   `json:"updated"`
}

// EnhanceRequest is the body of POST /enhance.
type EnhanceRequest struct {
	FormData       *types.ResumeData `json:"formData"`
	JobDescription string            `json:"jobDescription"`
}

// EnhanceResponse is returned by POST /enhance. LaTeX is empty when the
// enhanced résumé could not be rendered.
type EnhanceResponse struct {
	Enhanced *types.ResumeData `json:"enhanced"`
	LaTeX    string            `json:"latex"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSubmitResume renders posted résumé data and publishes it for polling.
func (s *Server) handleSubmitResume(w http.ResponseWriter, r *http.Request) {
	var data types.ResumeData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, err := s.documents.Submit(r.Context(), &data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, SubmitResponse{
		Message: "LaTeX generated successfully",
		LaTeX:   doc.LaTeX,
		ID:      doc.ID.String(),
	})
}

// handlePollResume hands out the latest document once per submission.
func (s *Server) handlePollResume(w http.ResponseWriter, _ *http.Request) {
	doc, updated := s.documents.Poll()
	s.jsonResponse(w, http.StatusOK, PollResponse{LaTeX: doc.LaTeX, Updated: updated})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, &types.FieldError{Field: "id", Message: "must be a UUID"})
		return
	}

	doc, err := s.documents.Lookup(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, &types.FieldError{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = min(n, 200)
	}

	docs, err := s.documents.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleATSScore(w http.ResponseWriter, r *http.Request) {
	s.runAnalysis(w, r, func(req analysis.Request) (any, error) {
		return s.analysis.Score(r.Context(), req)
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.runAnalysis(w, r, func(req analysis.Request) (any, error) {
		return s.analysis.Guide(r.Context(), req)
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.runAnalysis(w, r, func(req analysis.Request) (any, error) {
		return s.analysis.Report(r.Context(), req)
	})
}

func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request, run func(analysis.Request) (any, error)) {
	if s.analysis == nil {
		s.writeError(w, r, ErrModelUnavailable)
		return
	}

	req, err := s.readAnalysisRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := run(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// readAnalysisRequest reads the multipart form shared by the analysis routes:
// jobDescription (or jobUrl), a résumé file (or resumeText), role and strictATS.
func (s *Server) readAnalysisRequest(w http.ResponseWriter, r *http.Request) (analysis.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var sizeErr *http.MaxBytesError
		if errors.As(err, &sizeErr) {
			return analysis.Request{}, sizeErr
		}
		return analysis.Request{}, &types.FieldError{Field: "body", Message: "must be multipart/form-data"}
	}

	req := analysis.Request{
		JobDescription: strings.TrimSpace(r.FormValue("jobDescription")),
		Role:           r.FormValue("role"),
		StrictATS:      formBool(r.FormValue("strictATS")),
	}

	if req.JobDescription == "" {
		if jobURL := strings.TrimSpace(r.FormValue("jobUrl")); jobURL != "" {
			text, err := s.fetchJob(r.Context(), jobURL)
			if err != nil {
				return analysis.Request{}, err
			}
			req.JobDescription = text
		}
	}

	resume, err := readResume(r)
	if err != nil {
		return analysis.Request{}, err
	}
	req.Resume = resume

	return req, req.Validate()
}

func readResume(r *http.Request) (string, error) {
	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return strings.TrimSpace(r.FormValue("resumeText")), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read resume upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read resume upload: %w", err)
	}
	return ingestion.ExtractText(r.Context(), data, header.Header.Get("Content-Type"), header.Filename)
}

// formBool accepts HTML checkbox values as well as strconv booleans.
func formBool(v string) bool {
	if strings.EqualFold(v, "on") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// handleEnhance rewrites the posted résumé for a job and publishes the
// rendered result like a regular submission.
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	if s.analysis == nil {
		s.writeError(w, r, ErrModelUnavailable)
		return
	}

	var req EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.FormData == nil {
		s.writeError(w, r, &types.FieldError{Field: "formData", Message: "is required"})
		return
	}

	enhanced, err := s.analysis.Enhance(r.Context(), req.FormData, req.JobDescription)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := EnhanceResponse{Enhanced: enhanced}
	doc, err := s.documents.Submit(r.Context(), enhanced)
	if err != nil {
		logger.Ctx(r.Context()).Warn().Err(err).Msg("failed to render enhanced resume")
	} else {
		resp.LaTeX = doc.LaTeX
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
