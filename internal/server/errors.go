package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/resume-studio/internal/analysis"
	"github.com/jonathan/resume-studio/internal/documents"
	"github.com/jonathan/resume-studio/internal/fetch"
	"github.com/jonathan/resume-studio/internal/ingestion"
	"github.com/jonathan/resume-studio/internal/logger"
	"github.com/jonathan/resume-studio/internal/parsing"
	"github.com/jonathan/resume-studio/internal/types"
)

// ErrModelUnavailable is returned by model-backed routes when no API key is configured.
var ErrModelUnavailable = errors.New("model is not configured")

// UnparseableResponseMessage is the error text for model answers with no usable JSON.
const UnparseableResponseMessage = "could not interpret model response"

// HTTPStatus maps a service error to its response status.
func HTTPStatus(err error) int {
	var (
		fieldErr   *types.FieldError
		typeErr    *ingestion.UnsupportedTypeError
		extractErr *ingestion.ExtractError
		parseErr   *parsing.ParseError
		upErr      *analysis.UpstreamError
		fetchErr   *fetch.Error
		sizeErr    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest
	case errors.As(err, &sizeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &typeErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractErr), errors.Is(err, ingestion.ErrEmptyDocument):
		return http.StatusUnprocessableEntity
	case errors.As(err, &parseErr), errors.As(err, &upErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, documents.ErrNotFound), errors.Is(err, documents.ErrNoArchive):
		return http.StatusNotFound
	case errors.Is(err, ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status for err. Unparseable model output also
// carries the raw answer; internal errors are logged and hidden.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	var parseErr *parsing.ParseError
	if errors.As(err, &parseErr) {
		s.jsonResponse(w, status, map[string]string{
			"error": UnparseableResponseMessage,
			"raw":   parseErr.Raw,
		})
		return
	}

	if status == http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
