package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/unit-converter/internal/domain"
	"github.com/go-chi/chi/v5"
)

const transport = "http"

// convertQuery is the query string of GET /api/v1/convert. An empty value is
// left to domain.ParseValue so it reports ErrEmptyValue.
type convertQuery struct {
	Category string `json:"category" validate:"required,max=64"`
	From     string `json:"from" validate:"required,max=64"`
	To       string `json:"to" validate:"required,max=64"`
	Value    string `json:"value" validate:"max=64"`
}

// convertResponse is the result plus a one-line summary for display.
type convertResponse struct {
	domain.ConversionResult
	Summary string `json:"summary"`
}

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.converter.Catalog().Describe())
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := s.converter.Catalog().Category(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat.View())
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := convertQuery{
		Category: q.Get("category"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Value:    q.Get("value"),
	}
	if err := s.validator.Validate(query); err != nil {
		s.writeError(w, err)
		return
	}

	value, err := domain.ParseValue(query.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.converter.Do(domain.ConversionRequest{
		Category: query.Category,
		From:     query.From,
		To:       query.To,
		Value:    value,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.metrics.Conversions.WithLabelValues(res.Category, transport).Inc()
	writeJSON(w, http.StatusOK, convertResponse{
		ConversionResult: res,
		Summary:          s.converter.Describe(res),
	})
}

// writeError maps domain and validation errors to a status and error code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.metrics.ConversionErrors.WithLabelValues(transport, "validation_failed").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
		return
	}

	reason := domain.ErrorReason(err)
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("unexpected api error", "error", err)
		reason = "internal"
	}
	s.metrics.ConversionErrors.WithLabelValues(transport, reason).Inc()
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: reason})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyValue), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedUnit):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
