package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Envelope wraps data in the standard API response shape
func Envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": logger.Timestamp(time.Now()),
		},
	}
}

// WriteJSON writes body as JSON with the given status
func WriteJSON(w http.ResponseWriter, log zerolog.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteData writes data inside the standard envelope
func WriteData(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	WriteJSON(w, log, status, Envelope(data))
}

// WriteError maps err to a status code: validation 400, not found 404,
// anything else 500. Internal errors are logged and not echoed.
func WriteError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case domain.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case domain.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("Request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ParseID reads a positive integer URL parameter
func ParseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(param, "%s must be a positive integer", param)
	}
	return id, nil
}

// ParsePage reads limit and offset query parameters
func ParsePage(r *http.Request) (domain.Page, error) {
	var page domain.Page
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, domain.Invalid("limit", "limit must be an integer")
		}
		page.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, domain.Invalid("offset", "offset must be an integer")
		}
		page.Offset = n
	}
	return page, page.Validate()
}

// ParseDateRange reads the start and end query parameters
func ParseDateRange(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	dr := domain.DateRange{Start: q.Get("start"), End: q.Get("end")}
	return dr, dr.Validate()
}

// DecodeJSON decodes the request body into v
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("body", "invalid request body: %v", err)
	}
	return nil
}
