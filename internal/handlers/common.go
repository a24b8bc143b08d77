package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"users-api/internal/errs"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	userIDParam       = "userId"
	pageQueryParam    = "page"
	perPageQueryParam = "per_page"

	invalidBodyMessage = "invalid or missing request body"
	internalMessage    = "something went wrong"
)

var validate = validator.New()

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// respondJSON sends body as JSON with the given status
func respondJSON(w http.ResponseWriter, body interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Message: message}, statusCode)
}

// handleError maps a failure to its status code. Messages of server-side
// failures are logged and never sent to the client.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch errs.KindOf(err) {
	case errs.KindInvalidRequest:
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Invalid request")
		respondError(w, errs.Message(err), http.StatusBadRequest)
	case errs.KindNotFound:
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Resource not found")
		respondError(w, errs.Message(err), http.StatusNotFound)
	default:
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Server encountered an uncaught error")
		respondError(w, internalMessage, http.StatusInternalServerError)
	}
}

// decodeBody decodes and validates a JSON request body into dst. Unknown
// fields are ignored; anything after the first JSON value is not.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errs.InvalidRequest(invalidBodyMessage)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.InvalidRequest(invalidBodyMessage)
	}
	if err := validate.Struct(dst); err != nil {
		return errs.InvalidRequest(invalidBodyMessage)
	}
	return nil
}

// userIDFromPath returns the {userId} path parameter
func userIDFromPath(r *http.Request) (string, error) {
	userID := chi.URLParam(r, userIDParam)
	if userID == "" {
		return "", errs.InvalidRequest("missing user id param")
	}
	return userID, nil
}

// queryInt parses an optional integer query parameter. It returns nil when
// the parameter is absent.
func queryInt(r *http.Request, name string) (*int, error) {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	n, err := strconv.ParseInt(values[0], 10, 32)
	if err != nil {
		return nil, errs.InvalidRequest(name + " must be numerical")
	}
	v := int(n)
	return &v, nil
}
