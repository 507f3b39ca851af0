// Package respond writes the JSON envelopes shared by every endpoint.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
	"github.com/rs/zerolog/log"
)

// MaxBodyBytes caps request bodies accepted by DecodeJSON.
const MaxBodyBytes = 1 << 20

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope is the top-level JSON document for every response.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// JSON writes a success envelope around data.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Status: statusSuccess, Data: data})
}

// JSONMessage writes a success envelope with a human-readable message.
func JSONMessage(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, Envelope{Status: statusSuccess, Data: data, Message: message})
}

// List writes a success envelope around a collection and its length.
func List(w http.ResponseWriter, items any, count int) {
	write(w, http.StatusOK, Envelope{Status: statusSuccess, Data: items, Count: &count})
}

// Error maps err to a status code and writes an error envelope. Causes are
// logged, never sent to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Wrap(apperrors.CodeUnknown, "internal server error", err)
	}
	status := apperrors.HTTPStatus(appErr.Code)

	event := log.Debug()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("code", string(appErr.Code)).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request failed")

	write(w, status, Envelope{Status: statusError, Code: string(appErr.Code), Message: appErr.Message})
}

// DecodeJSON reads a size-limited JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.Wrap(apperrors.CodeValidation, "request body too large", err)
		case errors.Is(err, io.EOF):
			return apperrors.Wrap(apperrors.CodeValidation, "request body is required", err)
		default:
			return apperrors.Wrap(apperrors.CodeValidation, "invalid request body", err)
		}
	}
	return nil
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}
