// Package handler contains the HTTP handlers of the VH7 API. It decodes
// JSON bodies, maps service errors to status codes and renders the public
// models.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/models"
)

// maxJSONBody limits JSON request bodies. Pastes are the largest of them.
const maxJSONBody = 1 << 20

// badRequest is a client error in the request body, answered with status.
type badRequest struct {
	status int
	msg    string
}

func (e *badRequest) Error() string { return e.msg }

func rejectBody(status int, format string, args ...any) *badRequest {
	return &badRequest{status: status, msg: fmt.Sprintf(format, args...)}
}

// decodeJSONBody reads exactly one JSON object from the request body into
// dst. Unknown fields, trailing data and bodies over maxJSONBody are
// rejected with a *badRequest.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := strings.Cut(ct, ";")
		if !strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
			return rejectBody(http.StatusUnsupportedMediaType, "Content-Type header is not application/json")
		}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return explainDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return rejectBody(http.StatusBadRequest, "Request body must only contain a single JSON object")
	}
	return nil
}

func explainDecodeError(err error) error {
	const unknownField = "json: unknown field "

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return rejectBody(http.StatusBadRequest, "Request body contains badly-formed JSON (at position %d)", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return rejectBody(http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &typeErr):
		return rejectBody(http.StatusBadRequest, "Request body contains an invalid value for the %q field (at position %d)", typeErr.Field, typeErr.Offset)
	case strings.HasPrefix(err.Error(), unknownField):
		return rejectBody(http.StatusBadRequest, "Request body contains unknown field %s", strings.TrimPrefix(err.Error(), unknownField))
	case errors.Is(err, io.EOF):
		return rejectBody(http.StatusBadRequest, "Request body must not be empty")
	case isMaxBytesError(err):
		return rejectBody(http.StatusRequestEntityTooLarge, "Request body must not be larger than 1MB")
	}
	return err
}

func isMaxBytesError(err error) bool {
	var tooLong *http.MaxBytesError
	return errors.As(err, &tooLong)
}

// decode decodes a JSON body into dst and answers malformed requests. It
// reports whether the handler should go on.
func decode(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	err := decodeJSONBody(w, r, dst)
	if err == nil {
		return true
	}

	var bad *badRequest
	if errors.As(err, &bad) {
		writeJSON(w, bad.status, models.ErrorResponse{Errors: []string{bad.msg}})
		return false
	}

	logger.Error("failed to decode request body", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Errors: []string{http.StatusText(http.StatusInternalServerError)}})
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body == nil {
		return
	}
	// The status is already sent, a failed write can only be dropped.
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors to HTTP statuses. Anything unknown is
// logged and reported as an internal error.
func writeError(w http.ResponseWriter, err error, logger *zap.Logger) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	messages := service.Messages(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		messages = nil
	}
	if len(messages) == 0 {
		messages = []string{http.StatusText(status)}
	}

	writeJSON(w, status, models.ErrorResponse{Errors: messages})
}

// createdStatus is 201 for new links and 200 when an existing one was
// returned.
func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func owner(r *http.Request, bucketID *int64) service.Owner {
	return service.Owner{User: middleware.UserFrom(r.Context()), BucketID: bucketID}
}
