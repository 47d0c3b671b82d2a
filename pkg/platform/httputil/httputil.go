// Package httputil centralizes the response envelope and domain error
// translation so every endpoint answers in the same shape.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "vaxadmin/pkg/domain-errors"
)

// Envelope is the uniform response shape: a status message, the HTTP status
// code, and the payload (null on errors).
type Envelope struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    any    `json:"data"`
}

// WriteJSON writes a success envelope with the given payload.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{
		Message: "success",
		Code:    status,
		Data:    data,
	})
}

// WriteError translates err into an error envelope. Domain errors keep their
// caller-safe message and mapped status; anything else collapses to a generic
// 500 with no internal detail.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.HTTPStatus(code)
	write(w, status, Envelope{
		Message: dErrors.MessageOf(err),
		Code:    status,
		Data:    nil,
	})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// Decode parses a JSON request body into dst, returning an InvalidInput
// domain error on malformed or oversized input.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}

// IsDomainError reports whether err carries a domain error code, i.e. whether
// its message is safe to surface. Handlers log non-domain errors with full
// detail before writing the generic envelope.
func IsDomainError(err error) bool {
	var de *dErrors.Error
	return errors.As(err, &de)
}
