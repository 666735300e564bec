package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	dErrors "keygate/pkg/domain-errors"
)

// DecodeJSON decodes a JSON request body into the target type.
// Returns the decoded value and true on success.
// On failure, writes an error response and returns nil, false.
//
// Decoding is strict: unknown fields and wrong-typed values (for example a
// numeric signature) are caller errors, rejected before any domain work.
//
// Usage:
//
//	req, ok := httputil.DecodeJSON[VerifyRequest](w, r, h.logger)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeDecodeError(w, r, logger, err)
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var req T
	if err := dec.Decode(&req); err != nil {
		writeDecodeError(w, r, logger, err)
		return nil, false
	}
	return &req, true
}

func writeDecodeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if logger != nil {
		logger.WarnContext(r.Context(), "failed to decode request body", "error", err)
	}
	WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
}

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// DecodeAndValidate combines JSON decoding with request validation.
// It decodes the JSON body, then calls Validate() if the target type
// implements Validatable.
func DecodeAndValidate[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger)
	if !ok {
		return nil, false
	}
	if v, ok := any(req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			if logger != nil {
				logger.WarnContext(r.Context(), "invalid request", "error", err)
			}
			WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, err.Error()))
			return nil, false
		}
	}
	return req, true
}
