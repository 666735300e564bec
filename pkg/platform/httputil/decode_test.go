package httputil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "keygate/pkg/domain-errors"
)

type verifyRequest struct {
	Key       string `json:"key"`
	Signature string `json:"signature"`
}

func (r *verifyRequest) Validate() error {
	if r.Key == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "key is required")
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeJSON_Valid(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"abc123","signature":"deadbeef"}`))
	w := httptest.NewRecorder()

	req, ok := DecodeJSON[verifyRequest](w, r, discard())
	require.True(t, ok)
	assert.Equal(t, "abc123", req.Key)
	assert.Equal(t, "deadbeef", req.Signature)
}

func TestDecodeJSON_WrongTypedField(t *testing.T) {
	// Signature as a number is a caller error, not a signature mismatch.
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"abc123","signature":12345}`))
	w := httptest.NewRecorder()

	_, ok := DecodeJSON[verifyRequest](w, r, discard())
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
}

func TestDecodeJSON_MalformedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":`))
	w := httptest.NewRecorder()

	_, ok := DecodeJSON[verifyRequest](w, r, discard())
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeAndValidate_RunsValidation(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"","signature":"x"}`))
	w := httptest.NewRecorder()

	_, ok := DecodeAndValidate[verifyRequest](w, r, discard())
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "key is required")
}

func TestWriteError_DomainCodes(t *testing.T) {
	cases := []struct {
		code   dErrors.Code
		status int
	}{
		{dErrors.CodeInvalidInput, http.StatusBadRequest},
		{dErrors.CodeUnauthorized, http.StatusUnauthorized},
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeConfig, http.StatusInternalServerError},
		{dErrors.CodeSigningFailure, http.StatusInternalServerError},
		{dErrors.CodeRegistryUnavailable, http.StatusBadGateway},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(tc.code, "boom"))
		assert.Equal(t, tc.status, w.Code, "code %s", tc.code)
		assert.Contains(t, w.Body.String(), string(tc.code))
	}
}

func TestWriteError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}
