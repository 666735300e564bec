package httptransport

import (
	"log/slog"
	"net/http"

	"keygate/internal/license"
	"keygate/internal/verdict"
	dErrors "keygate/pkg/domain-errors"
	"keygate/pkg/platform/httputil"
)

// Handler is the thin HTTP layer. It delegates to the license service
// without embedding business logic so transport concerns remain isolated.
type Handler struct {
	service *license.Service
	logger  *slog.Logger
}

// NewHandler creates the license transport handler.
func NewHandler(service *license.Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type issueRequest struct {
	Key string `json:"key"`
}

func (r *issueRequest) Validate() error {
	if r.Key == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "key is required")
	}
	return nil
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndValidate[issueRequest](w, r, h.logger)
	if !ok {
		return
	}

	sv, err := h.service.Issue(r.Context(), req.Key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sv)
}

// verifyRequest accepts both scheme shapes: {key, signature} for the
// symmetric scheme and {payload, signature} for the asymmetric one.
type verifyRequest struct {
	Key       string           `json:"key,omitempty"`
	Payload   *verdict.Payload `json:"payload,omitempty"`
	Signature string           `json:"signature"`
}

type verdictResponse struct {
	Valid bool `json:"valid"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[verifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	valid, err := h.service.Verify(r.Context(), license.VerifyInput{
		Key:       req.Key,
		Payload:   req.Payload,
		Signature: req.Signature,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verdictResponse{Valid: valid})
}

type tokenIssueRequest struct {
	Key string `json:"key"`
}

func (r *tokenIssueRequest) Validate() error {
	if r.Key == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "key is required")
	}
	return nil
}

func (h *Handler) handleTokenIssue(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndValidate[tokenIssueRequest](w, r, h.logger)
	if !ok {
		return
	}

	issued, err := h.service.IssueToken(r.Context(), req.Key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, issued)
}

type tokenVerifyRequest struct {
	Token string `json:"token"`
}

func (r *tokenVerifyRequest) Validate() error {
	if r.Token == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "token is required")
	}
	return nil
}

func (h *Handler) handleTokenVerify(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndValidate[tokenVerifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	valid, err := h.service.VerifyToken(r.Context(), req.Token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verdictResponse{Valid: valid})
}
