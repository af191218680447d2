package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/boardkit/boardkit/internal/handler/dto"
	"github.com/boardkit/boardkit/internal/service"
)

// Authenticator is the auth service as seen by HTTP handlers.
type Authenticator interface {
	SignUp(ctx context.Context, input service.SignUpInput) (*service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (*service.AuthResult, error)
}

// Error codes returned in dto.ErrorBody.Code.
const (
	CodeLoginRequired    = "loginRequired"
	CodePasswordRequired = "passwordRequired"
	CodeLoginRegistered  = "loginRegistered"
	CodeAccessDenied     = "accessDenied"
	CodeWrongCredentials = "wrongCredentials"
	CodeBadToken         = "badToken"
	CodeInvalidBody      = "invalidBody"
	CodePayloadTooLarge  = "payloadTooLarge"
	CodeInternalError    = "internalError"
)

type errorKind struct {
	status  int
	code    string
	message string
}

var (
	errInvalidBody     = errorKind{http.StatusBadRequest, CodeInvalidBody, "Request body must be a JSON object"}
	errPayloadTooLarge = errorKind{http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body too large"}
	errInternal        = errorKind{http.StatusInternalServerError, CodeInternalError, "An internal error occurred"}
)

// serviceErrors translates service sentinels into client errors.
var serviceErrors = []struct {
	err  error
	kind errorKind
}{
	{service.ErrLoginRequired, errorKind{http.StatusBadRequest, CodeLoginRequired, "Login is required"}},
	{service.ErrPasswordRequired, errorKind{http.StatusBadRequest, CodePasswordRequired, "Password is required"}},
	{service.ErrLoginRegistered, errorKind{http.StatusBadRequest, CodeLoginRegistered, "Login is already registered"}},
	{service.ErrAccessDenied, errorKind{http.StatusForbidden, CodeAccessDenied, "Login and password are required"}},
	{service.ErrWrongCredentials, errorKind{http.StatusForbidden, CodeWrongCredentials, "Wrong login or password"}},
	{service.ErrBadToken, errorKind{http.StatusForbidden, CodeBadToken, "Token is invalid"}},
}

// AuthHandler handles sign-up and login.
type AuthHandler struct {
	svc         Authenticator
	tokenHeader string
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
// tokenHeader names the header carrying session tokens in both directions.
func NewAuthHandler(svc Authenticator, tokenHeader string, logger *slog.Logger) *AuthHandler {
	if tokenHeader == "" {
		tokenHeader = "X-Auth"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		svc:         svc,
		tokenHeader: tokenHeader,
		logger:      logger,
	}
}

// SignUp registers a user.
// POST /signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	result, err := h.svc.SignUp(r.Context(), service.SignUpInput{
		Login:      req.Login,
		Password:   req.Password,
		PublicName: req.PublicName,
		Userpic:    req.Userpic,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set(h.tokenHeader, result.Token)
	writeJSON(w, http.StatusOK, result.User.ToProfile())
}

// Login authenticates by token header or by credentials.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), service.LoginInput{
		Login:    req.Login,
		Password: req.Password,
		Token:    r.Header.Get(h.tokenHeader),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if result.Token != "" {
		w.Header().Set(h.tokenHeader, result.Token)
	}
	writeJSON(w, http.StatusOK, result.User.ToProfile())
}

// decodeBody decodes a JSON object. An empty body decodes as {}.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeDecodeError reports a body that hit the size limit or is not a JSON object.
// Chunked bodies have no Content-Length, so the limit only trips while decoding.
func (h *AuthHandler) writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.writeError(w, errPayloadTooLarge)
		return
	}
	h.writeError(w, errInvalidBody)
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			h.writeError(w, e.kind)
			return
		}
	}
	h.logger.Error("internal_error", "error", err)
	h.writeError(w, errInternal)
}

// writeError writes an error response.
func (h *AuthHandler) writeError(w http.ResponseWriter, kind errorKind) {
	writeJSON(w, kind.status, dto.ErrorResponse{
		Error: dto.ErrorBody{
			Code:    kind.code,
			Message: kind.message,
		},
	})
}
