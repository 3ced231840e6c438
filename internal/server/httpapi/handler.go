package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

type CredentialStore interface {
	Register(ctx context.Context, username, password string) (bool, error)
	Verify(ctx context.Context, username, password string) (bool, error)
}

type TokenService interface {
	IssueClaims(subject string) (string, *auth.Claims, error)
	Validate(token string) (*auth.Claims, error)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Username string `json:"username"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type meResponse struct {
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	credentials CredentialStore
	tokens      TokenService
	logger      logging.Logger
}

// NewRouter wires the API routes. The /metrics endpoint is mounted only when
// g is not nil.
func NewRouter(creds CredentialStore, tokens TokenService, l logging.Logger, g prometheus.Gatherer) http.Handler {
	h := &Handler{
		credentials: creds,
		tokens:      tokens,
		logger:      l.With("module", "http_api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	if g != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(g))
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.With(Authenticator(tokens, h.logger)).Get("/me", h.Me)
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	created, err := h.credentials.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, common.ErrKDFUnavailable):
			busy(w)
		default:
			h.logger.Error(r.Context(), "registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if !created {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Username: req.Username})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	verified, err := h.credentials.Verify(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			verified = false
		case errors.Is(err, common.ErrKDFUnavailable):
			busy(w)
			return
		default:
			h.logger.Error(r.Context(), "login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	if !verified {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, claims, err := h.tokens.IssueClaims(req.Username)
	if err != nil {
		h.logger.Error(r.Context(), "token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   common.BearerScheme,
		ExpiresAt:   claims.ExpiresAtTime(),
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		Username:  claims.Subject,
		IssuedAt:  claims.IssuedAtTime(),
		ExpiresAt: claims.ExpiresAtTime(),
	})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (*credentialsRequest, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	req := &credentialsRequest{}
	if err := dec.Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	return req, true
}

func busy(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	writeError(w, http.StatusServiceUnavailable, "service busy, retry later")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
