package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/retailpulse/retailpulse/internal/platform/httpx"
	"github.com/retailpulse/retailpulse/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	audit          *shared.AuditLogger
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		audit:          audit,
		validator:      validator.New(),
	}
}

// SessionManager exposes the session manager for middleware wiring.
func (h *Handler) SessionManager() *shared.SessionManager {
	return h.sessionManager
}

// CSRFManager exposes the CSRF manager for middleware wiring.
func (h *Handler) CSRFManager() *shared.CSRFManager {
	return h.csrfManager
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrf_token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.audit != nil {
			h.audit.LogFailure(r.Context(), "", shared.AuditActionLogin, "session", "", "invalid credentials")
		}
		httpx.Error(w, http.StatusUnauthorized, shared.ErrInvalidCredentials.Error())
		return
	}

	sess.SetUser(user.ID)
	csrfToken, err := h.csrfManager.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Error("issue csrf token", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if sess.ID != "" {
		if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("register session", slog.Any("error", err))
		}
	}
	if h.audit != nil {
		h.audit.RecordSafe(r.Context(), shared.AuditEntry{
			ActorID:   user.ID,
			Action:    shared.AuditActionLogin,
			Resource:  "session",
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
			Success:   true,
		})
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		UserID:    user.ID,
		Email:     user.Email,
		CSRFToken: csrfToken,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		if h.audit != nil && sess.User() != "" {
			h.audit.RecordSafe(r.Context(), shared.AuditEntry{
				ActorID:  sess.User(),
				Action:   shared.AuditActionLogout,
				Resource: "session",
				Success:  true,
			})
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
