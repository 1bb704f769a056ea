package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/docket-app/docket/internal/auth"
	"github.com/docket-app/docket/internal/config"
	"github.com/docket-app/docket/internal/domain/user"
	"github.com/docket-app/docket/internal/http/middlewares"
	"github.com/docket-app/docket/internal/observability"
	"github.com/docket-app/docket/internal/session"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, name, password string) (session.Identity, error)
	Register(ctx context.Context, name, email, password, confirm string) (int64, error)
}

type SessionWriter interface {
	Login(ctx context.Context, identity session.Identity) (string, error)
	Logout(ctx context.Context, token string) (removed bool, err error)
	TTL() time.Duration
}

type AuthHandler struct {
	auth     Authenticator
	sessions SessionWriter
	prom     *observability.Prom
	cfg      config.Config
}

func NewAuthHandler(authService Authenticator, sessions SessionWriter, prom *observability.Prom, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		sessions: sessions,
		prom:     prom,
		cfg:      cfg,
	}
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=60"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=40"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	id, err := h.auth.Register(cctx, req.Name, req.Email, req.Password, req.ConfirmPassword)

	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordMismatch):
			h.countAuth("register", "denied")
			RespondError(ctx, http.StatusBadRequest, "password_mismatch", "Passwords do not match.", gin.H{"field": "confirmPassword"})
		case errors.Is(err, user.ErrDuplicateCredential):
			h.countAuth("register", "denied")
			RespondConflict(ctx, "duplicate_credential", "That username and/or email already exists.")
		default:
			h.countAuth("register", "error")
			RespondInternal(ctx, "Could not create user")
		}
		return
	}

	h.countAuth("register", "ok")

	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	identity, err := h.auth.Authenticate(cctx, req.Name, req.Password)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.countAuth("login", "denied")
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid username or password.")
			return
		}

		h.countAuth("login", "error")
		RespondInternal(ctx, "Could not log in")
		return
	}

	token, err := h.sessions.Login(cctx, identity)

	if err != nil {
		h.countAuth("login", "error")
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.countAuth("login", "ok")

	if h.prom != nil {
		h.prom.SessionsActive.Inc()
	}

	h.setSessionCookie(ctx, token)

	ctx.Status(http.StatusNoContent)
}

// Logout destroys the session if one is presented. Logging out while
// anonymous still clears the cookie and succeeds.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	token, err := ctx.Cookie(middlewares.SessionCookie)

	if err == nil && token != "" {
		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		// only count logouts that removed a live record, otherwise replayed
		// or expired tokens would drag the gauge negative
		if removed, err := h.sessions.Logout(cctx, token); err == nil && removed && h.prom != nil {
			h.prom.SessionsActive.Dec()
		}
	}

	h.clearSessionCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

// Me echoes the identity of the current session.
func (h *AuthHandler) Me(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	ctx.JSON(http.StatusOK, identity)
}

// Helper functions

func (h *AuthHandler) countAuth(op, result string) {
	if h.prom != nil {
		h.prom.AuthResults.WithLabelValues(op, result).Inc()
	}
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	maxAge := int(h.sessions.TTL().Seconds())

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		middlewares.SessionCookie,
		token,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		middlewares.SessionCookie,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
