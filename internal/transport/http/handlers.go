// @title Campus Gate Admin API
// @version 1.0.0
// @description Admin gateway for the academic platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session_id

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/secure"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/campusgate/campusgate/internal/audit"
	"github.com/campusgate/campusgate/internal/identity"
	"github.com/campusgate/campusgate/internal/observability/logger"
	"github.com/campusgate/campusgate/internal/platform"
	"github.com/campusgate/campusgate/internal/policy"
	"github.com/campusgate/campusgate/internal/session"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	sessionService *session.Service
	resolver       *identity.Resolver
	verifier       *identity.TokenVerifier
	bootstrap      *identity.Bootstrap
	platform       *platform.Client
	routes         *policy.RoutePolicy
	auditLogger    audit.Logger
	validate       *validator.Validate
	sessionConfig  SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	CookieMaxAge   int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sessionService *session.Service,
	resolver *identity.Resolver,
	verifier *identity.TokenVerifier,
	bootstrap *identity.Bootstrap,
	platformClient *platform.Client,
	routes *policy.RoutePolicy,
	auditLogger audit.Logger,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		sessionService: sessionService,
		resolver:       resolver,
		verifier:       verifier,
		bootstrap:      bootstrap,
		platform:       platformClient,
		routes:         routes,
		auditLogger:    auditLogger,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		sessionConfig:  sessionConfig,
	}
}

// RouterConfig carries the router-level wiring that is not a Handler
// dependency.
type RouterConfig struct {
	RateLimiter  *RateLimiter
	LoginLimiter *LoginLimiter
	Secure       *secure.Secure
	StaticFS     fs.FS
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if cfg.RateLimiter != nil {
		r.Use(RateLimitMiddleware(cfg.RateLimiter))
	}
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	if cfg.Secure != nil {
		r.Use(cfg.Secure.Handler)
	}

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.ResolveIdentity)
		r.Use(h.CSRFMiddleware)

		// Session state is readable in every resolution state; the SPA
		// polls it while loading.
		r.Get("/session", h.SessionState)

		// Authentication
		if cfg.LoginLimiter != nil {
			r.With(LoginLimitMiddleware(cfg.LoginLimiter)).Post("/auth/login", h.Login)
		} else {
			r.Post("/auth/login", h.Login)
		}
		r.Post("/auth/logout", h.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/auth/me", h.GetCurrentUser)
			r.Get("/navigation", h.GetNavigation)
			r.Get("/capabilities", h.GetCapabilities)

			h.mountResources(r)
		})
	})

	// Everything else is the admin SPA, behind the edge guard.
	if cfg.StaticFS != nil {
		r.NotFound(h.EdgeGuard(SPAHandler{StaticFS: cfg.StaticFS}).ServeHTTP)
	}

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "campusgate",
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.edu"`
	Password string `json:"password" validate:"required,min=1" example:"secret123"`
}

// Login handles user login
// @Summary Login
// @Description Authenticate against the platform and create a gateway session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	// Break-glass path: the bootstrap superadmin exists outside the
	// platform so the gateway stays reachable when the platform is down.
	if h.bootstrap != nil && h.bootstrap.Enabled() {
		if id, ok := h.bootstrap.Authenticate(req.Email, req.Password); ok {
			h.createSessionAndRespond(w, r, id, "", audit.TypeBootstrapLogin)
			return
		}
	}

	result, err := h.platform.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, platform.ErrUnauthorized) {
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeLoginFailed,
				Resource:  req.Email,
				IPAddress: getIPAddress(r),
				UserAgent: r.UserAgent(),
				Metadata:  map[string]any{"reason": "invalid_credentials"},
			})
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.ErrorContext(r.Context(), "platform login failed", logger.Error(err))
		respondError(w, http.StatusBadGateway, "platform unavailable")
		return
	}

	id, err := h.verifier.Verify(result.Access)
	if err != nil {
		// The platform issued a token the gateway cannot trust. Treat as
		// an authentication failure, not a server error.
		slog.ErrorContext(r.Context(), "platform token rejected",
			logger.Error(err),
			logger.Email(req.Email),
		)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.createSessionAndRespond(w, r, id, result.Access, audit.TypeLoginSuccess)
}

func (h *Handler) createSessionAndRespond(w http.ResponseWriter, r *http.Request, id *identity.Identity, platformToken, auditType string) {
	sess, err := h.sessionService.Create(r.Context(), id, platformToken, getIPAddress(r), r.UserAgent())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID)

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      auditType,
		ActorID:   id.UserID,
		Role:      id.Role.String(),
		Resource:  "session",
		IPAddress: getIPAddress(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{"session_id": sess.ID},
	})

	respondJSON(w, http.StatusOK, identityPayload(id))
}

// Logout handles user logout
// @Summary Logout
// @Description Destroy the current session
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := h.getSessionFromCookie(r)
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sess, err := h.sessionService.Get(r.Context(), sessionID)
	if err == nil {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeLogout,
			ActorID:   sess.UserID,
			Role:      sess.Role.String(),
			Resource:  "session",
			IPAddress: getIPAddress(r),
			UserAgent: r.UserAgent(),
			Metadata:  map[string]any{"session_id": sess.ID},
		})
		h.sessionService.Destroy(r.Context(), sessionID)
	}

	h.clearSessionCookie(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// SessionState reports the tri-state resolution of the current request.
// @Summary Session State
// @Description Report whether the caller is loading, authenticated or unauthenticated
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /session [get]
func (h *Handler) SessionState(w http.ResponseWriter, r *http.Request) {
	res := GetResolution(r.Context())

	body := map[string]any{"status": string(res.Status)}
	if res.Authenticated() {
		body["user"] = identityPayload(res.Identity)
	}
	respondJSON(w, http.StatusOK, body)
}

// GetCurrentUser returns the current authenticated user identity
// @Summary Get Current User
// @Description Retrieve details of the currently logged-in user
// @Tags User
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	id := GetIdentity(r.Context())
	respondJSON(w, http.StatusOK, identityPayload(id))
}

// GetCapabilities returns the action grants of the current role so the SPA
// can gate buttons without duplicating the permission table.
// @Summary Get Capabilities
// @Description Resource/action grants for the current role
// @Tags User
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /capabilities [get]
func (h *Handler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	id := GetIdentity(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"role":         id.Role,
		"capabilities": policy.Capabilities(id),
	})
}

func identityPayload(id *identity.Identity) map[string]any {
	return map[string]any{
		"user_id":   id.UserID,
		"email":     id.Email,
		"role":      id.Role,
		"school_id": id.SchoolID,
	}
}

// ResolveIdentity resolves the session cookie into a tri-state resolution and
// stores it in the request context. It never blocks the request; the guards
// decide what each state means for their route.
func (h *Handler) ResolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := h.getSessionFromCookie(r)
		res := h.resolver.Resolve(r.Context(), sessionID)

		ctx := WithResolution(r.Context(), res)
		if res.Authenticated() {
			ctx = context.WithValue(ctx, sessionIDKey, sessionID)

			// Sliding idle window
			if err := h.sessionService.Refresh(ctx, sessionID); err != nil {
				slog.ErrorContext(ctx, "failed to refresh session", logger.Error(err))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CSRFMiddleware protects against Cross-Site Request Forgery for
// state-changing requests. We enforce a custom header 'X-CSRF-Token'.
func (h *Handler) CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only enforce for state-changing methods
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions || r.Method == http.MethodTrace {
			next.ServeHTTP(w, r)
			return
		}

		csrfToken := r.Header.Get("X-CSRF-Token")
		if csrfToken == "" {
			slog.WarnContext(r.Context(), "missing CSRF token header", "method", r.Method, "path", r.URL.Path)
			respondError(w, http.StatusForbidden, "CSRF protection: X-CSRF-Token header is required for state-changing operations")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// platformToken returns the platform access token snapshotted into the
// caller's session. Bootstrap sessions carry no token.
func (h *Handler) platformToken(r *http.Request) (string, error) {
	sess, err := h.sessionService.Get(r.Context(), GetSessionID(r.Context()))
	if err != nil {
		return "", err
	}
	return sess.PlatformToken, nil
}

// Helper functions
func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   h.sessionConfig.CookieMaxAge,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
