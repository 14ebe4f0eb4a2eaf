package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/constructia/platform-api/internal/api/metrics"
	"github.com/constructia/platform-api/internal/api/middleware"
	"github.com/constructia/platform-api/internal/core/domain"
	"github.com/constructia/platform-api/internal/core/ports"
)

// AuthHandler serves the client login flow and the session/logout endpoints
// shared by both kinds.
type AuthHandler struct {
	auth      ports.Authenticator
	sessions  ports.SessionManager
	audit     ports.AuditLogger
	jwtSecret string
	log       zerolog.Logger
}

func NewAuthHandler(auth ports.Authenticator, sessions ports.SessionManager, audit ports.AuditLogger, jwtSecret string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		sessions:  sessions,
		audit:     audit,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

type clientLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  *domain.Principal `json:"user"`
}

type sessionResponse struct {
	Session *domain.SessionRecord `json:"session"`
}

type logoutResponse struct {
	Redirect string `json:"redirect"`
}

// ClientLogin authenticates a construction client and establishes its session.
//
// @Summary      Client login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      clientLoginRequest  true  "Client credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/client/login [post]
func (h *AuthHandler) ClientLogin(c echo.Context) error {
	var req clientLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	principal, err := h.auth.Authenticate(c.Request().Context(), domain.KindClient, req.Email, req.Password)
	if err != nil || principal == nil {
		metrics.LoginsTotal.WithLabelValues(string(domain.KindClient), "failure").Inc()
		// Every miss reads the same so callers cannot probe which emails exist.
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	return h.establish(c, principal, domain.KindClient)
}

// establish persists the session, mints the pointer token, and emits the
// audit event. Shared by the client and admin login paths.
func (h *AuthHandler) establish(c echo.Context, principal *domain.Principal, kind domain.SessionKind) error {
	if ok := h.sessions.Establish(c.Request().Context(), principal, kind); !ok {
		metrics.LoginsTotal.WithLabelValues(string(kind), "failure").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "could not establish session")
	}

	token, err := h.signSessionToken(kind, principal.Email())
	if err != nil {
		h.log.Error().Err(err).Msg("sign session token")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not establish session")
	}

	metrics.LoginsTotal.WithLabelValues(string(kind), "success").Inc()
	h.audit.Log(c.Request().Context(), string(kind)+"_login", "sessions", principal.ID(), nil, map[string]string{"email": principal.Email()})

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: principal})
}

// Session returns the caller's live session record.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	record := middleware.SessionFromContext(c)
	if record == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session expired"})
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: record})
}

// Logout destroys the caller's session and points the dashboard home.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  logoutResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	record := middleware.SessionFromContext(c)
	if record != nil {
		h.sessions.Destroy(c.Request().Context(), record.Kind)
		h.audit.Log(c.Request().Context(), string(record.Kind)+"_logout", "sessions", record.Principal().ID(), nil, nil)
	}
	return c.JSON(http.StatusOK, logoutResponse{Redirect: "/"})
}

// signSessionToken mints the bearer token handed to the dashboard. It only
// points at a session slot; the store remains authoritative for liveness.
func (h *AuthHandler) signSessionToken(kind domain.SessionKind, email string) (string, error) {
	claims := jwt.MapClaims{
		"kind":  string(kind),
		"email": email,
		"exp":   time.Now().Add(domain.SessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(h.jwtSecret))
}
