package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/constructia/platform-api/internal/api/metrics"
	"github.com/constructia/platform-api/internal/core/domain"
	"github.com/constructia/platform-api/internal/core/ports"
)

// AdminHandler serves the two-step admin entry flow: open a gate, pass the
// shared passphrase, then log in with credentials.
type AdminHandler struct {
	gate ports.AdminGate
	auth *AuthHandler
}

func NewAdminHandler(gate ports.AdminGate, auth *AuthHandler) *AdminHandler {
	return &AdminHandler{gate: gate, auth: auth}
}

type gateResponse struct {
	GateToken string `json:"gate_token"`
	State     string `json:"state"`
}

type passphraseRequest struct {
	GateToken  string `json:"gate_token" validate:"required,uuid"`
	Passphrase string `json:"passphrase" validate:"required"`
}

type adminLoginRequest struct {
	GateToken string `json:"gate_token" validate:"required,uuid"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// OpenGate starts an admin entry attempt.
//
// @Summary      Open an admin gate
// @Tags         admin
// @Produce      json
// @Success      201  {object}  gateResponse
// @Router       /auth/admin/gate [post]
func (h *AdminHandler) OpenGate(c echo.Context) error {
	token := h.gate.Open(c.Request().Context())
	return c.JSON(http.StatusCreated, gateResponse{
		GateToken: token,
		State:     "awaiting_passphrase",
	})
}

// SubmitPassphrase advances a gate past the passphrase step.
//
// @Summary      Submit the admin passphrase
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      passphraseRequest  true  "Gate token and passphrase"
// @Success      200   {object}  gateResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/admin/gate/passphrase [post]
func (h *AdminHandler) SubmitPassphrase(c echo.Context) error {
	var req passphraseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.gate.SubmitPassphrase(c.Request().Context(), req.GateToken, req.Passphrase); err != nil {
		metrics.GateAttemptsTotal.WithLabelValues("passphrase", "failure").Inc()
		return c.JSON(gateStatus(err), map[string]string{"error": err.Error()})
	}

	metrics.GateAttemptsTotal.WithLabelValues("passphrase", "success").Inc()
	return c.JSON(http.StatusOK, gateResponse{
		GateToken: req.GateToken,
		State:     "awaiting_credentials",
	})
}

// Login completes the admin flow behind a passed gate.
//
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      adminLoginRequest  true  "Gate token and credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	principal, err := h.gate.SubmitCredentials(c.Request().Context(), req.GateToken, req.Username, req.Password)
	if err != nil || principal == nil {
		metrics.GateAttemptsTotal.WithLabelValues("credentials", "failure").Inc()
		metrics.LoginsTotal.WithLabelValues(string(domain.KindAdmin), "failure").Inc()
		if err == nil {
			err = domain.ErrInvalidCredentials
		}
		return c.JSON(gateStatus(err), map[string]string{"error": err.Error()})
	}

	metrics.GateAttemptsTotal.WithLabelValues("credentials", "success").Inc()
	return h.auth.establish(c, principal, domain.KindAdmin)
}

// gateStatus maps gate flow errors to deterministic HTTP codes.
func gateStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrGateNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPassphraseRequired):
		return http.StatusForbidden
	default:
		return http.StatusUnauthorized
	}
}
