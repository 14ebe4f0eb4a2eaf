package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/constructia/platform-api/internal/api/metrics"
	"github.com/constructia/platform-api/internal/core/domain"
	"github.com/constructia/platform-api/internal/core/ports"
)

// SessionContextKey is where the guard stores the resolved session record.
const SessionContextKey = "session"

// restrictedResponse is the default panel shown to unauthenticated callers.
type restrictedResponse struct {
	Error string `json:"error"`
	Home  string `json:"home"`
}

// SessionGuard authenticates requests against the session store. The bearer
// token is only a signed pointer (kind plus email) and the store stays the
// single source of truth: a token whose session is gone, expired, or owned by
// a different email reads as unauthenticated. One store read per request.
//
// fallback, when non-nil, replaces the default "access restricted" panel.
func SessionGuard(jwtSecret string, sessions ports.SessionManager, fallback echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			kind, email, ok := parseSessionToken(c.Request().Header.Get("Authorization"), jwtSecret)
			if !ok {
				return restricted(c, fallback)
			}

			record := sessions.Read(c.Request().Context(), kind)
			if record == nil {
				metrics.SessionMissesTotal.WithLabelValues(string(kind)).Inc()
				return restricted(c, fallback)
			}
			if record.Email() != email {
				// Token survived a re-login by a different account.
				return restricted(c, fallback)
			}

			c.Set(SessionContextKey, record)
			return next(c)
		}
	}
}

func restricted(c echo.Context, fallback echo.HandlerFunc) error {
	if fallback != nil {
		return fallback(c)
	}
	return c.JSON(http.StatusUnauthorized, restrictedResponse{
		Error: "access restricted",
		Home:  "/",
	})
}

// parseSessionToken validates the bearer token and extracts the session
// pointer. Any structural or signature problem reads as "no token".
func parseSessionToken(authHeader, secret string) (domain.SessionKind, string, bool) {
	if authHeader == "" {
		return "", "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", "", false
	}

	kind, _ := claims["kind"].(string)
	email, _ := claims["email"].(string)
	sk := domain.SessionKind(kind)
	if !sk.Valid() || email == "" {
		return "", "", false
	}
	return sk, email, true
}

// SessionFromContext returns the record attached by SessionGuard, or nil.
func SessionFromContext(c echo.Context) *domain.SessionRecord {
	record, _ := c.Get(SessionContextKey).(*domain.SessionRecord)
	return record
}
