package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// emailContextKey is the echo context key carrying the authenticated email.
const emailContextKey = "auth.email"

// Middleware returns an echo middleware that requires a valid Bearer token
// and stores the authenticated email on the request context.
func Middleware(issuer *TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			email, err := issuer.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(emailContextKey, email)
			return next(c)
		}
	}
}

// EmailFromContext returns the authenticated email set by Middleware.
func EmailFromContext(c echo.Context) string {
	email, _ := c.Get(emailContextKey).(string)
	return email
}
