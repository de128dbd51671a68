package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenVerifier checks a bearer token's signature, algorithm and expiry.
type TokenVerifier interface {
	Verify(token string) (jwt.MapClaims, error)
}

// Auth validates the bearer token and injects its claims into the request
// context: "sub" (principal id), "principal_type" ("customer" | "admin") and
// "role" (admins only).
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set("sub", claims["sub"])
			c.Set("principal_type", claims["type"])
			c.Set("role", claims["role"])

			return next(c)
		}
	}
}
