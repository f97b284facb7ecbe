package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/brightreel/video-crm/api/internal/auth"
)

// JWT verifies back-office access tokens and stores the account identity in
// the request context.
func JWT(tokens *authpkg.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "missing authorization header"})
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "invalid authorization header"})
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "invalid token"})
			}

			c.Set(ContextKeyUserID, claims.Subject)
			c.Set(ContextKeyUserEmail, claims.Email)
			c.Set(ContextKeyUserRole, claims.Role)

			return next(c)
		}
	}
}
