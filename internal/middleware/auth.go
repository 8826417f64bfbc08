package middleware

import (
	"net/http"
	"strings"

	"github.com/flrdepot/crm-backend/internal/reqctx"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// TokenParser verifies an access token and returns the caller it names.
type TokenParser interface {
	ParseToken(token string) (service.Identity, error)
}

type AuthMiddleware struct {
	tokens TokenParser
}

func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, unauthorized("missing bearer token"))
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		id, err := m.tokens.ParseToken(tokenStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, unauthorized("invalid or expired token"))
		}
		c.Set(identityKey, id)
		req := c.Request()
		c.SetRequest(req.WithContext(reqctx.WithUserID(req.Context(), id.UserID)))
		return next(c)
	}
}

// IdentityFrom returns the caller placed on the context by RequireAuth.
func IdentityFrom(c echo.Context) (service.Identity, bool) {
	id, ok := c.Get(identityKey).(service.Identity)
	return id, ok
}

func unauthorized(msg string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]string{"code": "unauthorized", "message": msg},
	}
}
