// file: internals/middlewares/auth/jwt_middleware.go
package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "tutorku_backend/internals/helpers"
)

const (
	LocalsUserID = "user_id"
	LocalsRoles  = "roles"
)

// AuthJWT: verifikasi Bearer token HS256 dari identity provider di depan.
// Claims minimal: sub (user id) + roles ([]string).
func AuthJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return helper.JsonError(c, http.StatusServiceUnavailable, "auth not configured")
		}

		raw := c.Get("Authorization")
		token := strings.TrimPrefix(raw, "Bearer ")
		if token == raw || token == "" {
			return helper.JsonError(c, http.StatusUnauthorized, "missing bearer token")
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			return helper.JsonError(c, http.StatusUnauthorized, "invalid token")
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			c.Locals(LocalsUserID, sub)
		}
		c.Locals(LocalsRoles, readRoles(claims["roles"]))
		return c.Next()
	}
}

// RequireRole: dipasang SETELAH AuthJWT.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals(LocalsRoles).([]string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return helper.JsonError(c, http.StatusForbidden, "insufficient role")
	}
}

func readRoles(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return strings.Split(t, ",")
	default:
		return nil
	}
}
