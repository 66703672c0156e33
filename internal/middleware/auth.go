package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"voicegateway/internal/auth"
)

// AuthMiddleware validates the Authorization: Bearer <jwt> header against
// the configured JWKS and stores the resulting tenant claims in locals for
// downstream dashboard/admin handlers. The telephony WebSocket upgrade path
// does not use this middleware — it authenticates via tenant_id + call_id
// on the connect URL instead.
func AuthMiddleware(verifier auth.JWTVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals("tenantID", claims.TenantID)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}
