package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRoles: gate berdasarkan claim role (hydrated oleh AuthJWT)
func RequireRoles(message string, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetUserRole(c)
		if _, ok := allowed[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, message)
		}
		return c.Next()
	}
}
