package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/utils"
)

// RequireRole gates a route to callers whose "user_role" local (set by
// JWTProtected) is one of the given roles. A missing or unknown role is
// rejected, never passed through.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if normalized := strings.ToLower(strings.TrimSpace(role)); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := allowed[roleOf(c)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func roleOf(c *fiber.Ctx) string {
	value := c.Locals("user_role")
	if value == nil {
		return ""
	}
	if role, ok := value.(string); ok {
		return strings.ToLower(strings.TrimSpace(role))
	}
	return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
}
