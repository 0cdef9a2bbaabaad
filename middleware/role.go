package middleware

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/models"
)

// RequireRole returns a middleware that loads the authenticated user and
// admits the request only when the user's role is one of the given roles.
// The loaded user is stashed in c.Locals("currentUser").
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}

		if !user.Role.Valid() {
			return JsonResponse(c, fiber.StatusForbidden, false, "Unknown role!", nil)
		}

		for _, role := range roles {
			if user.Role == role {
				c.Locals("currentUser", user)
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}
