package middleware

import (
	"makhraj/backend/config"
	"makhraj/backend/models"
	"makhraj/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}

// RoleMiddleware allows only users whose role is in roles. The role is read
// from the users table on every request so demotions take effect without
// re-issuing tokens.
func RoleMiddleware(db *gorm.DB, cfg *config.Config, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden - insufficient role",
		})
	}
}

func TeacherMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return RoleMiddleware(db, cfg, "teacher", "admin")
}

func AdminMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return RoleMiddleware(db, cfg, "admin")
}
