package auth

import (
	"github.com/gofiber/fiber/v2"

	"eduplay_backend/internals/constants"
	helper "eduplay_backend/internals/helpers"
)

// OnlyRoles gates a route group on the role of the re-fetched user.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := helper.CurrentUser(c)
		if err != nil {
			return err
		}

		for _, allowed := range roles {
			if user.Role == allowed {
				return c.Next()
			}
		}

		if customMessage == "" {
			customMessage = "Forbidden: you are not authorized to access this resource"
		}
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}

func IsTeacher() fiber.Handler {
	return OnlyRoles("Access denied. Teacher role required.", constants.RoleTeacher)
}

func IsStudent() fiber.Handler {
	return OnlyRoles("Access denied. Student role required.", constants.RoleStudent)
}
