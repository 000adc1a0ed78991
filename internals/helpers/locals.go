// file: internals/helpers/locals.go
package helper

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	userModel "eduplay_backend/internals/features/users/user/model"
)

// The auth middleware re-fetches the user row on every request and stores it
// here. Role is always taken from this row, never from the token claims.
const LocUser = "current_user"

// CurrentUser returns the authenticated user stored in Locals.
func CurrentUser(c *fiber.Ctx) (*userModel.UserModel, error) {
	u, ok := c.Locals(LocUser).(*userModel.UserModel)
	if !ok || u == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user not resolved")
	}
	return u, nil
}

// CurrentUserID is a shortcut for handlers that only need the id.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	u, err := CurrentUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}
