package dto

import (
	"github.com/google/uuid"

	userModel "eduplay_backend/internals/features/users/user/model"
)

// UserResponse is the public shape of a user (camelCase, matching the web client).
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Role           string    `json:"role"`
	ProfilePicture *string   `json:"profilePicture"`
}

func ToUserResponse(u *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
	}
}
