// File: internal/dto/user.go
package dto

import (
	"time"

	"bookshelf/internal/model"
)

// swagger:model dto.CreateUserRequest
type CreateUserRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=64" example:"alice"`
	Password string `json:"password" form:"password" validate:"required,min=1,max=72" example:"Secret123!"`
}

// swagger:model dto.UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	OldPassword string `json:"old_password" form:"old_password" validate:"required" example:"OldSecret123!"`
	NewPassword string `json:"new_password" form:"new_password" validate:"required,max=72" example:"NewSecret456!"`
}

// swagger:model dto.UserResponse
type UserResponse struct {
	ID        int       `json:"id" example:"1"`
	Username  string    `json:"username" example:"alice"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func NewUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// swagger:model dto.DeleteUserResponse
type DeleteUserResponse struct {
	Books        int64 `json:"deleted_books" example:"3"`
	Tags         int64 `json:"deleted_tags" example:"1"`
	Associations int64 `json:"deleted_associations" example:"4"`
}
