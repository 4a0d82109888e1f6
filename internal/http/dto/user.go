package dto

import (
	"time"

	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Phone     *string `json:"phone,omitempty" binding:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url,omitempty" binding:"omitempty,url,max=2048"`
	Creci     *string `json:"creci,omitempty" binding:"omitempty,max=32"`
}

func (r UpdateProfileRequest) ToUpdate() service.ProfileUpdate {
	return service.ProfileUpdate{
		Name:      r.Name,
		Phone:     r.Phone,
		AvatarURL: r.AvatarURL,
		Creci:     r.Creci,
	}
}

type ChangeRoleRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

type UserResponse struct {
	ID        int64      `json:"id,string"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	Phone     *string    `json:"phone,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Creci     *string    `json:"creci,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
		Creci:     u.Creci,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponses(users []model.User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
