package dto

import "zillowlike.app/api/internal/model"

type CreateTeamRequest struct {
	Name string                 `json:"name" binding:"required,max=120"`
	Mode model.DistributionMode `json:"distribution_mode,omitempty"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SetMemberActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type UpdateModeRequest struct {
	Mode model.DistributionMode `json:"distribution_mode" binding:"required"`
}

type ReorderQueueRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1"`
}
