package dto

import (
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

type CreateLeadRequest struct {
	PropertyID         int64            `json:"property_id,string" binding:"required"`
	Name               string           `json:"name" binding:"required,max=120"`
	Email              string           `json:"email" binding:"omitempty,email,max=255"`
	Phone              string           `json:"phone" binding:"max=32"`
	Message            string           `json:"message" binding:"max=2000"`
	Source             model.LeadSource `json:"source,omitempty"`
	PreferredRealtorID *int64           `json:"preferred_realtor_id,string,omitempty"`
}

func (r CreateLeadRequest) ToInput() service.LeadInput {
	return service.LeadInput{
		PropertyID:         r.PropertyID,
		Name:               r.Name,
		Email:              r.Email,
		Phone:              r.Phone,
		Message:            r.Message,
		Source:             r.Source,
		PreferredRealtorID: r.PreferredRealtorID,
	}
}

type LeadListQuery struct {
	TeamID *int64 `form:"team_id"`
	Stage  string `form:"stage"`
	Page   int32  `form:"page" binding:"omitempty,gte=1"`
	Limit  int32  `form:"limit" binding:"omitempty,gte=1,lte=200"`
}

func (q LeadListQuery) ToScope() service.LeadListScope {
	limit, offset := Paginate(q.Page, q.Limit, 50)
	scope := service.LeadListScope{TeamID: q.TeamID, Limit: limit, Offset: offset}
	if q.Stage != "" {
		s := model.Stage(q.Stage)
		scope.Stage = &s
	}
	return scope
}

type ChangeStageRequest struct {
	Stage model.Stage `json:"stage" binding:"required"`
	Note  string      `json:"note" binding:"max=2000"`
}

type NoteRequest struct {
	Note string `json:"note" binding:"required,max=4000"`
}

type ReassignRequest struct {
	RealtorID int64 `json:"realtor_id,string" binding:"required"`
}

type MessageRequest struct {
	Direction model.MessageDirection `json:"direction" binding:"required,oneof=INBOUND OUTBOUND"`
	Channel   string                 `json:"channel" binding:"max=32"`
	Body      string                 `json:"body" binding:"required,max=4000"`
}

func (r MessageRequest) ToInput() service.MessageInput {
	return service.MessageInput{Direction: r.Direction, Channel: r.Channel, Body: r.Body}
}

type DraftRequest struct {
	Text string `json:"text" binding:"max=4000"`
}

type ClassifyRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}
