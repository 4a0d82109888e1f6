package model

import "time"

type AssistantItemType string

const (
	AssistantNewLead    AssistantItemType = "NEW_LEAD"
	AssistantFollowUp   AssistantItemType = "FOLLOW_UP"
	AssistantDraftReady AssistantItemType = "DRAFT_READY"
	AssistantSystem     AssistantItemType = "SYSTEM"
)

type AssistantItemStatus string

const (
	AssistantOpen      AssistantItemStatus = "OPEN"
	AssistantDone      AssistantItemStatus = "DONE"
	AssistantDismissed AssistantItemStatus = "DISMISSED"
)

type AssistantItem struct {
	ID           int64               `json:"id,string"`
	UserID       int64               `json:"user_id,string"`
	LeadID       *int64              `json:"lead_id,string,omitempty"`
	Type         AssistantItemType   `json:"type"`
	Title        string              `json:"title"`
	Body         string              `json:"body"`
	Status       AssistantItemStatus `json:"status"`
	DueAt        *time.Time          `json:"due_at,omitempty"`
	SnoozedUntil *time.Time          `json:"snoozed_until,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
