package model

import "time"

type Stage string

const (
	StageNew       Stage = "NEW"
	StageContact   Stage = "CONTACT"
	StageVisit     Stage = "VISIT"
	StageProposal  Stage = "PROPOSAL"
	StageDocuments Stage = "DOCUMENTS"
	StageWon       Stage = "WON"
	StageLost      Stage = "LOST"
)

// Stages lists pipeline stages in board order.
var Stages = []Stage{StageNew, StageContact, StageVisit, StageProposal, StageDocuments, StageWon, StageLost}

func (s Stage) IsValid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

func (s Stage) IsTerminal() bool {
	return s == StageWon || s == StageLost
}

type LeadSource string

const (
	LeadSourceSite     LeadSource = "SITE"
	LeadSourceWhatsApp LeadSource = "WHATSAPP"
	LeadSourcePhone    LeadSource = "PHONE"
	LeadSourceOther    LeadSource = "OTHER"
)

func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceSite, LeadSourceWhatsApp, LeadSourcePhone, LeadSourceOther:
		return true
	}
	return false
}

type Lead struct {
	ID            int64      `json:"id,string"`
	PropertyID    int64      `json:"property_id,string"`
	TeamID        *int64     `json:"team_id,string,omitempty"`
	RealtorID     *int64     `json:"realtor_id,string,omitempty"`
	ContactUserID *int64     `json:"contact_user_id,string,omitempty"`
	ContactName   string     `json:"contact_name"`
	ContactEmail  string     `json:"contact_email"`
	ContactPhone  string     `json:"contact_phone"`
	Message       string     `json:"message"`
	Source        LeadSource `json:"source"`
	Stage         Stage      `json:"stage"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type LeadFilter struct {
	RealtorID *int64
	TeamID    *int64
	Stage     *Stage
	Limit     int32
	Offset    int32
}

type LeadEventType string

const (
	LeadEventCreated      LeadEventType = "CREATED"
	LeadEventAssigned     LeadEventType = "ASSIGNED"
	LeadEventStageChanged LeadEventType = "STAGE_CHANGED"
	LeadEventNote         LeadEventType = "NOTE"
	LeadEventMessage      LeadEventType = "MESSAGE"
)

type LeadEvent struct {
	ID        int64         `json:"id,string"`
	LeadID    int64         `json:"lead_id,string"`
	ActorID   *int64        `json:"actor_id,string,omitempty"`
	Type      LeadEventType `json:"type"`
	FromStage *Stage        `json:"from_stage,omitempty"`
	ToStage   *Stage        `json:"to_stage,omitempty"`
	Note      string        `json:"note"`
	CreatedAt time.Time     `json:"created_at"`
}

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "INBOUND"
	DirectionOutbound MessageDirection = "OUTBOUND"
)

func (d MessageDirection) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

type MessageStatus string

const (
	MessageStatusSent  MessageStatus = "SENT"
	MessageStatusDraft MessageStatus = "DRAFT"
)

type LeadClientMessage struct {
	ID        int64            `json:"id,string"`
	LeadID    int64            `json:"lead_id,string"`
	AuthorID  *int64           `json:"author_id,string,omitempty"`
	Direction MessageDirection `json:"direction"`
	Channel   string           `json:"channel"`
	Status    MessageStatus    `json:"status"`
	Body      string           `json:"body"`
	Intent    *string          `json:"intent,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
