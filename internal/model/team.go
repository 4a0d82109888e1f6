package model

import "time"

type DistributionMode string

const (
	DistributionRoundRobin    DistributionMode = "ROUND_ROBIN"
	DistributionCapturerFirst DistributionMode = "CAPTURER_FIRST"
)

func (m DistributionMode) IsValid() bool {
	return m == DistributionRoundRobin || m == DistributionCapturerFirst
}

type TeamRole string

const (
	TeamRoleOwner TeamRole = "OWNER"
	TeamRoleAgent TeamRole = "AGENT"
)

type Team struct {
	ID               int64            `json:"id,string"`
	Name             string           `json:"name"`
	OwnerID          int64            `json:"owner_id,string"`
	DistributionMode DistributionMode `json:"distribution_mode"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type TeamMember struct {
	TeamID        int64     `json:"team_id,string"`
	UserID        int64     `json:"user_id,string"`
	Role          TeamRole  `json:"role"`
	Active        bool      `json:"active"`
	QueuePosition int       `json:"queue_position"`
	JoinedAt      time.Time `json:"joined_at"`
	User          *User     `json:"user,omitempty"`
}
