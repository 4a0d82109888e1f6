package model

import (
	"encoding/json"
	"time"
)

const (
	SettingAIEnabled     = "ai.enabled"
	SettingFollowUpHours = "leads.follow_up_hours"
)

type SystemSetting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedBy *int64          `json:"updated_by,string,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type DashboardStats struct {
	UsersByRole        map[Role]int64           `json:"users_by_role"`
	PropertiesByStatus map[PropertyStatus]int64 `json:"properties_by_status"`
	LeadsByStage       map[Stage]int64          `json:"leads_by_stage"`
	LeadsLast7Days     int64                    `json:"leads_last_7_days"`
}
