package model

import "time"

// Session is a signed-in browser or API client. Only TokenHash is stored;
// Token holds the bearer value right after creation and is empty otherwise.
type Session struct {
	ID              int64     `json:"id,string"`
	UserID          int64     `json:"user_id,string"`
	Token           string    `json:"-"`
	TokenHash       []byte    `json:"-"`
	WorkOSSessionID *string   `json:"workos_session_id,omitempty"`
	ExpiresAt       time.Time `json:"expires_at"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
