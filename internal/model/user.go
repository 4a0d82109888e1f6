package model

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleOwner   Role = "OWNER"
	RoleRealtor Role = "REALTOR"
	RoleAgency  Role = "AGENCY"
	RoleUser    Role = "USER"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleRealtor, RoleAgency, RoleUser:
		return true
	}
	return false
}

// CanList reports whether the role may publish properties.
func (r Role) CanList() bool {
	return r == RoleAdmin || r == RoleOwner || r == RoleRealtor || r == RoleAgency
}

// IsProfessional reports whether the role works leads (CRM access).
func (r Role) IsProfessional() bool {
	return r == RoleRealtor || r == RoleAgency
}

type User struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Creci     *string   `json:"creci,omitempty"` // realtor license number
	Role      Role      `json:"role"`
	WorkOSID  *string   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
