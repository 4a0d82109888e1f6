package model

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID              int64     `json:"id,string"`
	RealtorID       int64     `json:"realtor_id,string"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Notes           string    `json:"notes"`
	BudgetMinCents  *int64    `json:"budget_min_cents,omitempty"`
	BudgetMaxCents  *int64    `json:"budget_max_cents,omitempty"`
	PreferredCities []string  `json:"preferred_cities"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type RecommendationList struct {
	ID          int64     `json:"id,string"`
	RealtorID   int64     `json:"realtor_id,string"`
	ClientID    *int64    `json:"client_id,string,omitempty"`
	Title       string    `json:"title"`
	ShareToken  uuid.UUID `json:"share_token"`
	PropertyIDs []int64   `json:"property_ids"`
	CreatedAt   time.Time `json:"created_at"`
}
