package dto

import (
	"zillowlike.app/api/common/id"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

type ClientRequest struct {
	Name            string   `json:"name" binding:"required,max=120"`
	Email           string   `json:"email" binding:"omitempty,email,max=255"`
	Phone           string   `json:"phone" binding:"max=32"`
	Notes           string   `json:"notes" binding:"max=4000"`
	BudgetMinCents  *int64   `json:"budget_min_cents,omitempty" binding:"omitempty,gte=0"`
	BudgetMaxCents  *int64   `json:"budget_max_cents,omitempty" binding:"omitempty,gte=0"`
	PreferredCities []string `json:"preferred_cities" binding:"max=20,dive,max=120"`
}

func (r ClientRequest) ToInput() service.ClientInput {
	return service.ClientInput{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Notes:           r.Notes,
		BudgetMinCents:  r.BudgetMinCents,
		BudgetMaxCents:  r.BudgetMaxCents,
		PreferredCities: r.PreferredCities,
	}
}

type CreateListRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	ClientID    *int64   `json:"client_id,string,omitempty"`
	PropertyIDs []string `json:"property_ids" binding:"max=100"`
}

type ListPropertyRequest struct {
	PropertyID int64 `json:"property_id,string" binding:"required"`
}

// RecommendationListResponse carries property ids as strings like every other id.
type RecommendationListResponse struct {
	*model.RecommendationList
	PropertyIDs []string `json:"property_ids"`
}

func ToRecommendationListResponse(l *model.RecommendationList) *RecommendationListResponse {
	return &RecommendationListResponse{RecommendationList: l, PropertyIDs: FormatIDs(l.PropertyIDs)}
}

func ToRecommendationListResponses(lists []model.RecommendationList) []*RecommendationListResponse {
	out := make([]*RecommendationListResponse, len(lists))
	for i := range lists {
		out[i] = ToRecommendationListResponse(&lists[i])
	}
	return out
}

// ParseIDs converts string ids from a request body.
func ParseIDs(raw []string) ([]int64, error) {
	return id.ParseAll(raw)
}

func FormatIDs(ids []int64) []string {
	return id.FormatAll(ids)
}
