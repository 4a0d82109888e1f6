package dto

import (
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
)

type AddressRequest struct {
	Street       string `json:"street" binding:"max=255"`
	Number       string `json:"number" binding:"max=32"`
	Neighborhood string `json:"neighborhood" binding:"max=120"`
	City         string `json:"city" binding:"required,max=120"`
	State        string `json:"state" binding:"required,len=2"`
	PostalCode   string `json:"postal_code" binding:"max=16"`
}

type PropertyRequest struct {
	TeamID        *int64               `json:"team_id,string,omitempty"`
	Title         string               `json:"title" binding:"required,max=200"`
	Description   string               `json:"description" binding:"max=10000"`
	Purpose       model.Purpose        `json:"purpose" binding:"required,oneof=SALE RENT"`
	Type          model.PropertyType   `json:"type" binding:"required"`
	Status        model.PropertyStatus `json:"status,omitempty" binding:"omitempty,oneof=DRAFT ACTIVE"`
	PriceCents    int64                `json:"price_cents" binding:"required,gt=0"`
	CondoFeeCents *int64               `json:"condo_fee_cents,omitempty" binding:"omitempty,gte=0"`
	IPTUCents     *int64               `json:"iptu_cents,omitempty" binding:"omitempty,gte=0"`
	AreaM2        *float64             `json:"area_m2,omitempty" binding:"omitempty,gt=0"`
	Bedrooms      int                  `json:"bedrooms" binding:"gte=0"`
	Bathrooms     int                  `json:"bathrooms" binding:"gte=0"`
	ParkingSpots  int                  `json:"parking_spots" binding:"gte=0"`
	Address       AddressRequest       `json:"address" binding:"required"`
	Latitude      *float64             `json:"latitude,omitempty"`
	Longitude     *float64             `json:"longitude,omitempty"`
}

func (r PropertyRequest) ToInput() service.PropertyInput {
	return service.PropertyInput{
		TeamID:        r.TeamID,
		Title:         r.Title,
		Description:   r.Description,
		Purpose:       r.Purpose,
		Type:          r.Type,
		Status:        r.Status,
		PriceCents:    r.PriceCents,
		CondoFeeCents: r.CondoFeeCents,
		IPTUCents:     r.IPTUCents,
		AreaM2:        r.AreaM2,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		ParkingSpots:  r.ParkingSpots,
		Address: model.Address{
			Street:       r.Address.Street,
			Number:       r.Address.Number,
			Neighborhood: r.Address.Neighborhood,
			City:         r.Address.City,
			State:        r.Address.State,
			PostalCode:   r.Address.PostalCode,
		},
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

type ChangeStatusRequest struct {
	Status model.PropertyStatus `json:"status" binding:"required"`
}

type ReorderImagesRequest struct {
	ImageIDs []string `json:"image_ids" binding:"required,min=1,max=30"`
}

type DescriptionRequest struct {
	Highlights []string `json:"highlights" binding:"max=10,dive,max=200"`
}

// SearchQuery is bound from the query string of GET /properties.
type SearchQuery struct {
	City        string   `form:"city"`
	State       string   `form:"state"`
	Purpose     string   `form:"purpose" binding:"omitempty,oneof=SALE RENT"`
	Type        string   `form:"type"`
	MinPrice    *int64   `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice    *int64   `form:"max_price" binding:"omitempty,gte=0"`
	MinBedrooms *int     `form:"min_bedrooms" binding:"omitempty,gte=0"`
	MinLat      *float64 `form:"min_lat"`
	MaxLat      *float64 `form:"max_lat"`
	MinLng      *float64 `form:"min_lng"`
	MaxLng      *float64 `form:"max_lng"`
	Q           string   `form:"q" binding:"max=200"`
	Sort        string   `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc"`
	Page        int32    `form:"page" binding:"omitempty,gte=1"`
	Limit       int32    `form:"limit" binding:"omitempty,gte=1,lte=50"`
}

// ToFilter reports false when the bounding box is only partially given.
func (q SearchQuery) ToFilter() (model.PropertyFilter, bool) {
	f := model.PropertyFilter{
		City:        q.City,
		State:       q.State,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		MinBedrooms: q.MinBedrooms,
		Query:       q.Q,
		Sort:        model.PropertySort(q.Sort),
	}
	if q.Purpose != "" {
		p := model.Purpose(q.Purpose)
		f.Purpose = &p
	}
	if q.Type != "" {
		t := model.PropertyType(q.Type)
		f.Type = &t
	}

	limit, offset := Paginate(q.Page, q.Limit, 20)
	f.Limit, f.Offset = limit, offset

	set := 0
	for _, v := range []*float64{q.MinLat, q.MaxLat, q.MinLng, q.MaxLng} {
		if v != nil {
			set++
		}
	}
	switch set {
	case 0:
	case 4:
		f.BBox = &model.BoundingBox{MinLat: *q.MinLat, MaxLat: *q.MaxLat, MinLng: *q.MinLng, MaxLng: *q.MaxLng}
	default:
		return f, false
	}
	return f, true
}

// Paginate turns a 1-based page into limit/offset.
func Paginate(page, limit, def int32) (int32, int32) {
	if limit <= 0 {
		limit = def
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}
