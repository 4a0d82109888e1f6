package model

import "time"

type Purpose string

const (
	PurposeSale Purpose = "SALE"
	PurposeRent Purpose = "RENT"
)

func (p Purpose) IsValid() bool {
	return p == PurposeSale || p == PurposeRent
}

type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeCondo      PropertyType = "CONDO"
	PropertyTypeLand       PropertyType = "LAND"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
	PropertyTypeStudio     PropertyType = "STUDIO"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeApartment, PropertyTypeCondo,
		PropertyTypeLand, PropertyTypeCommercial, PropertyTypeStudio:
		return true
	}
	return false
}

type PropertyStatus string

const (
	PropertyStatusDraft  PropertyStatus = "DRAFT"
	PropertyStatusActive PropertyStatus = "ACTIVE"
	PropertyStatusPaused PropertyStatus = "PAUSED"
	PropertyStatusSold   PropertyStatus = "SOLD"
	PropertyStatusRented PropertyStatus = "RENTED"
)

func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusDraft, PropertyStatusActive, PropertyStatusPaused,
		PropertyStatusSold, PropertyStatusRented:
		return true
	}
	return false
}

// IsClosed reports whether the listing has left the market for good.
func (s PropertyStatus) IsClosed() bool {
	return s == PropertyStatusSold || s == PropertyStatusRented
}

type Property struct {
	ID            int64          `json:"id,string"`
	OwnerID       int64          `json:"owner_id,string"`
	TeamID        *int64         `json:"team_id,string,omitempty"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Slug          string         `json:"slug"`
	Purpose       Purpose        `json:"purpose"`
	Type          PropertyType   `json:"type"`
	Status        PropertyStatus `json:"status"`
	PriceCents    int64          `json:"price_cents"`
	CondoFeeCents *int64         `json:"condo_fee_cents,omitempty"`
	IPTUCents     *int64         `json:"iptu_cents,omitempty"`
	AreaM2        *float64       `json:"area_m2,omitempty"`
	Bedrooms      int            `json:"bedrooms"`
	Bathrooms     int            `json:"bathrooms"`
	ParkingSpots  int            `json:"parking_spots"`
	Address       Address        `json:"address"`
	Latitude      *float64       `json:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty"`
	ViewCount     int64          `json:"view_count"`
	Images        []Image        `json:"images,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

type Image struct {
	ID         int64     `json:"id,string"`
	PropertyID int64     `json:"property_id,string"`
	PublicID   string    `json:"public_id"`
	URL        string    `json:"url"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

type PropertySort string

const (
	SortNewest    PropertySort = "newest"
	SortPriceAsc  PropertySort = "price_asc"
	SortPriceDesc PropertySort = "price_desc"
)

// PropertyFilter drives property search. Nil pointers mean "no constraint".
type PropertyFilter struct {
	Status      *PropertyStatus
	OwnerID     *int64
	City        string
	State       string
	Purpose     *Purpose
	Type        *PropertyType
	MinPrice    *int64
	MaxPrice    *int64
	MinBedrooms *int
	BBox        *BoundingBox
	Query       string
	Sort        PropertySort
	Limit       int32
	Offset      int32
}

type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}
