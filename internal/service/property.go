package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"zillowlike.app/api/common"
	"zillowlike.app/api/common/id"
	"zillowlike.app/api/common/logger"
	"zillowlike.app/api/internal/assist"
	"zillowlike.app/api/internal/media"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/store"
)

const MaxImagesPerProperty = 30

// PropertyInput is the writable part of a listing.
type PropertyInput struct {
	TeamID        *int64
	Title         string
	Description   string
	Purpose       model.Purpose
	Type          model.PropertyType
	Status        model.PropertyStatus // DRAFT or ACTIVE on create; ignored on update
	PriceCents    int64
	CondoFeeCents *int64
	IPTUCents     *int64
	AreaM2        *float64
	Bedrooms      int
	Bathrooms     int
	ParkingSpots  int
	Address       model.Address
	Latitude      *float64
	Longitude     *float64
}

func (in *PropertyInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address.City = strings.TrimSpace(in.Address.City)
	in.Address.State = strings.ToUpper(strings.TrimSpace(in.Address.State))
	in.Address.Neighborhood = strings.TrimSpace(in.Address.Neighborhood)
}

func (in PropertyInput) validate() error {
	switch {
	case in.Title == "":
		return invalid("title is required")
	case len([]rune(in.Title)) > 200:
		return invalid("title must be at most 200 characters")
	case !in.Purpose.IsValid():
		return invalid("purpose must be SALE or RENT")
	case !in.Type.IsValid():
		return invalid("unknown property type %q", in.Type)
	case in.PriceCents <= 0:
		return invalid("price must be positive")
	case in.Bedrooms < 0 || in.Bathrooms < 0 || in.ParkingSpots < 0:
		return invalid("room counts must not be negative")
	case in.AreaM2 != nil && *in.AreaM2 <= 0:
		return invalid("area must be positive")
	case in.CondoFeeCents != nil && *in.CondoFeeCents < 0, in.IPTUCents != nil && *in.IPTUCents < 0:
		return invalid("fees must not be negative")
	case in.Address.City == "":
		return invalid("city is required")
	case len(in.Address.State) != 2:
		return invalid("state must be a two-letter code")
	case (in.Latitude == nil) != (in.Longitude == nil):
		return invalid("latitude and longitude must be given together")
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90 || *in.Longitude < -180 || *in.Longitude > 180) {
		return invalid("coordinates out of range")
	}
	return nil
}

type PropertyService interface {
	Create(ctx context.Context, actor *model.User, in PropertyInput) (*model.Property, error)
	Get(ctx context.Context, actor *model.User, id int64) (*model.Property, error)
	Update(ctx context.Context, actor *model.User, id int64, in PropertyInput) (*model.Property, error)
	ChangeStatus(ctx context.Context, actor *model.User, id int64, status model.PropertyStatus) (*model.Property, error)
	Delete(ctx context.Context, actor *model.User, id int64) error
	Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, error)
	ListMine(ctx context.Context, actor *model.User, limit, offset int32) ([]model.Property, error)
	RecordView(ctx context.Context, id int64) error

	UploadImage(ctx context.Context, actor *model.User, propertyID int64, file io.Reader) (*model.Image, error)
	ReorderImages(ctx context.Context, actor *model.User, propertyID int64, imageIDs []int64) ([]model.Image, error)
	DeleteImage(ctx context.Context, actor *model.User, propertyID, imageID int64) error

	GenerateDescription(ctx context.Context, actor *model.User, id int64, highlights []string) (assist.Description, error)
}

type propertyService struct {
	properties store.PropertyStore
	images     store.ImageStore
	members    store.TeamMemberStore
	settings   store.SettingStore
	media      media.Store
	writer     *assist.Assistant
}

func NewPropertyService(
	properties store.PropertyStore,
	images store.ImageStore,
	members store.TeamMemberStore,
	settings store.SettingStore,
	mediaStore media.Store,
	writer *assist.Assistant,
) PropertyService {
	return &propertyService{
		properties: properties,
		images:     images,
		members:    members,
		settings:   settings,
		media:      mediaStore,
		writer:     writer,
	}
}

func (s *propertyService) Create(ctx context.Context, actor *model.User, in PropertyInput) (*model.Property, error) {
	if !actor.Role.CanList() {
		return nil, ErrForbidden
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.PropertyStatusDraft
	}
	if status != model.PropertyStatusDraft && status != model.PropertyStatusActive {
		return nil, invalid("new listings start as DRAFT or ACTIVE")
	}

	if in.TeamID != nil {
		if err := s.requireMembership(ctx, *in.TeamID, actor.ID); err != nil {
			return nil, err
		}
	}

	p := &model.Property{ID: id.New(), OwnerID: actor.ID, Status: status}
	applyPropertyInput(p, in)

	slug, err := propertySlug(p.ID, in.Title, in.Address.City)
	if err != nil {
		return nil, err
	}
	p.Slug = slug

	if err := s.properties.Create(ctx, p); err != nil {
		slog.ErrorContext(ctx, "failed to create property", "error", err, "owner_id", actor.ID)
		return nil, fmt.Errorf("creating property: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{PropertyID: &p.ID})
	slog.InfoContext(ctx, "property created", "status", p.Status, "purpose", p.Purpose)
	return p, nil
}

func (s *propertyService) Get(ctx context.Context, actor *model.User, id int64) (*model.Property, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PropertyStatusActive && !canManageProperty(actor, p) {
		// Unpublished listings are invisible rather than forbidden.
		return nil, ErrPropertyNotFound
	}

	images, err := s.images.ListByProperty(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	p.Images = images
	return p, nil
}

func (s *propertyService) Update(ctx context.Context, actor *model.User, id int64, in PropertyInput) (*model.Property, error) {
	p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.TeamID != nil && (p.TeamID == nil || *p.TeamID != *in.TeamID) {
		if err := s.requireMembership(ctx, *in.TeamID, actor.ID); err != nil {
			return nil, err
		}
	}
	if p.Status.IsClosed() && in.Purpose != p.Purpose {
		return nil, invalid("purpose of a %s listing cannot change", strings.ToLower(string(p.Status)))
	}

	applyPropertyInput(p, in)
	slug, err := propertySlug(p.ID, in.Title, in.Address.City)
	if err != nil {
		return nil, err
	}
	p.Slug = slug
	if err := s.properties.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("updating property: %w", err)
	}
	return p, nil
}

func (s *propertyService) ChangeStatus(ctx context.Context, actor *model.User, id int64, status model.PropertyStatus) (*model.Property, error) {
	p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkStatusTransition(p, status); err != nil {
		return nil, err
	}

	if err := s.properties.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("updating status: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{PropertyID: &id})
	slog.InfoContext(ctx, "property status changed", "from", p.Status, "to", status)
	p.Status = status
	return p, nil
}

var statusTransitions = map[model.PropertyStatus][]model.PropertyStatus{
	model.PropertyStatusDraft:  {model.PropertyStatusActive},
	model.PropertyStatusActive: {model.PropertyStatusPaused, model.PropertyStatusSold, model.PropertyStatusRented, model.PropertyStatusDraft},
	model.PropertyStatusPaused: {model.PropertyStatusActive, model.PropertyStatusSold, model.PropertyStatusRented},
	model.PropertyStatusSold:   {model.PropertyStatusActive},
	model.PropertyStatusRented: {model.PropertyStatusActive},
}

// checkStatusTransition also enforces that SOLD applies to sale listings and
// RENTED to rentals.
func checkStatusTransition(p *model.Property, to model.PropertyStatus) error {
	if !to.IsValid() {
		return invalid("unknown status %q", to)
	}
	if to == model.PropertyStatusSold && p.Purpose != model.PurposeSale {
		return fmt.Errorf("%w: only sale listings can be marked SOLD", ErrInvalidStatusTransition)
	}
	if to == model.PropertyStatusRented && p.Purpose != model.PurposeRent {
		return fmt.Errorf("%w: only rentals can be marked RENTED", ErrInvalidStatusTransition)
	}
	for _, allowed := range statusTransitions[p.Status] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, p.Status, to)
}

func (s *propertyService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if _, err := s.loadManaged(ctx, actor, id); err != nil {
		return err
	}

	images, err := s.images.ListByProperty(ctx, id)
	if err != nil {
		return fmt.Errorf("listing images: %w", err)
	}
	for _, img := range images {
		if err := s.media.Destroy(ctx, img.PublicID); err != nil {
			// The row goes away with the property; orphaned assets are only logged.
			slog.WarnContext(ctx, "failed to destroy image asset", "error", err, "public_id", img.PublicID)
		}
	}

	if err := s.properties.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("deleting property: %w", err)
	}
	slog.InfoContext(ctx, "property deleted", "property_id", id, "images", len(images))
	return nil
}

func (s *propertyService) Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, error) {
	active := model.PropertyStatusActive
	f.Status = &active
	f.OwnerID = nil

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, invalid("min_price is greater than max_price")
	}
	if b := f.BBox; b != nil && (b.MinLat > b.MaxLat || b.MinLng > b.MaxLng) {
		return nil, invalid("bounding box is inverted")
	}

	return s.searchWithImages(ctx, f)
}

func (s *propertyService) ListMine(ctx context.Context, actor *model.User, limit, offset int32) ([]model.Property, error) {
	return s.searchWithImages(ctx, model.PropertyFilter{
		OwnerID: &actor.ID,
		Sort:    model.SortNewest,
		Limit:   limit,
		Offset:  offset,
	})
}

func (s *propertyService) searchWithImages(ctx context.Context, f model.PropertyFilter) ([]model.Property, error) {
	props, err := s.properties.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("searching properties: %w", err)
	}
	if len(props) == 0 {
		return props, nil
	}

	ids := make([]int64, len(props))
	for i, p := range props {
		ids[i] = p.ID
	}
	images, err := s.images.ListByProperties(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	for i := range props {
		props[i].Images = images[props[i].ID]
	}
	return props, nil
}

func (s *propertyService) RecordView(ctx context.Context, id int64) error {
	if err := s.properties.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return fmt.Errorf("recording view: %w", err)
	}
	return nil
}

func (s *propertyService) UploadImage(ctx context.Context, actor *model.User, propertyID int64, file io.Reader) (*model.Image, error) {
	if _, err := s.loadManaged(ctx, actor, propertyID); err != nil {
		return nil, err
	}

	count, err := s.images.CountByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("counting images: %w", err)
	}
	if count >= MaxImagesPerProperty {
		return nil, ErrTooManyImages
	}

	sortOrder, err := s.images.NextSortOrder(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("reading image order: %w", err)
	}

	asset, err := s.media.Upload(ctx, "properties/"+strconv.FormatInt(propertyID, 10), file)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	img := &model.Image{
		ID:         id.New(),
		PropertyID: propertyID,
		PublicID:   asset.PublicID,
		URL:        asset.URL,
		SortOrder:  sortOrder,
	}
	if err := s.images.Create(ctx, img); err != nil {
		if derr := s.media.Destroy(ctx, asset.PublicID); derr != nil {
			slog.WarnContext(ctx, "failed to clean up uploaded asset", "error", derr, "public_id", asset.PublicID)
		}
		return nil, fmt.Errorf("saving image: %w", err)
	}
	return img, nil
}

// ReorderImages takes the full list of the property's image ids in display order.
func (s *propertyService) ReorderImages(ctx context.Context, actor *model.User, propertyID int64, imageIDs []int64) ([]model.Image, error) {
	if _, err := s.loadManaged(ctx, actor, propertyID); err != nil {
		return nil, err
	}

	current, err := s.images.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	if len(imageIDs) != len(current) {
		return nil, invalid("expected %d image ids, got %d", len(current), len(imageIDs))
	}
	known := make(map[int64]bool, len(current))
	for _, img := range current {
		known[img.ID] = true
	}

	order := make(map[int64]int, len(imageIDs))
	for i, imgID := range imageIDs {
		if !known[imgID] {
			return nil, invalid("image %d does not belong to property", imgID)
		}
		if _, dup := order[imgID]; dup {
			return nil, invalid("image %d listed twice", imgID)
		}
		order[imgID] = i
	}

	if err := s.images.SetSortOrder(ctx, propertyID, order); err != nil {
		return nil, fmt.Errorf("reordering images: %w", err)
	}
	return s.images.ListByProperty(ctx, propertyID)
}

func (s *propertyService) DeleteImage(ctx context.Context, actor *model.User, propertyID, imageID int64) error {
	if _, err := s.loadManaged(ctx, actor, propertyID); err != nil {
		return err
	}

	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("getting image: %w", err)
	}
	if img.PropertyID != propertyID {
		return ErrImageNotFound
	}

	if err := s.media.Destroy(ctx, img.PublicID); err != nil {
		return fmt.Errorf("destroying image asset: %w", err)
	}
	if err := s.images.Delete(ctx, imageID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

func (s *propertyService) GenerateDescription(ctx context.Context, actor *model.User, id int64, highlights []string) (assist.Description, error) {
	p, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return assist.Description{}, err
	}

	in := assist.ListingInput{
		Title:        p.Title,
		Type:         string(p.Type),
		Purpose:      string(p.Purpose),
		PriceCents:   p.PriceCents,
		AreaM2:       p.AreaM2,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		ParkingSpots: p.ParkingSpots,
		Neighborhood: p.Address.Neighborhood,
		City:         p.Address.City,
		State:        p.Address.State,
		Highlights:   highlights,
	}
	if !aiEnabled(ctx, s.settings) {
		return assist.FallbackDescription(in), nil
	}
	return s.writer.Describe(ctx, in), nil
}

func (s *propertyService) load(ctx context.Context, id int64) (*model.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("getting property: %w", err)
	}
	return p, nil
}

func (s *propertyService) loadManaged(ctx context.Context, actor *model.User, id int64) (*model.Property, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageProperty(actor, p) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *propertyService) requireMembership(ctx context.Context, teamID, userID int64) error {
	if _, err := s.members.Get(ctx, teamID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: not a member of team %d", ErrForbidden, teamID)
		}
		return fmt.Errorf("checking team membership: %w", err)
	}
	return nil
}

func canManageProperty(actor *model.User, p *model.Property) bool {
	return actor != nil && (actor.IsAdmin() || actor.ID == p.OwnerID)
}

func applyPropertyInput(p *model.Property, in PropertyInput) {
	p.TeamID = in.TeamID
	p.Title = in.Title
	p.Description = in.Description
	p.Purpose = in.Purpose
	p.Type = in.Type
	p.PriceCents = in.PriceCents
	p.CondoFeeCents = in.CondoFeeCents
	p.IPTUCents = in.IPTUCents
	p.AreaM2 = in.AreaM2
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.ParkingSpots = in.ParkingSpots
	p.Address = in.Address
	p.Latitude = in.Latitude
	p.Longitude = in.Longitude
}

// propertySlug is "<title>-<city>-<id>"; the id suffix keeps it unique.
func propertySlug(id int64, title, city string) (string, error) {
	base, err := common.Slugify(title+" "+city, "imovel")
	if err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}
	return base + "-" + strconv.FormatInt(id, 10), nil
}
