package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/store"
)

type ClientInput struct {
	Name            string
	Email           string
	Phone           string
	Notes           string
	BudgetMinCents  *int64
	BudgetMaxCents  *int64
	PreferredCities []string
}

func (in *ClientInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Notes = strings.TrimSpace(in.Notes)

	cities := make([]string, 0, len(in.PreferredCities))
	seen := make(map[string]bool, len(in.PreferredCities))
	for _, c := range in.PreferredCities {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		cities = append(cities, c)
	}
	in.PreferredCities = cities
}

func (in ClientInput) validate() error {
	if in.Name == "" {
		return invalid("client name is required")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return invalid("email is not valid")
		}
	}
	if in.BudgetMinCents != nil && *in.BudgetMinCents < 0 || in.BudgetMaxCents != nil && *in.BudgetMaxCents < 0 {
		return invalid("budget must not be negative")
	}
	if in.BudgetMinCents != nil && in.BudgetMaxCents != nil && *in.BudgetMinCents > *in.BudgetMaxCents {
		return invalid("budget minimum is greater than maximum")
	}
	return nil
}

// SharedList is the public view of a recommendation list.
type SharedList struct {
	Title      string           `json:"title"`
	Realtor    *model.User      `json:"realtor,omitempty"`
	Properties []model.Property `json:"properties"`
}

type ClientService interface {
	Create(ctx context.Context, actor *model.User, in ClientInput) (*model.Client, error)
	Get(ctx context.Context, actor *model.User, clientID int64) (*model.Client, error)
	Update(ctx context.Context, actor *model.User, clientID int64, in ClientInput) (*model.Client, error)
	Delete(ctx context.Context, actor *model.User, clientID int64) error
	List(ctx context.Context, actor *model.User) ([]model.Client, error)

	CreateList(ctx context.Context, actor *model.User, title string, clientID *int64, propertyIDs []int64) (*model.RecommendationList, error)
	Lists(ctx context.Context, actor *model.User) ([]model.RecommendationList, error)
	AddToList(ctx context.Context, actor *model.User, listID, propertyID int64) (*model.RecommendationList, error)
	RemoveFromList(ctx context.Context, actor *model.User, listID, propertyID int64) (*model.RecommendationList, error)
	Shared(ctx context.Context, token uuid.UUID) (*SharedList, error)
}

type clientService struct {
	clients         store.ClientStore
	recommendations store.RecommendationStore
	properties      store.PropertyStore
	images          store.ImageStore
	users           store.UserStore
	txRunner        TxRunner
}

func NewClientService(
	clients store.ClientStore,
	recommendations store.RecommendationStore,
	properties store.PropertyStore,
	images store.ImageStore,
	users store.UserStore,
	txRunner TxRunner,
) ClientService {
	return &clientService{
		clients:         clients,
		recommendations: recommendations,
		properties:      properties,
		images:          images,
		users:           users,
		txRunner:        txRunner,
	}
}

func (s *clientService) Create(ctx context.Context, actor *model.User, in ClientInput) (*model.Client, error) {
	if !actor.Role.IsProfessional() {
		return nil, ErrForbidden
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := &model.Client{ID: id.New(), RealtorID: actor.ID}
	applyClientInput(c, in)
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return c, nil
}

func (s *clientService) Get(ctx context.Context, actor *model.User, clientID int64) (*model.Client, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	// Another realtor's client is reported as missing.
	if c.RealtorID != actor.ID {
		return nil, ErrClientNotFound
	}
	return c, nil
}

func (s *clientService) Update(ctx context.Context, actor *model.User, clientID int64, in ClientInput) (*model.Client, error) {
	c, err := s.Get(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	applyClientInput(c, in)
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}
	return c, nil
}

func (s *clientService) Delete(ctx context.Context, actor *model.User, clientID int64) error {
	if _, err := s.Get(ctx, actor, clientID); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, clientID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting client: %w", err)
	}
	return nil
}

func (s *clientService) List(ctx context.Context, actor *model.User) ([]model.Client, error) {
	clients, err := s.clients.ListByRealtor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) CreateList(ctx context.Context, actor *model.User, title string, clientID *int64, propertyIDs []int64) (*model.RecommendationList, error) {
	if !actor.Role.IsProfessional() {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("list title is required")
	}
	if clientID != nil {
		if _, err := s.Get(ctx, actor, *clientID); err != nil {
			return nil, err
		}
	}
	if err := s.requireProperties(ctx, propertyIDs); err != nil {
		return nil, err
	}

	list := &model.RecommendationList{
		ID:         id.New(),
		RealtorID:  actor.ID,
		ClientID:   clientID,
		Title:      title,
		ShareToken: uuid.New(),
	}
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Recommendations().Create(ctx, list); err != nil {
			return fmt.Errorf("creating list: %w", err)
		}
		for _, pid := range propertyIDs {
			if err := stores.Recommendations().AddProperty(ctx, list.ID, pid); err != nil {
				return fmt.Errorf("adding property %d: %w", pid, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "recommendation list created", "list_id", list.ID, "properties", len(propertyIDs))
	return s.recommendations.GetByID(ctx, list.ID)
}

func (s *clientService) Lists(ctx context.Context, actor *model.User) ([]model.RecommendationList, error) {
	lists, err := s.recommendations.ListByRealtor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("listing recommendation lists: %w", err)
	}
	return lists, nil
}

func (s *clientService) AddToList(ctx context.Context, actor *model.User, listID, propertyID int64) (*model.RecommendationList, error) {
	if _, err := s.loadList(ctx, actor, listID); err != nil {
		return nil, err
	}
	if err := s.requireProperties(ctx, []int64{propertyID}); err != nil {
		return nil, err
	}
	if err := s.recommendations.AddProperty(ctx, listID, propertyID); err != nil {
		return nil, fmt.Errorf("adding property: %w", err)
	}
	return s.recommendations.GetByID(ctx, listID)
}

func (s *clientService) RemoveFromList(ctx context.Context, actor *model.User, listID, propertyID int64) (*model.RecommendationList, error) {
	if _, err := s.loadList(ctx, actor, listID); err != nil {
		return nil, err
	}
	if err := s.recommendations.RemoveProperty(ctx, listID, propertyID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("removing property: %w", err)
	}
	return s.recommendations.GetByID(ctx, listID)
}

// Shared resolves a public share token. Only ACTIVE listings are shown, in list order.
func (s *clientService) Shared(ctx context.Context, token uuid.UUID) (*SharedList, error) {
	list, err := s.recommendations.GetByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("getting list: %w", err)
	}

	out := &SharedList{Title: list.Title, Properties: []model.Property{}}
	if realtor, err := s.users.GetByID(ctx, list.RealtorID); err == nil {
		out.Realtor = realtor
	}
	if len(list.PropertyIDs) == 0 {
		return out, nil
	}

	props, err := s.properties.ListByIDs(ctx, list.PropertyIDs)
	if err != nil {
		return nil, fmt.Errorf("loading properties: %w", err)
	}
	images, err := s.images.ListByProperties(ctx, list.PropertyIDs)
	if err != nil {
		return nil, fmt.Errorf("loading images: %w", err)
	}

	byID := make(map[int64]model.Property, len(props))
	for _, p := range props {
		byID[p.ID] = p
	}
	for _, pid := range list.PropertyIDs {
		p, ok := byID[pid]
		if !ok || p.Status != model.PropertyStatusActive {
			continue
		}
		p.Images = images[pid]
		out.Properties = append(out.Properties, p)
	}
	return out, nil
}

func (s *clientService) loadList(ctx context.Context, actor *model.User, listID int64) (*model.RecommendationList, error) {
	list, err := s.recommendations.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("getting list: %w", err)
	}
	if list.RealtorID != actor.ID {
		return nil, ErrListNotFound
	}
	return list, nil
}

func (s *clientService) requireProperties(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	props, err := s.properties.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("loading properties: %w", err)
	}
	found := make(map[int64]bool, len(props))
	for _, p := range props {
		found[p.ID] = true
	}
	for _, pid := range ids {
		if !found[pid] {
			return fmt.Errorf("%w: %d", ErrPropertyNotFound, pid)
		}
	}
	return nil
}

func applyClientInput(c *model.Client, in ClientInput) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Notes = in.Notes
	c.BudgetMinCents = in.BudgetMinCents
	c.BudgetMaxCents = in.BudgetMaxCents
	c.PreferredCities = in.PreferredCities
}
