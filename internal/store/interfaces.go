package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"zillowlike.app/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByWorkOSID(ctx context.Context, workosID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	// UpsertByWorkOSID inserts the user or refreshes the identity fields of the
	// account with the same email, keeping its ID and role.
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id int64, role model.Role) (*model.User, error)
	List(ctx context.Context, role *model.Role, limit, offset int32) ([]model.User, error)
	CountByRole(ctx context.Context) (map[model.Role]int64, error)
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	GetValid(ctx context.Context, tokenHash []byte) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, tokenHash []byte) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PropertyStore interface {
	GetByID(ctx context.Context, id int64) (*model.Property, error)
	Create(ctx context.Context, p *model.Property) error
	Update(ctx context.Context, p *model.Property) error
	UpdateStatus(ctx context.Context, id int64, status model.PropertyStatus) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Property, error)
	IncrementViews(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[model.PropertyStatus]int64, error)
}

type ImageStore interface {
	Create(ctx context.Context, img *model.Image) error
	GetByID(ctx context.Context, id int64) (*model.Image, error)
	Delete(ctx context.Context, id int64) error
	ListByProperty(ctx context.Context, propertyID int64) ([]model.Image, error)
	ListByProperties(ctx context.Context, propertyIDs []int64) (map[int64][]model.Image, error)
	CountByProperty(ctx context.Context, propertyID int64) (int, error)
	NextSortOrder(ctx context.Context, propertyID int64) (int, error)
	SetSortOrder(ctx context.Context, propertyID int64, order map[int64]int) error
}

type TeamStore interface {
	GetByID(ctx context.Context, id int64) (*model.Team, error)
	// GetForUpdate locks the team row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*model.Team, error)
	Create(ctx context.Context, team *model.Team) error
	UpdateMode(ctx context.Context, id int64, mode model.DistributionMode) error
	ListByUser(ctx context.Context, userID int64) ([]model.Team, error)
}

type TeamMemberStore interface {
	Add(ctx context.Context, m *model.TeamMember) error
	Get(ctx context.Context, teamID, userID int64) (*model.TeamMember, error)
	Remove(ctx context.Context, teamID, userID int64) error
	List(ctx context.Context, teamID int64) ([]model.TeamMember, error)
	SetActive(ctx context.Context, teamID, userID int64, active bool) error
	SetQueuePosition(ctx context.Context, teamID, userID int64, position int) error
	MaxQueuePosition(ctx context.Context, teamID int64) (int, error)
}

type LeadStore interface {
	GetByID(ctx context.Context, id int64) (*model.Lead, error)
	Create(ctx context.Context, lead *model.Lead) error
	UpdateStage(ctx context.Context, id int64, from, to model.Stage) error
	Assign(ctx context.Context, id int64, realtorID *int64) error
	TouchContact(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context, f model.LeadFilter) ([]model.Lead, error)
	CountByStage(ctx context.Context, f model.LeadFilter) (map[model.Stage]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type LeadEventStore interface {
	Create(ctx context.Context, e *model.LeadEvent) error
	ListByLead(ctx context.Context, leadID int64) ([]model.LeadEvent, error)
}

type LeadMessageStore interface {
	Create(ctx context.Context, m *model.LeadClientMessage) error
	ListByLead(ctx context.Context, leadID int64) ([]model.LeadClientMessage, error)
	LastInbound(ctx context.Context, leadID int64) (*model.LeadClientMessage, error)
}

type ClientStore interface {
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	Create(ctx context.Context, c *model.Client) error
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, id int64) error
	ListByRealtor(ctx context.Context, realtorID int64) ([]model.Client, error)
}

type RecommendationStore interface {
	GetByID(ctx context.Context, id int64) (*model.RecommendationList, error)
	GetByShareToken(ctx context.Context, token uuid.UUID) (*model.RecommendationList, error)
	Create(ctx context.Context, list *model.RecommendationList) error
	ListByRealtor(ctx context.Context, realtorID int64) ([]model.RecommendationList, error)
	AddProperty(ctx context.Context, listID, propertyID int64) error
	RemoveProperty(ctx context.Context, listID, propertyID int64) error
}

type AssistantStore interface {
	GetByID(ctx context.Context, id int64) (*model.AssistantItem, error)
	Create(ctx context.Context, item *model.AssistantItem) error
	CreateForLead(ctx context.Context, item *model.AssistantItem) (bool, error)
	// ListOpen returns OPEN items, unsnoozed ones (as of now) first, each group by due date.
	ListOpen(ctx context.Context, userID int64, now time.Time) ([]model.AssistantItem, error)
	UpdateStatus(ctx context.Context, id int64, status model.AssistantItemStatus) error
	Snooze(ctx context.Context, id int64, until time.Time) error
	CloseOpenForLead(ctx context.Context, leadID int64, itemType model.AssistantItemType) (int64, error)
}

type SettingStore interface {
	Get(ctx context.Context, key string) (*model.SystemSetting, error)
	List(ctx context.Context) ([]model.SystemSetting, error)
	Upsert(ctx context.Context, s *model.SystemSetting) error
}
