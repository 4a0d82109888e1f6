package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/common/logger"
	"zillowlike.app/api/internal/coaching"
	"zillowlike.app/api/internal/distribution"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/queue"
	"zillowlike.app/api/internal/stage"
	"zillowlike.app/api/internal/store"
	"zillowlike.app/api/internal/whatsapp"
)

// LeadInput is what a prospective buyer or tenant submits on a listing.
type LeadInput struct {
	PropertyID int64
	Name       string
	Email      string
	Phone      string
	Message    string
	Source     model.LeadSource
	// PreferredRealtorID is the realtor the contact already talks to, if any.
	PreferredRealtorID *int64
}

func (in *LeadInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if in.Source == "" {
		in.Source = model.LeadSourceSite
	}
}

func (in LeadInput) validate() error {
	if in.Name == "" {
		return invalid("contact name is required")
	}
	if in.Email == "" && in.Phone == "" {
		return invalid("email or phone is required")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return invalid("email is not valid")
		}
	}
	if !in.Source.IsValid() {
		return invalid("unknown lead source %q", in.Source)
	}
	if len(in.Message) > 4000 {
		return invalid("message must be at most 4000 characters")
	}
	return nil
}

// LeadListScope selects whose leads to list. A nil TeamID lists the caller's own leads.
type LeadListScope struct {
	TeamID *int64
	Stage  *model.Stage
	Limit  int32
	Offset int32
}

type BoardColumn struct {
	Stage model.Stage  `json:"stage"`
	Count int64        `json:"count"`
	Leads []model.Lead `json:"leads"`
}

type MessageInput struct {
	Direction model.MessageDirection
	Channel   string
	Body      string
}

type LeadService interface {
	Create(ctx context.Context, contact *model.User, in LeadInput) (*model.Lead, error)
	Get(ctx context.Context, actor *model.User, leadID int64) (*model.Lead, error)
	List(ctx context.Context, actor *model.User, scope LeadListScope) ([]model.Lead, error)
	Board(ctx context.Context, actor *model.User, teamID *int64) ([]BoardColumn, error)
	ChangeStage(ctx context.Context, actor *model.User, leadID int64, to model.Stage, note string) (*model.Lead, error)
	AddNote(ctx context.Context, actor *model.User, leadID int64, note string) (*model.LeadEvent, error)
	Reassign(ctx context.Context, actor *model.User, leadID, realtorID int64) (*model.Lead, error)
	Timeline(ctx context.Context, actor *model.User, leadID int64) ([]model.LeadEvent, error)
	LogMessage(ctx context.Context, actor *model.User, leadID int64, in MessageInput) (*model.LeadClientMessage, error)
	Messages(ctx context.Context, actor *model.User, leadID int64) ([]model.LeadClientMessage, error)
	WhatsAppLink(ctx context.Context, actor *model.User, leadID int64, text string) (string, error)
}

type leadService struct {
	leads      store.LeadStore
	events     store.LeadEventStore
	messages   store.LeadMessageStore
	properties store.PropertyStore
	teams      store.TeamStore
	members    store.TeamMemberStore
	txRunner   TxRunner
	producer   queue.Producer
	countryCC  string
	now        func() time.Time
}

func NewLeadService(
	leads store.LeadStore,
	events store.LeadEventStore,
	messages store.LeadMessageStore,
	properties store.PropertyStore,
	teams store.TeamStore,
	members store.TeamMemberStore,
	txRunner TxRunner,
	producer queue.Producer,
	defaultCountryCode string,
) LeadService {
	return &leadService{
		leads:      leads,
		events:     events,
		messages:   messages,
		properties: properties,
		teams:      teams,
		members:    members,
		txRunner:   txRunner,
		producer:   producer,
		countryCC:  defaultCountryCode,
		now:        time.Now,
	}
}

// Create stores a lead and routes it. Team listings go through distribution under a
// row lock on the team; other listings go to their owner. A team without an eligible
// realtor keeps the lead unassigned for the team owner to route by hand.
func (s *leadService) Create(ctx context.Context, contact *model.User, in LeadInput) (*model.Lead, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("getting property: %w", err)
	}
	if property.Status != model.PropertyStatusActive {
		return nil, ErrPropertyNotFound
	}

	lead := &model.Lead{
		ID:           id.New(),
		PropertyID:   property.ID,
		TeamID:       property.TeamID,
		ContactName:  in.Name,
		ContactEmail: in.Email,
		ContactPhone: in.Phone,
		Message:      in.Message,
		Source:       in.Source,
		Stage:        model.StageNew,
	}
	var actorID *int64
	if contact != nil {
		lead.ContactUserID = &contact.ID
		actorID = &contact.ID
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{LeadID: &lead.ID, PropertyID: &property.ID, TeamID: property.TeamID})

	var decision *distribution.Decision
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		decision = nil
		lead.RealtorID = nil
		if property.TeamID != nil {
			d, err := s.distribute(ctx, stores, *property.TeamID, property.OwnerID, in.PreferredRealtorID)
			switch {
			case errors.Is(err, distribution.ErrNoEligibleRealtor):
				slog.WarnContext(ctx, "no eligible realtor, lead left unassigned")
			case err != nil:
				return err
			default:
				decision = d
				lead.RealtorID = &d.RealtorID
			}
		} else {
			ownerID := property.OwnerID
			lead.RealtorID = &ownerID
		}

		if err := stores.Leads().Create(ctx, lead); err != nil {
			return fmt.Errorf("creating lead: %w", err)
		}

		if err := stores.LeadEvents().Create(ctx, &model.LeadEvent{
			ID:      id.New(),
			LeadID:  lead.ID,
			ActorID: actorID,
			Type:    model.LeadEventCreated,
			ToStage: &lead.Stage,
			Note:    string(lead.Source),
		}); err != nil {
			return fmt.Errorf("recording created event: %w", err)
		}

		if lead.RealtorID != nil {
			note := "property owner"
			if decision != nil {
				note = string(decision.Reason)
			}
			if err := stores.LeadEvents().Create(ctx, &model.LeadEvent{
				ID:     id.New(),
				LeadID: lead.ID,
				Type:   model.LeadEventAssigned,
				Note:   fmt.Sprintf("assigned to %d (%s)", *lead.RealtorID, note),
			}); err != nil {
				return fmt.Errorf("recording assigned event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create lead", "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "lead created", "realtor_id", lead.RealtorID, "source", lead.Source)
	s.enqueue(ctx, queue.Task{TaskType: queue.TaskTypeLeadCreated, LeadID: lead.ID, ActorID: actorID})
	return lead, nil
}

// distribute must run inside the lead transaction.
func (s *leadService) distribute(ctx context.Context, stores StoreProvider, teamID, capturerID int64, preferred *int64) (*distribution.Decision, error) {
	team, err := stores.Teams().GetForUpdate(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("locking team: %w", err)
	}
	members, err := stores.TeamMembers().List(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	d, err := distribution.Pick(distribution.Request{
		Mode:      team.DistributionMode,
		Members:   members,
		Capturer:  &capturerID,
		Preferred: preferred,
	})
	if err != nil {
		return nil, err
	}

	if d.Rotated {
		if err := stores.TeamMembers().SetQueuePosition(ctx, teamID, d.RealtorID, d.NewPosition); err != nil {
			return nil, fmt.Errorf("rotating queue: %w", err)
		}
	}
	slog.DebugContext(ctx, "lead distributed", "realtor_id", d.RealtorID, "reason", d.Reason, "rotated", d.Rotated)
	return &d, nil
}

func (s *leadService) Get(ctx context.Context, actor *model.User, leadID int64) (*model.Lead, error) {
	return s.loadAccessible(ctx, actor, leadID)
}

func (s *leadService) List(ctx context.Context, actor *model.User, scope LeadListScope) ([]model.Lead, error) {
	f, err := s.scopeFilter(ctx, actor, scope.TeamID)
	if err != nil {
		return nil, err
	}
	if scope.Stage != nil && !scope.Stage.IsValid() {
		return nil, invalid("unknown stage %q", *scope.Stage)
	}
	f.Stage = scope.Stage
	f.Limit = scope.Limit
	f.Offset = scope.Offset

	leads, err := s.leads.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return leads, nil
}

const boardColumnLimit = 50

// Board returns one column per pipeline stage, each with its total count and the
// newest leads, fetched concurrently.
func (s *leadService) Board(ctx context.Context, actor *model.User, teamID *int64) ([]BoardColumn, error) {
	base, err := s.scopeFilter(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}

	columns := make([]BoardColumn, len(model.Stages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var counts map[model.Stage]int64
	g.Go(func() error {
		c, err := s.leads.CountByStage(gctx, base)
		if err != nil {
			return fmt.Errorf("counting leads: %w", err)
		}
		counts = c
		return nil
	})
	for i, st := range model.Stages {
		g.Go(func() error {
			f := base
			f.Stage = &st
			f.Limit = boardColumnLimit
			leads, err := s.leads.List(gctx, f)
			if err != nil {
				return fmt.Errorf("listing %s leads: %w", st, err)
			}
			columns[i] = BoardColumn{Stage: st, Leads: leads}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range columns {
		columns[i].Count = counts[columns[i].Stage]
	}
	return columns, nil
}

// scopeFilter: own leads by default; a team's leads for its owner or an admin.
func (s *leadService) scopeFilter(ctx context.Context, actor *model.User, teamID *int64) (model.LeadFilter, error) {
	if teamID == nil {
		if !actor.Role.IsProfessional() && !actor.IsAdmin() && actor.Role != model.RoleOwner {
			return model.LeadFilter{}, ErrForbidden
		}
		return model.LeadFilter{RealtorID: &actor.ID}, nil
	}

	team, err := s.teams.GetByID(ctx, *teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.LeadFilter{}, ErrTeamNotFound
		}
		return model.LeadFilter{}, fmt.Errorf("getting team: %w", err)
	}
	if !actor.IsAdmin() && team.OwnerID != actor.ID {
		return model.LeadFilter{}, ErrForbidden
	}
	return model.LeadFilter{TeamID: teamID}, nil
}

func (s *leadService) ChangeStage(ctx context.Context, actor *model.User, leadID int64, to model.Stage, note string) (*model.Lead, error) {
	lead, err := s.loadAccessible(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}
	if err := stage.CanTransition(lead.Stage, to); err != nil {
		return nil, err
	}

	from := lead.Stage
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Leads().UpdateStage(ctx, leadID, from, to); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: lead is no longer in stage %s", ErrConflict, from)
			}
			return fmt.Errorf("updating stage: %w", err)
		}
		if err := stores.LeadEvents().Create(ctx, &model.LeadEvent{
			ID:        id.New(),
			LeadID:    leadID,
			ActorID:   &actor.ID,
			Type:      model.LeadEventStageChanged,
			FromStage: &from,
			ToStage:   &to,
			Note:      strings.TrimSpace(note),
		}); err != nil {
			return fmt.Errorf("recording stage event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{LeadID: &leadID})
	slog.InfoContext(ctx, "lead stage changed", "from", from, "to", to, "actor_id", actor.ID)

	s.enqueue(ctx, queue.Task{
		TaskType:  queue.TaskTypeLeadStageChanged,
		LeadID:    leadID,
		ActorID:   &actor.ID,
		FromStage: string(from),
		ToStage:   string(to),
	})

	lead.Stage = to
	return lead, nil
}

func (s *leadService) AddNote(ctx context.Context, actor *model.User, leadID int64, note string) (*model.LeadEvent, error) {
	if _, err := s.loadAccessible(ctx, actor, leadID); err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, invalid("note must not be empty")
	}

	event := &model.LeadEvent{
		ID:      id.New(),
		LeadID:  leadID,
		ActorID: &actor.ID,
		Type:    model.LeadEventNote,
		Note:    note,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("adding note: %w", err)
	}
	return event, nil
}

// Reassign is reserved to the team owner (or an admin). The new realtor must be an
// active member of the lead's team.
func (s *leadService) Reassign(ctx context.Context, actor *model.User, leadID, realtorID int64) (*model.Lead, error) {
	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.TeamID == nil {
		if !actor.IsAdmin() {
			return nil, ErrForbidden
		}
	} else {
		team, err := s.teams.GetByID(ctx, *lead.TeamID)
		if err != nil {
			return nil, fmt.Errorf("getting team: %w", err)
		}
		if !actor.IsAdmin() && team.OwnerID != actor.ID {
			return nil, ErrForbidden
		}
		member, err := s.members.Get(ctx, *lead.TeamID, realtorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, invalid("realtor %d is not a member of the team", realtorID)
			}
			return nil, fmt.Errorf("getting member: %w", err)
		}
		if !member.Active {
			return nil, invalid("realtor %d is inactive", realtorID)
		}
	}
	if lead.RealtorID != nil && *lead.RealtorID == realtorID {
		return lead, nil
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Leads().Assign(ctx, leadID, &realtorID); err != nil {
			return fmt.Errorf("assigning lead: %w", err)
		}
		return stores.LeadEvents().Create(ctx, &model.LeadEvent{
			ID:      id.New(),
			LeadID:  leadID,
			ActorID: &actor.ID,
			Type:    model.LeadEventAssigned,
			Note:    fmt.Sprintf("reassigned to %d", realtorID),
		})
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "lead reassigned", "lead_id", leadID, "realtor_id", realtorID, "actor_id", actor.ID)
	lead.RealtorID = &realtorID
	s.enqueue(ctx, queue.Task{TaskType: queue.TaskTypeLeadCreated, LeadID: leadID, ActorID: &actor.ID})
	return lead, nil
}

func (s *leadService) Timeline(ctx context.Context, actor *model.User, leadID int64) ([]model.LeadEvent, error) {
	if _, err := s.loadAccessible(ctx, actor, leadID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

func (s *leadService) LogMessage(ctx context.Context, actor *model.User, leadID int64, in MessageInput) (*model.LeadClientMessage, error) {
	if _, err := s.loadAccessible(ctx, actor, leadID); err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, invalid("message body is required")
	}
	if !in.Direction.IsValid() {
		return nil, invalid("direction must be INBOUND or OUTBOUND")
	}

	msg := &model.LeadClientMessage{
		ID:        id.New(),
		LeadID:    leadID,
		AuthorID:  &actor.ID,
		Direction: in.Direction,
		Channel:   strings.ToUpper(strings.TrimSpace(in.Channel)),
		Status:    model.MessageStatusSent,
		Body:      body,
	}
	if in.Direction == model.DirectionInbound {
		intent := string(coaching.Classify(body).Intent)
		msg.Intent = &intent
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("logging message: %w", err)
	}

	if in.Direction == model.DirectionOutbound {
		if err := s.leads.TouchContact(ctx, leadID, s.now()); err != nil {
			slog.WarnContext(ctx, "failed to update last contact", "error", err, "lead_id", leadID)
		}
	}
	return msg, nil
}

func (s *leadService) Messages(ctx context.Context, actor *model.User, leadID int64) ([]model.LeadClientMessage, error) {
	if _, err := s.loadAccessible(ctx, actor, leadID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}

func (s *leadService) WhatsAppLink(ctx context.Context, actor *model.User, leadID int64, text string) (string, error) {
	lead, err := s.loadAccessible(ctx, actor, leadID)
	if err != nil {
		return "", err
	}
	link, err := whatsapp.Link(lead.ContactPhone, text, s.countryCC)
	if err != nil {
		return "", invalid("lead has no usable phone number")
	}
	return link, nil
}

func (s *leadService) loadLead(ctx context.Context, leadID int64) (*model.Lead, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	return lead, nil
}

// loadAccessible allows the assigned realtor, the team owner and admins.
func (s *leadService) loadAccessible(ctx context.Context, actor *model.User, leadID int64) (*model.Lead, error) {
	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || (lead.RealtorID != nil && *lead.RealtorID == actor.ID) {
		return lead, nil
	}
	if lead.TeamID != nil {
		team, err := s.teams.GetByID(ctx, *lead.TeamID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("getting team: %w", err)
		}
		if team != nil && team.OwnerID == actor.ID {
			return lead, nil
		}
	}
	return nil, ErrForbidden
}

// enqueue is best effort: the lead is already committed, so a queue outage only
// delays assistant notifications.
func (s *leadService) enqueue(ctx context.Context, task queue.Task) {
	task.TraceID = logger.TraceID(ctx)
	if err := s.producer.Enqueue(ctx, task); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue lead task", "error", err, "task_type", task.TaskType, "lead_id", task.LeadID)
	}
}
