package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/realtime"
	"zillowlike.app/api/internal/store"
)

type AssistantService interface {
	List(ctx context.Context, actor *model.User) ([]model.AssistantItem, error)
	MarkDone(ctx context.Context, actor *model.User, itemID int64) error
	Dismiss(ctx context.Context, actor *model.User, itemID int64) error
	Snooze(ctx context.Context, actor *model.User, itemID int64, until time.Time) error

	NotifyLeadCreated(ctx context.Context, leadID int64) error
	HandleStageChanged(ctx context.Context, leadID int64, to model.Stage) error
}

type assistantService struct {
	items     store.AssistantStore
	leads     store.LeadStore
	teams     store.TeamStore
	settings  store.SettingStore
	publisher realtime.Publisher
	now       func() time.Time
}

func NewAssistantService(
	items store.AssistantStore,
	leads store.LeadStore,
	teams store.TeamStore,
	settings store.SettingStore,
	publisher realtime.Publisher,
) AssistantService {
	return &assistantService{
		items:     items,
		leads:     leads,
		teams:     teams,
		settings:  settings,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *assistantService) List(ctx context.Context, actor *model.User) ([]model.AssistantItem, error) {
	items, err := s.items.ListOpen(ctx, actor.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("listing assistant items: %w", err)
	}
	return items, nil
}

func (s *assistantService) MarkDone(ctx context.Context, actor *model.User, itemID int64) error {
	return s.setStatus(ctx, actor, itemID, model.AssistantDone)
}

func (s *assistantService) Dismiss(ctx context.Context, actor *model.User, itemID int64) error {
	return s.setStatus(ctx, actor, itemID, model.AssistantDismissed)
}

func (s *assistantService) Snooze(ctx context.Context, actor *model.User, itemID int64, until time.Time) error {
	item, err := s.loadOwn(ctx, actor, itemID)
	if err != nil {
		return err
	}
	if item.Status != model.AssistantOpen {
		return invalid("only open items can be snoozed")
	}
	if !until.After(s.now()) {
		return invalid("snooze time must be in the future")
	}
	if err := s.items.Snooze(ctx, itemID, until); err != nil {
		return fmt.Errorf("snoozing item: %w", err)
	}
	return nil
}

func (s *assistantService) setStatus(ctx context.Context, actor *model.User, itemID int64, status model.AssistantItemStatus) error {
	item, err := s.loadOwn(ctx, actor, itemID)
	if err != nil {
		return err
	}
	if item.Status == status {
		return nil
	}
	if err := s.items.UpdateStatus(ctx, itemID, status); err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

func (s *assistantService) loadOwn(ctx context.Context, actor *model.User, itemID int64) (*model.AssistantItem, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAssistantItemNotFound
		}
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if item.UserID != actor.ID {
		return nil, ErrAssistantItemNotFound
	}
	return item, nil
}

// NotifyLeadCreated gives the lead's realtor (or the team owner for an unassigned
// team lead) a NEW_LEAD item and a FOLLOW_UP reminder, then pushes both.
// Redelivered tasks only fill in items that are still missing.
func (s *assistantService) NotifyLeadCreated(ctx context.Context, leadID int64) error {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "lead vanished before notification", "lead_id", leadID)
			return nil
		}
		return fmt.Errorf("getting lead: %w", err)
	}

	recipient, err := s.recipient(ctx, lead)
	if err != nil {
		return err
	}
	if recipient == 0 {
		slog.WarnContext(ctx, "lead has no one to notify", "lead_id", leadID)
		return nil
	}

	now := s.now()
	due := now.Add(followUpDelay(ctx, s.settings))
	items := []*model.AssistantItem{
		{
			ID:     id.New(),
			UserID: recipient,
			LeadID: &lead.ID,
			Type:   model.AssistantNewLead,
			Title:  "Novo lead: " + lead.ContactName,
			Body:   newLeadBody(lead),
			Status: model.AssistantOpen,
			DueAt:  &now,
		},
		{
			ID:     id.New(),
			UserID: recipient,
			LeadID: &lead.ID,
			Type:   model.AssistantFollowUp,
			Title:  "Retornar para " + lead.ContactName,
			Body:   "Verifique se o contato respondeu e avance o lead no funil.",
			Status: model.AssistantOpen,
			DueAt:  &due,
		},
	}

	created := 0
	for _, item := range items {
		ok, err := s.items.CreateForLead(ctx, item)
		if err != nil {
			return fmt.Errorf("creating %s item: %w", item.Type, err)
		}
		if !ok {
			continue
		}
		created++
		if err := s.publisher.Publish(ctx, realtime.UserChannel(recipient), realtime.EventAssistantItemCreated, item); err != nil {
			// Push is a convenience; the feed is the source of truth.
			slog.WarnContext(ctx, "failed to push assistant item", "error", err, "item_id", item.ID)
		}
	}

	if created == 0 {
		slog.InfoContext(ctx, "lead notification already delivered", "lead_id", leadID, "user_id", recipient)
		return nil
	}
	slog.InfoContext(ctx, "lead notification created", "lead_id", leadID, "user_id", recipient, "items", created)
	return nil
}

func (s *assistantService) recipient(ctx context.Context, lead *model.Lead) (int64, error) {
	if lead.RealtorID != nil {
		return *lead.RealtorID, nil
	}
	if lead.TeamID == nil {
		return 0, nil
	}
	team, err := s.teams.GetByID(ctx, *lead.TeamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("getting team: %w", err)
	}
	return team.OwnerID, nil
}

func newLeadBody(lead *model.Lead) string {
	body := lead.Message
	if body == "" {
		body = "Sem mensagem."
	}
	contact := lead.ContactPhone
	if contact == "" {
		contact = lead.ContactEmail
	}
	return fmt.Sprintf("%s\nContato: %s", body, contact)
}

// HandleStageChanged closes pending follow-ups once a lead is won or lost.
func (s *assistantService) HandleStageChanged(ctx context.Context, leadID int64, to model.Stage) error {
	if !to.IsTerminal() {
		return nil
	}
	n, err := s.items.CloseOpenForLead(ctx, leadID, model.AssistantFollowUp)
	if err != nil {
		return fmt.Errorf("closing follow-ups: %w", err)
	}
	slog.InfoContext(ctx, "follow-ups closed", "lead_id", leadID, "stage", to, "count", n)
	return nil
}
