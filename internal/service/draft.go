package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/internal/assist"
	"zillowlike.app/api/internal/coaching"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/store"
)

type DraftResult struct {
	Draft          assist.Draft             `json:"draft"`
	Classification coaching.Classification  `json:"classification"`
	Message        *model.LeadClientMessage `json:"message"`
}

type DraftService interface {
	// Draft suggests a reply to text, or to the lead's last inbound message when text is empty.
	Draft(ctx context.Context, actor *model.User, leadID int64, text string) (*DraftResult, error)
}

type draftService struct {
	leads      LeadService
	messages   store.LeadMessageStore
	properties store.PropertyStore
	settings   store.SettingStore
	writer     *assist.Assistant
}

func NewDraftService(
	leads LeadService,
	messages store.LeadMessageStore,
	properties store.PropertyStore,
	settings store.SettingStore,
	writer *assist.Assistant,
) DraftService {
	return &draftService{
		leads:      leads,
		messages:   messages,
		properties: properties,
		settings:   settings,
		writer:     writer,
	}
}

func (s *draftService) Draft(ctx context.Context, actor *model.User, leadID int64, text string) (*DraftResult, error) {
	lead, err := s.leads.Get(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		last, err := s.messages.LastInbound(ctx, leadID)
		switch {
		case err == nil:
			text = last.Body
		case errors.Is(err, store.ErrNotFound):
			text = lead.Message
		default:
			return nil, fmt.Errorf("getting last inbound message: %w", err)
		}
	}

	cls := coaching.Classify(text)

	property, err := s.properties.GetByID(ctx, lead.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("getting property: %w", err)
	}

	in := assist.DraftInput{
		ClientName:    lead.ContactName,
		RealtorName:   actor.Name,
		PropertyTitle: property.Title,
		PropertyCity:  property.Address.City,
		Purpose:       string(property.Purpose),
		PriceCents:    property.PriceCents,
		ClientMessage: text,
		Intent:        cls.Intent,
	}

	var draft assist.Draft
	if aiEnabled(ctx, s.settings) {
		draft = s.writer.Reply(ctx, in)
	} else {
		draft = assist.FallbackReply(in)
	}

	intent := string(cls.Intent)
	msg := &model.LeadClientMessage{
		ID:        id.New(),
		LeadID:    leadID,
		AuthorID:  &actor.ID,
		Direction: model.DirectionOutbound,
		Status:    model.MessageStatusDraft,
		Body:      draft.Reply,
		Intent:    &intent,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("saving draft: %w", err)
	}

	slog.InfoContext(ctx, "reply draft generated",
		"lead_id", leadID,
		"intent", cls.Intent,
		"fallback", draft.Fallback,
	)

	return &DraftResult{Draft: draft, Classification: cls, Message: msg}, nil
}
