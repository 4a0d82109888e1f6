package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

const assistantColumns = `id, user_id, lead_id, type, title, body, status, due_at, snoozed_until, created_at, updated_at`

type assistantStore struct {
	db db.DBTX
}

func newAssistantStore(conn db.DBTX) AssistantStore {
	return &assistantStore{db: conn}
}

func (s *assistantStore) GetByID(ctx context.Context, id int64) (*model.AssistantItem, error) {
	return scanAssistantItem(s.db.QueryRow(ctx, `SELECT `+assistantColumns+` FROM assistant_items WHERE id = $1`, id))
}

func (s *assistantStore) Create(ctx context.Context, item *model.AssistantItem) error {
	status := item.Status
	if status == "" {
		status = model.AssistantOpen
	}
	created, err := scanAssistantItem(s.db.QueryRow(ctx, `
		INSERT INTO assistant_items (id, user_id, lead_id, type, title, body, status, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+assistantColumns,
		item.ID, item.UserID, item.LeadID, item.Type, item.Title, item.Body, status, item.DueAt))
	if err != nil {
		return err
	}
	*item = *created
	return nil
}

// CreateForLead inserts a lead-bound item unless the user already has one of
// the same type for that lead. It reports whether a row was written.
func (s *assistantStore) CreateForLead(ctx context.Context, item *model.AssistantItem) (bool, error) {
	status := item.Status
	if status == "" {
		status = model.AssistantOpen
	}
	created, err := scanAssistantItem(s.db.QueryRow(ctx, `
		INSERT INTO assistant_items (id, user_id, lead_id, type, title, body, status, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, lead_id, type) WHERE lead_id IS NOT NULL DO NOTHING
		RETURNING `+assistantColumns,
		item.ID, item.UserID, item.LeadID, item.Type, item.Title, item.Body, status, item.DueAt))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	*item = *created
	return true, nil
}

func (s *assistantStore) ListOpen(ctx context.Context, userID int64, now time.Time) ([]model.AssistantItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+assistantColumns+` FROM assistant_items
		WHERE user_id = $1 AND status = 'OPEN'
		ORDER BY (snoozed_until IS NOT NULL AND snoozed_until > $2),
			due_at NULLS LAST, created_at DESC, id DESC
		LIMIT 200`, userID, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.AssistantItem, error) {
		item, err := scanAssistantItem(r)
		if err != nil {
			return model.AssistantItem{}, err
		}
		return *item, nil
	})
}

func (s *assistantStore) UpdateStatus(ctx context.Context, id int64, status model.AssistantItemStatus) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE assistant_items SET status = $2, updated_at = now() WHERE id = $1`, id, status))
}

func (s *assistantStore) Snooze(ctx context.Context, id int64, until time.Time) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE assistant_items SET snoozed_until = $2, updated_at = now() WHERE id = $1`, id, until))
}

func (s *assistantStore) CloseOpenForLead(ctx context.Context, leadID int64, itemType model.AssistantItemType) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE assistant_items SET status = 'DONE', updated_at = now()
		WHERE lead_id = $1 AND type = $2 AND status = 'OPEN'`, leadID, itemType)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanAssistantItem(row scanner) (*model.AssistantItem, error) {
	var i model.AssistantItem
	err := row.Scan(&i.ID, &i.UserID, &i.LeadID, &i.Type, &i.Title, &i.Body, &i.Status,
		&i.DueAt, &i.SnoozedUntil, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &i, nil
}
