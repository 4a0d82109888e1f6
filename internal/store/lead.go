package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

const leadColumns = `id, property_id, team_id, realtor_id, contact_user_id, contact_name, contact_email,
	contact_phone, message, source, stage, last_contact_at, created_at, updated_at`

type leadStore struct {
	db db.DBTX
}

func newLeadStore(conn db.DBTX) LeadStore {
	return &leadStore{db: conn}
}

func (s *leadStore) GetByID(ctx context.Context, id int64) (*model.Lead, error) {
	return scanLead(s.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

func (s *leadStore) Create(ctx context.Context, lead *model.Lead) error {
	stage := lead.Stage
	if stage == "" {
		stage = model.StageNew
	}
	source := lead.Source
	if source == "" {
		source = model.LeadSourceSite
	}
	created, err := scanLead(s.db.QueryRow(ctx, `
		INSERT INTO leads (id, property_id, team_id, realtor_id, contact_user_id, contact_name,
			contact_email, contact_phone, message, source, stage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns,
		lead.ID, lead.PropertyID, lead.TeamID, lead.RealtorID, lead.ContactUserID, lead.ContactName,
		lead.ContactEmail, lead.ContactPhone, lead.Message, source, stage))
	if err != nil {
		return err
	}
	*lead = *created
	return nil
}

// UpdateStage moves the lead only while it is still in from; ErrNotFound means
// the row is gone or another writer moved it first.
func (s *leadStore) UpdateStage(ctx context.Context, id int64, from, to model.Stage) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE leads SET stage = $3, updated_at = now() WHERE id = $1 AND stage = $2`, id, from, to))
}

func (s *leadStore) Assign(ctx context.Context, id int64, realtorID *int64) error {
	return expectOne(s.db.Exec(ctx, `UPDATE leads SET realtor_id = $2, updated_at = now() WHERE id = $1`, id, realtorID))
}

func (s *leadStore) TouchContact(ctx context.Context, id int64, at time.Time) error {
	return expectOne(s.db.Exec(ctx, `UPDATE leads SET last_contact_at = $2, updated_at = now() WHERE id = $1`, id, at))
}

func (s *leadStore) List(ctx context.Context, f model.LeadFilter) ([]model.Lead, error) {
	where, args := leadWhere(f)
	args = append(args, clampLimit(f.Limit, 50, 200), max(f.Offset, 0))
	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		leadColumns, where, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.Lead, error) {
		l, err := scanLead(r)
		if err != nil {
			return model.Lead{}, err
		}
		return *l, nil
	})
}

func (s *leadStore) CountByStage(ctx context.Context, f model.LeadFilter) (map[model.Stage]int64, error) {
	where, args := leadWhere(model.LeadFilter{RealtorID: f.RealtorID, TeamID: f.TeamID})
	rows, err := s.db.Query(ctx, `SELECT stage, count(*) FROM leads`+where+` GROUP BY stage`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Stage]int64)
	for rows.Next() {
		var stage model.Stage
		var n int64
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		out[stage] = n
	}
	return out, rows.Err()
}

func (s *leadStore) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM leads WHERE created_at >= $1`, since).Scan(&n)
	return n, err
}

func leadWhere(f model.LeadFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.RealtorID != nil {
		args = append(args, *f.RealtorID)
		clauses = append(clauses, fmt.Sprintf("realtor_id = $%d", len(args)))
	}
	if f.TeamID != nil {
		args = append(args, *f.TeamID)
		clauses = append(clauses, fmt.Sprintf("team_id = $%d", len(args)))
	}
	if f.Stage != nil {
		args = append(args, *f.Stage)
		clauses = append(clauses, fmt.Sprintf("stage = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanLead(row scanner) (*model.Lead, error) {
	var l model.Lead
	err := row.Scan(&l.ID, &l.PropertyID, &l.TeamID, &l.RealtorID, &l.ContactUserID, &l.ContactName,
		&l.ContactEmail, &l.ContactPhone, &l.Message, &l.Source, &l.Stage, &l.LastContactAt,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

type leadEventStore struct {
	db db.DBTX
}

func newLeadEventStore(conn db.DBTX) LeadEventStore {
	return &leadEventStore{db: conn}
}

func (s *leadEventStore) Create(ctx context.Context, e *model.LeadEvent) error {
	return s.db.QueryRow(ctx, `
		INSERT INTO lead_events (id, lead_id, actor_id, type, from_stage, to_stage, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		e.ID, e.LeadID, e.ActorID, e.Type, e.FromStage, e.ToStage, e.Note).Scan(&e.CreatedAt)
}

func (s *leadEventStore) ListByLead(ctx context.Context, leadID int64) ([]model.LeadEvent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, lead_id, actor_id, type, from_stage, to_stage, note, created_at
		FROM lead_events WHERE lead_id = $1
		ORDER BY created_at, id`, leadID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.LeadEvent, error) {
		var e model.LeadEvent
		err := r.Scan(&e.ID, &e.LeadID, &e.ActorID, &e.Type, &e.FromStage, &e.ToStage, &e.Note, &e.CreatedAt)
		return e, err
	})
}

const messageColumns = `id, lead_id, author_id, direction, channel, status, body, intent, created_at`

type leadMessageStore struct {
	db db.DBTX
}

func newLeadMessageStore(conn db.DBTX) LeadMessageStore {
	return &leadMessageStore{db: conn}
}

func (s *leadMessageStore) Create(ctx context.Context, m *model.LeadClientMessage) error {
	if m.Status == "" {
		m.Status = model.MessageStatusSent
	}
	if m.Channel == "" {
		m.Channel = "WHATSAPP"
	}
	return s.db.QueryRow(ctx, `
		INSERT INTO lead_client_messages (id, lead_id, author_id, direction, channel, status, body, intent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		m.ID, m.LeadID, m.AuthorID, m.Direction, m.Channel, m.Status, m.Body, m.Intent).Scan(&m.CreatedAt)
}

func (s *leadMessageStore) ListByLead(ctx context.Context, leadID int64) ([]model.LeadClientMessage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+messageColumns+` FROM lead_client_messages
		WHERE lead_id = $1 ORDER BY created_at, id`, leadID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.LeadClientMessage, error) {
		m, err := scanMessage(r)
		if err != nil {
			return model.LeadClientMessage{}, err
		}
		return *m, nil
	})
}

func (s *leadMessageStore) LastInbound(ctx context.Context, leadID int64) (*model.LeadClientMessage, error) {
	return scanMessage(s.db.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM lead_client_messages
		WHERE lead_id = $1 AND direction = $2
		ORDER BY created_at DESC, id DESC LIMIT 1`, leadID, model.DirectionInbound))
}

func scanMessage(row scanner) (*model.LeadClientMessage, error) {
	var m model.LeadClientMessage
	err := row.Scan(&m.ID, &m.LeadID, &m.AuthorID, &m.Direction, &m.Channel, &m.Status, &m.Body, &m.Intent, &m.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}
