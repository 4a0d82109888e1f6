package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

const clientColumns = `id, realtor_id, name, email, phone, notes, budget_min_cents, budget_max_cents,
	preferred_cities, created_at, updated_at`

type clientStore struct {
	db db.DBTX
}

func newClientStore(conn db.DBTX) ClientStore {
	return &clientStore{db: conn}
}

func (s *clientStore) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	return scanClient(s.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

func (s *clientStore) Create(ctx context.Context, c *model.Client) error {
	created, err := scanClient(s.db.QueryRow(ctx, `
		INSERT INTO clients (id, realtor_id, name, email, phone, notes, budget_min_cents, budget_max_cents, preferred_cities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+clientColumns,
		c.ID, c.RealtorID, c.Name, c.Email, c.Phone, c.Notes, c.BudgetMinCents, c.BudgetMaxCents, nonNil(c.PreferredCities)))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

func (s *clientStore) Update(ctx context.Context, c *model.Client) error {
	updated, err := scanClient(s.db.QueryRow(ctx, `
		UPDATE clients SET name = $2, email = $3, phone = $4, notes = $5, budget_min_cents = $6,
			budget_max_cents = $7, preferred_cities = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+clientColumns,
		c.ID, c.Name, c.Email, c.Phone, c.Notes, c.BudgetMinCents, c.BudgetMaxCents, nonNil(c.PreferredCities)))
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

func (s *clientStore) Delete(ctx context.Context, id int64) error {
	return expectOne(s.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id))
}

func (s *clientStore) ListByRealtor(ctx context.Context, realtorID int64) ([]model.Client, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+clientColumns+` FROM clients WHERE realtor_id = $1 ORDER BY name, id`, realtorID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.Client, error) {
		c, err := scanClient(r)
		if err != nil {
			return model.Client{}, err
		}
		return *c, nil
	})
}

func scanClient(row scanner) (*model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.RealtorID, &c.Name, &c.Email, &c.Phone, &c.Notes,
		&c.BudgetMinCents, &c.BudgetMaxCents, &c.PreferredCities, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type recommendationStore struct {
	db db.DBTX
}

func newRecommendationStore(conn db.DBTX) RecommendationStore {
	return &recommendationStore{db: conn}
}

const recommendationSelect = `
	SELECT l.id, l.realtor_id, l.client_id, l.title, l.share_token, l.created_at,
		COALESCE(array_agg(i.property_id ORDER BY i.position) FILTER (WHERE i.property_id IS NOT NULL), '{}')
	FROM client_recommendation_lists l
	LEFT JOIN client_recommendation_items i ON i.list_id = l.id`

func (s *recommendationStore) GetByID(ctx context.Context, id int64) (*model.RecommendationList, error) {
	return scanRecommendation(s.db.QueryRow(ctx, recommendationSelect+` WHERE l.id = $1 GROUP BY l.id`, id))
}

func (s *recommendationStore) GetByShareToken(ctx context.Context, token uuid.UUID) (*model.RecommendationList, error) {
	return scanRecommendation(s.db.QueryRow(ctx, recommendationSelect+` WHERE l.share_token = $1 GROUP BY l.id`,
		pgtype.UUID{Bytes: token, Valid: true}))
}

func (s *recommendationStore) Create(ctx context.Context, list *model.RecommendationList) error {
	if list.ShareToken == uuid.Nil {
		list.ShareToken = uuid.New()
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO client_recommendation_lists (id, realtor_id, client_id, title, share_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		list.ID, list.RealtorID, list.ClientID, list.Title, pgtype.UUID{Bytes: list.ShareToken, Valid: true}).
		Scan(&list.CreatedAt)
	if err != nil {
		return err
	}
	for _, pid := range list.PropertyIDs {
		if err := s.AddProperty(ctx, list.ID, pid); err != nil {
			return err
		}
	}
	if list.PropertyIDs == nil {
		list.PropertyIDs = []int64{}
	}
	return nil
}

func (s *recommendationStore) ListByRealtor(ctx context.Context, realtorID int64) ([]model.RecommendationList, error) {
	rows, err := s.db.Query(ctx, recommendationSelect+`
		WHERE l.realtor_id = $1 GROUP BY l.id ORDER BY l.created_at DESC`, realtorID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.RecommendationList, error) {
		l, err := scanRecommendation(r)
		if err != nil {
			return model.RecommendationList{}, err
		}
		return *l, nil
	})
}

// AddProperty appends to the end of the list; re-adding an existing property is a no-op.
func (s *recommendationStore) AddProperty(ctx context.Context, listID, propertyID int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO client_recommendation_items (list_id, property_id, position)
		SELECT $1, $2, COALESCE(max(position), -1) + 1
		FROM client_recommendation_items WHERE list_id = $1
		ON CONFLICT (list_id, property_id) DO NOTHING`, listID, propertyID)
	return err
}

func (s *recommendationStore) RemoveProperty(ctx context.Context, listID, propertyID int64) error {
	return expectOne(s.db.Exec(ctx,
		`DELETE FROM client_recommendation_items WHERE list_id = $1 AND property_id = $2`, listID, propertyID))
}

func scanRecommendation(row scanner) (*model.RecommendationList, error) {
	var l model.RecommendationList
	var token pgtype.UUID
	err := row.Scan(&l.ID, &l.RealtorID, &l.ClientID, &l.Title, &token, &l.CreatedAt, &l.PropertyIDs)
	if err != nil {
		return nil, notFound(err)
	}
	l.ShareToken = uuid.UUID(token.Bytes)
	return &l, nil
}
