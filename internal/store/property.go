package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

const propertyColumns = `id, owner_id, team_id, title, description, slug, purpose, type, status,
	price_cents, condo_fee_cents, iptu_cents, area_m2, bedrooms, bathrooms, parking_spots,
	street, number, neighborhood, city, state, postal_code, latitude, longitude, view_count,
	created_at, updated_at`

const (
	defaultPageSize int32 = 20
	maxPageSize     int32 = 50
)

type propertyStore struct {
	db db.DBTX
}

func newPropertyStore(conn db.DBTX) PropertyStore {
	return &propertyStore{db: conn}
}

func (s *propertyStore) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	row := s.db.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	return scanProperty(row)
}

func (s *propertyStore) Create(ctx context.Context, p *model.Property) error {
	status := p.Status
	if status == "" {
		status = model.PropertyStatusDraft
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO properties (
			id, owner_id, team_id, title, description, slug, purpose, type, status,
			price_cents, condo_fee_cents, iptu_cents, area_m2, bedrooms, bathrooms, parking_spots,
			street, number, neighborhood, city, state, postal_code, latitude, longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING `+propertyColumns,
		p.ID, p.OwnerID, p.TeamID, p.Title, p.Description, p.Slug, p.Purpose, p.Type, status,
		p.PriceCents, p.CondoFeeCents, p.IPTUCents, p.AreaM2, p.Bedrooms, p.Bathrooms, p.ParkingSpots,
		p.Address.Street, p.Address.Number, p.Address.Neighborhood, p.Address.City, p.Address.State,
		p.Address.PostalCode, p.Latitude, p.Longitude)
	created, err := scanProperty(row)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (s *propertyStore) Update(ctx context.Context, p *model.Property) error {
	row := s.db.QueryRow(ctx, `
		UPDATE properties SET
			team_id = $2, title = $3, description = $4, purpose = $5, type = $6,
			price_cents = $7, condo_fee_cents = $8, iptu_cents = $9, area_m2 = $10,
			bedrooms = $11, bathrooms = $12, parking_spots = $13,
			street = $14, number = $15, neighborhood = $16, city = $17, state = $18, postal_code = $19,
			latitude = $20, longitude = $21, slug = $22, updated_at = now()
		WHERE id = $1
		RETURNING `+propertyColumns,
		p.ID, p.TeamID, p.Title, p.Description, p.Purpose, p.Type,
		p.PriceCents, p.CondoFeeCents, p.IPTUCents, p.AreaM2,
		p.Bedrooms, p.Bathrooms, p.ParkingSpots,
		p.Address.Street, p.Address.Number, p.Address.Neighborhood, p.Address.City, p.Address.State,
		p.Address.PostalCode, p.Latitude, p.Longitude, p.Slug)
	updated, err := scanProperty(row)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (s *propertyStore) UpdateStatus(ctx context.Context, id int64, status model.PropertyStatus) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE properties SET status = $2, updated_at = now() WHERE id = $1`, id, status))
}

func (s *propertyStore) UpdateDescription(ctx context.Context, id int64, description string) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE properties SET description = $2, updated_at = now() WHERE id = $1`, id, description))
}

func (s *propertyStore) Delete(ctx context.Context, id int64) error {
	return expectOne(s.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id))
}

func (s *propertyStore) Search(ctx context.Context, f model.PropertyFilter) ([]model.Property, error) {
	query, args := buildPropertySearch(f)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching properties: %w", err)
	}
	return collectProperties(rows)
}

func (s *propertyStore) ListByIDs(ctx context.Context, ids []int64) ([]model.Property, error) {
	if len(ids) == 0 {
		return []model.Property{}, nil
	}
	rows, err := s.db.Query(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

func (s *propertyStore) IncrementViews(ctx context.Context, id int64) error {
	return expectOne(s.db.Exec(ctx, `UPDATE properties SET view_count = view_count + 1 WHERE id = $1`, id))
}

func (s *propertyStore) CountByStatus(ctx context.Context) (map[model.PropertyStatus]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT status, count(*) FROM properties GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.PropertyStatus]int64)
	for rows.Next() {
		var status model.PropertyStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// buildPropertySearch turns a filter into a parameterized query. Only values travel
// as arguments; column names and sort order come from a fixed set.
func buildPropertySearch(f model.PropertyFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.OwnerID != nil {
		add("owner_id = $%d", *f.OwnerID)
	}
	if f.City != "" {
		add("lower(city) = lower($%d)", f.City)
	}
	if f.State != "" {
		add("upper(state) = upper($%d)", f.State)
	}
	if f.Purpose != nil {
		add("purpose = $%d", *f.Purpose)
	}
	if f.Type != nil {
		add("type = $%d", *f.Type)
	}
	if f.MinPrice != nil {
		add("price_cents >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price_cents <= $%d", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		add("bedrooms >= $%d", *f.MinBedrooms)
	}
	if f.BBox != nil {
		add("latitude >= $%d", f.BBox.MinLat)
		add("latitude <= $%d", f.BBox.MaxLat)
		add("longitude >= $%d", f.BBox.MinLng)
		add("longitude <= $%d", f.BBox.MaxLng)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		add("title ILIKE $%d", "%"+escapeLike(q)+"%")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(propertyColumns)
	b.WriteString(" FROM properties")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	switch f.Sort {
	case model.SortPriceAsc:
		b.WriteString(" ORDER BY price_cents ASC, id DESC")
	case model.SortPriceDesc:
		b.WriteString(" ORDER BY price_cents DESC, id DESC")
	default:
		b.WriteString(" ORDER BY created_at DESC, id DESC")
	}

	args = append(args, clampLimit(f.Limit, defaultPageSize, maxPageSize))
	fmt.Fprintf(&b, " LIMIT $%d", len(args))
	args = append(args, max(f.Offset, 0))
	fmt.Fprintf(&b, " OFFSET $%d", len(args))

	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func collectProperties(rows pgx.Rows) ([]model.Property, error) {
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.Property, error) {
		p, err := scanProperty(r)
		if err != nil {
			return model.Property{}, err
		}
		return *p, nil
	})
}

func scanProperty(row scanner) (*model.Property, error) {
	var p model.Property
	err := row.Scan(&p.ID, &p.OwnerID, &p.TeamID, &p.Title, &p.Description, &p.Slug,
		&p.Purpose, &p.Type, &p.Status,
		&p.PriceCents, &p.CondoFeeCents, &p.IPTUCents, &p.AreaM2, &p.Bedrooms, &p.Bathrooms, &p.ParkingSpots,
		&p.Address.Street, &p.Address.Number, &p.Address.Neighborhood, &p.Address.City, &p.Address.State,
		&p.Address.PostalCode, &p.Latitude, &p.Longitude, &p.ViewCount,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}
