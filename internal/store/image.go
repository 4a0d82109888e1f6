package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

const imageColumns = `id, property_id, public_id, url, sort_order, created_at`

type imageStore struct {
	db db.DBTX
}

func newImageStore(conn db.DBTX) ImageStore {
	return &imageStore{db: conn}
}

func (s *imageStore) Create(ctx context.Context, img *model.Image) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO property_images (id, property_id, public_id, url, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+imageColumns,
		img.ID, img.PropertyID, img.PublicID, img.URL, img.SortOrder)
	created, err := scanImage(row)
	if err != nil {
		return err
	}
	*img = *created
	return nil
}

func (s *imageStore) GetByID(ctx context.Context, id int64) (*model.Image, error) {
	return scanImage(s.db.QueryRow(ctx, `SELECT `+imageColumns+` FROM property_images WHERE id = $1`, id))
}

func (s *imageStore) Delete(ctx context.Context, id int64) error {
	return expectOne(s.db.Exec(ctx, `DELETE FROM property_images WHERE id = $1`, id))
}

func (s *imageStore) ListByProperty(ctx context.Context, propertyID int64) ([]model.Image, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+imageColumns+` FROM property_images
		WHERE property_id = $1 ORDER BY sort_order, id`, propertyID)
	if err != nil {
		return nil, err
	}
	return collectImages(rows)
}

func (s *imageStore) ListByProperties(ctx context.Context, propertyIDs []int64) (map[int64][]model.Image, error) {
	out := make(map[int64][]model.Image, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+imageColumns+` FROM property_images
		WHERE property_id = ANY($1) ORDER BY property_id, sort_order, id`, propertyIDs)
	if err != nil {
		return nil, err
	}
	images, err := collectImages(rows)
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		out[img.PropertyID] = append(out[img.PropertyID], img)
	}
	return out, nil
}

func (s *imageStore) CountByProperty(ctx context.Context, propertyID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM property_images WHERE property_id = $1`, propertyID).Scan(&n)
	return n, err
}

// NextSortOrder is one past the highest position in use, so uploads after a
// delete never collide with a surviving image.
func (s *imageStore) NextSortOrder(ctx context.Context, propertyID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM property_images WHERE property_id = $1`, propertyID).Scan(&n)
	return n, err
}

func (s *imageStore) SetSortOrder(ctx context.Context, propertyID int64, order map[int64]int) error {
	for id, pos := range order {
		if err := expectOne(s.db.Exec(ctx,
			`UPDATE property_images SET sort_order = $3 WHERE id = $1 AND property_id = $2`, id, propertyID, pos)); err != nil {
			return err
		}
	}
	return nil
}

func collectImages(rows pgx.Rows) ([]model.Image, error) {
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.Image, error) {
		img, err := scanImage(r)
		if err != nil {
			return model.Image{}, err
		}
		return *img, nil
	})
}

func scanImage(row scanner) (*model.Image, error) {
	var img model.Image
	if err := row.Scan(&img.ID, &img.PropertyID, &img.PublicID, &img.URL, &img.SortOrder, &img.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &img, nil
}
