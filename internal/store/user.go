package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

const userColumns = `id, workos_id, name, email, phone, avatar_url, creci, role, created_at, updated_at`

type userStore struct {
	db db.DBTX
}

func newUserStore(conn db.DBTX) UserStore {
	return &userStore{db: conn}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *userStore) GetByWorkOSID(ctx context.Context, workosID string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE workos_id = $1`, workosID)
	return scanUser(row)
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, workos_id, name, email, phone, avatar_url, creci, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.ID, user.WorkOSID, user.Name, user.Email, user.Phone, user.AvatarURL, user.Creci, role)
	created, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

func (s *userStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, workos_id, name, email, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5, 'USER')
		ON CONFLICT (email) DO UPDATE
		SET workos_id = EXCLUDED.workos_id,
		    name = EXCLUDED.name,
		    avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
		    updated_at = now()
		RETURNING `+userColumns,
		user.ID, user.WorkOSID, user.Name, user.Email, user.AvatarURL)
	upserted, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *upserted
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	row := s.db.QueryRow(ctx, `
		UPDATE users
		SET workos_id = $2, name = $3, email = $4, phone = $5, avatar_url = $6, creci = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.WorkOSID, user.Name, user.Email, user.Phone, user.AvatarURL, user.Creci)
	updated, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *updated
	return nil
}

func (s *userStore) UpdateRole(ctx context.Context, id int64, role model.Role) (*model.User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, role)
	return scanUser(row)
}

func (s *userStore) List(ctx context.Context, role *model.Role, limit, offset int32) ([]model.User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE ($1::text IS NULL OR role = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		role, clampLimit(limit, 20, 100), offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.User, error) {
		u, err := scanUser(r)
		if err != nil {
			return model.User{}, err
		}
		return *u, nil
	})
}

func (s *userStore) CountByRole(ctx context.Context) (map[model.Role]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Role]int64)
	for rows.Next() {
		var role model.Role
		var n int64
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		out[role] = n
	}
	return out, rows.Err()
}

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.WorkOSID, &u.Name, &u.Email, &u.Phone, &u.AvatarURL, &u.Creci,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
