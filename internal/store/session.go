package store

import (
	"context"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

type sessionStore struct {
	db db.DBTX
}

func newSessionStore(conn db.DBTX) SessionStore {
	return &sessionStore{db: conn}
}

func (s *sessionStore) GetValid(ctx context.Context, tokenHash []byte) (*model.Session, error) {
	var sess model.Session
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, token_hash, workos_session_id, expires_at, created_at
		FROM sessions WHERE token_hash = $1 AND expires_at > now()`, tokenHash).
		Scan(&sess.ID, &sess.UserID, &sess.TokenHash, &sess.WorkOSSessionID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &sess, nil
}

func (s *sessionStore) Create(ctx context.Context, session *model.Session) error {
	return s.db.QueryRow(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, workos_session_id, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		session.ID, session.UserID, session.TokenHash, session.WorkOSSessionID, session.ExpiresAt).
		Scan(&session.CreatedAt)
}

func (s *sessionStore) Delete(ctx context.Context, tokenHash []byte) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (s *sessionStore) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

func (s *sessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
