package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/store"
)

var (
	ErrInvalidCode    = errors.New("invalid authorization code")
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionExpired = errors.New("session expired")
)

const SessionTTL = 7 * 24 * time.Hour

type AuthService interface {
	GetAuthorizationURL(state string) (string, error)
	HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error)
	ValidateSession(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, token string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	users    store.UserStore
	sessions store.SessionStore
	idp      Authenticator
	now      func() time.Time
}

func NewAuthService(users store.UserStore, sessions store.SessionStore, idp Authenticator) AuthService {
	return &authService{users: users, sessions: sessions, idp: idp, now: time.Now}
}

func (s *authService) GetAuthorizationURL(state string) (string, error) {
	return s.idp.AuthorizationURL(state)
}

// HandleCallback signs a person in: the account is created on first login
// (role USER) and matched by provider id afterwards, so a changed email
// follows the same account.
func (s *authService) HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil, ErrInvalidCode
	}

	identity, err := s.idp.Authenticate(ctx, code)
	if err != nil {
		slog.WarnContext(ctx, "authorization code rejected", "error", err)
		return nil, nil, ErrInvalidCode
	}

	user := &model.User{
		ID:       id.New(),
		Name:     identity.Name,
		Email:    identity.Email,
		WorkOSID: &identity.ExternalID,
	}
	if identity.AvatarURL != "" {
		user.AvatarURL = &identity.AvatarURL
	}
	if err := s.users.UpsertByWorkOSID(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("upserting user %s: %w", identity.ExternalID, err)
	}

	token := rand.Text()
	session := &model.Session{
		ID:        id.New(),
		UserID:    user.ID,
		Token:     token,
		TokenHash: hashSessionToken(token),
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("creating session for user %d: %w", user.ID, err)
	}

	slog.InfoContext(ctx, "user signed in", "user_id", user.ID, "role", user.Role)
	return user, session, nil
}

func (s *authService) ValidateSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}
	session, err := s.sessions.GetValid(ctx, hashSessionToken(token))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrSessionExpired
	case err != nil:
		return nil, fmt.Errorf("loading session: %w", err)
	case session.IsExpired(s.now()):
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("loading session user: %w", err)
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := s.sessions.Delete(ctx, hashSessionToken(token))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "expired sessions purged", "count", n)
	}
	return n, nil
}

// hashSessionToken is what the sessions table stores in place of the bearer token.
func hashSessionToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
