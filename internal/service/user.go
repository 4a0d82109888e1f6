package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/store"
)

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched; an empty string clears optional fields.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	AvatarURL *string
	Creci     *string
}

type UserService interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*model.User, error)
	List(ctx context.Context, actor *model.User, role *model.Role, limit, offset int32) ([]model.User, error)
	ChangeRole(ctx context.Context, actor *model.User, userID int64, role model.Role) (*model.User, error)
}

type userService struct {
	userStore    store.UserStore
	sessionStore store.SessionStore
}

func NewUserService(userStore store.UserStore, sessionStore store.SessionStore) UserService {
	return &userService{
		userStore:    userStore,
		sessionStore: sessionStore,
	}
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("name must not be empty")
		}
		user.Name = name
	}
	user.Phone = applyOptional(user.Phone, upd.Phone)
	user.AvatarURL = applyOptional(user.AvatarURL, upd.AvatarURL)
	user.Creci = applyOptional(user.Creci, upd.Creci)

	if err := s.userStore.Update(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to update user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actor *model.User, role *model.Role, limit, offset int32) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if role != nil && !role.IsValid() {
		return nil, invalid("unknown role %q", *role)
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.userStore.List(ctx, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// ChangeRole sets a user's role and signs them out so the new role applies
// on their next login. Admins cannot demote themselves.
func (s *userService) ChangeRole(ctx context.Context, actor *model.User, userID int64, role model.Role) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !role.IsValid() {
		return nil, invalid("unknown role %q", role)
	}
	if actor.ID == userID && role != model.RoleAdmin {
		return nil, invalid("admins cannot remove their own admin role")
	}

	user, err := s.userStore.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("updating role: %w", err)
	}

	if err := s.sessionStore.DeleteByUser(ctx, userID); err != nil {
		slog.WarnContext(ctx, "failed to revoke sessions after role change", "error", err, "user_id", userID)
	}

	slog.InfoContext(ctx, "user role changed", "user_id", userID, "role", role, "actor_id", actor.ID)
	return user, nil
}

func applyOptional(current, next *string) *string {
	if next == nil {
		return current
	}
	v := strings.TrimSpace(*next)
	if v == "" {
		return nil
	}
	return &v
}
