package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/store"
)

const defaultFollowUpHours = 24

type SettingsService interface {
	List(ctx context.Context, actor *model.User) ([]model.SystemSetting, error)
	Put(ctx context.Context, actor *model.User, key string, value json.RawMessage) (*model.SystemSetting, error)
	Dashboard(ctx context.Context, actor *model.User) (*model.DashboardStats, error)
}

type settingsService struct {
	settings   store.SettingStore
	users      store.UserStore
	properties store.PropertyStore
	leads      store.LeadStore
	now        func() time.Time
}

func NewSettingsService(
	settings store.SettingStore,
	users store.UserStore,
	properties store.PropertyStore,
	leads store.LeadStore,
) SettingsService {
	return &settingsService{
		settings:   settings,
		users:      users,
		properties: properties,
		leads:      leads,
		now:        time.Now,
	}
}

func (s *settingsService) List(ctx context.Context, actor *model.User) ([]model.SystemSetting, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	return settings, nil
}

func (s *settingsService) Put(ctx context.Context, actor *model.User, key string, value json.RawMessage) (*model.SystemSetting, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validateSetting(key, value); err != nil {
		return nil, err
	}

	setting := &model.SystemSetting{Key: key, Value: value, UpdatedBy: &actor.ID}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("saving setting: %w", err)
	}
	slog.InfoContext(ctx, "system setting updated", "key", key, "actor_id", actor.ID)
	return setting, nil
}

// validateSetting type-checks the known keys. Unknown keys must still be valid JSON.
func validateSetting(key string, value json.RawMessage) error {
	if key == "" {
		return invalid("setting key is required")
	}
	if !json.Valid(value) {
		return invalid("setting value must be valid JSON")
	}
	switch key {
	case model.SettingAIEnabled:
		var b bool
		if err := json.Unmarshal(value, &b); err != nil {
			return invalid("%s must be a boolean", key)
		}
	case model.SettingFollowUpHours:
		var n int
		if err := json.Unmarshal(value, &n); err != nil || n < 1 || n > 24*30 {
			return invalid("%s must be an integer between 1 and 720", key)
		}
	}
	return nil
}

func (s *settingsService) Dashboard(ctx context.Context, actor *model.User) (*model.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	stats := &model.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := s.users.CountByRole(gctx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		stats.UsersByRole = m
		return nil
	})
	g.Go(func() error {
		m, err := s.properties.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("counting properties: %w", err)
		}
		stats.PropertiesByStatus = m
		return nil
	})
	g.Go(func() error {
		m, err := s.leads.CountByStage(gctx, model.LeadFilter{})
		if err != nil {
			return fmt.Errorf("counting leads: %w", err)
		}
		stats.LeadsByStage = m
		return nil
	})
	g.Go(func() error {
		n, err := s.leads.CountCreatedSince(gctx, s.now().Add(-7*24*time.Hour))
		if err != nil {
			return fmt.Errorf("counting recent leads: %w", err)
		}
		stats.LeadsLast7Days = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// aiEnabled reads ai.enabled, defaulting to true when unset or unreadable.
func aiEnabled(ctx context.Context, settings store.SettingStore) bool {
	var enabled bool
	if !readSetting(ctx, settings, model.SettingAIEnabled, &enabled) {
		return true
	}
	return enabled
}

func followUpDelay(ctx context.Context, settings store.SettingStore) time.Duration {
	var hours int
	if !readSetting(ctx, settings, model.SettingFollowUpHours, &hours) || hours <= 0 {
		hours = defaultFollowUpHours
	}
	return time.Duration(hours) * time.Hour
}

func readSetting(ctx context.Context, settings store.SettingStore, key string, out any) bool {
	setting, err := settings.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "failed to read setting", "error", err, "key", key)
		}
		return false
	}
	if err := json.Unmarshal(setting.Value, out); err != nil {
		slog.WarnContext(ctx, "malformed setting value", "error", err, "key", key)
		return false
	}
	return true
}
