package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"zillowlike.app/api/common/id"
	"zillowlike.app/api/common/logger"
	"zillowlike.app/api/internal/distribution"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/store"
)

type TeamDetail struct {
	Team    *model.Team        `json:"team"`
	Members []model.TeamMember `json:"members"`
}

type TeamService interface {
	Create(ctx context.Context, actor *model.User, name string, mode model.DistributionMode) (*TeamDetail, error)
	Get(ctx context.Context, actor *model.User, teamID int64) (*TeamDetail, error)
	ListMine(ctx context.Context, actor *model.User) ([]model.Team, error)
	AddMember(ctx context.Context, actor *model.User, teamID int64, email string) (*model.TeamMember, error)
	RemoveMember(ctx context.Context, actor *model.User, teamID, userID int64) error
	SetMemberActive(ctx context.Context, actor *model.User, teamID, userID int64, active bool) error
	UpdateMode(ctx context.Context, actor *model.User, teamID int64, mode model.DistributionMode) (*model.Team, error)
	ReorderQueue(ctx context.Context, actor *model.User, teamID int64, userIDs []int64) ([]model.TeamMember, error)
}

type teamService struct {
	teams    store.TeamStore
	members  store.TeamMemberStore
	users    store.UserStore
	txRunner TxRunner
}

func NewTeamService(teams store.TeamStore, members store.TeamMemberStore, users store.UserStore, txRunner TxRunner) TeamService {
	return &teamService{
		teams:    teams,
		members:  members,
		users:    users,
		txRunner: txRunner,
	}
}

func (s *teamService) Create(ctx context.Context, actor *model.User, name string, mode model.DistributionMode) (*TeamDetail, error) {
	if !actor.Role.IsProfessional() && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("team name is required")
	}
	if mode == "" {
		mode = model.DistributionRoundRobin
	}
	if !mode.IsValid() {
		return nil, invalid("unknown distribution mode %q", mode)
	}

	team := &model.Team{ID: id.New(), Name: name, OwnerID: actor.ID, DistributionMode: mode}
	owner := model.TeamMember{
		TeamID:        team.ID,
		UserID:        actor.ID,
		Role:          model.TeamRoleOwner,
		Active:        true,
		QueuePosition: 0,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Teams().Create(ctx, team); err != nil {
			return fmt.Errorf("creating team: %w", err)
		}
		if err := stores.TeamMembers().Add(ctx, &owner); err != nil {
			return fmt.Errorf("adding owner: %w", err)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create team", "error", err, "owner_id", actor.ID)
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TeamID: &team.ID})
	slog.InfoContext(ctx, "team created", "mode", mode)

	owner.User = actor
	return &TeamDetail{Team: team, Members: []model.TeamMember{owner}}, nil
}

func (s *teamService) Get(ctx context.Context, actor *model.User, teamID int64) (*TeamDetail, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	if !actor.IsAdmin() && !hasMember(members, actor.ID) {
		return nil, ErrForbidden
	}
	return &TeamDetail{Team: team, Members: members}, nil
}

func (s *teamService) ListMine(ctx context.Context, actor *model.User) ([]model.Team, error) {
	teams, err := s.teams.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return teams, nil
}

func (s *teamService) AddMember(ctx context.Context, actor *model.User, teamID int64, email string) (*model.TeamMember, error) {
	if _, err := s.loadOwned(ctx, actor, teamID); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("email is required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if !user.Role.IsProfessional() {
		return nil, invalid("only realtors and agencies can join a team")
	}

	member := &model.TeamMember{
		TeamID: teamID,
		UserID: user.ID,
		Role:   model.TeamRoleAgent,
		Active: true,
	}
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		// Lock the team so concurrent adds and lead picks agree on the tail position.
		if _, err := stores.Teams().GetForUpdate(ctx, teamID); err != nil {
			return fmt.Errorf("locking team: %w", err)
		}
		if _, err := stores.TeamMembers().Get(ctx, teamID, user.ID); err == nil {
			return fmt.Errorf("%w: user is already a member", ErrConflict)
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("checking membership: %w", err)
		}

		maxPos, err := stores.TeamMembers().MaxQueuePosition(ctx, teamID)
		if err != nil {
			return fmt.Errorf("reading queue tail: %w", err)
		}
		member.QueuePosition = maxPos + 1
		if err := stores.TeamMembers().Add(ctx, member); err != nil {
			if store.IsUniqueViolation(err) {
				return fmt.Errorf("%w: user is already a member", ErrConflict)
			}
			return fmt.Errorf("adding member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "team member added", "team_id", teamID, "user_id", user.ID, "queue_position", member.QueuePosition)
	member.User = user
	return member, nil
}

func (s *teamService) RemoveMember(ctx context.Context, actor *model.User, teamID, userID int64) error {
	team, err := s.loadOwned(ctx, actor, teamID)
	if err != nil {
		return err
	}
	if userID == team.OwnerID {
		return invalid("the team owner cannot be removed")
	}
	if err := s.members.Remove(ctx, teamID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("removing member: %w", err)
	}
	slog.InfoContext(ctx, "team member removed", "team_id", teamID, "user_id", userID)
	return nil
}

func (s *teamService) SetMemberActive(ctx context.Context, actor *model.User, teamID, userID int64, active bool) error {
	if _, err := s.loadOwned(ctx, actor, teamID); err != nil {
		return err
	}
	if err := s.members.SetActive(ctx, teamID, userID, active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("updating member: %w", err)
	}
	return nil
}

func (s *teamService) UpdateMode(ctx context.Context, actor *model.User, teamID int64, mode model.DistributionMode) (*model.Team, error) {
	team, err := s.loadOwned(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, invalid("unknown distribution mode %q", mode)
	}
	if err := s.teams.UpdateMode(ctx, teamID, mode); err != nil {
		return nil, fmt.Errorf("updating distribution mode: %w", err)
	}
	team.DistributionMode = mode
	return team, nil
}

// ReorderQueue rewrites queue positions to 0..n-1 following userIDs. Members left
// out keep their relative order after the listed ones.
func (s *teamService) ReorderQueue(ctx context.Context, actor *model.User, teamID int64, userIDs []int64) ([]model.TeamMember, error) {
	if _, err := s.loadOwned(ctx, actor, teamID); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, invalid("order must list at least one member")
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if _, err := stores.Teams().GetForUpdate(ctx, teamID); err != nil {
			return fmt.Errorf("locking team: %w", err)
		}
		members, err := stores.TeamMembers().List(ctx, teamID)
		if err != nil {
			return fmt.Errorf("listing members: %w", err)
		}
		for _, uid := range userIDs {
			if !hasMember(members, uid) {
				return invalid("user %d is not a member of this team", uid)
			}
		}
		for userID, pos := range distribution.Reorder(members, userIDs) {
			if err := stores.TeamMembers().SetQueuePosition(ctx, teamID, userID, pos); err != nil {
				return fmt.Errorf("setting queue position: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.members.List(ctx, teamID)
}

func (s *teamService) loadTeam(ctx context.Context, teamID int64) (*model.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("getting team: %w", err)
	}
	return team, nil
}

func (s *teamService) loadOwned(ctx context.Context, actor *model.User, teamID int64) (*model.Team, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && team.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	return team, nil
}

func hasMember(members []model.TeamMember, userID int64) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
