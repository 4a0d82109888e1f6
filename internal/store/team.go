package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"zillowlike.app/api/core/db"
	"zillowlike.app/api/internal/model"
)

const teamColumns = `id, name, owner_id, distribution_mode, created_at, updated_at`

type teamStore struct {
	db db.DBTX
}

func newTeamStore(conn db.DBTX) TeamStore {
	return &teamStore{db: conn}
}

func (s *teamStore) GetByID(ctx context.Context, id int64) (*model.Team, error) {
	return scanTeam(s.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
}

func (s *teamStore) GetForUpdate(ctx context.Context, id int64) (*model.Team, error) {
	return scanTeam(s.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR UPDATE`, id))
}

func (s *teamStore) Create(ctx context.Context, team *model.Team) error {
	mode := team.DistributionMode
	if mode == "" {
		mode = model.DistributionRoundRobin
	}
	created, err := scanTeam(s.db.QueryRow(ctx, `
		INSERT INTO teams (id, name, owner_id, distribution_mode)
		VALUES ($1, $2, $3, $4)
		RETURNING `+teamColumns, team.ID, team.Name, team.OwnerID, mode))
	if err != nil {
		return err
	}
	*team = *created
	return nil
}

func (s *teamStore) UpdateMode(ctx context.Context, id int64, mode model.DistributionMode) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE teams SET distribution_mode = $2, updated_at = now() WHERE id = $1`, id, mode))
}

func (s *teamStore) ListByUser(ctx context.Context, userID int64) ([]model.Team, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.name, t.owner_id, t.distribution_mode, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.name`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.Team, error) {
		t, err := scanTeam(r)
		if err != nil {
			return model.Team{}, err
		}
		return *t, nil
	})
}

func scanTeam(row scanner) (*model.Team, error) {
	var t model.Team
	if err := row.Scan(&t.ID, &t.Name, &t.OwnerID, &t.DistributionMode, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

type teamMemberStore struct {
	db db.DBTX
}

func newTeamMemberStore(conn db.DBTX) TeamMemberStore {
	return &teamMemberStore{db: conn}
}

func (s *teamMemberStore) Add(ctx context.Context, m *model.TeamMember) error {
	return s.db.QueryRow(ctx, `
		INSERT INTO team_members (team_id, user_id, role, active, queue_position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING joined_at`,
		m.TeamID, m.UserID, m.Role, m.Active, m.QueuePosition).Scan(&m.JoinedAt)
}

func (s *teamMemberStore) Get(ctx context.Context, teamID, userID int64) (*model.TeamMember, error) {
	var m model.TeamMember
	err := s.db.QueryRow(ctx, `
		SELECT team_id, user_id, role, active, queue_position, joined_at
		FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID).
		Scan(&m.TeamID, &m.UserID, &m.Role, &m.Active, &m.QueuePosition, &m.JoinedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *teamMemberStore) Remove(ctx context.Context, teamID, userID int64) error {
	return expectOne(s.db.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID))
}

// List returns members with their user record, in queue order.
func (s *teamMemberStore) List(ctx context.Context, teamID int64) ([]model.TeamMember, error) {
	rows, err := s.db.Query(ctx, `
		SELECT m.team_id, m.user_id, m.role, m.active, m.queue_position, m.joined_at,
			`+prefixed("u", userColumns)+`
		FROM team_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY m.queue_position, m.user_id`, teamID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (model.TeamMember, error) {
		var m model.TeamMember
		var u model.User
		err := r.Scan(&m.TeamID, &m.UserID, &m.Role, &m.Active, &m.QueuePosition, &m.JoinedAt,
			&u.ID, &u.WorkOSID, &u.Name, &u.Email, &u.Phone, &u.AvatarURL, &u.Creci,
			&u.Role, &u.CreatedAt, &u.UpdatedAt)
		m.User = &u
		return m, err
	})
}

func (s *teamMemberStore) SetActive(ctx context.Context, teamID, userID int64, active bool) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE team_members SET active = $3 WHERE team_id = $1 AND user_id = $2`, teamID, userID, active))
}

func (s *teamMemberStore) SetQueuePosition(ctx context.Context, teamID, userID int64, position int) error {
	return expectOne(s.db.Exec(ctx,
		`UPDATE team_members SET queue_position = $3 WHERE team_id = $1 AND user_id = $2`, teamID, userID, position))
}

// MaxQueuePosition returns -1 for a team without members.
func (s *teamMemberStore) MaxQueuePosition(ctx context.Context, teamID int64) (int, error) {
	var pos int
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(max(queue_position), -1) FROM team_members WHERE team_id = $1`, teamID).Scan(&pos)
	return pos, err
}
