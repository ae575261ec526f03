package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tasktrackr/internal/domain"
	"tasktrackr/internal/repository"
)

const createTeamsTable = `
CREATE TABLE IF NOT EXISTS teams (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	code TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	creator_id TEXT NOT NULL REFERENCES users(id),
	lead_id TEXT NULL REFERENCES users(id),
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) repository.TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTeamsTable); err != nil {
		return fmt.Errorf("create teams table: %w", err)
	}
	return nil
}

func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now
	team.IsActive = true

	_, err := r.db.ExecContext(ctx, `
INSERT INTO teams (id, name, code, description, creator_id, lead_id, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		team.ID,
		team.Name,
		team.Code,
		team.Description,
		team.CreatorID,
		team.LeadID,
		team.CreatedAt,
		team.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, team *domain.Team) error {
	team.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE teams
SET name = ?, code = ?, description = ?, lead_id = ?, updated_at = ?
WHERE id = ? AND is_active = 1`,
		team.Name,
		team.Code,
		team.Description,
		team.LeadID,
		team.UpdatedAt,
		team.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update team: %w", err)
	}
	return requireRow(res, "update team")
}

func (r *TeamRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE teams SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate team: %w", err)
	}
	return requireRow(res, "deactivate team")
}

func (r *TeamRepository) Get(ctx context.Context, id string) (*domain.Team, error) {
	row := r.db.QueryRowContext(ctx, selectTeam+` WHERE id = ? AND is_active = 1`, id)
	team, err := scanTeam(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.db.QueryContext(ctx, selectTeam+` WHERE is_active = 1 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	for i := range teams {
		if err := r.loadMembers(ctx, &teams[i]); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (r *TeamRepository) loadMembers(ctx context.Context, team *domain.Team) error {
	rows, err := r.db.QueryContext(ctx, selectUser+` WHERE team_id = ? ORDER BY created_at`, team.ID)
	if err != nil {
		return fmt.Errorf("load team members: %w", err)
	}
	defer rows.Close()

	members, err := collectUsers(rows)
	if err != nil {
		return err
	}
	team.Members = members
	return nil
}

const selectTeam = `
SELECT id, name, code, description, creator_id, lead_id, is_active, created_at, updated_at
FROM teams`

func scanTeam(row interface {
	Scan(dest ...any) error
}) (*domain.Team, error) {
	var (
		team   domain.Team
		leadID sql.NullString
	)
	if err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Code,
		&team.Description,
		&team.CreatorID,
		&leadID,
		&team.IsActive,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	if leadID.Valid {
		team.LeadID = &leadID.String
	}
	return &team, nil
}
