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

const createTasksTable = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	due_date DATETIME NULL,
	creator_id TEXT NOT NULL REFERENCES users(id),
	assignee_id TEXT NULL REFERENCES users(id),
	team_id TEXT NOT NULL REFERENCES teams(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (id, title, description, status, due_date, creator_id, assignee_id, team_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate,
		task.CreatorID,
		task.AssigneeID,
		task.TeamID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET title = ?, description = ?, status = ?, due_date = ?, assignee_id = ?, team_id = ?, updated_at = ?
WHERE id = ?`,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate,
		task.AssigneeID,
		task.TeamID,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRow(res, "update task")
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return requireRow(res, "update task status")
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRow(res, "delete task")
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, selectTask+` WHERE id = ?`, id)
	return scanTask(row)
}

func (r *TaskRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTask+` WHERE team_id = ? ORDER BY created_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

const selectTask = `
SELECT id, title, description, status, due_date, creator_id, assignee_id, team_id, created_at, updated_at
FROM tasks`

func scanTask(row interface {
	Scan(dest ...any) error
}) (*domain.Task, error) {
	var (
		task       domain.Task
		status     string
		dueDate    sql.NullTime
		assigneeID sql.NullString
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&dueDate,
		&task.CreatorID,
		&assigneeID,
		&task.TeamID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.Status = domain.TaskStatus(status)
	if dueDate.Valid {
		task.DueDate = &dueDate.Time
	}
	if assigneeID.Valid {
		task.AssigneeID = &assigneeID.String
	}
	return &task, nil
}
