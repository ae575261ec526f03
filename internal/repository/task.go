package repository

import (
	"context"

	"tasktrackr/internal/domain"
)

// TaskRepository exposes persistence operations for Task entities.
type TaskRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Task, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Task, error)
}
