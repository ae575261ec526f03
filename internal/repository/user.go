package repository

import (
	"context"

	"tasktrackr/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.User, error)
	SetTeam(ctx context.Context, userID string, teamID *string) error
	SetRole(ctx context.Context, userID string, role domain.Role) error
}
