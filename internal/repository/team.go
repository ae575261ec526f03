package repository

import (
	"context"

	"tasktrackr/internal/domain"
)

// TeamRepository defines persistence operations for Team entities. A team
// that has been soft-deleted (is_active = 0) is invisible to every method
// here.
type TeamRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	// Deactivate marks a team deleted. It leaves creator, lead and member
	// references untouched.
	Deactivate(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
}
