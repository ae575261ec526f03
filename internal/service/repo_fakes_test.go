package service

import (
	"context"

	"tasktrackr/internal/domain"
	"tasktrackr/internal/repository"
)

// In-memory repository fakes. The team fake reads members through the user
// fake, mirroring how membership really lives on the user rows.

type fakeUserRepo struct {
	users map[string]*domain.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Init(context.Context) error { return nil }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *user
	clone.TeamID = r.users[user.ID].TeamID
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListByTeam(_ context.Context, teamID string) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if user.TeamID != nil && *user.TeamID == teamID {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SetTeam(_ context.Context, userID string, teamID *string) error {
	user, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.TeamID = teamID
	return nil
}

func (r *fakeUserRepo) SetRole(_ context.Context, userID string, role domain.Role) error {
	user, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.Role = role
	return nil
}

type fakeTeamRepo struct {
	teams map[string]*domain.Team
	users *fakeUserRepo
}

var _ repository.TeamRepository = (*fakeTeamRepo)(nil)

func newFakeTeamRepo(users *fakeUserRepo) *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[string]*domain.Team), users: users}
}

func (r *fakeTeamRepo) Init(context.Context) error { return nil }

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	for _, existing := range r.teams {
		if existing.Name == team.Name && existing.IsActive {
			return repository.ErrDuplicate
		}
	}
	team.IsActive = true
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *domain.Team) error {
	existing, ok := r.teams[team.ID]
	if !ok || !existing.IsActive {
		return repository.ErrNotFound
	}
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) Deactivate(_ context.Context, id string) error {
	team, ok := r.teams[id]
	if !ok || !team.IsActive {
		return repository.ErrNotFound
	}
	team.IsActive = false
	return nil
}

func (r *fakeTeamRepo) Get(ctx context.Context, id string) (*domain.Team, error) {
	team, ok := r.teams[id]
	if !ok || !team.IsActive {
		return nil, repository.ErrNotFound
	}
	clone := *team
	members, err := r.users.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	clone.Members = members
	return &clone, nil
}

func (r *fakeTeamRepo) List(ctx context.Context) ([]domain.Team, error) {
	var out []domain.Team
	for id, team := range r.teams {
		if !team.IsActive {
			continue
		}
		loaded, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *loaded)
	}
	return out, nil
}

type fakeTaskRepo struct {
	tasks map[string]*domain.Task
}

var _ repository.TaskRepository = (*fakeTaskRepo)(nil)

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *fakeTaskRepo) Init(context.Context) error { return nil }

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *task
	r.tasks[task.ID] = &clone
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	task, ok := r.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	task.Status = status
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) Get(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *fakeTaskRepo) ListByTeam(_ context.Context, teamID string) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if task.TeamID == teamID {
			out = append(out, *task)
		}
	}
	return out, nil
}
