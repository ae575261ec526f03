package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasktrackr/internal/authz"
	"tasktrackr/internal/domain"
	"tasktrackr/internal/repository"
)

// CreateTaskInput carries the fields of a task creation. CreatorID is the
// acting user, passed explicitly from the verified token.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	DueDate     *time.Time
	AssigneeID  *string
	TeamID      string
	CreatorID   string
}

// UpdateTaskInput carries a partial task update; nil fields are untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	DueDate     *time.Time
	AssigneeID  *string
	TeamID      *string
}

// TaskService coordinates task operations. Every mutation fetches the
// relevant team/task snapshot and runs the authorization rules before
// touching the repository; a denial comes back as *ForbiddenError.
//
// Status transitions are not ordered: the creator or assignee may set any
// status at any time, DONE back to TODO included. That permissiveness is a
// product decision carried over from the existing behavior.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, id, actorID string, in UpdateTaskInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id, actorID string, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	ListByTeam(ctx context.Context, teamID string) ([]domain.Task, error)
	ListForUserTeam(ctx context.Context, userID string) ([]domain.Task, error)
}

type taskService struct {
	tasks repository.TaskRepository
	teams repository.TeamRepository
	users repository.UserRepository
}

func NewTaskService(tasks repository.TaskRepository, teams repository.TeamRepository, users repository.UserRepository) TaskService {
	return &taskService{
		tasks: tasks,
		teams: teams,
		users: users,
	}
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, errors.New("task title is required")
	}
	if in.Status == "" {
		in.Status = domain.TaskStatusTodo
	}

	// Team validity comes before anything assignee-related: a task cannot
	// exist without a valid team.
	team, err := s.teams.Get(ctx, in.TeamID)
	if err != nil {
		return nil, fmt.Errorf("team: %w", err)
	}
	if in.AssigneeID != nil {
		if _, err := s.users.GetByID(ctx, *in.AssigneeID); err != nil {
			return nil, fmt.Errorf("assignee: %w", err)
		}
	}

	if d := authz.AuthorizeTaskCreate(team, in.CreatorID, in.AssigneeID); !d.Allowed {
		return nil, &ForbiddenError{Reason: d.Reason}
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
		CreatorID:   in.CreatorID,
		AssigneeID:  in.AssigneeID,
		TeamID:      team.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

func (s *taskService) Update(ctx context.Context, id, actorID string, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := authz.AuthorizeTaskMutate(task, actorID); !d.Allowed {
		return nil, &ForbiddenError{Reason: d.Reason}
	}

	if in.TeamID != nil && *in.TeamID != task.TeamID {
		if _, err := s.teams.Get(ctx, *in.TeamID); err != nil {
			return nil, fmt.Errorf("team: %w", err)
		}
		task.TeamID = *in.TeamID
	}

	if in.AssigneeID != nil {
		if _, err := s.users.GetByID(ctx, *in.AssigneeID); err != nil {
			return nil, fmt.Errorf("assignee: %w", err)
		}
		// The assignee rule is re-checked against the team's current
		// members on every reassignment, not just at creation.
		team, err := s.teams.Get(ctx, task.TeamID)
		if err != nil {
			return nil, fmt.Errorf("team: %w", err)
		}
		if d := authz.AuthorizeTaskReassign(task, in.AssigneeID, team.Members); !d.Allowed {
			return nil, &ForbiddenError{Reason: d.Reason}
		}
		task.AssigneeID = in.AssigneeID
	}

	if in.Title != nil {
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, id, actorID string, status domain.TaskStatus) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := authz.AuthorizeTaskMutate(task, actorID); !d.Allowed {
		return nil, &ForbiddenError{Reason: d.Reason}
	}

	if err := s.tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	task.Status = status
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) ListByTeam(ctx context.Context, teamID string) ([]domain.Task, error) {
	return s.tasks.ListByTeam(ctx, teamID)
}

func (s *taskService) ListForUserTeam(ctx context.Context, userID string) ([]domain.Task, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TeamID == nil {
		return nil, ErrNoTeam
	}
	return s.tasks.ListByTeam(ctx, *user.TeamID)
}
