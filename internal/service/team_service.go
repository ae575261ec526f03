package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tasktrackr/internal/domain"
	"tasktrackr/internal/repository"
)

// CreateTeamInput carries the fields of a team creation. CreatorID is the
// acting admin, passed explicitly from the verified token.
type CreateTeamInput struct {
	Name        string
	Code        string
	Description string
	CreatorID   string
	LeadID      *string
	MemberIDs   []string
}

// UpdateTeamInput carries a partial team update; nil fields are untouched.
// A non-nil MemberIDs replaces the member set wholesale.
type UpdateTeamInput struct {
	Name        *string
	Code        *string
	Description *string
	LeadID      *string
	MemberIDs   []string
}

// TeamService describes team lifecycle and membership operations. All of
// them except GetUserTeam sit behind the admin gate at the transport layer.
type TeamService interface {
	Create(ctx context.Context, in CreateTeamInput) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Get(ctx context.Context, id string) (*domain.Team, error)
	Update(ctx context.Context, id string, in UpdateTeamInput) (*domain.Team, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, teamID, userID string) (*domain.Team, error)
	RemoveMember(ctx context.Context, teamID, userID string) (*domain.Team, error)
	GetUserTeam(ctx context.Context, userID string) (*domain.Team, error)
}

type teamService struct {
	teams repository.TeamRepository
	users repository.UserRepository
}

func NewTeamService(teams repository.TeamRepository, users repository.UserRepository) TeamService {
	return &teamService{teams: teams, users: users}
}

func (s *teamService) Create(ctx context.Context, in CreateTeamInput) (*domain.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errors.New("team name is required")
	}

	if _, err := s.users.GetByID(ctx, in.CreatorID); err != nil {
		return nil, fmt.Errorf("creator: %w", err)
	}
	if in.LeadID != nil {
		if _, err := s.users.GetByID(ctx, *in.LeadID); err != nil {
			return nil, fmt.Errorf("team lead: %w", err)
		}
	}
	if err := s.requireUsers(ctx, in.MemberIDs); err != nil {
		return nil, err
	}

	team := &domain.Team{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Code:        in.Code,
		Description: in.Description,
		CreatorID:   in.CreatorID,
		LeadID:      in.LeadID,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTeamExists
		}
		return nil, err
	}

	for _, memberID := range in.MemberIDs {
		if err := s.users.SetTeam(ctx, memberID, &team.ID); err != nil {
			return nil, fmt.Errorf("assign member %s: %w", memberID, err)
		}
	}

	return s.teams.Get(ctx, team.ID)
}

func (s *teamService) List(ctx context.Context) ([]domain.Team, error) {
	return s.teams.List(ctx)
}

func (s *teamService) Get(ctx context.Context, id string) (*domain.Team, error) {
	return s.teams.Get(ctx, id)
}

func (s *teamService) Update(ctx context.Context, id string, in UpdateTeamInput) (*domain.Team, error) {
	team, err := s.teams.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		team.Name = strings.TrimSpace(*in.Name)
	}
	if in.Code != nil {
		team.Code = *in.Code
	}
	if in.Description != nil {
		team.Description = *in.Description
	}
	if in.LeadID != nil {
		if _, err := s.users.GetByID(ctx, *in.LeadID); err != nil {
			return nil, fmt.Errorf("team lead: %w", err)
		}
		team.LeadID = in.LeadID
	}

	if err := s.teams.Update(ctx, team); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTeamExists
		}
		return nil, err
	}

	if in.MemberIDs != nil {
		if err := s.replaceMembers(ctx, team, in.MemberIDs); err != nil {
			return nil, err
		}
	}

	return s.teams.Get(ctx, id)
}

func (s *teamService) Delete(ctx context.Context, id string) error {
	return s.teams.Deactivate(ctx, id)
}

func (s *teamService) AddMember(ctx context.Context, teamID, userID string) (*domain.Team, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.TeamID != nil && *user.TeamID == team.ID {
		return nil, ErrAlreadyMember
	}
	if err := s.users.SetTeam(ctx, user.ID, &team.ID); err != nil {
		return nil, err
	}
	return s.teams.Get(ctx, teamID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, userID string) (*domain.Team, error) {
	team, err := s.teams.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.TeamID == nil || *user.TeamID != team.ID {
		return nil, ErrNotMember
	}
	if err := s.users.SetTeam(ctx, user.ID, nil); err != nil {
		return nil, err
	}
	return s.teams.Get(ctx, teamID)
}

func (s *teamService) GetUserTeam(ctx context.Context, userID string) (*domain.Team, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TeamID == nil {
		return nil, ErrNoTeam
	}
	return s.teams.Get(ctx, *user.TeamID)
}

// replaceMembers swaps the team's member set for the given ids. Creator and
// lead references are never touched by membership changes.
func (s *teamService) replaceMembers(ctx context.Context, team *domain.Team, memberIDs []string) error {
	if err := s.requireUsers(ctx, memberIDs); err != nil {
		return err
	}

	wanted := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		wanted[id] = struct{}{}
	}

	current, err := s.users.ListByTeam(ctx, team.ID)
	if err != nil {
		return err
	}
	for i := range current {
		if _, keep := wanted[current[i].ID]; keep {
			continue
		}
		if err := s.users.SetTeam(ctx, current[i].ID, nil); err != nil {
			return fmt.Errorf("remove member %s: %w", current[i].ID, err)
		}
	}
	for id := range wanted {
		if err := s.users.SetTeam(ctx, id, &team.ID); err != nil {
			return fmt.Errorf("assign member %s: %w", id, err)
		}
	}
	return nil
}

func (s *teamService) requireUsers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(users) != len(ids) {
		found := make(map[string]struct{}, len(users))
		for i := range users {
			found[users[i].ID] = struct{}{}
		}
		var missing []string
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return fmt.Errorf("invalid user ids: %s: %w", strings.Join(missing, ", "), repository.ErrNotFound)
	}
	return nil
}
