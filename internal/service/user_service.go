package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"tasktrackr/internal/auth"
	"tasktrackr/internal/domain"
	"tasktrackr/internal/repository"
)

// RegisterInput carries the fields of an open registration.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// UpdateUserInput carries a partial profile update; nil fields are left as is.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Username *string
	Password *string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	RegisterAdmin(ctx context.Context, in RegisterInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetRole(ctx context.Context, id string, role domain.Role) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleUser)
}

// RegisterAdmin is used by the startup seeder; it is never exposed over HTTP.
func (s *userService) RegisterAdmin(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleAdmin)
}

func (s *userService) register(ctx context.Context, in RegisterInput, role domain.Role) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if in.Username == "" {
		return nil, errors.New("username is required")
	}
	if in.Password == "" {
		return nil, errors.New("password is required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Username:     in.Username,
		Role:         role,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) SetRole(ctx context.Context, id string, role domain.Role) error {
	return s.users.SetRole(ctx, id, role)
}

// sanitizeUser strips the password hash before a user leaves the service layer.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
