package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tasktrackr/internal/auth"
	"tasktrackr/internal/repository"
)

// LoginResult is returned to a caller after a successful login.
type LoginResult struct {
	Token  string
	UserID string
}

// AuthService implements the login flow: credential check, then token
// issuance.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	codec  *auth.TokenCodec
	logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, codec *auth.TokenCodec, logger *logrus.Logger) AuthService {
	return &authService{
		users:  users,
		codec:  codec,
		logger: logger,
	}
}

// Login verifies the credentials and issues a token carrying the user's id,
// role and username. An unknown username and a wrong password both come back
// as ErrInvalidCredentials with no distinguishing detail. A token issuance
// failure is an internal error, logged here with detail and reported
// generically upstream.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Role, user.Username)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("issue token")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token:  token,
		UserID: user.ID,
	}, nil
}
