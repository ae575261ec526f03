package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tasktrackr/internal/auth"
	"tasktrackr/internal/domain"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a plain user with a hashed password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		user, err := svc.Register(ctx, RegisterInput{
			Name:     "Alice",
			Email:    "alice@example.com",
			Username: "alice",
			Password: "hunter22",
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleUser, user.Role)
		require.NotEmpty(t, user.ID)
		// returned user never carries the hash
		require.Empty(t, user.PasswordHash)

		stored, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotEqual(t, "hunter22", stored.PasswordHash)
		require.True(t, auth.CheckPassword("hunter22", stored.PasswordHash))
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		in := RegisterInput{Name: "Alice", Email: "alice@example.com", Username: "alice", Password: "hunter22"}
		_, err := svc.Register(ctx, in)
		require.NoError(t, err)

		in.Email = "other@example.com"
		_, err = svc.Register(ctx, in)
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("admin registration sets the admin role", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewUserService(repo)

		user, err := svc.RegisterAdmin(ctx, RegisterInput{
			Name:     "Root",
			Email:    "root@example.com",
			Username: "root",
			Password: "sup3rsecret",
		})
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, user.Role)
	})
}

func TestUpdateUserPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(ctx, RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "old-password",
	})
	require.NoError(t, err)

	newPassword := "new-password"
	_, err = svc.Update(ctx, user.ID, UpdateUserInput{Password: &newPassword})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, auth.CheckPassword("new-password", stored.PasswordHash))
	require.False(t, auth.CheckPassword("old-password", stored.PasswordHash))
}

func TestListUsersIsSanitized(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Register(ctx, RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
	})
	require.NoError(t, err)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Empty(t, users[0].PasswordHash)
}
