package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dias221467/HabitFlow/internal/engine"
	"github.com/Dias221467/HabitFlow/internal/repository"
)

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	user, err := f.users.RegisterUser(ctx, "Alex Chen", "Alex@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.HashedPassword)
	assert.Equal(t, "user", user.Role)

	_, err = f.users.RegisterUser(ctx, "Other", "alex@example.com", "secret2")
	assert.True(t, engine.IsValidation(err))

	got, err := f.users.AuthenticateUser(ctx, "alex@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.users.AuthenticateUser(ctx, "alex@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.AuthenticateUser(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_RegisterValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "secret1"},
		{"Alex", "not-an-email", "secret1"},
		{"Alex", "a@example.com", "123"},
	}
	for _, tt := range tests {
		_, err := f.users.RegisterUser(ctx, tt.name, tt.email, tt.password)
		assert.True(t, engine.IsValidation(err), "%+v", tt)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()

	avatar := "https://example.com/a.png"
	user, err := f.users.UpdateProfile(ctx, "u1", ProfileUpdate{AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Alex", user.Name)
	assert.Equal(t, avatar, user.AvatarURL)

	empty := " "
	_, err = f.users.UpdateProfile(ctx, "u1", ProfileUpdate{Name: &empty})
	assert.True(t, engine.IsValidation(err))

	_, err = f.users.UpdateProfile(ctx, "ghost", ProfileUpdate{})
	assert.True(t, engine.IsNotFound(err))
}

func TestUserService_DeleteUserCascades(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex")
	ctx := context.Background()
	goal := f.createGoal(t, "u1", "Run", 100)

	require.NoError(t, f.users.DeleteUser(ctx, "u1"))
	_, err := f.stores.Goals.GetGoal(ctx, goal.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	err = f.users.DeleteUser(ctx, "u1")
	assert.True(t, engine.IsNotFound(err))
}

func TestUserService_SearchUsers(t *testing.T) {
	f := newFixture(t, nil)
	f.seedUser(t, "u1", "Alex Chen")
	f.seedUser(t, "u2", "Alexis Park")
	f.seedUser(t, "u3", "Alexander Lee")
	f.seedUser(t, "u4", "Sam Rivera")
	ctx := context.Background()
	f.befriend(t, "u1", "u2")

	results, err := f.users.SearchUsers(ctx, "u1", "alex")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u3", results[0].ID)

	results, err = f.users.SearchUsers(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Empty(t, results)
}
