package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/learnportal-be/types"
	"github.com/openlearn/learnportal-be/utils"
)

type fakeUserRepo struct {
	users map[string]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*types.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *types.User) error {
	if _, exists := f.users[user.Username]; exists {
		return errors.New("duplicate key")
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, errors.New("no documents in result")
	}
	return user, nil
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	user := &types.User{Username: "alice", FullName: "Alice Nguyen"}
	require.NoError(t, svc.CreateUser(ctx, user, "s3cret"))

	stored := repo.users["alice"]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, types.UserRoleUser, stored.Role, "role defaults when unset")
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, utils.CheckPassword(stored.PasswordHash, "s3cret"))
	assert.NotZero(t, stored.CreatedAt)

	authed, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, authed.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateUser(ctx, &types.User{Username: "alice"}, "s3cret"))

	_, err := svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.Authenticate(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserKeepsExplicitRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user := &types.User{Username: "root", Role: types.UserRoleAdmin}
	require.NoError(t, svc.CreateUser(context.Background(), user, "s3cret"))
	assert.Equal(t, types.UserRoleAdmin, repo.users["root"].Role)
}
