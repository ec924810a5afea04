package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cvkeeper/internal/common"
	"cvkeeper/internal/server/auth"
	"cvkeeper/internal/server/config"
	"cvkeeper/internal/server/models"
)

type fakeUserRepo struct {
	users     map[string]*models.User
	createErr error
	getErr    error
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := &models.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		UserName:     user.UserName,
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now(),
	}
	f.users[user.UserName] = created
	return created, nil
}

func (f *fakeUserRepo) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[login]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func newUserService(repo *fakeUserRepo) *UserService {
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Minute}
	return NewUserService(nil, &fakeRepoManager{users: repo}, cfg)
}

func TestUserService_Register(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := newUserService(repo)

	user, err := svc.Register(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("s3cret")))
}

func TestUserService_Register_Taken(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"alice": {ID: "u1", UserName: "alice"},
	}}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), "alice", "s3cret")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestUserService_Register_RepoError(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}, getErr: errors.New("db down")}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), "alice", "s3cret")
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*models.User{
		"alice": {ID: "22222222-2222-2222-2222-222222222222", UserName: "alice", PasswordHash: hash},
	}}
	svc := newUserService(repo)

	user, token, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)

	userID, err := auth.GetUserIDFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*models.User{
		"alice": {ID: "u1", UserName: "alice", PasswordHash: hash},
	}}
	svc := newUserService(repo)

	_, _, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUserService_Login_UnknownUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	svc := newUserService(repo)

	_, _, err := svc.Login(context.Background(), "nobody", "s3cret")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
