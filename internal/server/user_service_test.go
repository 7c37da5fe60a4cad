package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/knit-tech-editor/internal/config"
	"github.com/jonathan/knit-tech-editor/internal/db"
	"github.com/jonathan/knit-tech-editor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB is an in-memory DBClient for unit tests.
type fakeDB struct {
	users map[uuid.UUID]*db.User
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeDB) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{ID: id, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *fakeDB) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	return f.users[userID], nil
}

func (f *fakeDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, _ := f.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (f *fakeDB) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return &ErrUserNotFound{UserID: userID}
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func testUserService() (*UserService, *fakeDB) {
	store := newFakeDB()
	// Minimum cost keeps the hashing fast in tests
	pw := &config.PasswordConfig{BcryptCost: 10}
	return NewUserService(store, pw), store
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc, _ := testUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name:     "Test Knitter",
		Email:    "knitter@example.com",
		Password: "a-long-password",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Test Knitter", user.Name)
	assert.True(t, user.PasswordSet)

	loggedIn, err := svc.Login(ctx, &types.LoginRequest{
		Email:    "knitter@example.com",
		Password: "a-long-password",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestUserService_DuplicateEmail(t *testing.T) {
	svc, _ := testUserService()
	ctx := context.Background()

	req := &types.CreateUserRequest{Name: "A", Email: "dup@example.com", Password: "password123"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.IsType(t, &ErrEmailAlreadyExists{}, err)
	assert.Equal(t, 409, HTTPStatus(err))
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	svc, _ := testUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "A", Email: "a@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.IsType(t, &ErrInvalidCredentials{}, err)
	assert.Equal(t, 401, HTTPStatus(err))
}

func TestUserService_LoginUnknownEmail(t *testing.T) {
	svc, _ := testUserService()

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email: "nobody@example.com", Password: "whatever1",
	})
	require.Error(t, err)
	// Same generic error as a wrong password, never a user-existence oracle
	assert.IsType(t, &ErrInvalidCredentials{}, err)
}

func TestUserService_ResponseOmitsHash(t *testing.T) {
	svc, store := testUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "A", Email: "a@example.com", Password: "password123",
	})
	require.NoError(t, err)

	stored := store.users[user.ID]
	require.NotEmpty(t, stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "password123")
}
