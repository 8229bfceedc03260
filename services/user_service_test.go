package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shortlink-admin/storage"
	"shortlink-admin/storage/mocks"
	"shortlink-admin/types"
)

var testSecret = []byte("test-secret")

func newUserFixture(t *testing.T) (UserService, *storage.InMemoryStorage) {
	t.Helper()
	store := storage.NewInMemoryStorage(100, zap.NewNop())
	svc := NewUserService(store, testSecret, time.Hour, zap.NewNop())
	require.NoError(t, svc.Register(context.Background(), types.RegisterRequest{
		Username: "alice",
		Password: "secret1",
		RealName: "Alice",
		Phone:    "13812345678",
		Mail:     "alice@example.com",
	}))
	return svc, store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates default group", func(t *testing.T) {
		_, store := newUserFixture(t)
		groups, err := store.ListGroups(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, DefaultGroupName, groups[0].Name)
		assert.NotEmpty(t, groups[0].Gid)

		user, err := store.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.NotEqual(t, "secret1", user.PasswordHash, "Passwords are stored hashed")
	})

	t.Run("Duplicate", func(t *testing.T) {
		svc, _ := newUserFixture(t)
		err := svc.Register(ctx, types.RegisterRequest{Username: "alice", Password: "another"})
		assert.Equal(t, ErrUserExists, err)
	})

	t.Run("StorageError", func(t *testing.T) {
		mockStorage := new(mocks.MockStorage)
		svc := NewUserService(mockStorage, testSecret, time.Hour, nil)
		mockStorage.On("CreateUser", ctx, mock.AnythingOfType("storage.UserRecord")).Return(storage.ErrStorageCapacityReached).Once()

		err := svc.Register(ctx, types.RegisterRequest{Username: "bob", Password: "secret1"})
		assert.Equal(t, ErrStorageCapacityReached, err)
		mockStorage.AssertExpectations(t)
	})
}

func TestUsernameAvailable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	available, err := svc.UsernameAvailable(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.UsernameAvailable(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, available)

	mockStorage := new(mocks.MockStorage)
	failing := NewUserService(mockStorage, testSecret, time.Hour, nil)
	boom := errors.New("boom")
	mockStorage.On("GetUser", ctx, "carol").Return(storage.UserRecord{}, boom).Once()
	_, err = failing.UsernameAvailable(ctx, "carol")
	assert.Equal(t, boom, err)
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("Wrong password", func(t *testing.T) {
		svc, _ := newUserFixture(t)
		_, err := svc.Login(ctx, types.LoginRequest{Username: "alice", Password: "nope"})
		assert.Equal(t, ErrLoginFailed, err)
	})

	t.Run("Unknown user", func(t *testing.T) {
		svc, _ := newUserFixture(t)
		_, err := svc.Login(ctx, types.LoginRequest{Username: "bob", Password: "secret1"})
		assert.Equal(t, ErrLoginFailed, err)
	})

	t.Run("Session lifecycle", func(t *testing.T) {
		svc, _ := newUserFixture(t)
		resp, err := svc.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)

		again, err := svc.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, resp.Token, again.Token, "A live session is reused")

		assert.NoError(t, svc.Authenticate(ctx, "alice", resp.Token))
		assert.Equal(t, ErrUnauthorized, svc.Authenticate(ctx, "bob", resp.Token))
		assert.Equal(t, ErrUnauthorized, svc.Authenticate(ctx, "alice", "garbage"))
		assert.Equal(t, ErrUnauthorized, svc.Authenticate(ctx, "alice", ""))

		ok, err := svc.CheckLogin(ctx, "alice", resp.Token)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, svc.Logout(ctx, "alice", resp.Token))
		ok, err = svc.CheckLogin(ctx, "alice", resp.Token)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, ErrUnauthorized, svc.Logout(ctx, "alice", resp.Token))
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		svc, store := newUserFixture(t)
		other := NewUserService(store, []byte("other"), time.Hour, nil)
		resp, err := other.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, ErrUnauthorized, svc.Authenticate(ctx, "alice", resp.Token))
	})

	t.Run("Expired token", func(t *testing.T) {
		store := storage.NewInMemoryStorage(10, zap.NewNop())
		svc := NewUserService(store, testSecret, time.Hour, nil).(*userService)
		require.NoError(t, svc.Register(ctx, types.RegisterRequest{Username: "alice", Password: "secret1"}))
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		resp, err := svc.Login(ctx, types.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, ErrUnauthorized, svc.Authenticate(ctx, "alice", resp.Token))
	})
}

func TestInfoAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserFixture(t)

	info, err := svc.Info(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "138****5678", info.Phone)
	assert.Equal(t, "alice@example.com", info.Mail)

	_, err = svc.Info(ctx, "bob")
	assert.Equal(t, ErrUserNotFound, err)

	err = svc.Update(ctx, "bob", types.UpdateUserRequest{Username: "alice", Mail: "x@example.com"})
	assert.Equal(t, ErrForbidden, err)

	require.NoError(t, svc.Update(ctx, "alice", types.UpdateUserRequest{Username: "alice", Mail: "new@example.com", Password: "newpass"}))
	info, err = svc.Info(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", info.Mail)
	assert.Equal(t, "Alice", info.RealName, "Empty fields are left unchanged")

	_, err = svc.Login(ctx, types.LoginRequest{Username: "alice", Password: "newpass"})
	assert.NoError(t, err)
}
