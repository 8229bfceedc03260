package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shortlink-admin/storage"
	"shortlink-admin/types"
)

// MockStorage is a mock Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(ctx context.Context, user storage.UserRecord) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) GetUser(ctx context.Context, username string) (storage.UserRecord, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(storage.UserRecord), args.Error(1)
}

func (m *MockStorage) UpdateUser(ctx context.Context, user storage.UserRecord) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) SaveSession(ctx context.Context, session storage.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStorage) GetSession(ctx context.Context, username string) (storage.Session, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(storage.Session), args.Error(1)
}

func (m *MockStorage) DeleteSession(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockStorage) CreateGroup(ctx context.Context, group types.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockStorage) GetGroup(ctx context.Context, username, gid string) (types.Group, error) {
	args := m.Called(ctx, username, gid)
	return args.Get(0).(types.Group), args.Error(1)
}

func (m *MockStorage) ListGroups(ctx context.Context, username string) ([]types.Group, error) {
	args := m.Called(ctx, username)
	groups, _ := args.Get(0).([]types.Group)
	return groups, args.Error(1)
}

func (m *MockStorage) UpdateGroup(ctx context.Context, group types.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockStorage) DeleteGroup(ctx context.Context, username, gid string) error {
	args := m.Called(ctx, username, gid)
	return args.Error(0)
}

func (m *MockStorage) CreateLink(ctx context.Context, link types.ShortLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockStorage) FindLink(ctx context.Context, id, fullShortURL string) (types.ShortLink, error) {
	args := m.Called(ctx, id, fullShortURL)
	return args.Get(0).(types.ShortLink), args.Error(1)
}

func (m *MockStorage) UpdateLink(ctx context.Context, link types.ShortLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockStorage) DeleteLink(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListLinks(ctx context.Context, keep func(types.ShortLink) bool) ([]types.ShortLink, error) {
	args := m.Called(ctx, keep)
	links, _ := args.Get(0).([]types.ShortLink)
	return links, args.Error(1)
}

func (m *MockStorage) AppendAccessLog(ctx context.Context, log types.AccessLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockStorage) ListAccessLogs(ctx context.Context, fullShortURLs ...string) ([]types.AccessLog, error) {
	args := m.Called(ctx, fullShortURLs)
	logs, _ := args.Get(0).([]types.AccessLog)
	return logs, args.Error(1)
}

func (m *MockStorage) DeleteAccessLogs(ctx context.Context, fullShortURL string) error {
	args := m.Called(ctx, fullShortURL)
	return args.Error(0)
}
