package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shortlink-admin/services"
	"shortlink-admin/types"
)

// MockUserService is a mock UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req types.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockUserService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req types.LoginRequest) (types.LoginResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(types.LoginResponse), args.Error(1)
}

func (m *MockUserService) CheckLogin(ctx context.Context, username, token string) (bool, error) {
	args := m.Called(ctx, username, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, username, token string) error {
	args := m.Called(ctx, username, token)
	return args.Error(0)
}

func (m *MockUserService) Logout(ctx context.Context, username, token string) error {
	args := m.Called(ctx, username, token)
	return args.Error(0)
}

func (m *MockUserService) Info(ctx context.Context, username string) (types.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, actor string, req types.UpdateUserRequest) error {
	args := m.Called(ctx, actor, req)
	return args.Error(0)
}

// MockGroupService is a mock GroupService interface
type MockGroupService struct {
	mock.Mock
}

func (m *MockGroupService) List(ctx context.Context, username string) ([]types.Group, error) {
	args := m.Called(ctx, username)
	groups, _ := args.Get(0).([]types.Group)
	return groups, args.Error(1)
}

func (m *MockGroupService) Create(ctx context.Context, username, name string) (types.Group, error) {
	args := m.Called(ctx, username, name)
	return args.Get(0).(types.Group), args.Error(1)
}

func (m *MockGroupService) Rename(ctx context.Context, username, gid, name string) error {
	args := m.Called(ctx, username, gid, name)
	return args.Error(0)
}

func (m *MockGroupService) Delete(ctx context.Context, username, gid string) error {
	args := m.Called(ctx, username, gid)
	return args.Error(0)
}

func (m *MockGroupService) Sort(ctx context.Context, username string, order []types.GroupSortRequest) error {
	args := m.Called(ctx, username, order)
	return args.Error(0)
}

// MockLinkService is a mock LinkService interface
type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) Page(ctx context.Context, username string, q types.LinkPageQuery) (types.Page[types.ShortLink], error) {
	args := m.Called(ctx, username, q)
	return args.Get(0).(types.Page[types.ShortLink]), args.Error(1)
}

func (m *MockLinkService) Create(ctx context.Context, username string, req types.CreateLinkRequest) (types.ShortLink, error) {
	args := m.Called(ctx, username, req)
	return args.Get(0).(types.ShortLink), args.Error(1)
}

func (m *MockLinkService) BatchCreate(ctx context.Context, username string, req types.BatchCreateLinkRequest) ([]types.ShortLink, error) {
	args := m.Called(ctx, username, req)
	links, _ := args.Get(0).([]types.ShortLink)
	return links, args.Error(1)
}

func (m *MockLinkService) Update(ctx context.Context, username string, req types.UpdateLinkRequest) error {
	args := m.Called(ctx, username, req)
	return args.Error(0)
}

func (m *MockLinkService) Title(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}

func (m *MockLinkService) Resolve(ctx context.Context, shortURI string) (types.ShortLink, error) {
	args := m.Called(ctx, shortURI)
	return args.Get(0).(types.ShortLink), args.Error(1)
}

// MockRecycleBinService is a mock RecycleBinService interface
type MockRecycleBinService struct {
	mock.Mock
}

func (m *MockRecycleBinService) Recycle(ctx context.Context, username string, req types.RecycleRequest) error {
	args := m.Called(ctx, username, req)
	return args.Error(0)
}

func (m *MockRecycleBinService) Page(ctx context.Context, username string, q types.RecyclePageQuery) (types.Page[types.ShortLink], error) {
	args := m.Called(ctx, username, q)
	return args.Get(0).(types.Page[types.ShortLink]), args.Error(1)
}

func (m *MockRecycleBinService) Restore(ctx context.Context, username string, req types.RecycleRequest) error {
	args := m.Called(ctx, username, req)
	return args.Error(0)
}

func (m *MockRecycleBinService) Purge(ctx context.Context, username string, req types.RecycleRequest) error {
	args := m.Called(ctx, username, req)
	return args.Error(0)
}

// MockStatsService is a mock StatsService interface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Record(ctx context.Context, link types.ShortLink, visit services.Visit) error {
	args := m.Called(ctx, link, visit)
	return args.Error(0)
}

func (m *MockStatsService) Link(ctx context.Context, username string, q types.StatsQuery) (types.LinkStats, error) {
	args := m.Called(ctx, username, q)
	return args.Get(0).(types.LinkStats), args.Error(1)
}

func (m *MockStatsService) Group(ctx context.Context, username string, q types.StatsQuery) (types.LinkStats, error) {
	args := m.Called(ctx, username, q)
	return args.Get(0).(types.LinkStats), args.Error(1)
}

func (m *MockStatsService) AccessRecords(ctx context.Context, username string, q types.StatsQuery) (types.Page[types.AccessLog], error) {
	args := m.Called(ctx, username, q)
	return args.Get(0).(types.Page[types.AccessLog]), args.Error(1)
}
