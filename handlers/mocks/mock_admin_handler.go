package mocks

import (
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockAdminHandler is a mock AdminHandlerInterface
type MockAdminHandler struct {
	mock.Mock
}

func (m *MockAdminHandler) Login(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) Logout(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) HasUsername(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) Register(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) UserInfo(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) UpdateUser(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) CheckLogin(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) ListGroups(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) CreateGroup(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) RenameGroup(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) DeleteGroup(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) SortGroups(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) PageLinks(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) CreateLink(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) BatchCreateLinks(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) UpdateLink(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) FetchTitle(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) RecycleLink(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) PageRecycleBin(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) RestoreLink(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) PurgeLink(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) LinkStats(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) GroupStats(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) AccessRecords(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) HealthCheck(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) RedirectURL(c *gin.Context) {
	m.Called(c)
}

func (m *MockAdminHandler) AuthMiddleware() gin.HandlerFunc {
	args := m.Called()
	return args.Get(0).(gin.HandlerFunc)
}

func (m *MockAdminHandler) RateLimitMiddleware() gin.HandlerFunc {
	args := m.Called()
	return args.Get(0).(gin.HandlerFunc)
}
