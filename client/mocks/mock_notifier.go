package mocks

import (
	"shortlink-admin/client"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock client.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(level client.Level, message string) {
	m.Called(level, message)
}

// MockNavigator is a mock client.Navigator
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Navigate(path string) {
	m.Called(path)
}

// MockCredentials is a mock client.Credentials
type MockCredentials struct {
	mock.Mock
}

func (m *MockCredentials) Token() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func (m *MockCredentials) Username() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func (m *MockCredentials) ClearAuth() error {
	args := m.Called()
	return args.Error(0)
}
