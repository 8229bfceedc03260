package mocks

import (
	"shortlink-admin/tokenstore"

	"github.com/stretchr/testify/mock"
)

// MockJar is a mock tokenstore.Jar
type MockJar struct {
	mock.Mock
}

func (m *MockJar) Get(name string) (string, bool) {
	args := m.Called(name)
	return args.String(0), args.Bool(1)
}

func (m *MockJar) Set(name, value string, opts tokenstore.CookieOptions) error {
	args := m.Called(name, value, opts)
	return args.Error(0)
}

func (m *MockJar) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
