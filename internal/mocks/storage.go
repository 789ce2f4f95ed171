package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of storage.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, dir, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, dir, filename, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, objectPath string) error {
	args := m.Called(ctx, objectPath)
	return args.Error(0)
}

// URL is not recorded; it prefixes the path like the local store does.
func (m *MockStore) URL(objectPath string) string {
	if objectPath == "" {
		return ""
	}
	return "/media/" + objectPath
}
