// Package mockstorage provides a testify-based mock of the bookstore
// storage. It is used to drive the service and router through storage
// failures that the in-memory store never produces.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/bookstore/internal/models"
)

// StorageMock is a testify mock implementing every storage method the
// service and the app rely on.
type StorageMock struct {
	mock.Mock
}

// GetBook mocks a catalog lookup by key.
func (m *StorageMock) GetBook(ctx context.Context, key string) (models.Book, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(models.Book), args.Bool(1), args.Error(2)
}

// ListBooks mocks reading the catalog in seed order.
func (m *StorageMock) ListBooks(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]models.Book)
	return books, args.Error(1)
}

// CreateUser mocks appending a user.
func (m *StorageMock) CreateUser(ctx context.Context, usr *models.User) error {
	args := m.Called(ctx, usr)
	return args.Error(0)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
