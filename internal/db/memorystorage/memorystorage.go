// Package memorystorage provides the process-scoped store of the bookstore:
// a read-only catalog built once from seed data and an append-only user list.
package memorystorage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/patric-chuzhbe/bookstore/internal/models"
)

// ErrEmptyKey and ErrDuplicateKey are returned by New for malformed seed data.
var (
	ErrEmptyKey     = errors.New("book with an empty key")
	ErrDuplicateKey = errors.New("duplicate book key")
)

// MemoryStorage keeps the catalog in seed order and the registered users.
// The catalog is never written after New, so reads take no lock.
type MemoryStorage struct {
	order []string
	books map[string]models.Book

	mu    sync.Mutex
	users []*models.User
}

// New builds the store from seed books. Seed order becomes the catalog
// iteration order.
func New(books []models.Book) (*MemoryStorage, error) {
	result := &MemoryStorage{
		order: make([]string, 0, len(books)),
		books: make(map[string]models.Book, len(books)),
	}

	for i, book := range books {
		if book.ISBN == "" {
			return nil, fmt.Errorf("seed entry #%d: %w", i, ErrEmptyKey)
		}
		if _, exists := result.books[book.ISBN]; exists {
			return nil, fmt.Errorf("seed entry #%d (%q): %w", i, book.ISBN, ErrDuplicateKey)
		}
		result.order = append(result.order, book.ISBN)
		result.books[book.ISBN] = book.Clone()
	}

	return result, nil
}

func (s *MemoryStorage) GetBook(ctx context.Context, key string) (models.Book, bool, error) {
	book, found := s.books[key]
	if !found {
		return models.Book{}, false, nil
	}

	return book.Clone(), true, nil
}

// ListBooks returns copies of all books in catalog order.
func (s *MemoryStorage) ListBooks(ctx context.Context) ([]models.Book, error) {
	result := make([]models.Book, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.books[key].Clone())
	}

	return result, nil
}

// CreateUser appends usr unless its username is already taken, in which
// case models.ErrConflict is returned. The check and the append happen
// under one lock so concurrent registrations can't both win.
func (s *MemoryStorage) CreateUser(ctx context.Context, usr *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == usr.Username {
			return fmt.Errorf("user %q: %w", usr.Username, models.ErrConflict)
		}
	}

	stored := *usr
	s.users = append(s.users, &stored)

	return nil
}

func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
