// Package service implements the bookstore queries and the registration
// flow. The lookups are written once in Service (the direct form) and
// exposed again as futures by Deferred.
package service

import (
	"context"
	"errors"
	"fmt"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/bookstore/internal/logger"
	"github.com/patric-chuzhbe/bookstore/internal/models"
)

type bookKeeper interface {
	GetBook(ctx context.Context, key string) (models.Book, bool, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
}

type userKeeper interface {
	CreateUser(ctx context.Context, usr *models.User) error
}

type storage interface {
	bookKeeper
	userKeeper
}

// Service answers catalog queries and registers users.
type Service struct {
	db       storage
	validate *validator.Validate
}

func New(db storage) *Service {
	return &Service{
		db:       db,
		validate: validator.New(),
	}
}

// ListAll returns a snapshot of the whole catalog.
func (s *Service) ListAll(ctx context.Context) (models.Catalog, error) {
	books, err := s.db.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}

	catalog := make(models.Catalog, len(books))
	for _, book := range books {
		catalog[book.ISBN] = book
	}

	return catalog, nil
}

// ByKey returns the book stored under key or models.ErrNotFound.
func (s *Service) ByKey(ctx context.Context, key string) (models.Book, error) {
	book, found, err := s.db.GetBook(ctx, key)
	if err != nil {
		return models.Book{}, fmt.Errorf("error getting book %q: %w", key, err)
	}
	if !found {
		return models.Book{}, fmt.Errorf("book %q: %w", key, models.ErrNotFound)
	}

	return book, nil
}

// ByAuthor returns, in catalog order, the books whose author equals
// author exactly. No match is reported as models.ErrNotFound.
func (s *Service) ByAuthor(ctx context.Context, author string) ([]models.Book, error) {
	return s.filterBooks(ctx, "author", author, func(book models.Book) bool {
		return book.Author == author
	})
}

// ByTitle is ByAuthor matching on the title.
func (s *Service) ByTitle(ctx context.Context, title string) ([]models.Book, error) {
	return s.filterBooks(ctx, "title", title, func(book models.Book) bool {
		return book.Title == title
	})
}

// ReviewsFor returns the reviews of the book stored under key.
func (s *Service) ReviewsFor(ctx context.Context, key string) (models.Reviews, error) {
	book, err := s.ByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	return book.Reviews, nil
}

// Register adds a user. Both fields are required and the username must
// not be taken yet.
func (s *Service) Register(ctx context.Context, username, password string) error {
	request := models.RegisterRequest{
		Username: username,
		Password: password,
	}
	if err := s.validate.StructCtx(ctx, request); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return fmt.Errorf("%w: %s", models.ErrInvalidInput, validationErrs.Error())
		}
		return err
	}

	usr := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Password: password,
	}
	if err := s.db.CreateUser(ctx, usr); err != nil {
		return err
	}

	logger.Log.Debugw("user registered", "username", username, "id", usr.ID)

	return nil
}

func (s *Service) filterBooks(
	ctx context.Context,
	field string,
	value string,
	match func(models.Book) bool,
) ([]models.Book, error) {
	books, err := s.db.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}

	matched := funk.Filter(books, match).([]models.Book)
	if len(matched) == 0 {
		return nil, fmt.Errorf("books with %s %q: %w", field, value, models.ErrNotFound)
	}

	return matched, nil
}
