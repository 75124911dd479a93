package service

import (
	"context"

	"github.com/patric-chuzhbe/bookstore/internal/future"
	"github.com/patric-chuzhbe/bookstore/internal/models"
)

// Deferred exposes the Service lookups as futures. Every method runs the
// matching Service method, so awaiting a future yields exactly what the
// direct call would have returned, models.ErrNotFound included.
type Deferred struct {
	svc *Service
}

// NewDeferred wraps svc.
func NewDeferred(svc *Service) *Deferred {
	return &Deferred{svc: svc}
}

// ListAll resolves to the whole catalog keyed by ISBN.
func (d *Deferred) ListAll(ctx context.Context) *future.Future[models.Catalog] {
	return future.Go(func() (models.Catalog, error) {
		return d.svc.ListAll(ctx)
	})
}

// ByKey resolves to the book stored under key.
func (d *Deferred) ByKey(ctx context.Context, key string) *future.Future[models.Book] {
	return future.Go(func() (models.Book, error) {
		return d.svc.ByKey(ctx, key)
	})
}

// ByAuthor resolves to the books whose author equals author exactly.
func (d *Deferred) ByAuthor(ctx context.Context, author string) *future.Future[[]models.Book] {
	return future.Go(func() ([]models.Book, error) {
		return d.svc.ByAuthor(ctx, author)
	})
}

// ByTitle resolves to the books whose title equals title exactly.
func (d *Deferred) ByTitle(ctx context.Context, title string) *future.Future[[]models.Book] {
	return future.Go(func() ([]models.Book, error) {
		return d.svc.ByTitle(ctx, title)
	})
}

// ReviewsFor resolves to the reviews of the book stored under key.
func (d *Deferred) ReviewsFor(ctx context.Context, key string) *future.Future[models.Reviews] {
	return future.Go(func() (models.Reviews, error) {
		return d.svc.ReviewsFor(ctx, key)
	})
}
