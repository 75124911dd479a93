// Package models holds the data types shared by the storage, service
// and router layers: book records, users, request/response payloads
// and the error taxonomy surfaced at the HTTP boundary.
package models

import "errors"

// Reviews maps a reviewer identifier to the review text.
type Reviews map[string]string

// Book is a single catalog record. ISBN is the catalog key.
type Book struct {
	ISBN    string  `json:"isbn"`
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	Reviews Reviews `json:"reviews"`
}

// Clone returns a deep copy of the book, so the caller can't reach
// into the catalog through the reviews map.
func (b Book) Clone() Book {
	reviews := make(Reviews, len(b.Reviews))
	for reviewer, text := range b.Reviews {
		reviews[reviewer] = text
	}
	b.Reviews = reviews

	return b
}

// Catalog is a snapshot of the whole store keyed by ISBN.
type Catalog map[string]Book

// User is a registered bookstore customer.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response is the JSON envelope of every API answer.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Reviews any    `json:"reviews,omitempty"`
}

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
)
