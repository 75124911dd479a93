// Package jsondb reads catalog seed data stored as a JSON array of books.
package jsondb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/patric-chuzhbe/bookstore/internal/models"
)

var ErrEmptySeed = errors.New("seed contains no books")

// Load opens fileName and decodes the books it contains.
func Load(fileName string) ([]models.Book, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("error opening seed file: %w", err)
	}
	defer file.Close()

	books, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", fileName, err)
	}

	return books, nil
}

// Decode parses a JSON array of books. Array order is preserved.
func Decode(r io.Reader) ([]models.Book, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var books []models.Book
	if err := decoder.Decode(&books); err != nil {
		return nil, fmt.Errorf("error decoding JSON: %w", err)
	}
	if len(books) == 0 {
		return nil, ErrEmptySeed
	}

	for i := range books {
		if books[i].Reviews == nil {
			books[i].Reviews = models.Reviews{}
		}
	}

	return books, nil
}
