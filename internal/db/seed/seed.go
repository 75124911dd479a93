// Package seed provides the default catalog the server starts with when no
// external seed file is configured.
package seed

import (
	"bytes"
	_ "embed"

	"github.com/patric-chuzhbe/bookstore/internal/db/jsondb"
	"github.com/patric-chuzhbe/bookstore/internal/models"
)

//go:embed books.json
var booksJSON []byte

// Books decodes the embedded catalog.
func Books() ([]models.Book, error) {
	return jsondb.Decode(bytes.NewReader(booksJSON))
}
