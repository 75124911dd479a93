package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/bookstore/internal/db/memorystorage"
	"github.com/patric-chuzhbe/bookstore/internal/db/seed"
	"github.com/patric-chuzhbe/bookstore/internal/mockstorage"
	"github.com/patric-chuzhbe/bookstore/internal/models"
)

func testBooks() []models.Book {
	return []models.Book{
		{ISBN: "1001", Title: "Water Margin", Author: "Shi Naian", Reviews: models.Reviews{"bob": "Great outlaws"}},
		{ISBN: "1002", Title: "Outlaws of the Marsh", Author: "Shi Naian", Reviews: models.Reviews{}},
		{ISBN: "1003", Title: "Water Margin", Author: "Luo Guanzhong", Reviews: models.Reviews{}},
		{ISBN: "1004", Title: "Journey to the West", Author: "Wu Cheng'en", Reviews: models.Reviews{}},
	}
}

func newTestService(t *testing.T, books []models.Book) *Service {
	t.Helper()
	db, err := memorystorage.New(books)
	require.NoError(t, err)

	return New(db)
}

func TestByKey(t *testing.T) {
	svc := newTestService(t, testBooks())
	ctx := context.Background()

	book, err := svc.ByKey(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Water Margin", book.Title)
	assert.Equal(t, "Shi Naian", book.Author)

	_, err = svc.ByKey(ctx, "9999")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestByAuthor(t *testing.T) {
	svc := newTestService(t, testBooks())
	ctx := context.Background()

	books, err := svc.ByAuthor(ctx, "Shi Naian")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "1001", books[0].ISBN)
	assert.Equal(t, "1002", books[1].ISBN)

	_, err = svc.ByAuthor(ctx, "shi naian")
	assert.ErrorIs(t, err, models.ErrNotFound, "matching is case-sensitive")

	_, err = svc.ByAuthor(ctx, "Shi")
	assert.ErrorIs(t, err, models.ErrNotFound, "matching is not partial")
}

func TestByTitle(t *testing.T) {
	svc := newTestService(t, testBooks())
	ctx := context.Background()

	books, err := svc.ByTitle(ctx, "Water Margin")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "1001", books[0].ISBN)
	assert.Equal(t, "1003", books[1].ISBN)

	_, err = svc.ByTitle(ctx, "Water Margin ")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReviewsFor(t *testing.T) {
	svc := newTestService(t, testBooks())
	ctx := context.Background()

	reviews, err := svc.ReviewsFor(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, models.Reviews{"bob": "Great outlaws"}, reviews)

	reviews, err = svc.ReviewsFor(ctx, "1002")
	require.NoError(t, err)
	assert.Empty(t, reviews)

	_, err = svc.ReviewsFor(ctx, "9999")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListAll(t *testing.T) {
	svc := newTestService(t, testBooks())

	catalog, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 4)
	assert.Equal(t, "Journey to the West", catalog["1004"].Title)
}

// Every lookup must behave identically in both modes, for hits and misses.
func TestDeferredMatchesDirect(t *testing.T) {
	books, err := seed.Books()
	require.NoError(t, err)
	svc := newTestService(t, books)
	deferred := NewDeferred(svc)
	ctx := context.Background()

	keys := []string{"9999", ""}
	authors := []string{"Nobody", "unknown"}
	titles := []string{"Missing", ""}
	for _, book := range books {
		keys = append(keys, book.ISBN)
		authors = append(authors, book.Author)
		titles = append(titles, book.Title)
	}

	for _, key := range keys {
		want, wantErr := svc.ByKey(ctx, key)
		got, gotErr := deferred.ByKey(ctx, key).Await(ctx)
		assert.Equal(t, want, got, "ByKey(%q)", key)
		assert.Equal(t, errors.Is(wantErr, models.ErrNotFound), errors.Is(gotErr, models.ErrNotFound), "ByKey(%q)", key)

		wantReviews, wantErr := svc.ReviewsFor(ctx, key)
		gotReviews, gotErr := deferred.ReviewsFor(ctx, key).Await(ctx)
		assert.Equal(t, wantReviews, gotReviews, "ReviewsFor(%q)", key)
		assert.Equal(t, wantErr, gotErr, "ReviewsFor(%q)", key)
	}

	for _, author := range authors {
		want, wantErr := svc.ByAuthor(ctx, author)
		got, gotErr := deferred.ByAuthor(ctx, author).Await(ctx)
		assert.Equal(t, want, got, "ByAuthor(%q)", author)
		assert.Equal(t, wantErr, gotErr, "ByAuthor(%q)", author)
	}

	for _, title := range titles {
		want, wantErr := svc.ByTitle(ctx, title)
		got, gotErr := deferred.ByTitle(ctx, title).Await(ctx)
		assert.Equal(t, want, got, "ByTitle(%q)", title)
		assert.Equal(t, wantErr, gotErr, "ByTitle(%q)", title)
	}

	wantCatalog, err := svc.ListAll(ctx)
	require.NoError(t, err)
	gotCatalog, err := deferred.ListAll(ctx).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantCatalog, gotCatalog)
}

func TestDeferredNotFound(t *testing.T) {
	svc := newTestService(t, testBooks())
	deferred := NewDeferred(svc)
	ctx := context.Background()

	_, err := deferred.ByKey(ctx, "9999").Await(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = deferred.ReviewsFor(ctx, "9999").Await(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = deferred.ByAuthor(ctx, "Nobody").Await(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = deferred.ByTitle(ctx, "Nothing").Await(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRegister(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("CreateUser", mock.Anything, mock.MatchedBy(func(usr *models.User) bool {
		return usr.ID != "" && usr.Username == "alice" && usr.Password == "pw"
	})).Return(nil).Once()

	require.NoError(t, New(db).Register(context.Background(), "alice", "pw"))
	db.AssertExpectations(t)
}

func TestRegisterConflict(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "pw"))

	err := svc.Register(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegisterInvalidInput(t *testing.T) {
	db := &mockstorage.StorageMock{}
	svc := New(db)
	ctx := context.Background()

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty_username", username: "", password: "pw"},
		{name: "empty_password", username: "bob", password: ""},
		{name: "both_empty"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := svc.Register(ctx, testCase.username, testCase.password)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}

	db.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestStorageFailures(t *testing.T) {
	errStorage := errors.New("storage is down")
	db := &mockstorage.StorageMock{}
	db.On("ListBooks", mock.Anything).Return(nil, errStorage)
	db.On("GetBook", mock.Anything, "1").Return(models.Book{}, false, errStorage)
	db.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(errStorage)

	svc := New(db)
	deferred := NewDeferred(svc)
	ctx := context.Background()

	_, err := svc.ListAll(ctx)
	assert.ErrorIs(t, err, errStorage)

	_, err = svc.ByAuthor(ctx, "anyone")
	assert.ErrorIs(t, err, errStorage)
	assert.NotErrorIs(t, err, models.ErrNotFound)

	_, err = deferred.ByKey(ctx, "1").Await(ctx)
	assert.ErrorIs(t, err, errStorage)

	err = svc.Register(ctx, "dave", "pw")
	assert.ErrorIs(t, err, errStorage)

	db.AssertExpectations(t)
}

func ExampleService_ByKey() {
	db, _ := memorystorage.New([]models.Book{
		{ISBN: "1001", Title: "Water Margin", Author: "Shi Naian"},
	})
	svc := New(db)

	book, err := svc.ByKey(context.Background(), "1001")
	fmt.Println(book.Title, err)

	_, err = svc.ByKey(context.Background(), "9999")
	fmt.Println(errors.Is(err, models.ErrNotFound))

	// Output:
	// Water Margin <nil>
	// true
}
