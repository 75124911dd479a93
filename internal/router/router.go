// Package router maps the bookstore HTTP API onto the query and
// registration services. Every lookup is mounted twice: under /books
// for direct queries and under /async/books for deferred ones.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/patric-chuzhbe/bookstore/internal/future"
	"github.com/patric-chuzhbe/bookstore/internal/gzippedhttp"
	"github.com/patric-chuzhbe/bookstore/internal/logger"
	"github.com/patric-chuzhbe/bookstore/internal/models"
)

type bookQuerier interface {
	ListAll(ctx context.Context) (models.Catalog, error)
	ByKey(ctx context.Context, key string) (models.Book, error)
	ByAuthor(ctx context.Context, author string) ([]models.Book, error)
	ByTitle(ctx context.Context, title string) ([]models.Book, error)
	ReviewsFor(ctx context.Context, key string) (models.Reviews, error)
}

type deferredBookQuerier interface {
	ListAll(ctx context.Context) *future.Future[models.Catalog]
	ByKey(ctx context.Context, key string) *future.Future[models.Book]
	ByAuthor(ctx context.Context, author string) *future.Future[[]models.Book]
	ByTitle(ctx context.Context, title string) *future.Future[[]models.Book]
	ReviewsFor(ctx context.Context, key string) *future.Future[models.Reviews]
}

type registrar interface {
	Register(ctx context.Context, username, password string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

const (
	msgAllBooks       = "All books fetched"
	msgBook           = "Book fetched"
	msgBooksByAuthor  = "Books by author fetched"
	msgBooksByTitle   = "Books by title fetched"
	msgReviews        = "Reviews fetched"
	msgBookNotFound   = "Book not found"
	msgNoAuthorBooks  = "No books found for this author"
	msgNoTitleBooks   = "No books found with this title"
	msgRetrievalError = "Error retrieving books"
	msgRegistered     = "User registered successfully"
	msgCredentials    = "Username and password are required"
	msgUserExists     = "Username already exists"
	msgBadRequestBody = "Invalid request body"
	msgRegisterError  = "Error registering user"
	msgPong           = "OK"
	msgStorageDown    = "Storage is unavailable"
)

// Router holds the collaborators the handlers delegate to.
type Router struct {
	direct   queries
	deferred queries
	users    registrar
	db       pinger
}

// queries is one execution mode of the catalog lookups, reduced to plain
// functions so a single set of handlers serves both modes.
type queries struct {
	listAll    func(ctx context.Context) (models.Catalog, error)
	byKey      func(ctx context.Context, key string) (models.Book, error)
	byAuthor   func(ctx context.Context, author string) ([]models.Book, error)
	byTitle    func(ctx context.Context, title string) ([]models.Book, error)
	reviewsFor func(ctx context.Context, key string) (models.Reviews, error)
}

type initOptions struct {
	gzip bool
}

type InitOption func(*initOptions)

// WithGzip toggles transparent gzip compression of responses.
func WithGzip(enabled bool) InitOption {
	return func(options *initOptions) {
		options.gzip = enabled
	}
}

func directQueries(books bookQuerier) queries {
	return queries{
		listAll:    books.ListAll,
		byKey:      books.ByKey,
		byAuthor:   books.ByAuthor,
		byTitle:    books.ByTitle,
		reviewsFor: books.ReviewsFor,
	}
}

func deferredQueries(books deferredBookQuerier) queries {
	return queries{
		listAll: func(ctx context.Context) (models.Catalog, error) {
			return books.ListAll(ctx).Await(ctx)
		},
		byKey:      await(books.ByKey),
		byAuthor:   await(books.ByAuthor),
		byTitle:    await(books.ByTitle),
		reviewsFor: await(books.ReviewsFor),
	}
}

func await[T any](
	lookup func(context.Context, string) *future.Future[T],
) func(context.Context, string) (T, error) {
	return func(ctx context.Context, param string) (T, error) {
		return lookup(ctx, param).Await(ctx)
	}
}

// New builds the chi router with the whole API mounted.
func New(
	books bookQuerier,
	deferred deferredBookQuerier,
	users registrar,
	db pinger,
	optionsProto ...InitOption,
) *chi.Mux {
	options := &initOptions{gzip: true}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	myRouter := &Router{
		direct:   directQueries(books),
		deferred: deferredQueries(deferred),
		users:    users,
		db:       db,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		logger.WithLoggingHTTPMiddleware,
		middleware.Recoverer,
		gzippedhttp.UngzipRequest,
	)
	if options.gzip {
		router.Use(gzippedhttp.GzipResponse)
	}

	router.Get(`/ping`, myRouter.GetPing)
	router.Post(`/register`, myRouter.PostRegister)

	router.Route(`/books`, func(r chi.Router) {
		mountQueries(r, myRouter.direct)
	})
	router.Route(`/async/books`, func(r chi.Router) {
		mountQueries(r, myRouter.deferred)
	})

	// Paths of the first public release of the API.
	router.Get(`/`, myRouter.direct.listHandler())
	router.Get(`/isbn/{key}`, myRouter.direct.byKeyHandler())
	router.Get(`/author/{author}`, myRouter.direct.byAuthorHandler())
	router.Get(`/title/{title}`, myRouter.direct.byTitleHandler())
	router.Get(`/review/{key}`, myRouter.direct.reviewsHandler())
	router.Get(`/async/isbn/{key}`, myRouter.deferred.byKeyHandler())
	router.Get(`/async/author/{author}`, myRouter.deferred.byAuthorHandler())
	router.Get(`/async/title/{title}`, myRouter.deferred.byTitleHandler())

	return router
}

func mountQueries(r chi.Router, q queries) {
	r.Get(`/`, q.listHandler())
	r.Get(`/author/{author}`, q.byAuthorHandler())
	r.Get(`/title/{title}`, q.byTitleHandler())
	r.Get(`/{key}`, q.byKeyHandler())
	r.Get(`/{key}/reviews`, q.reviewsHandler())
}

func (q queries) listHandler() http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		catalog, err := q.listAll(request.Context())
		if err != nil {
			logger.Log.Errorw("error listing books", "error", err)
			writeJSON(response, http.StatusInternalServerError, models.Response{Message: msgRetrievalError})
			return
		}

		writeJSON(response, http.StatusOK, models.Response{Message: msgAllBooks, Data: catalog})
	}
}

func (q queries) byKeyHandler() http.HandlerFunc {
	return lookupHandler("key", q.byKey, msgBookNotFound, func(book models.Book) models.Response {
		return models.Response{Message: msgBook, Data: book}
	})
}

func (q queries) byAuthorHandler() http.HandlerFunc {
	return lookupHandler("author", q.byAuthor, msgNoAuthorBooks, func(books []models.Book) models.Response {
		return models.Response{Message: msgBooksByAuthor, Data: books}
	})
}

func (q queries) byTitleHandler() http.HandlerFunc {
	return lookupHandler("title", q.byTitle, msgNoTitleBooks, func(books []models.Book) models.Response {
		return models.Response{Message: msgBooksByTitle, Data: books}
	})
}

func (q queries) reviewsHandler() http.HandlerFunc {
	return lookupHandler("key", q.reviewsFor, msgBookNotFound, func(reviews models.Reviews) models.Response {
		return models.Response{Message: msgReviews, Reviews: reviews}
	})
}

// lookupHandler answers 200 with envelope(result), 404 with notFound
// when lookup reports models.ErrNotFound and 500 otherwise.
func lookupHandler[T any](
	param string,
	lookup func(context.Context, string) (T, error),
	notFound string,
	envelope func(T) models.Response,
) http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		result, err := lookup(request.Context(), urlParam(request, param))
		if errors.Is(err, models.ErrNotFound) {
			writeJSON(response, http.StatusNotFound, models.Response{Message: notFound})
			return
		}
		if err != nil {
			logger.Log.Errorw("error looking up books", "param", param, "error", err)
			writeJSON(response, http.StatusInternalServerError, models.Response{Message: msgRetrievalError})
			return
		}

		writeJSON(response, http.StatusOK, envelope(result))
	}
}

// PostRegister handles POST /register with a {"username", "password"} body.
func (rt *Router) PostRegister(response http.ResponseWriter, request *http.Request) {
	var requestDTO models.RegisterRequest
	err := json.NewDecoder(request.Body).Decode(&requestDTO)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(response, http.StatusBadRequest, models.Response{Message: msgBadRequestBody})
		return
	}

	err = rt.users.Register(request.Context(), requestDTO.Username, requestDTO.Password)
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeJSON(response, http.StatusBadRequest, models.Response{Message: msgCredentials})
	case errors.Is(err, models.ErrConflict):
		writeJSON(response, http.StatusBadRequest, models.Response{Message: msgUserExists})
	case err != nil:
		logger.Log.Errorw("error registering user", "error", err)
		writeJSON(response, http.StatusInternalServerError, models.Response{Message: msgRegisterError})
	default:
		writeJSON(response, http.StatusOK, models.Response{Message: msgRegistered})
	}
}

func (rt *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := rt.db.Ping(request.Context()); err != nil {
		logger.Log.Errorw("storage ping failed", "error", err)
		writeJSON(response, http.StatusInternalServerError, models.Response{Message: msgStorageDown})
		return
	}

	writeJSON(response, http.StatusOK, models.Response{Message: msgPong})
}

// urlParam returns the decoded path parameter. chi routes on RawPath when
// the request has one, and the segment is still escaped only then.
func urlParam(request *http.Request, name string) string {
	raw := chi.URLParam(request, name)
	if request.URL.RawPath == "" {
		return raw
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}

	return decoded
}

func writeJSON(response http.ResponseWriter, status int, body models.Response) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)

	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Debugw("error writing response", "error", err)
	}
}
