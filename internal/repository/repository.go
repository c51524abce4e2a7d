package repository

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juhakip/nettileffa/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrNoGenres indicates a movie write arrived without any genre reference.
var ErrNoGenres = errors.New("repository: movie requires at least one genre")

// psql builds queries with postgres-style placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies *MoviesRepository
	Genres *GenresRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies: &MoviesRepository{pool: pool},
		Genres: &GenresRepository{pool: pool},
	}
}
