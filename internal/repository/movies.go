package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juhakip/nettileffa/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

var movieColumns = []string{
	"id",
	"name",
	"year",
	"age_limit",
	"rating",
	"synopsis",
	"director_id",
	"created_at",
	"updated_at",
}

// MovieWriteParams bundles the fields required to create or replace a movie,
// with related entities referenced by natural key.
type MovieWriteParams struct {
	Name     string
	Year     int
	AgeLimit int
	Rating   int
	Synopsis *string
	Genres   []string
	Actors   []PersonName
	Director *PersonName
}

// SortField selects the movie list sort column.
type SortField string

// SortOrder selects the sort direction.
type SortOrder string

const (
	SortYear   SortField = "year"
	SortRating SortField = "rating"
	SortName   SortField = "name"

	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

var sortColumns = map[SortField]string{
	SortYear:   "year",
	SortRating: "rating",
	SortName:   "name",
}

// MovieListFilters encapsulates search, sort, and pagination options. Values
// are expected to be validated by the caller; zero values fall back to the
// service defaults (sort=year, order=desc, limit=20).
type MovieListFilters struct {
	Search string
	Sort   SortField
	Order  SortOrder
	Limit  int
	Offset int
}

// MovieListResult holds one page of movies plus the total count of the
// filtered set, unaffected by pagination.
type MovieListResult struct {
	Total int64
	Items []domain.Movie
}

// resolvedRelations carries the related rows a movie write references, each
// pointing at an existing or freshly created row.
type resolvedRelations struct {
	genres   []domain.Genre
	actors   []domain.Person
	director *domain.Person
}

// Create inserts a new movie row with all related entities resolved by
// natural key inside a single transaction.
func (r *MoviesRepository) Create(ctx context.Context, params MovieWriteParams) (domain.Movie, error) {
	if len(dedupeStrings(params.Genres)) == 0 {
		return domain.Movie{}, ErrNoGenres
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rel, err := resolveRelations(ctx, tx, params)
	if err != nil {
		return domain.Movie{}, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
        INSERT INTO movies (name, year, age_limit, rating, synopsis, director_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id
    `, params.Name, params.Year, params.AgeLimit, params.Rating, params.Synopsis, directorID(rel.director)).Scan(&id)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("insert movie: %w", err)
	}

	if err := linkRelations(ctx, tx, id, rel); err != nil {
		return domain.Movie{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Movie{}, fmt.Errorf("commit movie create: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update replaces a movie's scalar fields and relationship set. Related rows
// dropped from the payload are unlinked but never deleted; omitting the
// director clears the movie's director reference.
func (r *MoviesRepository) Update(ctx context.Context, id int64, params MovieWriteParams) (domain.Movie, error) {
	if len(dedupeStrings(params.Genres)) == 0 {
		return domain.Movie{}, ErrNoGenres
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing int64
	err = tx.QueryRow(ctx, `SELECT id FROM movies WHERE id = $1 FOR UPDATE`, id).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, fmt.Errorf("lock movie: %w", err)
	}

	rel, err := resolveRelations(ctx, tx, params)
	if err != nil {
		return domain.Movie{}, err
	}

	_, err = tx.Exec(ctx, `
        UPDATE movies
        SET name = $2, year = $3, age_limit = $4, rating = $5, synopsis = $6,
            director_id = $7, updated_at = now()
        WHERE id = $1
    `, id, params.Name, params.Year, params.AgeLimit, params.Rating, params.Synopsis, directorID(rel.director))
	if err != nil {
		return domain.Movie{}, fmt.Errorf("update movie: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM movie_genre WHERE movie_id = $1`, id); err != nil {
		return domain.Movie{}, fmt.Errorf("unlink genres: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM movie_actor WHERE movie_id = $1`, id); err != nil {
		return domain.Movie{}, fmt.Errorf("unlink actors: %w", err)
	}
	if err := linkRelations(ctx, tx, id, rel); err != nil {
		return domain.Movie{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Movie{}, fmt.Errorf("commit movie update: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID fetches a movie with its genres, actors, and director.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	query := psql.Select(movieColumns...).From("movies").Where(sq.Eq{"id": id})
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return domain.Movie{}, fmt.Errorf("build movie query: %w", err)
	}

	movie, dirID, err := scanMovie(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}

	movies := []domain.Movie{movie}
	if err := r.attachRelations(ctx, movies, []*int64{dirID}); err != nil {
		return domain.Movie{}, err
	}
	return movies[0], nil
}

// List returns the total filtered count and the requested page in the
// requested order. The count is computed before pagination is applied.
func (r *MoviesRepository) List(ctx context.Context, filters MovieListFilters) (MovieListResult, error) {
	if filters.Sort == "" {
		filters.Sort = SortYear
	}
	if filters.Order == "" {
		filters.Order = OrderDesc
	}
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	sortCol, ok := sortColumns[filters.Sort]
	if !ok {
		return MovieListResult{}, fmt.Errorf("invalid sort field %q", filters.Sort)
	}
	direction := "DESC"
	if filters.Order == OrderAsc {
		direction = "ASC"
	} else if filters.Order != OrderDesc {
		return MovieListResult{}, fmt.Errorf("invalid sort order %q", filters.Order)
	}

	countQuery := psql.Select("COUNT(*)").From("movies")
	pageQuery := psql.Select(movieColumns...).From("movies")
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		cond := sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"synopsis": pattern},
		}
		countQuery = countQuery.Where(cond)
		pageQuery = pageQuery.Where(cond)
	}

	sqlStr, args, err := countQuery.ToSql()
	if err != nil {
		return MovieListResult{}, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return MovieListResult{}, fmt.Errorf("count movies: %w", err)
	}

	// id ASC as secondary sort keeps pages disjoint when sort keys tie
	pageQuery = pageQuery.
		OrderBy(fmt.Sprintf("%s %s", sortCol, direction), "id ASC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset))

	sqlStr, args, err = pageQuery.ToSql()
	if err != nil {
		return MovieListResult{}, fmt.Errorf("build page query: %w", err)
	}
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return MovieListResult{}, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Movie, 0, filters.Limit)
	directorIDs := make([]*int64, 0, filters.Limit)
	for rows.Next() {
		movie, dirID, err := scanMovie(rows)
		if err != nil {
			return MovieListResult{}, err
		}
		items = append(items, movie)
		directorIDs = append(directorIDs, dirID)
	}
	if err := rows.Err(); err != nil {
		return MovieListResult{}, err
	}

	if err := r.attachRelations(ctx, items, directorIDs); err != nil {
		return MovieListResult{}, err
	}

	return MovieListResult{Total: total, Items: items}, nil
}

// resolveRelations deduplicates the payload's natural keys and upserts every
// referenced genre, actor, and director so the movie row can link to them.
func resolveRelations(ctx context.Context, tx pgx.Tx, params MovieWriteParams) (resolvedRelations, error) {
	var rel resolvedRelations

	genres, err := upsertGenres(ctx, tx, dedupeStrings(params.Genres))
	if err != nil {
		return rel, err
	}
	rel.genres = genres

	actors, err := upsertPeople(ctx, tx, tableActors, dedupePeople(params.Actors))
	if err != nil {
		return rel, err
	}
	rel.actors = actors

	if params.Director != nil {
		directors, err := upsertPeople(ctx, tx, tableDirectors, []PersonName{*params.Director})
		if err != nil {
			return rel, err
		}
		rel.director = &directors[0]
	}

	return rel, nil
}

// linkRelations writes the junction rows for a movie's resolved relations.
func linkRelations(ctx context.Context, tx pgx.Tx, movieID int64, rel resolvedRelations) error {
	if len(rel.genres) > 0 {
		ids := make([]int64, 0, len(rel.genres))
		for _, g := range rel.genres {
			ids = append(ids, g.ID)
		}
		_, err := tx.Exec(ctx, `
            INSERT INTO movie_genre (movie_id, genre_id)
            SELECT $1, unnest($2::bigint[])
        `, movieID, ids)
		if err != nil {
			return fmt.Errorf("link genres: %w", err)
		}
	}
	if len(rel.actors) > 0 {
		ids := make([]int64, 0, len(rel.actors))
		for _, a := range rel.actors {
			ids = append(ids, a.ID)
		}
		_, err := tx.Exec(ctx, `
            INSERT INTO movie_actor (movie_id, actor_id)
            SELECT $1, unnest($2::bigint[])
        `, movieID, ids)
		if err != nil {
			return fmt.Errorf("link actors: %w", err)
		}
	}
	return nil
}

// attachRelations batch-loads genres, actors, and directors for a page of
// movies with one query per relation, avoiding per-row fetches.
func (r *MoviesRepository) attachRelations(ctx context.Context, movies []domain.Movie, directorIDs []*int64) error {
	if len(movies) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(movies))
	index := make(map[int64]int, len(movies))
	for i, m := range movies {
		ids = append(ids, m.ID)
		index[m.ID] = i
	}

	genreRows, err := r.pool.Query(ctx, `
        SELECT mg.movie_id, g.id, g.name
        FROM movie_genre mg
        JOIN genres g ON g.id = mg.genre_id
        WHERE mg.movie_id = ANY($1)
        ORDER BY g.name ASC
    `, ids)
	if err != nil {
		return fmt.Errorf("load genres: %w", err)
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var movieID int64
		var g domain.Genre
		if err := genreRows.Scan(&movieID, &g.ID, &g.Name); err != nil {
			return err
		}
		i := index[movieID]
		movies[i].Genres = append(movies[i].Genres, g)
	}
	if err := genreRows.Err(); err != nil {
		return err
	}

	actorRows, err := r.pool.Query(ctx, `
        SELECT ma.movie_id, a.id, a.first_name, a.last_name
        FROM movie_actor ma
        JOIN actors a ON a.id = ma.actor_id
        WHERE ma.movie_id = ANY($1)
        ORDER BY a.last_name ASC, a.first_name ASC
    `, ids)
	if err != nil {
		return fmt.Errorf("load actors: %w", err)
	}
	defer actorRows.Close()
	for actorRows.Next() {
		var movieID int64
		var p domain.Person
		if err := actorRows.Scan(&movieID, &p.ID, &p.FirstName, &p.LastName); err != nil {
			return err
		}
		i := index[movieID]
		movies[i].Actors = append(movies[i].Actors, p)
	}
	if err := actorRows.Err(); err != nil {
		return err
	}

	dirIDs := make([]int64, 0, len(movies))
	seen := make(map[int64]struct{}, len(movies))
	for _, dirID := range directorIDs {
		if dirID == nil {
			continue
		}
		if _, ok := seen[*dirID]; ok {
			continue
		}
		seen[*dirID] = struct{}{}
		dirIDs = append(dirIDs, *dirID)
	}
	if len(dirIDs) == 0 {
		return nil
	}

	dirRows, err := r.pool.Query(ctx, `
        SELECT id, first_name, last_name
        FROM directors
        WHERE id = ANY($1)
    `, dirIDs)
	if err != nil {
		return fmt.Errorf("load directors: %w", err)
	}
	defer dirRows.Close()
	directors := make(map[int64]domain.Person, len(dirIDs))
	for dirRows.Next() {
		var p domain.Person
		if err := dirRows.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return err
		}
		directors[p.ID] = p
	}
	if err := dirRows.Err(); err != nil {
		return err
	}

	for i, dirID := range directorIDs {
		if dirID == nil {
			continue
		}
		if p, ok := directors[*dirID]; ok {
			d := p
			movies[i].Director = &d
		}
	}
	return nil
}

func scanMovie(row pgx.Row) (domain.Movie, *int64, error) {
	var movie domain.Movie
	var dirID *int64

	err := row.Scan(
		&movie.ID,
		&movie.Name,
		&movie.Year,
		&movie.AgeLimit,
		&movie.Rating,
		&movie.Synopsis,
		&dirID,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, nil, err
	}
	return movie, dirID, nil
}

func directorID(director *domain.Person) *int64 {
	if director == nil {
		return nil
	}
	return &director.ID
}

// dedupeStrings drops repeated values while preserving first-seen order.
func dedupeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// dedupePeople drops repeated name pairs while preserving first-seen order.
func dedupePeople(people []PersonName) []PersonName {
	out := make([]PersonName, 0, len(people))
	seen := make(map[PersonName]struct{}, len(people))
	for _, p := range people {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
