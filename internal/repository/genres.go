package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juhakip/nettileffa/internal/domain"
)

// GenresRepository provides read access to the normalized genre table.
type GenresRepository struct {
	pool *pgxpool.Pool
}

// ListNames returns every genre name, sorted ascending.
func (r *GenresRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM genres ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// upsertGenres resolves genre names to rows inside a write transaction. Names
// must already be deduplicated; matching is exact and case-sensitive. The
// insert-on-conflict-do-nothing-then-reselect sequence guarantees concurrent
// writers converge on a single row per name.
func upsertGenres(ctx context.Context, tx pgx.Tx, names []string) ([]domain.Genre, error) {
	if len(names) == 0 {
		return nil, nil
	}

	_, err := tx.Exec(ctx, `
        INSERT INTO genres (name)
        SELECT unnest($1::text[])
        ON CONFLICT (name) DO NOTHING
    `, names)
	if err != nil {
		return nil, fmt.Errorf("insert genres: %w", err)
	}

	rows, err := tx.Query(ctx, `SELECT id, name FROM genres WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("reselect genres: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]domain.Genre, len(names))
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		byName[g.Name] = g
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resolved := make([]domain.Genre, 0, len(names))
	for _, name := range names {
		g, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("genre %q missing after upsert", name)
		}
		resolved = append(resolved, g)
	}
	return resolved, nil
}
