package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/juhakip/nettileffa/internal/domain"
)

// Actors and directors live in separate tables with an identical shape, so the
// upsert logic is shared and parameterized by table name.
const (
	tableActors    = "actors"
	tableDirectors = "directors"
)

// PersonName is the natural key for actors and directors.
type PersonName struct {
	FirstName string
	LastName  string
}

// upsertPeople resolves (first_name, last_name) pairs to rows in the given
// table inside a write transaction, creating missing rows without ever
// duplicating an existing pair. Input must already be deduplicated.
func upsertPeople(ctx context.Context, tx pgx.Tx, table string, people []PersonName) ([]domain.Person, error) {
	if len(people) == 0 {
		return nil, nil
	}
	if table != tableActors && table != tableDirectors {
		return nil, fmt.Errorf("unknown people table %q", table)
	}

	firsts := make([]string, 0, len(people))
	lasts := make([]string, 0, len(people))
	for _, p := range people {
		firsts = append(firsts, p.FirstName)
		lasts = append(lasts, p.LastName)
	}

	insert := fmt.Sprintf(`
        INSERT INTO %s (first_name, last_name)
        SELECT * FROM unnest($1::text[], $2::text[])
        ON CONFLICT (first_name, last_name) DO NOTHING
    `, table)
	if _, err := tx.Exec(ctx, insert, firsts, lasts); err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}

	query := fmt.Sprintf(`
        SELECT id, first_name, last_name
        FROM %s
        WHERE (first_name, last_name) IN (SELECT * FROM unnest($1::text[], $2::text[]))
    `, table)
	rows, err := tx.Query(ctx, query, firsts, lasts)
	if err != nil {
		return nil, fmt.Errorf("reselect from %s: %w", table, err)
	}
	defer rows.Close()

	byKey := make(map[PersonName]domain.Person, len(people))
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		byKey[PersonName{FirstName: p.FirstName, LastName: p.LastName}] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resolved := make([]domain.Person, 0, len(people))
	for _, key := range people {
		p, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("person %s %s missing after upsert in %s", key.FirstName, key.LastName, table)
		}
		resolved = append(resolved, p)
	}
	return resolved, nil
}
