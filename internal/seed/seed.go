// Package seed loads plain movie records from a JSON file into the catalog
// through the repository upsert path, so related entities dedup exactly as
// they do for API writes.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/juhakip/nettileffa/internal/repository"
)

const (
	defaultAgeLimit = 0
	defaultRating   = 3
)

// Loader drives the seed import.
type Loader struct {
	repo   *repository.Repository
	logger *logrus.Logger
}

// NewLoader constructs a Loader.
func NewLoader(repo *repository.Repository, logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Loader{repo: repo, logger: logger}
}

// record tolerates both snake_case and camelCase key spellings in seed files.
type record struct {
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	AgeLimit    *int           `json:"age_limit"`
	AgeLimitAlt *int           `json:"ageLimit"`
	Rating      *int           `json:"rating"`
	Synopsis    *string        `json:"synopsis"`
	Genres      []string       `json:"genres"`
	Actors      []personRecord `json:"actors"`
	Director    *personRecord  `json:"director"`
}

type personRecord struct {
	FirstName    string `json:"first_name"`
	FirstNameAlt string `json:"firstName"`
	LastName     string `json:"last_name"`
	LastNameAlt  string `json:"lastName"`
}

func (p personRecord) name() repository.PersonName {
	first := p.FirstName
	if first == "" {
		first = p.FirstNameAlt
	}
	last := p.LastName
	if last == "" {
		last = p.LastNameAlt
	}
	return repository.PersonName{FirstName: first, LastName: last}
}

// params normalizes a raw record, applying the import defaults for missing
// age limit and rating.
func (rec record) params() repository.MovieWriteParams {
	params := repository.MovieWriteParams{
		Name:     rec.Name,
		Year:     rec.Year,
		AgeLimit: defaultAgeLimit,
		Rating:   defaultRating,
		Synopsis: rec.Synopsis,
		Genres:   rec.Genres,
	}
	if rec.AgeLimit != nil {
		params.AgeLimit = *rec.AgeLimit
	} else if rec.AgeLimitAlt != nil {
		params.AgeLimit = *rec.AgeLimitAlt
	}
	if rec.Rating != nil {
		params.Rating = *rec.Rating
	}
	for _, a := range rec.Actors {
		params.Actors = append(params.Actors, a.name())
	}
	if rec.Director != nil {
		name := rec.Director.name()
		params.Director = &name
	}
	return params
}

// LoadFile imports every record from the JSON array at path and returns the
// number of movies created.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var records []record
	if err := json.Unmarshal(payload, &records); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	l.logger.WithField("records", len(records)).Info("seed: starting import")

	for i, rec := range records {
		movie, err := l.repo.Movies.Create(ctx, rec.params())
		if err != nil {
			return i, fmt.Errorf("seed record %d (%q): %w", i, rec.Name, err)
		}
		l.logger.WithFields(logrus.Fields{
			"id":   movie.ID,
			"name": movie.Name,
		}).Debug("seed: movie created")
	}

	l.logger.WithField("movies", len(records)).Info("seed: import complete")
	return len(records), nil
}
