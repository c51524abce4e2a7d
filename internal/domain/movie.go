package domain

import "time"

// Movie represents the canonical movie entity in the database/service.
// Genres, Actors and Director are loaded alongside the row by the repository.
type Movie struct {
	ID        int64
	Name      string
	Year      int
	AgeLimit  int
	Rating    int
	Synopsis  *string
	Genres    []Genre
	Actors    []Person
	Director  *Person
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Genre is a normalized genre row, globally unique by name.
type Genre struct {
	ID   int64
	Name string
}

// GenreNames extracts the genre names of a movie in load order.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}
