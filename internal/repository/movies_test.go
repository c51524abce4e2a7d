package repository

import (
	"context"
	"testing"
)

func TestDedupeStrings(t *testing.T) {
	got := dedupeStrings([]string{"Action", "Drama", "Action", "action", "Drama"})
	want := []string{"Action", "Drama", "action"}
	if len(got) != len(want) {
		t.Fatalf("dedupeStrings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dedupeStrings = %v, want %v (order preserved, case-sensitive)", got, want)
		}
	}
}

func TestDedupePeople(t *testing.T) {
	got := dedupePeople([]PersonName{
		{FirstName: "Jane", LastName: "Doe"},
		{FirstName: "John", LastName: "Smith"},
		{FirstName: "Jane", LastName: "Doe"},
	})
	if len(got) != 2 {
		t.Fatalf("dedupePeople returned %d entries, want 2", len(got))
	}
	if got[0].FirstName != "Jane" || got[1].FirstName != "John" {
		t.Fatalf("dedupePeople order not preserved: %+v", got)
	}
}

func TestListInvalidFilterValues(t *testing.T) {
	// invalid enum values fail before any query runs, so no pool is needed
	r := &MoviesRepository{}
	ctx := context.Background()
	if _, err := r.List(ctx, MovieListFilters{Sort: "banana"}); err == nil {
		t.Fatalf("expected error for invalid sort field")
	}
	if _, err := r.List(ctx, MovieListFilters{Order: "sideways"}); err == nil {
		t.Fatalf("expected error for invalid sort order")
	}
}
