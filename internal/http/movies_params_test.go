package httpserver

import (
	"net/url"
	"testing"
)

func TestParseListQueryDefaults(t *testing.T) {
	values, _ := url.ParseQuery("")

	query, err := parseListQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Search != "" || query.Sort != "year" || query.Order != "desc" {
		t.Fatalf("defaults wrong: %+v", query)
	}
	if query.Limit != 20 || query.Offset != 0 {
		t.Fatalf("pagination defaults wrong: %+v", query)
	}
	if err := validate.Struct(&query); err != nil {
		t.Fatalf("default query should validate: %v", err)
	}
}

func TestParseListQueryValues(t *testing.T) {
	values, _ := url.ParseQuery("search=alien&sort=rating&order=asc&limit=50&offset=10")

	query, err := parseListQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Search != "alien" || query.Sort != "rating" || query.Order != "asc" {
		t.Fatalf("parse wrong: %+v", query)
	}
	if query.Limit != 50 || query.Offset != 10 {
		t.Fatalf("pagination parse wrong: %+v", query)
	}
	if err := validate.Struct(&query); err != nil {
		t.Fatalf("query should validate: %v", err)
	}
}

func TestParseListQueryNonInteger(t *testing.T) {
	for _, raw := range []string{"limit=abc", "offset=1.5"} {
		values, _ := url.ParseQuery(raw)
		if _, err := parseListQuery(values); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestListQueryValidation(t *testing.T) {
	tests := []struct {
		name  string
		query movieListQuery
		valid bool
	}{
		{"valid", movieListQuery{Sort: "year", Order: "desc", Limit: 20}, true},
		{"bad sort", movieListQuery{Sort: "banana", Order: "desc", Limit: 20}, false},
		{"bad order", movieListQuery{Sort: "year", Order: "sideways", Limit: 20}, false},
		{"limit too small", movieListQuery{Sort: "year", Order: "desc", Limit: 0}, false},
		{"limit too large", movieListQuery{Sort: "year", Order: "desc", Limit: 101}, false},
		{"negative offset", movieListQuery{Sort: "year", Order: "desc", Limit: 20, Offset: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(&tt.query)
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidationDetailsUsesJSONNames(t *testing.T) {
	req := movieCreateRequest{Year: 2020, AgeLimit: 0, Rating: 3, Genres: []string{"Action"}}
	err := validate.Struct(&req)
	if err == nil {
		t.Fatalf("expected validation error for missing name")
	}
	details := validationDetails(err)
	if _, ok := details["name"]; !ok {
		t.Fatalf("details = %v, want json field name key", details)
	}
}
