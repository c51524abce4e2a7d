package seed

import (
	"encoding/json"
	"testing"
)

func TestRecordParamsSnakeCase(t *testing.T) {
	raw := `{
        "name": "Movie",
        "year": 2020,
        "age_limit": 16,
        "rating": 5,
        "synopsis": "text",
        "genres": ["Action"],
        "actors": [{"first_name": "Jane", "last_name": "Doe"}],
        "director": {"first_name": "Maria", "last_name": "Lang"}
    }`
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	params := rec.params()
	if params.Name != "Movie" || params.Year != 2020 || params.AgeLimit != 16 || params.Rating != 5 {
		t.Fatalf("params = %+v", params)
	}
	if params.Synopsis == nil || *params.Synopsis != "text" {
		t.Fatalf("synopsis = %v", params.Synopsis)
	}
	if len(params.Actors) != 1 || params.Actors[0].FirstName != "Jane" || params.Actors[0].LastName != "Doe" {
		t.Fatalf("actors = %+v", params.Actors)
	}
	if params.Director == nil || params.Director.FirstName != "Maria" {
		t.Fatalf("director = %+v", params.Director)
	}
}

func TestRecordParamsCamelCaseAliases(t *testing.T) {
	raw := `{
        "name": "Movie",
        "year": 2020,
        "ageLimit": 12,
        "genres": ["Action"],
        "actors": [{"firstName": "Jane", "lastName": "Doe"}],
        "director": {"firstName": "Maria", "lastName": "Lang"}
    }`
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	params := rec.params()
	if params.AgeLimit != 12 {
		t.Fatalf("AgeLimit = %d, want 12 from ageLimit alias", params.AgeLimit)
	}
	if params.Actors[0].FirstName != "Jane" || params.Actors[0].LastName != "Doe" {
		t.Fatalf("actors = %+v, want camelCase aliases mapped", params.Actors)
	}
	if params.Director == nil || params.Director.LastName != "Lang" {
		t.Fatalf("director = %+v", params.Director)
	}
}

func TestRecordParamsDefaults(t *testing.T) {
	raw := `{"name": "Movie", "year": 2020, "genres": ["Action"]}`
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	params := rec.params()
	if params.AgeLimit != defaultAgeLimit {
		t.Fatalf("AgeLimit = %d, want default %d", params.AgeLimit, defaultAgeLimit)
	}
	if params.Rating != defaultRating {
		t.Fatalf("Rating = %d, want default %d", params.Rating, defaultRating)
	}
	if params.Synopsis != nil {
		t.Fatalf("Synopsis = %v, want nil", params.Synopsis)
	}
	if params.Director != nil {
		t.Fatalf("Director = %+v, want nil", params.Director)
	}
}
