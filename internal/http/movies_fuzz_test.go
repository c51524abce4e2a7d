package httpserver

import (
	"net/url"
	"testing"
)

func FuzzParseListQuery(f *testing.F) {
	seeds := []string{
		"search=alien&sort=rating&order=asc",
		"limit=200",
		"limit=abc&offset=xyz",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		query, err := parseListQuery(values)
		if err != nil {
			return
		}
		_ = validate.Struct(&query)
	})
}
