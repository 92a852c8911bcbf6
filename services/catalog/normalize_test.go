package catalog

import (
	"encoding/json"
	"testing"

	"reelpick/models"
)

func TestNormalizeTitleEmptyRecord(t *testing.T) {
	title := normalizeTitle(tmdbRecord{}, "")
	if title.Name != placeholderName {
		t.Fatalf("expected placeholder name, got %q", title.Name)
	}
	if title.Valid() {
		t.Fatal("record without id must not be valid")
	}
	if title.MediaType != models.MediaTypeTV {
		t.Fatalf("expected tv for record without title field, got %q", title.MediaType)
	}
	if title.Year != 0 {
		t.Fatalf("expected absent year, got %d", title.Year)
	}
	if title.Rating != nil {
		t.Fatalf("expected absent rating, got %v", *title.Rating)
	}
	if title.Genres == nil || len(title.Genres) != 0 {
		t.Fatalf("expected empty genre set, got %v", title.Genres)
	}
}

func TestNormalizeTitleMovieShape(t *testing.T) {
	rating := 8.1
	title := normalizeTitle(tmdbRecord{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-31",
		VoteAverage: tmdbScore{value: &rating},
		PosterPath:  "/matrix.jpg",
		GenreIDs:    []int64{28, 878},
	}, "")

	if title.MediaType != models.MediaTypeMovie {
		t.Fatalf("expected movie, got %q", title.MediaType)
	}
	if title.Name != "The Matrix" {
		t.Fatalf("unexpected name %q", title.Name)
	}
	if title.Year != 1999 {
		t.Fatalf("expected 1999, got %d", title.Year)
	}
	if title.Rating == nil || *title.Rating != 8.1 {
		t.Fatalf("unexpected rating %v", title.Rating)
	}
	if title.Poster != "https://image.tmdb.org/t/p/w500/matrix.jpg" {
		t.Fatalf("unexpected poster url %q", title.Poster)
	}
}

func TestNormalizeTitleTVShape(t *testing.T) {
	title := normalizeTitle(tmdbRecord{
		ID:           1396,
		Name:         "Breaking Bad",
		FirstAirDate: "2008-01-20",
	}, "")

	if title.MediaType != models.MediaTypeTV {
		t.Fatalf("expected tv, got %q", title.MediaType)
	}
	if title.Name != "Breaking Bad" {
		t.Fatalf("unexpected name %q", title.Name)
	}
	if title.Year != 2008 {
		t.Fatalf("expected 2008, got %d", title.Year)
	}
}

func TestNormalizeTitleHintWins(t *testing.T) {
	// Record looks like a movie but the caller knows it came from a TV feed.
	title := normalizeTitle(tmdbRecord{ID: 1, Title: "Ambiguous"}, models.MediaTypeTV)
	if title.MediaType != models.MediaTypeTV {
		t.Fatalf("hint should win, got %q", title.MediaType)
	}
}

func TestNormalizeTitleExplicitMediaType(t *testing.T) {
	title := normalizeTitle(tmdbRecord{ID: 1, Name: "Tagged", MediaType: "movie"}, "")
	if title.MediaType != models.MediaTypeMovie {
		t.Fatalf("upstream media_type tag should be honored, got %q", title.MediaType)
	}
}

func TestScoreDecodeTolerance(t *testing.T) {
	var page tmdbPage
	payload := `{"page":1,"total_pages":1,"results":[
		{"id":1,"title":"numeric","vote_average":7.3},
		{"id":2,"title":"stringy","vote_average":"n/a"},
		{"id":3,"title":"null","vote_average":null},
		{"id":4,"title":"missing"}
	]}`
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		t.Fatalf("malformed ratings must not fail the page decode: %v", err)
	}
	if len(page.Results) != 4 {
		t.Fatalf("expected 4 records, got %d", len(page.Results))
	}
	if v := page.Results[0].VoteAverage.value; v == nil || *v != 7.3 {
		t.Fatalf("numeric rating should pass through, got %v", v)
	}
	for _, r := range page.Results[1:] {
		if r.VoteAverage.value != nil {
			t.Fatalf("record %d: non-numeric rating must read as absent, got %v", r.ID, *r.VoteAverage.value)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := map[string]int{
		"1999-03-31": 1999,
		"2008":       2008,
		"199":        0,
		"":           0,
		"n/a!":       0,
	}
	for input, expect := range tests {
		if got := parseYear(input, ""); got != expect {
			t.Fatalf("parseYear(%q) = %d, want %d", input, got, expect)
		}
	}
	if got := parseYear("", "2010-05-01"); got != 2010 {
		t.Fatalf("expected series date fallback, got %d", got)
	}
}

func TestPosterURL(t *testing.T) {
	if got := posterURL(""); got != "" {
		t.Fatalf("expected empty poster for empty path, got %q", got)
	}
	if got := posterURL("/p.png"); got != "https://image.tmdb.org/t/p/w500/p.png" {
		t.Fatalf("unexpected poster url %q", got)
	}
}
