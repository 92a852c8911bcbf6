package models

// Media types for canonical titles. "any" is only meaningful as a filter
// value, never on a Title itself.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
	MediaTypeAny   = "any"
)

// Title is the canonical movie/TV record produced by the catalog normalizer.
// Values are never mutated after construction; pipeline stages build new
// slices instead of editing elements in place.
type Title struct {
	ID        int64    `json:"id"`
	MediaType string   `json:"mediaType"`
	Name      string   `json:"title"`
	Year      int      `json:"year,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Overview  string   `json:"overview"`
	Poster    string   `json:"poster"`
	Genres    []int64  `json:"genres"`
}

// TitleKey identifies a title. Upstream ids are only unique within one media
// type, so the key carries both.
type TitleKey struct {
	MediaType string
	ID        int64
}

// Key returns the identity key used for deduplication and equality.
func (t Title) Key() TitleKey {
	return TitleKey{MediaType: t.MediaType, ID: t.ID}
}

// Valid reports whether the title carries a usable upstream id. Records that
// normalize without one are discarded by callers rather than treated as errors.
func (t Title) Valid() bool {
	return t.ID > 0
}
