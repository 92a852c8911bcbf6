package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"reelpick/models"
)

// placeholderName stands in when upstream supplies neither name field.
const placeholderName = "Untitled"

// tmdbScore tolerates records that ship vote_average as a string or null.
// Anything that is not a JSON number reads as an absent rating.
type tmdbScore struct {
	value *float64
}

func (s *tmdbScore) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		s.value = nil
		return nil
	}
	s.value = &f
	return nil
}

// tmdbRecord is the union of the movie and TV result shapes: movies carry
// title/release_date, series carry name/first_air_date. search/multi results
// additionally tag themselves with media_type (which may be "person").
type tmdbRecord struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Name         string    `json:"name"`
	MediaType    string    `json:"media_type"`
	ReleaseDate  string    `json:"release_date"`
	FirstAirDate string    `json:"first_air_date"`
	VoteAverage  tmdbScore `json:"vote_average"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	GenreIDs     []int64   `json:"genre_ids"`
}

// normalizeTitle maps one raw upstream record to the canonical Title. It is
// total: every field has a safe default and malformed input never panics. A
// record without an id normalizes to ID 0; callers discard those via Valid.
// hint, when set to movie or tv, overrides the inferred media type.
func normalizeTitle(raw tmdbRecord, hint string) models.Title {
	mediaType := hint
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		mediaType = inferMediaType(raw)
	}

	name := raw.Title
	if name == "" {
		name = raw.Name
	}
	if name == "" {
		name = placeholderName
	}

	genres := raw.GenreIDs
	if genres == nil {
		genres = []int64{}
	}

	return models.Title{
		ID:        raw.ID,
		MediaType: mediaType,
		Name:      name,
		Year:      parseYear(raw.ReleaseDate, raw.FirstAirDate),
		Rating:    raw.VoteAverage.value,
		Overview:  raw.Overview,
		Poster:    posterURL(raw.PosterPath),
		Genres:    genres,
	}
}

// inferMediaType resolves the movie/TV ambiguity for untagged records: a
// populated movie title field means movie, everything else is tv.
func inferMediaType(raw tmdbRecord) string {
	switch raw.MediaType {
	case models.MediaTypeMovie, models.MediaTypeTV:
		return raw.MediaType
	}
	if raw.Title != "" {
		return models.MediaTypeMovie
	}
	return models.MediaTypeTV
}

// parseYear takes the first four characters of whichever date field is
// populated and parses them as an integer. 0 means the year is unknown.
func parseYear(movieDate, seriesDate string) int {
	date := strings.TrimSpace(movieDate)
	if date == "" {
		date = strings.TrimSpace(seriesDate)
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func posterURL(imagePath string) string {
	trimmed := strings.TrimSpace(imagePath)
	if trimmed == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", tmdbImageBaseURL, tmdbPosterSize, strings.TrimPrefix(trimmed, "/"))
}
