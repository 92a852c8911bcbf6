package catalog

import "reelpick/models"

// DefaultYearMin is the canonical release-year floor applied by the browse
// endpoints when the caller does not supply one.
const DefaultYearMin = 1950

// Criteria is an immutable, request-scoped set of title predicates. A zero
// field (or MediaTypeAny) disables that predicate; only enabled predicates are
// AND-ed together.
type Criteria struct {
	MinRating float64
	YearMin   int
	YearMax   int
	Genre     int64  // 0 = any
	MediaType string // "" or models.MediaTypeAny = any
}

// Apply runs one order-preserving pass over items and keeps those matching
// every enabled predicate. The input is never mutated.
func (c Criteria) Apply(items []models.Title) []models.Title {
	kept := make([]models.Title, 0, len(items))
	for _, t := range items {
		if c.match(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (c Criteria) match(t models.Title) bool {
	// Unrated titles fail any positive rating floor but pass when the floor
	// is disabled.
	if c.MinRating > 0 && (t.Rating == nil || *t.Rating < c.MinRating) {
		return false
	}
	if c.YearMin > 0 || c.YearMax > 0 {
		if t.Year == 0 {
			return false
		}
		if c.YearMin > 0 && t.Year < c.YearMin {
			return false
		}
		if c.YearMax > 0 && t.Year > c.YearMax {
			return false
		}
	}
	if c.Genre > 0 && !containsGenre(t.Genres, c.Genre) {
		return false
	}
	if c.MediaType != "" && c.MediaType != models.MediaTypeAny && t.MediaType != c.MediaType {
		return false
	}
	return true
}

func containsGenre(genres []int64, genre int64) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}
