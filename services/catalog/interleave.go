package catalog

import "reelpick/models"

// Interleave merges two ranked pools into one, alternating a[i] then b[i] by
// index, stopping once limit items have been taken or both pools are
// exhausted. A shorter pool simply stops contributing, so the alternation
// stays roughly even regardless of input lengths.
func Interleave(a, b []models.Title, limit int) []models.Title {
	if limit <= 0 {
		return []models.Title{}
	}
	out := make([]models.Title, 0, limit)
	for i := 0; len(out) < limit && (i < len(a) || i < len(b)); i++ {
		if i < len(a) {
			out = append(out, a[i])
		}
		if i < len(b) && len(out) < limit {
			out = append(out, b[i])
		}
	}
	return out
}
