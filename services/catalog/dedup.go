package catalog

import "reelpick/models"

// Dedup removes repeated titles by identity key (media type + id), keeping the
// first occurrence and preserving relative order. Upstream pools overlap
// freely, so the same title can show up on several pages or in both the movie
// and TV halves of a merged pool.
func Dedup(items []models.Title) []models.Title {
	seen := make(map[models.TitleKey]struct{}, len(items))
	out := make([]models.Title, 0, len(items))
	for _, t := range items {
		key := t.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
