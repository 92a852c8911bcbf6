package catalog

import (
	"context"

	"reelpick/models"
)

// pageFunc fetches one upstream page. It returns the page's normalized titles
// and the number of raw records the page carried; the raw count is what
// decides whether the upstream is exhausted (invalid records still count).
type pageFunc func(ctx context.Context, page int) ([]models.Title, int, error)

// defaultPageCap matches TMDB's hard limit on page numbers.
const defaultPageCap = 500

// collectPages walks pages starting at 1 until quota valid titles have
// accumulated, the page cap is hit, or a page comes back with zero raw records
// (upstream exhausted, not an error). The result is truncated to quota; it may
// be shorter when the upstream runs out first. Callers clamp quota to a sane
// bound before passing it in.
func collectPages(ctx context.Context, fetch pageFunc, quota, pageCap int) ([]models.Title, error) {
	if pageCap <= 0 {
		pageCap = defaultPageCap
	}

	collected := make([]models.Title, 0, quota)
	for page := 1; page <= pageCap; page++ {
		titles, rawCount, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, t := range titles {
			if !t.Valid() {
				continue
			}
			collected = append(collected, t)
		}
		if len(collected) >= quota || rawCount == 0 {
			break
		}
	}

	if len(collected) > quota {
		collected = collected[:quota]
	}
	return collected, nil
}
