package catalog

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/sourcegraph/conc/pool"

	"reelpick/models"
)

// Per-flow collection quotas. Browse endpoints clamp caller-supplied takes to
// maxTake before they reach the collector.
const (
	searchQuota  = 20
	similarQuota = 40
	randomQuota  = 60
	maxTake      = 100
	suggestLimit = 10
)

// Service is the title aggregation engine behind the catalog endpoints. It is
// stateless across requests: every call builds its pools fresh and discards
// them with the response.
type Service struct {
	client  *tmdbClient
	sampler *Sampler
}

// NewService wires the engine against the TMDB API. httpc and src may be nil
// for the production defaults.
func NewService(apiKey, language string, httpc *http.Client, src rand.Source) *Service {
	return &Service{
		client:  newTMDBClient(apiKey, language, httpc),
		sampler: NewSampler(src),
	}
}

// searchPage adapts search/multi to the collector. Person results count as raw
// records for pagination but are never normalized into titles.
func (s *Service) searchPage(query string) pageFunc {
	return func(ctx context.Context, page int) ([]models.Title, int, error) {
		records, err := s.client.searchMulti(ctx, query, page)
		if err != nil {
			return nil, 0, err
		}
		titles := make([]models.Title, 0, len(records))
		for _, r := range records {
			if r.MediaType == "person" {
				continue
			}
			titles = append(titles, normalizeTitle(r, ""))
		}
		return titles, len(records), nil
	}
}

func (s *Service) listPage(fetch func(ctx context.Context, page int) ([]tmdbRecord, error), hint string) pageFunc {
	return func(ctx context.Context, page int) ([]models.Title, int, error) {
		records, err := fetch(ctx, page)
		if err != nil {
			return nil, 0, err
		}
		titles := make([]models.Title, 0, len(records))
		for _, r := range records {
			titles = append(titles, normalizeTitle(r, hint))
		}
		return titles, len(records), nil
	}
}

// Search resolves a free-text query into a best-match target plus the full
// result list. target is nil when nothing matched.
func (s *Service) Search(ctx context.Context, query string) (*models.Title, []models.Title, error) {
	items, err := collectPages(ctx, s.searchPage(query), searchQuota, defaultPageCap)
	if err != nil {
		return nil, nil, err
	}
	var target *models.Title
	if len(items) > 0 {
		target = &items[0]
	}
	return target, items, nil
}

// Suggest returns up to ten deduplicated titles from 1950 onward for a
// typeahead query.
func (s *Service) Suggest(ctx context.Context, query string) ([]models.Title, error) {
	items, err := collectPages(ctx, s.searchPage(query), searchQuota, defaultPageCap)
	if err != nil {
		return nil, err
	}
	items = Dedup(Criteria{YearMin: DefaultYearMin}.Apply(items))
	if len(items) > suggestLimit {
		items = items[:suggestLimit]
	}
	return items, nil
}

// Similar fetches the seed title and its similar pool concurrently, then runs
// the similar pool through the filter pipeline. Pagination within the pool
// stays sequential; only the two independent upstream queries overlap.
func (s *Service) Similar(ctx context.Context, mediaType string, id int64, c Criteria) (*models.Title, []models.Title, error) {
	if mediaType != models.MediaTypeTV {
		mediaType = models.MediaTypeMovie
	}

	var target models.Title
	var similar []models.Title

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		detail, err := s.client.details(ctx, mediaType, id)
		if err != nil {
			return err
		}
		target = normalizeTitle(detail.record(), mediaType)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		fetch := func(ctx context.Context, page int) ([]tmdbRecord, error) {
			return s.client.similar(ctx, mediaType, id, page)
		}
		items, err := collectPages(ctx, s.listPage(fetch, mediaType), similarQuota, defaultPageCap)
		if err != nil {
			return err
		}
		similar = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	similar = Dedup(c.Apply(similar))
	log.Printf("[catalog] similar %s/%d: %d candidates after filtering", mediaType, id, len(similar))
	return &target, similar, nil
}

// Random picks one title at random. The trending pool is tried first; only
// when it yields no candidate after filtering is the popular movie+TV fallback
// pool fetched. nil with a nil error means no pool produced a match.
func (s *Service) Random(ctx context.Context, c Criteria) (*models.Title, error) {
	trending, err := collectPages(ctx, s.listPage(s.client.trendingAll, ""), randomQuota, defaultPageCap)
	if err != nil {
		return nil, err
	}
	if pick := s.sampler.SampleFirst(c, trending); pick != nil {
		return pick, nil
	}

	movies, tv, err := s.popularPools(ctx, randomQuota)
	if err != nil {
		return nil, err
	}
	fallback := append(movies, tv...)
	return s.sampler.SampleFirst(c, fallback), nil
}

// ByGenre collects discover results for one genre. media "any" collects the
// movie and TV pools concurrently and interleaves them movie-first.
func (s *Service) ByGenre(ctx context.Context, mediaType string, genre int64, c Criteria, take int) ([]models.Title, error) {
	take = clampTake(take)
	params := map[string]string{
		"with_genres": formatID(genre),
		"sort_by":     "popularity.desc",
	}

	items, err := s.discoverPools(ctx, mediaType, params, c, take)
	if err != nil {
		return nil, err
	}
	if len(items) > take {
		items = items[:take]
	}
	return items, nil
}

// DiscoverQuery carries the raw /discover parameters through to the upstream
// discover endpoint.
type DiscoverQuery struct {
	MediaType string
	Keywords  string
	Genres    string
	Sort      string
	MinVotes  int
	Region    string
}

// Discover runs an open-ended discover query and dedups the merged output.
func (s *Service) Discover(ctx context.Context, q DiscoverQuery) ([]models.Title, error) {
	sort := q.Sort
	if sort == "" {
		sort = "popularity.desc"
	}
	params := map[string]string{
		"with_keywords": q.Keywords,
		"with_genres":   q.Genres,
		"sort_by":       sort,
		"region":        q.Region,
	}
	if q.MinVotes > 0 {
		params["vote_count.gte"] = formatID(int64(q.MinVotes))
	}

	items, err := s.discoverPools(ctx, q.MediaType, params, Criteria{}, similarQuota)
	if err != nil {
		return nil, err
	}
	return Dedup(items), nil
}

// Popular returns the popular movie and TV pools, collected concurrently.
func (s *Service) Popular(ctx context.Context, take int) ([]models.Title, []models.Title, error) {
	take = clampTake(take)
	movies, tv, err := s.popularPools(ctx, take)
	if err != nil {
		return nil, nil, err
	}
	return movies, tv, nil
}

// popularPools fetches both popular pools concurrently and joins the results;
// if either side fails the whole call fails (no best-effort halves).
func (s *Service) popularPools(ctx context.Context, quota int) ([]models.Title, []models.Title, error) {
	var movies, tv []models.Title

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		fetch := func(ctx context.Context, page int) ([]tmdbRecord, error) {
			return s.client.popular(ctx, models.MediaTypeMovie, page)
		}
		items, err := collectPages(ctx, s.listPage(fetch, models.MediaTypeMovie), quota, defaultPageCap)
		if err != nil {
			return err
		}
		movies = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		fetch := func(ctx context.Context, page int) ([]tmdbRecord, error) {
			return s.client.popular(ctx, models.MediaTypeTV, page)
		}
		items, err := collectPages(ctx, s.listPage(fetch, models.MediaTypeTV), quota, defaultPageCap)
		if err != nil {
			return err
		}
		tv = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return movies, tv, nil
}

// discoverPools runs discover for one media type, or for both concurrently
// with a movie-first interleave when mediaType is any. Each pool is filtered
// before the interleave so the cutoff never hides matching items behind
// rejected ones.
func (s *Service) discoverPools(ctx context.Context, mediaType string, params map[string]string, c Criteria, quota int) ([]models.Title, error) {
	if mediaType == models.MediaTypeMovie || mediaType == models.MediaTypeTV {
		fetch := func(ctx context.Context, page int) ([]tmdbRecord, error) {
			return s.client.discover(ctx, mediaType, params, page)
		}
		items, err := collectPages(ctx, s.listPage(fetch, mediaType), quota, defaultPageCap)
		if err != nil {
			return nil, err
		}
		return c.Apply(items), nil
	}

	var movies, tv []models.Title
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		fetch := func(ctx context.Context, page int) ([]tmdbRecord, error) {
			return s.client.discover(ctx, models.MediaTypeMovie, params, page)
		}
		items, err := collectPages(ctx, s.listPage(fetch, models.MediaTypeMovie), quota, defaultPageCap)
		if err != nil {
			return err
		}
		movies = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		fetch := func(ctx context.Context, page int) ([]tmdbRecord, error) {
			return s.client.discover(ctx, models.MediaTypeTV, params, page)
		}
		items, err := collectPages(ctx, s.listPage(fetch, models.MediaTypeTV), quota, defaultPageCap)
		if err != nil {
			return err
		}
		tv = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return Interleave(c.Apply(movies), c.Apply(tv), quota), nil
}

func clampTake(take int) int {
	if take < 1 {
		return searchQuota
	}
	if take > maxTake {
		return maxTake
	}
	return take
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
