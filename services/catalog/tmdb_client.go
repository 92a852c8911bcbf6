package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	// w500 is plenty for browse cards; "original" wastes bandwidth.
	tmdbPosterSize = "w500"
)

const (
	clientTimeout = 15 * time.Second
	maxAttempts   = 3
	retryBaseWait = 300 * time.Millisecond
	// TMDB allows roughly 50 req/s per key; stay under it.
	outboundRate  = 40
	outboundBurst = 10
)

type tmdbClient struct {
	apiKey   string
	language string
	baseURL  string
	httpc    *http.Client
	limiter  *rate.Limiter
}

func newTMDBClient(apiKey, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: clientTimeout}
	}
	if strings.TrimSpace(language) == "" {
		language = "en-US"
	}
	return &tmdbClient{
		apiKey:   strings.TrimSpace(apiKey),
		language: language,
		baseURL:  tmdbBaseURL,
		httpc:    httpc,
		limiter:  rate.NewLimiter(rate.Limit(outboundRate), outboundBurst),
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

// get issues one GET against the TMDB API and decodes the JSON payload into v.
// Empty param values are omitted rather than sent. 429 and 5xx responses and
// transport failures are retried with exponential backoff plus jitter; other
// non-2xx statuses surface immediately as *UpstreamError.
func (c *tmdbClient) get(ctx context.Context, path string, params map[string]string, v any) error {
	if !c.isConfigured() {
		return ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return err
	}
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	for key, value := range params {
		if strings.TrimSpace(value) == "" {
			continue
		}
		q.Set(key, value)
	}
	endpoint = endpoint + "?" + q.Encode()

	return retry.Do(
		func() error { return c.doGET(ctx, endpoint, v) },
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(retryBaseWait),
		retry.MaxJitter(retryBaseWait/2),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			log.Printf("[tmdb] %s failed (attempt %d/%d): %v", path, attempt+1, maxAttempts, err)
		}),
	)
}

func (c *tmdbClient) doGET(ctx context.Context, endpoint string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// retryable keeps 4xx client errors and permanent failures out of the retry
// loop; those won't get better on a second attempt.
func retryable(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status == http.StatusTooManyRequests || ue.Status >= 500
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	return true
}

// tmdbPage is the standard paginated list envelope shared by search, similar,
// trending, popular and discover endpoints.
type tmdbPage struct {
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Results    []tmdbRecord `json:"results"`
}

func (c *tmdbClient) searchMulti(ctx context.Context, query string, page int) ([]tmdbRecord, error) {
	var payload tmdbPage
	err := c.get(ctx, "search/multi", map[string]string{
		"query":         query,
		"page":          strconv.Itoa(page),
		"include_adult": "false",
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *tmdbClient) trendingAll(ctx context.Context, page int) ([]tmdbRecord, error) {
	var payload tmdbPage
	err := c.get(ctx, "trending/all/week", map[string]string{
		"page": strconv.Itoa(page),
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *tmdbClient) popular(ctx context.Context, mediaType string, page int) ([]tmdbRecord, error) {
	var payload tmdbPage
	err := c.get(ctx, apiMediaType(mediaType)+"/popular", map[string]string{
		"page": strconv.Itoa(page),
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *tmdbClient) similar(ctx context.Context, mediaType string, id int64, page int) ([]tmdbRecord, error) {
	var payload tmdbPage
	path := fmt.Sprintf("%s/%d/similar", apiMediaType(mediaType), id)
	err := c.get(ctx, path, map[string]string{
		"page": strconv.Itoa(page),
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *tmdbClient) discover(ctx context.Context, mediaType string, params map[string]string, page int) ([]tmdbRecord, error) {
	merged := make(map[string]string, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["page"] = strconv.Itoa(page)

	var payload tmdbPage
	err := c.get(ctx, "discover/"+apiMediaType(mediaType), merged, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// tmdbDetail is the single-title detail shape. Unlike list results it carries
// genre objects instead of bare genre ids.
type tmdbDetail struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Name         string    `json:"name"`
	ReleaseDate  string    `json:"release_date"`
	FirstAirDate string    `json:"first_air_date"`
	VoteAverage  tmdbScore `json:"vote_average"`
	Overview     string    `json:"overview"`
	PosterPath   string    `json:"poster_path"`
	Genres       []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// record flattens a detail payload into the list-result shape the normalizer
// consumes.
func (d tmdbDetail) record() tmdbRecord {
	genreIDs := make([]int64, 0, len(d.Genres))
	for _, g := range d.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	return tmdbRecord{
		ID:           d.ID,
		Title:        d.Title,
		Name:         d.Name,
		ReleaseDate:  d.ReleaseDate,
		FirstAirDate: d.FirstAirDate,
		VoteAverage:  d.VoteAverage,
		Overview:     d.Overview,
		PosterPath:   d.PosterPath,
		GenreIDs:     genreIDs,
	}
}

func (c *tmdbClient) details(ctx context.Context, mediaType string, id int64) (tmdbDetail, error) {
	var payload tmdbDetail
	path := fmt.Sprintf("%s/%d", apiMediaType(mediaType), id)
	err := c.get(ctx, path, nil, &payload)
	return payload, err
}

// apiMediaType maps canonical media types onto TMDB path segments; anything
// that is not tv is treated as movie.
func apiMediaType(mediaType string) string {
	if mediaType == "tv" {
		return "tv"
	}
	return "movie"
}
