package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"reelpick/models"
	"reelpick/services/catalog"
)

type catalogService interface {
	Search(ctx context.Context, query string) (*models.Title, []models.Title, error)
	Suggest(ctx context.Context, query string) ([]models.Title, error)
	Similar(ctx context.Context, mediaType string, id int64, c catalog.Criteria) (*models.Title, []models.Title, error)
	Random(ctx context.Context, c catalog.Criteria) (*models.Title, error)
	ByGenre(ctx context.Context, mediaType string, genre int64, c catalog.Criteria, take int) ([]models.Title, error)
	Popular(ctx context.Context, take int) ([]models.Title, []models.Title, error)
	Discover(ctx context.Context, q catalog.DiscoverQuery) ([]models.Title, error)
}

var _ catalogService = (*catalog.Service)(nil)

type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(s catalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// SearchResponse pairs the best match with the full result list.
type SearchResponse struct {
	Target *models.Title  `json:"target"`
	Items  []models.Title `json:"items"`
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	target, items, err := h.Service.Search(r.Context(), q)
	if err != nil {
		log.Printf("[catalog] search error q=%q err=%v", q, err)
		writeError(w, serviceStatus(err), err.Error())
		return
	}

	if items == nil {
		items = []models.Title{}
	}
	writeJSON(w, SearchResponse{Target: target, Items: items})
}

// SimilarResponse carries the seed title alongside its filtered similar pool.
type SimilarResponse struct {
	Target  *models.Title  `json:"target"`
	Similar []models.Title `json:"similar"`
}

func (h *CatalogHandler) Similar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	idStr := strings.TrimSpace(query.Get("id"))
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	mediaType := strings.ToLower(strings.TrimSpace(query.Get("type")))
	criteria := catalog.Criteria{
		MinRating: parseFloatParam(query, "minRating", 0),
		Genre:     parseInt64Param(query, "genre", 0),
		YearMin:   parseIntParam(query, "yearMin", catalog.DefaultYearMin),
		YearMax:   parseIntParam(query, "yearMax", 0),
	}

	target, similar, err := h.Service.Similar(r.Context(), mediaType, id, criteria)
	if err != nil {
		log.Printf("[catalog] similar error id=%d err=%v", id, err)
		writeError(w, serviceStatus(err), err.Error())
		return
	}

	if similar == nil {
		similar = []models.Title{}
	}
	writeJSON(w, SimilarResponse{Target: target, Similar: similar})
}

// RandomResponse wraps a single random pick.
type RandomResponse struct {
	Target *models.Title `json:"target"`
}

func (h *CatalogHandler) Random(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criteria := catalog.Criteria{
		MinRating: parseFloatParam(query, "minRating", 0),
		Genre:     parseInt64Param(query, "genre", 0),
		YearMin:   parseIntParam(query, "yearMin", catalog.DefaultYearMin),
		MediaType: strings.ToLower(strings.TrimSpace(query.Get("mediaType"))),
	}

	target, err := h.Service.Random(r.Context(), criteria)
	if err != nil {
		log.Printf("[catalog] random error err=%v", err)
		writeError(w, serviceStatus(err), err.Error())
		return
	}
	if target == nil {
		// A valid request that simply matched nothing, distinct from an
		// upstream failure.
		writeError(w, http.StatusNotFound, "no title matched the given filters")
		return
	}

	writeJSON(w, RandomResponse{Target: target})
}

// GenreResponse lists titles for one genre.
type GenreResponse struct {
	Results []models.Title `json:"results"`
}

func (h *CatalogHandler) Genre(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	genre := parseInt64Param(query, "genre", 0)
	if genre <= 0 {
		writeError(w, http.StatusBadRequest, "genre is required")
		return
	}

	mediaType := strings.ToLower(strings.TrimSpace(query.Get("media")))
	criteria := catalog.Criteria{
		MinRating: parseFloatParam(query, "minRating", 0),
		YearMin:   parseIntParam(query, "yearMin", catalog.DefaultYearMin),
	}
	take := parseIntParam(query, "take", 0)

	results, err := h.Service.ByGenre(r.Context(), mediaType, genre, criteria, take)
	if err != nil {
		log.Printf("[catalog] genre error genre=%d err=%v", genre, err)
		writeError(w, serviceStatus(err), err.Error())
		return
	}

	if results == nil {
		results = []models.Title{}
	}
	writeJSON(w, GenreResponse{Results: results})
}

// PopularResponse carries the two popular pools side by side.
type PopularResponse struct {
	Movies []models.Title `json:"movies"`
	TV     []models.Title `json:"tv"`
}

func (h *CatalogHandler) Popular(w http.ResponseWriter, r *http.Request) {
	take := parseIntParam(r.URL.Query(), "take", 0)

	movies, tv, err := h.Service.Popular(r.Context(), take)
	if err != nil {
		log.Printf("[catalog] popular error err=%v", err)
		writeError(w, serviceStatus(err), err.Error())
		return
	}

	if movies == nil {
		movies = []models.Title{}
	}
	if tv == nil {
		tv = []models.Title{}
	}
	writeJSON(w, PopularResponse{Movies: movies, TV: tv})
}

// SuggestResponse lists typeahead candidates.
type SuggestResponse struct {
	Results []models.Title `json:"results"`
}

func (h *CatalogHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		writeError(w, http.StatusBadRequest, "q must be at least 2 characters")
		return
	}

	results, err := h.Service.Suggest(r.Context(), q)
	if err != nil {
		log.Printf("[catalog] suggest error q=%q err=%v", q, err)
		writeError(w, serviceStatus(err), err.Error())
		return
	}

	if results == nil {
		results = []models.Title{}
	}
	writeJSON(w, SuggestResponse{Results: results})
}

// DiscoverResponse lists deduplicated discover results.
type DiscoverResponse struct {
	Items []models.Title `json:"items"`
}

func (h *CatalogHandler) Discover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dq := catalog.DiscoverQuery{
		MediaType: strings.ToLower(strings.TrimSpace(query.Get("type"))),
		Keywords:  strings.TrimSpace(query.Get("keywords")),
		Genres:    strings.TrimSpace(query.Get("genres")),
		Sort:      strings.TrimSpace(query.Get("sort")),
		MinVotes:  parseIntParam(query, "minVotes", 0),
		Region:    strings.ToUpper(strings.TrimSpace(query.Get("region"))),
	}

	items, err := h.Service.Discover(r.Context(), dq)
	if err != nil {
		log.Printf("[catalog] discover error type=%s err=%v", dq.MediaType, err)
		writeError(w, serviceStatus(err), err.Error())
		return
	}

	if items == nil {
		items = []models.Title{}
	}
	writeJSON(w, DiscoverResponse{Items: items})
}

// serviceStatus maps engine errors onto response codes: missing credential is
// a 500, upstream failures mirror the provider's status, anything else is a
// bad gateway.
func serviceStatus(err error) int {
	if errors.Is(err, catalog.ErrNotConfigured) {
		return http.StatusInternalServerError
	}
	var ue *catalog.UpstreamError
	if errors.As(err, &ue) {
		return ue.Status
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func parseIntParam(query url.Values, key string, def int) int {
	value := strings.TrimSpace(query.Get(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func parseInt64Param(query url.Values, key string, def int64) int64 {
	value := strings.TrimSpace(query.Get(key))
	if value == "" || strings.EqualFold(value, "any") {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func parseFloatParam(query url.Values, key string, def float64) float64 {
	value := strings.TrimSpace(query.Get(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
