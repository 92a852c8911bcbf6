package catalog

import (
	"math/rand"
	"sync"
	"time"

	"reelpick/models"
)

// Sampler draws uniform random picks from title pools. The random source is
// injectable so tests can assert exact selections from a seeded generator.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler builds a sampler around src, falling back to a time-seeded
// source when src is nil.
func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{rng: rand.New(src)}
}

// Sample returns one title chosen uniformly from pool, or nil for an empty
// pool. The returned value is a copy; the pool is never mutated.
func (s *Sampler) Sample(pool []models.Title) *models.Title {
	if len(pool) == 0 {
		return nil
	}
	s.mu.Lock()
	idx := s.rng.Intn(len(pool))
	s.mu.Unlock()
	t := pool[idx]
	return &t
}

// SampleFirst filters and dedups each pool in priority order and samples the
// first one that still has candidates. Later pools are never consulted once a
// pool yields. nil means no pool produced a candidate.
func (s *Sampler) SampleFirst(c Criteria, pools ...[]models.Title) *models.Title {
	for _, pool := range pools {
		candidates := Dedup(c.Apply(pool))
		if len(candidates) > 0 {
			return s.Sample(candidates)
		}
	}
	return nil
}
