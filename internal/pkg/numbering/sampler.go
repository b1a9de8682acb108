// Package numbering produces batches of unique numbers from a bounded ID
// space, retrying on collision. Used for seat and hall-ticket numbers.
package numbering

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Source yields a non-negative pseudo-random number below n.
// It exists so tests can force collisions deterministically.
type Source interface {
	Intn(n int) int
}

// Sampler draws unique values from [min, max] with bounded retries.
// Safe for concurrent use; one sampler is shared across requests.
type Sampler struct {
	mu  sync.Mutex
	src Source
	// retriesPerValue bounds the collision-retry loop for each value drawn
	retriesPerValue int
}

// NewSampler creates a sampler over the given source. A nil source gets a
// time-seeded math/rand source.
func NewSampler(src Source) *Sampler {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{src: src, retriesPerValue: 1000}
}

// SampleUnique returns count distinct values from [min, max]. It fails when
// the space is smaller than count or the retry budget runs out.
func (s *Sampler) SampleUnique(count, min, max int) ([]int, error) {
	if min > max {
		return nil, fmt.Errorf("invalid range [%d, %d]", min, max)
	}
	space := max - min + 1
	if count > space {
		return nil, fmt.Errorf("cannot draw %d unique values from a space of %d", count, space)
	}

	// The underlying source is not safe for concurrent draws
	s.mu.Lock()
	defer s.mu.Unlock()

	used := make(map[int]struct{}, count)
	values := make([]int, 0, count)
	for len(values) < count {
		found := false
		for attempt := 0; attempt < s.retriesPerValue; attempt++ {
			v := min + s.src.Intn(space)
			if _, taken := used[v]; taken {
				continue
			}
			used[v] = struct{}{}
			values = append(values, v)
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("exhausted %d retries drawing value %d of %d",
				s.retriesPerValue, len(values)+1, count)
		}
	}
	return values, nil
}
