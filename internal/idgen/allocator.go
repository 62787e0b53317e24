package idgen

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quiz-master/internal/domain"
)

// EntityType identifies which numeric range an identifier is drawn from.
type EntityType string

const (
	EntityUser     EntityType = "user"
	EntitySubject  EntityType = "subject"
	EntityChapter  EntityType = "chapter"
	EntityQuiz     EntityType = "quiz"
	EntityQuestion EntityType = "question"
	EntityScore    EntityType = "score"
)

// Range is a closed interval of valid identifiers for one entity type.
type Range struct {
	Min int64
	Max int64
}

// Width returns the number of identifiers in the range.
func (r Range) Width() int64 {
	return r.Max - r.Min + 1
}

// Contains reports whether id falls inside the range.
func (r Range) Contains(id int64) bool {
	return id >= r.Min && id <= r.Max
}

// DefaultRanges maps each entity type to its reserved, non-overlapping
// interval. The partitioning lets a consumer infer the entity type from the
// id alone.
func DefaultRanges() map[EntityType]Range {
	return map[EntityType]Range{
		EntityUser:     {Min: 1000, Max: 9999},
		EntitySubject:  {Min: 10000, Max: 19999},
		EntityChapter:  {Min: 20000, Max: 29999},
		EntityQuiz:     {Min: 30000, Max: 39999},
		EntityQuestion: {Min: 40000, Max: 49999},
		EntityScore:    {Min: 50000, Max: 59999},
	}
}

// maxProbeAttempts bounds the collision probe loop. Exceeding it is a fatal
// condition for the creation request, never a silent retry.
const maxProbeAttempts = 100

// Store is the persistence view the allocator probes. Both methods must see
// uncommitted rows of the surrounding transaction when one is active, since
// the uniqueness probe is the correctness guard under concurrent creators.
type Store interface {
	// MaxID returns the highest existing id for the entity type.
	// ok is false when the table holds no rows.
	MaxID(ctx context.Context, entity EntityType) (id int64, ok bool, err error)

	// Exists reports whether a row of the entity type already uses id.
	Exists(ctx context.Context, entity EntityType, id int64) (bool, error)
}

// Allocator hands out unique, range-scoped, non-sequential identifiers.
// It keeps no memory of issued ids; the store is the only source of truth,
// so any number of processes can allocate concurrently.
type Allocator struct {
	store  Store
	ranges map[EntityType]Range

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAllocator creates an allocator over the default entity ranges.
func NewAllocator(store Store) *Allocator {
	return NewAllocatorWithRanges(store, DefaultRanges())
}

// NewAllocatorWithRanges creates an allocator with explicit ranges. Tests use
// this to shrink a range down to a handful of values.
func NewAllocatorWithRanges(store Store, ranges map[EntityType]Range) *Allocator {
	return &Allocator{
		store:  store,
		ranges: ranges,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next produces a fresh identifier for the entity type. The candidate starts
// at a randomized distance above the current maximum (or near the range floor
// for an empty table), wraps back to the floor when it would leave the range,
// and is probed against the store until no collision is found. After
// maxProbeAttempts collisions the range is treated as exhausted.
func (a *Allocator) Next(ctx context.Context, entity EntityType) (int64, error) {
	rng, ok := a.ranges[entity]
	if !ok {
		return 0, domain.NewInternalError("unknown entity type for id allocation: "+string(entity), nil)
	}

	maxID, hasRows, err := a.store.MaxID(ctx, entity)
	if err != nil {
		return 0, err
	}

	var candidate int64
	if !hasRows {
		candidate = rng.Min + a.randOffset(rng, 100)
	} else {
		candidate = maxID + a.randBetween(10, 50)
	}
	if candidate > rng.Max {
		candidate = rng.Min + a.randOffset(rng, 100)
	}

	attempts := 0
	for {
		exists, err := a.store.Exists(ctx, entity, candidate)
		if err != nil {
			return 0, err
		}
		if !exists {
			return candidate, nil
		}

		attempts++
		if attempts > maxProbeAttempts {
			return 0, domain.NewIDSpaceExhaustedError(string(entity), maxProbeAttempts)
		}

		candidate += a.randBetween(1, 100)
		if candidate > rng.Max {
			candidate = rng.Min + a.randOffset(rng, 1000)
		}
	}
}

// randOffset draws from [0, limit) capped to the range width, so a wrapped
// candidate never lands outside a narrow range.
func (a *Allocator) randOffset(r Range, limit int64) int64 {
	if w := r.Width(); w < limit {
		limit = w
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Int63n(limit)
}

// randBetween draws from the closed interval [lo, hi].
func (a *Allocator) randBetween(lo, hi int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lo + a.rng.Int63n(hi-lo+1)
}
