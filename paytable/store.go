/*
store.go - Cache-first pay table resolution with fallback

PURPOSE:
  The Store answers "which table applies for year Y?" It loads each year
  from a Source at most once per process lifetime and keeps the result.
  Failed loads never surface as errors: they degrade to the embedded
  fallback table (FallbackYear only) or to an "unavailable" resolution
  with a warning notice.

KEY INTERFACES:
  Source: Anything that can load a PayTable for a year (HTTP, directory,
          SQLite archive, memory)

CACHE CONTRACT:
  - Put-if-absent: a cached table is never replaced
  - Never evicted; a new Store starts empty
  - Failures are not cached; the next Resolve loads again

CONCURRENCY:
  Resolve is safe for concurrent use. Loads are grouped per year with
  singleflight, so concurrent callers for the same uncached year share
  one Source.Load.

NOTICE PRECEDENCE:
  1. Provisional warning (table note or ProvisionalMessage)
  2. Load notice (fallback info or unavailable warning)
  3. None - clears whatever the caller showed before

SEE ALSO:
  - decision.go: Pure mapping from LoadOutcome to table and notice
  - source/: Source implementations
*/
package paytable

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/warp/paycalc/pkg/metrics"
)

// =============================================================================
// SOURCE - Where tables come from
// =============================================================================

// Source loads the table for a year. Failures should be *LoadError;
// other errors are wrapped by the Store.
type Source interface {
	Load(ctx context.Context, year YearKey) (*PayTable, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, year YearKey) (*PayTable, error)

func (f SourceFunc) Load(ctx context.Context, year YearKey) (*PayTable, error) {
	return f(ctx, year)
}

// =============================================================================
// STORE
// =============================================================================

// Resolution is the outcome of resolving a year.
//
// Table is the cached table shared with every other caller of the year.
// It is read-only: callers must not modify it or its Entries map.
type Resolution struct {
	Year   YearKey
	Table  *PayTable // nil when no table is available
	Origin Origin
	Meta   EffectiveMeta
	Notice *Notice // nil clears any previous notice
}

// Available reports whether a table was resolved.
func (r Resolution) Available() bool { return r.Table != nil }

type cacheEntry struct {
	table  *PayTable
	origin Origin
	notice *Notice
}

// Store resolves pay tables per year.
type Store struct {
	source Source

	mu    sync.RWMutex
	cache map[YearKey]cacheEntry

	group singleflight.Group
}

// NewStore creates an empty Store backed by source.
func NewStore(source Source) *Store {
	return &Store{
		source: source,
		cache:  make(map[YearKey]cacheEntry),
	}
}

// Resolve returns the table and effective metadata for year.
func (s *Store) Resolve(ctx context.Context, year YearKey) Resolution {
	if entry, ok := s.cached(year); ok {
		return resolution(year, entry)
	}

	ch := s.group.DoChan(string(year), func() (any, error) {
		if entry, ok := s.cached(year); ok {
			return entry, nil
		}
		// The shared load outlives the first caller's cancellation.
		return s.load(context.WithoutCancel(ctx), year), nil
	})

	select {
	case res := <-ch:
		return resolution(year, res.Val.(cacheEntry))
	case <-ctx.Done():
		// Not cached: the shared load may still store the real table.
		zap.S().Warnw("pay table resolve abandoned", "year", year, "error", ctx.Err())
		d := Decide(year, Failed(ctx.Err()))
		return resolution(year, cacheEntry{table: d.Table, origin: d.Origin, notice: d.Notice})
	}
}

func (s *Store) load(ctx context.Context, year YearKey) cacheEntry {
	table, err := s.source.Load(ctx, year)
	if err != nil {
		le := AsLoadError(year, err)
		zap.S().Errorw("failed to load pay table", "year", year, "status", le.StatusCode, "error", le)
		metrics.IncLoad(metrics.LoadFailed)
		return s.decide(year, Failed(le))
	}
	if table == nil {
		metrics.IncLoad(metrics.LoadFailed)
		return s.decide(year, Failed(&LoadError{Year: year, Reason: "empty result"}))
	}

	zap.S().Infow("pay table loaded", "year", year, "grades", len(table.Entries))
	metrics.IncLoad(metrics.LoadSucceeded)
	return s.decide(year, Loaded(table))
}

func (s *Store) decide(year YearKey, outcome LoadOutcome) cacheEntry {
	d := Decide(year, outcome)
	entry := cacheEntry{table: d.Table, origin: d.Origin, notice: d.Notice}
	if d.Origin == OriginFallback {
		zap.S().Warnw("using embedded fallback pay table", "year", year)
	}
	if d.Table == nil {
		return entry
	}
	return s.put(year, entry)
}

// put stores entry unless year is already cached and returns the cached entry.
func (s *Store) put(year YearKey, entry cacheEntry) cacheEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[year]; ok {
		return existing
	}
	s.cache[year] = entry
	return entry
}

func (s *Store) cached(year YearKey) (cacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[year]
	return entry, ok
}

// Cached reports whether year has a cached table.
func (s *Store) Cached(year YearKey) bool {
	_, ok := s.cached(year)
	return ok
}

// Years lists the years a caller can offer: years with a default validity,
// the fallback year and every cached year, ascending.
func (s *Store) Years() []YearKey {
	seen := map[YearKey]bool{FallbackYear: true}
	for y := range defaultValidFrom {
		seen[y] = true
	}
	s.mu.RLock()
	for y := range s.cache {
		seen[y] = true
	}
	s.mu.RUnlock()

	years := make([]YearKey, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years
}

func resolution(year YearKey, entry cacheEntry) Resolution {
	r := Resolution{Year: year, Table: entry.table, Origin: entry.origin, Notice: entry.notice}
	metrics.IncResolution(string(entry.origin))
	if entry.table == nil {
		return r
	}
	r.Meta = ResolveMeta(year, entry.table)
	if n := provisionalNotice(r.Meta); n != nil {
		r.Notice = n
	}
	return r
}
