// Package source provides paytable.Source implementations.
package source

import (
	"context"
	"sync"

	"github.com/warp/paycalc/paytable"
)

// =============================================================================
// MEMORY SOURCE - In-memory documents (for testing/dev)
// =============================================================================

// Memory serves raw documents keyed by year. Documents are parsed on every
// Load, so a malformed document fails the same way a remote one would.
type Memory struct {
	mu        sync.RWMutex
	documents map[paytable.YearKey][]byte
	failures  map[paytable.YearKey]*paytable.LoadError
	loads     map[paytable.YearKey]int
}

func NewMemory() *Memory {
	return &Memory{
		documents: make(map[paytable.YearKey][]byte),
		failures:  make(map[paytable.YearKey]*paytable.LoadError),
		loads:     make(map[paytable.YearKey]int),
	}
}

// Put stores a document for year and clears any injected failure.
func (m *Memory) Put(year paytable.YearKey, document []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[year] = append([]byte(nil), document...)
	delete(m.failures, year)
}

// Fail makes every Load for year return err.
func (m *Memory) Fail(year paytable.YearKey, err *paytable.LoadError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[year] = err
}

func (m *Memory) Load(_ context.Context, year paytable.YearKey) (*paytable.PayTable, error) {
	m.mu.Lock()
	m.loads[year]++
	failure := m.failures[year]
	doc, ok := m.documents[year]
	m.mu.Unlock()

	if failure != nil {
		return nil, failure
	}
	if !ok {
		return nil, &paytable.LoadError{Year: year, Reason: "not found", Err: paytable.ErrTableNotFound}
	}
	table, err := paytable.ParseDocument(year, doc)
	if err != nil {
		return nil, paytable.AsLoadError(year, err)
	}
	return table, nil
}

// Loads returns how often Load was called for year.
func (m *Memory) Loads(year paytable.YearKey) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loads[year]
}
