package paytable

import (
	"time"
)

// =============================================================================
// DEFAULT VALIDITY
// =============================================================================

// defaultValidFrom applies when a table carries no valid_from of its own.
var defaultValidFrom = map[YearKey]time.Time{
	"2024": time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	"2025": time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
}

// DefaultValidFrom returns the static validity date for year, if any.
func DefaultValidFrom(year YearKey) (time.Time, bool) {
	t, ok := defaultValidFrom[year]
	return t, ok
}

// =============================================================================
// EFFECTIVE META
// =============================================================================

// EffectiveMeta is the metadata shown for a resolved year.
type EffectiveMeta struct {
	ValidFrom   time.Time // zero: no validity shown
	Provisional bool
	Note        string
}

// HasValidFrom reports whether a validity date is known.
func (m EffectiveMeta) HasValidFrom() bool { return !m.ValidFrom.IsZero() }

// ResolveMeta picks table metadata first, then the per-year default.
func ResolveMeta(year YearKey, t *PayTable) EffectiveMeta {
	var m EffectiveMeta
	if t != nil && t.Meta != nil {
		m.ValidFrom = t.Meta.ValidFrom
		m.Provisional = t.Meta.Provisional
		m.Note = t.Meta.Note
	}
	if m.ValidFrom.IsZero() {
		if d, ok := DefaultValidFrom(year); ok {
			m.ValidFrom = d
		}
	}
	return m
}

// =============================================================================
// NOTICES
// =============================================================================

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notice is a non-blocking message for the user.
type Notice struct {
	Severity Severity
	Message  string
}

// ProvisionalMessage is shown for provisional tables without a note.
const ProvisionalMessage = "Vorläufige Daten für dieses Tarifjahr."

// provisionalNotice returns the warning for provisional data, nil otherwise.
func provisionalNotice(m EffectiveMeta) *Notice {
	if !m.Provisional {
		return nil
	}
	msg := m.Note
	if msg == "" {
		msg = ProvisionalMessage
	}
	return &Notice{Severity: SeverityWarning, Message: msg}
}
