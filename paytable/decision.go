package paytable

import (
	"fmt"
)

// Origin tells where a resolved table came from.
type Origin string

const (
	OriginLoaded      Origin = "loaded"
	OriginFallback    Origin = "fallback"
	OriginUnavailable Origin = "unavailable"
)

// LoadOutcome is the result of one Source.Load call: Loaded or Failed.
type LoadOutcome struct {
	Table *PayTable
	Err   error
}

func Loaded(t *PayTable) LoadOutcome { return LoadOutcome{Table: t} }
func Failed(err error) LoadOutcome  { return LoadOutcome{Err: err} }

// OK reports whether the load produced a table.
func (o LoadOutcome) OK() bool { return o.Err == nil && o.Table != nil }

// Decision is what the Store does with a LoadOutcome.
type Decision struct {
	Table  *PayTable // nil when Origin is OriginUnavailable
	Origin Origin
	Notice *Notice
}

// Decide maps a load outcome to the table to use and the notice to show.
// It performs no I/O.
func Decide(year YearKey, outcome LoadOutcome) Decision {
	if outcome.OK() {
		return Decision{Table: outcome.Table, Origin: OriginLoaded}
	}
	if year == FallbackYear {
		return Decision{
			Table:  FallbackTable(),
			Origin: OriginFallback,
			Notice: fallbackNotice(year),
		}
	}
	return Decision{Origin: OriginUnavailable, Notice: unavailableNotice(year)}
}

func fallbackNotice(year YearKey) *Notice {
	return &Notice{
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("Hinweis: %s-Tabelle konnte nicht geladen werden. Es werden Fallback-Daten verwendet.", year),
	}
}

func unavailableNotice(year YearKey) *Notice {
	return &Notice{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Hinweis: %s-Tabelle konnte nicht geladen werden.", year),
	}
}
