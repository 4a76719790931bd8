/*
Package paytable provides year-specific pay tables and the store that resolves them.

PURPOSE:
  A pay table maps a pay grade (Entgeltgruppe, "EG 13") and a seniority
  step (Stufe 1-6) to a monthly base amount. Tables are published per
  year and loaded from a Source; the Store caches them per year and falls
  back to an embedded table when the load fails.

KEY CONCEPTS IN THIS FILE (types.go):
  - Cell:      One table position, either a decimal amount or "not defined"
  - Row:       Exactly six cells, one per step
  - PayTable:  Entries per grade plus optional TableMeta
  - StepIndex: 0-based step position, always within [0,5]

DESIGN PRINCIPLES:
  1. Precision: Amounts use decimal.Decimal, never float64
  2. Explicit meta: Metadata is a field, not a magic grade key
  3. Immutability: A table handed out by the Store is never modified

USAGE:
  table, _ := paytable.ParseDocument("2024", raw)
  amount, ok := table.Amount("EG 13", paytable.StepFromSelection("1"))

SEE ALSO:
  - document.go: Wire format parsing
  - store.go: Cache-first resolution with fallback
  - compensation/calculator.go: Pro-rata computation on top of tables
*/
package paytable

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELL / ROW - Amounts per step
// =============================================================================

// StepsPerGrade is the number of seniority steps every grade has.
const StepsPerGrade = 6

// Cell is one position of a grade row. The zero Cell is "not defined".
type Cell struct {
	Value   decimal.Decimal
	Defined bool
}

func NewCell(v decimal.Decimal) Cell { return Cell{Value: v, Defined: true} }

// UndefinedCell marks a step without a published amount.
var UndefinedCell = Cell{}

// Row holds the cells of one grade, index 0 is Stufe 1.
type Row [StepsPerGrade]Cell

// HasAmount reports whether at least one step of the row is defined.
func (r Row) HasAmount() bool {
	for _, c := range r {
		if c.Defined {
			return true
		}
	}
	return false
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type GradeKey string
type YearKey string

// StepIndex is a 0-based step position in [0, StepsPerGrade-1].
type StepIndex int

// StepFromSelection converts a 1-based step selection as sent by a form.
// Unparsable input selects step 1; out-of-range values clamp to the nearest step.
func StepFromSelection(s string) StepIndex {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		n = 1
	}
	return ClampStep(n - 1)
}

// ClampStep bounds a 0-based index to the valid step range.
func ClampStep(i int) StepIndex {
	if i < 0 {
		return 0
	}
	if i > StepsPerGrade-1 {
		return StepsPerGrade - 1
	}
	return StepIndex(i)
}

// Number returns the 1-based step number shown to users.
func (s StepIndex) Number() int { return int(s) + 1 }

// =============================================================================
// PAY TABLE
// =============================================================================

// TableMeta describes the validity of a table edition.
type TableMeta struct {
	ValidFrom   time.Time // zero when not published
	Provisional bool
	Note        string
}

// PayTable is one year's edition of the pay scale.
type PayTable struct {
	Year    YearKey
	Entries map[GradeKey]Row
	Meta    *TableMeta
}

// Amount returns the base amount for grade and step.
// The second result is false when the grade is unknown or the cell is not defined.
func (t *PayTable) Amount(grade GradeKey, step StepIndex) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}
	row, ok := t.Entries[grade]
	if !ok {
		return decimal.Decimal{}, false
	}
	cell := row[ClampStep(int(step))]
	if !cell.Defined {
		return decimal.Decimal{}, false
	}
	return cell.Value, true
}

// Grades lists the grade keys of t, highest grade first.
func (t *PayTable) Grades() []GradeKey {
	if t == nil {
		return nil
	}
	grades := make([]GradeKey, 0, len(t.Entries))
	for g := range t.Entries {
		grades = append(grades, g)
	}
	sort.Slice(grades, func(i, j int) bool {
		return gradeLess(grades[j], grades[i])
	})
	return grades
}

// gradeLess orders "EG 2" < "EG 2Ü" < "EG 9a" < "EG 9b" < "EG 10".
func gradeLess(a, b GradeKey) bool {
	na, sa := splitGrade(a)
	nb, sb := splitGrade(b)
	if na != nb {
		return na < nb
	}
	return sa < sb
}

func splitGrade(g GradeKey) (int, string) {
	s := strings.TrimSpace(strings.TrimPrefix(string(g), "EG"))
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1, string(g)
	}
	return n, s[i:]
}
