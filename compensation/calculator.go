/*
Package compensation computes part-time monthly pay from a pay table.

PURPOSE:
  Resolves the monthly base amount (Tabellenentgelt) for a grade and step
  and scales it by the ratio of weekly hours to the full-time reference
  of 39 hours.

FORMULA:
  prorated = base × hours / 39

  The multiplication runs first so that 39 hours reproduce the base amount
  exactly, without a rounding step in between.

VALIDATION ORDER:
  1. No amount for grade/step  -> ErrInvalidSelection
  2. Hours not a plain number  -> ErrInvalidHours
  3. Otherwise                 -> prorated amount

SEE ALSO:
  - paytable/types.go: Table lookup
  - format.go: de-DE rendering of amounts and dates
  - form.go: Display strings for the form boundary
*/
package compensation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/paycalc/paytable"
)

// FullTimeHours is the weekly hours of a full-time position under TVöD.
const FullTimeHours = 39

var fullTime = decimal.NewFromInt(FullTimeHours)

// maxHoursDigits bounds the digits of an hours value. Exponent notation is
// not accepted at all, so the magnitude of every operand stays small.
const maxHoursDigits = 12

var hoursPattern = regexp.MustCompile(`^(\d+([.,]\d*)?|[.,]\d+)$`)

// Outcome classifies a calculation.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeInvalidSelection Outcome = "invalid_selection"
	OutcomeInvalidHours     Outcome = "invalid_hours"
)

// Input is one calculation request.
type Input struct {
	Grade paytable.GradeKey
	Step  paytable.StepIndex
	Hours string // raw user input
}

// Result of a calculation. Base is set whenever the selection resolved,
// Prorated only on success.
type Result struct {
	Outcome  Outcome
	Base     decimal.Decimal
	HasBase  bool
	Hours    decimal.Decimal
	Prorated decimal.Decimal
}

// LookupBaseAmount returns the amount at grade/step, false when absent.
func LookupBaseAmount(table *paytable.PayTable, grade paytable.GradeKey, step paytable.StepIndex) (decimal.Decimal, bool) {
	return table.Amount(grade, step)
}

// Prorate scales base by hours relative to FullTimeHours.
func Prorate(base, hours decimal.Decimal) decimal.Decimal {
	return base.Mul(hours).Div(fullTime)
}

// ParseHours accepts plain decimal notation such as "19.5" or "19,5".
// Signs, exponents and anything longer than maxHoursDigits digits fail.
func ParseHours(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !hoursPattern.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidHours, s)
	}
	if digits := len(s) - strings.Count(s, ".") - strings.Count(s, ","); digits > maxHoursDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: %q has too many digits", ErrInvalidHours, s)
	}
	h, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidHours, s)
	}
	return h, nil
}

// Calculate validates in and computes the prorated amount.
// The returned Result is populated even when err is non-nil.
func Calculate(table *paytable.PayTable, in Input) (Result, error) {
	base, ok := LookupBaseAmount(table, in.Grade, in.Step)
	if !ok {
		return Result{Outcome: OutcomeInvalidSelection}, ErrInvalidSelection
	}

	res := Result{Base: base, HasBase: true}
	hours, err := ParseHours(in.Hours)
	if err != nil {
		res.Outcome = OutcomeInvalidHours
		return res, err
	}

	res.Outcome = OutcomeSuccess
	res.Hours = hours
	res.Prorated = Prorate(base, hours)
	return res, nil
}
