package compensation

import (
	"github.com/warp/paycalc/paytable"
)

// User-facing texts of the calculator form.
const (
	MsgInvalidSelection = "Bitte wähle eine gültige Kombination aus Entgeltgruppe und Stufe."
	MsgInvalidHours     = "Bitte gib eine gültige Stundenzahl ein."
	MsgNoAmount         = "Für die gewählte Kombination ist in der Tabelle kein Betrag ausgewiesen."
	MsgFormula          = "Berechnung: Tabellenentgelt × (Wochenstunden ÷ 39)"
)

// Display holds every text field of the form. Fields that do not apply are
// empty so a client overwrites stale output.
type Display struct {
	BaseAmount string
	Result     string
	Hint       string
}

// DescribeSelection renders the base amount line shown while the user picks
// grade and step, before any calculation.
func DescribeSelection(table *paytable.PayTable, grade paytable.GradeKey, step paytable.StepIndex) Display {
	base, ok := LookupBaseAmount(table, grade, step)
	if !ok {
		return Display{BaseAmount: MsgNoAmount, Hint: MsgInvalidSelection}
	}
	return Display{BaseAmount: baseLine(FormatEUR(base))}
}

// Describe renders the outcome of Calculate.
func Describe(res Result) Display {
	switch res.Outcome {
	case OutcomeInvalidSelection:
		return Display{BaseAmount: MsgNoAmount, Result: MsgInvalidSelection}
	case OutcomeInvalidHours:
		return Display{BaseAmount: baseLine(FormatEUR(res.Base)), Result: MsgInvalidHours}
	default:
		return Display{
			BaseAmount: baseLine(FormatEUR(res.Base)),
			Result:     "Deine anteilige Grundvergütung (Monat) beträgt: " + FormatEUR(res.Prorated) + ".",
			Hint:       MsgFormula,
		}
	}
}

func baseLine(amount string) string {
	return amount + " (Monat bei 39h/Woche)"
}
