/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures of the calculator form boundary. Display
  strings are rendered server-side (de-DE) so a client only copies them
  into the page.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

STALE OUTPUT:
  Display fields are never omitted. An empty string means "clear this
  field", so a client can overwrite previous output unconditionally.

SEE ALSO:
  - handlers.go: Uses these types
  - compensation/form.go: Display texts
*/
package api

import (
	"encoding/json"

	"github.com/warp/paycalc/paytable"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// NoticeDTO is a non-blocking message with severity "info" or "warning".
type NoticeDTO struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// YearsDTO lists selectable years.
type YearsDTO struct {
	Years []string `json:"years"`
}

// StepDTO is one option of the step selection.
type StepDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// YearDTO describes a resolved year.
type YearDTO struct {
	Year        string     `json:"year"`
	Available   bool       `json:"available"`
	Origin      string     `json:"origin"`
	ValidFrom   string     `json:"valid_from"`
	Provisional bool       `json:"provisional"`
	Grades      []string   `json:"grades"`
	Steps       []StepDTO  `json:"steps"`
	Notice      *NoticeDTO `json:"notice"`
}

// AmountDTO is the base amount line for a grade/step selection.
type AmountDTO struct {
	Year       string  `json:"year"`
	Grade      string  `json:"grade"`
	Step       int     `json:"step"`
	Amount     *string `json:"amount"`
	BaseAmount string  `json:"base_amount"`
	Hint       string  `json:"hint"`
}

// CalculateRequest is the submitted form. All values are raw form strings.
type CalculateRequest struct {
	Year  string `json:"year"`
	Grade string `json:"grade"`
	Step  string `json:"step"`
	Hours string `json:"hours"`
}

// CalculationDTO is the response to a submitted form.
type CalculationDTO struct {
	Year       string     `json:"year"`
	Grade      string     `json:"grade"`
	Step       int        `json:"step"`
	Outcome    string     `json:"outcome"`
	Prorated   *string    `json:"prorated"`
	BaseAmount string     `json:"base_amount"`
	Result     string     `json:"result"`
	Hint       string     `json:"hint"`
	ValidFrom  string     `json:"valid_from"`
	Notice     *NoticeDTO `json:"notice"`
}

// PublishTableRequest publishes a table document for the year in the URL.
type PublishTableRequest struct {
	Year     string          `json:"-" validate:"required,numeric,len=4"`
	Document json.RawMessage `json:"document" validate:"required"`
}

// TableRecordDTO describes an archived table.
type TableRecordDTO struct {
	Year        string `json:"year"`
	Version     int    `json:"version"`
	Provisional bool   `json:"provisional"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toNoticeDTO(n *paytable.Notice) *NoticeDTO {
	if n == nil {
		return nil
	}
	return &NoticeDTO{Severity: string(n.Severity), Message: n.Message}
}

func toGradeStrings(grades []paytable.GradeKey) []string {
	out := make([]string, len(grades))
	for i, g := range grades {
		out[i] = string(g)
	}
	return out
}
