/*
handlers.go - HTTP API handlers for the pay table calculator

PURPOSE:
  Exposes pay table resolution and the pro-rata calculation as the form
  boundary of the calculator page. Handles HTTP request/response, JSON
  serialization, and delegates to paytable and compensation.

ENDPOINTS:
  Years:
    GET    /api/years                   List selectable years
    GET    /api/years/{year}            Resolve year: grades, steps, validity, notice
    GET    /api/years/{year}/amount     Base amount for ?grade=&step=

  Calculation:
    POST   /api/calculate               Prorated monthly amount

  Admin:
    GET    /api/admin/tables            List archived tables
    PUT    /api/admin/tables/{year}     Publish a table document
    POST   /api/admin/tables/import     Publish the bundled documents (seed.go)

ERROR HANDLING:
  - 400: Unreadable request body
  - 422: Form input rejected (invalid selection or hours); body is a
         complete CalculationDTO so the page can render the message
  - 500: Archive failures (admin endpoints only)
  Load failures of pay tables are never errors: they arrive as notices.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/paycalc/compensation"
	"github.com/warp/paycalc/paytable"
	"github.com/warp/paycalc/paytable/source"
	"github.com/warp/paycalc/pkg/metrics"
	"github.com/warp/paycalc/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tables  *paytable.Store
	Archive *sqlite.Store // nil disables the admin endpoints
	Seed    *source.Dir   // documents offered by ImportTables

	validate *validator.Validate
}

// NewHandler creates a handler resolving tables through tables.
func NewHandler(tables *paytable.Store, archive *sqlite.Store) *Handler {
	return &Handler{
		Tables:   tables,
		Archive:  archive,
		validate: validator.New(),
	}
}

// =============================================================================
// YEAR HANDLERS
// =============================================================================

// ListYears returns the selectable years.
func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	years := h.Tables.Years()
	dto := YearsDTO{Years: make([]string, len(years))}
	for i, y := range years {
		dto.Years[i] = string(y)
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetYear resolves a year and returns what the form needs to offer selections.
func (h *Handler) GetYear(w http.ResponseWriter, r *http.Request) {
	year := paytable.YearKey(chi.URLParam(r, "year"))
	res := h.Tables.Resolve(r.Context(), year)

	dto := YearDTO{
		Year:        string(year),
		Available:   res.Available(),
		Origin:      string(res.Origin),
		ValidFrom:   compensation.FormatValidFrom(res.Meta),
		Provisional: res.Meta.Provisional,
		Grades:      toGradeStrings(res.Table.Grades()),
		Steps:       stepOptions(),
		Notice:      toNoticeDTO(res.Notice),
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetAmount returns the base amount line for a grade/step selection.
func (h *Handler) GetAmount(w http.ResponseWriter, r *http.Request) {
	year := paytable.YearKey(chi.URLParam(r, "year"))
	grade := paytable.GradeKey(r.URL.Query().Get("grade"))
	step := paytable.StepFromSelection(r.URL.Query().Get("step"))

	res := h.Tables.Resolve(r.Context(), year)
	display := compensation.DescribeSelection(res.Table, grade, step)

	dto := AmountDTO{
		Year:       string(year),
		Grade:      string(grade),
		Step:       step.Number(),
		BaseAmount: display.BaseAmount,
		Hint:       display.Hint,
	}
	if amount, ok := compensation.LookupBaseAmount(res.Table, grade, step); ok {
		dto.Amount = strPtr(amount.StringFixed(2))
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate computes the prorated monthly amount for a submitted form.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	year := paytable.YearKey(req.Year)
	res := h.Tables.Resolve(r.Context(), year)
	in := compensation.Input{
		Grade: paytable.GradeKey(req.Grade),
		Step:  paytable.StepFromSelection(req.Step),
		Hours: req.Hours,
	}

	result, err := compensation.Calculate(res.Table, in)
	metrics.IncCalculation(string(result.Outcome))
	display := compensation.Describe(result)

	dto := CalculationDTO{
		Year:       req.Year,
		Grade:      req.Grade,
		Step:       in.Step.Number(),
		Outcome:    string(result.Outcome),
		BaseAmount: display.BaseAmount,
		Result:     display.Result,
		Hint:       display.Hint,
		ValidFrom:  compensation.FormatValidFrom(res.Meta),
		Notice:     toNoticeDTO(res.Notice),
	}

	// Calculate fails only on form input, so every error is a 422.
	if err != nil {
		zap.S().Debugw("calculation rejected", "year", year, "grade", req.Grade, "outcome", result.Outcome)
		writeJSON(w, http.StatusUnprocessableEntity, dto)
		return
	}

	dto.Prorated = strPtr(result.Prorated.StringFixed(2))
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ListTables returns the archived tables.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeError(w, http.StatusNotFound, "Table archive not configured", nil)
		return
	}

	records, err := h.Archive.ListTables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tables", err)
		return
	}

	dtos := make([]TableRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toTableRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PublishTable stores a table document in the archive.
func (h *Handler) PublishTable(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		writeError(w, http.StatusNotFound, "Table archive not configured", nil)
		return
	}

	var req PublishTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Year = chi.URLParam(r, "year")
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid table request", validationDetails(err))
		return
	}

	year := paytable.YearKey(req.Year)
	table, err := paytable.ParseDocument(year, req.Document)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pay table document", err)
		return
	}

	rec, err := h.Archive.SaveTable(r.Context(), table)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save table", err)
		return
	}

	zap.S().Infow("pay table published", "year", year, "version", rec.Version, "cached", h.Tables.Cached(year))
	writeJSON(w, http.StatusCreated, toTableRecordDTO(*rec))
}

// =============================================================================
// HELPERS
// =============================================================================

func stepOptions() []StepDTO {
	steps := make([]StepDTO, paytable.StepsPerGrade)
	for i := range steps {
		n := strconv.Itoa(i + 1)
		steps[i] = StepDTO{Value: n, Label: "Stufe " + n}
	}
	return steps
}

func toTableRecordDTO(rec sqlite.TableRecord) TableRecordDTO {
	dto := TableRecordDTO{
		Year:        string(rec.Year),
		Version:     rec.Version,
		Provisional: rec.Provisional,
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func validationDetails(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Errorf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return errors.Join(msgs...)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func strPtr(s string) *string {
	return &s
}
