/*
handlers_test.go - Tests for the calculator API

Tests for:
- Year resolution (loaded, fallback, unavailable)
- Base amount lookups
- Calculation outcomes and stale-field clearing
- Table publishing into the archive
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paycalc/api"
	"github.com/warp/paycalc/paytable"
	"github.com/warp/paycalc/paytable/source"
	"github.com/warp/paycalc/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testEnv struct {
	router  http.Handler
	handler *api.Handler
	mem     *source.Memory
	archive *sqlite.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	archive, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })

	mem := source.NewMemory()
	tables := paytable.NewStore(source.Chain{archive, mem})
	h := api.NewHandler(tables, archive)
	h.Seed = source.NewDir(t.TempDir())
	return &testEnv{
		router:  api.NewRouter(h, api.RouterOptions{AllowedOrigins: []string{"*"}}),
		handler: h,
		mem:     mem,
		archive: archive,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const eg13Doc = `{"__meta": {"valid_from": "2024-03-01"}, "EG 13": [4628.76, 4985.95, 5392.57, 5834.04, 6353.53, 6635.44], "EG 1": [null, 2355.52, 2388.86, 2430.55, 2469.42, 2569.47]}`

// =============================================================================
// YEARS
// =============================================================================

func TestListYears(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/years", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2024", "2025"}, decode[api.YearsDTO](t, rec).Years)
}

func TestGetYear_Loaded(t *testing.T) {
	env := newTestEnv(t)
	env.mem.Put("2024", []byte(eg13Doc))

	rec := env.do(t, http.MethodGet, "/api/years/2024", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[api.YearDTO](t, rec)
	assert.True(t, dto.Available)
	assert.Equal(t, "loaded", dto.Origin)
	assert.Equal(t, []string{"EG 13", "EG 1"}, dto.Grades)
	assert.Equal(t, "Gültig ab: 1.3.2024", dto.ValidFrom)
	assert.Len(t, dto.Steps, 6)
	assert.Equal(t, api.StepDTO{Value: "1", Label: "Stufe 1"}, dto.Steps[0])
	assert.Nil(t, dto.Notice)
}

func TestGetYear_Fallback(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/years/2024", nil)

	dto := decode[api.YearDTO](t, rec)
	assert.True(t, dto.Available)
	assert.Equal(t, "fallback", dto.Origin)
	assert.Len(t, dto.Grades, 19)
	require.NotNil(t, dto.Notice)
	assert.Equal(t, "info", dto.Notice.Severity)
}

func TestGetYear_Unavailable(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/years/2025", nil)

	require.Equal(t, http.StatusOK, rec.Code, "load failures are not HTTP errors")
	assert.Contains(t, rec.Body.String(), `"grades":[]`)
	dto := decode[api.YearDTO](t, rec)
	assert.False(t, dto.Available)
	assert.Equal(t, "unavailable", dto.Origin)
	assert.Empty(t, dto.Grades)
	assert.Equal(t, "", dto.ValidFrom)
	require.NotNil(t, dto.Notice)
	assert.Equal(t, "warning", dto.Notice.Severity)
	assert.Equal(t, "Hinweis: 2025-Tabelle konnte nicht geladen werden.", dto.Notice.Message)
}

// =============================================================================
// AMOUNT
// =============================================================================

func TestGetAmount(t *testing.T) {
	env := newTestEnv(t)
	env.mem.Put("2024", []byte(eg13Doc))

	rec := env.do(t, http.MethodGet, "/api/years/2024/amount?grade=EG+13&step=2", nil)

	dto := decode[api.AmountDTO](t, rec)
	assert.Equal(t, 2, dto.Step)
	require.NotNil(t, dto.Amount)
	assert.Equal(t, "4985.95", *dto.Amount)
	assert.Equal(t, "4.985,95 € (Monat bei 39h/Woche)", dto.BaseAmount)
	assert.Empty(t, dto.Hint)

	rec = env.do(t, http.MethodGet, "/api/years/2024/amount?grade=EG+1&step=0", nil)
	dto = decode[api.AmountDTO](t, rec)
	assert.Equal(t, 1, dto.Step, "step below 1 is step 1")
	assert.Nil(t, dto.Amount)
	assert.Equal(t, "Für die gewählte Kombination ist in der Tabelle kein Betrag ausgewiesen.", dto.BaseAmount)
	assert.NotEmpty(t, dto.Hint)
}

// =============================================================================
// CALCULATE
// =============================================================================

func TestCalculate_Success(t *testing.T) {
	env := newTestEnv(t)
	env.mem.Put("2024", []byte(eg13Doc))

	rec := env.do(t, http.MethodPost, "/api/calculate", api.CalculateRequest{
		Year: "2024", Grade: "EG 13", Step: "1", Hours: "19.5",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[api.CalculationDTO](t, rec)
	assert.Equal(t, "success", dto.Outcome)
	require.NotNil(t, dto.Prorated)
	assert.Equal(t, "2314.38", *dto.Prorated)
	assert.Equal(t, "Deine anteilige Grundvergütung (Monat) beträgt: 2.314,38 €.", dto.Result)
	assert.Equal(t, "Berechnung: Tabellenentgelt × (Wochenstunden ÷ 39)", dto.Hint)
	assert.Equal(t, "Gültig ab: 1.3.2024", dto.ValidFrom)
}

func TestCalculate_InvalidHours(t *testing.T) {
	env := newTestEnv(t)
	env.mem.Put("2024", []byte(eg13Doc))

	rec := env.do(t, http.MethodPost, "/api/calculate", api.CalculateRequest{
		Year: "2024", Grade: "EG 13", Step: "1", Hours: "-5",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	dto := decode[api.CalculationDTO](t, rec)
	assert.Equal(t, "invalid_hours", dto.Outcome)
	assert.Nil(t, dto.Prorated)
	assert.Equal(t, "Bitte gib eine gültige Stundenzahl ein.", dto.Result)
	assert.Equal(t, "", dto.Hint)
}

func TestCalculate_ExponentHours(t *testing.T) {
	// GIVEN: A loaded table
	// WHEN: Submitting hours in exponent notation
	// THEN: 422 invalid_hours, no amount computed

	env := newTestEnv(t)
	env.mem.Put("2024", []byte(eg13Doc))

	for _, hours := range []string{"1e3", "1e200000000", "1E-999999999"} {
		rec := env.do(t, http.MethodPost, "/api/calculate", api.CalculateRequest{
			Year: "2024", Grade: "EG 13", Step: "1", Hours: hours,
		})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, "hours %q", hours)
		dto := decode[api.CalculationDTO](t, rec)
		assert.Equal(t, "invalid_hours", dto.Outcome, "hours %q", hours)
		assert.Nil(t, dto.Prorated, "hours %q", hours)
	}
}

func TestCalculate_InvalidSelection(t *testing.T) {
	env := newTestEnv(t)
	env.mem.Put("2024", []byte(eg13Doc))

	rec := env.do(t, http.MethodPost, "/api/calculate", api.CalculateRequest{
		Year: "2024", Grade: "EG 1", Step: "1", Hours: "39",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	dto := decode[api.CalculationDTO](t, rec)
	assert.Equal(t, "invalid_selection", dto.Outcome)
	assert.Equal(t, "Bitte wähle eine gültige Kombination aus Entgeltgruppe und Stufe.", dto.Result)
}

func TestCalculate_UnavailableYear(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculate", api.CalculateRequest{
		Year: "2025", Grade: "EG 13", Step: "1", Hours: "39",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	dto := decode[api.CalculationDTO](t, rec)
	assert.Equal(t, "invalid_selection", dto.Outcome)
	require.NotNil(t, dto.Notice)
	assert.Equal(t, "warning", dto.Notice.Severity)
}

func TestCalculate_BadBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ADMIN
// =============================================================================

func TestPublishTable_FeedsUncachedYear(t *testing.T) {
	// GIVEN: 2025 is not available anywhere
	// WHEN: An operator publishes a provisional 2025 table
	// THEN: The next resolve of 2025 uses it and warns that it is provisional

	env := newTestEnv(t)
	assert.False(t, decode[api.YearDTO](t, env.do(t, http.MethodGet, "/api/years/2025", nil)).Available)

	doc := json.RawMessage(`{"__meta": {"provisional": true}, "EG 13": [4801.49, 5172.04, 5593.86, 6051.81, 6590.69, 6883.12]}`)
	rec := env.do(t, http.MethodPut, "/api/admin/tables/2025", map[string]any{"document": doc})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	published := decode[api.TableRecordDTO](t, rec)
	assert.Equal(t, "2025", published.Year)
	assert.Equal(t, 1, published.Version)
	assert.True(t, published.Provisional)

	dto := decode[api.YearDTO](t, env.do(t, http.MethodGet, "/api/years/2025", nil))
	assert.True(t, dto.Available)
	assert.True(t, dto.Provisional)
	assert.Equal(t, "Gültig ab: 1.4.2025", dto.ValidFrom)
	require.NotNil(t, dto.Notice)
	assert.Equal(t, "Vorläufige Daten für dieses Tarifjahr.", dto.Notice.Message)

	list := decode[[]api.TableRecordDTO](t, env.do(t, http.MethodGet, "/api/admin/tables", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "2025", list[0].Year)
}

func TestPublishTable_Rejects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/admin/tables/20x5", map[string]any{"document": json.RawMessage(eg13Doc)})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "year must be four digits")

	rec = env.do(t, http.MethodPut, "/api/admin/tables/2025", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "document is required")

	rec = env.do(t, http.MethodPut, "/api/admin/tables/2025", map[string]any{"document": json.RawMessage(`{"EG 13": [1, 2]}`)})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed document")

	records, err := env.archive.ListTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestImportTables(t *testing.T) {
	// GIVEN: A data directory with a valid 2024 and a broken 2025 document
	// WHEN: Importing with reset
	// THEN: 2024 is archived and 2025 is reported as failed

	env := newTestEnv(t)
	dir := env.handler.Seed.Path
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tvoed_2024.json"), []byte(eg13Doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tvoed_2025.json"), []byte(`{"EG 13": [1]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	rec := env.do(t, http.MethodPost, "/api/admin/tables/import", api.ImportTablesRequest{Reset: true})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[api.ImportResultDTO](t, rec)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "2024", result.Imported[0].Year)
	assert.Contains(t, result.Failed, "2025")

	dto := decode[api.YearDTO](t, env.do(t, http.MethodGet, "/api/years/2024", nil))
	assert.Equal(t, "loaded", dto.Origin)
	assert.Equal(t, []string{"EG 13", "EG 1"}, dto.Grades)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/years/2024", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "paycalc_table_resolutions_total")
}
