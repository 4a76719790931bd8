/*
seed.go - Import of bundled table documents into the archive

PURPOSE:
  Publishes every tvoed_<year> document found in the data directory into
  the SQLite archive, so a fresh installation starts with the bundled
  editions and an operator can correct them later via PUT.

USAGE VIA API:
  POST /api/admin/tables/import
  {"reset": true}   clears the archive first

NOTE:
  Import replaces archived documents of the same year. Years already
  cached by the running store are not affected until restart.

SEE ALSO:
  - handlers.go: PublishTable, ListTables
  - paytable/source/dir.go: Directory layout
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/warp/paycalc/paytable"
)

// ImportTablesRequest controls an import run.
type ImportTablesRequest struct {
	Reset bool `json:"reset"`
}

// ImportResultDTO reports the outcome per year.
type ImportResultDTO struct {
	Imported []TableRecordDTO  `json:"imported"`
	Failed   map[string]string `json:"failed"`
}

// ImportTables publishes the data directory documents into the archive.
func (h *Handler) ImportTables(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil || h.Seed == nil {
		writeError(w, http.StatusNotFound, "Table import not configured", nil)
		return
	}

	var req ImportTablesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if req.Reset {
		if err := h.Archive.Reset(ctx); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reset archive", err)
			return
		}
	}

	years, err := h.Seed.Years()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read data directory", err)
		return
	}

	result := ImportResultDTO{Imported: []TableRecordDTO{}, Failed: map[string]string{}}
	for _, year := range years {
		table, err := h.Seed.Load(ctx, year)
		if err != nil {
			result.Failed[string(year)] = paytable.AsLoadError(year, err).Error()
			continue
		}
		rec, err := h.Archive.SaveTable(ctx, table)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save table", err)
			return
		}
		result.Imported = append(result.Imported, toTableRecordDTO(*rec))
	}

	zap.S().Infow("pay tables imported", "imported", len(result.Imported), "failed", len(result.Failed))
	writeJSON(w, http.StatusOK, result)
}
