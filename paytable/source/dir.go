package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/warp/paycalc/paytable"
)

// Dir reads tvoed_<year>.json, .yaml or .yml from a directory.
type Dir struct {
	Path string
}

func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

func (d *Dir) Load(_ context.Context, year paytable.YearKey) (*paytable.PayTable, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		raw, err := os.ReadFile(filepath.Join(d.Path, DocumentName(year, ext)))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &paytable.LoadError{Year: year, Reason: "read file", Err: err}
		}

		if ext != ".json" {
			if raw, err = yaml.YAMLToJSON(raw); err != nil {
				return nil, &paytable.LoadError{Year: year, Reason: "malformed document", Err: err}
			}
		}
		table, err := paytable.ParseDocument(year, raw)
		if err != nil {
			return nil, paytable.AsLoadError(year, err)
		}
		return table, nil
	}
	return nil, &paytable.LoadError{Year: year, Reason: "not found", Err: paytable.ErrTableNotFound}
}

// Years lists the years that have a document in the directory, ascending.
func (d *Dir) Years() ([]paytable.YearKey, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, err
	}

	seen := make(map[paytable.YearKey]bool)
	var years []paytable.YearKey
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		year, ok := strings.CutPrefix(strings.TrimSuffix(name, ext), "tvoed_")
		if !ok || year == "" || seen[paytable.YearKey(year)] {
			continue
		}
		seen[paytable.YearKey(year)] = true
		years = append(years, paytable.YearKey(year))
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years, nil
}
