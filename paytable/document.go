package paytable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MetaKeyPrefix marks document keys that carry metadata instead of a grade.
const MetaKeyPrefix = "__"

const metaKey = MetaKeyPrefix + "meta"

// DateLayout is the layout of valid_from in documents.
const DateLayout = "2006-01-02"

type documentMeta struct {
	ValidFrom   string `json:"valid_from,omitempty"`
	Provisional bool   `json:"provisional,omitempty"`
	Note        string `json:"note,omitempty"`
}

// ParseDocument turns a JSON pay table document into a PayTable.
// Keys with MetaKeyPrefix are metadata; only "__meta" is read, others are skipped.
func ParseDocument(year YearKey, raw []byte) (*PayTable, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	table := &PayTable{Year: year, Entries: make(map[GradeKey]Row, len(doc))}
	for key, value := range doc {
		if strings.HasPrefix(key, MetaKeyPrefix) {
			if key != metaKey {
				continue
			}
			meta, err := parseMeta(value)
			if err != nil {
				return nil, err
			}
			table.Meta = meta
			continue
		}

		row, err := parseRow(key, value)
		if err != nil {
			return nil, err
		}
		table.Entries[GradeKey(key)] = row
	}

	if len(table.Entries) == 0 {
		return nil, fmt.Errorf("%w: no grades", ErrMalformedDocument)
	}
	return table, nil
}

func parseRow(grade string, raw json.RawMessage) (Row, error) {
	var cells []*decimal.Decimal
	if err := json.Unmarshal(raw, &cells); err != nil {
		return Row{}, fmt.Errorf("%w: grade %q: %v", ErrMalformedDocument, grade, err)
	}
	if len(cells) != StepsPerGrade {
		return Row{}, fmt.Errorf("%w: grade %q has %d steps, want %d",
			ErrMalformedDocument, grade, len(cells), StepsPerGrade)
	}

	var row Row
	for i, c := range cells {
		if c == nil {
			continue
		}
		row[i] = NewCell(*c)
	}
	return row, nil
}

func parseMeta(raw json.RawMessage) (*TableMeta, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var dm documentMeta
	if err := json.Unmarshal(raw, &dm); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, metaKey, err)
	}

	meta := &TableMeta{Provisional: dm.Provisional, Note: dm.Note}
	if dm.ValidFrom != "" {
		t, err := parseDate(dm.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: valid_from %q", ErrMalformedDocument, dm.ValidFrom)
		}
		meta.ValidFrom = t
	}
	return meta, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// MarshalDocument renders t in the wire format accepted by ParseDocument.
func MarshalDocument(t *PayTable) ([]byte, error) {
	doc := make(map[string]any, len(t.Entries)+1)
	for grade, row := range t.Entries {
		cells := make([]any, StepsPerGrade)
		for i, c := range row {
			if c.Defined {
				cells[i] = json.Number(c.Value.String())
			}
		}
		doc[string(grade)] = cells
	}
	if t.Meta != nil {
		dm := documentMeta{Provisional: t.Meta.Provisional, Note: t.Meta.Note}
		if !t.Meta.ValidFrom.IsZero() {
			dm.ValidFrom = t.Meta.ValidFrom.Format(DateLayout)
		}
		doc[metaKey] = dm
	}
	return json.Marshal(doc)
}
