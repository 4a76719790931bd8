package paytable_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paycalc/paytable"
)

const doc2025 = `{
	"__meta": {"valid_from": "2025-04-01", "provisional": true, "note": "Vorläufig bis zur Tarifeinigung."},
	"__comment": "ignored",
	"EG 13": [4801.49, 5172.04, 5593.86, 6051.81, 6590.69, 6883.12],
	"EG 1":  [null, 2443.37, 2477.95, 2521.20, 2561.52, 2665.27]
}`

func TestParseDocument_MetaAndRows(t *testing.T) {
	table, err := paytable.ParseDocument("2025", []byte(doc2025))
	require.NoError(t, err)

	assert.Equal(t, paytable.YearKey("2025"), table.Year)
	assert.Len(t, table.Entries, 2, "meta keys are not grades")

	require.NotNil(t, table.Meta)
	assert.True(t, table.Meta.Provisional)
	assert.Equal(t, "Vorläufig bis zur Tarifeinigung.", table.Meta.Note)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), table.Meta.ValidFrom)

	row := table.Entries["EG 1"]
	assert.False(t, row[0].Defined)
	assert.True(t, row[1].Defined)
	assert.Equal(t, "2443.37", row[1].Value.StringFixed(2))
}

func TestParseDocument_AllAbsentRowIsLegal(t *testing.T) {
	table, err := paytable.ParseDocument("2024", []byte(`{"EG 1": [null, null, null, null, null, null]}`))
	require.NoError(t, err)
	assert.False(t, table.Entries["EG 1"].HasAmount())
	assert.Nil(t, table.Meta)
}

func TestParseDocument_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":       `<html>404</html>`,
		"five steps":     `{"EG 13": [1, 2, 3, 4, 5]}`,
		"seven steps":    `{"EG 13": [1, 2, 3, 4, 5, 6, 7]}`,
		"text amount":    `{"EG 13": ["a", 2, 3, 4, 5, 6]}`,
		"row not array":  `{"EG 13": 4628.76}`,
		"bad valid_from": `{"__meta": {"valid_from": "01.03.2024"}, "EG 13": [1, 2, 3, 4, 5, 6]}`,
		"only meta":      `{"__meta": {"provisional": true}}`,
		"array document": `[1, 2, 3]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := paytable.ParseDocument("2024", []byte(raw))
			assert.ErrorIs(t, err, paytable.ErrMalformedDocument)
		})
	}
}

func TestMarshalDocument_ParsesBack(t *testing.T) {
	original, err := paytable.ParseDocument("2025", []byte(doc2025))
	require.NoError(t, err)

	raw, err := paytable.MarshalDocument(original)
	require.NoError(t, err)

	parsed, err := paytable.ParseDocument("2025", raw)
	require.NoError(t, err)
	assert.Equal(t, *original.Meta, *parsed.Meta)
	for grade, row := range original.Entries {
		for i, c := range row {
			got := parsed.Entries[grade][i]
			assert.Equal(t, c.Defined, got.Defined, "%s step %d", grade, i+1)
			assert.True(t, c.Value.Equal(got.Value), "%s step %d", grade, i+1)
		}
	}
}
