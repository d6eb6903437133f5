package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMonth(t *testing.T) {
	f := frameFrom(t, map[string][]string{
		"device": {"dev1", "dev1", "dev2"},
		"data":   {"2024-01-15", "2024-09-03 14:22:05", "2023-12-31 23:59:59.123"},
	}, []string{"device", "data"})

	out, err := deriveMonth(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01", "2024-09", "2023-12"}, out.Column(MonthColumn).Text)
	// The original data column survives alongside the derived bucket.
	assert.Equal(t, []string{"device", "data", "ano-mes"}, out.Columns())
}

func TestDeriveMonthInvalidDates(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"wrong separator", "2024/01/15"},
		{"missing day", "2024-01"},
		{"not a date", "yesterday"},
		{"month out of range", "2024-13-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameFrom(t, map[string][]string{
				"device": {"dev1", "dev2"},
				"data":   {"2024-01-15", tt.value},
			}, []string{"device", "data"})

			_, err := deriveMonth(f)
			var dateErr *DateParseError
			require.ErrorAs(t, err, &dateErr)
			assert.Equal(t, tt.value, dateErr.Value)
		})
	}
}

func TestDeriveMonthMissingDateColumn(t *testing.T) {
	f := frameFrom(t, map[string][]string{
		"device": {"dev1"},
	}, []string{"device"})

	_, err := deriveMonth(f)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "data", schemaErr.Column)
}
