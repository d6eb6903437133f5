package pipeline

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensor-analytics/internal/models"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{22, "22.0"},
		{21, "21.0"},
		{0.55, "0.55"},
		{52.5, "52.5"},
		{-5, "-5.0"},
		{0, "0.0"},
		{1e21, "1e+21"},
		{0.1, "0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatValue(tt.value)
			assert.Equal(t, tt.want, got)

			// Whatever the rendering, it must round-trip to the same double.
			back, err := strconv.ParseFloat(got, 64)
			require.NoError(t, err)
			assert.Equal(t, tt.value, back)
		})
	}
}

func TestSerializeOrderingAndHeader(t *testing.T) {
	rows := []models.AggregateRow{
		{Device: "dev2", AnoMes: "2024-01", Sensor: "temperatura", ValorMaximo: 1, ValorMedio: 1, ValorMinimo: 1},
		{Device: "dev1", AnoMes: "2024-02", Sensor: "eco2", ValorMaximo: 2, ValorMedio: 2, ValorMinimo: 2},
		{Device: "dev1", AnoMes: "2024-01", Sensor: "umidade", ValorMaximo: 3, ValorMedio: 3, ValorMinimo: 3},
		{Device: "dev1", AnoMes: "2024-01", Sensor: "eco2", ValorMaximo: 4, ValorMedio: 4, ValorMinimo: 4},
	}

	out, err := serialize(rows)
	require.NoError(t, err)

	want := "device,ano-mes,sensor,valor_maximo,valor_medio,valor_minimo\n" +
		"dev1,2024-01,eco2,4.0,4.0,4.0\n" +
		"dev1,2024-01,umidade,3.0,3.0,3.0\n" +
		"dev1,2024-02,eco2,2.0,2.0,2.0\n" +
		"dev2,2024-01,temperatura,1.0,1.0,1.0\n"

	assert.Equal(t, want, string(out))
}

func TestSerializeIsIdempotent(t *testing.T) {
	rows := []models.AggregateRow{
		{Device: "b", AnoMes: "2024-01", Sensor: "ruido", ValorMaximo: 9, ValorMedio: 8, ValorMinimo: 7},
		{Device: "a", AnoMes: "2024-03", Sensor: "etvoc", ValorMaximo: 0.6, ValorMedio: 0.55, ValorMinimo: 0.5},
	}

	first, err := serialize(rows)
	require.NoError(t, err)

	// The input slice itself is not reordered.
	assert.Equal(t, "b", rows[0].Device)

	second, err := serialize(rows)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSerializeEmptySet(t *testing.T) {
	out, err := serialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "device,ano-mes,sensor,valor_maximo,valor_medio,valor_minimo\n", string(out))
}
