package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensor-analytics/pkg/logging"
	"sensor-analytics/pkg/metrics"
)

// One collector for the whole test binary; promauto registers metrics
// in the default registry and re-registration panics.
var testMetrics = metrics.NewCollector("pipeline_test")

func newTestAnalyzer() *Analyzer {
	logger := logging.NewStructuredLogger("test", "0.0.0", logging.FatalLevel)
	logger.SetOutput(io.Discard)
	return NewAnalyzer(logger, testMetrics)
}

const scenarioInput = `id|device|contagem|data|temperatura|umidade|luminosidade|ruido|eco2|etvoc|latitude|longitude
1|dev1|10|2024-01-15|20.0|50.0|100.0|30.0|400.0|0.5|0|0
2|dev1|10|2024-01-20|22.0|55.0|110.0|32.0|420.0|0.6|0|0
3|dev2|5|2024-01-10|18.0|45.0|90.0|28.0|380.0|0.4|0|0
`

const scenarioOutput = `device,ano-mes,sensor,valor_maximo,valor_medio,valor_minimo
dev1,2024-01,eco2,420.0,410.0,400.0
dev1,2024-01,etvoc,0.6,0.55,0.5
dev1,2024-01,luminosidade,110.0,105.0,100.0
dev1,2024-01,ruido,32.0,31.0,30.0
dev1,2024-01,temperatura,22.0,21.0,20.0
dev1,2024-01,umidade,55.0,52.5,50.0
dev2,2024-01,eco2,380.0,380.0,380.0
dev2,2024-01,etvoc,0.4,0.4,0.4
dev2,2024-01,luminosidade,90.0,90.0,90.0
dev2,2024-01,ruido,28.0,28.0,28.0
dev2,2024-01,temperatura,18.0,18.0,18.0
dev2,2024-01,umidade,45.0,45.0,45.0
`

func TestRunConcreteScenario(t *testing.T) {
	a := newTestAnalyzer()

	out, err := a.Run(context.Background(), []byte(scenarioInput))
	require.NoError(t, err)
	assert.Equal(t, scenarioOutput, string(out))
}

func TestRunIsDeterministic(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()

	first, err := a.Run(ctx, []byte(scenarioInput))
	require.NoError(t, err)
	second, err := a.Run(ctx, []byte(scenarioInput))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunCompleteness(t *testing.T) {
	// Two devices across two months, one without a february reading.
	input := `device|data|temperatura|umidade
dev1|2024-01-15|20.0|50.0
dev1|2024-02-15|21.0|51.0
dev2|2024-01-10|18.0|45.0
`
	a := newTestAnalyzer()
	out, err := a.Run(context.Background(), []byte(input))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 1+6, "one row per (device, month, channel) grid cell plus header")

	// Exactly the grid of observed (device, month) pairs times the two
	// channels in the schema; dev2 never gains a february group.
	for _, want := range []string{
		"dev1,2024-01,temperatura", "dev1,2024-01,umidade",
		"dev1,2024-02,temperatura", "dev1,2024-02,umidade",
		"dev2,2024-01,temperatura", "dev2,2024-01,umidade",
	} {
		assert.Contains(t, string(out), want)
	}
	assert.NotContains(t, string(out), "dev2,2024-02")
}

func TestRunNullRowExcluded(t *testing.T) {
	input := `device|data|temperatura
dev1|2024-01-15|20.0
dev1|2024-01-20|
dev1|2024-01-25|40.0
`
	a := newTestAnalyzer()
	out, err := a.Run(context.Background(), []byte(input))
	require.NoError(t, err)

	// The null row contributes to nothing: mean of 20 and 40 only.
	assert.Contains(t, string(out), "dev1,2024-01,temperatura,40.0,30.0,20.0")
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind string
	}{
		{
			name:     "empty payload",
			input:    "",
			wantKind: KindParse,
		},
		{
			name:     "header only",
			input:    "id|device|data|temperatura\n",
			wantKind: KindEmpty,
		},
		{
			name:     "all rows dropped by normalization",
			input:    "device|data|temperatura\ndev1||20.0\n",
			wantKind: KindEmpty,
		},
		{
			name:     "missing device column",
			input:    "id|data|temperatura\n1|2024-01-15|20.0\n",
			wantKind: KindSchema,
		},
		{
			name:     "bad date",
			input:    "device|data|temperatura\ndev1|15/01/2024|20.0\n",
			wantKind: KindDate,
		},
		{
			name:     "non-numeric sensor value",
			input:    "device|data|temperatura\ndev1|2024-01-15|warm\n",
			wantKind: KindCoerce,
		},
		{
			name:     "ragged rows",
			input:    "device|data\ndev1|2024-01-15|20.0\n",
			wantKind: KindParse,
		},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := a.Run(context.Background(), []byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, out, "no partial output on failure")
			assert.Equal(t, tt.wantKind, ErrorKind(err))
		})
	}
}
