package pipeline

import (
	"bytes"
	"encoding/csv"
	"math"
	"sort"
	"strconv"
	"strings"

	"sensor-analytics/internal/models"
)

// OutputHeader is the fixed column order of the response payload
var OutputHeader = []string{"device", "ano-mes", "sensor", "valor_maximo", "valor_medio", "valor_minimo"}

// serialize sorts the aggregate rows ascending by (device, ano-mes,
// sensor) and renders them as comma-delimited CSV with a header row.
func serialize(rows []models.AggregateRow) ([]byte, error) {
	sorted := make([]models.AggregateRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Device != b.Device {
			return a.Device < b.Device
		}
		if a.AnoMes != b.AnoMes {
			return a.AnoMes < b.AnoMes
		}
		return a.Sensor < b.Sensor
	})

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(OutputHeader); err != nil {
		return nil, err
	}

	for _, row := range sorted {
		record := []string{
			row.Device,
			row.AnoMes,
			row.Sensor,
			formatValue(row.ValorMaximo),
			formatValue(row.ValorMedio),
			formatValue(row.ValorMinimo),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// formatValue renders a float with the shortest representation that
// round-trips to the same double, keeping a trailing ".0" on integral
// values so 22 renders as "22.0".
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(v, 0) && !math.IsNaN(v) {
		s += ".0"
	}
	return s
}
