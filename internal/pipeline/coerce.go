package pipeline

import (
	"strconv"

	"sensor-analytics/internal/models"
)

// Channels are the sensor measurement columns, in output order.
// A schema may omit any of them; absent channels are skipped.
var Channels = []string{"temperatura", "umidade", "luminosidade", "ruido", "eco2", "etvoc"}

// coerce converts every sensor channel column present in the frame to
// float64. Columns that are already numeric are left alone. A single
// non-numeric value fails the whole request; there is no per-value
// fallback.
func coerce(frame *models.Frame) (*models.Frame, error) {
	for _, name := range Channels {
		col := frame.Column(name)
		if col == nil || col.Kind == models.FloatKind {
			continue
		}

		values := make([]float64, len(col.Text))
		for i, raw := range col.Text {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &CoercionError{Column: name, Value: raw, Err: err}
			}
			values[i] = v
		}

		if err := frame.SetFloatColumn(name, values); err != nil {
			return nil, err
		}
	}

	return frame, nil
}
