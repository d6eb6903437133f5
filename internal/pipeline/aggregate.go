package pipeline

import (
	"sensor-analytics/internal/models"
)

type groupKey struct {
	device string
	month  string
}

type groupStats struct {
	min   float64
	max   float64
	sum   float64
	count int
}

// aggregate computes min/mean/max per (device, ano-mes) partition for
// each sensor channel present in the frame, and unions the per-channel
// results into one long-format set tagged by sensor name. Channels are
// aggregated independently so a schema omitting one channel never
// suppresses the others.
func aggregate(frame *models.Frame) []models.AggregateRow {
	devices := frame.Column(DeviceColumn).Text
	months := frame.Column(MonthColumn).Text

	var out []models.AggregateRow
	for _, sensor := range Channels {
		col := frame.Column(sensor)
		if col == nil {
			continue
		}

		groups := make(map[groupKey]*groupStats)
		for i, v := range col.Floats {
			key := groupKey{device: devices[i], month: months[i]}
			stats, ok := groups[key]
			if !ok {
				groups[key] = &groupStats{min: v, max: v, sum: v, count: 1}
				continue
			}
			if v < stats.min {
				stats.min = v
			}
			if v > stats.max {
				stats.max = v
			}
			stats.sum += v
			stats.count++
		}

		for key, stats := range groups {
			out = append(out, models.AggregateRow{
				Device:      key.device,
				AnoMes:      key.month,
				Sensor:      sensor,
				ValorMaximo: stats.max,
				ValorMedio:  stats.sum / float64(stats.count),
				ValorMinimo: stats.min,
			})
		}
	}

	return out
}
