package pipeline

import (
	"sensor-analytics/internal/models"
)

// DeviceColumn is the required reporting-unit identifier
const DeviceColumn = "device"

// droppedColumns are irrelevant to aggregation and removed up front.
// Absence of any of them is tolerated.
var droppedColumns = []string{"id", "latitude", "longitude"}

// normalize prunes irrelevant columns, removes every row with a
// missing value in any remaining column, and verifies that the device
// column exists and that at least one row survives.
func normalize(frame *models.Frame) (*models.Frame, error) {
	frame = frame.Drop(droppedColumns...)

	keep := make([]bool, frame.Rows())
	names := frame.Columns()
	for i := range keep {
		keep[i] = true
		for _, name := range names {
			if frame.Column(name).Text[i] == "" {
				keep[i] = false
				break
			}
		}
	}

	frame, err := frame.Filter(keep)
	if err != nil {
		return nil, err
	}

	if !frame.Has(DeviceColumn) {
		return nil, &SchemaError{Column: DeviceColumn}
	}

	if frame.Rows() == 0 {
		return nil, &EmptyDatasetError{}
	}

	return frame, nil
}
