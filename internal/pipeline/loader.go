package pipeline

import (
	"bytes"
	"encoding/csv"

	"sensor-analytics/internal/models"
)

// Delimiter separates fields in request payloads
const Delimiter = '|'

// load parses pipe-delimited text with a header row into a frame of
// text columns. No type inference happens here; every cell stays text
// and an empty cell marks a missing value. Coercion of sensor columns
// is a separate, explicit stage.
func load(payload []byte) (*models.Frame, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	reader.Comma = Delimiter

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Message: "malformed delimited text", Err: err}
	}

	if len(records) == 0 {
		return nil, &ParseError{Message: "empty payload"}
	}

	header := records[0]
	rows := records[1:]

	frame := models.NewFrame()
	for i, name := range header {
		values := make([]string, len(rows))
		for r, row := range rows {
			values[r] = row[i]
		}
		if err := frame.AddTextColumn(name, values); err != nil {
			return nil, &ParseError{Message: "invalid header", Err: err}
		}
	}

	return frame, nil
}
