package pipeline

import (
	"strings"
	"time"

	"sensor-analytics/internal/models"
)

const (
	// DateColumn holds the reading timestamp
	DateColumn = "data"
	// MonthColumn is the derived year-month bucket
	MonthColumn = "ano-mes"

	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// deriveMonth parses the date portion of every timestamp and appends
// the ano-mes bucket column. Timestamps may carry a time-of-day suffix
// after a space; only the date portion is consumed. Every value must
// match the fixed YYYY-MM-DD pattern; there is no per-row fallback.
func deriveMonth(frame *models.Frame) (*models.Frame, error) {
	col := frame.Column(DateColumn)
	if col == nil {
		return nil, &SchemaError{Column: DateColumn}
	}

	months := make([]string, len(col.Text))
	for i, raw := range col.Text {
		datePart, _, _ := strings.Cut(raw, " ")
		t, err := time.Parse(dateLayout, datePart)
		if err != nil {
			return nil, &DateParseError{Value: raw, Err: err}
		}
		months[i] = t.Format(monthLayout)
	}

	if err := frame.AddTextColumn(MonthColumn, months); err != nil {
		return nil, &ParseError{Message: "conflicting ano-mes column", Err: err}
	}

	return frame, nil
}
