package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds, used as the "kind" label on the pipeline error counter.
const (
	KindParse   = "parse"
	KindSchema  = "schema"
	KindEmpty   = "empty_dataset"
	KindDate    = "date_parse"
	KindCoerce  = "coercion"
	KindUnknown = "unknown"
)

// ParseError reports malformed delimited text: a missing header, an
// empty payload, or inconsistent field counts.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a required column missing from the dataset
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: missing required column %q", e.Column)
}

// EmptyDatasetError reports that no rows survived normalization
type EmptyDatasetError struct{}

func (e *EmptyDatasetError) Error() string {
	return "empty dataset: no rows remain after normalization"
}

// DateParseError reports a timestamp value that does not match the
// expected YYYY-MM-DD pattern.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("date parse error: invalid date %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// CoercionError reports a sensor value that cannot be converted to a
// numeric type.
type CoercionError struct {
	Column string
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("coercion error: column %q value %q is not numeric: %v", e.Column, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// ErrorKind classifies an error for metrics labeling
func ErrorKind(err error) string {
	var (
		parseErr  *ParseError
		schemaErr *SchemaError
		emptyErr  *EmptyDatasetError
		dateErr   *DateParseError
		coerceErr *CoercionError
	)
	switch {
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &emptyErr):
		return KindEmpty
	case errors.As(err, &dateErr):
		return KindDate
	case errors.As(err, &coerceErr):
		return KindCoerce
	default:
		return KindUnknown
	}
}
