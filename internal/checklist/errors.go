package checklist

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSeparator = errors.New("missing ::: separator")
	ErrFieldCount       = errors.New("expected exactly three fields: duration; external deadline; user deadline")
	ErrEmptyTitle       = errors.New("title is empty")
	ErrInvalidDuration  = errors.New("duration must look like 90minutes or 2hours and be positive")
	ErrInvalidDeadline  = errors.New("deadline must be - or an ISO-8601 date-time")
)

// Metadata field names used in ParseError.Field.
const (
	FieldMetadata         = "metadata"
	FieldTitle            = "title"
	FieldDuration         = "duration"
	FieldExternalDeadline = "external_deadline"
	FieldUserDeadline     = "user_deadline"
)

// ParseError describes one task line that could not be parsed.
// Location fields are empty when the error comes from ParseLine directly.
type ParseError struct {
	DocumentID string
	Project    string
	Tab        string
	Position   int

	Field string
	Value string
	Line  string
	Err   error
}

func (e *ParseError) Error() string {
	where := ""
	if e.Project != "" || e.Tab != "" {
		where = fmt.Sprintf("%s/%s item %d: ", e.Project, e.Tab, e.Position)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s%s %q: %v", where, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s%s: %v", where, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
