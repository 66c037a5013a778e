package checklist

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chronix/internal/model"
	"chronix/pkg/datemath"
)

const (
	noDeadline = "-"
	// maxDurationHours guards against overflowing time.Duration.
	maxDurationHours = 100000
)

var (
	metadataPattern = regexp.MustCompile(`^(.*?)\s*:::\s*(.*)$`)
	durationPattern = regexp.MustCompile(`(?i)^(\d+)\s*(hours?|minutes?)$`)
)

// ParseLine parses a task line. The returned error is always a *ParseError.
func (s *service) ParseLine(text string) (TaskFields, error) {
	line := strings.TrimSpace(text)
	m := metadataPattern.FindStringSubmatch(line)
	if m == nil {
		return TaskFields{}, &ParseError{Field: FieldMetadata, Line: line, Err: ErrMissingSeparator}
	}

	title := strings.TrimSpace(m[1])
	parts := strings.Split(m[2], ";")
	if len(parts) != 3 {
		return TaskFields{}, &ParseError{Field: FieldMetadata, Value: strings.TrimSpace(m[2]), Line: line, Err: ErrFieldCount}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if title == "" {
		return TaskFields{}, &ParseError{Field: FieldTitle, Line: line, Err: ErrEmptyTitle}
	}

	duration, err := parseDuration(parts[0])
	if err != nil {
		return TaskFields{}, &ParseError{Field: FieldDuration, Value: parts[0], Line: line, Err: err}
	}

	external, err := s.parseDeadline(parts[1])
	if err != nil {
		return TaskFields{}, &ParseError{Field: FieldExternalDeadline, Value: parts[1], Line: line, Err: err}
	}

	user, err := s.parseDeadline(parts[2])
	if err != nil {
		return TaskFields{}, &ParseError{Field: FieldUserDeadline, Value: parts[2], Line: line, Err: err}
	}

	return TaskFields{
		Title:            title,
		Duration:         duration,
		ExternalDeadline: external,
		UserDeadline:     user,
	}, nil
}

func parseDuration(value string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, ErrInvalidDuration
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, ErrInvalidDuration
	}

	if strings.HasPrefix(strings.ToLower(m[2]), "hour") {
		if n > maxDurationHours {
			return 0, ErrInvalidDuration
		}
		return time.Duration(n) * time.Hour, nil
	}
	if n > maxDurationHours*60 {
		return 0, ErrInvalidDuration
	}
	return time.Duration(n) * time.Minute, nil
}

func (s *service) parseDeadline(value string) (*time.Time, error) {
	if value == noDeadline {
		return nil, nil
	}
	t, err := datemath.ParseISO(value, s.location)
	if err != nil {
		return nil, ErrInvalidDeadline
	}
	return &t, nil
}

// FormatLine renders a task so that ParseLine yields the same fields back.
func (s *service) FormatLine(t model.Task) string {
	return fmt.Sprintf("%s %s %s; %s; %s",
		t.Title, Separator, formatDuration(t.Duration), formatDeadline(t.ExternalDeadline), formatDeadline(t.UserDeadline))
}

func formatDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dhours", int64(d/time.Hour))
	}
	return fmt.Sprintf("%dminutes", int64(d/time.Minute))
}

func formatDeadline(t *time.Time) string {
	if t == nil {
		return noDeadline
	}
	return t.Format(time.RFC3339Nano)
}

func toParseError(err error, line string) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{Field: FieldMetadata, Line: line, Err: err}
}
