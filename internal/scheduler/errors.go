package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidHorizon    = errors.New("horizon end must be after its start")
	ErrInvalidBlock      = errors.New("blocked period end must be after its start")
	ErrOverlappingBlocks = errors.New("blocked periods overlap")
	ErrTimelineGap       = errors.New("timeline does not cover the horizon")
	ErrInvalidPolicy     = errors.New("unknown overdue policy")
)

// ConfigurationError rejects a whole scheduling run.
type ConfigurationError struct {
	Err       error
	Conflicts []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Conflicts) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.Conflicts, "; "))
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
