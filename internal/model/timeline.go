package model

import (
	"fmt"
	"time"
)

// BlockKind classifies a blocked period.
type BlockKind string

const (
	BlockSleep   BlockKind = "sleep"
	BlockBreak   BlockKind = "break"
	BlockMeeting BlockKind = "meeting"
	BlockOther   BlockKind = "blocked"
)

// ValidBlockKind reports whether k is one of the known kinds.
func ValidBlockKind(k BlockKind) bool {
	switch k {
	case BlockSleep, BlockBreak, BlockMeeting, BlockOther:
		return true
	}
	return false
}

// BlockedPeriod is time that cannot receive tasks.
type BlockedPeriod struct {
	Start time.Time
	End   time.Time
	Kind  BlockKind
	Label string
}

func (b BlockedPeriod) Interval() Interval { return Interval{Start: b.Start, End: b.End} }

// DisplayLabel returns the label, or the kind when no label is set.
func (b BlockedPeriod) DisplayLabel() string {
	if b.Label != "" {
		return b.Label
	}
	return string(b.Kind)
}

func (b BlockedPeriod) String() string {
	return fmt.Sprintf("%s %s-%s", b.DisplayLabel(), b.Start.Format("15:04"), b.End.Format("15:04"))
}

// SegmentKind tells which of the three variants a Segment is.
type SegmentKind string

const (
	SegmentTask    SegmentKind = "task"
	SegmentBlocked SegmentKind = "blocked"
	SegmentEmpty   SegmentKind = "empty"
)

// Segment is one contiguous piece of a Timeline.
// Task is set only for SegmentTask, Block only for SegmentBlocked.
type Segment struct {
	Kind  SegmentKind
	Start time.Time
	End   time.Time

	Task  *Task
	Block *BlockedPeriod

	LateForUser     bool
	LateForExternal bool
}

func (s Segment) Duration() time.Duration { return s.End.Sub(s.Start) }

// UnscheduledTask is a task that fit in no free window.
type UnscheduledTask struct {
	Task   Task
	Reason string
}

// DeadlineConflict records a placed task that ends after one of its deadlines.
type DeadlineConflict struct {
	Task     Task
	End      time.Time
	Deadline time.Time
	External bool
}

func (c DeadlineConflict) String() string {
	which := "user"
	if c.External {
		which = "external"
	}
	return fmt.Sprintf("%q ends %s, after its %s deadline %s",
		c.Task.Title, c.End.Format("15:04"), which, c.Deadline.Format("2006-01-02 15:04"))
}

// Timeline is the schedule for one horizon.
type Timeline struct {
	Day         time.Time
	Now         time.Time
	Horizon     Interval
	Segments    []Segment
	Unscheduled []UnscheduledTask
	Conflicts   []DeadlineConflict
}

// FindTask returns the segment holding the task with id, if any.
func (tl Timeline) FindTask(id string) (Segment, bool) {
	for _, s := range tl.Segments {
		if s.Kind == SegmentTask && s.Task != nil && s.Task.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

// ScheduledCount returns the number of task segments.
func (tl Timeline) ScheduledCount() int {
	n := 0
	for _, s := range tl.Segments {
		if s.Kind == SegmentTask {
			n++
		}
	}
	return n
}
