package scheduler_test

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"chronix/internal/model"
	"chronix/internal/scheduler"
)

var day = time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC) // Monday

func at(hh, mm int) time.Time {
	return day.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

func task(id string, provenance int, d time.Duration) model.Task {
	return model.Task{ID: id, Title: id, Duration: d, Provenance: provenance}
}

func block(label string, from, to time.Time) model.BlockedPeriod {
	return model.BlockedPeriod{Start: from, End: to, Kind: model.BlockBreak, Label: label}
}

type seg struct {
	kind       model.SegmentKind
	start, end time.Time
	name       string
}

func flatten(tl model.Timeline) []seg {
	out := make([]seg, 0, len(tl.Segments))
	for _, s := range tl.Segments {
		name := ""
		switch s.Kind {
		case model.SegmentTask:
			name = s.Task.ID
		case model.SegmentBlocked:
			name = s.Block.Label
		}
		out = append(out, seg{kind: s.Kind, start: s.Start, end: s.End, name: name})
	}
	return out
}

func TestSchedule_HorizonExample(t *testing.T) {
	tl, err := scheduler.Schedule(scheduler.Request{
		Now:     at(13, 10),
		Horizon: model.Interval{Start: at(13, 0), End: at(14, 15)},
		Tasks:   []model.Task{task("short", 0, 15*time.Minute)},
		Blocked: []model.BlockedPeriod{block("Break", at(14, 0), at(14, 15))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []seg{
		{model.SegmentEmpty, at(13, 0), at(13, 10), ""},
		{model.SegmentTask, at(13, 10), at(13, 25), "short"},
		{model.SegmentEmpty, at(13, 25), at(14, 0), ""},
		{model.SegmentBlocked, at(14, 0), at(14, 15), "Break"},
	}
	if got := flatten(tl); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected timeline:\n got %v\nwant %v", got, want)
	}
	if len(tl.Unscheduled) != 0 || len(tl.Conflicts) != 0 {
		t.Errorf("unexpected leftovers: %+v %+v", tl.Unscheduled, tl.Conflicts)
	}
}

func TestSchedule_Priority(t *testing.T) {
	late := task("late", 0, 30*time.Minute)
	late.ExternalDeadline = ptr(at(20, 0))

	soon := task("soon", 5, 30*time.Minute)
	soon.UserDeadline = ptr(at(12, 0))
	soon.ExternalDeadline = ptr(at(22, 0))

	undated := task("undated", 1, 30*time.Minute)

	// Same tab: the title decides even though b comes first in the list.
	tieB := task("tie-b", 3, 30*time.Minute)
	tieB.Title = "b"
	tieB.Order = 1
	tieB.ExternalDeadline = ptr(at(18, 0))
	tieA := task("tie-a", 3, 30*time.Minute)
	tieA.Title = "a"
	tieA.Order = 2
	tieA.ExternalDeadline = ptr(at(18, 0))
	tieFirst := task("tie-first", 2, 30*time.Minute)
	tieFirst.ExternalDeadline = ptr(at(18, 0))

	done := task("done", 0, 30*time.Minute)
	done.Completed = true

	tl, err := scheduler.Schedule(scheduler.Request{
		Now:     at(9, 0),
		Horizon: model.Interval{Start: at(9, 0), End: at(17, 0)},
		Tasks:   []model.Task{undated, late, done, tieB, tieA, soon, tieFirst},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []string
	for _, s := range tl.Segments {
		if s.Kind == model.SegmentTask {
			order = append(order, s.Task.ID)
		}
	}
	want := []string{"soon", "tie-first", "tie-a", "tie-b", "late", "undated"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected order %v, got %v", want, order)
	}
}

func TestSchedule_PositionBreaksTitleTie(t *testing.T) {
	second := task("second", 0, 15*time.Minute)
	second.Title = "Review"
	second.Order = 7
	first := task("first", 0, 15*time.Minute)
	first.Title = "Review"
	first.Order = 4

	queue := scheduler.Prioritize([]model.Task{second, first}, at(9, 0), scheduler.OverdueUrgent)
	if len(queue) != 2 || queue[0].ID != "first" || queue[1].ID != "second" {
		t.Errorf("expected list position to break the title tie, got %v", queue)
	}
}

func TestSchedule_FirstFitUsesEarlierGaps(t *testing.T) {
	big := task("big", 0, 90*time.Minute)
	big.ExternalDeadline = ptr(at(9, 0))
	small := task("small", 1, 30*time.Minute)
	small.ExternalDeadline = ptr(at(10, 0))

	tl, err := scheduler.Schedule(scheduler.Request{
		Now:     at(9, 0),
		Horizon: model.Interval{Start: at(9, 0), End: at(12, 0)},
		Tasks:   []model.Task{big, small},
		Blocked: []model.BlockedPeriod{block("Standup", at(9, 45), at(10, 0))},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []seg{
		{model.SegmentTask, at(9, 0), at(9, 30), "small"},
		{model.SegmentEmpty, at(9, 30), at(9, 45), ""},
		{model.SegmentBlocked, at(9, 45), at(10, 0), "Standup"},
		{model.SegmentTask, at(10, 0), at(11, 30), "big"},
		{model.SegmentEmpty, at(11, 30), at(12, 0), ""},
	}
	if got := flatten(tl); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected timeline:\n got %v\nwant %v", got, want)
	}

	// big is overdue under the urgent policy and still scheduled, but flagged
	if len(tl.Conflicts) != 1 || tl.Conflicts[0].Task.ID != "big" || !tl.Conflicts[0].External {
		t.Errorf("expected an external deadline conflict for big, got %+v", tl.Conflicts)
	}
}

func TestSchedule_Overflow(t *testing.T) {
	tl, err := scheduler.Schedule(scheduler.Request{
		Now:     at(9, 0),
		Horizon: model.Interval{Start: at(9, 0), End: at(11, 0)},
		Tasks: []model.Task{
			task("fits", 0, time.Hour),
			task("huge", 1, 3*time.Hour),
			task("tail", 2, time.Hour),
			task("none", 3, time.Minute),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tl.Unscheduled) != 2 {
		t.Fatalf("expected 2 unscheduled tasks, got %+v", tl.Unscheduled)
	}
	if tl.Unscheduled[0].Task.ID != "huge" || tl.Unscheduled[0].Reason != scheduler.ReasonNoWindow {
		t.Errorf("unexpected first unscheduled %+v", tl.Unscheduled[0])
	}
	if tl.Unscheduled[1].Task.ID != "none" || tl.Unscheduled[1].Reason != scheduler.ReasonPast {
		t.Errorf("unexpected second unscheduled %+v", tl.Unscheduled[1])
	}
	for _, s := range tl.Segments {
		if s.Kind == model.SegmentTask && (s.Task.ID == "huge" || s.Task.ID == "none") {
			t.Errorf("unscheduled task %s appears in the timeline", s.Task.ID)
		}
	}
}

func TestSchedule_OverduePolicy(t *testing.T) {
	overdue := task("overdue", 0, 30*time.Minute)
	overdue.UserDeadline = ptr(at(8, 0))
	upcoming := task("upcoming", 1, 30*time.Minute)
	upcoming.UserDeadline = ptr(at(16, 0))
	undated := task("undated", 2, 30*time.Minute)

	tests := []struct {
		policy scheduler.OverduePolicy
		want   []string
	}{
		{"", []string{"overdue", "upcoming", "undated"}},
		{scheduler.OverdueUrgent, []string{"overdue", "upcoming", "undated"}},
		{scheduler.OverdueDefer, []string{"upcoming", "undated", "overdue"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			got := scheduler.Prioritize([]model.Task{undated, overdue, upcoming}, at(9, 0), tt.policy)
			var ids []string
			for _, g := range got {
				ids = append(ids, g.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ids)
			}
		})
	}

	if _, err := scheduler.Schedule(scheduler.Request{
		Horizon: model.Interval{Start: at(9, 0), End: at(10, 0)},
		Policy:  "sometimes",
	}); !errors.Is(err, scheduler.ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestSchedule_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name          string
		req           scheduler.Request
		wantErr       error
		wantConflicts int
	}{
		{
			name:          "inverted horizon",
			req:           scheduler.Request{Horizon: model.Interval{Start: at(12, 0), End: at(9, 0)}},
			wantErr:       scheduler.ErrInvalidHorizon,
			wantConflicts: 1,
		},
		{
			name: "overlapping blocks",
			req: scheduler.Request{
				Horizon: model.Interval{Start: at(9, 0), End: at(17, 0)},
				Blocked: []model.BlockedPeriod{
					block("Lunch", at(12, 0), at(13, 0)),
					block("Sync", at(12, 30), at(13, 30)),
					block("Late", at(16, 0), at(17, 0)),
				},
			},
			wantErr:       scheduler.ErrOverlappingBlocks,
			wantConflicts: 1,
		},
		{
			name: "inverted block",
			req: scheduler.Request{
				Horizon: model.Interval{Start: at(9, 0), End: at(17, 0)},
				Blocked: []model.BlockedPeriod{block("Odd", at(11, 0), at(10, 0))},
			},
			wantErr:       scheduler.ErrInvalidBlock,
			wantConflicts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scheduler.Schedule(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var cfgErr *scheduler.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigurationError, got %T", err)
			}
			if len(cfgErr.Conflicts) != tt.wantConflicts {
				t.Errorf("expected %d conflicts, got %v", tt.wantConflicts, cfgErr.Conflicts)
			}
		})
	}
}

func TestSchedule_AdjacentAndOutsideBlocks(t *testing.T) {
	tl, err := scheduler.Schedule(scheduler.Request{
		Now:     at(0, 0),
		Horizon: model.Interval{Start: at(9, 0), End: at(12, 0)},
		Blocked: []model.BlockedPeriod{
			block("Sleep", at(0, 0), at(7, 0)),
			block("Morning", at(8, 30), at(9, 30)),
			block("Meeting", at(9, 30), at(10, 0)),
			block("Evening", at(11, 30), at(13, 0)),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []seg{
		{model.SegmentBlocked, at(9, 0), at(9, 30), "Morning"},
		{model.SegmentBlocked, at(9, 30), at(10, 0), "Meeting"},
		{model.SegmentEmpty, at(10, 0), at(11, 30), ""},
		{model.SegmentBlocked, at(11, 30), at(12, 0), "Evening"},
	}
	if got := flatten(tl); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected timeline:\n got %v\nwant %v", got, want)
	}
}

func TestSchedule_CoverageAndDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		var tasks []model.Task
		for i := 0; i < 1+rng.Intn(12); i++ {
			tk := task(fmt.Sprintf("t%d", i), i, time.Duration(5+rng.Intn(180))*time.Minute)
			if rng.Intn(2) == 0 {
				tk.UserDeadline = ptr(at(rng.Intn(24), 0))
			}
			tasks = append(tasks, tk)
		}

		var blocks []model.BlockedPeriod
		cursor := rng.Intn(120)
		for cursor < 24*60 {
			length := 15 + rng.Intn(90)
			end := min(cursor+length, 24*60)
			blocks = append(blocks, block(fmt.Sprintf("b%d", cursor), at(0, cursor), at(0, end)))
			cursor = end + rng.Intn(240)
		}

		req := scheduler.Request{
			Now:     at(rng.Intn(24), rng.Intn(60)),
			Horizon: model.Interval{Start: at(0, 0), End: at(24, 0)},
			Tasks:   tasks,
			Blocked: blocks,
		}

		first, err := scheduler.Schedule(req)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		second, _ := scheduler.Schedule(req)
		if !reflect.DeepEqual(flatten(first), flatten(second)) || len(first.Unscheduled) != len(second.Unscheduled) {
			t.Fatalf("run %d: schedule is not deterministic", run)
		}

		cur := req.Horizon.Start
		placed := 0
		for _, s := range first.Segments {
			if !s.Start.Equal(cur) || !s.End.After(s.Start) {
				t.Fatalf("run %d: gap or empty segment at %v", run, s.Start)
			}
			if s.Kind == model.SegmentTask {
				placed++
				if s.Start.Before(req.Now) {
					t.Fatalf("run %d: task %s placed in the past", run, s.Task.ID)
				}
				if s.Duration() != s.Task.Duration {
					t.Fatalf("run %d: task %s was split", run, s.Task.ID)
				}
			}
			cur = s.End
		}
		if !cur.Equal(req.Horizon.End) {
			t.Fatalf("run %d: timeline ends at %v", run, cur)
		}
		if placed+len(first.Unscheduled) != len(tasks) {
			t.Fatalf("run %d: %d placed + %d unscheduled != %d tasks", run, placed, len(first.Unscheduled), len(tasks))
		}
	}
}
