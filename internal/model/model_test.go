package model_test

import (
	"testing"
	"time"

	"chronix/internal/model"
)

func ts(h, m int) time.Time {
	return time.Date(2026, 1, 19, h, m, 0, 0, time.UTC)
}

func TestTask_EffectiveDeadline(t *testing.T) {
	early, late := ts(9, 0), ts(17, 0)

	tcs := map[string]struct {
		user, external *time.Time
		want           *time.Time
	}{
		"None":          {},
		"UserOnly":      {user: &late, want: &late},
		"ExternalOnly":  {external: &early, want: &early},
		"UserEarlier":   {user: &early, external: &late, want: &early},
		"ExternalFirst": {user: &late, external: &early, want: &early},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got := model.Task{UserDeadline: tc.user, ExternalDeadline: tc.external}.EffectiveDeadline()
			switch {
			case tc.want == nil && got != nil:
				t.Errorf("expected nil, got %v", *got)
			case tc.want != nil && (got == nil || !got.Equal(*tc.want)):
				t.Errorf("got %v, want %v", got, *tc.want)
			}
		})
	}
}

func TestTask_IsOverdue(t *testing.T) {
	d := ts(12, 0)
	tk := model.Task{UserDeadline: &d}

	if tk.IsOverdue(ts(11, 59)) {
		t.Errorf("not overdue before the deadline")
	}
	if !tk.IsOverdue(ts(12, 0)) {
		t.Errorf("overdue at the deadline")
	}
	if (model.Task{}).IsOverdue(ts(23, 0)) {
		t.Errorf("a task without deadlines is never overdue")
	}
}

func TestInterval_Clip(t *testing.T) {
	bounds := model.Interval{Start: ts(9, 0), End: ts(17, 0)}

	tcs := map[string]struct {
		in     model.Interval
		want   model.Interval
		wantOK bool
	}{
		"Inside":  {in: model.Interval{Start: ts(10, 0), End: ts(11, 0)}, want: model.Interval{Start: ts(10, 0), End: ts(11, 0)}, wantOK: true},
		"Leading": {in: model.Interval{Start: ts(7, 0), End: ts(10, 0)}, want: model.Interval{Start: ts(9, 0), End: ts(10, 0)}, wantOK: true},
		"Outside": {in: model.Interval{Start: ts(17, 0), End: ts(18, 0)}, wantOK: false},
		"Spans":   {in: model.Interval{Start: ts(0, 0), End: ts(23, 0)}, want: bounds, wantOK: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			got, ok := tc.in.Clip(bounds)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestTimeline_FindTask(t *testing.T) {
	a := model.Task{ID: "aaaa1111", Duration: time.Hour}
	tl := model.Timeline{Segments: []model.Segment{
		{Kind: model.SegmentEmpty, Start: ts(8, 0), End: ts(9, 0)},
		{Kind: model.SegmentTask, Start: ts(9, 0), End: ts(10, 0), Task: &a},
		{Kind: model.SegmentBlocked, Start: ts(10, 0), End: ts(11, 0), Block: &model.BlockedPeriod{Kind: model.BlockBreak}},
	}}

	seg, ok := tl.FindTask("aaaa1111")
	if !ok || !seg.Start.Equal(ts(9, 0)) || seg.Duration() != time.Hour {
		t.Errorf("FindTask = %+v, %v", seg, ok)
	}
	if _, ok := tl.FindTask("missing"); ok {
		t.Errorf("unexpected match")
	}
	if n := tl.ScheduledCount(); n != 1 {
		t.Errorf("ScheduledCount = %d, want 1", n)
	}
}

func TestBlockedPeriod_DisplayLabel(t *testing.T) {
	if got := (model.BlockedPeriod{Kind: model.BlockSleep}).DisplayLabel(); got != "sleep" {
		t.Errorf("got %q", got)
	}
	b := model.BlockedPeriod{Start: ts(12, 0), End: ts(13, 0), Kind: model.BlockBreak, Label: "Lunch"}
	if got := b.String(); got != "Lunch 12:00-13:00" {
		t.Errorf("got %q", got)
	}
}

func TestParagraph_Text(t *testing.T) {
	p := model.Paragraph{Runs: []model.TextRun{
		{Content: "  Write "},
		{Content: "draft ", Suggested: true},
		{Content: "report\n"},
	}}
	if got := p.Text(); got != "Write report" {
		t.Errorf("Text() = %q", got)
	}
}
