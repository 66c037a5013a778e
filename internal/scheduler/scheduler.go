package scheduler

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"chronix/internal/model"
)

// Schedule places the incomplete tasks of req into the free time of its horizon.
//
// Tasks are taken in priority order and each goes into the earliest free window
// that can hold it whole. The result covers the horizon exactly with task,
// blocked and empty segments. Invalid horizons or overlapping blocked periods
// yield a *ConfigurationError and no timeline.
func Schedule(req Request) (model.Timeline, error) {
	policy, err := ParseOverduePolicy(string(req.Policy))
	if err != nil {
		return model.Timeline{}, &ConfigurationError{Err: err, Conflicts: []string{string(req.Policy)}}
	}
	if !req.Horizon.Valid() {
		return model.Timeline{}, &ConfigurationError{
			Err:       ErrInvalidHorizon,
			Conflicts: []string{fmt.Sprintf("%s-%s", stamp(req.Horizon.Start), stamp(req.Horizon.End))},
		}
	}

	blocks, err := prepareBlocks(req.Blocked, req.Horizon)
	if err != nil {
		return model.Timeline{}, err
	}

	windows := freeWindows(req.Horizon, blocks, req.Now)
	tl := model.Timeline{
		Day:     req.Horizon.Start,
		Now:     req.Now,
		Horizon: req.Horizon,
	}

	for _, t := range prioritize(req.Tasks, req.Now, policy) {
		if t.Duration <= 0 {
			tl.Unscheduled = append(tl.Unscheduled, model.UnscheduledTask{Task: t, Reason: ReasonBadDuration})
			continue
		}
		seg, ok := place(windows, t)
		if !ok {
			tl.Unscheduled = append(tl.Unscheduled, model.UnscheduledTask{Task: t, Reason: unplacedReason(windows)})
			continue
		}
		if seg.LateForExternal {
			tl.Conflicts = append(tl.Conflicts, model.DeadlineConflict{Task: t, End: seg.End, Deadline: *t.ExternalDeadline, External: true})
		}
		if seg.LateForUser {
			tl.Conflicts = append(tl.Conflicts, model.DeadlineConflict{Task: t, End: seg.End, Deadline: *t.UserDeadline})
		}
	}

	tl.Segments = assemble(blocks, windows)
	if err := verifyCoverage(tl.Segments, req.Horizon); err != nil {
		return model.Timeline{}, err
	}
	return tl, nil
}

// prepareBlocks validates the blocked periods and clips them to the horizon.
func prepareBlocks(in []model.BlockedPeriod, horizon model.Interval) ([]model.BlockedPeriod, error) {
	var invalid []string
	for _, b := range in {
		if !b.Interval().Valid() {
			invalid = append(invalid, describe(b))
		}
	}
	if len(invalid) > 0 {
		return nil, &ConfigurationError{Err: ErrInvalidBlock, Conflicts: invalid}
	}

	sorted := slices.Clone(in)
	slices.SortStableFunc(sorted, func(a, b model.BlockedPeriod) int {
		return a.Start.Compare(b.Start)
	})

	var overlaps []string
	for i := range sorted {
		for j := i + 1; j < len(sorted) && sorted[j].Start.Before(sorted[i].End); j++ {
			overlaps = append(overlaps, fmt.Sprintf("%s overlaps %s", describe(sorted[i]), describe(sorted[j])))
		}
	}
	if len(overlaps) > 0 {
		return nil, &ConfigurationError{Err: ErrOverlappingBlocks, Conflicts: overlaps}
	}

	out := make([]model.BlockedPeriod, 0, len(sorted))
	for _, b := range sorted {
		iv, ok := b.Interval().Clip(horizon)
		if !ok {
			continue
		}
		b.Start, b.End = iv.Start, iv.End
		out = append(out, b)
	}
	return out, nil
}

// freeWindows returns the gaps between blocks. Each window's cursor starts at
// now when now falls inside or after it.
func freeWindows(horizon model.Interval, blocks []model.BlockedPeriod, now time.Time) []*window {
	var out []*window
	add := func(start, end time.Time) {
		if !end.After(start) {
			return
		}
		w := &window{Interval: model.Interval{Start: start, End: end}, cursor: start}
		if now.After(w.cursor) {
			w.cursor = now
		}
		if w.cursor.After(end) {
			w.cursor = end
		}
		out = append(out, w)
	}

	cursor := horizon.Start
	for _, b := range blocks {
		add(cursor, b.Start)
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	add(cursor, horizon.End)
	return out
}

// prioritize returns the incomplete tasks in placement order.
func prioritize(tasks []model.Task, now time.Time, policy OverduePolicy) []model.Task {
	queue := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			queue = append(queue, t)
		}
	}

	group := func(t model.Task) int {
		d := t.EffectiveDeadline()
		switch {
		case d == nil:
			return 1
		case policy == OverdueDefer && !d.After(now):
			return 2
		default:
			return 0
		}
	}

	slices.SortStableFunc(queue, func(a, b model.Task) int {
		if c := cmp.Compare(group(a), group(b)); c != 0 {
			return c
		}
		da, db := a.EffectiveDeadline(), b.EffectiveDeadline()
		if da != nil && db != nil {
			if c := da.Compare(*db); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(a.Provenance, b.Provenance); c != 0 {
			return c
		}
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return queue
}

// Prioritize exposes the placement order, e.g. for queue positions.
func Prioritize(tasks []model.Task, now time.Time, policy OverduePolicy) []model.Task {
	if p, err := ParseOverduePolicy(string(policy)); err == nil {
		policy = p
	}
	return prioritize(tasks, now, policy)
}

// place puts t into the first window with enough room left.
func place(windows []*window, t model.Task) (model.Segment, bool) {
	for _, w := range windows {
		if w.remaining() < t.Duration {
			continue
		}
		task := t
		seg := model.Segment{
			Kind:  model.SegmentTask,
			Start: w.cursor,
			End:   w.cursor.Add(t.Duration),
			Task:  &task,
		}
		seg.LateForUser = t.UserDeadline != nil && seg.End.After(*t.UserDeadline)
		seg.LateForExternal = t.ExternalDeadline != nil && seg.End.After(*t.ExternalDeadline)

		w.placed = append(w.placed, seg)
		w.cursor = seg.End
		return seg, true
	}
	return model.Segment{}, false
}

func unplacedReason(windows []*window) string {
	for _, w := range windows {
		if w.remaining() > 0 {
			return ReasonNoWindow
		}
	}
	return ReasonPast
}

// assemble merges blocks, placed tasks and the leftover gaps into one sorted list.
func assemble(blocks []model.BlockedPeriod, windows []*window) []model.Segment {
	var segs []model.Segment
	for i := range blocks {
		b := blocks[i]
		segs = append(segs, model.Segment{Kind: model.SegmentBlocked, Start: b.Start, End: b.End, Block: &b})
	}

	for _, w := range windows {
		cur := w.Start
		for _, p := range w.placed {
			if p.Start.After(cur) {
				segs = append(segs, model.Segment{Kind: model.SegmentEmpty, Start: cur, End: p.Start})
			}
			segs = append(segs, p)
			cur = p.End
		}
		if w.End.After(cur) {
			segs = append(segs, model.Segment{Kind: model.SegmentEmpty, Start: cur, End: w.End})
		}
	}

	slices.SortStableFunc(segs, func(a, b model.Segment) int {
		return a.Start.Compare(b.Start)
	})
	return segs
}

func verifyCoverage(segs []model.Segment, horizon model.Interval) error {
	cur := horizon.Start
	for _, s := range segs {
		if !s.Start.Equal(cur) || !s.End.After(s.Start) {
			return fmt.Errorf("%w at %s", ErrTimelineGap, stamp(cur))
		}
		cur = s.End
	}
	if !cur.Equal(horizon.End) {
		return fmt.Errorf("%w at %s", ErrTimelineGap, stamp(cur))
	}
	return nil
}

func describe(b model.BlockedPeriod) string {
	return fmt.Sprintf("%s (%s-%s)", b.DisplayLabel(), stamp(b.Start), stamp(b.End))
}

func stamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
