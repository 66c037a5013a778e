package scheduler

import (
	"slices"
	"strings"
	"time"

	"chronix/internal/model"
	"chronix/pkg/datemath"
)

// ExpandBlocks materializes the recurring blocks that apply on day.
// A block spanning midnight contributes its morning part when it started the
// previous day and its evening part when it starts on day.
func ExpandBlocks(day time.Time, p *datemath.Parser, blocks []RecurringBlock) []model.BlockedPeriod {
	start := p.StartOfDay(day)
	yesterday := start.AddDate(0, 0, -1).Weekday()

	var out []model.BlockedPeriod
	for _, rb := range blocks {
		period := func(from, to datemath.Clock) model.BlockedPeriod {
			return model.BlockedPeriod{Start: p.At(start, from), End: p.At(start, to), Kind: rb.Kind, Label: rb.Label}
		}

		if rb.Start.Before(rb.End) {
			if appliesOn(rb, start.Weekday()) {
				out = append(out, period(rb.Start, rb.End))
			}
			continue
		}

		if rb.End.Minutes() > 0 && appliesOn(rb, yesterday) {
			out = append(out, period(datemath.Clock{}, rb.End))
		}
		if appliesOn(rb, start.Weekday()) {
			out = append(out, period(rb.Start, datemath.Clock{Hour: 24}))
		}
	}

	slices.SortStableFunc(out, func(a, b model.BlockedPeriod) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

func appliesOn(rb RecurringBlock, d time.Weekday) bool {
	return len(rb.Days) == 0 || slices.Contains(rb.Days, d)
}

// MergeImported adds blocks from an external calendar to the configured ones.
// Imported blocks are unioned with each other and cut around configured
// blocks, so the result never overlaps as long as configured is valid.
func MergeImported(configured, imported []model.BlockedPeriod) []model.BlockedPeriod {
	var valid []model.BlockedPeriod
	for _, b := range imported {
		if b.Interval().Valid() {
			valid = append(valid, b)
		}
	}
	slices.SortStableFunc(valid, func(a, b model.BlockedPeriod) int {
		return a.Start.Compare(b.Start)
	})

	var merged []model.BlockedPeriod
	for _, b := range valid {
		if n := len(merged); n > 0 && b.Start.Before(merged[n-1].End) {
			last := &merged[n-1]
			if b.End.After(last.End) {
				last.End = b.End
			}
			if b.Label != "" && !strings.Contains(last.Label, b.Label) {
				last.Label = strings.TrimPrefix(last.Label+", "+b.Label, ", ")
			}
			continue
		}
		merged = append(merged, b)
	}

	out := slices.Clone(configured)
	for _, b := range merged {
		out = append(out, subtract(b, configured)...)
	}
	slices.SortStableFunc(out, func(a, b model.BlockedPeriod) int {
		return a.Start.Compare(b.Start)
	})
	return out
}

// subtract returns the parts of b not covered by any of cut.
func subtract(b model.BlockedPeriod, cut []model.BlockedPeriod) []model.BlockedPeriod {
	pieces := []model.BlockedPeriod{b}
	for _, c := range cut {
		var next []model.BlockedPeriod
		for _, p := range pieces {
			if !p.Interval().Overlaps(c.Interval()) {
				next = append(next, p)
				continue
			}
			if p.Start.Before(c.Start) {
				left := p
				left.End = c.Start
				next = append(next, left)
			}
			if p.End.After(c.End) {
				right := p
				right.Start = c.End
				next = append(next, right)
			}
		}
		pieces = next
	}
	return pieces
}
