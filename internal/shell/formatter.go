package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"chronix/internal/checklist"
	"chronix/internal/model"
	"chronix/internal/task"
)

// Formatter renders use-case results as terminal text. Colors are only
// emitted when the writer is a terminal.
type Formatter struct {
	w   io.Writer
	loc *time.Location

	dim    lipgloss.Style
	bold   lipgloss.Style
	accent lipgloss.Style
	id     lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	italic lipgloss.Style
	kinds  map[model.BlockKind]lipgloss.Style
}

// NewFormatter creates a formatter writing to w; times are shown in loc.
func NewFormatter(w io.Writer, loc *time.Location) *Formatter {
	return newFormatter(w, loc, lipgloss.NewRenderer(w))
}

func newFormatter(w io.Writer, loc *time.Location, r *lipgloss.Renderer) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{
		w:      w,
		loc:    loc,
		dim:    r.NewStyle().Faint(true),
		bold:   r.NewStyle().Bold(true),
		accent: r.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		id:     r.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		italic: r.NewStyle().Faint(true).Italic(true),
		kinds: map[model.BlockKind]lipgloss.Style{
			model.BlockBreak:   r.NewStyle().Foreground(lipgloss.Color("#F7B801")).Faint(true),
			model.BlockSleep:   r.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Faint(true),
			model.BlockMeeting: r.NewStyle().Foreground(lipgloss.Color("#C678DD")).Faint(true),
		},
	}
}

func (f *Formatter) println(a ...any) {
	fmt.Fprintln(f.w, a...)
}

func (f *Formatter) printf(format string, a ...any) {
	fmt.Fprintf(f.w, format, a...)
}

// FormatDuration renders 1h 30m style durations; negative values read "overdue".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "overdue"
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

func (f *Formatter) clock(t time.Time) string {
	return t.In(f.loc).Format("15:04")
}

func (f *Formatter) stamp(t time.Time) string {
	return t.In(f.loc).Format("2006-01-02 15:04")
}

func (f *Formatter) Error(err error) {
	var pe *checklist.ParseError
	if errors.As(err, &pe) {
		f.printf("%s %s\n", f.bad.Render("Error:"), pe.Error())
		return
	}
	f.printf("%s %v\n", f.bad.Render("Error:"), err)
}

func (f *Formatter) Warning(msg string) { f.printf("%s  %s\n", f.warn.Render("⚠️"), msg) }
func (f *Formatter) Success(msg string) { f.printf("%s %s\n", f.ok.Render("✓"), msg) }
func (f *Formatter) Info(msg string)    { f.printf("%s  %s\n", f.accent.Render("ℹ"), msg) }

// SyncSummary prints per-document results, counts and diagnostics.
func (f *Formatter) SyncSummary(out task.SyncOutput) {
	for _, p := range out.Summary.PerProject {
		f.printf("  %s %s: %s tasks\n", f.ok.Render("✓"), f.bold.Render(p.Project.Name), f.accent.Render(fmt.Sprint(p.Stats.Total)))
	}
	for _, fl := range out.Failures {
		f.printf("  %s Failed to fetch %s %s: %v\n", f.bad.Render("✗"), fl.Document.Source, fl.Document.ID, fl.Err)
	}

	f.println()
	f.Success(f.ok.Render("Sync complete!"))
	f.println()
	f.Summary(out.Summary)

	if len(out.Errors) > 0 {
		f.println()
		f.println(f.warn.Render(fmt.Sprintf("⚠️  %d task line(s) could not be parsed:", len(out.Errors))))
		for i := range out.Errors {
			f.printf("   %s %s\n", f.warn.Render("•"), out.Errors[i].Error())
		}
	}
	if len(out.Notices) > 0 {
		f.println()
		for _, n := range out.Notices {
			f.Info(n.Message)
		}
	}
}

// Summary prints the corpus counts.
func (f *Formatter) Summary(s task.Summary) {
	rows := []struct {
		label string
		value int
	}{
		{"Projects", s.Projects},
		{"Total tasks", s.Total},
		{"Incomplete", s.Incomplete},
		{"Completed", s.Completed},
	}
	for _, r := range rows {
		f.printf("  %-12s %s\n", f.dim.Render(r.label), f.accent.Render(fmt.Sprint(r.value)))
	}
	if !s.SyncedAt.IsZero() {
		f.printf("  %-12s %s\n", f.dim.Render("Last sync"), f.stamp(s.SyncedAt))
	}
}

// Timeline prints a numbered schedule followed by conflicts and unscheduled tasks.
func (f *Formatter) Timeline(tl model.Timeline) {
	f.println()
	f.println("📅 " + f.bold.Render("Schedule for "+tl.Day.In(f.loc).Format("Monday, 2006-01-02")))
	f.printf("   Work hours: %s %s\n",
		f.accent.Render(f.clock(tl.Horizon.Start)+" – "+f.clock(tl.Horizon.End)),
		f.dim.Render("("+f.loc.String()+")"))
	f.println()

	var work time.Duration
	for i, s := range tl.Segments {
		span := f.clock(s.Start) + " – " + f.clock(s.End)
		switch s.Kind {
		case model.SegmentTask:
			work += s.Duration()
			f.taskSegment(i+1, span, s)
		case model.SegmentBlocked:
			f.blockedSegment(i+1, span, s)
		default:
			f.printf("%s %s  %s\n", f.dim.Render(fmt.Sprintf("%2d.", i+1)), f.dim.Render(span), f.italic.Render("(empty)"))
		}
	}

	f.println()
	footer := fmt.Sprintf("%s%s  •  %s%s",
		f.dim.Render("Total work time: "), f.bold.Render(FormatDuration(work)),
		f.dim.Render("Tasks scheduled: "), f.bold.Render(fmt.Sprint(tl.ScheduledCount())))
	if n := len(tl.Conflicts); n > 0 {
		footer += fmt.Sprintf("  •  %s%s", f.warn.Render("⚠️ Conflicts: "), f.warn.Render(fmt.Sprint(n)))
	}
	f.println(footer)

	if len(tl.Conflicts) > 0 {
		f.println()
		f.println(f.warn.Render("⚠️  Deadline conflicts:"))
		for _, c := range tl.Conflicts {
			f.printf("   %s %s\n", f.warn.Render("•"), c.String())
		}
	}

	if len(tl.Unscheduled) > 0 {
		f.println()
		f.println(f.bold.Render(fmt.Sprintf("Unscheduled (%d):", len(tl.Unscheduled))))
		for _, u := range tl.Unscheduled {
			f.printf("   %s %s %s %s\n", f.dim.Render("•"), u.Task.Title,
				f.id.Render("["+u.Task.ID+"]"), f.dim.Render(FormatDuration(u.Task.Duration)+", "+u.Reason))
		}
	}
	f.println()
}

func (f *Formatter) taskSegment(n int, span string, s model.Segment) {
	t := s.Task
	var marks []string
	if s.LateForUser {
		marks = append(marks, "⚠️")
	}
	if s.LateForExternal {
		marks = append(marks, "🔴")
	}

	line := fmt.Sprintf("%s %s  📋 %s", f.dim.Render(fmt.Sprintf("%2d.", n)), f.accent.Render(span), f.bold.Render(t.Title))
	if len(marks) > 0 {
		line += " " + strings.Join(marks, " ")
	}
	f.println(line)

	if o := origin(*t); o != "" {
		f.printf("    %s\n", f.dim.Render(o))
	}
	f.printf("    %s %s %s %s %s\n", f.dim.Render("Duration:"), FormatDuration(t.Duration),
		f.dim.Render("|"), f.dim.Render("ID:"), f.id.Render(t.ID))

	deadline, which := t.UserDeadline, "User"
	if deadline == nil {
		deadline, which = t.ExternalDeadline, "External"
	}
	if deadline != nil {
		value := f.stamp(*deadline)
		if len(marks) > 0 {
			value = f.bad.Render(value)
		}
		f.printf("    %s %s\n", f.dim.Render(which+" deadline:"), value)
	}
}

func (f *Formatter) blockedSegment(n int, span string, s model.Segment) {
	b := s.Block
	label, kind := "blocked", model.BlockOther
	if b != nil {
		label, kind = b.DisplayLabel(), b.Kind
	}
	emoji := map[model.BlockKind]string{
		model.BlockBreak:   "☕",
		model.BlockSleep:   "😴",
		model.BlockMeeting: "📅",
	}[kind]
	if emoji == "" {
		emoji = "🚫"
	}
	style, ok := f.kinds[kind]
	if !ok {
		style = f.dim
	}
	f.printf("%s %s  %s %s\n", f.dim.Render(fmt.Sprintf("%2d.", n)), f.dim.Render(span), emoji, style.Render(label))
}

func origin(t model.Task) string {
	var parts []string
	if t.Project != "" {
		parts = append(parts, "["+t.Project+"]")
	}
	if t.Tab != "" {
		parts = append(parts, "• "+t.Tab)
	}
	if t.Heading != "" {
		parts = append(parts, "› "+t.Heading)
	}
	return strings.Join(parts, " ")
}

// Tasks prints one line per task.
func (f *Formatter) Tasks(tasks []model.Task) {
	if len(tasks) == 0 {
		f.Info("No tasks.")
		return
	}
	for _, t := range tasks {
		box := "[ ]"
		if t.Completed {
			box = f.ok.Render("[x]")
		}
		line := fmt.Sprintf("%s %s  %s  %s", box, f.id.Render(t.ID), t.Title, f.dim.Render(FormatDuration(t.Duration)))
		if d := t.EffectiveDeadline(); d != nil {
			line += "  " + f.dim.Render("due "+f.stamp(*d))
		}
		if o := origin(t); o != "" {
			line += "  " + f.dim.Render(o)
		}
		f.println(line)
	}
	f.println()
	f.println(f.dim.Render(fmt.Sprintf("%d task(s)", len(tasks))))
}

// Explain prints a task's details and its place in today's schedule.
func (f *Formatter) Explain(out task.ExplainOutput) {
	t := out.Task
	f.println()
	f.printf("📝 %s %s\n", f.dim.Render("Task:"), f.bold.Render(t.Title))
	f.printf("   %s %s\n", f.dim.Render("ID:"), f.id.Render(t.ID))
	f.println()

	f.println(f.bold.Render("📂 Origin"))
	f.printf("   %s %s\n", f.dim.Render("Project:"), out.Project.Name)
	if t.Tab != "" {
		f.printf("   %s %s\n", f.dim.Render("Tab:"), t.Tab)
	}
	if t.Heading != "" {
		f.printf("   %s %s\n", f.dim.Render("Heading:"), t.Heading)
	}
	f.printf("   %s %s\n", f.dim.Render("Source:"), out.Project.Source)
	if out.Project.DocumentID != "" {
		f.printf("   %s %s\n", f.dim.Render("Document:"), f.accent.Render(out.Project.DocumentID))
	}
	f.printf("   %s %d\n", f.dim.Render("Position:"), t.Source.Position)
	f.println()

	f.println(f.bold.Render("⏱️  Duration & Deadlines"))
	f.printf("   %s %s\n", f.dim.Render("Estimated duration:"), FormatDuration(t.Duration))
	f.deadlineLine("User deadline:", t.UserDeadline)
	f.deadlineLine("External deadline:", t.ExternalDeadline)
	if d := t.EffectiveDeadline(); d != nil {
		f.printf("   %s %s\n", f.dim.Render("Effective deadline:"), f.bold.Render(f.stamp(*d)))
	}
	f.println()

	f.println(f.bold.Render("📊 Status"))
	status := f.dim.Render("No")
	if t.Completed {
		status = f.ok.Render("✓ Yes")
	}
	f.printf("   %s %s\n", f.dim.Render("Completed:"), status)
	f.println()

	if t.Completed {
		return
	}

	f.println(f.bold.Render("📍 Scheduling Position"))
	f.printf("   %s %s %s %d\n", f.dim.Render("Position in queue:"), f.accent.Render(fmt.Sprint(out.QueuePosition)), f.dim.Render("of"), out.QueueLength)
	switch {
	case out.Segment != nil:
		f.printf("   %s %s – %s\n", f.dim.Render("Today:"), f.clock(out.Segment.Start), f.clock(out.Segment.End))
	case out.Unscheduled != nil:
		f.printf("   %s %s\n", f.dim.Render("Today:"), f.warn.Render("not scheduled, "+out.Unscheduled.Reason))
	}
	for _, c := range out.Conflicts {
		f.printf("   %s %s\n", f.warn.Render("⚠️"), c.String())
	}
	f.println()
}

func (f *Formatter) deadlineLine(label string, d *time.Time) {
	if d == nil {
		f.printf("   %s %s\n", f.dim.Render(label), f.italic.Render("Not set"))
		return
	}
	f.printf("   %s %s\n", f.dim.Render(label), d.In(f.loc).Format("2006-01-02 15:04 MST"))
}
