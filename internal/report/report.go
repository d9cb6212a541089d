// Package report renders pipeline plans and results for terminal output.
package report

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pathweaver/pathweaver/internal/curriculum"
	"github.com/pathweaver/pathweaver/internal/pipeline"
	"github.com/pathweaver/pathweaver/internal/selector"
	"github.com/pathweaver/pathweaver/internal/sprint"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8B5CF6"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#22C55E"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F97316"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F43F5E"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8"))
)

// Plan renders a selection result and its sprint breakdown.
func Plan(inst *curriculum.Instance, sel *selector.Result, sprints []sprint.Sprint) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Learning plan"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d activities, %.1f minutes total\n",
		len(sel.ActivityIDs), sel.TotalDuration)
	if sel.Suboptimal {
		b.WriteString(warnStyle.Render("solver hit its time budget; plan may not be minimal"))
		b.WriteString("\n")
	}
	for i, sp := range sprints {
		minutes := 0.0
		lessonSet := make(map[string]bool)
		for _, id := range sp.Activities {
			if a, ok := inst.Activity(id); ok {
				minutes += a.Duration
				for _, l := range a.Lessons() {
					lessonSet[l] = true
				}
			}
		}
		lessons := make([]string, 0, len(lessonSet))
		for l := range lessonSet {
			lessons = append(lessons, l)
		}
		sort.Strings(lessons)

		fmt.Fprintf(&b, "\nSprint %d — %d activities, %.1f min\n", i+1, len(sp.Activities), minutes)
		b.WriteString(dimStyle.Render("  covers: " + strings.Join(lessons, ", ")))
		b.WriteString("\n")
		for _, id := range sp.Activities {
			if a, ok := inst.Activity(id); ok {
				fmt.Fprintf(&b, "  - %s: %s (%s, %.1f min)\n", a.ID, a.Type, a.Difficulty, a.Duration)
			}
		}
	}
	return b.String()
}

// Run renders a finished pipeline result.
func Run(res *pipeline.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Run " + res.RunID))
	b.WriteString("\n")

	switch res.Status {
	case pipeline.StatusDone:
		b.WriteString(okStyle.Render("status: done — all thresholds met"))
	case pipeline.StatusInfeasible:
		b.WriteString(errStyle.Render("status: infeasible"))
		if len(res.Diagnostics.UnreachableLessons) > 0 {
			b.WriteString(errStyle.Render(
				"\nunreachable lessons: " + strings.Join(res.Diagnostics.UnreachableLessons, ", ")))
		}
		if res.Diagnostics.Stalled {
			b.WriteString(errStyle.Render("\nrun stalled: an iteration made no progress"))
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%d sprints consumed, %.1f minutes of study\n",
		len(res.SprintsConsumed), res.TotalDuration)
	if res.Diagnostics.SuboptimalSelections > 0 {
		fmt.Fprintf(&b, "%s\n", warnStyle.Render(
			fmt.Sprintf("%d selection(s) hit the solver time budget", res.Diagnostics.SuboptimalSelections)))
	}

	for _, cs := range res.SprintsConsumed {
		fmt.Fprintf(&b, "\nSprint %d — %d activities, %.1f min\n",
			cs.Index+1, len(cs.Activities), cs.Duration)
		for _, id := range cs.Activities {
			perf := cs.Performance[id]
			fmt.Fprintf(&b, "  - %s (performance %.2f)\n", id, perf)
		}
	}

	b.WriteString("\n" + titleStyle.Render("Final mastery") + "\n")
	ids := make([]string, 0, len(res.FinalMastery))
	for id := range res.FinalMastery {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "  %-20s %s\n", id, bar(res.FinalMastery[id]))
	}
	return b.String()
}

// bar renders a 20-cell mastery bar with the numeric value.
func bar(frac float64) string {
	const width = 20
	filled := int(frac*width + 0.5)
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("%s%s %3.0f%%",
		okStyle.Render(strings.Repeat("█", filled)),
		dimStyle.Render(strings.Repeat("░", width-filled)),
		frac*100)
}
