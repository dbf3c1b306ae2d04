package board

import (
	"fmt"

	"github.com/fyrsmithlabs/taskwave/internal/task"
)

// FormatTask renders a task as "#id [g.s] title (persona)".
func FormatTask(t task.Task) string {
	s := fmt.Sprintf("#%d [%d.%d] %s", t.ID, t.Group, t.Section, t.Title)
	if t.Persona != "" {
		s += " (" + t.Persona + ")"
	}
	return s
}

// FormatProgress formats completed/total as "X/Y (Z%)".
func FormatProgress(completed, total int) string {
	return fmt.Sprintf("%d/%d (%s)", completed, total, FormatPercentage(Ratio(completed, total)))
}

// FormatPercentage formats a ratio (0-1) as percentage
func FormatPercentage(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// FormatGroup names a group, with 0 meaning every task is done.
func FormatGroup(g int) string {
	if g == 0 {
		return "all done"
	}
	return fmt.Sprintf("group %d", g)
}

// Ratio returns completed/total clamped to [0,1]; an empty board is 0.
func Ratio(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(completed) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}

// truncate shortens s to at most width runes, marking the cut with "…".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
