// Package board renders the task board in the terminal, either as a static
// three-column view or as an interactive bubbletea program.
package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/fyrsmithlabs/taskwave/internal/tracker"
)

const (
	minColumnWidth     = 20
	defaultColumnWidth = 36
)

// Snapshot is the board state fetched from the server.
type Snapshot struct {
	Tasks  []task.Task
	Status tracker.Status
}

// Columns splits tasks into the three board columns. The server only knows
// active and completed, so the active tasks of the current group are shown as
// in progress and any other active task as to-do. Each column is ordered by
// (group, section).
func Columns(tasks []task.Task, currentGroup int) (todo, inProgress, completed []task.Task) {
	for _, t := range tasks {
		switch {
		case t.Completed:
			completed = append(completed, t)
		case t.Group == currentGroup:
			inProgress = append(inProgress, t)
		default:
			todo = append(todo, t)
		}
	}
	return task.SortByGroupSection(todo), task.SortByGroupSection(inProgress), task.SortByGroupSection(completed)
}

// Render draws the static board. width is the terminal width; 0 uses a
// default column width.
func Render(snap Snapshot, width int) string {
	colWidth := columnWidth(width)
	todo, inProgress, completed := Columns(snap.Tasks, snap.Status.CurrentGroup)

	board := lipgloss.JoinHorizontal(lipgloss.Top,
		renderColumn("To-Do", todo, colWidth, -1),
		renderColumn("In Progress", inProgress, colWidth, -1),
		renderColumn("Completed", completed, colWidth, -1),
	)
	return renderHeader(snap.Status) + "\n" + board + "\n"
}

func columnWidth(width int) int {
	if width <= 0 {
		return defaultColumnWidth
	}
	// Three columns, each with a border and padding of 2 cells per side.
	w := width/3 - 4
	if w < minColumnWidth {
		return minColumnWidth
	}
	return w
}

func renderHeader(st tracker.Status) string {
	return headerStyle.Render(" taskwave ") + "  " +
		labelStyle.Render("Progress: ") + valueStyle.Render(FormatProgress(st.Completed, st.Total)) + "  " +
		labelStyle.Render("Current: ") + valueStyle.Render(FormatGroup(st.CurrentGroup))
}

// renderColumn draws one column; selected is the row to highlight or -1.
func renderColumn(title string, tasks []task.Task, width, selected int) string {
	var b strings.Builder
	b.WriteString(columnTitleStyle.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
	b.WriteString("\n")
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("nothing here"))
	}
	for i, t := range tasks {
		line := truncate(FormatTask(t), width-2)
		switch {
		case i == selected:
			line = selectedStyle.Render(line)
		case t.Completed:
			line = doneStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(tasks)-1 {
			b.WriteString("\n")
		}
	}
	return columnStyle.Width(width).Render(b.String())
}
