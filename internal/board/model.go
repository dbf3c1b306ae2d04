package board

import (
	"context"
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fyrsmithlabs/taskwave/internal/client"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/fyrsmithlabs/taskwave/internal/tracker"
)

const (
	sparklineWidth  = 30
	sparklineHeight = 3
	historySize     = 30
	requestTimeout  = 5 * time.Second
)

// Source is the server API the interactive board needs. *client.Client
// satisfies it.
type Source interface {
	List(ctx context.Context, filter task.Filter) ([]task.Task, error)
	Status(ctx context.Context) (tracker.Status, error)
	CompleteByID(ctx context.Context, id int) (client.Completion, error)
	Delete(ctx context.Context, id int) (string, error)
}

// Model is the bubbletea model of the interactive board.
type Model struct {
	src        Source
	target     string
	interval   time.Duration
	width      int
	snap       Snapshot
	lastUpdate time.Time
	err        error
	notice     string
	quitting   bool
	cursor     int
	history    []float64

	keys     keyMap
	help     help.Model
	progress progress.Model
}

// NewModel creates a board polling src every interval. target names the
// server in error messages.
func NewModel(src Source, target string, interval time.Duration) Model {
	return Model{
		src:      src,
		target:   target,
		interval: interval,
		history:  make([]float64, 0, historySize),
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(
			progress.WithGradient("#00ffff", "#00ff00"),
			progress.WithWidth(40),
		),
	}
}

type tickMsg time.Time
type snapshotMsg Snapshot
type errMsg error

// actionMsg reports the outcome of a completion or delete.
type actionMsg string

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tick(m.interval),
		fetchSnapshot(m.src),
	)
}

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchSnapshot loads the task list and status.
func fetchSnapshot(src Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tasks, err := src.List(ctx, task.FilterAll)
		if err != nil {
			return errMsg(err)
		}
		st, err := src.Status(ctx)
		if err != nil {
			return errMsg(err)
		}
		return snapshotMsg{Tasks: tasks, Status: st}
	}
}

func completeTask(src Source, t task.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := src.CompleteByID(ctx, t.ID)
		if err != nil {
			return errMsg(err)
		}
		if res.Unlocked != nil {
			return actionMsg(fmt.Sprintf("Completed %q, unlocked %q", t.Title, res.Unlocked.Title))
		}
		return actionMsg(fmt.Sprintf("Completed %q", t.Title))
	}
}

func deleteTask(src Source, t task.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := src.Delete(ctx, t.ID); err != nil {
			return errMsg(err)
		}
		return actionMsg(fmt.Sprintf("Deleted %q", t.Title))
	}
}

// selectable lists the tasks the cursor moves over: in progress first, then
// to-do.
func (m Model) selectable() []task.Task {
	todo, inProgress, _ := Columns(m.snap.Tasks, m.snap.Status.CurrentGroup)
	return append(inProgress, todo...)
}

func (m Model) selected() (task.Task, bool) {
	items := m.selectable()
	if m.cursor < 0 || m.cursor >= len(items) {
		return task.Task{}, false
	}
	return items[m.cursor], true
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, tea.Batch(
			tick(m.interval),
			fetchSnapshot(m.src),
		)

	case snapshotMsg:
		m.snap = Snapshot(msg)
		m.history = appendToHistory(m.history, float64(m.snap.Status.Completed))
		m.lastUpdate = time.Now()
		m.err = nil
		if n := len(m.selectable()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, nil

	case actionMsg:
		m.notice = string(msg)
		return m, fetchSnapshot(m.src)

	case errMsg:
		m.err = error(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, fetchSnapshot(m.src)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.selectable())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Complete):
		if t, ok := m.selected(); ok {
			return m, completeTask(m.src, t)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m, deleteTask(m.src, t)
		}
	}
	return m, nil
}

// View renders the board
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return m.renderError()
	}
	return m.renderBoard()
}

func (m Model) renderError() string {
	var content string
	content += headerStyle.Render(" taskwave ") + "\n\n"
	content += errorStyle.Render("⚠ Cannot reach taskwave server") + "\n\n"
	content += dimStyle.Render("URL: ") + valueStyle.Render(m.target) + "\n"
	content += dimStyle.Render("Error: ") + errorStyle.Render(m.err.Error()) + "\n\n"
	content += m.help.View(m.keys)
	return containerStyle.Render(content)
}

func (m Model) renderBoard() string {
	st := m.snap.Status
	colWidth := columnWidth(m.width)
	todo, inProgress, completed := Columns(m.snap.Tasks, st.CurrentGroup)

	// The cursor runs over in-progress rows first, then to-do rows.
	inProgressSel, todoSel := -1, -1
	if m.cursor < len(inProgress) {
		inProgressSel = m.cursor
	} else {
		todoSel = m.cursor - len(inProgress)
	}

	lastUpdate := "Never"
	if !m.lastUpdate.IsZero() {
		lastUpdate = m.lastUpdate.Format("3:04:05 PM")
	}

	var content string
	content += renderHeader(st) + "   " + dimStyle.Render(lastUpdate) + "\n\n"
	content += labelStyle.Render("Completed: ") + m.progress.ViewAs(Ratio(st.Completed, st.Total)) +
		"   " + createSparkline(m.history) + "\n\n"
	content += lipgloss.JoinHorizontal(lipgloss.Top,
		renderColumn("To-Do", todo, colWidth, todoSel),
		renderColumn("In Progress", inProgress, colWidth, inProgressSel),
		renderColumn("Completed", completed, colWidth, -1),
	) + "\n"
	if m.notice != "" {
		content += noticeStyle.Render(m.notice) + "\n"
	}
	content += "\n" + m.help.View(m.keys)
	return content
}

// appendToHistory appends a value to history, maintaining max size
func appendToHistory(history []float64, value float64) []float64 {
	history = append(history, value)
	if len(history) > historySize {
		history = history[1:]
	}
	return history
}

// createSparkline charts the completed count across refreshes.
func createSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	spark.PushAll(data)
	spark.Draw()

	return sparklineStyle.Render(spark.View())
}
