package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fyrsmithlabs/taskwave/internal/board"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	boardWidth  int
	tuiInterval time.Duration
)

func init() {
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(tuiCmd)

	boardCmd.Flags().IntVar(&boardWidth, "width", 0, "Render width (default: terminal width)")
	tuiCmd.Flags().DurationVar(&tuiInterval, "interval", 5*time.Second, "Refresh interval")
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the board as To-Do, In Progress and Completed columns",
	Long: `Print the board once. Open tasks of the current group are shown as in
progress; open tasks of later groups as to-do.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	Long: `Open an interactive, auto-refreshing board.

Keys:
  ↑/k ↓/j   move between open tasks
  enter/c   complete the selected task
  x         delete the selected task
  r         refresh now
  q         quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runBoard(cmd *cobra.Command, args []string) error {
	c := newClient()
	tasks, err := c.List(cmd.Context(), task.FilterAll)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	st, err := c.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	width := boardWidth
	if width == 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	cmd.Print(board.Render(board.Snapshot{Tasks: tasks, Status: st}, width))
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if tuiInterval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}
	model := board.NewModel(newClient(), serverURL, tuiInterval)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board exited: %w", err)
	}
	return nil
}
