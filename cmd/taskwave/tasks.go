package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/fyrsmithlabs/taskwave/internal/client"
	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/spf13/cobra"
)

var (
	listType   string
	listJSON   bool
	completeID int

	taskTitle       string
	taskDescription string
	taskPersona     string
	taskGroup       int
	taskSection     int
	taskCompleted   bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(completeCmd)

	listCmd.Flags().StringVar(&listType, "type", "", "Filter tasks: active or completed")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output results as JSON")

	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&taskTitle, "title", "", "Task title")
		c.Flags().StringVar(&taskDescription, "description", "", "Task description")
		c.Flags().StringVar(&taskPersona, "persona", "", "Persona the task is meant for")
		c.Flags().IntVar(&taskGroup, "group", 0, "Group the task belongs to")
		c.Flags().IntVar(&taskSection, "section", 0, "Section within the group")
	}
	for _, name := range []string{"title", "description", "persona", "group", "section"} {
		_ = addCmd.MarkFlagRequired(name)
	}
	updateCmd.Flags().BoolVar(&taskCompleted, "completed", false, "Set the completed flag (does not unlock groups)")

	completeCmd.Flags().IntVar(&completeID, "id", 0, "Complete by task ID instead of title")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks on the board.

Examples:
  # List every task
  taskwave list

  # List open tasks as JSON
  taskwave list --type active --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task",
	Long: `Add a task to the board. Every field is required.

Examples:
  taskwave add --title "Write docs" --description "Document the API" \
    --persona Intern --group 2 --section 3`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a task",
	Long: `Update a task. Only the flags given are sent; other fields keep their values.

Examples:
  taskwave update 3 --title "Git Basics"
  taskwave update 3 --group 2 --section 2`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var completeCmd = &cobra.Command{
	Use:   "complete [title]",
	Short: "Complete a task",
	Long: `Mark a task as completed. When this finishes a group, the first task of
the next group is unlocked.

Examples:
  # Complete by title
  taskwave complete "Initial Setup"

  # Complete by ID
  taskwave complete --id 4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComplete,
}

func runList(cmd *cobra.Command, args []string) error {
	filter := task.ParseFilter(listType)
	if listType != "" && filter == task.FilterAll {
		return fmt.Errorf("invalid --type %q: must be active or completed", listType)
	}

	tasks, err := newClient().List(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if listJSON {
		return printJSON(cmd, tasks)
	}

	if len(tasks) == 0 {
		cmd.Println("No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGROUP\tSECTION\tTITLE\tPERSONA\tDONE")
	for _, t := range tasks {
		done := ""
		if t.Completed {
			done = "✓"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\n", t.ID, t.Group, t.Section, t.Title, t.Persona, done)
	}
	return w.Flush()
}

func runAdd(cmd *cobra.Command, args []string) error {
	msg, err := newClient().Create(cmd.Context(), client.CreateRequest{
		Title:       taskTitle,
		Description: taskDescription,
		Persona:     taskPersona,
		Group:       taskGroup,
		Section:     taskSection,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	cmd.Println(msg)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var p task.Patch
	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = &taskTitle
	}
	if flags.Changed("description") {
		p.Description = &taskDescription
	}
	if flags.Changed("persona") {
		p.Persona = &taskPersona
	}
	if flags.Changed("group") {
		p.Group = &taskGroup
	}
	if flags.Changed("section") {
		p.Section = &taskSection
	}
	if flags.Changed("completed") {
		p.Completed = &taskCompleted
	}
	if p.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	msg, err := newClient().Update(cmd.Context(), id, p)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	cmd.Println(msg)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	msg, err := newClient().Delete(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	cmd.Println(msg)
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	c := newClient()

	var (
		res client.Completion
		err error
	)
	switch {
	case completeID != 0:
		res, err = c.CompleteByID(cmd.Context(), completeID)
	case len(args) == 1 && args[0] != "":
		res, err = c.Complete(cmd.Context(), args[0])
	default:
		return fmt.Errorf("a task title or --id is required")
	}
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	if res.Task == nil {
		cmd.Println("No matching task.")
	} else {
		cmd.Printf("Completed #%d %s\n", res.Task.ID, res.Task.Title)
	}
	if res.Unlocked != nil {
		cmd.Printf("Unlocked #%d %s (group %d)\n", res.Unlocked.ID, res.Unlocked.Title, res.Unlocked.Group)
	}
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID %q: must be a positive integer", s)
	}
	return id, nil
}
