package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fyrsmithlabs/taskwave/internal/board"
	"github.com/spf13/cobra"
)

var statusJSON bool

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(healthCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output results as JSON")
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show board progress per group",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check taskwave server health",
	Long: `Check the health status of the taskwave server.

Examples:
  # Check health
  taskwave health

  # Check health on a different server
  taskwave health --server http://localhost:9090`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := newClient().Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	if statusJSON {
		return printJSON(cmd, st)
	}

	cmd.Printf("Progress: %s\n", board.FormatProgress(st.Completed, st.Total))
	cmd.Printf("Current:  %s\n", board.FormatGroup(st.CurrentGroup))
	if st.Strict {
		cmd.Println("Strict completion: on")
	}
	cmd.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tCOMPLETED\tTOTAL\tDONE")
	for _, g := range st.Groups {
		done := ""
		if g.Done {
			done = "✓"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", g.Group, g.Completed, g.Total, done)
	}
	return w.Flush()
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	status, err := newClient().Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", serverURL, err)
	}
	cmd.Printf("Server Status: %s\n", status)
	cmd.Printf("Server URL: %s\n", serverURL)
	return nil
}
