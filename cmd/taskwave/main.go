// Package main implements the taskwave CLI for working with a taskwave server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fyrsmithlabs/taskwave/internal/client"
	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL of the taskwave server
	serverURL string
	// timeout bounds each request
	timeout time.Duration
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskwave",
	Short: "CLI for the taskwave task board",
	Long: `taskwave is a command-line interface for a taskwave server.

Tasks are organised in groups. Completing the last open task of a group
unlocks the first task of the next one.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TASKWAVE_SERVER", "http://localhost:8080"), "taskwave server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithTimeout(timeout))
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
