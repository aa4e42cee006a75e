// Package cmd holds the sqlitedesk command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "sqlitedesk",
	Short: "Browser-facing admin service for single-file SQLite databases",
	Long: `sqlitedesk serves a JSON API for managing a directory of SQLite database
files: uploading and creating databases, listing tables, inspecting schema,
and paginated, sortable, filterable CRUD against arbitrary tables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (optional)")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
