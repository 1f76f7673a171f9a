// Package main provides the entry point for the linklint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linklint.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linklint",
		Short: "Link checker for static site output directories",
		Long: `linklint checks the links of a generated static site before deployment.

It walks the site output directory, extracts references from every HTML
document, verifies local references against the filesystem, and probes
external URLs with HTTP HEAD requests. Results are printed to the
terminal and written as JSON and Markdown reports.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
