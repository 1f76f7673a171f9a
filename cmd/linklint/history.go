package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/linklint/internal/config"
	"github.com/nao1215/linklint/internal/database"
	"github.com/nao1215/linklint/internal/report"
)

// NewHistoryCmd creates the history command.
// This command inspects past runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Compare link check runs with historical data",
		Long: `History displays past link check runs recorded by the scan command.

Without flags it compares the two most recent runs and shows:
- Broken links introduced since the previous run
- Broken links fixed since the previous run

Examples:
  # Compare the two most recent runs
  linklint history

  # List recorded runs
  linklint history --list

  # List runs of one site root only
  linklint history --list --root public

  # Show the full stored report of run 5
  linklint history --show-id 5`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List recorded runs instead of comparing")
	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().String("root", "",
		"Only consider runs of this site root")
	cmd.Flags().Int64P("show-id", "i", 0,
		"Print the full stored report of a run by ID (use --list to see IDs)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no run history found (run 'linklint scan' first): %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()

	showID, err := cmd.Flags().GetInt64("show-id")
	if err != nil {
		return err
	}
	if showID > 0 {
		return showRun(ctx, cmd, db, showID)
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		return listRuns(ctx, cmd, db, root, limit)
	}

	return diffRecentRuns(ctx, cmd, db, root)
}

// listRuns prints recorded runs as a table, newest first.
func listRuns(ctx context.Context, cmd *cobra.Command, db *database.RunDB, root string, limit int) error {
	runs, err := db.ListRuns(ctx, root, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %-20s %-7s %-7s %-9s %-8s %s\n",
		"ID", "FINISHED", "TOTAL", "BROKEN", "WARNINGS", "SUCCESS", "ROOT")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, run := range runs {
		fmt.Fprintf(out, "%-5d %-20s %-7d %-7d %-9d %-8s %s\n",
			run.ID,
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.Total,
			run.Broken,
			run.Warnings,
			run.SuccessRate,
			run.Root,
		)
	}

	return nil
}

// showRun prints the full stored report of one run.
func showRun(ctx context.Context, cmd *cobra.Command, db *database.RunDB, id int64) error {
	result, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("run %d not found (use --list to see available IDs)", id)
	}

	writer := report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(getVerboseFlag(cmd)))
	_, err = writer.Write(result)
	return err
}

// diffRecentRuns compares the two most recent runs and prints the
// introduced and fixed broken links.
func diffRecentRuns(ctx context.Context, cmd *cobra.Command, db *database.RunDB, root string) error {
	runs, err := db.ListRuns(ctx, root, 2)
	if err != nil {
		return err
	}
	if len(runs) < 2 {
		return fmt.Errorf("need at least two recorded runs to compare, have %d", len(runs))
	}

	newer, older := runs[0], runs[1]
	diff, err := db.DiffRuns(ctx, older.ID, newer.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Comparing run %d (%s) with run %d (%s)\n\n",
		older.ID, older.FinishedAt.Format("2006-01-02 15:04:05"),
		newer.ID, newer.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Broken links: %d -> %d\n\n", older.Broken, newer.Broken)

	if len(diff.Introduced) == 0 && len(diff.Fixed) == 0 {
		fmt.Fprintln(out, "No changes in broken links.")
		return nil
	}

	if len(diff.Introduced) > 0 {
		fmt.Fprintf(out, "INTRODUCED (%d)\n", len(diff.Introduced))
		for _, rec := range diff.Introduced {
			fmt.Fprintf(out, "  %s (in %s)\n", rec.URL, rec.SourceFile)
		}
		fmt.Fprintln(out)
	}

	if len(diff.Fixed) > 0 {
		fmt.Fprintf(out, "FIXED (%d)\n", len(diff.Fixed))
		for _, rec := range diff.Fixed {
			fmt.Fprintf(out, "  %s (in %s)\n", rec.URL, rec.SourceFile)
		}
		fmt.Fprintln(out)
	}

	return nil
}
