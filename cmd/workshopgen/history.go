package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/workshopgen/internal/config"
	"github.com/nao1215/workshopgen/internal/database"
	"github.com/nao1215/workshopgen/internal/report"
	"github.com/spf13/cobra"
)

var (
	// errHistoryEmpty is returned when no database has been written yet.
	errHistoryEmpty = errors.New("no history recorded yet: run workshopgen first")

	// errNotEnoughRuns is returned by --diff when fewer than two runs exist.
	errNotEnoughRuns = errors.New("at least two recorded runs are needed to compare")
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [collection-id]",
		Short: "Show recorded generation runs",
		Long: `History shows the runs recorded in the history database.

Without arguments it lists every recorded collection. With a collection id
it lists the runs of that collection, newest first. With --diff it shows
which items were added, removed or renamed between the latest two runs.

Examples:
  # List all recorded collections
  workshopgen history

  # List the runs of one collection
  workshopgen history 1182709177

  # Compare the latest two runs
  workshopgen history 1182709177 --diff

  # Compare the latest run with run 3, as Markdown
  workshopgen history 1182709177 --diff --with-run-id 3 --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-collections", "L", false,
		"List all recorded collections")
	cmd.Flags().BoolP("diff", "d", false,
		"Compare the latest run with the previous one")
	cmd.Flags().Int64P("with-run-id", "r", 0,
		"Compare the latest run with this run instead of the previous one")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format (mutually exclusive with --json)")
	cmd.Flags().String("history-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	listCollections, err := flags.GetBool("list-collections")
	if err != nil {
		return err
	}
	diff, err := flags.GetBool("diff")
	if err != nil {
		return err
	}
	withRunID, err := flags.GetInt64("with-run-id")
	if err != nil {
		return err
	}
	historyDir, err := flags.GetString("history-dir")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if (diff || withRunID != 0) && len(args) == 0 {
		return errors.New("a collection id is required with --diff")
	}

	db, err := database.Open(historyDir, database.Options{EnableWAL: true})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errHistoryEmpty
		}
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	w := newReportWriter(cmd.OutOrStdout(), jsonOutput, markdownOutput)

	switch {
	case listCollections || len(args) == 0:
		return writeCollections(ctx, db, w)
	case diff || withRunID != 0:
		return writeDiff(ctx, db, w, args[0], withRunID)
	default:
		return writeRuns(ctx, db, w, args[0])
	}
}

// newReportWriter selects the writer for the requested format.
func newReportWriter(out io.Writer, jsonOutput, markdownOutput bool) report.Writer {
	switch {
	case jsonOutput:
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOutput:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out)
	}
}

func writeCollections(ctx context.Context, db *database.HistoryDB, w report.Writer) error {
	collections, err := db.ListCollections(ctx)
	if err != nil {
		return err
	}
	_, err = w.WriteCollections(collections)
	return err
}

func writeRuns(ctx context.Context, db *database.HistoryDB, w report.Writer, collectionID string) error {
	runs, err := db.ListRuns(ctx, collectionID)
	if err != nil {
		return err
	}
	_, err = w.WriteRuns(collectionID, runs)
	return err
}

// writeDiff compares the latest run of collectionID with the run before
// it, or with runID when it is non-zero.
func writeDiff(ctx context.Context, db *database.HistoryDB, w report.Writer, collectionID string, runID int64) error {
	if runID == 0 {
		runs, err := db.LatestRuns(ctx, collectionID, 2)
		if err != nil {
			return err
		}
		if len(runs) < 2 {
			return fmt.Errorf("%w (collection %s has %d)", errNotEnoughRuns, collectionID, len(runs))
		}
		_, err = w.WriteDiff(report.NewDiffReport(runs[1], runs[0]))
		return err
	}

	older, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if older.CollectionID != collectionID {
		return fmt.Errorf("run %d belongs to collection %s, not %s", runID, older.CollectionID, collectionID)
	}

	latest, err := db.LatestRuns(ctx, collectionID, 1)
	if err != nil {
		return err
	}
	if len(latest) == 0 {
		return fmt.Errorf("%w (collection %s has none)", errNotEnoughRuns, collectionID)
	}

	_, err = w.WriteDiff(report.NewDiffReport(older, latest[0]))
	return err
}
