package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/workshopgen/internal/database"
)

// SimpleWriter outputs human-readable text for terminal display.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// WriteCollections implements Writer.
func (w *SimpleWriter) WriteCollections(collections []database.CollectionSummary) (int, error) {
	var sb strings.Builder
	writeSection(&sb, "RECORDED COLLECTIONS")

	if len(collections) == 0 {
		sb.WriteString("  No runs recorded yet\n")
		return io.WriteString(w.output, sb.String())
	}

	for _, c := range collections {
		fmt.Fprintf(&sb, "  %-12s %-40s runs: %-4d last: %s\n",
			c.CollectionID, c.Title, c.Runs, c.LastRun.Format(timeLayout))
	}
	return io.WriteString(w.output, sb.String())
}

// WriteRuns implements Writer.
func (w *SimpleWriter) WriteRuns(collectionID string, runs []*database.RunRecord) (int, error) {
	var sb strings.Builder
	writeSection(&sb, "RUN HISTORY OF "+collectionID)

	if len(runs) == 0 {
		sb.WriteString("  No runs recorded for this collection\n")
		return io.WriteString(w.output, sb.String())
	}

	for _, r := range runs {
		fmt.Fprintf(&sb, "  #%-5d %s  items: %-4d %s -> %s\n",
			r.ID, r.GeneratedAt.Format(timeLayout), r.ItemCount, r.Sink, r.OutputPath)
		fmt.Fprintf(&sb, "         %s\n", r.Title)
	}
	return io.WriteString(w.output, sb.String())
}

// WriteDiff implements Writer.
func (w *SimpleWriter) WriteDiff(report *DiffReport) (int, error) {
	var sb strings.Builder
	writeSection(&sb, "CHANGES IN "+report.CollectionID)

	fmt.Fprintf(&sb, "Older: #%d %s (%d items)\n", report.Older.ID, report.Older.GeneratedAt.Format(timeLayout), report.Older.ItemCount)
	fmt.Fprintf(&sb, "Newer: #%d %s (%d items)\n\n", report.Newer.ID, report.Newer.GeneratedAt.Format(timeLayout), report.Newer.ItemCount)

	d := report.Diff
	if !d.HasChanges() {
		if report.HashChanged {
			sb.WriteString("  No item changes (page content differs)\n")
		} else {
			sb.WriteString("  No changes\n")
		}
		return io.WriteString(w.output, sb.String())
	}

	for _, item := range d.Added {
		fmt.Fprintf(&sb, "  [+] %s %s\n", item.ID, item.Name)
	}
	for _, item := range d.Removed {
		fmt.Fprintf(&sb, "  [-] %s %s\n", item.ID, item.Name)
	}
	for _, r := range d.Renamed {
		fmt.Fprintf(&sb, "  [~] %s %s => %s\n", r.ID, r.OldName, r.NewName)
	}
	if d.Reordered {
		sb.WriteString("  [*] item order changed\n")
	}
	return io.WriteString(w.output, sb.String())
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
