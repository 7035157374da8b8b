package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/workshopgen/internal/database"
	"github.com/nao1215/workshopgen/internal/model"
)

// MarkdownWriter outputs history in Markdown for sharing, e.g. in a
// server changelog or pull request.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteCollections implements Writer.
func (w *MarkdownWriter) WriteCollections(collections []database.CollectionSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Recorded Collections")
	md.PlainText("")

	if len(collections) == 0 {
		md.Note("No runs recorded yet.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(collections))
	for _, c := range collections {
		rows = append(rows, []string{
			"`" + c.CollectionID + "`",
			c.Title,
			strconv.Itoa(c.Runs),
			c.LastRun.Format(timeLayout),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Collection", "Title", "Runs", "Last Run"},
		Rows:   rows,
	})
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteRuns implements Writer.
func (w *MarkdownWriter) WriteRuns(collectionID string, runs []*database.RunRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Run History of " + collectionID)
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No runs recorded for this collection.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.GeneratedAt.Format(timeLayout),
			r.Title,
			strconv.Itoa(r.ItemCount),
			string(r.Sink),
			"`" + r.OutputPath + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Generated", "Title", "Items", "Sink", "Output"},
		Rows:   rows,
	})
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteDiff implements Writer.
func (w *MarkdownWriter) WriteDiff(report *DiffReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Changes in " + report.CollectionID)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"", "Run", "Generated", "Items"},
		Rows: [][]string{
			{"Older", strconv.FormatInt(report.Older.ID, 10), report.Older.GeneratedAt.Format(timeLayout), strconv.Itoa(report.Older.ItemCount)},
			{"Newer", strconv.FormatInt(report.Newer.ID, 10), report.Newer.GeneratedAt.Format(timeLayout), strconv.Itoa(report.Newer.ItemCount)},
		},
	})
	md.PlainText("")

	d := report.Diff
	switch {
	case d.HasChanges():
		w.writeChart(md, report)
	case report.HashChanged:
		md.Note("The page changed but the item list did not.")
		return len(md.String()), md.Build()
	default:
		md.Tip("No changes between these runs.")
		return len(md.String()), md.Build()
	}

	if len(d.Added) > 0 {
		md.H2("Added")
		md.BulletList(itemLines(d.Added)...)
		md.PlainText("")
	}
	if len(d.Removed) > 0 {
		md.H2("Removed")
		md.BulletList(itemLines(d.Removed)...)
		md.PlainText("")
	}
	if len(d.Renamed) > 0 {
		md.H2("Renamed")
		rows := make([][]string, 0, len(d.Renamed))
		for _, r := range d.Renamed {
			rows = append(rows, []string{"`" + r.ID + "`", r.OldName, r.NewName})
		}
		md.Table(markdown.TableSet{
			Header: []string{"ID", "Old Name", "New Name"},
			Rows:   rows,
		})
		md.PlainText("")
	}
	if d.Reordered {
		md.Importantf("The load order of items present in both runs changed.")
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeChart writes a mermaid pie chart of the change kinds.
func (w *MarkdownWriter) writeChart(md *markdown.Markdown, report *DiffReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Changes"),
		piechart.WithShowData(true),
	)

	d := report.Diff
	if n := len(d.Added); n > 0 {
		chart.LabelAndIntValue("Added", uint64(n))
	}
	if n := len(d.Removed); n > 0 {
		chart.LabelAndIntValue("Removed", uint64(n))
	}
	if n := len(d.Renamed); n > 0 {
		chart.LabelAndIntValue("Renamed", uint64(n))
	}
	if len(d.Added)+len(d.Removed)+len(d.Renamed) == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func itemLines(items []model.Item) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "`"+item.ID+"` "+item.Name)
	}
	return lines
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [workshopgen](https://github.com/nao1215/workshopgen)*")
}
