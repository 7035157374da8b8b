package report

import (
	"io"

	"github.com/nao1215/workshopgen/internal/database"
	"github.com/nao1215/workshopgen/internal/model"
)

// Writer renders history data.
// Every method returns the number of bytes written.
type Writer interface {
	// WriteCollections lists the recorded collections.
	WriteCollections(collections []database.CollectionSummary) (int, error)

	// WriteRuns lists the recorded runs of a collection.
	WriteRuns(collectionID string, runs []*database.RunRecord) (int, error)

	// WriteDiff shows what changed between two runs.
	WriteDiff(diff *DiffReport) (int, error)
}

// DiffReport pairs two runs of one collection with their differences.
type DiffReport struct {
	CollectionID string                `json:"collection_id"`
	Older        *database.RunRecord   `json:"older"`
	Newer        *database.RunRecord   `json:"newer"`
	Diff         *model.CollectionDiff `json:"diff"`
	HashChanged  bool                  `json:"hash_changed"`
}

// NewDiffReport compares older with newer. Both must carry their items.
func NewDiffReport(older, newer *database.RunRecord) *DiffReport {
	return &DiffReport{
		CollectionID: newer.CollectionID,
		Older:        older,
		Newer:        newer,
		Diff:         model.DiffCollections(older.Collection(), newer.Collection()),
		HashChanged:  older.PageHash != newer.PageHash,
	}
}

// timeLayout is used for run timestamps in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
