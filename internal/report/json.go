package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/workshopgen/internal/database"
)

// JSONWriter outputs history in JSON format for scripts.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// runsDocument is the JSON shape of WriteRuns.
type runsDocument struct {
	CollectionID string                `json:"collection_id"`
	Runs         []*database.RunRecord `json:"runs"`
}

// WriteCollections implements Writer.
func (w *JSONWriter) WriteCollections(collections []database.CollectionSummary) (int, error) {
	if collections == nil {
		collections = []database.CollectionSummary{}
	}
	return w.writeJSON(collections)
}

// WriteRuns implements Writer.
func (w *JSONWriter) WriteRuns(collectionID string, runs []*database.RunRecord) (int, error) {
	if runs == nil {
		runs = []*database.RunRecord{}
	}
	return w.writeJSON(runsDocument{CollectionID: collectionID, Runs: runs})
}

// WriteDiff implements Writer.
func (w *JSONWriter) WriteDiff(report *DiffReport) (int, error) {
	return w.writeJSON(report)
}

// writeJSON marshals v and writes it followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
