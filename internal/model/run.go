package model

import "time"

// SinkKind identifies where a run's output ended up.
type SinkKind string

const (
	// SinkFile means the output was written to the configured file.
	SinkFile SinkKind = "file"

	// SinkConsole means the file could not be opened and the output was
	// written to standard output instead.
	SinkConsole SinkKind = "console"
)

// Run holds the state of one fetch/extract/format/write cycle.
// Pipeline steps fill it in order; it has a single owner for its lifetime.
type Run struct {
	// CollectionID is the requested collection identifier.
	CollectionID string `json:"collection_id"`

	// URL is the collection page URL.
	URL string `json:"url"`

	// BaseURL is the endpoint prefix used to build URL and strip item links.
	BaseURL string `json:"-"`

	// Page is the fetched page. Nil until the fetch step completes.
	Page *Page `json:"page,omitempty"`

	// Collection is the extracted collection. Nil until extraction completes.
	Collection *Collection `json:"collection,omitempty"`

	// Output is the formatted file content.
	Output string `json:"-"`

	// OutputPath is the file the output was meant for.
	OutputPath string `json:"output_path"`

	// Sink is where the output was actually written.
	Sink SinkKind `json:"sink,omitempty"`

	// GeneratedAt is the timestamp embedded in the output header.
	GeneratedAt time.Time `json:"generated_at"`

	// Steps lists the pipeline steps that completed, in order.
	Steps []string `json:"steps,omitempty"`
}

// NewRun creates a Run for the given collection.
func NewRun(collectionID, baseURL, outputPath string) *Run {
	return &Run{
		CollectionID: collectionID,
		URL:          baseURL + collectionID,
		BaseURL:      baseURL,
		OutputPath:   outputPath,
		Steps:        make([]string, 0),
	}
}

// ItemCount returns the number of extracted items, or zero before extraction.
func (r *Run) ItemCount() int {
	if r.Collection == nil {
		return 0
	}
	return r.Collection.Len()
}
