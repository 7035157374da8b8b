package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nao1215/workshopgen/internal/config"
	"github.com/nao1215/workshopgen/internal/extractor"
	"github.com/nao1215/workshopgen/internal/fetcher"
	"github.com/nao1215/workshopgen/internal/format"
	"github.com/nao1215/workshopgen/internal/model"
	"github.com/nao1215/workshopgen/internal/sink"
)

// Step names.
const (
	StepFetch   = "fetch"
	StepExtract = "extract"
	StepRender  = "render"
	StepWrite   = "write"
	StepRecord  = "record"
)

var (
	// ErrNoPage is returned when extraction runs before a page was fetched.
	ErrNoPage = errors.New("no page fetched")

	// ErrNoCollection is returned when rendering runs before extraction.
	ErrNoCollection = errors.New("no collection extracted")
)

// FetchStep downloads the collection page.
type FetchStep struct {
	fetcher *fetcher.Fetcher
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(f *fetcher.Fetcher) *FetchStep {
	return &FetchStep{fetcher: f}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return StepFetch }

// Do fetches run.URL into run.Page.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	page, err := s.fetcher.Fetch(ctx, run.URL)
	if err != nil {
		return err
	}
	run.Page = page
	return nil
}

// ExtractStep turns the fetched page into a collection.
type ExtractStep struct {
	extractor *extractor.Extractor
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(e *extractor.Extractor) *ExtractStep {
	return &ExtractStep{extractor: e}
}

// Name returns the step name.
func (s *ExtractStep) Name() string { return StepExtract }

// Do fills run.Collection from run.Page.
func (s *ExtractStep) Do(ctx context.Context, run *model.Run) error {
	if run.Page == nil {
		return ErrNoPage
	}
	collection, err := s.extractor.Extract(ctx, run.CollectionID, run.Page)
	if err != nil {
		return err
	}
	run.Collection = collection
	return nil
}

// RenderStep formats the collection into the output text.
type RenderStep struct {
	// now returns the generation time written into the header.
	now func() time.Time
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithClock sets the time source used for the header timestamp.
func WithClock(now func() time.Time) RenderStepOption {
	return func(s *RenderStep) {
		s.now = now
	}
}

// NewRenderStep creates a RenderStep using the local time by default.
func NewRenderStep(opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string { return StepRender }

// Do sets run.Output and run.GeneratedAt.
func (s *RenderStep) Do(_ context.Context, run *model.Run) error {
	if run.Collection == nil {
		return ErrNoCollection
	}
	run.GeneratedAt = s.now()
	run.Output = format.Format(run.Collection, run.GeneratedAt)
	return nil
}

// WriteStep writes the output to its file or the console.
type WriteStep struct {
	writer *sink.Writer
}

// NewWriteStep creates a WriteStep.
func NewWriteStep(w *sink.Writer) *WriteStep {
	return &WriteStep{writer: w}
}

// Name returns the step name.
func (s *WriteStep) Name() string { return StepWrite }

// Do writes run.Output and records the sink that received it.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	if run.Collection == nil {
		return ErrNoCollection
	}
	res, err := s.writer.Write(run.OutputPath, run.Output)
	if err != nil {
		return err
	}
	run.Sink = res.Sink
	return nil
}

// Recorder persists completed runs.
type Recorder interface {
	SaveRun(ctx context.Context, run *model.Run) (int64, error)
}

// RecordStep saves the run to history. Failures are logged, not returned.
//
// Design decision: the record step runs after the write step, when the
// workshop file already exists. History is a side record of that output, so
// a locked or unwritable database must not turn a finished run into a
// failed one or change the exit status.
type RecordStep struct {
	recorder Recorder
	logger   *slog.Logger
}

// NewRecordStep creates a RecordStep.
func NewRecordStep(r Recorder, logger *slog.Logger) *RecordStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordStep{recorder: r, logger: logger}
}

// Name returns the step name.
func (s *RecordStep) Name() string { return StepRecord }

// Do saves the run.
func (s *RecordStep) Do(ctx context.Context, run *model.Run) error {
	id, err := s.recorder.SaveRun(ctx, run)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record run", "collection", run.CollectionID, "error", err)
		return nil
	}
	s.logger.DebugContext(ctx, "recorded run", "run_id", id, "collection", run.CollectionID)
	return nil
}

// DefaultPipelineConfig holds the collaborators of the default pipeline.
type DefaultPipelineConfig struct {
	// Logger receives progress output. Defaults to slog.Default().
	Logger *slog.Logger

	// Stdout is the console fallback destination. Defaults to os.Stdout.
	Stdout io.Writer

	// Client is the HTTP client used by the fetch step.
	Client *resty.Client

	// Clock returns the generation time. Defaults to time.Now.
	Clock func() time.Time

	// Recorder saves the run when set. Nil disables history.
	Recorder Recorder
}

// DefaultPipelineOption configures the default pipeline.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineLogger sets the logger shared by all steps.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// WithPipelineStdout sets the console fallback destination.
func WithPipelineStdout(w io.Writer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Stdout = w
	}
}

// WithPipelineClient sets the HTTP client.
func WithPipelineClient(client *resty.Client) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Client = client
	}
}

// WithPipelineClock sets the time source for the header timestamp.
func WithPipelineClock(now func() time.Time) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Clock = now
	}
}

// WithPipelineRecorder enables the record step.
func WithPipelineRecorder(r Recorder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Recorder = r
	}
}

// DefaultPipeline builds fetch, extract, render and write steps for cfg,
// followed by the record step when a recorder is configured.
func DefaultPipeline(cfg *config.Config, opts ...DefaultPipelineOption) *Pipeline {
	c := &DefaultPipelineConfig{
		Logger: slog.Default(),
		Stdout: os.Stdout,
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	fetchOpts := []fetcher.Option{fetcher.WithLogger(c.Logger)}
	if c.Client != nil {
		fetchOpts = append(fetchOpts, fetcher.WithClient(c.Client))
	}

	p := New(WithLogger(c.Logger))
	p.AddSteps(
		NewFetchStep(fetcher.New(fetchOpts...)),
		NewExtractStep(extractor.New(cfg.BaseURL, extractor.WithLogger(c.Logger))),
		NewRenderStep(WithClock(c.Clock)),
		NewWriteStep(sink.NewWriter(sink.WithStdout(c.Stdout), sink.WithLogger(c.Logger))),
	)
	if c.Recorder != nil {
		p.AddStep(NewRecordStep(c.Recorder, c.Logger))
	}
	return p
}
