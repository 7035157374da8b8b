package sink

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/workshopgen/internal/model"
)

// Sink is a destination for generated output.
type Sink interface {
	// Write writes text and returns the number of bytes written.
	Write(text string) (int, error)

	// Kind identifies the sink.
	Kind() model.SinkKind
}

// FileSink writes to an open file, creating or truncating it on open.
type FileSink struct {
	f *os.File
}

// OpenFileSink opens path for writing. Write closes the file.
func OpenFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f}, nil
}

// Write implements Sink. The file is closed whether or not the write succeeds.
func (s *FileSink) Write(text string) (n int, err error) {
	defer func() {
		if cerr := s.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return s.f.WriteString(text)
}

// Kind implements Sink.
func (s *FileSink) Kind() model.SinkKind { return model.SinkFile }

// ConsoleSink writes to standard output or another writer.
type ConsoleSink struct {
	out io.Writer
}

// NewConsoleSink returns a ConsoleSink writing to out, or os.Stdout when out is nil.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSink{out: out}
}

// Write implements Sink.
func (s *ConsoleSink) Write(text string) (int, error) {
	return io.WriteString(s.out, text)
}

// Kind implements Sink.
func (s *ConsoleSink) Kind() model.SinkKind { return model.SinkConsole }

var (
	_ Sink = (*FileSink)(nil)
	_ Sink = (*ConsoleSink)(nil)
)

// Result describes where output was written.
type Result struct {
	Sink  model.SinkKind
	Path  string
	Bytes int
}

// Writer writes output to a file and falls back to the console when the
// file cannot be opened. Write failures after a successful open are not
// retried on the console.
type Writer struct {
	stdout io.Writer
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithStdout sets the console fallback destination.
func WithStdout(w io.Writer) Option {
	return func(wr *Writer) {
		wr.stdout = w
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(wr *Writer) {
		wr.logger = logger
	}
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		stdout: os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write writes text followed by a single newline to path.
// The sink is chosen once: the file when path can be opened, the console
// otherwise. The console fallback is not reported as an error.
func (w *Writer) Write(path, text string) (Result, error) {
	var s Sink
	fs, err := OpenFileSink(path)
	if err != nil {
		w.logger.Warn(fmt.Sprintf("Failed to open %s, writing to console instead", path), "error", err)
		s = NewConsoleSink(w.stdout)
	} else {
		s = fs
	}

	n, err := s.Write(text + "\n")
	if err != nil {
		return Result{}, &WriteError{Path: path, Err: err}
	}
	if s.Kind() == model.SinkFile {
		w.logger.Info(fmt.Sprintf("Wrote output to %s", path))
	}
	return Result{Sink: s.Kind(), Path: path, Bytes: n}, nil
}
