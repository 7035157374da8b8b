package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// MaskValue replaces the value of a masked attribute.
const MaskValue = "***REDACTED***"

// maskedKeys are attribute keys whose values are never logged.
var maskedKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"sessionid":           true,
	"steamloginsecure":    true,
}

// Options selects the log level.
type Options struct {
	// Quiet limits output to errors.
	Quiet bool

	// Verbose enables debug output. Quiet wins when both are set.
	Verbose bool
}

// Level returns the slog level for o.
func (o Options) Level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelError
	case o.Verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// MaskingHandler wraps an slog.Handler and masks credential attributes.
type MaskingHandler struct {
	handler slog.Handler
}

// NewMaskingHandler wraps handler. A nil handler wraps slog.Default().Handler().
func NewMaskingHandler(handler slog.Handler) *MaskingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &MaskingHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *MaskingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(mask(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs implements slog.Handler.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = mask(a)
	}
	return &MaskingHandler{handler: h.handler.WithAttrs(out)}
}

// WithGroup implements slog.Handler.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{handler: h.handler.WithGroup(name)}
}

func mask(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			out[i] = mask(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	if maskedKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// dropTime removes the timestamp from text output.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// New returns a text logger writing to w at the level selected by opts.
func New(w io.Writer, opts Options) *slog.Logger {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       opts.Level(),
		ReplaceAttr: dropTime,
	})
	return slog.New(NewMaskingHandler(text))
}
