// Package slogutil provides the slog handler and logger constructors for
// treelint logging.
package slogutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LintHandler formats records as:
// TIMESTAMP [level] Message | key=value key=value
//
// Attributes attached via With are rendered once, when attached, so Handle
// only formats the record's own attributes. Groups become dotted key
// prefixes.
type LintHandler struct {
	w     io.Writer
	level slog.Leveler
	mu    *sync.Mutex

	// preformatted holds the already-rendered With attributes, each with a
	// leading space.
	preformatted string
	// prefix is the dotted group path applied to attribute keys.
	prefix string
}

// NewLintHandler creates a new treelint log handler.
func NewLintHandler(w io.Writer, opts *slog.HandlerOptions) *LintHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &LintHandler{
		w:     w,
		level: level,
		mu:    &sync.Mutex{},
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LintHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the log record.
func (h *LintHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(r.Time.UTC().Format(time.RFC3339))
	buf.WriteString(" [")
	buf.WriteString(levelString(r.Level))
	buf.WriteString("] ")
	buf.WriteString(r.Message)

	if h.preformatted != "" || r.NumAttrs() > 0 {
		buf.WriteString(" |")
		buf.WriteString(h.preformatted)
		r.Attrs(func(a slog.Attr) bool {
			h.appendAttr(&buf, a)
			return true
		})
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a handler with the attributes rendered into its prefix.
func (h *LintHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	for _, a := range attrs {
		h.appendAttr(&buf, a)
	}

	clone := *h
	clone.preformatted = h.preformatted + buf.String()
	return &clone
}

// WithGroup returns a handler that prefixes subsequent attribute keys.
func (h *LintHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *LintHandler) appendAttr(buf *bytes.Buffer, a slog.Attr) {
	if a.Key == "" {
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(h.prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(formatValue(a.Value.Resolve()))
}

func levelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return fmt.Sprint(v.Any())
	}
}
