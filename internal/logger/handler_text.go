package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ANSI color codes
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
)

// textHandler is a slog.Handler producing "[ts] [LEVEL] msg key=val" lines,
// with optional ANSI colors for interactive terminals.
type textHandler struct {
	opts  *slog.HandlerOptions
	w     io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	color bool
}

// NewColorTextHandler creates a text handler writing to w.
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions, useColor bool) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &textHandler{
		opts:  opts,
		w:     w,
		mu:    &sync.Mutex{},
		color: useColor,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	// Build the line in a local buffer; only the write itself is locked.
	var buf []byte
	buf = fmt.Appendf(buf, "[%s] [%s] %s",
		r.Time.Format("2006-01-02 15:04:05"), h.levelTag(r.Level), r.Message)

	for _, attr := range h.attrs {
		buf = h.appendAttr(buf, attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a)
		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	_, err := h.w.Write(buf)
	h.mu.Unlock()
	return err
}

// levelTag returns the level string, colored when enabled.
func (h *textHandler) levelTag(level slog.Level) string {
	var tag, color string

	switch {
	case level < slog.LevelInfo:
		tag, color = "DEBUG", ansiGray
	case level < slog.LevelWarn:
		tag, color = "INFO", ansiGreen
	case level < slog.LevelError:
		tag, color = "WARN", ansiYellow
	default:
		tag, color = "ERROR", ansiRed
	}

	if h.color {
		return color + tag + ansiReset
	}
	return tag
}

func (h *textHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}
	a.Value = a.Value.Resolve()

	val := formatValue(a.Value)
	if h.color {
		return fmt.Appendf(buf, " %s%s%s=%s", ansiCyan, a.Key, ansiReset, val)
	}
	return fmt.Appendf(buf, " %s=%s", a.Key, val)
}

// formatValue renders a slog.Value for text output.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return fmt.Sprintf("%d", v.Int64())
	case slog.KindUint64:
		return fmt.Sprintf("%d", v.Uint64())
	case slog.KindFloat64:
		return fmt.Sprintf("%.3f", v.Float64())
	case slog.KindBool:
		return fmt.Sprintf("%t", v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &textHandler{
		opts:  h.opts,
		w:     h.w,
		mu:    h.mu, // share the mutex with the parent
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
		color: h.color,
	}
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	// Groups are not used by this logger's API; flatten them.
	return h
}
