package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SimpleHandler writes one line per record: "time [LEVEL] msg key=value".
type SimpleHandler struct {
	Output io.Writer
	Level  slog.Level

	attrs []slog.Attr
}

func (h *SimpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.Level
}

func (h *SimpleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", r.Time.Format("2006-01-02 15:04:05"), r.Level, r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})

	_, err := fmt.Fprintln(h.Output, b.String())
	return err
}

func (h *SimpleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &c
}

func (h *SimpleHandler) WithGroup(name string) slog.Handler {
	return h
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(&SimpleHandler{Output: w, Level: level})
}
