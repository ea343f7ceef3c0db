package table

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the table model for display in the
// status line. The alternate screen hides stderr, so warnings raised while
// the TUI runs (a truncated query, a slow source) would otherwise be lost.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// StatusLogHandler is a slog.Handler that routes records into a running
// bubbletea program as logRecordMsg. Records below the level, or arriving
// before SetProgram, are dropped. Handlers derived through WithAttrs and
// WithGroup share the program pointer.
type StatusLogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	group   string
}

// NewStatusLogHandler creates a handler for records at or above level
func NewStatusLogHandler(level slog.Level) *StatusLogHandler {
	return &StatusLogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the program that receives log messages. Safe to call from
// any goroutine.
func (h *StatusLogHandler) SetProgram(p *tea.Program) {
	h.program.Store(p)
}

func (h *StatusLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *StatusLogHandler) Handle(_ context.Context, record slog.Record) error {
	p := h.program.Load()
	if p == nil {
		return nil
	}
	p.Send(logRecordMsg{Summary: h.summary(record), Level: record.Level})
	return nil
}

// summary renders "message (key=value, ...)"
func (h *StatusLogHandler) summary(record slog.Record) string {
	var parts []string
	prefix := ""
	if h.group != "" {
		prefix = h.group + "."
	}
	for _, attr := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (h *StatusLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StatusLogHandler{
		level:   h.level,
		program: h.program,
		attrs:   append(append([]slog.Attr(nil), h.attrs...), attrs...),
		group:   h.group,
	}
}

func (h *StatusLogHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &StatusLogHandler{
		level:   h.level,
		program: h.program,
		attrs:   append([]slog.Attr(nil), h.attrs...),
		group:   group,
	}
}
