package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ConsoleHandler writes one syslog-style line per record:
//
//	2006-01-02T15:04:05Z07:00 wpand[pid]: [level] component: message key=value
//
// The component attribute is lifted into the header instead of being
// printed as a pair.
type ConsoleHandler struct {
	level     slog.Leveler
	out       io.Writer
	mu        *sync.Mutex
	tag       string // "name[pid]: "
	component string
	attrs     []slog.Attr
}

// NewConsoleHandler returns a handler writing to out under the process
// name name. A nil level means info.
func NewConsoleHandler(out io.Writer, name string, level slog.Leveler) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{
		level: level,
		out:   out,
		mu:    &sync.Mutex{},
		tag:   strings.ToLower(name) + "[" + strconv.Itoa(os.Getpid()) + "]: ",
	}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}

	component := h.component
	var rest []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToLower(a.Value.String())
		} else {
			rest = append(rest, a)
		}
		return true
	})

	var buf bytes.Buffer
	buf.WriteString(t.Format(time.RFC3339))
	buf.WriteByte(' ')
	buf.WriteString(h.tag)
	buf.WriteString("[" + strings.ToLower(r.Level.String()) + "] ")
	if component != "" {
		buf.WriteString(component + ": ")
	}
	buf.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&buf, a)
	}
	for _, a := range rest {
		writeAttr(&buf, a)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	val := a.Value.Resolve().String()
	if val == "" || strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}
	buf.WriteByte(' ')
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(val)
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)
	for _, a := range attrs {
		if a.Key == "component" {
			c.component = strings.ToLower(a.Value.String())
			continue
		}
		c.attrs = append(c.attrs, a)
	}
	return &c
}

// WithGroup is a no-op; console output is flat.
func (h *ConsoleHandler) WithGroup(string) slog.Handler {
	return h
}
