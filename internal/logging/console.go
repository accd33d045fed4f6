package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[2m"
	ansiRed   = "\033[31m"
	ansiAmber = "\033[33m"
	ansiCyan  = "\033[36m"
)

// consoleHandler writes one line per record:
//
//	2026-01-02 15:04:05 INF [server] <poem-ab12.bmp> served image | bytes=48062
//
// The component and image attributes are lifted into the header. Remaining
// attributes follow the pipe as key=value pairs, later keys replacing earlier
// ones.
type consoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     slog.Leveler
	color     bool
	addSource bool
	prefix    string
	attrs     []field
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{
		mu:        &sync.Mutex{},
		out:       w,
		level:     level,
		color:     isTerminal(w),
		addSource: addSource,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]field(nil), h.attrs...), h.collect(attrs)...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := append([]field(nil), h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.prefix, attr)
		return true
	})

	var component, subject string
	rest := fields[:0:0]
	index := map[string]int{}
	for _, f := range fields {
		switch {
		case f.key == FieldComponent:
			if component == "" {
				component = plainValue(f.value)
			}
			continue
		case f.key == FieldImage && subject == "":
			subject = plainValue(f.value)
		}
		if pos, ok := index[f.key]; ok {
			rest[pos].value = f.value
			continue
		}
		index[f.key] = len(rest)
		rest = append(rest, f)
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var b strings.Builder
	b.WriteString(h.paint(ansiDim, ts.Local().Format(consoleTimeLayout)))
	b.WriteByte(' ')
	b.WriteString(h.levelTag(record.Level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject != "" {
		b.WriteString(" <" + subject + ">")
	}
	b.WriteByte(' ')
	b.WriteString(message)
	if len(rest) > 0 {
		b.WriteString(" |")
		for _, f := range rest {
			b.WriteByte(' ')
			b.WriteString(h.paint(ansiCyan, f.key))
			b.WriteByte('=')
			b.WriteString(quotedValue(f.value))
		}
	}
	if h.addSource && record.PC != 0 {
		if src := record.Source(); src != nil {
			b.WriteString(h.paint(ansiDim, fmt.Sprintf(" (%s:%d)", filepath.Base(src.File), src.Line)))
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *consoleHandler) collect(attrs []slog.Attr) []field {
	var out []field
	for _, attr := range attrs {
		out = appendField(out, h.prefix, attr)
	}
	return out
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, prefix string, attr slog.Attr) []field {
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, child := range value.Group() {
			dst = appendField(dst, inner, child)
		}
		return dst
	}
	if attr.Key == "" {
		return dst
	}
	return append(dst, field{key: prefix + attr.Key, value: value})
}

func (h *consoleHandler) levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return h.paint(ansiRed, "ERR")
	case level >= slog.LevelWarn:
		return h.paint(ansiAmber, "WRN")
	case level >= slog.LevelInfo:
		return "INF"
	default:
		return h.paint(ansiDim, "DBG")
	}
}

func (h *consoleHandler) paint(code, s string) string {
	if !h.color {
		return s
	}
	return code + s + ansiReset
}

func plainValue(v slog.Value) string {
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.String()
}

func quotedValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Local().Format(consoleTimeLayout)
	case slog.KindFloat64:
		s = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		s = plainValue(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=|") {
		return strconv.Quote(s)
	}
	return s
}
