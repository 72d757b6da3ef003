package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Sink receives the user-facing diagnostics of a run.
type Sink interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

var (
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// Console writes diagnostics as lines prefixed with "warning:" or "error:".
// The prefixes are colored when Color is set.
type Console struct {
	w     io.Writer
	Color bool
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer, color bool) *Console {
	return &Console{w: w, Color: color}
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.w, format+"\n", args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.prefixed(warnStyle, "warning:", format, args)
}

func (c *Console) Error(format string, args ...any) {
	c.prefixed(errorStyle, "error:", format, args)
}

func (c *Console) prefixed(style lipgloss.Style, prefix, format string, args []any) {
	if c.Color {
		prefix = style.Render(prefix)
	}
	fmt.Fprintf(c.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Message is one recorded diagnostic.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps diagnostics in memory, either for inspection or to be
// replayed once the terminal is free again.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

func (r *Recorder) Info(format string, args ...any)  { r.add(LevelInfo, format, args) }
func (r *Recorder) Warn(format string, args ...any)  { r.add(LevelWarn, format, args) }
func (r *Recorder) Error(format string, args ...any) { r.add(LevelError, format, args) }

func (r *Recorder) add(level Level, format string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Level: level, Text: fmt.Sprintf(format, args...)})
}

// Texts returns the text of every message recorded at level.
func (r *Recorder) Texts(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.Messages {
		if m.Level == level {
			out = append(out, m.Text)
		}
	}
	return out
}

// Flush replays the recorded messages into s, in order.
func (r *Recorder) Flush(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Messages {
		switch m.Level {
		case LevelWarn:
			s.Warn("%s", m.Text)
		case LevelError:
			s.Error("%s", m.Text)
		default:
			s.Info("%s", m.Text)
		}
	}
	r.Messages = nil
}
