package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

var levelStyles = map[string]lipgloss.Style{
	"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	"WARN":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B")),
	"ERROR": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
}

// Logger provides leveled logging for the inn commands. Every logger has a
// run id so the output of concurrent invocations can be told apart.
type Logger struct {
	Verbose   bool
	DebugMode bool
	Color     bool
	RunID     string

	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewLogger creates a new logger instance writing to stderr.
func NewLogger(verbose, debug bool) *Logger {
	return &Logger{
		Verbose:   verbose,
		DebugMode: debug,
		RunID:     uuid.NewString(),
		out:       os.Stderr,
		now:       time.Now,
	}
}

// SetOutput redirects the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Verbose || l.DebugMode {
		l.log("INFO", fmt.Sprintf(format, args...))
	}
}

// Debug logs a debug message tagged with the run id.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugMode {
		l.log("DEBUG", "run="+l.shortRunID()+" "+fmt.Sprintf(format, args...))
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", fmt.Sprintf(format, args...))
}

func (l *Logger) shortRunID() string {
	if len(l.RunID) > 8 {
		return l.RunID[:8]
	}
	return l.RunID
}

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tag := "[" + level + "]"
	if l.Color {
		tag = levelStyles[level].Render(tag)
	}
	fmt.Fprintf(l.out, "%s %s: %s\n", tag, l.now().Format("15:04:05"), msg)
}
