// Package diagnostics renders toolchain errors for people: the message, its
// location, and the offending source line with a caret under the column.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/inn-lang/inn/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// DiagnosticCategory names the toolchain stage that produced a diagnostic.
type DiagnosticCategory int

const (
	CategoryLexical DiagnosticCategory = iota
	CategorySyntax
	CategoryCodegen
	CategoryFormat
	CategoryIO
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case CategoryLexical:
		return "lexical"
	case CategorySyntax:
		return "syntax"
	case CategoryCodegen:
		return "codegen"
	case CategoryFormat:
		return "format"
	case CategoryIO:
		return "io"
	default:
		return "unknown"
	}
}

// Diagnostic is one reportable problem.
type Diagnostic struct {
	Level    DiagnosticLevel
	Category DiagnosticCategory
	Code     string // "E001" style code, empty for I/O failures
	Message  string
	Pos      position.Position // zero when the problem has no location

	SourceFile string
	Context    string // the source line at Pos, without terminator
}

// HasPosition reports whether the diagnostic points into the source.
func (d Diagnostic) HasPosition() bool {
	return d.Pos.Line > 0
}

// DiagnosticManager collects diagnostics from one or more files. It is safe
// for concurrent use.
type DiagnosticManager struct {
	mu           sync.Mutex
	diagnostics  []Diagnostic
	errorCount   int
	warningCount int
	maxErrors    int
}

// NewDiagnosticManager creates a new diagnostic manager
func NewDiagnosticManager() *DiagnosticManager {
	return &DiagnosticManager{maxErrors: 100}
}

// SetErrorLimit sets the maximum number of errors kept.
func (dm *DiagnosticManager) SetErrorLimit(limit int) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.maxErrors = limit
}

// AddDiagnostic adds a new diagnostic to the manager
func (dm *DiagnosticManager) AddDiagnostic(d Diagnostic) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	switch d.Level {
	case DiagnosticError:
		if dm.errorCount >= dm.maxErrors {
			return
		}
		dm.errorCount++
	case DiagnosticWarning:
		dm.warningCount++
	}
	dm.diagnostics = append(dm.diagnostics, d)
}

// GetDiagnostics returns a copy of the collected diagnostics.
func (dm *DiagnosticManager) GetDiagnostics() []Diagnostic {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return append([]Diagnostic(nil), dm.diagnostics...)
}

// GetErrorCount returns the number of errors
func (dm *DiagnosticManager) GetErrorCount() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.errorCount
}

// GetWarningCount returns the number of warnings
func (dm *DiagnosticManager) GetWarningCount() int {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.warningCount
}

// HasErrors returns true if there are any errors
func (dm *DiagnosticManager) HasErrors() bool {
	return dm.GetErrorCount() > 0
}

// SortDiagnostics sorts diagnostics by file, location and severity.
func (dm *DiagnosticManager) SortDiagnostics() {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	sort.SliceStable(dm.diagnostics, func(i, j int) bool {
		a, b := dm.diagnostics[i], dm.diagnostics[j]
		if a.SourceFile != b.SourceFile {
			return a.SourceFile < b.SourceFile
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Level < b.Level
	})
}

// FormatDiagnostic formats a diagnostic for display:
//
//	error[E002]: expected 'end', got 'else'
//	  --> main.inn:3:5
//	   3 | if x do y else
//	     |     ^
func FormatDiagnostic(d Diagnostic, colorize bool) string {
	st := styles{enabled: colorize}

	var result strings.Builder
	header := d.Level.String()
	if d.Code != "" {
		header += "[" + d.Code + "]"
	}
	result.WriteString(st.paint(levelStyle(d.Level), header))
	result.WriteString(st.paint(messageStyle, ": "+d.Message))
	result.WriteString("\n")

	if d.SourceFile == "" && !d.HasPosition() {
		return result.String()
	}
	location := d.SourceFile
	if d.HasPosition() {
		if location != "" {
			location += ":"
		}
		location += d.Pos.String()
	}
	result.WriteString(st.paint(gutterStyle, "  --> ") + location + "\n")

	if !d.HasPosition() || d.Context == "" {
		return result.String()
	}
	number := fmt.Sprintf("%4d", d.Pos.Line)
	result.WriteString(st.paint(gutterStyle, number+" | ") + d.Context + "\n")
	result.WriteString(st.paint(gutterStyle, strings.Repeat(" ", len(number))+" | ") +
		caretPad(d.Context, d.Pos.Column) + st.paint(caretStyle, "^") + "\n")
	return result.String()
}

// caretPad returns the whitespace that puts a caret under the given 1-based
// byte column of line. Tabs are kept so the caret lines up in a terminal.
func caretPad(line string, column int) string {
	n := column - 1
	if n > len(line) {
		n = len(line)
	}
	var pad strings.Builder
	for _, r := range line[:max(n, 0)] {
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
	}
	// A column past the end of the line, such as an error at end of input.
	for i := len(line); i < column-1; i++ {
		pad.WriteRune(' ')
	}
	return pad.String()
}

// FormatAll formats every collected diagnostic in order.
func (dm *DiagnosticManager) FormatAll(colorize bool) string {
	var b strings.Builder
	for _, d := range dm.GetDiagnostics() {
		b.WriteString(FormatDiagnostic(d, colorize))
	}
	return b.String()
}

// FormatSummary formats a summary of all diagnostics
func (dm *DiagnosticManager) FormatSummary() string {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if len(dm.diagnostics) == 0 {
		return "No diagnostics."
	}
	return fmt.Sprintf("Found %d error(s) and %d warning(s).", dm.errorCount, dm.warningCount)
}
