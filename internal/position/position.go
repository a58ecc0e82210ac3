// Package position provides source position tracking shared by the
// tokenizer, the parser and the diagnostics renderer.
package position

import (
	"fmt"
	"strings"
)

// Position represents a single point in source code
type Position struct {
	Line   int // 1-based line (row) number
	Column int // 1-based column number
	Offset int // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// SourceFile represents a source file with content and line access
type SourceFile struct {
	Filename string   // File path
	Content  string   // Source code content
	Lines    []string // Lines of source code for efficient access
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	norm := strings.ReplaceAll(content, "\r\n", "\n")
	return &SourceFile{
		Filename: filename,
		Content:  content,
		Lines:    strings.Split(norm, "\n"),
	}
}

// GetLine returns the specified line (1-based) or empty string if invalid
func (sf *SourceFile) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(sf.Lines) {
		return ""
	}
	return sf.Lines[lineNum-1]
}

// Locate prefixes the position with the file name, the way compilers
// report it on the command line.
func (sf *SourceFile) Locate(pos Position) string {
	if sf.Filename == "" {
		return pos.String()
	}
	return fmt.Sprintf("%s:%s", sf.Filename, pos)
}
