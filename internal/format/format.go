// Package format renders inn programs in canonical layout.
package format

import (
	"strings"

	"github.com/inn-lang/inn/internal/lexer"
	"github.com/inn-lang/inn/internal/parser"
)

// Options controls formatting style.
type Options struct {
	// PreserveNewlineStyle: when true, CRLF in input keeps CRLF in output; else LF.
	PreserveNewlineStyle bool
	// IndentSize is the number of spaces per block level.
	IndentSize int
	// PreferTabs indents with one tab per level instead of spaces.
	PreferTabs bool
}

// DefaultOptions returns sane defaults.
func DefaultOptions() Options {
	return Options{PreserveNewlineStyle: true, IndentSize: 4}
}

// Source formats inn source text. The tree does not keep comments, so a
// source containing comments only gets the whitespace cleanup of
// FormatText; structural reports whether the full re-rendering was applied.
// Lexical and syntax errors are returned unchanged.
func Source(src string, opts Options) (formatted string, structural bool, err error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return "", false, err
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		return "", false, err
	}

	for _, tok := range tokens {
		if tok.Type == lexer.TokenComment {
			return FormatText(src, opts), false, nil
		}
	}

	out, err := NewASTFormatter(opts).FormatProgram(prog)
	if err != nil {
		return "", false, err
	}
	if out == "" {
		out = "\n"
	}
	// Rendered strings escape LF, so every LF here is a line end.
	if opts.PreserveNewlineStyle && strings.Contains(src, "\r\n") {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out, true, nil
}

// FormatBytes applies FormatText to source bytes.
func FormatBytes(in []byte, opts Options) []byte {
	return []byte(FormatText(string(in), opts))
}

// FormatText applies minimal, safe formatting:
// - trims trailing spaces/tabs on each line
// - ensures exactly one trailing newline
// - preserves CRLF vs LF depending on options and input.
//
// Bytes inside string literals are copied unchanged, line breaks and
// trailing blanks included.
func FormatText(text string, opts Options) string {
	sep := "\n"
	if opts.PreserveNewlineStyle && strings.Contains(text, "\r\n") {
		sep = "\r\n"
	}

	var (
		out []byte
		// keep is the length of out that trimming must not cut into.
		keep                          int
		inString, inComment, escaped bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			out = append(out, c)
			keep = len(out)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			continue
		}
		if c == '\n' {
			inComment = false
			out = trimBlanks(out, keep, " \t")
			out = append(out, sep...)
			continue
		}
		if !inComment {
			switch c {
			case '#':
				inComment = true
			case '"':
				inString = true
			}
		}
		out = append(out, c)
		if inString {
			keep = len(out)
		}
	}

	// Drop trailing blank lines; exactly one line end is re-added.
	out = trimBlanks(out, keep, " \t\r\n")
	return string(out) + sep
}

// trimBlanks removes trailing bytes found in cutset, never shortening b
// below keep.
func trimBlanks(b []byte, keep int, cutset string) []byte {
	for len(b) > keep && strings.IndexByte(cutset, b[len(b)-1]) >= 0 {
		b = b[:len(b)-1]
	}
	return b
}
