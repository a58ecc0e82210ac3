package format

import (
	"fmt"
	"strings"
)

// DiffOptions controls diff generation.
type DiffOptions struct {
	Context     int  // Number of context lines around each change
	ShowNumbers bool // Prefix every line with its line number
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Context: 3}
}

// DiffResult represents the result of a diff operation.
type DiffResult struct {
	Hunks      []Hunk
	Stats      DiffStat
	HasChanges bool
}

// Hunk represents a contiguous block of changes with its context.
type Hunk struct {
	Header        string
	Lines         []Line
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
}

// Line represents a single line in a diff.
type Line struct {
	Content string
	Type    LineType
	Number  int // line number in the original for context and removed lines, else in the modified text
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // Unchanged context line
	LineTypeAdded                   // Added line (+)
	LineTypeRemoved                 // Removed line (-)
)

// DiffStat contains statistics about changes.
type DiffStat struct {
	LinesAdded   int
	LinesRemoved int
}

// DiffFormatter generates unified diffs between an original source and its
// formatted version.
type DiffFormatter struct {
	options DiffOptions
}

// NewDiffFormatter creates a new diff formatter.
func NewDiffFormatter(options DiffOptions) *DiffFormatter {
	if options.Context < 0 {
		options.Context = 0
	}
	return &DiffFormatter{options: options}
}

// GenerateDiff creates a diff between original and modified source.
func (df *DiffFormatter) GenerateDiff(original, modified string) *DiffResult {
	ops := diffLines(splitLines(original), splitLines(modified))
	hunks := df.groupHunks(ops)

	result := &DiffResult{Hunks: hunks, HasChanges: len(hunks) > 0}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineTypeAdded:
				result.Stats.LinesAdded++
			case LineTypeRemoved:
				result.Stats.LinesRemoved++
			}
		}
	}
	return result
}

// FormatDiff formats a diff result as a unified diff.
func (df *DiffFormatter) FormatDiff(filename string, result *DiffResult) string {
	if !result.HasChanges {
		return ""
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("--- %s\t(original)\n", filename))
	output.WriteString(fmt.Sprintf("+++ %s\t(formatted)\n", filename))

	for _, hunk := range result.Hunks {
		output.WriteString(hunk.Header + "\n")
		for _, line := range hunk.Lines {
			prefix := " "
			switch line.Type {
			case LineTypeAdded:
				prefix = "+"
			case LineTypeRemoved:
				prefix = "-"
			}
			if df.options.ShowNumbers {
				output.WriteString(fmt.Sprintf("%s%4d: %s\n", prefix, line.Number, line.Content))
			} else {
				output.WriteString(prefix + line.Content + "\n")
			}
		}
	}
	return output.String()
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// diffOp is one line of an edit script.
type diffOp struct {
	kind LineType
	a, b int // 0-based indexes into original and modified
	text string
}

// diffLines computes a shortest edit script from a longest common
// subsequence table. Sources are small enough for the quadratic table.
func diffLines(a, b []string) []diffOp {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var ops []diffOp
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, diffOp{LineTypeContext, i, j, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, diffOp{LineTypeRemoved, i, j, a[i]})
			i++
		default:
			ops = append(ops, diffOp{LineTypeAdded, i, j, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, diffOp{LineTypeRemoved, i, j, a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, diffOp{LineTypeAdded, i, j, b[j]})
	}
	return ops
}

// groupHunks cuts the edit script into hunks, merging changes whose context
// windows overlap.
func (df *DiffFormatter) groupHunks(ops []diffOp) []Hunk {
	ctx := df.options.Context

	var hunks []Hunk
	for start := 0; start < len(ops); {
		if ops[start].kind == LineTypeContext {
			start++
			continue
		}

		// Extend the hunk until a run of more than 2*ctx unchanged lines.
		end := start
		for k := start; k < len(ops); k++ {
			if ops[k].kind != LineTypeContext {
				end = k
				continue
			}
			if k-end > 2*ctx {
				break
			}
		}

		from := max(0, start-ctx)
		to := min(len(ops), end+ctx+1)
		hunks = append(hunks, makeHunk(ops[from:to]))
		start = to
	}
	return hunks
}

func makeHunk(ops []diffOp) Hunk {
	h := Hunk{OriginalStart: ops[0].a + 1, ModifiedStart: ops[0].b + 1}
	for _, op := range ops {
		line := Line{Content: op.text, Type: op.kind, Number: op.a + 1}
		switch op.kind {
		case LineTypeContext:
			h.OriginalCount++
			h.ModifiedCount++
		case LineTypeRemoved:
			h.OriginalCount++
		case LineTypeAdded:
			h.ModifiedCount++
			line.Number = op.b + 1
		}
		h.Lines = append(h.Lines, line)
	}
	if h.OriginalCount == 0 {
		h.OriginalStart--
	}
	if h.ModifiedCount == 0 {
		h.ModifiedStart--
	}
	h.Header = fmt.Sprintf("@@ -%d,%d +%d,%d @@",
		h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
	return h
}

// FormatWithDiff formats source and returns both the formatted source and a
// unified diff against the input, empty when nothing changed.
func FormatWithDiff(filename, source string, options Options, diffOptions DiffOptions) (formatted string, diff string, err error) {
	formatted, _, err = Source(source, options)
	if err != nil {
		return "", "", err
	}

	if formatted != source {
		formatter := NewDiffFormatter(diffOptions)
		result := formatter.GenerateDiff(source, formatted)
		diff = formatter.FormatDiff(filename, result)
	}
	return formatted, diff, nil
}
