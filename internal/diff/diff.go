// Package diff computes line diffs between rendered contracts using the
// sergi/go-diff library and prints them in unified format.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

func (t LineType) prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	}
	return " "
}

// Line represents a single line in the diff
type Line struct {
	Content string
	Type    LineType
}

// Hunk represents a group of changes
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff represents the changes between two versions of one file
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

// Empty reports whether the versions are identical.
func (d *FileDiff) Empty() bool {
	return len(d.Hunks) == 0
}

// Engine computes line diffs.
type Engine struct {
	dmp     *diffmatchpatch.DiffMatchPatch
	context int
}

// NewEngine creates a diff engine printing context lines around changes.
func NewEngine(context int) *Engine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // Disable timeout for accuracy
	if context < 0 {
		context = 0
	}
	return &Engine{dmp: dmp, context: context}
}

// Compute diffs oldContent against newContent line by line.
func (e *Engine) Compute(oldPath, newPath, oldContent, newContent string) *FileDiff {
	// Line-level reduction avoids newline boundary artifacts.
	a, b, lineArray := e.dmp.DiffLinesToChars(oldContent, newContent)
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	return &FileDiff{
		OldPath: oldPath,
		NewPath: newPath,
		Hunks:   group(toLines(diffs), e.context),
	}
}

// Unified returns the unified diff of the two versions, or "" when they are
// identical.
func (e *Engine) Unified(oldPath, newPath, oldContent, newContent string) string {
	return e.Compute(oldPath, newPath, oldContent, newContent).String()
}

func toLines(diffs []diffmatchpatch.Diff) []Line {
	var out []Line
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if d.Text == "" {
			continue
		}
		typ := LineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = LineAdded
		case diffmatchpatch.DiffDelete:
			typ = LineRemoved
		}
		for _, l := range strings.Split(text, "\n") {
			out = append(out, Line{Content: l, Type: typ})
		}
	}
	return out
}

// group cuts lines into hunks. Changes separated by at most 2*context
// unchanged lines share a hunk.
func group(lines []Line, context int) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(lines) {
		if lines[i].Type == LineContext {
			i++
			continue
		}
		start := max(i-context, 0)
		end := i
		for j := i; j < len(lines); j++ {
			if lines[j].Type != LineContext {
				end = j
				continue
			}
			if j-end > 2*context {
				break
			}
		}
		stop := min(end+context+1, len(lines))
		hunks = append(hunks, newHunk(lines, start, stop))
		i = stop
	}
	return hunks
}

func newHunk(lines []Line, start, stop int) Hunk {
	h := Hunk{Lines: append([]Line(nil), lines[start:stop]...)}
	oldBefore, newBefore := 0, 0
	for _, l := range lines[:start] {
		if l.Type != LineAdded {
			oldBefore++
		}
		if l.Type != LineRemoved {
			newBefore++
		}
	}
	for _, l := range h.Lines {
		if l.Type != LineAdded {
			h.OldCount++
		}
		if l.Type != LineRemoved {
			h.NewCount++
		}
	}
	h.OldStart, h.NewStart = oldBefore+1, newBefore+1
	if h.OldCount == 0 {
		h.OldStart = oldBefore
	}
	if h.NewCount == 0 {
		h.NewStart = newBefore
	}
	return h
}

func (h Hunk) header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// String prints the diff in unified format.
func (d *FileDiff) String() string {
	if d.Empty() {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", d.OldPath, d.NewPath)
	for _, h := range d.Hunks {
		sb.WriteString(h.header())
		sb.WriteByte('\n')
		for _, l := range h.Lines {
			sb.WriteString(l.Type.prefix())
			sb.WriteString(l.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Stats counts added and removed lines.
func (d *FileDiff) Stats() (added, removed int) {
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}
