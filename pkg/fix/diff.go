package fix

import (
	"fmt"
	"strings"
)

// LineOp is the role of a line in a hunk.
type LineOp byte

// Hunk line operations, using their unified diff prefixes.
const (
	OpKeep   LineOp = ' '
	OpInsert LineOp = '+'
	OpDelete LineOp = '-'
)

// DiffLine is one line of a hunk.
type DiffLine struct {
	Op   LineOp
	Text string
}

// Hunk is a run of changes with surrounding context. Start lines are 1-based.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []DiffLine
}

// Diff is the line difference between two versions of a file.
type Diff struct {
	Path     string
	Hunks    []Hunk
	Inserted int
	Deleted  int
}

const diffContext = 3

// Compute diffs before and after. It returns nil when they are equal.
func Compute(path, before, after string) *Diff {
	if before == after {
		return nil
	}

	ops := lineOps(splitLines(before), splitLines(after))

	d := &Diff{Path: path}
	for _, op := range ops {
		switch op.Op {
		case OpInsert:
			d.Inserted++
		case OpDelete:
			d.Deleted++
		}
	}

	d.Hunks = hunks(ops)
	if len(d.Hunks) == 0 {
		// Only the trailing newline differs.
		return nil
	}

	return d
}

// HasChanges reports whether d holds any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders d in unified format with a/ and b/ prefixes.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	name := strings.TrimPrefix(d.Path, "/")

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", name, name)

	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		for _, l := range h.Lines {
			b.WriteByte(byte(l.Op))
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineOps builds an edit script from the longest common subsequence table.
func lineOps(a, b []string) []DiffLine {
	n, m := len(a), len(b)

	// suffix[i][j] is the LCS length of a[i:] and b[j:].
	suffix := make([][]int, n+1)
	for i := range suffix {
		suffix[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				suffix[i][j] = suffix[i+1][j+1] + 1
			} else {
				suffix[i][j] = max(suffix[i+1][j], suffix[i][j+1])
			}
		}
	}

	ops := make([]DiffLine, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, DiffLine{OpKeep, a[i]})
			i++
			j++
		case suffix[i+1][j] >= suffix[i][j+1]:
			ops = append(ops, DiffLine{OpDelete, a[i]})
			i++
		default:
			ops = append(ops, DiffLine{OpInsert, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, DiffLine{OpDelete, a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, DiffLine{OpInsert, b[j]})
	}

	return ops
}

// hunks groups changed lines, merging groups separated by less than twice
// the context size.
func hunks(ops []DiffLine) []Hunk {
	var out []Hunk

	idx := 0
	for idx < len(ops) {
		for idx < len(ops) && ops[idx].Op == OpKeep {
			idx++
		}
		if idx == len(ops) {
			break
		}

		start := max(idx-diffContext, 0)

		end := idx
		for end < len(ops) {
			if ops[end].Op != OpKeep {
				end++
				continue
			}

			run := end
			for run < len(ops) && ops[run].Op == OpKeep {
				run++
			}
			if run == len(ops) || run-end > 2*diffContext {
				break
			}
			end = run
		}

		stop := min(end+diffContext, len(ops))
		out = append(out, makeHunk(ops, start, stop))
		idx = stop
	}

	return out
}

func makeHunk(ops []DiffLine, start, stop int) Hunk {
	h := Hunk{OldStart: 1, NewStart: 1}

	for _, op := range ops[:start] {
		if op.Op != OpInsert {
			h.OldStart++
		}
		if op.Op != OpDelete {
			h.NewStart++
		}
	}

	h.Lines = append(h.Lines, ops[start:stop]...)
	for _, op := range h.Lines {
		if op.Op != OpInsert {
			h.OldLines++
		}
		if op.Op != OpDelete {
			h.NewLines++
		}
	}

	return h
}
