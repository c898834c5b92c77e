package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/goxaml/internal/ui/pretty"
	"github.com/yaklabco/goxaml/pkg/fix"
	"github.com/yaklabco/goxaml/pkg/runner"
)

// DiffReporter prints pending formatting changes as git-style unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. It returns the number of files with changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, inserted, deleted int

	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(r.opts.DisplayPath(file.Path)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := file.Result.Diff
		files++
		inserted += diff.Inserted
		deleted += diff.Deleted
		r.writeDiff(diff)
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(files, inserted, deleted)
	}

	return files, nil
}

func (r *DiffReporter) writeDiff(diff *fix.Diff) {
	name := strings.TrimPrefix(r.opts.DisplayPath(diff.Path), "/")

	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", name, name)))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+name))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+name))

	for _, h := range diff.Hunks {
		fmt.Fprintln(r.bw, r.styles.DiffHunk.Render(
			fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)))

		for _, line := range h.Lines {
			text := string(line.Op) + line.Text
			switch line.Op {
			case fix.OpInsert:
				fmt.Fprintln(r.bw, r.styles.DiffAdd.Render(text))
			case fix.OpDelete:
				fmt.Fprintln(r.bw, r.styles.DiffRemove.Render(text))
			default:
				fmt.Fprintln(r.bw, r.styles.DiffContext.Render(text))
			}
		}
	}

	fmt.Fprintln(r.bw)
}

func (r *DiffReporter) writeSummary(files, inserted, deleted int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}

	if inserted > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", inserted, plural(inserted, "insertion", "insertions"))))
	}
	if deleted > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deleted, plural(deleted, "deletion", "deletions"))))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
