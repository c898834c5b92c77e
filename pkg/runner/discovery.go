package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/goxaml/pkg/langdetect"
)

// sniffSize is how much of an extensionless file is read for detection.
const sniffSize = 512

// Discover returns the sorted, de-duplicated absolute paths of the documents
// opts selects. Explicitly named files are accepted whatever their
// extension; directory walks skip hidden entries and filter by extension.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		ctx:        ctx,
		opts:       opts,
		workDir:    workDir,
		extensions: make(map[string]bool),
		seen:       make(map[string]bool),
	}
	for _, ext := range opts.effectiveExtensions() {
		d.extensions[strings.ToLower(ext)] = true
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := d.walk(abs); err != nil {
				return nil, err
			}
			continue
		}

		if !d.excluded(abs) {
			d.add(abs)
		}
	}

	slices.Sort(d.files)

	return d.files, nil
}

type discoverer struct {
	ctx        context.Context
	opts       Options
	workDir    string
	extensions map[string]bool
	seen       map[string]bool
	files      []string
}

func (d *discoverer) add(path string) {
	if d.seen[path] {
		return
	}
	d.seen[path] = true
	d.files = append(d.files, path)
}

func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func (d *discoverer) excluded(p string) bool {
	rel := d.rel(p)

	if matchAny(rel, d.opts.ExcludeGlobs) {
		return true
	}

	return len(d.opts.IncludeGlobs) > 0 && !matchAny(rel, d.opts.IncludeGlobs)
}

func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (p != root && matchAny(d.rel(p), d.opts.ExcludeGlobs)) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(p)
		}

		if d.wanted(p) {
			d.add(p)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}

	return nil
}

// symlink follows file links always and directory links only with
// FollowSymlinks. Broken links are skipped.
func (d *discoverer) symlink(p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}

	if !info.IsDir() {
		if d.wanted(p) {
			d.add(p)
		}
		return nil
	}

	if !d.opts.FollowSymlinks {
		return nil
	}

	return d.walk(target)
}

func (d *discoverer) wanted(p string) bool {
	if d.excluded(p) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(p))
	if d.extensions[ext] {
		return true
	}

	return ext == "" && d.opts.SniffContent && sniff(p)
}

func sniff(p string) bool {
	f, err := os.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}

	return langdetect.IsXML(p, head[:n])
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func matchAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchGlob(rel, pattern) {
			return true
		}
	}
	return false
}

// MatchGlob matches a slash-separated relative path against pattern. A "**"
// segment matches any number of segments. A pattern without a slash also
// matches the base name, so "*.g.xaml" applies in every directory.
func MatchGlob(rel, pattern string) bool {
	rel = filepath.ToSlash(rel)
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")

	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		ok, _ := path.Match(pattern, path.Base(rel))
		if ok {
			return true
		}
	}

	return matchSegments(strings.Split(rel, "/"), strings.Split(pattern, "/"))
}

func matchSegments(parts, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := range parts {
				if matchSegments(parts[i:], rest) {
					return true
				}
			}
			return false
		}

		if len(parts) == 0 {
			return false
		}

		ok, err := path.Match(pattern[0], parts[0])
		if err != nil || !ok {
			return false
		}

		parts, pattern = parts[1:], pattern[1:]
	}

	return len(parts) == 0
}
