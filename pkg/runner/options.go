// Package runner discovers XML documents and processes them concurrently.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to process. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths and glob patterns. Empty means the
	// process working directory.
	WorkingDir string

	// Extensions (lowercase, leading dot) select files during directory
	// walks. Defaults to config.DefaultExtensions().
	Extensions []string

	// SniffContent also accepts extensionless files whose content looks like
	// XML.
	SniffContent bool

	// IncludeGlobs restrict discovery when non-empty.
	IncludeGlobs []string

	// ExcludeGlobs skip files and directories.
	ExcludeGlobs []string

	FollowSymlinks bool

	// Jobs bounds the worker pool; 0 or negative means runtime.NumCPU().
	Jobs int

	// Pipeline is applied to every file.
	Pipeline lint.PipelineOptions

	// Logger receives per-file debug output. Nil discards it.
	Logger *log.Logger
}

// OptionsFromConfig fills discovery options from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string, pipeline lint.PipelineOptions) Options {
	opts := Options{
		Paths:        paths,
		SniffContent: true,
		Pipeline:     pipeline,
	}

	if cfg != nil {
		opts.Extensions = cfg.Extensions
		opts.ExcludeGlobs = cfg.Ignore
		opts.Jobs = cfg.Jobs
	}

	return opts
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
