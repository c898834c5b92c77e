package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yaklabco/goxaml/pkg/config"
)

// projectDir returns a temp dir marked as a VCS root so the upward search
// never leaves it.
func projectDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.FormattingStyle != config.DefaultFormattingStyle {
		t.Errorf("FormattingStyle = %q, want %q", cfg.FormattingStyle, config.DefaultFormattingStyle)
	}
	if !cfg.Strict {
		t.Error("Strict should default to true")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want none", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".goxaml.yml"), `
formatting_style: multiLineAttributes
indent_size: 4
strict: false
schemas:
  - schemas/wpf.xsd
auto_close:
  delay: 100ms
`)

	// Search starts in a subdirectory and walks up.
	sub := filepath.Join(dir, "src", "views")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(sub))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.FormattingStyle != "multiLineAttributes" {
		t.Errorf("FormattingStyle = %q", cfg.FormattingStyle)
	}
	if cfg.IndentSize != 4 {
		t.Errorf("IndentSize = %d, want 4", cfg.IndentSize)
	}
	if cfg.Strict {
		t.Error("strict: false in the file should switch strict off")
	}
	if want := filepath.Join(dir, "schemas", "wpf.xsd"); len(cfg.Schemas) != 1 || cfg.Schemas[0] != want {
		t.Errorf("Schemas = %v, want [%s]", cfg.Schemas, want)
	}
	if cfg.AutoClose.Delay != 100*time.Millisecond {
		t.Errorf("AutoClose.Delay = %v", cfg.AutoClose.Delay)
	}
	if cfg.AutoClose.MaxLines != config.DefaultMaxLines {
		t.Errorf("unset auto_close keys should keep defaults, MaxLines = %d", cfg.AutoClose.MaxLines)
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".goxaml.yml"), "indent_size: 8\n")

	inner := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(inner, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(inner))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Paths.Project != "" {
		t.Errorf("Project = %q, want none beyond the VCS root", result.Paths.Project)
	}
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".goxaml.yml"), "indent_size: 4\nuse_tabs: true\n")
	custom := filepath.Join(dir, "ci", "goxaml.yml")
	writeFile(t, custom, "indent_size: 3\nend_of_line: crlf\n")

	opts := isolated(dir)
	opts.ExplicitPath = custom

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.IndentSize != 3 {
		t.Errorf("IndentSize = %d, want 3", cfg.IndentSize)
	}
	if !cfg.UseTabs {
		t.Error("UseTabs from the project layer should survive")
	}
	if cfg.EndOfLine != config.EndOfLineCRLF {
		t.Errorf("EndOfLine = %q", cfg.EndOfLine)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != custom {
		t.Errorf("LoadedFrom = %v", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".goxaml.yml"), "schemas: [a.xsd]\nstrict: false\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		FormattingStyle: "fileSizeOptimized",
		Schemas:         []string{"b.yml"},
		Jobs:            3,
		Strict:          true,
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.FormattingStyle != "fileSizeOptimized" {
		t.Errorf("FormattingStyle = %q", cfg.FormattingStyle)
	}
	if cfg.Jobs != 3 {
		t.Errorf("Jobs = %d", cfg.Jobs)
	}
	if !cfg.Strict {
		t.Error("CLI strict should win")
	}
	if len(cfg.Schemas) != 2 || cfg.Schemas[1] != "b.yml" {
		t.Errorf("Schemas = %v, want file schema then CLI schema", cfg.Schemas)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown style", "formatting_style: compact\n", "formatting_style"},
		{"unknown key", "flavor: gfm\n", "field flavor not found"},
		{"bad eol", "end_of_line: cr\n", "end_of_line"},
		{"bad schema", "schemas: [wpf.dtd]\n", "schemas[0]"},
		{"bad mapping", "schema_mapping:\n  - xmlns: urn:x\n", "xsd_uri"},
		{"bad delay", "auto_close:\n  delay: soon\n", "parse YAML"},
		{"bad ignore", "ignore: ['[']\n", "ignore[0]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, ".goxaml.yml"), tc.content)

			_, err := Load(context.Background(), isolated(dir))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_ValidationErrorType(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".goxaml.yml"), "indent_size: -1\n")

	_, err := Load(context.Background(), isolated(dir))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a *ValidationError", err)
	}
	if verr.Field != "indent_size" {
		t.Errorf("Field = %q", verr.Field)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".goxaml.yml"), "")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.IndentSize != config.DefaultIndentSize {
		t.Errorf("IndentSize = %d", result.Config.IndentSize)
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".goxaml.yml"), "extensions: [xaml]\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "extensions[0]") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(projectDir(t))); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestLoad_UserConfigFromXDG(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "goxaml", "config.yaml"), "indent_size: 6\n")
	t.Setenv("XDG_CONFIG_HOME", home)

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:         projectDir(t),
		IgnoreSystemConfig: true,
		IgnoreEnv:          true,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.IndentSize != 6 {
		t.Errorf("IndentSize = %d, want 6", result.Config.IndentSize)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOXAML_STRICT", "false")
	t.Setenv("GOXAML_INDENT_SIZE", "4")
	t.Setenv("GOXAML_END_OF_LINE", "CRLF")
	t.Setenv("GOXAML_SCHEMAS", "a.xsd, b.yml,")
	t.Setenv("GOXAML_AUTO_CLOSE_DELAY", "1s")

	cfg := config.NewConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Strict {
		t.Error("Strict should be false")
	}
	if cfg.IndentSize != 4 {
		t.Errorf("IndentSize = %d", cfg.IndentSize)
	}
	if cfg.EndOfLine != config.EndOfLineCRLF {
		t.Errorf("EndOfLine = %q", cfg.EndOfLine)
	}
	if len(cfg.Schemas) != 2 || cfg.Schemas[1] != "b.yml" {
		t.Errorf("Schemas = %v", cfg.Schemas)
	}
	if cfg.AutoClose.Delay != time.Second {
		t.Errorf("AutoClose.Delay = %v", cfg.AutoClose.Delay)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("GOXAML_USE_TABS", "maybe")

	err := LoadFromEnv(config.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "GOXAML_USE_TABS") {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	if got := GetEnvVarName("auto_close.delay"); got != "GOXAML_AUTO_CLOSE_DELAY" {
		t.Errorf("GetEnvVarName() = %q", got)
	}
	if got := GetEnvVarName("nope"); got != "" {
		t.Errorf("GetEnvVarName(nope) = %q", got)
	}
	if len(ListEnvVars()) != len(envMappings) {
		t.Error("ListEnvVars() should describe every mapping")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	merged := MergeAll(base,
		&config.Config{IndentSize: 4, Schemas: []string{"a.xsd"}},
		&config.Config{UseTabs: true, Schemas: []string{"a.xsd", "b.xsd"}, Ignore: []string{"bin/**"}},
	)

	if merged.IndentSize != 4 || !merged.UseTabs {
		t.Errorf("scalars not merged: %+v", merged)
	}
	if len(merged.Schemas) != 2 {
		t.Errorf("Schemas = %v, want deduplicated [a.xsd b.xsd]", merged.Schemas)
	}
	if len(merged.Ignore) != 1 {
		t.Errorf("Ignore = %v", merged.Ignore)
	}
	if len(base.Schemas) != 0 {
		t.Error("merge must not modify base")
	}
	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should be nil")
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "x.yml")
	writeFile(t, path, "formatting_style: bogus\n")

	_, err := LoadFile(path)

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.FilePath != path {
		t.Fatalf("LoadFile() error = %v, want validation error for %s", err, path)
	}
}
