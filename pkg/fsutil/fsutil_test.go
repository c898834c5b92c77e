package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/goxaml/pkg/fsutil"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.xml")
	writeFile(t, path, []byte("<a/>"))

	content, info, err := fsutil.ReadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "<a/>" {
		t.Errorf("content = %q", content)
	}
	if info.Size != 4 || info.Encoding != fsutil.EncodingUTF8 {
		t.Errorf("info = %+v", info)
	}

	_, _, err = fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing.xml"))
	if !errors.Is(err, fsutil.ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}

	_, _, err = fsutil.ReadFile(context.Background(), dir)
	if !errors.Is(err, fsutil.ErrIsDirectory) {
		t.Errorf("directory error = %v, want ErrIsDirectory", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := fsutil.ReadFile(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled error = %v", err)
	}
}

func TestReadDocument_Encodings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    fsutil.Encoding
	}{
		{"plain", []byte("<é/>"), fsutil.EncodingUTF8},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "<é/>"...), fsutil.EncodingUTF8BOM},
		{"utf-16le", []byte{0xFF, 0xFE, '<', 0, 0xE9, 0, '/', 0, '>', 0}, fsutil.EncodingUTF16LE},
		{"utf-16be", []byte{0xFE, 0xFF, 0, '<', 0, 0xE9, 0, '/', 0, '>'}, fsutil.EncodingUTF16BE},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "doc.xml")
			writeFile(t, path, tc.content)

			doc, err := fsutil.ReadDocument(context.Background(), path)
			if err != nil {
				t.Fatalf("ReadDocument() error = %v", err)
			}
			if doc.Text != "<é/>" {
				t.Errorf("text = %q", doc.Text)
			}
			if doc.Info.Encoding != tc.want {
				t.Errorf("encoding = %s, want %s", doc.Info.Encoding, tc.want)
			}

			encoded, err := fsutil.Encode(doc.Text, doc.Info.Encoding)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(encoded) != string(tc.content) {
				t.Errorf("round trip = %x, want %x", encoded, tc.content)
			}
		})
	}
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.xml")
	writeFile(t, path, []byte("<a/>"))

	_, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	for _, strict := range []bool{true, false} {
		modified, err := fsutil.CheckModified(ctx, info, strict)
		if err != nil || modified {
			t.Errorf("unchanged file: modified = %v, err = %v", modified, err)
		}
	}

	// Same size, different content, same mod time.
	writeFile(t, path, []byte("<b/>"))
	if err := os.Chtimes(path, info.ModTime, info.ModTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if modified, _ := fsutil.CheckModified(ctx, info, false); modified {
		t.Error("quick check should not see a same-size edit with restored mod time")
	}
	if modified, _ := fsutil.CheckModified(ctx, info, true); !modified {
		t.Error("strict check should see the content change")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if modified, _ := fsutil.CheckModified(ctx, info, false); !modified {
		t.Error("deleted file should count as modified")
	}

	if _, err := fsutil.CheckModified(ctx, nil, true); !errors.Is(err, fsutil.ErrNilFileInfo) {
		t.Errorf("nil info error = %v", err)
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xml")

	if err := fsutil.WriteAtomic(ctx, path, []byte("<a/>"), 0); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if stat.Mode().Perm() != fsutil.DefaultFileMode {
		t.Errorf("mode = %v", stat.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}

	err = fsutil.WriteAtomic(ctx, filepath.Join(dir, "missing", "out.xml"), []byte("x"), 0)
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.xml")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("<a/>"), 0)
	if err != nil || !written {
		t.Fatalf("first write: written = %v, err = %v", written, err)
	}

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("<a/>"), 0)
	if err != nil || written {
		t.Errorf("same content: written = %v, err = %v", written, err)
	}
}

func TestBackups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.xml")
	writeFile(t, path, []byte("original"))

	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	if err != nil || !created {
		t.Fatalf("CreateBackup() = %v, %v", created, err)
	}

	writeFile(t, path, []byte("changed"))

	// An existing backup is never overwritten.
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	if err != nil || created {
		t.Errorf("second CreateBackup() = %v, %v", created, err)
	}

	restored, err := fsutil.RestoreBackup(ctx, path, cfg.Mode)
	if err != nil || !restored {
		t.Fatalf("RestoreBackup() = %v, %v", restored, err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("restored content = %q", got)
	}

	removed, err := fsutil.RemoveBackup(path, cfg.Mode)
	if err != nil || !removed {
		t.Errorf("RemoveBackup() = %v, %v", removed, err)
	}

	removed, _ = fsutil.RemoveBackup(path, cfg.Mode)
	if removed {
		t.Error("second RemoveBackup() reported a removal")
	}
}

func TestBackupDisabled(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.xml")
	writeFile(t, path, []byte("x"))

	for _, cfg := range []fsutil.BackupConfig{
		fsutil.DefaultBackupConfig(),
		{Enabled: true, Mode: fsutil.BackupModeNone},
	} {
		created, err := fsutil.CreateBackup(context.Background(), path, cfg)
		if err != nil || created {
			t.Errorf("CreateBackup(%+v) = %v, %v", cfg, created, err)
		}
	}

	if got := fsutil.BackupPath(path, fsutil.BackupModeNone); got != "" {
		t.Errorf("BackupPath(none) = %q", got)
	}
	if got := fsutil.BackupPath("a.xml", "unknown"); got != "a.xml"+fsutil.BackupSuffix {
		t.Errorf("BackupPath(unknown) = %q", got)
	}
}

func TestEncodingString(t *testing.T) {
	t.Parallel()

	if got := fsutil.EncodingUTF16LE.String(); got != "utf-16le" {
		t.Errorf("String() = %q", got)
	}
	if got := fsutil.Encoding(9).String(); got != "Encoding(9)" {
		t.Errorf("String() = %q", got)
	}
}
