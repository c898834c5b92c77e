// Package fsutil reads and writes documents on disk. Writes are atomic,
// backups are sidecar files, and text is decoded from the byte-order mark
// so UTF-16 documents round-trip.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Sentinel errors for categorization via errors.Is.
var (
	ErrNilFileInfo      = errors.New("nil FileInfo")
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrDecode           = errors.New("invalid text encoding")
)

// FileInfo is the state of a file when it was read, used to detect
// concurrent edits before writing back.
type FileInfo struct {
	Path     string
	Mode     os.FileMode
	ModTime  time.Time
	Size     int64
	Hash     [32]byte
	Encoding Encoding
}

// Document is a decoded file.
type Document struct {
	Text string
	Info *FileInfo
}

// ReadFile reads the raw bytes of path with its metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:     path,
		Mode:     stat.Mode(),
		ModTime:  stat.ModTime(),
		Size:     stat.Size(),
		Hash:     sha256.Sum256(content),
		Encoding: DetectEncoding(content),
	}, nil
}

// ReadDocument reads path and decodes it to UTF-8 text.
func ReadDocument(ctx context.Context, path string) (*Document, error) {
	content, info, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	text, err := Decode(content, info.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	return &Document{Text: text, Info: info}, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// CheckModified reports whether the file changed since info was taken. A
// deleted file counts as modified. With strict set, equal size and mod time
// are confirmed by re-hashing the content.
func CheckModified(ctx context.Context, info *FileInfo, strict bool) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", info.Path, err)
	}

	if !stat.ModTime().Equal(info.ModTime) || stat.Size() != info.Size {
		return true, nil
	}

	if !strict {
		return false, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", info.Path, err)
	}

	return sha256.Sum256(content) != info.Hash, nil
}
