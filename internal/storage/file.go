package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// File keeps every key in a single JSON document on disk, rewritten in full
// on each mutation. This mirrors the original browser-local-storage model:
// one small file, whole-value writes, no partial updates.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
	logger *zap.Logger
}

// NewFile opens (or lazily creates) a file-backed store at path. A missing
// file is an empty store. A file that exists but cannot be parsed is also
// treated as empty: a damaged ledger file must not stop the service from
// starting.
func NewFile(path string, logger *zap.Logger) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("file storage requires a path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &File{path: path, values: map[string]string{}, logger: logger}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &f.values); err != nil {
		logger.Warn("storage file unparseable, starting empty",
			zap.String("path", path), zap.Error(err))
		f.values = map[string]string{}
	}

	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flushLocked()
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return f.flushLocked()
}

func (f *File) Close() error { return nil }

// flushLocked rewrites the whole document via a temp file and rename, so a
// crash mid-write leaves the previous version intact.
func (f *File) flushLocked() error {
	raw, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage document: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".textrack-*")
	if err != nil {
		return fmt.Errorf("create temp storage file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp storage file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file %s: %w", f.path, err)
	}

	return nil
}
