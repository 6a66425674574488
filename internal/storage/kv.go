package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// KV is the local key-value storage the ledger persists into. It holds a
// handful of keys (the session identity, the serialized record collection),
// each written as one opaque string value.
//
// Readers must tolerate a missing key; Get reports absence through the
// second return value, not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the KV backend selected by name. path is the backing file for
// the file and sqlite backends and ignored for memory.
func Open(name, path string, logger *zap.Logger) (KV, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch name {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		return NewFile(path, logger)
	case BackendSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", name)
	}
}
