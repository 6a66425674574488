package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhashir/textrack/internal/domain/models"
	"github.com/mhashir/textrack/internal/storage"
)

// recordsKey holds the serialized record collection in local storage. The
// key name is versioned; bumping it orphans (rather than corrupts) data
// written under an older layout.
const recordsKey = "textrack_records_simplified_v2"

// Store owns the record collection. It reads persisted state once at
// construction and writes the full collection back through on every
// mutation, so memory and storage never drift apart.
//
// The logical model is a single writer (one session, one ledger), but the
// HTTP surface serves requests concurrently, hence the mutex.
type Store struct {
	mu       sync.Mutex
	kv       storage.KV
	identity string
	records  []models.Record
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore rehydrates the collection from kv. Missing state means a fresh
// ledger; stored text that fails to parse is logged and replaced with an
// empty collection instead of failing startup.
func NewStore(ctx context.Context, kv storage.KV, identity string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		kv:       kv,
		identity: identity,
		now:      time.Now,
		logger:   logger,
	}

	raw, ok, err := kv.Get(ctx, recordsKey)
	if err != nil {
		return nil, fmt.Errorf("load record collection: %w", err)
	}
	if !ok {
		return s, nil
	}

	if err := json.Unmarshal([]byte(raw), &s.records); err != nil {
		logger.Warn("persisted record collection unparseable, starting empty", zap.Error(err))
		s.records = nil
	}

	return s, nil
}

// Identity returns the session stamp this store creates records under.
func (s *Store) Identity() string { return s.identity }

// All returns a copy of the collection in storage order. Ordering for
// display is the view pipeline's concern, not the store's.
func (s *Store) All() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Create stamps and persists a new record. Fields are accepted as-is; the
// ledger is free text by design.
func (s *Store) Create(ctx context.Context, fields models.RecordFields) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixMilli()
	rec := models.Record{
		ID:        uuid.NewString(),
		CreatedBy: s.identity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields.Apply(&rec)

	s.records = append([]models.Record{rec}, s.records...)
	if err := s.persistLocked(ctx); err != nil {
		s.records = s.records[1:]
		return models.Record{}, err
	}

	s.logger.Info("record created", zap.String("id", rec.ID), zap.String("entry_date", rec.EntryDate))
	return rec, nil
}

// Update replaces the mutable fields of the record with the given id.
// ID, ownership stamp and creation time stay frozen; UpdatedAt is bumped.
func (s *Store) Update(ctx context.Context, id string, fields models.RecordFields) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Record{}, ErrNotFound
	}
	if s.records[idx].CreatedBy != s.identity {
		return models.Record{}, ErrPermissionDenied
	}

	prev := s.records[idx]
	fields.Apply(&s.records[idx])
	s.records[idx].UpdatedAt = s.now().UnixMilli()

	if err := s.persistLocked(ctx); err != nil {
		s.records[idx] = prev
		return models.Record{}, err
	}

	s.logger.Info("record updated", zap.String("id", id))
	return s.records[idx], nil
}

// Delete removes the record with the given id. Removal is hard: no
// tombstone remains in memory or storage.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrNotFound
	}
	if s.records[idx].CreatedBy != s.identity {
		return ErrPermissionDenied
	}

	removed := s.records[idx]
	s.records = append(s.records[:idx], s.records[idx+1:]...)

	if err := s.persistLocked(ctx); err != nil {
		s.records = append(s.records[:idx], append([]models.Record{removed}, s.records[idx:]...)...)
		return err
	}

	s.logger.Info("record deleted", zap.String("id", id))
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked rewrites the entire collection. Every mutation results in
// exactly one full write; there is no append or partial persistence.
func (s *Store) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encode record collection: %w", err)
	}
	if err := s.kv.Set(ctx, recordsKey, string(raw)); err != nil {
		return fmt.Errorf("persist record collection: %w", err)
	}
	return nil
}
