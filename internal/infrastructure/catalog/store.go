package catalog

import (
	"context"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/matlens/backend/internal/domain"
)

// Source opens the raw catalog feed for reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the catalog feed from a local path.
type FileSource struct {
	Path string
}

func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Store owns the process-lifetime catalog snapshot. The snapshot is
// loaded on first access behind a single-flight lock and is immutable
// once built; Reload builds a fresh snapshot and swaps it atomically.
//
// Load failures fail open: matching is an assistive feature, so the
// store logs the failure and serves an empty snapshot instead of
// propagating errors into every match call.
type Store struct {
	source Source
	logger *zap.Logger

	mu      sync.Mutex
	current *Snapshot // nil until first access
}

// NewStore creates a store over the given source. The snapshot is not
// loaded until the first Snapshot call.
func NewStore(source Source, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{source: source, logger: logger}
}

// NewStaticStore creates a store preloaded with the given entries. Used
// by tests and import tooling that already hold catalog rows in memory.
func NewStaticStore(entries []domain.CatalogEntry) *Store {
	return &Store{logger: zap.NewNop(), current: NewSnapshot(entries)}
}

// Snapshot returns the current catalog snapshot, loading it on first
// access. Concurrent first calls block until the single load finishes.
func (s *Store) Snapshot(ctx context.Context) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		snap, err := s.load(ctx)
		if err != nil {
			s.logger.Warn("catalog load failed, serving empty catalog", zap.Error(err))
			snap = NewSnapshot(nil)
		}
		s.current = snap
	}
	return s.current
}

// Reload builds a fresh snapshot and swaps it in. On failure the
// previous snapshot stays in place and the error is returned.
func (s *Store) Reload(ctx context.Context) error {
	snap, err := s.load(ctx)
	if err != nil {
		s.logger.Error("catalog reload failed, keeping previous snapshot", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("catalog reloaded", zap.Int("entries", snap.Len()))
	return nil
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	if s.source == nil {
		return NewSnapshot(nil), nil
	}
	r, err := s.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	entries, err := Parse(r)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog loaded", zap.Int("entries", len(entries)))
	return NewSnapshot(entries), nil
}
