package memory

import (
	"context"
	"sync"

	"notion-quiz-service/internal/domain"
)

// SnapshotStore keeps handoff snapshots in memory: one slot per key,
// last writer wins, no isolation between writers.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]domain.SessionSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]domain.SessionSnapshot),
	}
}

func (s *SnapshotStore) Write(_ context.Context, key string, snapshot domain.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = snapshot
	return nil
}

func (s *SnapshotStore) Read(_ context.Context, key string) (domain.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[key]
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSnapshotNotFound
	}
	return snapshot, nil
}

func (s *SnapshotStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}
