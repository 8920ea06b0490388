package progress

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

type recordKey struct {
	userID string
	domain string
}

type memoryRecord struct {
	mu  sync.Mutex
	rec *RoadmapProgress
}

// MemoryStore is an in-process Store. Updates to the same record are serialized
// by a per-record mutex; updates to different records proceed in parallel.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]*memoryRecord
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]*memoryRecord)}
}

func (s *MemoryStore) lookup(userID, domain string) *memoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[recordKey{userID, domain}]
}

// FindProgress returns a copy of the record, or nil when none exists.
func (s *MemoryStore) FindProgress(ctx context.Context, userID, domain string) (*RoadmapProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := s.lookup(userID, domain)
	if r == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Clone(), nil
}

// InsertProgress stores a copy of p unless (user, domain) already has a record.
func (s *MemoryStore) InsertProgress(ctx context.Context, p *RoadmapProgress) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := recordKey{p.UserID, p.Domain}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[key]; exists {
		return false, nil
	}
	s.records[key] = &memoryRecord{rec: p.Clone()}
	return true, nil
}

// UpdateProgress runs fn on a copy under the record lock and keeps the copy
// only when fn succeeds. A missing record yields nil, nil.
func (s *MemoryStore) UpdateProgress(ctx context.Context, userID, domain string, fn UpdateFunc) (*RoadmapProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := s.lookup(userID, domain)
	if r == nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	working := r.rec.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.Version = r.rec.Version + 1
	r.rec = working
	return working.Clone(), nil
}

// ListProgress returns copies of every record of userID, oldest first.
func (s *MemoryStore) ListProgress(ctx context.Context, userID string) ([]RoadmapProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	owned := make([]*memoryRecord, 0)
	for key, r := range s.records {
		if key.userID == userID {
			owned = append(owned, r)
		}
	}
	s.mu.RUnlock()

	out := make([]RoadmapProgress, 0, len(owned))
	for _, r := range owned {
		r.mu.Lock()
		out = append(out, *r.rec.Clone())
		r.mu.Unlock()
	}
	SortRecords(out)
	return out, nil
}

// SortRecords orders records by creation time, then domain.
func SortRecords(records []RoadmapProgress) {
	slices.SortFunc(records, func(a, b RoadmapProgress) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Domain, b.Domain)
	})
}
