package progress

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository implements Repository using in-memory storage. It backs
// the test suite and local development without a Firestore emulator.
type MemoryRepository struct {
	mu         sync.RWMutex
	records    map[string]Record
	cardCounts map[string]int
}

// NewMemoryRepository creates a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:    make(map[string]Record),
		cardCounts: make(map[string]int),
	}
}

func (r *MemoryRepository) GetProgress(ctx context.Context, userID string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[userID]
	if !exists {
		return Record{}, ErrNotFound
	}

	return cloneRecord(record), nil
}

func (r *MemoryRepository) SaveProgress(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.UserID] = cloneRecord(record)
	return nil
}

func (r *MemoryRepository) CountFlashcards(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.cardCounts[userID], nil
}

// SetFlashcardCount seeds the created-cards count returned for a user.
func (r *MemoryRepository) SetFlashcardCount(userID string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cardCounts[userID] = count
}

// cloneRecord copies the record's slices so callers never alias the stored
// state.
func cloneRecord(record Record) Record {
	record.TopicsStudied = slices.Clone(record.TopicsStudied)
	record.RecentSessions = slices.Clone(record.RecentSessions)
	record.WeeklyProgress = slices.Clone(record.WeeklyProgress)
	return record
}
