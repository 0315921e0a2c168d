package store

import (
	"sort"
	"sync"
	"time"

	"github.com/i474232898/tropical-nights/internal/weather"
)

type memoryEntry struct {
	dataset weather.YearDataset
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: year
	data map[int]memoryEntry

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore. now stamps each save; nil means time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		data: make(map[int]memoryEntry),
		now:  now,
	}
}

// ModTime returns when the year was last saved.
func (s *MemoryStore) ModTime(year int) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[year]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return e.savedAt, nil
}

// SaveYear replaces the dataset for a year.
func (s *MemoryStore) SaveYear(year int, ds weather.YearDataset) error {
	cp := make(weather.YearDataset, len(ds))
	copy(cp, ds)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[year] = memoryEntry{dataset: cp, savedAt: s.now()}
	return nil
}

// LoadYear returns a copy of the dataset for a year.
func (s *MemoryStore) LoadYear(year int) (weather.YearDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[year]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make(weather.YearDataset, len(e.dataset))
	copy(cp, e.dataset)
	return cp, nil
}

// Years lists stored years, ascending.
func (s *MemoryStore) Years() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	years := make([]int, 0, len(s.data))
	for y := range s.data {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

var _ weather.Store = (*MemoryStore)(nil)
