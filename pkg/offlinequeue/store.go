package offlinequeue

import "sync"

// Store persists the ordered queue between process restarts.
// Load must fail open: corrupt stored content is an empty queue,
// never an error that blocks the user.
type Store interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
	Close() error
}

// MemoryStore keeps the queue in process memory. Used in tests and as a
// fallback when no durable path is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry

	// SaveErr, если задан, возвращается из Save. Нужен тестам
	// сбоев персистентности.
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemoryStore) Save(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.entries = make([]Entry, len(entries))
	copy(s.entries, entries)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
