package idempotency

import (
	"sync"
	"time"
)

// Record is a cached response bound to an idempotency key.
type Record struct {
	Fingerprint string
	Status      int
	Body        []byte
	ExpiresAt   time.Time
}

// Store keeps idempotency records by key. Like the rate-limit store it is an
// injection point: the in-memory implementation serves a single process and a
// shared store can replace it without changing callers.
type Store interface {
	Get(key string) (Record, bool)
	Set(key string, record Record)
	Delete(key string)
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Record{}}
}

func (s *MemoryStore) Get(key string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[key]
	return record, ok
}

func (s *MemoryStore) Set(key string, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}
