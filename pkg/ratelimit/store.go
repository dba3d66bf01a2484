package ratelimit

import (
	"sync"
	"time"
)

// Bucket is the fixed-window counter state for one key.
type Bucket struct {
	Count   int
	ResetAt time.Time
}

// Store keeps rate-limit buckets by key. The in-memory implementation below is
// process-local; a shared external store can be swapped in for multi-process
// deployments without touching the limiter.
type Store interface {
	Get(key string) (Bucket, bool)
	Set(key string, bucket Bucket)
	Delete(key string)
}

type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]Bucket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: map[string]Bucket{}}
}

func (s *MemoryStore) Get(key string) (Bucket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.buckets[key]
	return bucket, ok
}

func (s *MemoryStore) Set(key string, bucket Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[key] = bucket
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
}
