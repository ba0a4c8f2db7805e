package memory

import (
	"context"
	"sync"
)

// IdempotencyStore is the in-process counterpart of the Redis store. Entries
// never expire.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func (s *IdempotencyStore) Lookup(_ context.Context, userID, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.keys[userID+"\x00"+key]
	return id, ok, nil
}

func (s *IdempotencyStore) Remember(_ context.Context, userID, key, noticeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[userID+"\x00"+key] = noticeID
	return nil
}
