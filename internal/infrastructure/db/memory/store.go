// Package memory provides in-process implementations of the repositories.
// It backs STORAGE=memory for local runs and serves as a realistic store in
// tests. Nothing survives a restart.
package memory

import (
	"sync"
	"time"
)

// Store holds users and notices behind one lock so the poster existence
// check and the insert of a notice happen atomically.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*userRecord
	emails  map[string]string // normalized email → user id
	notices map[string]*noticeRecord
	seq     uint64
	now     func() time.Time

	Users   *UserRepository
	Notices *NoticeRepository
	Keys    *IdempotencyStore
}

// NewStore returns an empty store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		users:   make(map[string]*userRecord),
		emails:  make(map[string]string),
		notices: make(map[string]*noticeRecord),
		now:     now,
	}
	s.Users = &UserRepository{s: s}
	s.Notices = &NoticeRepository{s: s}
	s.Keys = &IdempotencyStore{keys: make(map[string]string)}
	return s
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}
