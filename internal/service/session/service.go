// Package session loads and persists per-user sessions over the
// key-value store, merging stored data over configured defaults.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	model "github.com/okatkov/tgsage/internal/model/session"
	"github.com/okatkov/tgsage/internal/store"
)

// Service encapsulates session persistence. Reads never fail
// observably; writes are best effort.
type Service struct {
	kv         store.KV
	defaults   model.Defaults
	maxHistory int

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService wires the session service.
func NewService(kv store.KV, defaults model.Defaults, maxHistory int) *Service {
	return &Service{
		kv:         kv,
		defaults:   defaults,
		maxHistory: maxHistory,
		locks:      make(map[int64]*sync.Mutex),
	}
}

// MaxHistory is the configured history bound.
func (s *Service) MaxHistory() int { return s.maxHistory }

// Get returns the user's session, falling back to defaults on any
// storage or decode problem. The result is always fully populated.
func (s *Service) Get(ctx context.Context, userID int64) model.UserSession {
	data, err := s.kv.Get(ctx, key(userID))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[session] read failed for user %d: %v", userID, err)
		}
		return model.New(s.defaults)
	}

	sess, err := model.Decode(data, s.defaults)
	if err != nil {
		log.Printf("[session] corrupt record for user %d: %v", userID, err)
		return model.New(s.defaults)
	}

	sess.Truncate(s.maxHistory)
	return sess
}

// Put persists the session. Storage errors are logged, never
// surfaced: the reply already sent to the user must not depend on the
// write.
func (s *Service) Put(ctx context.Context, userID int64, sess model.UserSession) {
	sess.Truncate(s.maxHistory)

	data, err := sess.Encode()
	if err != nil {
		log.Printf("[session] encode failed for user %d: %v", userID, err)
		return
	}
	if err := s.kv.Put(ctx, key(userID), data, 0); err != nil {
		log.Printf("[session] write failed for user %d: %v", userID, err)
	}
}

// Update runs a read-modify-write cycle under a per-user lock, so a
// slow streaming completion and a concurrent quick command cannot lose
// each other's changes. It returns the stored result.
func (s *Service) Update(ctx context.Context, userID int64, fn func(*model.UserSession)) model.UserSession {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess := s.Get(ctx, userID)
	fn(&sess)
	s.Put(ctx, userID, sess)
	return sess
}

// Reset replaces the record keeping only the language.
func (s *Service) Reset(ctx context.Context, userID int64) model.UserSession {
	return s.Update(ctx, userID, func(sess *model.UserSession) {
		language := sess.Language
		*sess = model.New(s.defaults)
		sess.Language = language
	})
}

func (s *Service) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func key(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}
