package api

import (
	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"sync"
)

// sessionsCache maps live session ids to their actors. Session state itself
// lives in the store, so a missing entry only means the actor must be respawned.
type sessionsCache struct {
	mu  sync.RWMutex
	ids map[uuid.UUID]*actor.PID
}

func newSessionsCache() *sessionsCache {
	return &sessionsCache{
		ids: map[uuid.UUID]*actor.PID{},
	}
}

// getOrSpawn returns the actor for id, spawning it under the lock when missing.
func (s *sessionsCache) getOrSpawn(id uuid.UUID, spawn func() *actor.PID) *actor.PID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pid, ok := s.ids[id]; ok {
		return pid
	}
	pid := spawn()
	s.ids[id] = pid
	return pid
}

func (s *sessionsCache) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

func (s *sessionsCache) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
