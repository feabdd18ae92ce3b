package stream

import "sync"

// Sessions keeps at most one live task per session key. Starting a new task
// for a key aborts the one it replaces.
type Sessions struct {
	mu     sync.Mutex
	active map[string]*Task
}

func NewSessions() *Sessions {
	return &Sessions{active: make(map[string]*Task)}
}

// Replace registers t for key and aborts the previous task, if any.
func (s *Sessions) Replace(key string, t *Task) {
	s.mu.Lock()
	prev := s.active[key]
	s.active[key] = t
	s.mu.Unlock()

	if prev != nil && prev != t {
		prev.Abort()
	}
}

// Release forgets t if it is still the active task for key.
func (s *Sessions) Release(key string, t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[key] == t {
		delete(s.active, key)
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
