package config

import "sync"

// Store holds the currently applied configuration. At most one Config is
// current at a time; replacing it is atomic from the reader's view.
type Store struct {
	mu      sync.RWMutex
	current *Config
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the applied configuration, or nil when none has been
// applied yet.
func (s *Store) Current() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the applied configuration.
func (s *Store) Set(cfg *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cfg
}

// Clear drops the applied configuration.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
