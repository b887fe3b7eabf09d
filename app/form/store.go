package form

import (
	"errors"
	"sync"

	"github.com/Guerrilla-Interactive/readmegen/internal/storage"
	"go.uber.org/zap"
)

// KV is the slice of local storage the store needs.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Store owns the form state. It is created by the program shell and handed
// to the screens that need it; SetAll and SetField are the only mutations.
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

// NewStore returns a store seeded with initial (copied).
func NewStore(initial State) *Store {
	return &Store{
		state:       initial.Clone(),
		subscribers: map[int]func(State){},
	}
}

// SetAll merges partial into the state, preserving all other keys.
func (s *Store) SetAll(partial State) {
	s.mu.Lock()
	for k, v := range partial {
		s.state[k] = v
	}
	snap := s.state.Clone()
	subs := s.subscriberList()
	s.mu.Unlock()
	notify(subs, snap)
}

// SetField sets a single key.
func (s *Store) SetField(key string, value any) {
	s.SetAll(State{key: value})
}

// Get returns the raw value at key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok
}

// Snapshot returns a copy of the state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Clear empties the state and notifies subscribers.
func (s *Store) Clear() {
	s.mu.Lock()
	s.state = State{}
	subs := s.subscriberList()
	s.mu.Unlock()
	notify(subs, State{})
}

// Subscribe registers fn to run after every mutation with the new state.
// The returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) subscriberList() []func(State) {
	subs := make([]func(State), 0, len(s.subscribers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func(State), snap State) {
	for _, fn := range subs {
		fn(snap)
	}
}

// Load reads the persisted state from kv. A missing entry yields the
// defaults; an unreadable one is logged and treated as missing.
func Load(kv KV, logger *zap.Logger) State {
	state := Defaults()
	raw, err := kv.Get(storage.KeyProfileData)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && logger != nil {
			logger.Warn("could not read saved form state", zap.Error(err))
		}
		return state
	}
	saved, err := Unmarshal(raw)
	if err != nil {
		if logger != nil {
			logger.Warn("discarding malformed saved form state", zap.Error(err))
		}
		return state
	}
	for k, v := range saved {
		state[k] = v
	}
	return state
}

// Persist returns a subscriber that mirrors every state to kv.
func Persist(kv KV, logger *zap.Logger) func(State) {
	return func(s State) {
		if len(s) == 0 {
			if err := kv.Remove(storage.KeyProfileData); err != nil && logger != nil {
				logger.Warn("failed to clear saved form state", zap.Error(err))
			}
			return
		}
		data, err := s.Marshal()
		if err == nil {
			err = kv.Set(storage.KeyProfileData, data)
		}
		if err != nil && logger != nil {
			logger.Warn("failed to persist form state", zap.Error(err))
		}
	}
}
