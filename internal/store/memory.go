package store

import (
	"context"
	"sync"

	"github.com/2beens/mapty/internal/workout"
)

// MemoryStore holds the serialized blob in process memory. Used in development
// and tests; it goes through the same codec as the other backends.
type MemoryStore struct {
	mu   sync.Mutex
	blob []byte
	// SaveErr, when set, is returned by Save (tests)
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, workouts []*workout.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	data, err := Encode(workouts)
	if err != nil {
		return err
	}
	s.blob = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context) []*workout.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decodeOrEmpty("memory", s.blob)
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = nil
	return nil
}

// SetRaw overwrites the stored blob as is.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = data
}

func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blob
}
