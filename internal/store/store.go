package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/mapty/internal/workout"

	log "github.com/sirupsen/logrus"
)

const DefaultKey = "workouts"

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*PsqlStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Store keeps the whole ordered workouts collection under a single key.
// Every Save fully overwrites the previous value.
type Store interface {
	Save(ctx context.Context, workouts []*workout.Workout) error
	// Load never fails: a missing or unreadable value is an empty collection.
	Load(ctx context.Context) []*workout.Workout
	Clear(ctx context.Context) error
}

// Encode serializes the collection as a JSON array, keeping the order.
func Encode(workouts []*workout.Workout) ([]byte, error) {
	if workouts == nil {
		workouts = []*workout.Workout{}
	}
	data, err := json.Marshal(workouts)
	if err != nil {
		return nil, fmt.Errorf("marshal workouts: %w", err)
	}
	return data, nil
}

// Decode parses a stored blob. Records with an unknown variant tag are dropped.
func Decode(data []byte) ([]*workout.Workout, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var workouts []*workout.Workout
	if err := json.Unmarshal(data, &workouts); err != nil {
		return nil, fmt.Errorf("unmarshal workouts: %w", err)
	}

	valid := make([]*workout.Workout, 0, len(workouts))
	for _, w := range workouts {
		if w == nil || !w.Type.IsValid() {
			log.Warnf("decode workouts: skipping record with invalid variant tag")
			continue
		}
		valid = append(valid, w)
	}
	return valid, nil
}

// decodeOrEmpty is the shared Load behaviour of all backends.
func decodeOrEmpty(backend string, data []byte) []*workout.Workout {
	workouts, err := Decode(data)
	if err != nil {
		log.Errorf("%s store: stored workouts unreadable, starting empty: %s", backend, err)
		return []*workout.Workout{}
	}
	if workouts == nil {
		return []*workout.Workout{}
	}
	return workouts
}
