package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RedisStore struct {
	redisClient *redis.Client
	key         string
}

func NewRedisStore(redisClient *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{
		redisClient: redisClient,
		key:         key,
	}
}

func (s *RedisStore) Save(ctx context.Context, workouts []*workout.Workout) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.save")
	defer span.End()
	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))

	data, err := Encode(workouts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.redisClient.Set(ctx, s.key, data, 0).Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) []*workout.Workout {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.redis.load")
	defer span.End()

	data, err := s.redisClient.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("redis store: get %s: %s", s.key, err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			log.Debugf("redis store: key %s not found, no workouts stored yet", s.key)
		}
		return []*workout.Workout{}
	}

	return decodeOrEmpty("redis", data)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
