package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/workout"
	"github.com/2beens/mapty/pkg"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	oneHour             = 60 * 60
	localCacheExpireSec = oneHour
	redisCacheExpire    = 24 * oneHour
	selfKey             = "self"
)

var (
	ErrPositionUnavailable = errors.New("position unavailable")

	// used for development, when the client is on the local machine
	devPosition = workout.NewCoords(52.52, 13.405) // Berlin
)

// Provider resolves the position of an ip address. An empty ip means the
// position of the machine doing the request.
type Provider interface {
	Position(ctx context.Context, ip string) (workout.Coords, error)
}

type Locator struct {
	provider    Provider
	ip          string
	cache       *freecache.Cache
	redisClient *redis.Client
}

// NewLocator creates a locator for the given ip ("" for the service own address).
// redisClient is optional.
func NewLocator(provider Provider, ip string, redisClient *redis.Client) *Locator {
	megabyte := 1024 * 1024
	return &Locator{
		provider:    provider,
		ip:          ip,
		cache:       freecache.NewCache(megabyte),
		redisClient: redisClient,
	}
}

// CurrentPosition makes one position request, no retries. Results are cached
// in process first, then in redis.
func (l *Locator) CurrentPosition(ctx context.Context) (coords workout.Coords, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.currentPosition")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "position found")
		}
	}()

	if l.ip == pkg.LocalhostIP {
		log.Debugf("current position: returning development localhost / Berlin")
		return devPosition, nil
	}

	ipKey := l.ip
	if ipKey == "" {
		ipKey = selfKey
	}
	span.SetAttributes(attribute.String("user.ip", ipKey))
	cacheKey := fmt.Sprintf("geo-position::%s", ipKey)

	if cached, err := l.cache.Get([]byte(cacheKey)); err == nil {
		if err := json.Unmarshal(cached, &coords); err == nil {
			span.SetAttributes(attribute.String("position.cache", "local"))
			return coords, nil
		}
		log.Errorf("failed to unmarshal cached position for %s: %s", ipKey, err)
	}

	if cached, found := l.fromRedis(ctx, cacheKey); found {
		span.SetAttributes(attribute.String("position.cache", "redis"))
		l.setLocal(cacheKey, cached)
		return cached, nil
	}
	span.SetAttributes(attribute.String("position.cache", "none"))

	coords, err = l.provider.Position(ctx, l.ip)
	if err != nil {
		return workout.Coords{}, fmt.Errorf("%w: %w", ErrPositionUnavailable, err)
	}
	if !coords.Valid() {
		return workout.Coords{}, fmt.Errorf("%w: invalid coordinates %v", ErrPositionUnavailable, coords)
	}

	l.setLocal(cacheKey, coords)
	l.setRedis(ctx, cacheKey, coords)

	return coords, nil
}

func (l *Locator) fromRedis(ctx context.Context, key string) (workout.Coords, bool) {
	if l.redisClient == nil {
		return workout.Coords{}, false
	}

	val, err := l.redisClient.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("failed to get position from redis for [%s]: %s", key, err)
		} else {
			log.Debugf("position from redis not found for [%s]", key)
		}
		return workout.Coords{}, false
	}

	var coords workout.Coords
	if err := json.Unmarshal([]byte(val), &coords); err != nil {
		log.Errorf("failed to unmarshal cached position from redis for %s: %s", key, err)
		return workout.Coords{}, false
	}
	return coords, true
}

func (l *Locator) setLocal(key string, coords workout.Coords) {
	coordsBytes, err := json.Marshal(coords)
	if err != nil {
		log.Errorf("marshal position %v: %s", coords, err)
		return
	}
	if err := l.cache.Set([]byte(key), coordsBytes, localCacheExpireSec); err != nil {
		log.Errorf("failed to write position cache for %s: %s", key, err)
	}
}

func (l *Locator) setRedis(ctx context.Context, key string, coords workout.Coords) {
	if l.redisClient == nil {
		return
	}
	coordsBytes, err := json.Marshal(coords)
	if err != nil {
		log.Errorf("marshal position %v: %s", coords, err)
		return
	}
	if err := l.redisClient.Set(ctx, key, string(coordsBytes), redisCacheExpire*time.Second).Err(); err != nil {
		log.Errorf("failed to cache position in redis for %s: %s", key, err)
	} else {
		log.Debugf("position cache set in redis for: %s", key)
	}
}
