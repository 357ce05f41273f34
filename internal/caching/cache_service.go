package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"foodgo/internal/models"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "foodgo"

type CacheService interface {
	// Geocode caching. A cached miss is stored as found=false so repeated
	// unresolvable addresses do not hit the upstream service.
	GetGeocode(ctx context.Context, address string) (point *models.Point, found bool, err error)
	SetGeocode(ctx context.Context, address string, point *models.Point, ttl time.Duration) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	ResetRateLimit(ctx context.Context, key string) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.UniversalClient
}

// NewRedisClient builds a client, accepting both host:port and redis:// addresses.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			return redis.NewClient(opts)
		}
		addr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return client
}

func NewRedisCacheService(client redis.UniversalClient) CacheService {
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Msg("redis ping failed on initialization")
	} else {
		log.Debug().Msg("redis connection established")
	}
	return &redisCacheService{client: client}
}

func geocodeKey(address string) string {
	return fmt.Sprintf("%s:geocode:%s", keyPrefix, strings.ToLower(strings.TrimSpace(address)))
}

type geocodeEntry struct {
	Found bool          `json:"found"`
	Point *models.Point `json:"point,omitempty"`
}

func (r *redisCacheService) GetGeocode(ctx context.Context, address string) (*models.Point, bool, error) {
	data, err := r.client.Get(ctx, geocodeKey(address)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // cache miss
		}
		return nil, false, errors.Wrap(err, "get geocode")
	}

	var entry geocodeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, errors.Wrap(err, "decode geocode entry")
	}
	return entry.Point, true, nil
}

func (r *redisCacheService) SetGeocode(ctx context.Context, address string, point *models.Point, ttl time.Duration) error {
	data, err := json.Marshal(geocodeEntry{Found: point != nil, Point: point})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, geocodeKey(address), data, ttl).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, errors.Wrap(err, "increment rate limit")
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) ResetRateLimit(ctx context.Context, key string) error {
	return r.client.Del(ctx, fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
