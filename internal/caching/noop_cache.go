package caching

import (
	"context"
	"time"

	"foodgo/internal/models"
)

// NoopCacheService is used when redis is disabled. Every lookup misses
// and nothing is rate limited.
type NoopCacheService struct{}

func (NoopCacheService) GetGeocode(context.Context, string) (*models.Point, bool, error) {
	return nil, false, nil
}

func (NoopCacheService) SetGeocode(context.Context, string, *models.Point, time.Duration) error {
	return nil
}

func (NoopCacheService) IsRateLimited(context.Context, string, int, time.Duration) (bool, error) {
	return false, nil
}

func (NoopCacheService) ResetRateLimit(context.Context, string) error { return nil }

func (NoopCacheService) SetString(context.Context, string, string, time.Duration) error { return nil }

func (NoopCacheService) GetString(context.Context, string) (string, error) { return "", nil }

func (NoopCacheService) Delete(context.Context, string) error { return nil }

func (NoopCacheService) Ping(context.Context) error { return nil }
