package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"foodgo/internal/caching"
	"foodgo/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Geocoder resolves a free-text address to coordinates. A nil point with a
// nil error means the address could not be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Point, error)
}

type GeocoderConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

type nominatimGeocoder struct {
	cfg        GeocoderConfig
	cache      caching.CacheService
	httpClient *http.Client
}

// NewNominatimGeocoder queries a Nominatim-compatible /search endpoint and
// caches results, including misses.
func NewNominatimGeocoder(cfg GeocoderConfig, cache caching.CacheService) Geocoder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &nominatimGeocoder{
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *nominatimGeocoder) Geocode(ctx context.Context, address string) (*models.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	if point, found, err := g.cache.GetGeocode(ctx, address); err != nil {
		log.Debug().Err(err).Msg("geocode cache lookup failed")
	} else if found {
		return point, nil
	}

	point, err := g.lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := g.cache.SetGeocode(ctx, address, point, g.cfg.CacheTTL); err != nil {
		log.Debug().Err(err).Msg("geocode cache store failed")
	}
	return point, nil
}

func (g *nominatimGeocoder) lookup(ctx context.Context, address string) (*models.Point, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	endpoint := strings.TrimSuffix(g.cfg.BaseURL, "/") + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build geocode request")
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "geocode request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, errors.Wrap(err, "decode geocode response")
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return nil, nil
	}
	return &models.Point{Lat: lat, Lng: lng}, nil
}
