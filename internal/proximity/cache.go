package proximity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "kyc:geocode:"

// CachedGeocoder keeps geocoding results in Redis. Cache errors never fail a
// lookup; the inner geocoder is used instead.
type CachedGeocoder struct {
	inner  Geocoder
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedGeocoder(inner Geocoder, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, client: client, ttl: ttl, logger: logger}
}

func geocodeKey(address string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(address)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return geocodeKeyPrefix + hex.EncodeToString(sum[:])
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (Coordinates, error) {
	key := geocodeKey(address)

	raw, err := g.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c Coordinates
		if jsonErr := json.Unmarshal(raw, &c); jsonErr == nil {
			return c, nil
		}
	case !errors.Is(err, redis.Nil):
		g.warn(ctx, "geocode cache read failed", err)
	}

	c, err := g.inner.Geocode(ctx, address)
	if err != nil {
		return Coordinates{}, err
	}
	if payload, jsonErr := json.Marshal(c); jsonErr == nil {
		if setErr := g.client.Set(ctx, key, payload, g.ttl).Err(); setErr != nil {
			g.warn(ctx, "geocode cache write failed", setErr)
		}
	}
	return c, nil
}

func (g *CachedGeocoder) warn(ctx context.Context, msg string, err error) {
	if g.logger != nil {
		g.logger.WarnContext(ctx, msg, "error", err)
	}
}
