package claims

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"covenant/pkg/domain"
	"covenant/pkg/platform/circuit"
)

const (
	attestationKeyPrefix = "claims:attestation:"
	cddKeyPrefix         = "claims:cdd:"
	identityKeyPrefix    = "claims:identity:"

	// absentClaim marks a negative lookup so repeated "no claim" probes do
	// not reach the source. A JSON-encoded claim can never equal it.
	absentClaim = "-"

	trueValue  = "1"
	falseValue = "0"

	defaultCacheTTL = 5 * time.Minute
)

const (
	kindClaim    = "claim"
	kindCDD      = "cdd"
	kindIdentity = "identity"

	outcomeHit    = "hit"
	outcomeMiss   = "miss"
	outcomeBypass = "bypass"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "covenant_claims_cache_lookups_total",
	Help: "Claim cache lookups by key kind and outcome.",
}, []string{"kind", "outcome"})

// Cache is a read-through Provider decorator backed by Redis. Every lookup
// the compliance engine makes is served from Redis when warm and loaded
// from the wrapped source on a miss; negative answers are cached too. The
// TTL bounds how long a revoked attestation keeps answering, so deployments
// trade source load against revocation lag when picking it.
//
// Redis being down never fails a lookup: reads fall through to the source
// and the outage is counted. A breaker collapses a run of Redis failures
// into one degradation log and one recovery log instead of a warn per call.
type Cache struct {
	client  *redis.Client
	source  Provider
	ttl     time.Duration
	logger  *slog.Logger
	breaker *circuit.Breaker
}

var _ Provider = (*Cache)(nil)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for cache degradation events.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache wraps source with a Redis read-through layer.
func NewCache(client *redis.Client, source Provider, opts ...CacheOption) *Cache {
	c := &Cache{
		client:  client,
		source:  source,
		ttl:     defaultCacheTTL,
		logger:  slog.Default(),
		breaker: circuit.New("claims-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builders render ids in canonical uuid text form so every reader and
// writer derives the same key and entries stay inspectable in redis-cli.
func attestationKey(target domain.IdentityID, claimType domain.ClaimType, issuer domain.IdentityID, scope domain.Ticker) string {
	return fmt.Sprintf("%s%s:%s:%s:%s", attestationKeyPrefix, target, claimType, issuer, scope)
}

func cddKey(did domain.IdentityID) string { return cddKeyPrefix + did.String() }

func identityKey(did domain.IdentityID) string { return identityKeyPrefix + did.String() }

func (c *Cache) FetchClaim(ctx context.Context, target domain.IdentityID, claimType domain.ClaimType, issuer domain.IdentityID, scope domain.Ticker) (*domain.Claim, error) {
	key := attestationKey(target, claimType, issuer, scope)
	raw, err := c.lookup(ctx, kindClaim, key, func() (string, error) {
		claim, err := c.source.FetchClaim(ctx, target, claimType, issuer, scope)
		if err != nil {
			return "", err
		}
		if claim == nil {
			return absentClaim, nil
		}
		encoded, err := json.Marshal(claim)
		if err != nil {
			return "", fmt.Errorf("encode claim: %w", err)
		}
		return string(encoded), nil
	})
	if err != nil {
		return nil, err
	}
	if raw == absentClaim {
		return nil, nil
	}

	var claim domain.Claim
	if err := json.Unmarshal([]byte(raw), &claim); err != nil {
		// A corrupt entry must not fail the lookup; serve the source and
		// let the entry age out.
		c.logger.WarnContext(ctx, "discarding undecodable claim cache entry", "key", key, "error", err)
		return c.source.FetchClaim(ctx, target, claimType, issuer, scope)
	}
	return &claim, nil
}

func (c *Cache) HasValidCDD(ctx context.Context, did domain.IdentityID) (bool, error) {
	raw, err := c.lookup(ctx, kindCDD, cddKey(did), func() (string, error) {
		valid, err := c.source.HasValidCDD(ctx, did)
		if err != nil {
			return "", err
		}
		return boolValue(valid), nil
	})
	if err != nil {
		return false, err
	}
	return raw == trueValue, nil
}

func (c *Cache) IdentityExists(ctx context.Context, did domain.IdentityID) (bool, error) {
	raw, err := c.lookup(ctx, kindIdentity, identityKey(did), func() (string, error) {
		exists, err := c.source.IdentityExists(ctx, did)
		if err != nil {
			return "", err
		}
		return boolValue(exists), nil
	})
	if err != nil {
		return false, err
	}
	return raw == trueValue, nil
}

// lookup serves key from Redis, loading and storing through load on a miss.
// Redis failures degrade to a direct source read. Source errors are never
// cached.
func (c *Cache) lookup(ctx context.Context, kind, key string, load func() (string, error)) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.noteRedisSuccess(ctx)
		cacheLookups.WithLabelValues(kind, outcomeHit).Inc()
		return value, nil
	case errors.Is(err, redis.Nil):
		c.noteRedisSuccess(ctx)
		cacheLookups.WithLabelValues(kind, outcomeMiss).Inc()
	default:
		cacheLookups.WithLabelValues(kind, outcomeBypass).Inc()
		c.noteRedisFailure(ctx, "claims cache read failed, serving source", key, err)
	}

	value, err = load()
	if err != nil {
		return "", err
	}
	if setErr := c.client.Set(ctx, key, value, c.ttl).Err(); setErr != nil {
		c.noteRedisFailure(ctx, "claims cache write failed", key, setErr)
	} else {
		c.noteRedisSuccess(ctx)
	}
	return value, nil
}

// noteRedisFailure feeds the breaker. Individual failures warn with msg until
// the breaker opens; past that only the transitions log.
func (c *Cache) noteRedisFailure(ctx context.Context, msg, key string, err error) {
	open, change := c.breaker.RecordFailure()
	switch {
	case change.Opened:
		c.logger.ErrorContext(ctx, "claims cache degraded, serving source only",
			"breaker", c.breaker.Name(), "error", err)
	case !open:
		c.logger.WarnContext(ctx, msg, "key", key, "error", err)
	}
}

func (c *Cache) noteRedisSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "claims cache recovered", "breaker", c.breaker.Name())
	}
}

func boolValue(b bool) string {
	if b {
		return trueValue
	}
	return falseValue
}
