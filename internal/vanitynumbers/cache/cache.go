package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	vanitynumberserrors "vanity/internal/vanitynumbers/errors"
	"vanity/pkg/vanity"
)

const keyPrefix = "vanity:candidates"

// CandidateCache stores engine output per digit sequence. Get returns
// ErrCacheMiss when nothing is stored.
type CandidateCache interface {
	Get(ctx context.Context, digits vanity.DigitSequence, layout vanity.Layout) ([]vanity.Candidate, error)
	Set(ctx context.Context, digits vanity.DigitSequence, layout vanity.Layout, candidates []vanity.Candidate) error
}

// redisCmdable is the part of go-redis the cache uses.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type redisCandidateCache struct {
	client      redisCmdable
	ttl         time.Duration
	fingerprint string
}

// NewRedisCandidateCache keys entries by the dictionary fingerprint so a new
// word list never serves stale candidates.
func NewRedisCandidateCache(client redisCmdable, ttl time.Duration, fingerprint string) CandidateCache {
	if len(fingerprint) > 16 {
		fingerprint = fingerprint[:16]
	}
	return &redisCandidateCache{
		client:      client,
		ttl:         ttl,
		fingerprint: fingerprint,
	}
}

func (c *redisCandidateCache) key(digits vanity.DigitSequence, layout vanity.Layout) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, c.fingerprint, layout, digits)
}

func (c *redisCandidateCache) Get(ctx context.Context, digits vanity.DigitSequence, layout vanity.Layout) ([]vanity.Candidate, error) {
	data, err := c.client.Get(ctx, c.key(digits, layout)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, vanitynumberserrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read candidate cache: %w", err)
	}

	var candidates []vanity.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode cached candidates: %w", err)
	}
	return candidates, nil
}

func (c *redisCandidateCache) Set(ctx context.Context, digits vanity.DigitSequence, layout vanity.Layout, candidates []vanity.Candidate) error {
	if candidates == nil {
		candidates = []vanity.Candidate{}
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}
	if err := c.client.Set(ctx, c.key(digits, layout), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write candidate cache: %w", err)
	}
	return nil
}

type noopCandidateCache struct{}

// NewNoopCandidateCache is used when Redis is disabled or unreachable.
func NewNoopCandidateCache() CandidateCache {
	return noopCandidateCache{}
}

func (noopCandidateCache) Get(context.Context, vanity.DigitSequence, vanity.Layout) ([]vanity.Candidate, error) {
	return nil, vanitynumberserrors.ErrCacheMiss
}

func (noopCandidateCache) Set(context.Context, vanity.DigitSequence, vanity.Layout, []vanity.Candidate) error {
	return nil
}
