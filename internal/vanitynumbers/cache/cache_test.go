package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vanitynumberserrors "vanity/internal/vanitynumbers/errors"
	"vanity/pkg/vanity"
)

type mockRedis struct {
	store  map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockRedis() *mockRedis {
	return &mockRedis{store: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.store[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if m.setErr != nil {
		return redis.NewStatusResult("", m.setErr)
	}
	m.store[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisCandidateCache_RoundTrip(t *testing.T) {
	rdb := newMockRedis()
	c := NewRedisCandidateCache(rdb, time.Hour, "0123456789abcdef0123456789abcdef")
	ctx := context.Background()
	digits := vanity.DigitSequence("8005551234")

	_, err := c.Get(ctx, digits, vanity.LayoutFull)
	require.ErrorIs(t, err, vanitynumberserrors.ErrCacheMiss)

	want := []vanity.Candidate{"800-LOVE-000", "8005-FLOWER-"}
	require.NoError(t, c.Set(ctx, digits, vanity.LayoutFull, want))

	key := "vanity:candidates:0123456789abcdef:full:8005551234"
	assert.Equal(t, time.Hour, rdb.ttls[key])

	got, err := c.Get(ctx, digits, vanity.LayoutFull)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = c.Get(ctx, digits, vanity.LayoutAreaCode)
	assert.ErrorIs(t, err, vanitynumberserrors.ErrCacheMiss, "layouts are cached separately")
}

func TestRedisCandidateCache_EmptySetIsAHit(t *testing.T) {
	c := NewRedisCandidateCache(newMockRedis(), time.Minute, "abc")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "0000000000", vanity.LayoutFull, nil))
	got, err := c.Get(ctx, "0000000000", vanity.LayoutFull)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCandidateCache_Errors(t *testing.T) {
	rdb := newMockRedis()
	rdb.getErr = errors.New("connection refused")
	rdb.setErr = errors.New("READONLY")
	c := NewRedisCandidateCache(rdb, time.Minute, "abc")

	_, err := c.Get(context.Background(), "8005551234", vanity.LayoutFull)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, vanitynumberserrors.ErrCacheMiss)
	assert.Error(t, c.Set(context.Background(), "8005551234", vanity.LayoutFull, nil))

	rdb.getErr = nil
	rdb.store["vanity:candidates:abc:full:8005551234"] = "not json"
	_, err = c.Get(context.Background(), "8005551234", vanity.LayoutFull)
	assert.Error(t, err)
}

func TestNoopCandidateCache(t *testing.T) {
	c := NewNoopCandidateCache()
	require.NoError(t, c.Set(context.Background(), "8005551234", vanity.LayoutFull, []vanity.Candidate{"x"}))
	_, err := c.Get(context.Background(), "8005551234", vanity.LayoutFull)
	assert.ErrorIs(t, err, vanitynumberserrors.ErrCacheMiss)
}
