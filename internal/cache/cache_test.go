package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoad_ReusesValueWithinTTL(t *testing.T) {
	store := New(time.Minute)
	calls := 0
	load := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	first, err := GetOrLoad(context.Background(), store, "weightroom", time.Minute, load)
	require.NoError(t, err)
	second, err := GetOrLoad(context.Background(), store, "weightroom", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoad_ReloadsAfterExpiry(t *testing.T) {
	store := New(time.Minute)
	calls := 0
	load := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, err := GetOrLoad(context.Background(), store, "weightroom", 20*time.Millisecond, load)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	value, err := GetOrLoad(context.Background(), store, "weightroom", 20*time.Millisecond, load)
	require.NoError(t, err)

	assert.Equal(t, 2, value)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_ErrorIsNotCached(t *testing.T) {
	store := New(time.Minute)
	boom := errors.New("upstream down")

	_, err := GetOrLoad(context.Background(), store, "classes:2025-01-06", time.Minute, func(ctx context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	_, found := store.Get("classes:2025-01-06")
	assert.False(t, found)

	value, err := GetOrLoad(context.Background(), store, "classes:2025-01-06", time.Minute, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
}

func TestGetOrLoad_KeysAreIndependent(t *testing.T) {
	store := New(time.Minute)

	a, err := GetOrLoad(context.Background(), store, "classes:2025-01-06", time.Minute, func(ctx context.Context) (string, error) {
		return "monday", nil
	})
	require.NoError(t, err)
	b, err := GetOrLoad(context.Background(), store, "classes:2025-01-07", time.Minute, func(ctx context.Context) (string, error) {
		return "tuesday", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "monday", a)
	assert.Equal(t, "tuesday", b)
}

func TestGetOrLoad_TypeMismatch(t *testing.T) {
	store := New(time.Minute)
	store.Set("weightroom", "not an int", time.Minute)

	_, err := GetOrLoad(context.Background(), store, "weightroom", time.Minute, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	assert.Error(t, err)
}

// ttlStore records the ttl of every Set.
type ttlStore struct {
	items map[string]any
	ttls  []time.Duration
}

func (s *ttlStore) Get(key string) (any, bool) {
	v, ok := s.items[key]
	return v, ok
}

func (s *ttlStore) Set(key string, value any, ttl time.Duration) {
	s.items[key] = value
	s.ttls = append(s.ttls, ttl)
}

func TestGetOrLoad_EntryExpiresAtExactlyTTL(t *testing.T) {
	store := &ttlStore{items: map[string]any{}}
	load := func(ctx context.Context) (string, error) { return "v", nil }

	_, err := GetOrLoad(context.Background(), store, "weightroom", 30*time.Second, load)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{30*time.Second - time.Nanosecond}, store.ttls)
}

func TestGetOrLoad_TinyTTLIsNeverStored(t *testing.T) {
	for _, ttl := range []time.Duration{0, time.Nanosecond} {
		store := New(time.Minute)
		calls := 0
		load := func(ctx context.Context) (int, error) {
			calls++
			return calls, nil
		}

		for i := 0; i < 2; i++ {
			_, err := GetOrLoad(context.Background(), store, "weightroom", ttl, load)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, calls, "ttl %v", ttl)
		assert.Equal(t, 0, store.ItemCount())
	}
}
