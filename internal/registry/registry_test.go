package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

func newHashRegistry(t testing.TB, store Store, metrics *observability.Metrics) *Registry {
	t.Helper()
	codec, err := NewHashCodec(DefaultKeyLength)
	require.NoError(t, err)
	r, err := New(codec, store, logger.Nop(), metrics)
	require.NoError(t, err)
	return r
}

// fixedCodec maps every selection to the same key.
type fixedCodec struct{ key domain.Key }

func (c fixedCodec) Name() string                                { return "fixed" }
func (c fixedCodec) Encode(domain.Selection) (domain.Key, error) { return c.key, nil }
func (c fixedCodec) Valid(k domain.Key) bool                     { return k == c.key }

func TestNewRequiresStoreForHashCodec(t *testing.T) {
	codec, _ := NewHashCodec(8)
	_, err := New(codec, nil, nil, nil)
	require.Error(t, err)

	_, err = New(nil, NewMemoryStore(), nil, nil)
	require.Error(t, err)

	compact, err := NewCompactCodec(scenarioBounds())
	require.NoError(t, err)
	r, err := New(compact, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "compact", r.Codec())
	assert.NoError(t, r.Close())
}

func TestScenarioRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newHashRegistry(t, NewMemoryStore(), nil)

	sel := domain.Selection{Head: 5, Face: 25, Body: 23, FacialHair: 0, Accessories: 0}
	key, err := r.Encode(ctx, sel)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{8}$`, string(key))

	got, err := r.Decode(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, sel, got)
}

func TestDecodeUnknownKey(t *testing.T) {
	ctx := context.Background()
	r := newHashRegistry(t, NewMemoryStore(), nil)

	_, err := r.Decode(ctx, "deadbeef")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	_, err = r.Decode(ctx, "not-a-key")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestEncodeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := observability.NewMetrics()
	store := NewMemoryStore()
	r := newHashRegistry(t, store, m)

	sel := domain.Selection{Head: 1, Face: 2, Body: 3, FacialHair: 4, Accessories: 5}
	k1, err := r.Encode(ctx, sel)
	require.NoError(t, err)
	k2, err := r.Encode(ctx, sel)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Equal(t, 1, store.Len())
	assert.Zero(t, m.KeyCollisions())
}

func TestCollisionNewerSelectionWins(t *testing.T) {
	ctx := context.Background()
	m := observability.NewMetrics()
	r, err := New(fixedCodec{key: "k"}, NewMemoryStore(), logger.Nop(), m)
	require.NoError(t, err)

	first := domain.Selection{Head: 1}
	second := domain.Selection{Head: 2}

	k1, err := r.Encode(ctx, first)
	require.NoError(t, err)
	k2, err := r.Encode(ctx, second)
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	got, err := r.Decode(ctx, k1)
	require.NoError(t, err)
	assert.Equal(t, second, got)
	assert.Equal(t, float64(1), m.KeyCollisions())
}

func TestCompactRegistryDecodesWithoutStore(t *testing.T) {
	ctx := context.Background()
	codec, err := NewCompactCodec(scenarioBounds())
	require.NoError(t, err)
	r, err := New(codec, nil, nil, nil)
	require.NoError(t, err)

	sel := domain.Selection{Head: 5, Face: 25, Body: 23}
	key, err := r.Encode(ctx, sel)
	require.NoError(t, err)

	// a fresh registry decodes the key too
	other, err := New(codec, nil, nil, nil)
	require.NoError(t, err)
	got, err := other.Decode(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, sel, got)

	_, err = r.Encode(ctx, domain.Selection{Face: 30})
	_, ok := domain.IsOutOfRange(err)
	assert.True(t, ok)
}

func TestHashRoundTripProperty(t *testing.T) {
	b := scenarioBounds()
	r := newHashRegistry(t, NewMemoryStore(), nil)

	rapid.Check(t, func(t *rapid.T) {
		sel := selectionGen(b).Draw(t, "sel")
		key, err := r.Encode(context.Background(), sel)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := r.Decode(context.Background(), key)
		if err != nil {
			t.Fatalf("decode %q: %v", key, err)
		}
		if got != sel {
			// only possible after a truncated-hash collision on an earlier draw
			prevKey, _ := r.codec.Encode(got)
			if prevKey != key {
				t.Fatalf("decode(encode(%s)) = %s", sel.Canonical(), got.Canonical())
			}
		}
	})
}

func TestConcurrentEncodeDecode(t *testing.T) {
	ctx := context.Background()
	r := newHashRegistry(t, NewMemoryStore(), nil)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				sel := domain.Selection{Head: w, Face: i % 30, Body: i % 24, FacialHair: i % 5, Accessories: i % 8}
				key, err := r.Encode(ctx, sel)
				if err != nil {
					errs <- err
					return
				}
				got, err := r.Decode(ctx, key)
				if err != nil {
					errs <- err
					return
				}
				if got != sel {
					if k, _ := r.codec.Encode(got); k != key {
						errs <- fmt.Errorf("key %s: got %s want %s", key, got.Canonical(), sel.Canonical())
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
