package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yungbote/avatar-backend/internal/catalog/catalogtest"
	"github.com/yungbote/avatar-backend/internal/domain"
)

type countBounds map[domain.Category]int

func (b countBounds) MaxID(c domain.Category) int { return b[c] - 1 }

func scenarioBounds() countBounds {
	b := countBounds{}
	for c, n := range catalogtest.ScenarioCounts {
		b[c] = n
	}
	return b
}

func selectionGen(b domain.Bounds) *rapid.Generator[domain.Selection] {
	return rapid.Custom(func(t *rapid.T) domain.Selection {
		var sel domain.Selection
		for _, c := range domain.Categories {
			sel = sel.With(c, rapid.IntRange(0, b.MaxID(c)).Draw(t, string(c)))
		}
		return sel
	})
}

func TestHashCodecMatchesTruncatedSHA256(t *testing.T) {
	c, err := NewHashCodec(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultKeyLength, c.Length())

	sel := domain.Selection{Head: 5, Face: 25, Body: 23}
	sum := sha256.Sum256([]byte("5-25-23-0-0"))

	key, err := c.Encode(sel)
	require.NoError(t, err)
	assert.Equal(t, domain.Key(hex.EncodeToString(sum[:])[:8]), key)
	assert.Len(t, string(key), 8)
	assert.True(t, c.Valid(key))
}

func TestHashCodecLength(t *testing.T) {
	_, err := NewHashCodec(4)
	require.Error(t, err)
	_, err = NewHashCodec(65)
	require.Error(t, err)

	c, err := NewHashCodec(16)
	require.NoError(t, err)
	key, err := c.Encode(domain.Selection{})
	require.NoError(t, err)
	assert.Len(t, string(key), 16)
}

func TestHashCodecValid(t *testing.T) {
	c, _ := NewHashCodec(8)
	assert.True(t, c.Valid("deadbeef"))
	assert.False(t, c.Valid("DEADBEEF"))
	assert.False(t, c.Valid("deadbee"))
	assert.False(t, c.Valid("deadbeefa"))
	assert.False(t, c.Valid("deadbeeg"))
	assert.False(t, c.Valid(""))
}

func TestCompactCodecWidth(t *testing.T) {
	c, err := NewCompactCodec(scenarioBounds())
	require.NoError(t, err)
	// 10*30*24*5*8 = 288000 selections fit in four base-36 digits.
	assert.Equal(t, 4, c.Width())

	first, err := c.Encode(domain.Selection{})
	require.NoError(t, err)
	assert.Equal(t, domain.Key("0000"), first)

	last, err := c.Encode(domain.Selection{Head: 9, Face: 29, Body: 23, FacialHair: 4, Accessories: 7})
	require.NoError(t, err)
	assert.Equal(t, domain.Key("667z"), last)
}

func TestCompactCodecRejectsOutOfRange(t *testing.T) {
	c, err := NewCompactCodec(scenarioBounds())
	require.NoError(t, err)

	_, err = c.Encode(domain.Selection{Head: 10})
	oor, ok := domain.IsOutOfRange(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryHead, oor.Category)
	assert.Equal(t, 9, oor.Max)
}

func TestCompactCodecDecodeInvalid(t *testing.T) {
	c, err := NewCompactCodec(scenarioBounds())
	require.NoError(t, err)

	for _, key := range []domain.Key{"", "000", "00000", "6680", "zzzz", "AB12", "0-00"} {
		_, err := c.Decode(key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "key %q", key)
		assert.False(t, c.Valid(key), "key %q", key)
	}
}

func TestCompactCodecNeedsParts(t *testing.T) {
	b := scenarioBounds()
	b[domain.CategoryFace] = 0
	_, err := NewCompactCodec(b)
	require.Error(t, err)
}

func TestCompactCodecRoundTrip(t *testing.T) {
	b := scenarioBounds()
	c, err := NewCompactCodec(b)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		sel := selectionGen(b).Draw(t, "sel")
		key, err := c.Encode(sel)
		if err != nil {
			t.Fatalf("encode %s: %v", sel.Canonical(), err)
		}
		if len(key) != c.Width() {
			t.Fatalf("key %q has width %d, want %d", key, len(key), c.Width())
		}
		got, err := c.Decode(key)
		if err != nil {
			t.Fatalf("decode %q: %v", key, err)
		}
		if got != sel {
			t.Fatalf("decode(encode(%s)) = %s", sel.Canonical(), got.Canonical())
		}
	})
}

func TestCompactCodecInjective(t *testing.T) {
	b := scenarioBounds()
	c, err := NewCompactCodec(b)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		a := selectionGen(b).Draw(t, "a")
		o := selectionGen(b).Draw(t, "b")
		ka, _ := c.Encode(a)
		ko, _ := c.Encode(o)
		if (a == o) != (ka == ko) {
			t.Fatalf("%s -> %q, %s -> %q", a.Canonical(), ka, o.Canonical(), ko)
		}
	})
}
