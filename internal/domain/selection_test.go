package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBounds map[Category]int

func (b fixedBounds) MaxID(c Category) int { return b[c] }

var scenarioBounds = fixedBounds{
	CategoryHead:        9,
	CategoryFace:        29,
	CategoryBody:        23,
	CategoryFacialHair:  4,
	CategoryAccessories: 7,
}

func TestSelectionCanonical(t *testing.T) {
	s := Selection{Head: 5, Face: 25, Body: 23, FacialHair: 0, Accessories: 0}
	assert.Equal(t, "5-25-23-0-0", s.Canonical())

	// "1-23" vs "12-3" style ambiguity cannot happen with a separator.
	a := Selection{Head: 1, Face: 23}
	b := Selection{Head: 12, Face: 3}
	assert.NotEqual(t, a.Canonical(), b.Canonical())
}

func TestSelectionIndexWithRoundTrip(t *testing.T) {
	var s Selection
	for i, c := range Categories {
		s = s.With(c, i+10)
	}
	for i, c := range Categories {
		assert.Equal(t, i+10, s.Index(c), c)
	}
	assert.Equal(t, Selection{Head: 10, Face: 11, Body: 12, FacialHair: 13, Accessories: 14}, s)
}

func TestSelectionValidate(t *testing.T) {
	valid := Selection{Head: 5, Face: 25, Body: 23, FacialHair: 0, Accessories: 0}
	require.NoError(t, valid.Validate(scenarioBounds))

	err := valid.With(CategoryHead, 10).Validate(scenarioBounds)
	oor, ok := IsOutOfRange(err)
	require.True(t, ok)
	assert.Equal(t, CategoryHead, oor.Category)
	assert.Equal(t, 9, oor.Max)
	assert.Equal(t, "invalid head index 10: must be between 0 and 9", err.Error())

	err = valid.With(CategoryFacialHair, -1).Validate(scenarioBounds)
	oor, ok = IsOutOfRange(err)
	require.True(t, ok)
	assert.Equal(t, CategoryFacialHair, oor.Category)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("facial_hair")
	require.NoError(t, err)
	assert.Equal(t, CategoryFacialHair, c)
	assert.Equal(t, "facial_hair", c.Field())

	c, err = ParseCategory(" Head ")
	require.NoError(t, err)
	assert.Equal(t, CategoryHead, c)

	_, err = ParseCategory("hat")
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestLayerOrderCoversEveryCategory(t *testing.T) {
	seen := map[Category]bool{}
	for _, c := range LayerOrder {
		seen[c] = true
	}
	for _, c := range Categories {
		assert.True(t, seen[c], c)
	}
	assert.Equal(t, CategoryBody, LayerOrder[0])
	assert.Equal(t, CategoryAccessories, LayerOrder[len(LayerOrder)-1])
}
