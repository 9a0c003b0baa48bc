package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection picks one part id per category.
type Selection struct {
	Head        int `json:"head" yaml:"head"`
	Face        int `json:"face" yaml:"face"`
	Body        int `json:"body" yaml:"body"`
	FacialHair  int `json:"facial_hair" yaml:"facial_hair"`
	Accessories int `json:"accessories" yaml:"accessories"`
}

// Index returns the selected part id for c.
func (s Selection) Index(c Category) int {
	switch c {
	case CategoryHead:
		return s.Head
	case CategoryFace:
		return s.Face
	case CategoryBody:
		return s.Body
	case CategoryFacialHair:
		return s.FacialHair
	case CategoryAccessories:
		return s.Accessories
	default:
		panic(fmt.Sprintf("domain: unknown category %q", string(c)))
	}
}

// With returns a copy of s with c set to idx.
func (s Selection) With(c Category, idx int) Selection {
	switch c {
	case CategoryHead:
		s.Head = idx
	case CategoryFace:
		s.Face = idx
	case CategoryBody:
		s.Body = idx
	case CategoryFacialHair:
		s.FacialHair = idx
	case CategoryAccessories:
		s.Accessories = idx
	default:
		panic(fmt.Sprintf("domain: unknown category %q", string(c)))
	}
	return s
}

// Canonical renders the indices in category order joined by "-". Distinct
// selections never share a canonical string.
func (s Selection) Canonical() string {
	parts := make([]string, 0, len(Categories))
	for _, c := range Categories {
		parts = append(parts, strconv.Itoa(s.Index(c)))
	}
	return strings.Join(parts, "-")
}

// Bounds reports the highest valid part id for a category.
type Bounds interface {
	MaxID(c Category) int
}

// Validate checks every index against b and returns an *OutOfRangeError for
// the first offending category in canonical order.
func (s Selection) Validate(b Bounds) error {
	for _, c := range Categories {
		idx := s.Index(c)
		max := b.MaxID(c)
		if idx < 0 || idx > max {
			return &OutOfRangeError{Category: c, Index: idx, Max: max}
		}
	}
	return nil
}
