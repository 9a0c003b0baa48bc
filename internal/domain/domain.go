// Package domain holds the avatar composition model: the fixed set of
// categories, the parts the catalog serves for each, the per-request
// Selection and the Key that stands in for it.
package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryHead        Category = "head"
	CategoryFace        Category = "face"
	CategoryBody        Category = "body"
	CategoryFacialHair  Category = "facial-hair"
	CategoryAccessories Category = "accessories"
)

// Categories is the canonical category order. Canonical key strings,
// catalog listings and the options response all follow it.
var Categories = [...]Category{
	CategoryHead,
	CategoryFace,
	CategoryBody,
	CategoryFacialHair,
	CategoryAccessories,
}

// LayerOrder is the back-to-front paint order of a composite. Later layers
// render over earlier ones.
var LayerOrder = [...]Category{
	CategoryBody,
	CategoryHead,
	CategoryFace,
	CategoryFacialHair,
	CategoryAccessories,
}

func (c Category) String() string { return string(c) }

// Field is the JSON field name used for the category in request bodies.
func (c Category) Field() string {
	return strings.ReplaceAll(string(c), "-", "_")
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts either the canonical name or the JSON field name.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-"))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// Part is one selectable asset within a category. Content is the raw SVG
// fragment and must be treated as read-only.
type Part struct {
	Category Category
	ID       int
	Name     string
	Content  []byte
}

// Key is the short opaque reference returned for a Selection.
type Key string

func (k Key) String() string { return string(k) }

// Offset is a fixed placement of a category within the bust canvas.
type Offset struct {
	X float64
	Y float64
}
