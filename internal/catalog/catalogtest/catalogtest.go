// Package catalogtest builds small in-memory catalogs for tests.
package catalogtest

import (
	"fmt"
	"testing"

	"github.com/yungbote/avatar-backend/internal/catalog"
	"github.com/yungbote/avatar-backend/internal/domain"
)

// ScenarioCounts mirrors the production asset set.
var ScenarioCounts = map[domain.Category]int{
	domain.CategoryHead:        10,
	domain.CategoryFace:        30,
	domain.CategoryBody:        24,
	domain.CategoryFacialHair:  5,
	domain.CategoryAccessories: 8,
}

// Fragment is the SVG for part id of c: one top-level group holding a
// single path whose id is "<category>-<id>".
func Fragment(c domain.Category, id int) []byte {
	return []byte(fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<svg width="200px" height="200px" viewBox="0 0 200 200" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
    <!-- Generator: Sketch -->
    <g id="%[1]s" stroke="none" stroke-width="1" fill="none" fill-rule="evenodd">
        <path id="%[1]s-%[2]d" d="M0,0 L%[2]d,10" fill="#000000"/>
        <circle cx="5" cy="5" r="%[2]d"/>
    </g>
</svg>`, c, id))
}

// Assets generates counts[c] assets per category named "part-NNN.svg".
func Assets(counts map[domain.Category]int) map[domain.Category][]catalog.Asset {
	out := make(map[domain.Category][]catalog.Asset, len(counts))
	for c, n := range counts {
		list := make([]catalog.Asset, 0, n)
		for i := 0; i < n; i++ {
			list = append(list, catalog.Asset{
				File:    fmt.Sprintf("part-%03d.svg", i),
				Content: Fragment(c, i),
			})
		}
		out[c] = list
	}
	return out
}

// New builds a catalog with the given per-category part counts.
func New(tb testing.TB, counts map[domain.Category]int) *catalog.Catalog {
	tb.Helper()
	cat, err := catalog.FromAssets("test", Assets(counts))
	if err != nil {
		tb.Fatalf("build test catalog: %v", err)
	}
	return cat
}

// Scenario builds the catalog described by ScenarioCounts.
func Scenario(tb testing.TB) *catalog.Catalog {
	tb.Helper()
	return New(tb, ScenarioCounts)
}
