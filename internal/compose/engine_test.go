package compose

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yungbote/avatar-backend/internal/catalog"
	"github.com/yungbote/avatar-backend/internal/catalog/catalogtest"
	"github.com/yungbote/avatar-backend/internal/domain"
	"github.com/yungbote/avatar-backend/internal/observability"
	"github.com/yungbote/avatar-backend/internal/platform/logger"
)

var scenario = domain.Selection{Head: 5, Face: 25, Body: 23, FacialHair: 0, Accessories: 0}

func parse(t *testing.T, doc string) *etree.Element {
	t.Helper()
	d := etree.NewDocument()
	require.NoError(t, d.ReadFromString(doc))
	require.NotNil(t, d.Root())
	return d.Root()
}

func TestComposeScenario(t *testing.T) {
	e := NewEngine(catalogtest.Scenario(t), logger.Nop(), nil)

	out, err := e.Compose(context.Background(), scenario)
	require.NoError(t, err)

	root := parse(t, out)
	assert.Equal(t, "1136px", root.SelectAttrValue("width", ""))
	assert.Equal(t, "1533px", root.SelectAttrValue("height", ""))
	assert.Equal(t, "0 0 1136 1533", root.SelectAttrValue("viewBox", ""))

	groups := root.ChildElements()
	require.Len(t, groups, 1)
	layers := groups[0].ChildElements()
	require.Len(t, layers, 5)

	for i, c := range domain.LayerOrder {
		layer := layers[i]
		assert.Equal(t, "g", layer.Tag)
		assert.Equal(t, string(c), layer.SelectAttrValue(LayerAttr, ""))
		assert.Equal(t, Translate(Offsets[c]), layer.SelectAttrValue("transform", ""))

		path := layer.SelectElement("path")
		require.NotNil(t, path, "layer %s", c)
		assert.Equal(t, fmt.Sprintf("%s-%d", c, scenario.Index(c)), path.SelectAttrValue("id", ""))
	}
}

func TestComposeLayerOrderInDocument(t *testing.T) {
	e := NewEngine(catalogtest.Scenario(t), nil, nil)
	out, err := e.Compose(context.Background(), scenario)
	require.NoError(t, err)

	last := -1
	for _, c := range domain.LayerOrder {
		idx := strings.Index(out, fmt.Sprintf(`id="%s-%d"`, c, scenario.Index(c)))
		require.GreaterOrEqual(t, idx, 0, "missing %s", c)
		assert.Greater(t, idx, last, "%s out of order", c)
		last = idx
	}
}

func TestComposeDeterministic(t *testing.T) {
	cat := catalogtest.Scenario(t)

	rapid.Check(t, func(rt *rapid.T) {
		var sel domain.Selection
		for _, c := range domain.Categories {
			sel = sel.With(c, rapid.IntRange(0, cat.MaxID(c)).Draw(rt, string(c)))
		}
		a, err := NewEngine(cat, nil, nil).Compose(context.Background(), sel)
		if err != nil {
			rt.Fatalf("compose: %v", err)
		}
		e := NewEngine(cat, nil, nil)
		b1, _ := e.Compose(context.Background(), sel)
		b2, _ := e.Compose(context.Background(), sel)
		if a != b1 || b1 != b2 {
			rt.Fatalf("compose(%s) is not deterministic", sel.Canonical())
		}
	})
}

func TestComposeOutOfRange(t *testing.T) {
	e := NewEngine(catalogtest.Scenario(t), nil, nil)
	_, err := e.Compose(context.Background(), scenario.With(domain.CategoryHead, 10))
	oor, ok := domain.IsOutOfRange(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryHead, oor.Category)
	assert.Equal(t, 9, oor.Max)
}

func TestComposeSkipsMalformedLayer(t *testing.T) {
	assets := catalogtest.Assets(map[domain.Category]int{
		domain.CategoryHead:        1,
		domain.CategoryFace:        1,
		domain.CategoryBody:        1,
		domain.CategoryFacialHair:  1,
		domain.CategoryAccessories: 1,
	})
	assets[domain.CategoryFace][0].Content = []byte(`<svg xmlns="http://www.w3.org/2000/svg"><path id="loose"/></svg>`)
	cat, err := catalog.FromAssets("test", assets)
	require.NoError(t, err)

	m := observability.NewMetrics()
	e := NewEngine(cat, logger.Nop(), m)
	out, err := e.Compose(context.Background(), domain.Selection{})
	require.NoError(t, err)

	layers := parse(t, out).ChildElements()[0].ChildElements()
	require.Len(t, layers, 4)
	var got []string
	for _, l := range layers {
		got = append(got, l.SelectAttrValue(LayerAttr, ""))
	}
	assert.Equal(t, []string{"body", "head", "facial-hair", "accessories"}, got)
	assert.NotContains(t, out, "loose")

	var b strings.Builder
	require.NoError(t, m.WritePrometheus(&b))
	assert.Contains(t, b.String(), `avatar_malformed_layers_total{category="face"} 1`)
}

func TestComposeCopiesPrefixedNamespaces(t *testing.T) {
	assets := catalogtest.Assets(map[domain.Category]int{
		domain.CategoryHead:        1,
		domain.CategoryFace:        1,
		domain.CategoryBody:        1,
		domain.CategoryFacialHair:  1,
		domain.CategoryAccessories: 1,
	})
	assets[domain.CategoryHead][0].Content = []byte(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:sketch="http://www.bohemiancoding.com/sketch/ns">
  <g sketch:type="MSArtboardGroup"><path sketch:type="MSShapeGroup" d="M0,0"/></g>
</svg>`)
	cat, err := catalog.FromAssets("test", assets)
	require.NoError(t, err)

	out, err := NewEngine(cat, nil, nil).Compose(context.Background(), domain.Selection{})
	require.NoError(t, err)

	root := parse(t, out)
	assert.Equal(t, "http://www.bohemiancoding.com/sketch/ns", root.SelectAttrValue("xmlns:sketch", ""))
	assert.Contains(t, out, `sketch:type="MSShapeGroup"`)
}

func TestComposeDoesNotMutateParts(t *testing.T) {
	cat := catalogtest.Scenario(t)
	before := string(cat.ListParts(domain.CategoryBody)[23].Content)

	e := NewEngine(cat, nil, nil)
	_, err := e.Compose(context.Background(), scenario)
	require.NoError(t, err)
	_, err = e.Compose(context.Background(), scenario)
	require.NoError(t, err)

	assert.Equal(t, before, string(cat.ListParts(domain.CategoryBody)[23].Content))
	inner, err := e.inner(cat.ListParts(domain.CategoryBody)[23])
	require.NoError(t, err)
	assert.Len(t, inner.Group.ChildElements(), 2)
}

func TestComposeStopsOnCancelledContext(t *testing.T) {
	e := NewEngine(catalogtest.Scenario(t), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Compose(ctx, scenario)
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err = e.Compose(ctx, scenario)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
