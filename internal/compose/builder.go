package compose

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// Canvas is the root <svg> of a composite and its single top-level group.
type Canvas struct {
	doc   *etree.Document
	root  *etree.Element
	group *etree.Element
}

// NewCanvas creates an empty composite with the fixed bust dimensions.
func NewCanvas() *Canvas {
	doc := etree.NewDocument()
	root := doc.CreateElement("svg")
	root.CreateAttr("width", CanvasWidth)
	root.CreateAttr("height", CanvasHeight)
	root.CreateAttr("viewBox", CanvasViewBox)
	root.CreateAttr("version", SVGVersion)
	root.CreateAttr("xmlns", SVGNamespace)
	root.CreateAttr("xmlns:xlink", XLinkNS)

	group := root.CreateElement("g")
	group.CreateAttr("id", RootGroupID)
	group.CreateAttr("stroke", "none")
	group.CreateAttr("stroke-width", "1")
	group.CreateAttr("fill", "none")
	group.CreateAttr("fill-rule", "evenodd")

	return &Canvas{doc: doc, root: root, group: group}
}

func (c *Canvas) Group() *etree.Element { return c.group }

// DeclareNamespaces copies prefixed namespace declarations onto the root so
// copied layer content keeps its prefixes bound. The first declaration of a
// prefix wins.
func (c *Canvas) DeclareNamespaces(decls []etree.Attr) {
	for _, d := range decls {
		if c.root.SelectAttr("xmlns:"+d.Key) != nil {
			continue
		}
		c.root.CreateAttr("xmlns:"+d.Key, d.Value)
	}
}

// String serializes the composite without an XML declaration.
func (c *Canvas) String() (string, error) {
	s, err := c.doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serialize composite: %w", err)
	}
	return s, nil
}

// InnerContent is the drawable group of a part fragment.
type InnerContent struct {
	Group *etree.Element
	// Namespaces holds the xmlns:* declarations in scope for Group.
	Namespaces []etree.Attr
}

// ExtractInnerContent parses a part fragment and locates its first <g>
// element in document order. A fragment that does not parse or has no
// group yields ErrMalformedAsset.
func ExtractInnerContent(fragment []byte) (*InnerContent, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(fragment); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedAsset, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrMalformedAsset)
	}

	g := root
	if root.Tag != "g" {
		g = root.FindElement(".//g")
	}
	if g == nil {
		return nil, fmt.Errorf("%w: no group element", domain.ErrMalformedAsset)
	}

	var decls []etree.Attr
	for el := g; el != nil; el = el.Parent() {
		for _, a := range el.Attr {
			if a.Space == "xmlns" {
				decls = append(decls, a)
			}
		}
	}
	return &InnerContent{Group: g, Namespaces: decls}, nil
}

// WrapWithOffset returns a new group translated by off holding deep copies
// of inner's child elements. inner is not modified.
func WrapWithOffset(inner *etree.Element, off domain.Offset) *etree.Element {
	wrapper := etree.NewElement("g")
	wrapper.CreateAttr("transform", Translate(off))
	for _, child := range inner.ChildElements() {
		wrapper.AddChild(child.Copy())
	}
	return wrapper
}

// AppendLayer adds layer as the last child of group, so it paints over
// every earlier layer.
func AppendLayer(group, layer *etree.Element) {
	group.AddChild(layer)
}

// Translate formats off as an SVG translate transform.
func Translate(off domain.Offset) string {
	return "translate(" + formatCoord(off.X) + ", " + formatCoord(off.Y) + ")"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
