package compose

import "github.com/yungbote/avatar-backend/internal/domain"

// Canvas attributes of every composite, taken from the bust template.
const (
	CanvasWidth   = "1136px"
	CanvasHeight  = "1533px"
	CanvasViewBox = "0 0 1136 1533"
	SVGVersion    = "1.1"
	SVGNamespace  = "http://www.w3.org/2000/svg"
	XLinkNS       = "http://www.w3.org/1999/xlink"

	RootGroupID = "avatar"
	// LayerAttr tags each wrapped layer with its category name.
	LayerAttr = "data-layer"
)

// Offsets places each category within the bust template.
var Offsets = map[domain.Category]domain.Offset{
	domain.CategoryBody:        {X: 147, Y: 639},
	domain.CategoryHead:        {X: 372, Y: 180},
	domain.CategoryFace:        {X: 531, Y: 366},
	domain.CategoryFacialHair:  {X: 494.999934, Y: 517.999659},
	domain.CategoryAccessories: {X: 419, Y: 421},
}
