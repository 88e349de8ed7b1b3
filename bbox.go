package quadbuckets

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// BBox is an axis-aligned bounding box.
// The zero value is invalid, and represents "no geometry".
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64

	valid bool
}

// World is the extent of WGS84 lon/lat space, and the default root region.
var World = NewBBox(-180, -90, 180, 90)

// NewBBox creates a valid box from two corners, in any order.
func NewBBox(x1, y1, x2, y2 float64) BBox {
	return BBox{
		MinX:  math.Min(x1, x2),
		MinY:  math.Min(y1, y2),
		MaxX:  math.Max(x1, x2),
		MaxY:  math.Max(y1, y2),
		valid: true,
	}
}

// InvalidBBox returns a box that is not valid
func InvalidBBox() BBox {
	return BBox{}
}

// PointBBox returns the zero-area box of a single coordinate.
func PointBBox(p orb.Point) BBox {
	return NewBBox(p.X(), p.Y(), p.X(), p.Y())
}

// BoundBBox converts an orb.Bound
func BoundBBox(b orb.Bound) BBox {
	return NewBBox(b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
}

// BBoxOf returns the union of the given coordinates.
// The result is invalid if there are no points.
func BBoxOf(points ...orb.Point) BBox {
	b := InvalidBBox()
	for _, p := range points {
		b = b.Union(PointBBox(p))
	}
	return b
}

// Valid reports whether the box has geometry.
func (b BBox) Valid() bool {
	return b.valid
}

// Union returns the smallest box that contains both boxes.
// Invalid operands are ignored.
func (b BBox) Union(o BBox) BBox {
	if !o.valid {
		return b
	}
	if !b.valid {
		return o
	}
	return BBox{
		MinX:  math.Min(b.MinX, o.MinX),
		MinY:  math.Min(b.MinY, o.MinY),
		MaxX:  math.Max(b.MaxX, o.MaxX),
		MaxY:  math.Max(b.MaxY, o.MaxY),
		valid: true,
	}
}

// Intersects reports whether the two boxes share at least one point.
// Edges are inclusive, so touching boxes intersect.
func (b BBox) Intersects(o BBox) bool {
	if !b.valid || !o.valid {
		return false
	}
	return o.MaxX >= b.MinX && o.MinX <= b.MaxX && o.MaxY >= b.MinY && o.MinY <= b.MaxY
}

// Contains reports whether o lies entirely inside b.
func (b BBox) Contains(o BBox) bool {
	if !b.valid || !o.valid {
		return false
	}
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

// Width is the extent along X.
func (b BBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height is the extent along Y.
func (b BBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Center returns the midpoint of the box.
func (b BBox) Center() orb.Point {
	return orb.Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// Bound converts the box to an orb.Bound. An invalid box yields the empty bound at the origin.
func (b BBox) Bound() orb.Bound {
	if !b.valid {
		return orb.Bound{}
	}
	return orb.Bound{Min: orb.Point{b.MinX, b.MinY}, Max: orb.Point{b.MaxX, b.MaxY}}
}

func (b BBox) String() string {
	if !b.valid {
		return "BBox(invalid)"
	}
	return fmt.Sprintf("BBox(%g %g, %g %g)", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
