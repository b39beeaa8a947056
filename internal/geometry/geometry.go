// Package geometry provides the pixel-space primitives shared by the
// drawing analysis pipeline: bounding boxes, contour extraction from raster
// images, and the distance/overlap helpers the higher-level detectors build
// on.
//
// All coordinates follow the standard image convention: origin at the
// top-left corner, X increasing rightward, Y increasing downward. Bounding
// boxes store an inclusive top-left corner and an exclusive bottom-right
// corner.
package geometry

import "math"

// Point is a 2D pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Bounds is an axis-aligned rectangle in pixel space.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Width returns the horizontal extent in pixels.
func (b Bounds) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent in pixels.
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// Area returns Width × Height in square pixels.
func (b Bounds) Area() int { return b.Width() * b.Height() }

// Center returns the midpoint of the rectangle in continuous coordinates.
func (b Bounds) Center() (float64, float64) {
	return float64(b.X1+b.X2) / 2, float64(b.Y1+b.Y2) / 2
}

// AspectRatio returns Width/Height, or 0 for a degenerate box.
func (b Bounds) AspectRatio() float64 {
	h := b.Height()
	if h <= 0 {
		return 0
	}
	return float64(b.Width()) / float64(h)
}

// Empty reports whether the box encloses no pixels.
func (b Bounds) Empty() bool { return b.X2 <= b.X1 || b.Y2 <= b.Y1 }

// Overlaps reports whether two boxes share any pixels.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.X1 < o.X2 && b.X2 > o.X1 && b.Y1 < o.Y2 && b.Y2 > o.Y1
}

// Union returns the smallest box enclosing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}

// CenterDistance returns the Euclidean distance between the centers of two
// boxes, in pixels.
func CenterDistance(a, b Bounds) float64 {
	ax, ay := a.Center()
	bx, by := b.Center()
	dx := ax - bx
	dy := ay - by
	return math.Sqrt(dx*dx + dy*dy)
}

// PositionSimilarity converts a center distance into a [0,1] similarity by
// normalizing against the nominal sheet extent: 1.0 means identical
// position, 0.0 means at least a full sheet apart.
func PositionSimilarity(a, b Bounds, nominalExtent float64) float64 {
	if nominalExtent <= 0 {
		return 0
	}
	sim := 1.0 - CenterDistance(a, b)/nominalExtent
	if sim < 0 {
		return 0
	}
	return sim
}

// BoundingBox returns the tightest box around a set of points. Returns an
// empty Bounds for an empty slice.
func BoundingBox(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: points[0].X, Y1: points[0].Y, X2: points[0].X, Y2: points[0].Y}
	for _, p := range points[1:] {
		if p.X < b.X1 {
			b.X1 = p.X
		}
		if p.X > b.X2 {
			b.X2 = p.X
		}
		if p.Y < b.Y1 {
			b.Y1 = p.Y
		}
		if p.Y > b.Y2 {
			b.Y2 = p.Y
		}
	}
	// Bottom-right is exclusive.
	b.X2++
	b.Y2++
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
