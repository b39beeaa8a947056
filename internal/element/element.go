// Package element detects candidate building elements in rasterized
// engineering drawings using geometric heuristics.
//
// Detection runs edge extraction and contour grouping over the image, then
// classifies each contour's bounding box against an ordered, per-discipline
// rule table. Rules are plain data (predicate, element type, base
// confidence) so the thresholds can be exercised in tests without images.
package element

import (
	"fmt"

	"github.com/construct-iq/drawscan/internal/geometry"
)

// Discipline is the engineering category of a drawing. It selects which
// detection rule table applies.
type Discipline string

const (
	Architectural Discipline = "architectural"
	Structural    Discipline = "structural"
	Civil         Discipline = "civil"
	Services      Discipline = "services"
)

// ParseDiscipline maps a free-form tag to a known discipline, defaulting to
// architectural for anything unrecognized.
func ParseDiscipline(s string) Discipline {
	switch Discipline(s) {
	case Structural:
		return Structural
	case Civil:
		return Civil
	case Services:
		return Services
	default:
		return Architectural
	}
}

// Type identifies the kind of building component a candidate represents.
type Type string

const (
	Wall       Type = "wall"
	Door       Type = "door"
	Window     Type = "window"
	Beam       Type = "beam"
	Column     Type = "column"
	Slab       Type = "slab"
	Foundation Type = "foundation"
	Duct       Type = "duct"
	Pipe       Type = "pipe"
	Panel      Type = "panel"
	Road       Type = "road"
	Utility    Type = "utility"
	Room       Type = "room"
	Generic    Type = "element"
)

// Candidate is one geometry-derived guess at a building element. Candidates
// are immutable once produced; downstream enhancement copies rather than
// mutates.
type Candidate struct {
	// ID is assigned sequentially within one detection pass,
	// e.g. "wall_003".
	ID string `json:"id"`

	Type       Type            `json:"type"`
	BBox       geometry.Bounds `json:"bbox"`
	Confidence float64         `json:"confidence"`
	Discipline Discipline      `json:"discipline"`

	// Properties holds geometric values derived from the bounding box,
	// keyed by measurement name (length, width, height, area, ...). Pixel
	// units unless the drawing scale is known to the caller.
	Properties map[string]float64 `json:"properties"`

	// FillColor is the hex color sampled at the bbox center, when the
	// source image was available. Empty otherwise.
	FillColor string `json:"fill_color,omitempty"`
}

// assignID gives candidates their sequential per-pass identifiers.
func assignID(c *Candidate, index int) {
	c.ID = fmt.Sprintf("%s_%03d", c.Type, index)
}
