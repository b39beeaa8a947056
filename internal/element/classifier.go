package element

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/construct-iq/drawscan/internal/geometry"
	"github.com/construct-iq/drawscan/internal/policy"
)

// Classifier turns raw contour geometry into candidate elements using the
// rule table for a discipline.
type Classifier struct {
	pol policy.Policy
}

// NewClassifier builds a classifier with the given policy thresholds.
func NewClassifier(pol policy.Policy) *Classifier {
	return &Classifier{pol: pol}
}

// Detect finds candidate elements in a decoded drawing image.
//
// A nil image (failed decode upstream) yields an empty slice so later stages
// degrade instead of failing. Contours matching no rule are omitted.
func (c *Classifier) Detect(img image.Image, d Discipline) []Candidate {
	if img == nil {
		return nil
	}

	edges := geometry.DetectEdges(img, c.pol.EdgeGradientThreshold)
	contours := geometry.FindContours(edges, c.pol.MinContourSize)

	candidates := make([]Candidate, 0, len(contours))
	for _, contour := range contours {
		bbox := contour.BBox()
		cand, ok := c.classifyBox(bbox, d)
		if !ok {
			continue
		}
		cand.FillColor = sampleHex(img, bbox)
		assignID(&cand, len(candidates))
		candidates = append(candidates, cand)
	}
	return candidates
}

// ClassifyBounds classifies a single bounding box without an image, which is
// how the rule tables are exercised in isolation.
func (c *Classifier) ClassifyBounds(bbox geometry.Bounds, d Discipline) (Candidate, bool) {
	return c.classifyBox(bbox, d)
}

func (c *Classifier) classifyBox(bbox geometry.Bounds, d Discipline) (Candidate, bool) {
	rules := rulesFor(d)
	aspect := bbox.AspectRatio()
	area := bbox.Area()

	for _, r := range rules {
		if !r.Match(aspect, area) {
			continue
		}
		return Candidate{
			Type:       r.Type,
			BBox:       bbox,
			Confidence: r.BaseConfidence,
			Discipline: d,
			Properties: r.Derive(bbox.Width(), bbox.Height(), area),
		}, true
	}
	return Candidate{}, false
}

// rulesFor selects the table for known disciplines and falls back to the
// generic catch-all rule for anything else.
func rulesFor(d Discipline) []Rule {
	switch d {
	case Architectural, Structural, Civil, Services:
		return disciplineRules(d)
	default:
		return []Rule{genericRule}
	}
}

// sampleHex reads the pixel at the box center as a #RRGGBB string. Returns
// empty when the center lies outside the image.
func sampleHex(img image.Image, bbox geometry.Bounds) string {
	cx, cy := bbox.Center()
	x, y := int(cx), int(cy)
	if !image.Pt(x, y).In(img.Bounds()) {
		return ""
	}
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return ""
	}
	return c.Hex()
}
