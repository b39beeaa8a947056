package refgraph

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"

	"github.com/construct-iq/drawscan/internal/geometry"
)

// Reference glyphs are matched as small binary templates: a value of 1
// marks ink, 0 background. Templates are built once at init from simple
// stroke primitives, mirroring the marks drafters actually place on sheets.
const templateSize = 20

type symbolTemplate struct {
	name string
	kind ReferenceType
	ink  [][]float64
}

var symbolTemplates = []symbolTemplate{
	{name: "section-arrows", kind: Section, ink: arrowPairTemplate()},
	{name: "detail-circle", kind: Detail, ink: circleTemplate()},
	{name: "plan-square", kind: Plan, ink: squareTemplate()},
	{name: "elevation-arrow", kind: Elevation, ink: verticalArrowTemplate()},
}

// symbolReferences template-matches the glyph library against the grayscale
// drawing using normalized cross-correlation, keeping matches above the
// policy correlation threshold. Overlapping hits collapse to the first
// (strongest-first scan is not needed; glyphs of the same kind rarely abut).
func (r *Resolver) symbolReferences(drawingID string, img image.Image) []Reference {
	gray := effect.Grayscale(img)
	ink := inkMatrix(gray)

	var refs []Reference
	var taken []geometry.Bounds

	for _, tmpl := range symbolTemplates {
		for _, m := range matchTemplate(ink, tmpl.ink, r.pol.SymbolCorrelation) {
			if overlapsAny(m.bbox, taken) {
				continue
			}
			taken = append(taken, m.bbox)
			refs = append(refs, Reference{
				SourceDrawingID: drawingID,
				TargetDrawingID: UnknownTarget,
				Type:            tmpl.kind,
				Mark:            tmpl.name,
				BBox:            m.bbox,
				Confidence:      m.correlation,
				Description:     "symbol reference: " + tmpl.name,
			})
		}
	}
	return refs
}

// inkMatrix converts a grayscale image into ink intensity in [0,1], where 1
// is full black. Drawings are dark marks on a light background.
func inkMatrix(img image.Image) [][]float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	ink := make([][]float64, h)
	for y := 0; y < h; y++ {
		ink[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			ink[y][x] = 1.0 - float64(r>>8)/255.0
		}
	}
	return ink
}

type templateMatch struct {
	bbox        geometry.Bounds
	correlation float64
}

// matchTemplate slides the template over the ink matrix with a 2 px step
// and returns windows whose normalized cross-correlation meets minCorr.
// Flat windows (zero variance) never match.
func matchTemplate(ink, tmpl [][]float64, minCorr float64) []templateMatch {
	th := len(tmpl)
	if th == 0 {
		return nil
	}
	tw := len(tmpl[0])
	ih := len(ink)
	if ih < th {
		return nil
	}
	iw := len(ink[0])
	if iw < tw {
		return nil
	}

	tMean, tStd := meanStd(tmpl, 0, 0, tw, th, nil)
	if tStd == 0 {
		return nil
	}

	var matches []templateMatch
	for y := 0; y+th <= ih; y += 2 {
		for x := 0; x+tw <= iw; x += 2 {
			wMean, wStd := meanStd(nil, x, y, tw, th, ink)
			if wStd == 0 {
				continue
			}
			var cov float64
			for ty := 0; ty < th; ty++ {
				for tx := 0; tx < tw; tx++ {
					cov += (tmpl[ty][tx] - tMean) * (ink[y+ty][x+tx] - wMean)
				}
			}
			n := float64(tw * th)
			corr := cov / (n * tStd * wStd)
			if corr >= minCorr {
				matches = append(matches, templateMatch{
					bbox:        geometry.Bounds{X1: x, Y1: y, X2: x + tw, Y2: y + th},
					correlation: corr,
				})
			}
		}
	}
	return matches
}

// meanStd computes mean and standard deviation either of a full template
// (when m is nil) or of an ink window at (x,y).
func meanStd(tmpl [][]float64, x, y, w, h int, m [][]float64) (float64, float64) {
	at := func(ty, tx int) float64 {
		if m != nil {
			return m[y+ty][x+tx]
		}
		return tmpl[ty][tx]
	}
	n := float64(w * h)
	var sum float64
	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			sum += at(ty, tx)
		}
	}
	mean := sum / n
	var sq float64
	for ty := 0; ty < h; ty++ {
		for tx := 0; tx < w; tx++ {
			d := at(ty, tx) - mean
			sq += d * d
		}
	}
	return mean, math.Sqrt(sq / n)
}

func overlapsAny(b geometry.Bounds, taken []geometry.Bounds) bool {
	for _, t := range taken {
		if b.Overlaps(t) {
			return true
		}
	}
	return false
}

func blankTemplate() [][]float64 {
	t := make([][]float64, templateSize)
	for i := range t {
		t[i] = make([]float64, templateSize)
	}
	return t
}

func set(t [][]float64, x, y int) {
	if y >= 0 && y < templateSize && x >= 0 && x < templateSize {
		t[y][x] = 1
	}
}

// arrowPairTemplate draws a horizontal shaft with heads at both ends, the
// paired arrows of a section cut mark.
func arrowPairTemplate() [][]float64 {
	t := blankTemplate()
	for x := 3; x <= 16; x++ {
		set(t, x, 9)
		set(t, x, 10)
	}
	for d := 1; d <= 4; d++ {
		set(t, 3+d, 9-d)
		set(t, 3+d, 10+d)
		set(t, 16-d, 9-d)
		set(t, 16-d, 10+d)
	}
	return t
}

// circleTemplate draws a midpoint circle of radius 8, the detail callout
// bubble.
func circleTemplate() [][]float64 {
	t := blankTemplate()
	cx, cy, radius := 10, 10, 8
	x, y, err := radius, 0, 0
	for x >= y {
		set(t, cx+x, cy+y)
		set(t, cx+y, cy+x)
		set(t, cx-y, cy+x)
		set(t, cx-x, cy+y)
		set(t, cx-x, cy-y)
		set(t, cx-y, cy-x)
		set(t, cx+y, cy-x)
		set(t, cx+x, cy-y)
		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
	return t
}

// squareTemplate draws a square outline, the plan/level callout box.
func squareTemplate() [][]float64 {
	t := blankTemplate()
	for i := 2; i <= 17; i++ {
		set(t, i, 2)
		set(t, i, 17)
		set(t, 2, i)
		set(t, 17, i)
	}
	return t
}

// verticalArrowTemplate draws an upward arrow, the elevation view marker.
func verticalArrowTemplate() [][]float64 {
	t := blankTemplate()
	for y := 4; y <= 16; y++ {
		set(t, 10, y)
	}
	for d := 1; d <= 4; d++ {
		set(t, 10-d, 4+d)
		set(t, 10+d, 4+d)
	}
	return t
}
