package refgraph

import (
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/construct-iq/drawscan/internal/geometry"
	"github.com/construct-iq/drawscan/internal/policy"
	"github.com/construct-iq/drawscan/internal/textract"
)

// Index maps a normalized reference mark (e.g. "SECTION A-A", "DETAIL 1")
// to the drawing id it names in the current drawing set. Marks missing from
// the index resolve to UnknownTarget.
type Index map[string]string

// Lookup resolves a mark, returning UnknownTarget when the set contains no
// matching drawing.
func (ix Index) Lookup(mark string) string {
	if ix != nil {
		if id, ok := ix[strings.ToUpper(strings.TrimSpace(mark))]; ok {
			return id
		}
	}
	return UnknownTarget
}

// markPattern pairs one regex family with the reference type it indicates.
// Ordered: the distinctive multi-word forms come before the terse "A-A"
// style so a mark is claimed by its most specific family.
type markPattern struct {
	re   *regexp.Regexp
	kind ReferenceType
}

var markPatterns = []markPattern{
	{regexp.MustCompile(`(?i)SECTION\s+([A-Z])`), Section},
	{regexp.MustCompile(`(?i)DETAIL\s+(\d+)`), Detail},
	{regexp.MustCompile(`(?i)DET\s+(\d+)`), Detail},
	{regexp.MustCompile(`(?i)ELEVATION\s+([A-Z])\b`), Elevation},
	{regexp.MustCompile(`(?i)ELEV\s+([A-Z])\b`), Elevation},
	{regexp.MustCompile(`(?i)PLAN\s+(\d+)`), Plan},
	{regexp.MustCompile(`(?i)LEVEL\s+(\d+)`), Plan},
	{regexp.MustCompile(`(?i)FLOOR\s+(\d+)`), Plan},
	{regexp.MustCompile(`\b([A-Z])\s*-\s*([A-Z])\b`), Section},
}

// textReferenceConfidence is the fixed confidence of a regex-detected mark;
// OCR quality is already reflected in whether the mark survived extraction.
const textReferenceConfidence = 0.8

// lineReferenceConfidence is lower: a long straight stroke is weaker
// evidence of a section cut than an explicit mark.
const (
	lineReferenceConfidence = 0.6
	minReferenceLineRun     = 50
)

// Resolver finds cross-drawing references on a single drawing.
type Resolver struct {
	pol   policy.Policy
	index Index
}

// NewResolver builds a resolver. index may be nil, in which case every mark
// resolves to UnknownTarget.
func NewResolver(pol policy.Policy, index Index) *Resolver {
	return &Resolver{pol: pol, index: index}
}

// Resolve runs the text, symbol and line detectors over one drawing and
// returns the validated references. img may be nil (text-only resolution);
// texts may be empty (symbol-only). Failures degrade to fewer references,
// never an error.
func (r *Resolver) Resolve(drawingID string, img image.Image, texts []textract.Text) []Reference {
	var refs []Reference
	refs = append(refs, r.textReferences(drawingID, texts)...)
	if img != nil {
		refs = append(refs, r.symbolReferences(drawingID, img)...)
		refs = append(refs, r.lineReferences(drawingID, img)...)
	}
	return r.validate(refs)
}

// textReferences scans each extracted fragment against the mark pattern
// families. Within one fragment the first family of a given type claims it,
// so "SECTION A-A" is one section mark, not two; across fragments repeated
// (mark, type) pairs collapse to one edge.
func (r *Resolver) textReferences(drawingID string, texts []textract.Text) []Reference {
	var refs []Reference
	seen := make(map[string]struct{})

	for _, t := range texts {
		claimed := make(map[ReferenceType]struct{})
		for _, mp := range markPatterns {
			if _, done := claimed[mp.kind]; done {
				continue
			}
			for _, mark := range mp.re.FindAllString(t.Text, -1) {
				claimed[mp.kind] = struct{}{}
				key := string(mp.kind) + "|" + strings.ToUpper(mark)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				refs = append(refs, Reference{
					SourceDrawingID: drawingID,
					TargetDrawingID: r.index.Lookup(mark),
					Type:            mp.kind,
					Mark:            mark,
					BBox:            t.BBox,
					Confidence:      textReferenceConfidence,
					Description:     fmt.Sprintf("%s reference: %s", mp.kind, mark),
				})
			}
		}
	}
	return refs
}

// lineReferences finds long straight edge runs, which on engineering sheets
// usually belong to section cut lines. Horizontal and vertical runs only;
// diagonal cut lines are rare enough to ignore.
func (r *Resolver) lineReferences(drawingID string, img image.Image) []Reference {
	edges := geometry.DetectEdges(img, r.pol.EdgeGradientThreshold)

	var refs []Reference
	add := func(b geometry.Bounds) {
		refs = append(refs, Reference{
			SourceDrawingID: drawingID,
			TargetDrawingID: UnknownTarget,
			Type:            Section,
			Mark:            "LINE_REF",
			BBox:            b,
			Confidence:      lineReferenceConfidence,
			Description:     "line reference",
		})
	}

	for y := 0; y < edges.Height; y++ {
		run := 0
		for x := 0; x <= edges.Width; x++ {
			if x < edges.Width && edges.Pixels[y][x] {
				run++
				continue
			}
			if run >= minReferenceLineRun {
				add(geometry.Bounds{X1: x - run, Y1: y, X2: x, Y2: y + 1})
			}
			run = 0
		}
	}
	for x := 0; x < edges.Width; x++ {
		run := 0
		for y := 0; y <= edges.Height; y++ {
			if y < edges.Height && edges.Pixels[y][x] {
				run++
				continue
			}
			if run >= minReferenceLineRun {
				add(geometry.Bounds{X1: x, Y1: y - run, X2: x + 1, Y2: y})
			}
			run = 0
		}
	}
	return refs
}

// validate keeps references with sufficient confidence and a usable
// position. Marks with unknown targets pass; an unresolved mark is still a
// real edge.
func (r *Resolver) validate(refs []Reference) []Reference {
	valid := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		if ref.Confidence <= r.pol.ReferenceMinConfidence {
			continue
		}
		if ref.BBox.Empty() {
			continue
		}
		valid = append(valid, ref)
	}
	return valid
}
