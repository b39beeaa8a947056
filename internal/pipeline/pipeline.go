// Package pipeline runs the full drawing analysis sequence for one drawing:
// element detection, text extraction, text-element association, reference
// resolution into a shared graph, and cross-drawing measurement fusion.
//
// Every stage degrades rather than fails: an undecodable image yields empty
// results, a missing OCR engine switches text extraction to the geometric
// fallback, and a fusion problem falls back to direct measurements only.
package pipeline

import (
	"context"
	"image"

	"github.com/construct-iq/drawscan/internal/associate"
	"github.com/construct-iq/drawscan/internal/element"
	"github.com/construct-iq/drawscan/internal/fusion"
	"github.com/construct-iq/drawscan/internal/policy"
	"github.com/construct-iq/drawscan/internal/refgraph"
	"github.com/construct-iq/drawscan/internal/textract"
)

// Options configures an Analyzer. The zero value of Policy is replaced by
// policy.Default(); Engine may be nil to force the fallback text detector;
// Index maps callout marks to drawing ids and may be nil.
type Options struct {
	Policy policy.Policy
	Engine textract.Engine
	Index  refgraph.Index
}

// Analyzer orchestrates the per-drawing stages. It is stateless across
// drawings; cross-drawing state lives in the caller's reference graph.
type Analyzer struct {
	pol        policy.Policy
	classifier *element.Classifier
	extractor  *textract.Extractor
	associator *associate.Associator
	resolver   *refgraph.Resolver
	fuser      *fusion.Fuser
}

func New(opts Options) *Analyzer {
	pol := opts.Policy
	if pol == (policy.Policy{}) {
		pol = policy.Default()
	}
	return &Analyzer{
		pol:        pol,
		classifier: element.NewClassifier(pol),
		extractor:  textract.NewExtractor(opts.Engine, pol),
		associator: associate.New(pol),
		resolver:   refgraph.NewResolver(pol, opts.Index),
		fuser:      fusion.New(pol),
	}
}

// Result is the per-drawing analysis envelope.
type Result struct {
	DrawingID        string                   `json:"drawing_id"`
	Discipline       element.Discipline       `json:"discipline"`
	Elements         []associate.Enhanced     `json:"elements"`
	Texts            []textract.Text          `json:"texts"`
	References       []refgraph.Reference     `json:"references"`
	Enhanced         []fusion.EnhancedElement `json:"enhanced_elements"`
	ElementCount     int                      `json:"element_count"`
	TextCount        int                      `json:"text_count"`
	ProcessingMethod string                   `json:"processing_method"`
}

// Analyze runs all stages for one drawing. References found on the drawing
// are inserted into graph (which must not be nil); refElements are the
// elements already measured on drawings this one references, used for
// cross-drawing fusion and may be empty.
//
// A nil image returns an empty result, not an error. The only error returned
// is a cancelled context.
func (a *Analyzer) Analyze(ctx context.Context, drawingID string, img image.Image, d element.Discipline, graph *refgraph.Graph, refElements []fusion.ReferenceElement) (*Result, error) {
	res := &Result{
		DrawingID:        drawingID,
		Discipline:       d,
		ProcessingMethod: textract.MethodFallback,
	}
	if img == nil {
		return res, nil
	}

	candidates := a.classifier.Detect(img, d)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts, method := a.extractor.ExtractDetailed(img)
	res.ProcessingMethod = method
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Elements = a.associator.Associate(candidates, texts)
	res.Texts = texts

	res.References = a.resolver.Resolve(drawingID, img, texts)
	graph.Insert(drawingID, res.References)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	referenceDrawings := graph.ReferenceDrawings(drawingID)
	for _, e := range res.Elements {
		obs := Observation(drawingID, e)
		if len(refElements) > 0 {
			res.Enhanced = append(res.Enhanced, a.fuser.Fuse(obs, refElements, referenceDrawings))
		} else {
			res.Enhanced = append(res.Enhanced, a.fuser.Basic(obs))
		}
	}

	res.ElementCount = len(res.Elements)
	res.TextCount = len(res.Texts)
	return res, nil
}

// Observation converts an associated element into fusion input. The
// element's derived geometric properties seed the measurements in pixel
// units; dimension texts carry no axis of their own, so they are assigned to
// the element type's required dimensions in template order, overriding the
// pixel values.
func Observation(drawingID string, e associate.Enhanced) fusion.Observation {
	measurements := make(fusion.Measurements, len(e.Properties)+len(e.Dimensions))
	for name, v := range e.Properties {
		measurements[name] = fusion.Value{
			Value:      v,
			Unit:       "px",
			Confidence: e.Confidence,
		}
	}

	required := fusion.RequiredMeasurements(e.Type)
	for i, dim := range e.Dimensions {
		if i >= len(required) {
			break
		}
		measurements[string(required[i])] = fusion.Value{
			Value:      dim.Value,
			Unit:       dim.Unit,
			Confidence: e.Confidence,
		}
	}

	return fusion.Observation{
		ID:           e.ID,
		Type:         e.Type,
		DrawingID:    drawingID,
		BBox:         e.BBox,
		Confidence:   e.Confidence,
		Measurements: measurements,
	}
}
