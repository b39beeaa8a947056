package fusion

import (
	"fmt"
	"math"
	"strings"

	"github.com/construct-iq/drawscan/internal/element"
	"github.com/construct-iq/drawscan/internal/geometry"
	"github.com/construct-iq/drawscan/internal/policy"
)

// Fuser combines measurements of one element taken from its primary drawing
// with measurements of the same element seen on referenced drawings.
type Fuser struct {
	pol policy.Policy
}

func New(pol policy.Policy) *Fuser {
	return &Fuser{pol: pol}
}

// Fuse measures an observation against elements found on referenced
// drawings. Each dimension in the element's template is fused
// independently: consistent sources average with a confidence boost,
// inconsistent sources fall back to the primary value.
func (f *Fuser) Fuse(obs Observation, refs []ReferenceElement, referenceDrawings []string) EnhancedElement {
	match := f.matchReference(obs, refs)

	measurements := make(map[MeasurementType]EnhancedMeasurement)
	for _, mt := range RequiredMeasurements(obs.Type) {
		if em, ok := f.fuseDimension(obs, match, mt, referenceDrawings); ok {
			measurements[mt] = em
		}
	}

	return EnhancedElement{
		ElementID:          elementID(obs),
		ElementType:        obs.Type,
		PrimaryDrawingID:   obs.DrawingID,
		ReferenceDrawings:  referenceDrawings,
		Measurements:       measurements,
		OverallConfidence:  meanConfidence(measurements),
		CrossRefConfidence: meanCrossRefConfidence(measurements),
		Completeness:       f.Completeness(measurements, obs.Type),
	}
}

// Basic converts an observation's raw measurements without any cross-drawing
// validation. Used when reference analysis is unavailable or fails.
func (f *Fuser) Basic(obs Observation) EnhancedElement {
	measurements := make(map[MeasurementType]EnhancedMeasurement)
	for mt := range synonymKeys {
		v, ok := obs.Measurements.Lookup(mt)
		if !ok {
			continue
		}
		measurements[mt] = EnhancedMeasurement{
			Type:               mt,
			Value:              v.Value,
			Unit:               v.Unit,
			Confidence:         v.Confidence,
			SourceDrawings:     []string{obs.DrawingID},
			CrossRefConfidence: 0.0,
			Method:             MethodDirect,
			Notes:              "Measurement from primary drawing only",
		}
	}

	overall := obs.Confidence
	if overall == 0 {
		overall = meanConfidence(measurements)
	}
	return EnhancedElement{
		ElementID:          elementID(obs),
		ElementType:        obs.Type,
		PrimaryDrawingID:   obs.DrawingID,
		ReferenceDrawings:  nil,
		Measurements:       measurements,
		OverallConfidence:  overall,
		CrossRefConfidence: 0.0,
		Completeness:       f.Completeness(measurements, obs.Type),
	}
}

// matchReference returns the first reference element of the same type whose
// position is close enough to be the same physical element.
func (f *Fuser) matchReference(obs Observation, refs []ReferenceElement) *ReferenceElement {
	for i := range refs {
		if refs[i].Type != obs.Type {
			continue
		}
		sim := geometry.PositionSimilarity(obs.BBox, refs[i].BBox, f.pol.NominalExtent)
		if sim >= f.pol.PositionSimilarity {
			return &refs[i]
		}
	}
	return nil
}

func (f *Fuser) fuseDimension(obs Observation, match *ReferenceElement, mt MeasurementType, referenceDrawings []string) (EnhancedMeasurement, bool) {
	primary, ok := obs.Measurements.Lookup(mt)
	if !ok {
		return EnhancedMeasurement{}, false
	}

	var crossValues []Value
	if match != nil {
		if cv, ok := match.Measurements.Lookup(mt); ok {
			crossValues = append(crossValues, cv)
		}
	}

	value, confidence, crossRefConf := f.combine(primary, crossValues)

	return EnhancedMeasurement{
		Type:               mt,
		Value:              value,
		Unit:               primary.Unit,
		Confidence:         confidence,
		SourceDrawings:     append([]string{obs.DrawingID}, referenceDrawings...),
		CrossRefConfidence: crossRefConf,
		Method:             method(crossValues),
		Notes:              notes(primary, crossValues),
	}, true
}

// combine validates the primary measurement against cross-reference values.
// Sources within tolerance of each other fuse to their mean with a
// confidence boost; otherwise the primary value stands with low
// cross-reference confidence.
func (f *Fuser) combine(primary Value, crossValues []Value) (value, confidence, crossRefConf float64) {
	if len(crossValues) == 0 {
		return primary.Value, primary.Confidence, 0.0
	}

	all := []float64{primary.Value}
	for _, cv := range crossValues {
		all = append(all, cv.Value)
	}
	mean, std := meanStddev(all)

	if std <= mean*f.pol.FusionTolerance {
		boosted := math.Min(1.0, primary.Confidence+policy.FusionConfidenceBoost)
		return mean, boosted, policy.ConsistentCrossRefConfidence
	}
	return primary.Value, primary.Confidence, policy.InconsistentCrossRefConfidence
}

func method(crossValues []Value) string {
	switch len(crossValues) {
	case 0:
		return MethodDirect
	case 1:
		return MethodCrossReference
	default:
		return MethodCalculated
	}
}

func notes(primary Value, crossValues []Value) string {
	if len(crossValues) == 0 {
		return "Measurement from primary drawing only"
	}

	parts := []string{fmt.Sprintf("Cross-referenced with %d additional drawings", len(crossValues))}

	all := []float64{primary.Value}
	for _, cv := range crossValues {
		all = append(all, cv.Value)
	}
	_, std := meanStddev(all)

	switch {
	case std < primary.Value*0.05:
		parts = append(parts, "Measurements are highly consistent across drawings")
	case std < primary.Value*0.1:
		parts = append(parts, "Measurements are consistent across drawings")
	default:
		parts = append(parts, "Measurements show some variation across drawings")
	}
	return strings.Join(parts, "; ")
}

// Completeness is the fraction of the element type's required dimensions
// that were actually measured. Types without a template count as complete.
func (f *Fuser) Completeness(measurements map[MeasurementType]EnhancedMeasurement, t element.Type) float64 {
	required := RequiredMeasurements(t)
	if len(required) == 0 {
		return 1.0
	}
	measured := 0
	for _, mt := range required {
		if _, ok := measurements[mt]; ok {
			measured++
		}
	}
	return float64(measured) / float64(len(required))
}

func elementID(obs Observation) string {
	if obs.ID != "" {
		return obs.ID
	}
	return obs.DrawingID + "_element"
}

func meanConfidence(measurements map[MeasurementType]EnhancedMeasurement) float64 {
	if len(measurements) == 0 {
		return 0.0
	}
	var sum float64
	for _, m := range measurements {
		sum += m.Confidence
	}
	return sum / float64(len(measurements))
}

func meanCrossRefConfidence(measurements map[MeasurementType]EnhancedMeasurement) float64 {
	if len(measurements) == 0 {
		return 0.0
	}
	var sum float64
	for _, m := range measurements {
		sum += m.CrossRefConfidence
	}
	return sum / float64(len(measurements))
}

func meanStddev(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
