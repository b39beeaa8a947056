package fusion

import (
	"fmt"
	"sort"

	"github.com/construct-iq/drawscan/internal/element"
)

// Report is the serializable takeoff view of an enhanced element.
type Report struct {
	ElementID          string                                  `json:"element_id"`
	ElementType        element.Type                            `json:"element_type"`
	PrimaryDrawing     string                                  `json:"primary_drawing"`
	ReferenceDrawings  []string                                `json:"reference_drawings"`
	OverallConfidence  float64                                 `json:"overall_confidence"`
	CrossRefConfidence float64                                 `json:"cross_reference_confidence"`
	Completeness       float64                                 `json:"measurement_completeness"`
	Measurements       map[MeasurementType]EnhancedMeasurement `json:"measurements"`
	Summary            Summary                                 `json:"summary"`
}

// Summary aggregates measurement quality for a report.
type Summary struct {
	TotalMeasurements int      `json:"total_measurements"`
	HighConfidence    int      `json:"high_confidence_measurements"`
	CrossReferenced   int      `json:"cross_referenced_measurements"`
	Recommendations   []string `json:"recommendations"`
}

// Report assembles the measurement report for a fused element.
func (e EnhancedElement) Report() Report {
	summary := Summary{
		TotalMeasurements: len(e.Measurements),
		Recommendations:   recommendations(e),
	}
	for _, m := range e.Measurements {
		if m.Confidence >= 0.8 {
			summary.HighConfidence++
		}
		if m.CrossRefConfidence > 0.5 {
			summary.CrossReferenced++
		}
	}

	return Report{
		ElementID:          e.ElementID,
		ElementType:        e.ElementType,
		PrimaryDrawing:     e.PrimaryDrawingID,
		ReferenceDrawings:  e.ReferenceDrawings,
		OverallConfidence:  e.OverallConfidence,
		CrossRefConfidence: e.CrossRefConfidence,
		Completeness:       e.Completeness,
		Measurements:       e.Measurements,
		Summary:            summary,
	}
}

// ElementFromReport rebuilds the enhanced element a report was generated
// from. Reports are lossless over the element fields.
func ElementFromReport(r Report) EnhancedElement {
	return EnhancedElement{
		ElementID:          r.ElementID,
		ElementType:        r.ElementType,
		PrimaryDrawingID:   r.PrimaryDrawing,
		ReferenceDrawings:  r.ReferenceDrawings,
		Measurements:       r.Measurements,
		OverallConfidence:  r.OverallConfidence,
		CrossRefConfidence: r.CrossRefConfidence,
		Completeness:       r.Completeness,
	}
}

func recommendations(e EnhancedElement) []string {
	var recs []string

	if e.Completeness < 0.8 {
		recs = append(recs, "Consider additional drawings for complete measurements")
	}
	if e.CrossRefConfidence < 0.5 {
		recs = append(recs, "Cross-reference validation could improve accuracy")
	}

	lowConfidence := 0
	for _, m := range e.Measurements {
		if m.Confidence < 0.7 {
			lowConfidence++
		}
	}
	if lowConfidence > 0 {
		recs = append(recs, fmt.Sprintf("Review %d low-confidence measurements", lowConfidence))
	}

	var missing []string
	for _, mt := range RequiredMeasurements(e.ElementType) {
		if _, ok := e.Measurements[mt]; !ok {
			missing = append(missing, string(mt))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		recs = append(recs, fmt.Sprintf("Missing measurements: %v", missing))
	}

	return recs
}
