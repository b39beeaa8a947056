package fusion

import (
	"github.com/construct-iq/drawscan/internal/element"
	"github.com/construct-iq/drawscan/internal/geometry"
)

// MeasurementType identifies the physical dimension a measurement describes.
type MeasurementType string

const (
	Length    MeasurementType = "length"
	Width     MeasurementType = "width"
	Height    MeasurementType = "height"
	Depth     MeasurementType = "depth"
	Area      MeasurementType = "area"
	Volume    MeasurementType = "volume"
	Angle     MeasurementType = "angle"
	Diameter  MeasurementType = "diameter"
	Thickness MeasurementType = "thickness"
)

// Measurement methods.
const (
	MethodDirect         = "direct"
	MethodCrossReference = "cross_reference"
	MethodCalculated     = "calculated"
)

// DefaultUnit is assumed when a source measurement carries no unit.
const DefaultUnit = "m"

// Value is a single sourced measurement before fusion.
type Value struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Measurements holds raw measurements keyed by free-form dimension names.
// Keys may be canonical type names or common shorthand; Lookup resolves both.
type Measurements map[string]Value

// synonymKeys maps each measurement type to the key spellings drawings use.
var synonymKeys = map[MeasurementType][]string{
	Length:    {"length", "l", "long"},
	Width:     {"width", "w", "wide"},
	Height:    {"height", "h", "high"},
	Depth:     {"depth", "d", "deep"},
	Area:      {"area", "a"},
	Volume:    {"volume", "v"},
	Thickness: {"thickness", "t", "thick"},
	Angle:     {"angle"},
	Diameter:  {"diameter", "dia"},
}

// Lookup resolves a measurement by canonical name or any known synonym.
func (m Measurements) Lookup(t MeasurementType) (Value, bool) {
	for _, key := range synonymKeys[t] {
		if v, ok := m[key]; ok {
			if v.Unit == "" {
				v.Unit = DefaultUnit
			}
			if v.Confidence == 0 {
				v.Confidence = 0.8
			}
			return v, true
		}
	}
	return Value{}, false
}

// measurementTemplates lists the dimensions a complete takeoff of each
// element type requires.
var measurementTemplates = map[element.Type][]MeasurementType{
	element.Wall:       {Length, Height, Thickness},
	element.Beam:       {Length, Width, Height},
	element.Column:     {Length, Width, Height},
	element.Slab:       {Length, Width, Thickness},
	element.Foundation: {Length, Width, Depth},
	element.Door:       {Length, Height, Thickness},
	element.Window:     {Length, Height, Thickness},
	element.Pipe:       {Length, Diameter},
	element.Duct:       {Length, Width, Height},
}

// RequiredMeasurements returns the measurement template for an element type,
// or nil when no template is defined.
func RequiredMeasurements(t element.Type) []MeasurementType {
	return measurementTemplates[t]
}

// Observation is an element measured on its primary drawing, the input to
// fusion.
type Observation struct {
	ID           string          `json:"id"`
	Type         element.Type    `json:"type"`
	DrawingID    string          `json:"drawing_id"`
	BBox         geometry.Bounds `json:"bbox"`
	Confidence   float64         `json:"confidence"`
	Measurements Measurements    `json:"measurements"`
}

// ReferenceElement is the same physical element as seen on a referenced
// drawing (a section, detail or schedule sheet).
type ReferenceElement struct {
	Type         element.Type    `json:"type"`
	DrawingID    string          `json:"drawing_id"`
	BBox         geometry.Bounds `json:"bbox"`
	Measurements Measurements    `json:"measurements"`
}

// EnhancedMeasurement is a fused measurement with cross-drawing validation.
type EnhancedMeasurement struct {
	Type               MeasurementType `json:"measurement_type"`
	Value              float64         `json:"value"`
	Unit               string          `json:"unit"`
	Confidence         float64         `json:"confidence"`
	SourceDrawings     []string        `json:"source_drawings"`
	CrossRefConfidence float64         `json:"cross_reference_confidence"`
	Method             string          `json:"measurement_method"`
	Notes              string          `json:"notes,omitempty"`
}

// EnhancedElement is the fused view of one element across drawings.
type EnhancedElement struct {
	ElementID          string                                  `json:"element_id"`
	ElementType        element.Type                            `json:"element_type"`
	PrimaryDrawingID   string                                  `json:"primary_drawing_id"`
	ReferenceDrawings  []string                                `json:"reference_drawings"`
	Measurements       map[MeasurementType]EnhancedMeasurement `json:"measurements"`
	OverallConfidence  float64                                 `json:"overall_confidence"`
	CrossRefConfidence float64                                 `json:"cross_reference_confidence"`
	Completeness       float64                                 `json:"measurement_completeness"`
}
