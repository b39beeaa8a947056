// Package associate attaches extracted text fragments to nearby candidate
// elements as typed relationships, producing enriched copies of the
// candidates. Inputs are never mutated, so the same candidate slice can be
// associated against several text sets concurrently.
package associate

import (
	"strings"

	"github.com/construct-iq/drawscan/internal/element"
	"github.com/construct-iq/drawscan/internal/geometry"
	"github.com/construct-iq/drawscan/internal/policy"
	"github.com/construct-iq/drawscan/internal/textract"
)

// Relationship tags how a text fragment relates to an element.
type Relationship string

const (
	RelLabel         Relationship = "label"
	RelDimension     Relationship = "dimension"
	RelMaterial      Relationship = "material"
	RelSpecification Relationship = "specification"
	RelRoomName      Relationship = "room_name"
	RelNearby        Relationship = "nearby"
)

// Mapping records one accepted text-to-element relationship.
type Mapping struct {
	Text         textract.Text `json:"text"`
	Relationship Relationship  `json:"relationship"`
	Distance     float64       `json:"distance"`
}

// DimensionRef is a dimension fragment attached to an element.
type DimensionRef struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Text  string  `json:"text"`
}

// Enhanced is an element copy enriched with its text mappings. Confidence is
// the candidate's base confidence plus a fixed increment per accepted
// mapping, capped at 1.0.
type Enhanced struct {
	element.Candidate

	TextMappings []Mapping `json:"text_mappings"`

	// Properties accumulated from attached text.
	Dimensions      []DimensionRef `json:"dimensions,omitempty"`
	Materials       []string       `json:"materials,omitempty"`
	Specifications  []string       `json:"specifications,omitempty"`
	RoomName        string         `json:"room_name,omitempty"`
	LabeledType     string         `json:"labeled_type,omitempty"`
	LabelConfidence float64        `json:"label_confidence,omitempty"`
}

// Associator pairs texts with elements by bbox-center proximity.
type Associator struct {
	pol policy.Policy
}

// New builds an associator with the given policy thresholds.
func New(pol policy.Policy) *Associator {
	return &Associator{pol: pol}
}

// Associate returns one Enhanced per input candidate, in order. Elements
// with no qualifying nearby text keep their original confidence and an
// empty mapping list.
func (a *Associator) Associate(cands []element.Candidate, texts []textract.Text) []Enhanced {
	enhanced := make([]Enhanced, len(cands))
	for i, cand := range cands {
		e := Enhanced{Candidate: cand}
		for _, t := range texts {
			dist := geometry.CenterDistance(t.BBox, cand.BBox)
			rel, ok := a.relate(t, cand, dist)
			if !ok {
				continue
			}
			e.TextMappings = append(e.TextMappings, Mapping{
				Text:         t,
				Relationship: rel,
				Distance:     dist,
			})
			applyMapping(&e, t, rel)
			e.Confidence += policy.MappingConfidenceBoost
			if e.Confidence > 1.0 {
				e.Confidence = 1.0
			}
		}
		enhanced[i] = e
	}
	return enhanced
}

// relate decides whether the fragment attaches to the element and how.
// Everything beyond the proximity threshold is discarded up front.
func (a *Associator) relate(t textract.Text, cand element.Candidate, dist float64) (Relationship, bool) {
	if dist > a.pol.ProximityThreshold {
		return "", false
	}

	switch t.Type {
	case textract.ElementLabel:
		if labelMatchesType(t.Text, cand.Type) {
			return RelLabel, true
		}
	case textract.Dimension:
		return RelDimension, true
	case textract.Material:
		return RelMaterial, true
	case textract.Specification:
		return RelSpecification, true
	case textract.RoomName:
		if cand.Type == element.Room {
			return RelRoomName, true
		}
	}

	// Unclassified text only attaches when it is very close.
	if dist < a.pol.ProximityThreshold/2 {
		return RelNearby, true
	}
	return "", false
}

// labelMatchesType accepts a label when its content and the element type
// name overlap in either direction ("WALL W1" labels a wall; "wall"
// candidate matches text "WALL").
func labelMatchesType(text string, typ element.Type) bool {
	upperText := strings.ToUpper(text)
	upperType := strings.ToUpper(string(typ))
	return strings.Contains(upperText, upperType) || strings.Contains(upperType, upperText)
}

func applyMapping(e *Enhanced, t textract.Text, rel Relationship) {
	switch rel {
	case RelLabel:
		e.LabeledType = t.Text
		e.LabelConfidence = t.Confidence
	case RelDimension:
		e.Dimensions = append(e.Dimensions, DimensionRef{
			Value: t.Properties.Value,
			Unit:  t.Properties.Unit,
			Text:  t.Text,
		})
	case RelMaterial:
		e.Materials = append(e.Materials, t.Text)
	case RelSpecification:
		e.Specifications = append(e.Specifications, t.Text)
	case RelRoomName:
		e.RoomName = t.Text
	}
}
