// Package policy collects the tunable thresholds used by the detection and
// fusion pipeline in one place, so they can be adjusted and tested without
// touching algorithm code.
//
// Every constant here started life as a magic number in a detector. The
// defaults reflect values calibrated against scanned drawings rendered at
// roughly 1000 px per sheet edge; callers processing larger rasters should
// scale the pixel-space thresholds accordingly via a custom Policy.
package policy

// Pixel-space detection thresholds.
const (
	// DefaultProximityThreshold is the maximum center-to-center distance,
	// in pixels, at which a text fragment may attach to an element.
	DefaultProximityThreshold = 150.0

	// DefaultEdgeGradientThreshold is the grayscale gradient magnitude
	// above which a pixel is treated as an edge.
	DefaultEdgeGradientThreshold = 30.0

	// DefaultMinContourSize is the smallest connected edge component kept
	// as a contour; anything below is noise.
	DefaultMinContourSize = 10

	// DefaultNominalExtent is the assumed sheet extent, in pixels, used to
	// normalize cross-drawing position distances into a [0,1] similarity.
	DefaultNominalExtent = 1000.0
)

// Confidence and consistency thresholds.
const (
	// DefaultFusionTolerance is the relative standard deviation
	// (stddev/mean) below which independent measurements of the same
	// dimension are considered consistent.
	DefaultFusionTolerance = 0.05

	// DefaultPositionSimilarity is the minimum normalized position
	// similarity for two elements on different drawings to be treated as
	// the same physical element.
	DefaultPositionSimilarity = 0.7

	// DefaultSymbolCorrelation is the minimum normalized cross-correlation
	// for a reference glyph template match to be kept.
	DefaultSymbolCorrelation = 0.7

	// DefaultReferenceMinConfidence is the floor below which a detected
	// drawing reference is discarded during validation.
	DefaultReferenceMinConfidence = 0.5

	// ConsistentCrossRefConfidence is assigned when cross-drawing values
	// agree within tolerance; InconsistentCrossRefConfidence flags
	// disagreement without discarding the primary value.
	ConsistentCrossRefConfidence   = 0.9
	InconsistentCrossRefConfidence = 0.3

	// FusionConfidenceBoost is added (once, capped at 1.0) to a dimension's
	// confidence when cross-drawing values confirm it.
	FusionConfidenceBoost = 0.1

	// MappingConfidenceBoost is added per accepted text mapping, capped at
	// 1.0. Boosts are additive and independent of the fusion boost.
	MappingConfidenceBoost = 0.05

	// FallbackTextConfidence is assigned to text-like regions found by the
	// geometric fallback detector when no OCR engine is available.
	FallbackTextConfidence = 0.5
)

// Policy bundles the thresholds consumed across the pipeline. The zero value
// is not usable; start from Default() and override fields as needed.
type Policy struct {
	ProximityThreshold     float64
	EdgeGradientThreshold  float64
	MinContourSize         int
	NominalExtent          float64
	FusionTolerance        float64
	PositionSimilarity     float64
	SymbolCorrelation      float64
	ReferenceMinConfidence float64
}

// Default returns the calibrated defaults.
func Default() Policy {
	return Policy{
		ProximityThreshold:     DefaultProximityThreshold,
		EdgeGradientThreshold:  DefaultEdgeGradientThreshold,
		MinContourSize:         DefaultMinContourSize,
		NominalExtent:          DefaultNominalExtent,
		FusionTolerance:        DefaultFusionTolerance,
		PositionSimilarity:     DefaultPositionSimilarity,
		SymbolCorrelation:      DefaultSymbolCorrelation,
		ReferenceMinConfidence: DefaultReferenceMinConfidence,
	}
}
