package fusion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construct-iq/drawscan/internal/policy"
)

func fusedWall(t *testing.T) EnhancedElement {
	t.Helper()
	f := New(policy.Default())
	return f.Fuse(wallObservation(), []ReferenceElement{matchingReference(5.1)}, []string{"drawing_002"})
}

func TestReportRoundTrip(t *testing.T) {
	original := fusedWall(t)
	report := original.Report()

	restored := ElementFromReport(report)
	assert.Equal(t, original.ElementID, restored.ElementID)
	assert.Equal(t, original.ElementType, restored.ElementType)
	assert.Equal(t, original.PrimaryDrawingID, restored.PrimaryDrawingID)

	// The set of populated measurement keys survives the round trip.
	require.Len(t, restored.Measurements, len(original.Measurements))
	for mt := range original.Measurements {
		assert.Contains(t, restored.Measurements, mt)
	}
}

func TestReportRoundTripThroughJSON(t *testing.T) {
	report := fusedWall(t).Report()

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.ElementID, decoded.ElementID)
	assert.Equal(t, report.ElementType, decoded.ElementType)
	assert.Len(t, decoded.Measurements, len(report.Measurements))
}

func TestReportSummaryCounts(t *testing.T) {
	report := fusedWall(t).Report()

	assert.Equal(t, 2, report.Summary.TotalMeasurements)
	// Length is boosted to 0.9; height stays at 0.7.
	assert.Equal(t, 1, report.Summary.HighConfidence)
	// Only length carries cross-reference confirmation.
	assert.Equal(t, 1, report.Summary.CrossReferenced)
}

func TestReportRecommendations(t *testing.T) {
	report := fusedWall(t).Report()

	// Thickness is missing and half the measurements confirm poorly.
	assert.Contains(t, report.Summary.Recommendations, "Consider additional drawings for complete measurements")
	assert.Contains(t, report.Summary.Recommendations, "Cross-reference validation could improve accuracy")
	assert.Contains(t, report.Summary.Recommendations, "Missing measurements: [thickness]")
}

func TestReportNoRecommendationsWhenComplete(t *testing.T) {
	f := New(policy.Default())
	obs := wallObservation()
	obs.Measurements["thickness"] = Value{Value: 0.2, Unit: "m", Confidence: 0.9}

	ref := matchingReference(5.1)
	ref.Measurements["height"] = Value{Value: 3.0, Unit: "m", Confidence: 0.8}
	ref.Measurements["thickness"] = Value{Value: 0.2, Unit: "m", Confidence: 0.8}

	report := f.Fuse(obs, []ReferenceElement{ref}, []string{"drawing_002"}).Report()
	assert.Empty(t, report.Summary.Recommendations)
}
