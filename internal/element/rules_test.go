package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construct-iq/drawscan/internal/geometry"
	"github.com/construct-iq/drawscan/internal/policy"
)

// box builds bounds with a given width and height at the origin.
func box(w, h int) geometry.Bounds {
	return geometry.Bounds{X1: 0, Y1: 0, X2: w, Y2: h}
}

func TestClassifyBoundsByDiscipline(t *testing.T) {
	c := NewClassifier(policy.Default())

	cases := []struct {
		name       string
		bbox       geometry.Bounds
		discipline Discipline
		wantType   Type
		wantConf   float64
	}{
		// aspect 6, area 3750: beam under structural rules,
		// wall under architectural rules.
		{"structural beam", box(150, 25), Structural, Beam, 0.90},
		{"architectural wall", box(150, 25), Architectural, Wall, 0.85},

		{"structural column", box(20, 60), Structural, Column, 0.85},
		{"structural foundation", box(80, 80), Structural, Foundation, 0.75},
		{"architectural door", box(40, 80), Architectural, Door, 0.80},
		{"architectural window", box(40, 40), Architectural, Window, 0.75},
		{"tall thin wall", box(20, 120), Architectural, Wall, 0.85},
		{"civil road", box(160, 40), Civil, Road, 0.85},
		{"civil utility", box(30, 30), Civil, Utility, 0.70},
		{"services duct", box(60, 40), Services, Duct, 0.80},
		{"services panel", box(120, 10), Services, Panel, 0.75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cand, ok := c.ClassifyBounds(tc.bbox, tc.discipline)
			require.True(t, ok, "expected a rule to match")
			assert.Equal(t, tc.wantType, cand.Type)
			assert.Equal(t, tc.wantConf, cand.Confidence)
			assert.Equal(t, tc.discipline, cand.Discipline)
		})
	}
}

func TestClassifyBoundsPriorityOrder(t *testing.T) {
	c := NewClassifier(policy.Default())

	// aspect 6, area 12000 satisfies both beam and foundation; the beam
	// rule is more specific and listed first.
	cand, ok := c.ClassifyBounds(box(300, 40), Structural)
	require.True(t, ok)
	assert.Equal(t, Beam, cand.Type)
}

func TestClassifyBoundsNoMatch(t *testing.T) {
	c := NewClassifier(policy.Default())

	// Tiny square: too small for every structural rule.
	_, ok := c.ClassifyBounds(box(10, 10), Structural)
	assert.False(t, ok)
}

func TestClassifyBoundsUnknownDisciplineGeneric(t *testing.T) {
	c := NewClassifier(policy.Default())

	cand, ok := c.ClassifyBounds(box(30, 30), Discipline("landscape"))
	require.True(t, ok)
	assert.Equal(t, Generic, cand.Type)
	assert.Equal(t, 0.60, cand.Confidence)

	// Below the generic area floor nothing is emitted.
	_, ok = c.ClassifyBounds(box(20, 20), Discipline("landscape"))
	assert.False(t, ok)
}

func TestDerivedProperties(t *testing.T) {
	c := NewClassifier(policy.Default())

	wall, ok := c.ClassifyBounds(box(150, 25), Architectural)
	require.True(t, ok)
	assert.Equal(t, 150.0, wall.Properties["length"])
	assert.Equal(t, 25.0, wall.Properties["thickness"])
	assert.Equal(t, 3750.0, wall.Properties["area"])

	beam, ok := c.ClassifyBounds(box(150, 25), Structural)
	require.True(t, ok)
	assert.Equal(t, 150.0, beam.Properties["length"])
	assert.Equal(t, 25.0, beam.Properties["depth"])
}

func TestParseDiscipline(t *testing.T) {
	assert.Equal(t, Structural, ParseDiscipline("structural"))
	assert.Equal(t, Civil, ParseDiscipline("civil"))
	assert.Equal(t, Services, ParseDiscipline("services"))
	assert.Equal(t, Architectural, ParseDiscipline("architectural"))
	assert.Equal(t, Architectural, ParseDiscipline(""))
	assert.Equal(t, Architectural, ParseDiscipline("unknown"))
}
