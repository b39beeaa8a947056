package config

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construct-iq/drawscan/internal/policy"
)

func testImage(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "plan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func validConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.ImagePath = testImage(t)
	cfg.DrawingID = "plan"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	pol := policy.Default()

	assert.Equal(t, DefaultDiscipline, cfg.Discipline)
	assert.Equal(t, DefaultOCRLanguage, cfg.OCRLanguage)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, pol.ProximityThreshold, cfg.ProximityThreshold)
	assert.Equal(t, pol.FusionTolerance, cfg.FusionTolerance)
	assert.Equal(t, pol.NominalExtent, cfg.NominalExtent)
}

func TestValidateValid(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidateRequiresInput(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image path or a manifest")
}

func TestValidateMissingImage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImagePath = "/nonexistent/plan.png"
	assert.Error(t, cfg.Validate())
}

func TestValidateDiscipline(t *testing.T) {
	cfg := validConfig(t)
	cfg.Discipline = "landscape"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid discipline")

	for _, d := range []string{"architectural", "structural", "civil", "services"} {
		cfg.Discipline = d
		assert.NoError(t, cfg.Validate(), "discipline %s", d)
	}
}

func TestValidateTunables(t *testing.T) {
	cfg := validConfig(t)
	cfg.ProximityThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.FusionTolerance = 1.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig(t)
	cfg.NominalExtent = -10
	assert.Error(t, cfg.Validate())
}

func TestValidateLogLevel(t *testing.T) {
	cfg := validConfig(t)
	cfg.LogLevel = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.ProximityThreshold = 200
	cfg.FusionTolerance = 0.1
	cfg.NominalExtent = 2000

	pol := cfg.Policy()
	assert.Equal(t, 200.0, pol.ProximityThreshold)
	assert.Equal(t, 0.1, pol.FusionTolerance)
	assert.Equal(t, 2000.0, pol.NominalExtent)
	// Non-configurable thresholds keep their defaults.
	assert.Equal(t, policy.DefaultSymbolCorrelation, pol.SymbolCorrelation)
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsDebug())
	cfg.LogLevel = "debug"
	assert.True(t, cfg.IsDebug())
}
