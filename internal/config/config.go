// Package config loads CLI configuration from flags and environment
// variables. Every DRAWSCAN_* environment variable has a matching flag.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/construct-iq/drawscan/internal/element"
	"github.com/construct-iq/drawscan/internal/policy"
)

const (
	DefaultDiscipline  = "architectural"
	DefaultOCRLanguage = "eng"
	DefaultLogLevel    = "info"
)

// Config holds all configuration for the drawscan CLI.
type Config struct {
	// Input: a single image, or a manifest listing a whole drawing set.
	ImagePath    string
	DrawingID    string
	Discipline   string
	ManifestPath string

	// Cross-drawing reference resolution
	IndexPath string // JSON file mapping callout marks to drawing ids

	// OCR
	OCRLanguage string

	// Tunables
	ProximityThreshold float64
	FusionTolerance    float64
	NominalExtent      float64

	// Application
	LogLevel string
	Version  string
}

// DefaultConfig returns a configuration with tunables taken from the default
// analysis policy.
func DefaultConfig() *Config {
	pol := policy.Default()
	return &Config{
		Discipline:         DefaultDiscipline,
		OCRLanguage:        DefaultOCRLanguage,
		ProximityThreshold: pol.ProximityThreshold,
		FusionTolerance:    pol.FusionTolerance,
		NominalExtent:      pol.NominalExtent,
		LogLevel:           DefaultLogLevel,
		Version:            "1.0.0",
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.ImagePath == "" && pflag.NArg() > 0 {
		cfg.ImagePath = pflag.Arg(0)
	}
	if cfg.ImagePath != "" {
		if abs, err := filepath.Abs(cfg.ImagePath); err == nil {
			cfg.ImagePath = abs
		}
	}
	if cfg.DrawingID == "" && cfg.ImagePath != "" {
		base := filepath.Base(cfg.ImagePath)
		cfg.DrawingID = base[:len(base)-len(filepath.Ext(base))]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DRAWSCAN")
	viper.AutomaticEnv()

	viper.SetDefault("image", cfg.ImagePath)
	viper.SetDefault("drawing", cfg.DrawingID)
	viper.SetDefault("discipline", cfg.Discipline)
	viper.SetDefault("manifest", cfg.ManifestPath)
	viper.SetDefault("index", cfg.IndexPath)
	viper.SetDefault("lang", cfg.OCRLanguage)
	viper.SetDefault("proximity", cfg.ProximityThreshold)
	viper.SetDefault("tolerance", cfg.FusionTolerance)
	viper.SetDefault("extent", cfg.NominalExtent)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("image", cfg.ImagePath, "Path to the drawing image (PNG, JPEG or GIF)")
	pflag.String("drawing", cfg.DrawingID, "Drawing id (defaults to the image file name)")
	pflag.String("discipline", cfg.Discipline, "Drawing discipline: architectural, structural, civil or services")
	pflag.String("manifest", cfg.ManifestPath, "JSON manifest listing a drawing set to analyze together")
	pflag.String("index", cfg.IndexPath, "JSON file mapping callout marks to drawing ids")
	pflag.String("lang", cfg.OCRLanguage, "Tesseract language")
	pflag.Float64("proximity", cfg.ProximityThreshold, "Text-element association distance in pixels")
	pflag.Float64("tolerance", cfg.FusionTolerance, "Cross-reference measurement tolerance fraction")
	pflag.Float64("extent", cfg.NominalExtent, "Nominal drawing extent in pixels for position similarity")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func bindFlagsToViper() {
	for _, name := range []string{"image", "drawing", "discipline", "manifest", "index", "lang", "proximity", "tolerance", "extent", "loglevel"} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ndrawscan - construction drawing element and measurement analysis\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s plan.png                                # architectural analysis\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --discipline=structural framing.png     # structural rules\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --index=marks.json --drawing=S-101 s101.png\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --manifest=set.json                     # whole drawing set\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DRAWSCAN_IMAGE       Drawing image path\n")
		fmt.Fprintf(os.Stderr, "  DRAWSCAN_MANIFEST    Drawing set manifest\n")
		fmt.Fprintf(os.Stderr, "  DRAWSCAN_DISCIPLINE  Drawing discipline\n")
		fmt.Fprintf(os.Stderr, "  DRAWSCAN_INDEX       Callout mark index file\n")
		fmt.Fprintf(os.Stderr, "  DRAWSCAN_LANG        Tesseract language\n")
		fmt.Fprintf(os.Stderr, "  DRAWSCAN_LOGLEVEL    Log level\n")
	}
}

func populateConfigFromViper(cfg *Config) {
	cfg.ImagePath = viper.GetString("image")
	cfg.DrawingID = viper.GetString("drawing")
	cfg.Discipline = viper.GetString("discipline")
	cfg.ManifestPath = viper.GetString("manifest")
	cfg.IndexPath = viper.GetString("index")
	cfg.OCRLanguage = viper.GetString("lang")
	cfg.ProximityThreshold = viper.GetFloat64("proximity")
	cfg.FusionTolerance = viper.GetFloat64("tolerance")
	cfg.NominalExtent = viper.GetFloat64("extent")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ImagePath == "" && c.ManifestPath == "" {
		return errors.New("an image path or a manifest is required")
	}
	if c.ImagePath != "" {
		if _, err := os.Stat(c.ImagePath); err != nil {
			return fmt.Errorf("cannot access image %s: %w", c.ImagePath, err)
		}
	}
	if c.ManifestPath != "" {
		if _, err := os.Stat(c.ManifestPath); err != nil {
			return fmt.Errorf("cannot access manifest %s: %w", c.ManifestPath, err)
		}
	}

	switch element.Discipline(c.Discipline) {
	case element.Architectural, element.Structural, element.Civil, element.Services:
	default:
		return fmt.Errorf("invalid discipline: %s (must be one of: architectural, structural, civil, services)", c.Discipline)
	}

	if c.ProximityThreshold <= 0 {
		return errors.New("proximity threshold must be positive")
	}
	if c.FusionTolerance <= 0 || c.FusionTolerance >= 1 {
		return errors.New("fusion tolerance must be in (0, 1)")
	}
	if c.NominalExtent <= 0 {
		return errors.New("nominal extent must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// Policy converts config tunables into an analysis policy.
func (c *Config) Policy() policy.Policy {
	pol := policy.Default()
	pol.ProximityThreshold = c.ProximityThreshold
	pol.FusionTolerance = c.FusionTolerance
	pol.NominalExtent = c.NominalExtent
	return pol
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Image: %s, Drawing: %s, Discipline: %s, LogLevel: %s}",
		c.ImagePath, c.DrawingID, c.Discipline, c.LogLevel)
}
