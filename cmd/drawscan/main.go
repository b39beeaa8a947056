package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/construct-iq/drawscan/internal/config"
	"github.com/construct-iq/drawscan/internal/drawings"
	"github.com/construct-iq/drawscan/internal/fusion"
	"github.com/construct-iq/drawscan/internal/pipeline"
	"github.com/construct-iq/drawscan/internal/refgraph"
	"github.com/construct-iq/drawscan/internal/textract"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// output is the machine-readable envelope printed to stdout.
type output struct {
	Version  string             `json:"version"`
	Drawings []*pipeline.Result `json:"drawings"`
	Graph    refgraph.Stats     `json:"reference_graph"`
	Reports  []fusion.Report    `json:"reports"`
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("drawscan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	// Logging goes to stderr; stdout carries the JSON results.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.IsDebug() {
		log.Printf("drawscan v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("%s", cfg)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Analysis error: %v", err)
	}
}

func run(cfg *config.Config) error {
	store := drawings.NewStore()

	var sheets []drawings.Sheet
	if cfg.ManifestPath != "" {
		loaded, err := store.LoadManifest(cfg.ManifestPath)
		if err != nil {
			return err
		}
		sheets = loaded
	} else {
		sheet := drawings.Sheet{ID: cfg.DrawingID, Path: cfg.ImagePath, Discipline: cfg.Discipline}
		store.Register(sheet)
		sheets = []drawings.Sheet{sheet}
	}

	var index refgraph.Index
	if cfg.IndexPath != "" {
		loaded, err := drawings.LoadIndex(cfg.IndexPath)
		if err != nil {
			return err
		}
		index = loaded
	}

	analyzer := pipeline.New(pipeline.Options{
		Policy: cfg.Policy(),
		Engine: textract.NewTesseractEngine(cfg.OCRLanguage),
		Index:  index,
	})
	graph := refgraph.NewGraph()

	out := output{Version: Version}

	// Elements measured on earlier sheets feed later sheets'
	// cross-drawing validation.
	var measured []fusion.ReferenceElement

	ctx := context.Background()
	for _, sheet := range sheets {
		img, err := store.Load(sheet.ID)
		if err != nil {
			// Per-sheet decode failures degrade to an empty result.
			log.Printf("Skipping drawing %s: %v", sheet.ID, err)
			img = nil
		}

		res, err := analyzer.Analyze(ctx, sheet.ID, img, sheet.ParsedDiscipline(), graph, measured)
		if err != nil {
			return fmt.Errorf("analyzing drawing %s: %w", sheet.ID, err)
		}
		store.Evict(sheet.ID)

		out.Drawings = append(out.Drawings, res)
		for _, enhanced := range res.Enhanced {
			out.Reports = append(out.Reports, enhanced.Report())
		}
		for _, e := range res.Elements {
			obs := pipeline.Observation(sheet.ID, e)
			measured = append(measured, fusion.ReferenceElement{
				Type:         obs.Type,
				DrawingID:    obs.DrawingID,
				BBox:         obs.BBox,
				Measurements: obs.Measurements,
			})
		}

		if cfg.IsDebug() {
			log.Printf("Drawing %s: %d elements, %d texts, %d references (%s)",
				sheet.ID, res.ElementCount, res.TextCount, len(res.References), res.ProcessingMethod)
		}
	}

	out.Graph = graph.Stats()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
