//go:build cgo

package textract

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"

	"github.com/construct-iq/drawscan/internal/geometry"
)

var _ Engine = (*TesseractEngine)(nil)

// TesseractEngine recognizes text using the Tesseract OCR library via
// gosseract. Requires the tesseract shared library and language data to be
// installed on the system.
type TesseractEngine struct {
	language string
}

// NewTesseractEngine returns an engine for the given Tesseract language
// code (e.g. "eng").
func NewTesseractEngine(language string) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{language: language}
}

// Recognize runs word-level OCR over the image. Tesseract consumes a file
// path, so the image is staged through a temporary PNG.
func (e *TesseractEngine) Recognize(img image.Image) ([]Word, error) {
	tmp, err := os.CreateTemp("", "drawscan-ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmp.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Corners: []geometry.Point{
				{X: box.Box.Min.X, Y: box.Box.Min.Y},
				{X: box.Box.Max.X, Y: box.Box.Min.Y},
				{X: box.Box.Max.X, Y: box.Box.Max.Y},
				{X: box.Box.Min.X, Y: box.Box.Max.Y},
			},
		})
	}
	return words, nil
}
