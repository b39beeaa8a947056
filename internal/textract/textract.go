// Package textract extracts positioned text fragments from rasterized
// drawings and classifies them by semantic category.
//
// Recognition uses a Tesseract-backed engine when the binary is built with
// cgo. Without an engine the package degrades to a geometric detector that
// finds text-like regions (small, high-edge-density boxes) and emits
// placeholder tokens at reduced confidence, so downstream association still
// has positions to work with.
package textract

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/construct-iq/drawscan/internal/geometry"
	"github.com/construct-iq/drawscan/internal/policy"
)

// ErrUnavailable is returned by an Engine that was compiled out of the
// binary (no cgo) or failed to initialize.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Word is one recognized token. Corners may describe an arbitrary
// quadrilateral; consumers normalize it to an axis-aligned box.
type Word struct {
	Text       string
	Confidence float64
	Corners    []geometry.Point
}

// Engine recognizes text in an image. Implementations are synchronous and
// carry no retry policy; callers decide timeouts.
type Engine interface {
	Recognize(img image.Image) ([]Word, error)
}

// Text is a positioned, classified text fragment.
type Text struct {
	Text       string          `json:"text"`
	BBox       geometry.Bounds `json:"bbox"`
	Confidence float64         `json:"confidence"`
	Type       TextType        `json:"text_type"`
	Properties Properties      `json:"properties"`
}

// Properties holds values parsed out of a fragment for downstream reuse.
type Properties struct {
	// HasDimension is set when the text starts with a number, optionally
	// followed by a unit. Value is that number and Unit defaults to "MM"
	// when the text carries none.
	HasDimension bool    `json:"has_dimension,omitempty"`
	Value        float64 `json:"value,omitempty"`
	Unit         string  `json:"unit,omitempty"`

	// Numbers lists every numeric token in the text, Keywords every
	// all-caps token of two or more letters.
	Numbers  []float64 `json:"numbers,omitempty"`
	Keywords []string  `json:"keywords,omitempty"`
}

// Extractor runs recognition plus classification over drawing images.
type Extractor struct {
	engine Engine
	pol    policy.Policy
}

// NewExtractor builds an extractor around the given engine. A nil engine is
// allowed and forces the geometric fallback.
func NewExtractor(engine Engine, pol policy.Policy) *Extractor {
	return &Extractor{engine: engine, pol: pol}
}

// Recognition methods reported by ExtractDetailed.
const (
	MethodOCR      = "ocr"
	MethodFallback = "fallback"
)

// Extract returns all classified text fragments found in the image. OCR
// failure or absence is not an error: the geometric fallback runs instead.
// A nil image yields an empty result.
func (e *Extractor) Extract(img image.Image) []Text {
	texts, _ := e.ExtractDetailed(img)
	return texts
}

// ExtractDetailed is Extract plus the recognition method actually used.
func (e *Extractor) ExtractDetailed(img image.Image) ([]Text, string) {
	if img == nil {
		return nil, MethodFallback
	}

	if e.engine != nil {
		words, err := e.engine.Recognize(img)
		if err == nil {
			return classifyWords(words), MethodOCR
		}
	}
	return e.fallbackRegions(img), MethodFallback
}

// ExtractRegion runs extraction on a sub-rectangle of the image, with
// returned bounds translated back into full-image coordinates.
func (e *Extractor) ExtractRegion(img image.Image, region geometry.Bounds) []Text {
	if img == nil || region.Empty() {
		return nil
	}
	cropped := imaging.Crop(img, image.Rect(region.X1, region.Y1, region.X2, region.Y2))
	texts := e.Extract(cropped)
	for i := range texts {
		texts[i].BBox.X1 += region.X1
		texts[i].BBox.Y1 += region.Y1
		texts[i].BBox.X2 += region.X1
		texts[i].BBox.Y2 += region.Y1
	}
	return texts
}

// classifyWords converts recognized words into classified fragments,
// normalizing each word's corner polygon to an axis-aligned box.
func classifyWords(words []Word) []Text {
	texts := make([]Text, 0, len(words))
	for _, w := range words {
		if w.Text == "" {
			continue
		}
		texts = append(texts, Text{
			Text:       w.Text,
			BBox:       geometry.BoundingBox(w.Corners),
			Confidence: w.Confidence,
			Type:       ClassifyText(w.Text),
			Properties: ParseProperties(w.Text),
		})
	}
	return texts
}

// fallbackRegions finds text-like regions without recognizing content:
// binarize, trace contours, keep small boxes whose shape is plausible for a
// text run. Tokens are placeholders and confidence is fixed low.
func (e *Extractor) fallbackRegions(img image.Image) []Text {
	binary := segment.Threshold(imaging.Grayscale(img), 128)
	edges := geometry.DetectEdges(binary, e.pol.EdgeGradientThreshold)
	contours := geometry.FindContours(edges, e.pol.MinContourSize)

	var texts []Text
	for _, contour := range contours {
		bbox := contour.BBox()
		w, h := bbox.Width(), bbox.Height()
		if w <= 10 || w >= 200 || h <= 5 || h >= 50 {
			continue
		}
		aspect := bbox.AspectRatio()
		if aspect <= 0.1 || aspect >= 10 {
			continue
		}
		texts = append(texts, Text{
			Text:       fmt.Sprintf("TEXT_%03d", len(texts)),
			BBox:       bbox,
			Confidence: policy.FallbackTextConfidence,
			Type:       General,
		})
	}
	return texts
}
