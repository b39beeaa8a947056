//go:build !cgo

package textract

import "image"

var _ Engine = (*TesseractEngine)(nil)

// TesseractEngine is a stub for builds without CGO. Recognition always
// reports the engine as unavailable, which routes extraction through the
// geometric fallback.
type TesseractEngine struct {
	language string
}

// NewTesseractEngine returns the stub engine.
func NewTesseractEngine(language string) *TesseractEngine {
	return &TesseractEngine{language: language}
}

// Recognize always fails with ErrUnavailable.
func (e *TesseractEngine) Recognize(image.Image) ([]Word, error) {
	return nil, ErrUnavailable
}
