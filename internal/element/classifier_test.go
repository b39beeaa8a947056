package element

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/construct-iq/drawscan/internal/policy"
)

// createFilledRectImage draws a filled black rectangle on a white canvas.
func createFilledRectImage(width, height, x1, y1, x2, y2 int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= x1 && x <= x2 && y >= y1 && y <= y2 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func TestDetectNilImage(t *testing.T) {
	c := NewClassifier(policy.Default())
	if got := c.Detect(nil, Architectural); got != nil {
		t.Errorf("Detect(nil) = %v, want nil", got)
	}
}

func TestDetectBlankImage(t *testing.T) {
	c := NewClassifier(policy.Default())
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.White)
		}
	}
	if got := c.Detect(img, Architectural); len(got) != 0 {
		t.Errorf("blank image produced %d candidates", len(got))
	}
}

func TestDetectWallFromLongRectangle(t *testing.T) {
	// 160x40 block: aspect 4, well above the wall area floor.
	img := createFilledRectImage(200, 200, 20, 80, 180, 120)
	c := NewClassifier(policy.Default())

	candidates := c.Detect(img, Architectural)
	if len(candidates) == 0 {
		t.Fatal("no candidates detected for long rectangle")
	}

	cand := candidates[0]
	if cand.Type != Wall {
		t.Errorf("Type = %s, want %s", cand.Type, Wall)
	}
	if cand.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", cand.Confidence)
	}
	if cand.ID != "wall_000" {
		t.Errorf("ID = %q, want wall_000", cand.ID)
	}
	if cand.Properties["length"] == 0 {
		t.Error("expected derived length property")
	}
}

func TestDetectSamplesFillColor(t *testing.T) {
	img := createFilledRectImage(200, 200, 20, 80, 180, 120)
	c := NewClassifier(policy.Default())

	candidates := c.Detect(img, Architectural)
	if len(candidates) == 0 {
		t.Fatal("no candidates detected")
	}
	fill := candidates[0].FillColor
	if !strings.HasPrefix(fill, "#") || len(fill) != 7 {
		t.Errorf("FillColor = %q, want #rrggbb", fill)
	}
}

func TestDetectDisciplineChangesClassification(t *testing.T) {
	// aspect > 4: structural reads it as a beam, architectural as a wall.
	img := createFilledRectImage(300, 200, 20, 80, 270, 120)
	c := NewClassifier(policy.Default())

	arch := c.Detect(img, Architectural)
	structural := c.Detect(img, Structural)
	if len(arch) == 0 || len(structural) == 0 {
		t.Fatal("expected candidates under both disciplines")
	}
	if arch[0].Type != Wall {
		t.Errorf("architectural Type = %s, want %s", arch[0].Type, Wall)
	}
	if structural[0].Type != Beam {
		t.Errorf("structural Type = %s, want %s", structural[0].Type, Beam)
	}
}
