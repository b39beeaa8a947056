package geometry

import (
	"image"
	"image/color"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createRectangleImage creates an image with a rectangle outline
func createRectangleImage(width, height int, rectX1, rectY1, rectX2, rectY2 int) *image.RGBA {
	img := createTestImage(width, height, color.White)

	for x := rectX1; x <= rectX2; x++ {
		img.Set(x, rectY1, color.Black)
		img.Set(x, rectY2, color.Black)
	}
	for y := rectY1; y <= rectY2; y++ {
		img.Set(rectX1, y, color.Black)
		img.Set(rectX2, y, color.Black)
	}
	return img
}

func TestDetectEdgesBlankImage(t *testing.T) {
	img := createTestImage(50, 50, color.White)
	em := DetectEdges(img, 30)

	if em.Width != 50 || em.Height != 50 {
		t.Fatalf("edge map size = %dx%d, want 50x50", em.Width, em.Height)
	}
	for y := 0; y < em.Height; y++ {
		for x := 0; x < em.Width; x++ {
			if em.Pixels[y][x] {
				t.Fatalf("unexpected edge at (%d, %d) in blank image", x, y)
			}
		}
	}
}

func TestDetectEdgesFindsOutline(t *testing.T) {
	img := createRectangleImage(100, 100, 20, 20, 80, 80)
	em := DetectEdges(img, 30)

	edgeCount := 0
	for y := 0; y < em.Height; y++ {
		for x := 0; x < em.Width; x++ {
			if em.Pixels[y][x] {
				edgeCount++
			}
		}
	}
	if edgeCount == 0 {
		t.Fatal("no edges detected on rectangle outline")
	}
}

func TestFindContoursRectangle(t *testing.T) {
	img := createRectangleImage(100, 100, 20, 20, 80, 80)
	em := DetectEdges(img, 30)
	contours := FindContours(em, 10)

	if len(contours) == 0 {
		t.Fatal("no contours found for rectangle outline")
	}

	// The outline is 8-connected, so it should come back as one component
	// whose bounding box roughly covers the drawn rectangle.
	bbox := contours[0].BBox()
	if bbox.X1 > 25 || bbox.Y1 > 25 || bbox.X2 < 75 || bbox.Y2 < 75 {
		t.Errorf("contour bbox %+v does not cover the rectangle", bbox)
	}
}

func TestFindContoursMinSizeFilter(t *testing.T) {
	// A tiny 3px mark should be dropped as noise with a larger minimum.
	img := createTestImage(50, 50, color.White)
	img.Set(25, 25, color.Black)
	img.Set(26, 25, color.Black)
	img.Set(27, 25, color.Black)

	em := DetectEdges(img, 30)
	if got := FindContours(em, 100); len(got) != 0 {
		t.Errorf("expected small component to be filtered, got %d contours", len(got))
	}
}
