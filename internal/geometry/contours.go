package geometry

import "image"

// Contour is a connected component of edge pixels.
type Contour []Point

// BBox returns the contour's bounding box.
func (c Contour) BBox() Bounds { return BoundingBox(c) }

// EdgeMap is a binary image where true marks an edge pixel.
type EdgeMap struct {
	Pixels [][]bool
	Width  int
	Height int
}

// DetectEdges performs gradient-based edge detection on an image. A pixel is
// an edge when the absolute grayscale difference to its right or lower
// neighbor exceeds threshold. Border pixels are never edges.
func DetectEdges(img image.Image, threshold float64) EdgeMap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	em := EdgeMap{
		Pixels: make([][]bool, height),
		Width:  width,
		Height: height,
	}

	for y := 0; y < height; y++ {
		em.Pixels[y] = make([]bool, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			c := grayAt(img, x+bounds.Min.X, y+bounds.Min.Y)
			right := grayAt(img, x+1+bounds.Min.X, y+bounds.Min.Y)
			below := grayAt(img, x+bounds.Min.X, y+1+bounds.Min.Y)

			dx := c - right
			if dx < 0 {
				dx = -dx
			}
			dy := c - below
			if dy < 0 {
				dy = -dy
			}
			if dx > threshold || dy > threshold {
				em.Pixels[y][x] = true
			}
		}
	}
	return em
}

// FindContours groups connected edge pixels into contours using 8-connected
// flood fill. Components smaller than minSize are discarded as noise.
func FindContours(em EdgeMap, minSize int) []Contour {
	visited := make([][]bool, em.Height)
	for y := range visited {
		visited[y] = make([]bool, em.Width)
	}

	var contours []Contour
	for y := 0; y < em.Height; y++ {
		for x := 0; x < em.Width; x++ {
			if !em.Pixels[y][x] || visited[y][x] {
				continue
			}
			c := traceComponent(em, visited, x, y)
			if len(c) >= minSize {
				contours = append(contours, c)
			}
		}
	}
	return contours
}

// traceComponent collects one connected component with an explicit stack so
// deep contours cannot overflow the goroutine stack.
func traceComponent(em EdgeMap, visited [][]bool, startX, startY int) Contour {
	var contour Contour
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= em.Width || p.Y < 0 || p.Y >= em.Height {
			continue
		}
		if visited[p.Y][p.X] || !em.Pixels[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		contour = append(contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return contour
}

// grayAt converts a pixel to its ITU-R BT.601 luminance in [0,255].
func grayAt(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114
}
