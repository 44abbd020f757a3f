package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
)

// Framebuffer is the RGB render target.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
	BG            Color // Clear color
}

// NewFramebuffer allocates a framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 1), max(height, 1)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Resize reallocates the pixel storage when the size changes.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]Color, width*height)
}

// Clear fills the framebuffer with the background color.
func (fb *Framebuffer) Clear() {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = fb.BG
	for i := 1; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel writes a pixel; out-of-range writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel reads a pixel; out-of-range reads return the background.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return fb.BG
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a 2D line with Bresenham's algorithm, clipped to the
// framebuffer.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	fb.DrawLineF(float64(x0), float64(y0), float64(x1), float64(y1), c)
}

// DrawLineF draws a line between projected points, which may lie far
// outside the framebuffer. Only the visible part is walked.
func (fb *Framebuffer) DrawLineF(x0, y0, x1, y1 float64, c Color) {
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, float64(fb.Width-1), float64(fb.Height-1))
	if !ok {
		return
	}
	fb.bresenham(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), c)
}

// clipLine clips a segment to [0,maxX]x[0,maxY] (Liang-Barsky).
func clipLine(x0, y0, x1, y1, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{{-dx, x0}, {dx, maxX - x0}, {-dy, y0}, {dy, maxY - y0}} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func (fb *Framebuffer) bresenham(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ToImage converts the framebuffer into an image for display or encoding.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		o := i * 4
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = c.R, c.G, c.B, 255
	}
	return img
}

// SavePNG writes the framebuffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
