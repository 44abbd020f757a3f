package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(100, 100)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.SetPixel(x, y, RGB(uint8(x*2), uint8(y*2), 128))
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("File not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("File is empty")
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(50, 50)
	fb.SetPixel(10, 20, ColorRed)
	fb.SetPixel(30, 40, ColorGreen)

	img := fb.ToImage()
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("Image dimensions wrong: got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	r, g, b, _ := img.At(10, 20).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Red pixel wrong: got %d,%d,%d", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(30, 40).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("Green pixel wrong: got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestFramebufferClearAndResize(t *testing.T) {
	fb := NewFramebuffer(7, 3)
	fb.BG = RGB(1, 2, 3)
	fb.Clear()
	for i, c := range fb.Pixels {
		if c != fb.BG {
			t.Fatalf("pixel %d = %v after Clear, want %v", i, c, fb.BG)
		}
	}
	fb.Resize(10, 4)
	if fb.Width != 10 || fb.Height != 4 || len(fb.Pixels) != 40 {
		t.Errorf("after Resize: %dx%d with %d pixels", fb.Width, fb.Height, len(fb.Pixels))
	}
	fb.Resize(0, -1)
	if fb.Width != 1 || fb.Height != 1 {
		t.Errorf("degenerate Resize should clamp to 1x1, got %dx%d", fb.Width, fb.Height)
	}
}

func TestDrawLine(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	fb.DrawLine(0, 0, 9, 9, ColorWhite)
	for i := range 10 {
		if fb.GetPixel(i, i) != ColorWhite {
			t.Errorf("diagonal pixel (%d,%d) not set", i, i)
		}
	}
	fb.DrawLine(-5, 2, 20, 2, ColorRed)
	for x := range 10 {
		if fb.GetPixel(x, 2) != ColorRed {
			t.Errorf("clipped horizontal line missing pixel %d", x)
		}
	}
}

func TestDrawLineFarOffscreen(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	// Would walk 2e12 pixels without clipping.
	fb.DrawLineF(-1e12, 4, 1e12, 4, ColorGreen)
	for x := range 10 {
		if fb.GetPixel(x, 4) != ColorGreen {
			t.Errorf("pixel (%d,4) not set", x)
		}
	}
	fb.DrawLineF(-1e12, -1e12, -1e12, 1e12, ColorRed)
	fb.DrawLineF(math.NaN(), 0, 5, 5, ColorRed)
	fb.DrawLineF(math.Inf(1), 0, 5, 5, ColorRed)
	for i, p := range fb.Pixels {
		if p == ColorRed {
			t.Fatalf("pixel %d drawn by an invisible line", i)
		}
	}
}

func TestClipLine(t *testing.T) {
	tests := []struct {
		name               string
		x0, y0, x1, y1     float64
		ok                 bool
		wx0, wy0, wx1, wy1 float64
	}{
		{"inside", 1, 1, 8, 8, true, 1, 1, 8, 8},
		{"crosses left and right", -10, 5, 20, 5, true, 0, 5, 9, 5},
		{"diagonal through corner", -9, -9, 18, 18, true, 0, 0, 9, 9},
		{"above", 0, -3, 9, -1, false, 0, 0, 0, 0},
		{"right of", 12, 0, 12, 9, false, 0, 0, 0, 0},
		{"misses corner", -5, 3, 3, -5, false, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipLine(tt.x0, tt.y0, tt.x1, tt.y1, 9, 9)
			if ok != tt.ok {
				t.Fatalf("ok = %v", ok)
			}
			if !ok {
				return
			}
			got := [4]float64{x0, y0, x1, y1}
			want := [4]float64{tt.wx0, tt.wy0, tt.wx1, tt.wy1}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Errorf("clipped = %v, want %v", got, want)
					break
				}
			}
		})
	}
}
