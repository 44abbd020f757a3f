package render

import (
	"image"
	"image/color"
	"testing"
)

func TestNewTexture(t *testing.T) {
	tex := NewTexture(64, 64)
	if tex.Width != 64 || tex.Height != 64 {
		t.Errorf("Expected 64x64, got %dx%d", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 64*64 {
		t.Errorf("Expected %d pixels, got %d", 64*64, len(tex.Pixels))
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(1, 0, color.RGBA{10, 20, 30, 255})
	tex := TextureFromImage(img)
	if tex.Width != 2 || tex.Height != 1 {
		t.Fatalf("size = %dx%d, want 2x1", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(1, 0); got != RGB(10, 20, 30) {
		t.Errorf("GetPixel(1,0) = %v", got)
	}
	if got := tex.GetPixel(5, 5); got != (Color{}) {
		t.Errorf("out of range read = %v, want black", got)
	}
}

func TestTextureSampleNearest(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0))   // Red at top-left
	tex.SetPixel(1, 0, RGB(0, 255, 0))   // Green at top-right
	tex.SetPixel(0, 1, RGB(0, 0, 255))   // Blue at bottom-left
	tex.SetPixel(1, 1, RGB(255, 255, 0)) // Yellow at bottom-right
	tex.FilterMode = FilterNearest
	// V is flipped, so V=1 is image Y=0
	tests := []struct {
		u, v     float64
		expected Color
		name     string
	}{
		{0.01, 0.99, RGB(255, 0, 0), "top-left (red)"},
		{0.99, 0.99, RGB(0, 255, 0), "top-right (green)"},
		{0.01, 0.01, RGB(0, 0, 255), "bottom-left (blue)"},
		{0.99, 0.01, RGB(255, 255, 0), "bottom-right (yellow)"},
	}
	for _, tt := range tests {
		c := tex.Sample(tt.u, tt.v)
		if c != tt.expected {
			t.Errorf("Sample(%v, %v) = %v, want %v (%s)", tt.u, tt.v, c, tt.expected, tt.name)
		}
	}
}

func TestTextureWrapModes(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0)) // Red top-left
	tex.SetPixel(1, 0, RGB(0, 255, 0)) // Green top-right
	tex.FilterMode = FilterNearest

	tex.WrapU, tex.WrapV = WrapRepeat, WrapRepeat
	if c1, c2 := tex.Sample(0.01, 0.99), tex.Sample(1.01, 0.99); c1 != c2 {
		t.Errorf("Wrap repeat failed: %v != %v", c1, c2)
	}

	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp
	if c := tex.Sample(-0.5, 0.99); c != RGB(255, 0, 0) {
		t.Errorf("clamp low = %v, want red", c)
	}
	if c := tex.Sample(1.5, 0.99); c != RGB(0, 255, 0) {
		t.Errorf("clamp high = %v, want green", c)
	}
}

func TestTextureBilinearUniform(t *testing.T) {
	tex := NewTexture(4, 4)
	for i := range tex.Pixels {
		tex.Pixels[i] = RGB(90, 90, 90)
	}
	if c := tex.Sample(0.37, 0.61); c != RGB(90, 90, 90) {
		t.Errorf("bilinear sample of flat texture = %v", c)
	}
}

func TestMultiplyColor(t *testing.T) {
	c := RGB(200, 100, 50)
	result := MultiplyColor(c, 0.5)
	if result.R != 100 || result.G != 50 || result.B != 25 {
		t.Errorf("MultiplyColor failed: got %v", result)
	}
	// Test clamping
	result = MultiplyColor(c, 2.0)
	if result.R != 255 {
		t.Errorf("MultiplyColor should clamp to 255, got %d", result.R)
	}
}

func TestModulateColor(t *testing.T) {
	white := RGB(255, 255, 255)
	red := RGB(255, 0, 0)
	if result := ModulateColor(white, red); result != red {
		t.Errorf("ModulateColor(white, red) = %v, want %v", result, red)
	}
	half := RGB(128, 128, 128)
	if result := ModulateColor(half, white); result != half {
		t.Errorf("ModulateColor(half, white) = %v, want gray", result)
	}
}

func TestLerpColor(t *testing.T) {
	black := RGB(0, 0, 0)
	white := RGB(255, 255, 255)
	if mid := lerpColor(black, white, 0.5); mid != RGB(127, 127, 127) {
		t.Errorf("lerpColor midpoint = %v, want gray(127)", mid)
	}
	if start := lerpColor(black, white, 0.0); start != black {
		t.Errorf("lerpColor(0.0) = %v, want black", start)
	}
	if end := lerpColor(black, white, 1.0); end != white {
		t.Errorf("lerpColor(1.0) = %v, want white", end)
	}
}
