package render

import (
	"image"
	"math"
)

// WrapMode controls texture addressing outside [0, 1].
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode controls texture sampling.
type FilterMode int

const (
	FilterBilinear FilterMode = iota
	FilterNearest
)

// Texture is a decoded RGB image ready for sampling.
type Texture struct {
	Width, Height int
	Pixels        []Color
	WrapU, WrapV  WrapMode
	FilterMode    FilterMode
}

// NewTexture creates a black texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage copies any image.Image into a texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			tex.Pixels[y*tex.Width+x] = RGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return tex
}

// SetPixel sets a texel; out-of-range writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns a texel; out-of-range reads return black.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the color at texture coordinates (u, v). V runs bottom to
// top, so v = 1 is the first image row.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return ColorWhite
	}
	u = wrap(u, t.WrapU)
	v = wrap(v, t.WrapV)
	fx := u * float64(t.Width)
	fy := (1 - v) * float64(t.Height)
	if t.FilterMode == FilterNearest {
		return t.texel(int(fx), int(fy))
	}
	fx -= 0.5
	fy -= 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)
	top := lerpColor(t.texel(x0, y0), t.texel(x0+1, y0), tx)
	bottom := lerpColor(t.texel(x0, y0+1), t.texel(x0+1, y0+1), tx)
	return lerpColor(top, bottom, ty)
}

// texel reads with edge clamping.
func (t *Texture) texel(x, y int) Color {
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

func wrap(c float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, c))
	}
	c -= math.Floor(c)
	return c
}
