// Package render is a small software rasterizer: colors, textures, a
// framebuffer, a perspective camera, scene lighting and triangle drawing.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color is an opaque 8-bit sRGB color.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGB creates a color from components.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// Hex creates a color from a 0xRRGGBB literal.
func Hex(v uint32) Color {
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

// ParseHex parses "#rrggbb", "#rgb", "rrggbb" or "0xrrggbb".
func ParseHex(s string) (Color, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(h, "#")
	if len(h) > 2 && (h[:2] == "0x" || h[:2] == "0X") {
		h = h[2:]
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA converts to the image/color representation.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

// FromLinear converts linear 0-1 components (as stored in glTF material
// factors) to an sRGB color.
func FromLinear(r, g, b float64) Color {
	return Color{linearToSRGB(r), linearToSRGB(g), linearToSRGB(b)}
}

func linearToSRGB(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	if v <= 0.0031308 {
		v *= 12.92
	} else {
		v = 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return uint8(math.Round(v * 255))
}

// MultiplyColor scales a color by f, clamping at 255.
func MultiplyColor(c Color, f float64) Color {
	return Color{clampByte(float64(c.R) * f), clampByte(float64(c.G) * f), clampByte(float64(c.B) * f)}
}

// ModulateColor multiplies two colors component-wise (texture * tint).
func ModulateColor(a, b Color) Color {
	return Color{
		uint8(uint16(a.R) * uint16(b.R) / 255),
		uint8(uint16(a.G) * uint16(b.G) / 255),
		uint8(uint16(a.B) * uint16(b.B) / 255),
	}
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
