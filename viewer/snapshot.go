package viewer

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Snapshot loads the model synchronously, renders one frame of the viewer
// section and writes it to out as PNG. With supersample > 1 the frame is
// rendered that many times larger and filtered down.
func Snapshot(ctx context.Context, cfg Config, width, height, supersample int, out string) (*Viewer, error) {
	ss := max(supersample, 1)
	v := New(cfg, width*ss, height*ss)
	v.Load(ctx)
	v.Scroll.Jump(float64(v.PageRows()))
	fb := v.RenderFrame()
	if ss == 1 {
		return v, fb.SavePNG(out)
	}

	src := fb.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	f, err := os.Create(out)
	if err != nil {
		return v, fmt.Errorf("create %s: %w", out, err)
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return v, fmt.Errorf("encode png: %w", err)
	}
	return v, f.Close()
}
