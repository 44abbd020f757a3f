package viewer

import (
	"time"

	"fortio.org/terminal/ansipixels"
	"fortio.org/terminal/ansipixels/tcolor"
)

// HUD renders the text overlays: intro text, status line, panels and the
// color entry field.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw writes the overlays for v's current page position.
func (h *HUD) Draw(ap *ansipixels.AnsiPixels, v *Viewer) {
	for i, line := range v.introLines() {
		row := v.introRow(i)
		if row < 0 || row >= ap.H || line == "" {
			continue
		}
		if i == 0 {
			ap.WriteCentered(row, "%s%s%s", tcolor.BrightYellow.Foreground(), line, tcolor.Reset)
			continue
		}
		ap.WriteCentered(row, "%s", line)
	}
	if !v.atViewer() {
		return
	}

	if v.ShowHUD {
		ap.WriteAt(0, 0, tcolor.Green.Foreground()+"%.0f FPS "+tcolor.Reset, h.fps)
		name := v.ModelName()
		if v.Loading() {
			name = "loading..."
		}
		ap.WriteCentered(0, "%s", name)
		if m := v.Scene.Model(); m != nil {
			ap.WriteRight(0, tcolor.Cyan.Foreground()+"%d polys"+tcolor.Reset, m.Stats().Triangles)
		}
		for i, line := range v.Panels.Render() {
			if 1+i >= ap.H-1 {
				break
			}
			ap.WriteAt(0, 1+i, "%s", line)
		}
	}

	switch {
	case v.ColorEntry.Active():
		ap.WriteAt(0, ap.H-1, "color: %s_", v.ColorEntry.Text())
		if err := v.ColorEntry.Err(); err != nil {
			ap.WriteRight(ap.H-1, "%s%v%s", tcolor.Red.Foreground(), err, tcolor.Reset)
		}
	case v.ShowHUD:
		ap.WriteAt(0, ap.H-1, "c color  r reset view  1-3 panels  ? hide")
		if c := v.Color(); c != "" {
			ap.WriteRight(ap.H-1, "%s", c)
		}
	}
}
