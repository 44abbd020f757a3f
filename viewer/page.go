package viewer

import (
	"image"
	"math"
	"path"

	"golang.org/x/image/draw"
)

// viewerTop is the pixel row where the viewer section starts on screen.
// It is one page height at the intro and 0 once scrolled to the viewer.
func (v *Viewer) viewerTop() int {
	return int(math.Round((float64(v.pageRows) - v.Scroll.Offset()) * 2))
}

// scrollRow is the page scroll offset in whole terminal rows.
func (v *Viewer) scrollRow() int {
	return int(math.Round(v.Scroll.Offset()))
}

// compose places the rendered frame at its current scroll position over an
// intro section of background color.
func (v *Viewer) compose(frame *image.RGBA) *image.RGBA {
	w, h := v.FB.Width, v.FB.Height
	screen := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(screen, screen.Bounds(), image.NewUniform(v.FB.BG.RGBA()), image.Point{}, draw.Src)
	top := v.viewerTop()
	draw.Draw(screen, image.Rect(0, top, w, top+h), frame, image.Point{}, draw.Src)
	return screen
}

// introLines is the text of the intro section.
func (v *Viewer) introLines() []string {
	return []string{
		"showcase",
		"",
		path.Base(v.cfg.ModelPath),
		"",
		"press Enter to view",
	}
}

// introRow is the screen row of intro line i, which may be off screen.
func (v *Viewer) introRow(i int) int {
	start := (v.pageRows - len(v.introLines())) / 2
	return start + i - v.scrollRow()
}

// atViewer reports whether the page has settled on the viewer section.
func (v *Viewer) atViewer() bool {
	return v.Section() == SectionViewer && v.viewerTop() <= 0
}
