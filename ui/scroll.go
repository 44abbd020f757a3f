// Package ui holds the page-level widgets of the showcase: the smooth
// scroller between the intro and the viewer, the info accordion and the
// color entry field.
package ui

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Scroller eases a page offset toward a target on a critically damped
// spring.
type Scroller struct {
	offset, velocity, target float64
	spring                   harmonica.Spring
}

// NewScroller returns a scroller at offset 0 stepping fps times a second.
func NewScroller(fps int) *Scroller {
	return &Scroller{spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 6.0, 1.0)}
}

// ScrollTo starts a smooth scroll toward target.
func (s *Scroller) ScrollTo(target float64) {
	s.target = target
}

// Jump moves to target immediately.
func (s *Scroller) Jump(target float64) {
	s.offset, s.velocity, s.target = target, 0, target
}

// Offset is the current position.
func (s *Scroller) Offset() float64 { return s.offset }

// Target is where the scroller is heading.
func (s *Scroller) Target() float64 { return s.target }

// Settled reports whether the scroller has reached its target.
func (s *Scroller) Settled() bool {
	return s.offset == s.target && s.velocity == 0
}

// Update advances one frame and reports whether the offset changed.
func (s *Scroller) Update() bool {
	if s.Settled() {
		return false
	}
	s.offset, s.velocity = s.spring.Update(s.offset, s.velocity, s.target)
	if math.Abs(s.offset-s.target) < 0.01 && math.Abs(s.velocity) < 0.01 {
		s.offset, s.velocity = s.target, 0
	}
	return true
}
