package viewer

// Control bytes.
const (
	keyCtrlC = 3
	keyCtrlD = 4
	keyEsc   = 27
)

// HandleKeys processes raw terminal input and reports whether the user
// asked to quit. Arrow keys arrive as ESC [ A..D; a lone ESC quits.
func (v *Viewer) HandleKeys(data []byte) (quit bool) {
	changed := false
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == keyEsc && i+2 < len(data) && data[i+1] == '[' {
			if !v.ColorEntry.Active() {
				v.arrow(data[i+2])
			}
			i += 2
			continue
		}
		if v.ColorEntry.Active() {
			v.ColorEntry.HandleKey(b)
			changed = true
			continue
		}
		q, c := v.key(b)
		if q {
			return true
		}
		changed = changed || c
	}
	if changed {
		v.broadcast()
	}
	return false
}

// key handles one byte outside the color field. It reports whether to
// quit and whether remote-visible state changed.
func (v *Viewer) key(b byte) (quit, changed bool) {
	switch b {
	case keyEsc, keyCtrlC, keyCtrlD:
		return true, false
	case '\r', '\n':
		if v.Section() == SectionIntro {
			v.Enter()
			return false, true
		}
	case 'r', 'R':
		v.Orbit.Reset()
		return false, true
	case 'c', 'C':
		initial := v.color
		if initial == "" {
			initial = "#"
		}
		v.ColorEntry.Begin(initial)
	case 'x', 'X':
		v.ToggleWireframe()
	case '?':
		v.ShowHUD = !v.ShowHUD
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		v.Panels.Toggle(int(b - '1'))
		return false, true
	default:
		v.moveKey(b)
	}
	return false, false
}

// moveKey orbits, pans or zooms. The camera only moves once the viewer
// section is on screen.
func (v *Viewer) moveKey(b byte) {
	if !v.atViewer() {
		return
	}
	switch b {
	case 'w', 'W':
		v.Orbit.Rotate(0, rotateStep)
	case 's', 'S':
		v.Orbit.Rotate(0, -rotateStep)
	case 'a', 'A':
		v.Orbit.Rotate(-rotateStep, 0)
	case 'd', 'D':
		v.Orbit.Rotate(rotateStep, 0)
	case 'i', 'I':
		v.Orbit.Pan(0, panStep)
	case 'k', 'K':
		v.Orbit.Pan(0, -panStep)
	case 'j', 'J':
		v.Orbit.Pan(-panStep, 0)
	case 'l', 'L':
		v.Orbit.Pan(panStep, 0)
	case '+', '=':
		v.Orbit.Zoom(zoomStep)
	case '-', '_':
		v.Orbit.Zoom(-zoomStep)
	}
}

func (v *Viewer) arrow(b byte) {
	if !v.atViewer() {
		return
	}
	switch b {
	case 'A':
		v.Orbit.Rotate(0, rotateStep)
	case 'B':
		v.Orbit.Rotate(0, -rotateStep)
	case 'C':
		v.Orbit.Rotate(rotateStep, 0)
	case 'D':
		v.Orbit.Rotate(-rotateStep, 0)
	}
}

// Drag orbits for a mouse drag of dx, dy cells. Dragging right turns the
// model right; dragging down shows more of its top.
func (v *Viewer) Drag(dx, dy int) {
	if !v.atViewer() {
		return
	}
	v.Orbit.Rotate(-float64(dx)*dragScale, float64(dy)*dragScale*2)
}

// Wheel zooms in for up, out otherwise.
func (v *Viewer) Wheel(up bool) {
	if !v.atViewer() {
		return
	}
	if up {
		v.Orbit.Zoom(zoomStep)
	} else {
		v.Orbit.Zoom(-zoomStep)
	}
}
