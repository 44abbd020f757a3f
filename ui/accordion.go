package ui

// Panel is one titled section of an Accordion.
type Panel struct {
	Title string
	Lines []string
}

// Accordion is a list of panels of which at most one is open.
type Accordion struct {
	Panels []Panel
	open   int
}

// NewAccordion returns an accordion with every panel closed.
func NewAccordion(panels ...Panel) *Accordion {
	return &Accordion{Panels: panels, open: -1}
}

// DefaultPanels are the Model, Controls and About sections.
func DefaultPanels() []Panel {
	return []Panel{
		{Title: "Model"},
		{Title: "Controls", Lines: []string{
			"drag / WASD / arrows  orbit",
			"wheel / + -           zoom",
			"IJKL                  pan",
			"r                     reset view",
			"c                     color",
			"1-3                   panels",
			"Esc / Ctrl-C          quit",
		}},
		{Title: "About", Lines: []string{
			"Software rendered 3D showcase.",
			"Models are scaled to fit and rest on the ground.",
		}},
	}
}

// Toggle opens panel i and closes the others, or closes i if it is the
// open one. Out of range indices are ignored.
func (a *Accordion) Toggle(i int) {
	if i < 0 || i >= len(a.Panels) {
		return
	}
	if a.open == i {
		a.open = -1
		return
	}
	a.open = i
}

// Open returns the open panel index, or -1.
func (a *Accordion) Open() int { return a.open }

// IsOpen reports whether panel i is open.
func (a *Accordion) IsOpen(i int) bool { return i >= 0 && a.open == i }

// SetLines replaces the body of panel i.
func (a *Accordion) SetLines(i int, lines ...string) {
	if i >= 0 && i < len(a.Panels) {
		a.Panels[i].Lines = lines
	}
}

// Render returns the accordion as text lines: one header per panel and
// the body of the open one.
func (a *Accordion) Render() []string {
	var out []string
	for i, p := range a.Panels {
		marker := "▸"
		if a.open == i {
			marker = "▾"
		}
		out = append(out, marker+" "+p.Title)
		if a.open == i {
			for _, l := range p.Lines {
				out = append(out, "    "+l)
			}
		}
	}
	return out
}
