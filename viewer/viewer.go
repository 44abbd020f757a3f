// Package viewer ties the scene, its controls and the page widgets
// together and runs them in the terminal.
package viewer

import (
	"context"
	"fmt"
	"path"

	"fortio.org/log"
	"github.com/ansipixels/showcase/asset"
	"github.com/ansipixels/showcase/remote"
	"github.com/ansipixels/showcase/render"
	"github.com/ansipixels/showcase/scene"
	"github.com/ansipixels/showcase/ui"
)

// Section is the part of the page in view.
type Section int

const (
	SectionIntro Section = iota
	SectionViewer
)

func (s Section) String() string {
	if s == SectionViewer {
		return "viewer"
	}
	return "intro"
}

// Input steps.
const (
	rotateStep = 0.04
	panStep    = 0.01
	zoomStep   = 0.08
	dragScale  = 0.02
)

// Panel indices of the default accordion.
const (
	PanelModel = iota
	PanelControls
	PanelAbout
)

// Viewer is the whole page state. It is owned by one goroutine: the render
// loop, or the caller in headless use.
type Viewer struct {
	Scene      *scene.Scene
	Orbit      *scene.OrbitControls
	Panels     *ui.Accordion
	Scroll     *ui.Scroller
	ColorEntry *ui.ColorInput
	FB         *render.Framebuffer
	Raster     *render.Rasterizer
	ShowHUD    bool

	cfg         Config
	pageRows    int
	modelName   string
	placeholder bool
	color       string
	wireframe   bool

	pending  <-chan asset.Result
	commands <-chan remote.Command
	publish  func(remote.State)
}

// New returns a viewer with a width x height pixel viewport and no model.
func New(cfg Config, width, height int) *Viewer {
	fb := render.NewFramebuffer(width, height)
	s := scene.New(fb.Width, fb.Height)
	v := &Viewer{
		Scene:   s,
		Orbit:   scene.NewOrbitControls(s.Camera, s.InitialCameraPosition(), cfg.fps()),
		Panels:  ui.NewAccordion(ui.DefaultPanels()...),
		Scroll:  ui.NewScroller(cfg.fps()),
		FB:      fb,
		Raster:  render.NewRasterizer(s.Camera, fb),
		ShowHUD: true,
		cfg:     cfg,
	}
	if cfg.Background != nil {
		fb.BG = *cfg.Background
	}
	v.ColorEntry = ui.NewColorInput(v.ApplyHex)
	v.Resize(width, height)
	v.updateModelPanel()
	return v
}

// Resize changes the viewport to width x height pixels. The page keeps the
// section it was showing.
func (v *Viewer) Resize(width, height int) {
	v.FB.Resize(width, height)
	v.Scene.Resize(v.FB.Width, v.FB.Height)
	atViewer := v.Section() == SectionViewer
	v.pageRows = (v.FB.Height + 1) / 2
	if atViewer {
		v.Scroll.Jump(float64(v.pageRows))
	}
}

// PageRows is the height of one page section in terminal rows.
func (v *Viewer) PageRows() int { return v.pageRows }

// Load reads the configured model and installs it, or the placeholder.
func (v *Viewer) Load(ctx context.Context) {
	n, err := v.cfg.loader().Load(ctx, v.cfg.ModelPath)
	v.resolveModel(asset.Result{Node: n, Err: err})
}

// StartLoad begins loading in the background; Step installs the result.
func (v *Viewer) StartLoad(ctx context.Context) {
	v.pending = v.cfg.loader().LoadAsync(ctx, v.cfg.ModelPath)
}

// Loading reports whether a background load is still running.
func (v *Viewer) Loading() bool { return v.pending != nil }

// resolveModel installs a load result. A failed load falls back to the
// placeholder cube.
func (v *Viewer) resolveModel(res asset.Result) {
	node := res.Node
	if res.Err != nil || node == nil {
		log.Warnf("Model not loaded, showing placeholder: %v", res.Err)
		node = scene.Placeholder()
		v.placeholder = true
		v.modelName = node.Name
	} else {
		scene.Normalize(node)
		v.placeholder = false
		v.modelName = node.Name
		st := node.Stats()
		log.Infof("Loaded %s (%d vertices, %d triangles)", node.Name, st.Vertices, st.Triangles)
	}
	v.Scene.SetModel(node)
	if v.cfg.Color != "" {
		if err := v.ApplyHex(v.cfg.Color); err != nil {
			log.Warnf("Ignoring color %q: %v", v.cfg.Color, err)
		}
	}
	if v.wireframe {
		v.setWireframe(true)
	}
	v.updateModelPanel()
	v.broadcast()
}

func (v *Viewer) updateModelPanel() {
	m := v.Scene.Model()
	if m == nil {
		v.Panels.SetLines(PanelModel, "file       "+path.Base(v.cfg.ModelPath), "loading...")
		return
	}
	st := m.Stats()
	file := path.Base(v.cfg.ModelPath)
	if v.placeholder {
		file += " (not loaded, placeholder shown)"
	}
	v.Panels.SetLines(PanelModel,
		"file       "+file,
		fmt.Sprintf("vertices   %d", st.Vertices),
		fmt.Sprintf("triangles  %d", st.Triangles),
		fmt.Sprintf("materials  %d", st.Materials),
	)
}

// ModelName is the name of the shown model, or "" while loading.
func (v *Viewer) ModelName() string { return v.modelName }

// Placeholder reports whether the fallback cube is shown.
func (v *Viewer) Placeholder() bool { return v.placeholder }

// ApplyHex tints the model. It is a no-op while no model is shown.
func (v *Viewer) ApplyHex(hex string) error {
	c, err := render.ParseHex(hex)
	if err != nil {
		return err
	}
	if v.Scene.Model() == nil {
		return nil
	}
	v.Scene.ApplyColor(c)
	v.color = c.String()
	return nil
}

// Color is the last applied tint, or "".
func (v *Viewer) Color() string { return v.color }

// Enter scrolls from the intro to the viewer.
func (v *Viewer) Enter() {
	v.Scroll.ScrollTo(float64(v.pageRows))
}

// Section is the page section being shown or scrolled to.
func (v *Viewer) Section() Section {
	if v.Scroll.Target() > 0 {
		return SectionViewer
	}
	return SectionIntro
}

// ToggleWireframe switches the model between shaded and wireframe.
func (v *Viewer) ToggleWireframe() {
	v.wireframe = !v.wireframe
	v.setWireframe(v.wireframe)
}

func (v *Viewer) setWireframe(on bool) {
	if m := v.Scene.Model(); m != nil {
		m.Traverse(func(n *scene.Node) {
			if mv, ok := n.Visual.(*scene.MeshVisual); ok {
				mv.Wireframe = on
			}
		})
	}
}

// Attach connects a remote control server: its commands are applied by
// Step and state changes are published to it.
func (v *Viewer) Attach(srv *remote.Server) {
	v.commands = srv.Commands()
	v.publish = srv.Broadcast
	v.broadcast()
}

// ApplyCommand applies one remote command.
func (v *Viewer) ApplyCommand(cmd remote.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	switch cmd.Op {
	case remote.OpColor:
		return v.ApplyHex(cmd.Value)
	case remote.OpReset:
		v.Orbit.Reset()
	case remote.OpToggle:
		v.Panels.Toggle(cmd.Panel)
	case remote.OpEnter:
		v.Enter()
	}
	return nil
}

// State snapshots what remote clients see.
func (v *Viewer) State() remote.State {
	p := v.Scene.Camera.Position
	return remote.State{
		Model:       v.modelName,
		Placeholder: v.placeholder,
		Color:       v.color,
		OpenPanel:   v.Panels.Open(),
		Section:     v.Section().String(),
		Camera:      [3]float64{p.X, p.Y, p.Z},
	}
}

func (v *Viewer) broadcast() {
	if v.publish != nil {
		v.publish(v.State())
	}
}

// Step advances one frame: it installs a finished load, applies queued
// remote commands and moves the camera and the page.
func (v *Viewer) Step() {
	if v.pending != nil {
		select {
		case res := <-v.pending:
			v.pending = nil
			v.resolveModel(res)
		default:
		}
	}
	applied := false
	for done := false; !done && v.commands != nil; {
		select {
		case cmd := <-v.commands:
			if err := v.ApplyCommand(cmd); err != nil {
				log.Warnf("Remote %s: %v", cmd.Op, err)
			}
			applied = true
		default:
			done = true
		}
	}
	if applied {
		v.broadcast()
	}
	v.Orbit.Update()
	v.Scroll.Update()
}

// RenderFrame draws the scene into FB and returns it.
func (v *Viewer) RenderFrame() *render.Framebuffer {
	v.FB.Clear()
	v.Raster.BeginFrame()
	v.Scene.Draw(v.Raster)
	return v.FB
}
