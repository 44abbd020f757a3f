package viewer

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/log"
	"fortio.org/terminal"
	"fortio.org/terminal/ansipixels"
	"github.com/ansipixels/showcase/remote"
	"github.com/ansipixels/showcase/render"
)

// remoteQueue is how many remote commands may wait for the next frame.
const remoteQueue = 16

// Run shows the viewer in the terminal until the user quits or ctx is
// done. The model loads in the background; the remote control is served
// when cfg.Listen is set.
func Run(ctx context.Context, cfg Config) error {
	ap := ansipixels.NewAnsiPixels(cfg.FPS)
	if err := ap.Open(); err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer func() {
		ap.ShowCursor()
		ap.MouseTrackingOff()
		ap.Out.Flush()
		ap.Restore()
	}()
	ap.SyncBackgroundColor()
	ap.MouseTrackingOn()
	ap.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Using 2x height for half-block characters
	v := New(cfg, ap.W, ap.H*2)
	if cfg.Background == nil {
		v.FB.BG = render.RGB(ap.Background.R, ap.Background.G, ap.Background.B)
	}
	v.StartLoad(ctx)

	serveErr := make(chan error, 1)
	if cfg.Listen != "" {
		srv := remote.NewServer(remoteQueue)
		v.Attach(srv)
		go func() { serveErr <- srv.Serve(ctx, cfg.Listen) }()
	}

	hud := NewHUD()
	lastMouseX, lastMouseY := 0, 0
	ap.OnMouse = func() {
		switch {
		case ap.MouseWheelUp():
			v.Wheel(true)
		case ap.MouseWheelDown():
			v.Wheel(false)
		case ap.LeftDrag():
			v.Drag(ap.Mx-lastMouseX, ap.My-lastMouseY)
		}
		lastMouseX, lastMouseY = ap.Mx, ap.My
	}
	ap.OnResize = func() error {
		v.Resize(ap.W, ap.H*2)
		return nil
	}

	var loopErr error
	err := ap.FPSTicks(ctx, func(context.Context) bool {
		select {
		case err := <-serveErr:
			if err != nil {
				loopErr = err
				return false
			}
		default:
		}
		if v.HandleKeys(ap.Data) {
			return false
		}
		v.Step()
		frame := v.RenderFrame().ToImage()
		ap.ClearScreen()
		if err := ap.ShowScaledImage(v.compose(frame)); err != nil {
			log.Errf("show image: %v", err)
			loopErr = err
			return false
		}
		hud.UpdateFPS()
		hud.Draw(ap, v)
		return true
	})
	if err := loopExit(err); err != nil {
		return err
	}
	return loopErr
}

// loopExit maps the FPSTicks result to Run's: an interrupted terminal
// (Ctrl-C, signal, ctx done) is a normal exit.
func loopExit(err error) error {
	var interrupted terminal.InterruptedError
	if err == nil || errors.As(err, &interrupted) {
		if err != nil {
			log.Infof("Exiting: %v", err)
		}
		return nil
	}
	return fmt.Errorf("main loop: %w", err)
}
