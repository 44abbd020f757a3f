// showcase - Terminal 3D Model Showcase
// Presents one glTF/GLB or STL model on a terminal page: an intro section,
// a viewer with orbit controls, info panels and color tinting.
//
// Controls:
//
//	Enter        - Scroll from the intro to the viewer
//	Mouse drag   - Orbit
//	Scroll       - Zoom in/out
//	W/S/A/D      - Orbit (arrows too)
//	I/J/K/L      - Pan
//	+/-          - Zoom
//	R            - Reset view
//	C            - Enter a hex color for the model
//	1-3          - Toggle Model / Controls / About panels
//	X            - Toggle wireframe
//	?            - Toggle HUD overlay
//	Esc          - Quit (or cancel color entry)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fortio.org/log"
	"github.com/ansipixels/showcase/asset"
	"github.com/ansipixels/showcase/math3d"
	"github.com/ansipixels/showcase/render"
	"github.com/ansipixels/showcase/scene"
	"github.com/ansipixels/showcase/viewer"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	targetFPS float64
	tintColor string
	bgColor   string
	listen    string
	logLevel  string

	snapshotOut  string
	snapshotSize string
	supersample  int
)

func main() {
	cmd := &cobra.Command{
		Use:   "showcase [model.glb|model.gltf|model.stl|url]",
		Short: "Terminal 3D Model Showcase",
		Long: `showcase - Terminal 3D Model Showcase

Shows one 3D model in your terminal, scaled to fit and resting on the
ground. Without a model argument ` + viewer.DefaultModelPath + ` is used; if it cannot be
loaded a placeholder cube is shown.

Controls:
  Enter       - Scroll to the viewer
  Mouse drag  - Orbit
  Scroll      - Zoom in/out
  W/S/A/D     - Orbit (arrows too)
  I/J/K/L     - Pan
  R           - Reset view
  C           - Color the model (#rrggbb)
  1-3         - Toggle info panels
  X           - Toggle wireframe
  ?           - Toggle HUD overlay
  Esc         - Quit`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return log.SetLogLevelStr(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromFlags(args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return viewer.Run(ctx, cfg)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "loglevel", "info", "Log level (debug, verbose, info, warning, error)")
	cmd.PersistentFlags().StringVar(&tintColor, "color", "", "Tint the model with this hex color (#rrggbb)")
	cmd.PersistentFlags().StringVar(&bgColor, "bg", "", "Background color (R,G,B or #rrggbb), default terminal background")
	cmd.Flags().Float64Var(&targetFPS, "fps", 60, "Target FPS")
	cmd.Flags().StringVar(&listen, "listen", "", "Serve the websocket remote control on this address (e.g. localhost:8080)")

	infoCmd := &cobra.Command{
		Use:   "info <model>",
		Short: "Display model information",
		Long:  "Display the node hierarchy, vertex, triangle and material counts, and the bounding box before and after normalization.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot <model>",
		Short: "Render one frame to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
	snapshotCmd.Flags().StringVarP(&snapshotOut, "output", "o", "showcase.png", "Output PNG path")
	snapshotCmd.Flags().StringVar(&snapshotSize, "size", "800x600", "Image size WxH")
	snapshotCmd.Flags().IntVar(&supersample, "supersample", 2, "Render this many times larger and filter down")

	cmd.AddCommand(infoCmd, snapshotCmd)

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

func configFromFlags(args []string) (viewer.Config, error) {
	cfg := viewer.DefaultConfig()
	if len(args) > 0 {
		cfg.ModelPath = args[0]
	}
	cfg.FPS = targetFPS
	cfg.Listen = listen
	if tintColor != "" {
		if _, err := render.ParseHex(tintColor); err != nil {
			return cfg, fmt.Errorf("--color: %w", err)
		}
		cfg.Color = tintColor
	}
	if bgColor != "" {
		bg, err := parseColor(bgColor)
		if err != nil {
			return cfg, fmt.Errorf("--bg: %w", err)
		}
		cfg.Background = &bg
	}
	return cfg, nil
}

// parseColor accepts "R,G,B" or a hex color.
func parseColor(s string) (render.Color, error) {
	if !strings.Contains(s, ",") {
		return render.ParseHex(s)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return render.Color{}, fmt.Errorf("invalid color %q: component out of range", s)
		}
	}
	return render.RGB(uint8(r), uint8(g), uint8(b)), nil
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	return w, h, nil
}

func runSnapshot(ctx context.Context, w io.Writer, args []string) error {
	width, height, err := parseSize(snapshotSize)
	if err != nil {
		return err
	}
	targetFPS = viewer.DefaultConfig().FPS
	cfg, err := configFromFlags(args)
	if err != nil {
		return err
	}
	v, err := viewer.Snapshot(ctx, cfg, width, height, supersample, snapshotOut)
	if err != nil {
		return err
	}
	name := v.ModelName()
	if v.Placeholder() {
		name += " (model not loaded)"
	}
	fmt.Fprintf(w, "Wrote %s (%dx%d, %s)\n", snapshotOut, width, height, name)
	return nil
}

func runInfo(ctx context.Context, w io.Writer, modelPath string) error {
	root, err := asset.Load(ctx, modelPath)
	if err != nil {
		return err
	}
	st := root.Stats()
	fmt.Fprintf(w, "File:       %s\n", root.Name)
	fmt.Fprintf(w, "Nodes:      %d\n", st.Nodes)
	fmt.Fprintf(w, "Meshes:     %d\n", st.Meshes)
	fmt.Fprintf(w, "Vertices:   %d\n", st.Vertices)
	fmt.Fprintf(w, "Triangles:  %d\n", st.Triangles)
	fmt.Fprintf(w, "Materials:  %d\n", st.Materials)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Hierarchy:")
	root.Walk(func(n *scene.Node, depth int) {
		line := strings.Repeat("  ", depth+1) + n.Name
		if n.Name == "" {
			line += "(unnamed)"
		}
		if mv, ok := n.Visual.(*scene.MeshVisual); ok && mv.Mesh != nil {
			line += fmt.Sprintf("  [%d tris", mv.Mesh.TriangleCount())
			for _, m := range mv.Materials {
				line += fmt.Sprintf(", %s %s", m.Name, m.Color)
				if m.Texture != nil {
					line += fmt.Sprintf(" tex %dx%d", m.Texture.Width, m.Texture.Height)
				}
			}
			line += "]"
		}
		fmt.Fprintln(w, line)
	})
	fmt.Fprintln(w)

	minB, maxB, _ := root.Bounds()
	printBounds(w, "Original", minB, maxB)
	scene.Normalize(root)
	minB, maxB, _ = root.Bounds()
	printBounds(w, "Normalized", minB, maxB)
	fmt.Fprintf(w, "Scale:      %.4f\n", root.Scale.X)
	return nil
}

func printBounds(w io.Writer, label string, minB, maxB math3d.Vec3) {
	size := maxB.Sub(minB)
	fmt.Fprintf(w, "%s:\n", label)
	fmt.Fprintf(w, "  Bounds Min: (%.3f, %.3f, %.3f)\n", minB.X, minB.Y, minB.Z)
	fmt.Fprintf(w, "  Bounds Max: (%.3f, %.3f, %.3f)\n", maxB.X, maxB.Y, maxB.Z)
	fmt.Fprintf(w, "  Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
}
