package viewer

import (
	"github.com/ansipixels/showcase/asset"
	"github.com/ansipixels/showcase/render"
)

// DefaultModelPath is loaded when no model is given.
const DefaultModelPath = "models/model.glb"

// Config holds the viewer settings, filled from command line flags.
type Config struct {
	ModelPath string
	FPS       float64
	// Color tints the model once loaded. Empty keeps the model's own colors.
	Color string
	// Background overrides the terminal background when set.
	Background *render.Color
	// Listen enables the websocket remote control on this address.
	Listen string
	// Loader reads the model; nil uses asset.DefaultLoader.
	Loader *asset.Loader
}

// DefaultConfig returns the settings used without flags.
func DefaultConfig() Config {
	return Config{
		ModelPath: DefaultModelPath,
		FPS:       60,
	}
}

func (c Config) loader() *asset.Loader {
	if c.Loader != nil {
		return c.Loader
	}
	return asset.DefaultLoader
}

func (c Config) fps() int {
	return max(int(c.FPS+0.5), 1)
}
