package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/devhelpr/ocif-generator/pkg/pipeline"
)

// configFilename is the default config file name inside the config dir.
const configFilename = "config.toml"

// fileConfig is the on-disk layout configuration:
//
//	[canvas]
//	width = 1600
//	height = 900
//	padding = 48
//
//	[simulation]
//	iterations = 150
//	gravity = 0.08
//	max_step = 40
//	seed = 7
//
// All values are optional; unset values fall back to the engine defaults.
type fileConfig struct {
	Canvas struct {
		Width   float64 `toml:"width"`
		Height  float64 `toml:"height"`
		Padding float64 `toml:"padding"`
	} `toml:"canvas"`
	Simulation struct {
		Iterations int     `toml:"iterations"`
		Gravity    float64 `toml:"gravity"`
		MaxStep    float64 `toml:"max_step"`
		Seed       *int64  `toml:"seed"`
	} `toml:"simulation"`
}

// loadConfig reads the config file at path. An empty path means the
// default location (~/.config/ocif-layout/config.toml), where a missing
// file is fine; an explicitly given path must exist.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFilename)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// apply fills zero-valued options from the config file. Flags set by the
// user stay untouched; anything still zero after this falls back to the
// engine defaults.
func (fc fileConfig) apply(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = fc.Canvas.Width
	}
	if opts.Height == 0 {
		opts.Height = fc.Canvas.Height
	}
	if opts.Padding == 0 {
		opts.Padding = fc.Canvas.Padding
	}
	if opts.Iterations == 0 {
		opts.Iterations = fc.Simulation.Iterations
	}
	if opts.Gravity == 0 {
		opts.Gravity = fc.Simulation.Gravity
	}
	if opts.MaxStep == 0 {
		opts.MaxStep = fc.Simulation.MaxStep
	}
	if opts.Seed == nil {
		opts.Seed = fc.Simulation.Seed
	}
}
