package layout

import "math/rand"

// Default simulation constants. Zero-valued Config fields are replaced
// with these when an Engine is constructed.
const (
	// DefaultCanvasWidth is the default canvas width in user units.
	DefaultCanvasWidth = 1200.0

	// DefaultCanvasHeight is the default canvas height in user units.
	DefaultCanvasHeight = 800.0

	// DefaultPadding is the minimum margin between any node position and
	// the canvas edge.
	DefaultPadding = 40.0

	// DefaultIterations is the fixed number of simulation steps. The
	// engine always runs the full count; there is no convergence check.
	DefaultIterations = 100

	// DefaultGravityStrength scales the pull toward the canvas center.
	DefaultGravityStrength = 0.1

	// DefaultMaxStepDisplacement caps the per-axis displacement applied
	// to a node in a single iteration.
	DefaultMaxStepDisplacement = 50.0

	// DefaultSeed is the random seed used when no source is injected,
	// chosen fixed so repeated runs over the same input reproduce the
	// same drawing.
	DefaultSeed = int64(42)
)

// DefaultNodeSize is the width/height assigned to non-arrow nodes whose
// input size is absent or malformed. Arrow nodes default to a zero-area
// size since they render as connectors, not boxes.
var DefaultNodeSize = [2]float64{160, 60}

// Config holds the tunable constants of the force simulation. The zero
// value is usable; unset fields take the package defaults.
type Config struct {
	CanvasWidth         float64
	CanvasHeight        float64
	Padding             float64
	Iterations          int
	GravityStrength     float64
	MaxStepDisplacement float64
	DefaultNodeSize     [2]float64
}

// withDefaults returns a copy of c with zero fields replaced by the
// package defaults.
func (c Config) withDefaults() Config {
	if c.CanvasWidth == 0 {
		c.CanvasWidth = DefaultCanvasWidth
	}
	if c.CanvasHeight == 0 {
		c.CanvasHeight = DefaultCanvasHeight
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.GravityStrength == 0 {
		c.GravityStrength = DefaultGravityStrength
	}
	if c.MaxStepDisplacement == 0 {
		c.MaxStepDisplacement = DefaultMaxStepDisplacement
	}
	if c.DefaultNodeSize == [2]float64{} {
		c.DefaultNodeSize = DefaultNodeSize
	}
	return c
}

// Option configures an Engine beyond its numeric constants.
type Option func(*Engine)

// WithRand injects the random source used for position seeding. Tests
// inject a fixed-seed source to reproduce exact trajectories.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds the engine's random source with the given value.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}
