// Package pipeline provides the import → layout → export pipeline shared
// by the CLI and the HTTP API.
//
// Centralizing this logic keeps caching and logging behavior consistent
// across entry points. The pipeline has three stages:
//
//  1. Import: read an OCIF document from a file or request body
//  2. Layout: run the force-directed engine over the document
//  3. Export: write the positioned document back out
//
// # Usage
//
// Create a Runner and lay out a document:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Width: 1600, Height: 900}
//	doc, hit, err := runner.LayoutDocument(ctx, doc, opts)
//
// Or run the whole file-to-file pipeline:
//
//	result, err := runner.Execute(ctx, "canvas.json", "canvas.layout.json", opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/devhelpr/ocif-generator/pkg/errors"
	"github.com/devhelpr/ocif-generator/pkg/layout"
	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCacheTTL is how long cached layout results are kept.
	DefaultCacheTTL = 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a layout run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Padding    float64 `json:"padding,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Gravity    float64 `json:"gravity,omitempty"`
	MaxStep    float64 `json:"max_step,omitempty"`
	NoCache    bool    `json:"no_cache,omitempty"`

	// Seed selects the random seed for position seeding. Zero is a valid
	// seed, so nil rather than 0 means "use the default".
	Seed *int64 `json:"seed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "canvas dimensions must be positive")
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "padding must not be negative")
	}
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "iterations must not be negative")
	}

	if o.Width == 0 {
		o.Width = layout.DefaultCanvasWidth
	}
	if o.Height == 0 {
		o.Height = layout.DefaultCanvasHeight
	}
	if o.Padding == 0 {
		o.Padding = layout.DefaultPadding
	}
	if o.Iterations == 0 {
		o.Iterations = layout.DefaultIterations
	}
	if o.Gravity == 0 {
		o.Gravity = layout.DefaultGravityStrength
	}
	if o.MaxStep == 0 {
		o.MaxStep = layout.DefaultMaxStepDisplacement
	}
	if o.Seed == nil {
		seed := layout.DefaultSeed
		o.Seed = &seed
	}

	if 2*o.Padding >= o.Width || 2*o.Padding >= o.Height {
		return errors.New(errors.ErrCodeInvalidOptions,
			"padding %g leaves no usable canvas inside %gx%g", o.Padding, o.Width, o.Height)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// EngineConfig converts the options into an engine configuration.
func (o *Options) EngineConfig() layout.Config {
	return layout.Config{
		CanvasWidth:         o.Width,
		CanvasHeight:        o.Height,
		Padding:             o.Padding,
		Iterations:          o.Iterations,
		GravityStrength:     o.Gravity,
		MaxStepDisplacement: o.MaxStep,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the positioned document.
	Document *ocif.Document

	// DocumentHash is the content hash of the input document.
	DocumentHash string

	// OutputPath is the file the result was written to, if any.
	OutputPath string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the layout came from cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	RelationCount int
	LayoutTime    time.Duration
}
