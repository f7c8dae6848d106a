package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devhelpr/ocif-generator/pkg/pipeline"
)

// layoutCommand creates the layout command for positioning canvas documents.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
		seed       int64
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [canvas.json]",
		Short: "Compute node positions for an OCIF canvas document",
		Long: `Compute node positions for an OCIF canvas document.

The layout command reads a canvas document, runs the force-directed
simulation over its nodes and relations, and writes the positioned
document back out. Arrow connector nodes get their position and endpoint
coordinates derived from the nodes they connect. Members the engine does
not interpret pass through unchanged.

Simulation constants can be set via flags or a config file
(~/.config/ocif-layout/config.toml); flags win, unset values fall back to
the engine defaults.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Zero is a valid seed, so only a flag the user actually
			// passed overrides the config file and default.
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, configPath, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ~/.config/ocif-layout/config.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Simulation flags (0 = from config file or engine default)
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "canvas height")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "margin between nodes and the canvas edge")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "simulation iteration count")
	cmd.Flags().Float64Var(&opts.Gravity, "gravity", 0, "pull strength toward the canvas center")
	cmd.Flags().Float64Var(&opts.MaxStep, "max-step", 0, "per-iteration displacement cap")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for position seeding")

	return cmd
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output, configPath string, noCache bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.apply(&opts)
	opts.NoCache = noCache
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	prog := newProgress(logger)

	result, err := runner.Execute(ctx, input, outputPath, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Positioned %d nodes", result.Stats.NodeCount))

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.RelationCount, result.CacheHit)
	printNextStep("Serve layouts over HTTP", "ocif-layout serve")

	return nil
}
