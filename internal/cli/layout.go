package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ocasazza/graphlayouts/pkg/api"
	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graphio"
	"github.com/ocasazza/graphlayouts/pkg/layout"
	"github.com/ocasazza/graphlayouts/pkg/pipeline"
)

// layoutFlags holds the command-line flags for the layout command.
type layoutFlags struct {
	algorithm string
	quality   string
	padding   float64

	// fcose tuning, ignored by the other algorithms
	repulsion   float64
	idealLength float64
	overlap     float64
	gravity     float64
	iterations  int
	seed        uint64

	output  string
	format  string
	noCache bool
	refresh bool
	remote  string
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	defaults := layout.DefaultFcoseOptions()
	flags := layoutFlags{
		algorithm:   layout.AlgorithmFcose,
		quality:     layout.QualityDefault,
		padding:     layout.DefaultPadding,
		repulsion:   defaults.NodeRepulsion,
		idealLength: defaults.IdealEdgeLength,
		overlap:     defaults.NodeOverlap,
		gravity:     defaults.Gravity,
		seed:        defaults.Seed,
	}

	cmd := &cobra.Command{
		Use:   "layout [graph.(json|csv|dot)]",
		Short: "Compute node positions for a graph file",
		Long: `Compute node positions for a graph file.

The layout command reads a graph in json, csv, or dot format, runs the
selected layout algorithm, and writes the positioned graph back out. The
default output is <input>.layout.json; use -o to pick another path or
format (the extension decides).

Results are cached locally, keyed by graph content and options, so
repeating a layout is instant. Use --refresh to force recomputation.

With --remote the computation runs on a graphlayouts server instead of
this machine.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, err := buildAlgorithm(flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], algo, flags)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "input format override: json, csv, dot")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().StringVar(&flags.remote, "remote", "", "compute on a graphlayouts server at this base URL")

	// Algorithm flags
	cmd.Flags().StringVarP(&flags.algorithm, "algorithm", "a", flags.algorithm, "layout algorithm: fcose (default), concentric, circle, layered")
	cmd.Flags().StringVar(&flags.quality, "quality", flags.quality, "iteration budget preset: draft, default, proof")
	cmd.Flags().Float64Var(&flags.padding, "padding", flags.padding, "padding around compounds and components")

	// Fcose tuning flags
	cmd.Flags().Float64Var(&flags.repulsion, "repulsion", flags.repulsion, "node repulsion strength (fcose)")
	cmd.Flags().Float64Var(&flags.idealLength, "ideal-length", flags.idealLength, "ideal edge length (fcose)")
	cmd.Flags().Float64Var(&flags.overlap, "overlap", flags.overlap, "allowed node overlap percentage (fcose)")
	cmd.Flags().Float64Var(&flags.gravity, "gravity", flags.gravity, "gravity strength (fcose)")
	cmd.Flags().IntVar(&flags.iterations, "iterations", 0, "iteration override (fcose, 0 uses the quality preset)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", flags.seed, "random seed (fcose)")

	return cmd
}

// buildAlgorithm assembles the engine selection from the command flags.
// Quality and padding apply to every algorithm; the numeric tuning flags
// only affect fcose.
func buildAlgorithm(flags layoutFlags) (layout.Algorithm, error) {
	switch flags.algorithm {
	case layout.AlgorithmFcose:
		opts := layout.DefaultFcoseOptions()
		opts.Base.Quality = flags.quality
		opts.Base.Padding = flags.padding
		opts.NodeRepulsion = flags.repulsion
		opts.IdealEdgeLength = flags.idealLength
		opts.NodeOverlap = flags.overlap
		opts.Gravity = flags.gravity
		opts.Iterations = flags.iterations
		opts.Seed = flags.seed
		return layout.NewFcose(opts), nil
	case layout.AlgorithmConcentric:
		opts := layout.DefaultConcentricOptions()
		opts.Base.Quality = flags.quality
		opts.Base.Padding = flags.padding
		return layout.NewConcentric(opts), nil
	case layout.AlgorithmCircle:
		opts := layout.DefaultCircleOptions()
		opts.Base.Quality = flags.quality
		opts.Base.Padding = flags.padding
		return layout.NewCircle(opts), nil
	case layout.AlgorithmLayered:
		opts := layout.DefaultLayeredOptions()
		opts.Base.Quality = flags.quality
		opts.Base.Padding = flags.padding
		return layout.NewLayered(opts), nil
	default:
		return layout.Algorithm{}, errors.New(errors.ErrCodeInvalidAlgorithm,
			"unknown algorithm: %q (must be one of: %s)",
			flags.algorithm, strings.Join(layout.AlgorithmNames(), ", "))
	}
}

// runLayout loads the graph, computes the layout, and writes the output.
func (c *CLI) runLayout(ctx context.Context, input string, algo layout.Algorithm, flags layoutFlags) error {
	outputPath := flags.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}

	if flags.remote != "" {
		if flags.noCache || flags.refresh {
			printWarning("--no-cache and --refresh only affect the local cache and are ignored with --remote")
		}
		return c.runLayoutRemote(ctx, input, outputPath, algo, flags)
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Input:     input,
		Format:    flags.format,
		Algorithm: algo,
		Refresh:   flags.refresh,
		Output:    outputPath,
		Logger:    c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", algo.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", renderHint(outputPath))

	return nil
}

// runLayoutRemote ships the graph to a graphlayouts server for computation
// and writes the positioned result locally.
func (c *CLI) runLayoutRemote(ctx context.Context, input, outputPath string, algo layout.Algorithm, flags layoutFlags) error {
	loader := pipeline.NewRunner(nil, nil, c.Logger)
	g, err := loader.Load(ctx, pipeline.Options{Input: input, Format: flags.format})
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	algo.Base().ComputeLocation = layout.ComputeRemote
	client := api.NewClient(flags.remote, c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout on %s...", algo.Name, flags.remote))
	spinner.Start()

	if _, err := client.Layout(ctx, g, algo); err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("remote layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := graphio.ExportFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), false)
	printNewline()
	printNextStep("Render", renderHint(outputPath))

	return nil
}

// renderHint suggests the convert invocation that turns a layout into an SVG.
func renderHint(layoutPath string) string {
	base := strings.TrimSuffix(layoutPath, filepath.Ext(layoutPath))
	return fmt.Sprintf("%s convert %s -o %s.svg", appName, layoutPath, base)
}
