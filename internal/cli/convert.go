package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graphio"
	"github.com/ocasazza/graphlayouts/pkg/pipeline"
)

// convertCommand creates the convert command for format translation.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		output   string
		inFormat string
		toFormat string
	)

	cmd := &cobra.Command{
		Use:   "convert [graph.(json|csv|dot)]",
		Short: "Convert a graph between interchange formats",
		Long: `Convert a graph between interchange formats.

Reads a graph in json, csv, or dot format and writes it in another.
The output format follows the -o extension, or --to when writing to
stdout. Positions survive the round trip where the target format can
carry them; svg is write-only and renders the positioned graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], output, inFormat, toFormat)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout with --to if empty)")
	cmd.Flags().StringVarP(&inFormat, "format", "f", "", "input format override: json, csv, dot")
	cmd.Flags().StringVar(&toFormat, "to", "", "output format when writing to stdout: json, csv, dot, svg")

	return cmd
}

// runConvert loads the input graph and writes it in the target format.
func (c *CLI) runConvert(ctx context.Context, input, output, inFormat, toFormat string) error {
	loader := pipeline.NewRunner(nil, nil, c.Logger)

	prog := newProgress(c.Logger)
	g, err := loader.Load(ctx, pipeline.Options{Input: input, Format: inFormat})
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Loaded %d nodes and %d edges", len(g.Nodes), len(g.Edges)))

	if output == "" {
		if toFormat == "" {
			return errors.New(errors.ErrCodeInvalidInput, "need -o or --to to pick the output format")
		}
		format, err := graphio.ParseFormat(toFormat)
		if err != nil {
			return err
		}
		return graphio.Export(g, os.Stdout, format)
	}

	if err := graphio.ExportFile(g, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Converted %s", filepath.Base(input))
	printFile(output)

	return nil
}
