package graphio

import (
	"io"
	"os"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// Export encodes a graph to w in the given format.
func Export(g *graph.Graph, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		if err := graph.WriteGraph(g, w); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write json")
		}
		return nil
	case FormatCSV:
		return writeCSV(g, w)
	case FormatDOT:
		return writeDOT(g, w)
	case FormatSVG:
		return writeSVG(g, w)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "cannot export format %q", format)
	}
}

// ExportFile writes a graph to path, detecting the format from its
// extension.
func ExportFile(g *graph.Graph, path string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return Export(g, f, format)
}
