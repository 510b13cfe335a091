package graphio

import (
	"bytes"
	"context"
	"io"

	"github.com/goccy/go-graphviz"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
)

// RenderSVG renders DOT source to SVG using Graphviz. Graphviz runs its
// own layout for the drawing, so node coordinates in the output come from
// its dot engine rather than any pos attributes in the source.
func RenderSVG(dot []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse dot")
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	return buf.Bytes(), nil
}

func writeSVG(g *graph.Graph, w io.Writer) error {
	var dot bytes.Buffer
	if err := writeDOT(g, &dot); err != nil {
		return err
	}
	svg, err := RenderSVG(dot.Bytes())
	if err != nil {
		return err
	}
	if _, err := w.Write(svg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write svg")
	}
	return nil
}
