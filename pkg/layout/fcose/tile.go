package fcose

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/ocasazza/graphlayouts/pkg/geo"
)

// rowBudgetFactor widens the packing row budget beyond the widest
// component so the arrangement tends toward a square aspect ratio.
const rowBudgetFactor = 1.25

// tileComponents packs component bounding boxes into rows so no two
// components overlap and neighbors keep the configured padding.
// Components holding a locked node are anchored: they keep their
// coordinates, and the free components are packed into rows strictly
// below them.
func tileComponents(comps []*component, padding float64) {
	var anchored, free []*component
	for _, c := range comps {
		if c.anchored {
			anchored = append(anchored, c)
		} else {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return
	}

	// Big components first; ties broken by id so packing is stable.
	slices.SortStableFunc(free, func(a, b *component) int {
		if d := cmp.Compare(b.bbox.Size().Area(), a.bbox.Size().Area()); d != 0 {
			return d
		}
		return strings.Compare(a.key, b.key)
	})

	originX, originY := 0.0, 0.0
	if len(anchored) > 0 {
		region := anchored[0].bbox
		for _, c := range anchored[1:] {
			region = region.Union(c.bbox)
		}
		originX = region.MinX
		originY = region.MaxY + padding
	}

	var total, widest float64
	for _, c := range free {
		total += c.bbox.Size().Area()
		widest = max(widest, c.bbox.Width())
	}
	budget := max(widest, rowBudgetFactor*math.Sqrt(total))

	x, y, rowHeight := originX, originY, 0.0
	for _, c := range free {
		w, h := c.bbox.Width(), c.bbox.Height()
		if x > originX && x+w > originX+budget {
			x = originX
			y += rowHeight + padding
			rowHeight = 0
		}
		c.translate(geo.Point{X: x - c.bbox.MinX, Y: y - c.bbox.MinY})
		x += w + padding
		rowHeight = max(rowHeight, h)
	}
}
