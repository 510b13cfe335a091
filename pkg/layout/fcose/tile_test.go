package fcose

import (
	"testing"

	"github.com/ocasazza/graphlayouts/pkg/geo"
)

// fakeComponent builds a component with a single positioned node and a
// bounding box of the given size.
func fakeComponent(key string, w, h float64, anchored bool) *component {
	c := &component{
		key:      key,
		nodes:    []string{key},
		anchored: anchored,
		pos:      map[string]geo.Point{key: {}},
		boxes:    map[string]geo.Rect{},
		bbox:     geo.RectAround(geo.Point{}, geo.Size{W: w, H: h}),
	}
	return c
}

func TestTileComponentsDisjointWithPadding(t *testing.T) {
	comps := []*component{
		fakeComponent("a", 100, 40, false),
		fakeComponent("b", 60, 60, false),
		fakeComponent("c", 30, 30, false),
		fakeComponent("d", 30, 80, false),
	}

	const padding = 15.0
	tileComponents(comps, padding)

	for i := 0; i < len(comps); i++ {
		for j := i + 1; j < len(comps); j++ {
			a, b := comps[i].bbox, comps[j].bbox
			if gap := separation(a, b); gap < padding-1e-9 {
				t.Errorf("components %s and %s are %.4f apart, want >= %v",
					comps[i].key, comps[j].key, gap, padding)
			}
		}
	}
}

func TestTileTranslatesPositionsWithBox(t *testing.T) {
	c := fakeComponent("a", 40, 40, false)
	c.pos["a"] = geo.Point{X: 7, Y: -3}
	c.bbox = geo.RectAround(geo.Point{X: 7, Y: -3}, geo.Size{W: 40, H: 40})

	tileComponents([]*component{c}, 10)

	// The box moves to the packing origin and the node must move with it.
	want := c.bbox.Center()
	if got := c.pos["a"]; got != want {
		t.Errorf("node position %+v out of sync with box center %+v", got, want)
	}
	if c.bbox.MinX != 0 || c.bbox.MinY != 0 {
		t.Errorf("single component not packed at the origin: %+v", c.bbox)
	}
}

func TestTileAnchoredComponentStaysPut(t *testing.T) {
	anchored := fakeComponent("pin", 50, 50, true)
	anchored.translate(geo.Point{X: 200, Y: 100}) // pretend the user pinned it here
	before := anchored.bbox

	free := fakeComponent("free", 40, 40, false)

	tileComponents([]*component{anchored, free}, 10)

	if anchored.bbox != before {
		t.Errorf("anchored component moved: %+v, want %+v", anchored.bbox, before)
	}
	if free.bbox.Intersects(anchored.bbox) {
		t.Error("free component packed onto the anchored one")
	}
	if free.bbox.MinY < before.MaxY+10-1e-9 {
		t.Errorf("free component not packed below the anchored region: %+v", free.bbox)
	}
}
