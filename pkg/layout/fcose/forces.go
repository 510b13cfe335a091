package fcose

import (
	"hash/fnv"
	"math"

	"github.com/ocasazza/graphlayouts/pkg/geo"
	"github.com/ocasazza/graphlayouts/pkg/layout"
)

// accumulateForces fills out with the net force on each unit: pairwise
// inverse-square repulsion, Hooke attraction along springs, and a weak
// pull toward the scope centroid.
func accumulateForces(sc *scope, opts *layout.FcoseOptions, out []geo.Point) {
	for i := range out {
		out[i] = geo.Point{}
	}

	for i := 0; i < len(sc.units); i++ {
		a := sc.units[i]
		for j := i + 1; j < len(sc.units); j++ {
			b := sc.units[j]
			delta := b.pos.Sub(a.pos)
			d2 := delta.X*delta.X + delta.Y*delta.Y
			var dir geo.Point
			if d2 < minSeparation {
				// Coincident centers have no usable direction; derive a
				// stable one from the pair's ids so reruns agree.
				dir = jitterDirection(a.id, b.id)
				d2 = minSeparation
			} else {
				dir = delta.Scale(1 / math.Sqrt(d2))
			}
			f := dir.Scale(opts.NodeRepulsion / d2)
			out[i] = out[i].Sub(f)
			out[j] = out[j].Add(f)
		}
	}

	for _, sp := range sc.springs {
		a, b := sc.units[sp.a], sc.units[sp.b]
		delta := b.pos.Sub(a.pos)
		dist := delta.Len()
		if dist < minSeparation {
			continue
		}
		f := delta.Scale((dist - opts.IdealEdgeLength) / attractionDivisor * sp.weight / dist)
		out[sp.a] = out[sp.a].Add(f)
		out[sp.b] = out[sp.b].Sub(f)
	}

	if opts.Gravity > 0 && len(sc.units) > 1 {
		var centroid geo.Point
		for _, u := range sc.units {
			centroid = centroid.Add(u.pos)
		}
		centroid = centroid.Scale(1 / float64(len(sc.units)))
		for i, u := range sc.units {
			out[i] = out[i].Add(centroid.Sub(u.pos).Scale(opts.Gravity))
		}
	}
}

// jitterDirection returns a unit vector derived deterministically from a
// pair of node ids.
func jitterDirection(a, b string) geo.Point {
	h := fnv.New64a()
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))
	angle := 2 * math.Pi * float64(h.Sum64()) / float64(math.MaxUint64)
	return geo.Point{X: math.Cos(angle), Y: math.Sin(angle)}
}
