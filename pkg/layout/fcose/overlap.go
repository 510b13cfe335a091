package fcose

import (
	"github.com/ocasazza/graphlayouts/pkg/geo"
)

const (
	// maxResolverSweeps caps the push-apart passes. Hitting the cap is
	// reported, not fatal.
	maxResolverSweeps = 50

	// resolverSlack is added to every separation so a resolved pair ends
	// strictly inside tolerance instead of exactly on the boundary.
	resolverSlack = 0.1
)

// resolveOverlaps pushes dimensioned units apart until no pair overlaps
// beyond the allowed percentage of the smaller unit's extent, or the sweep
// cap is hit. When clip is non-nil every unit's box is kept inside it:
// containment wins over separation and the leftover overlap is tolerated.
// Reports whether the final state is within tolerance.
func resolveOverlaps(units []*unit, overlapPct float64, clip *geo.Rect) bool {
	var boxes []*unit
	for _, u := range units {
		if u.hasDims && u.size.W > 0 && u.size.H > 0 {
			boxes = append(boxes, u)
		}
	}
	if len(boxes) < 2 {
		return true
	}

	allow := min(max(overlapPct, 0), 100) / 100

	for sweep := 0; sweep < maxResolverSweeps; sweep++ {
		moved := false
		for i := 0; i < len(boxes); i++ {
			for j := i + 1; j < len(boxes); j++ {
				if separate(boxes[i], boxes[j], allow, clip) {
					moved = true
				}
			}
		}
		if !moved {
			break
		}
	}

	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if ex, ey := excess(boxes[i], boxes[j], allow); ex > 0 && ey > 0 {
				return false
			}
		}
	}
	return true
}

// excess returns how far each axis overlap exceeds the allowance. A pair
// violates tolerance only when both axes exceed it.
func excess(a, b *unit, allow float64) (float64, float64) {
	ra, rb := a.box(), b.box()
	ox := geo.Overlap(ra.MinX, ra.MaxX, rb.MinX, rb.MaxX)
	oy := geo.Overlap(ra.MinY, ra.MaxY, rb.MinY, rb.MaxY)
	return ox - allow*min(ra.Width(), rb.Width()),
		oy - allow*min(ra.Height(), rb.Height())
}

// separate displaces one overlapping pair apart along the axis needing
// the smaller correction. A locked unit passes its share to the other
// side; a pair of locked units stays put.
func separate(a, b *unit, allow float64, clip *geo.Rect) bool {
	if a.locked && b.locked {
		return false
	}
	ex, ey := excess(a, b, allow)
	if ex <= 0 || ey <= 0 {
		return false
	}

	var shift geo.Point
	if ex <= ey {
		shift = geo.Point{X: ex/2 + resolverSlack}
		if a.pos.X > b.pos.X {
			shift.X = -shift.X
		}
	} else {
		shift = geo.Point{Y: ey/2 + resolverSlack}
		if a.pos.Y > b.pos.Y {
			shift.Y = -shift.Y
		}
	}

	switch {
	case a.locked:
		displace(b, shift.Scale(2), clip)
	case b.locked:
		displace(a, shift.Scale(-2), clip)
	default:
		displace(a, shift.Scale(-1), clip)
		displace(b, shift, clip)
	}
	return true
}

// displace moves a unit, clamping its box inside the clip region when one
// is set.
func displace(u *unit, delta geo.Point, clip *geo.Rect) {
	u.pos = u.pos.Add(delta)
	if clip != nil {
		u.pos = clip.ClampInside(u.pos, u.size)
	}
}
