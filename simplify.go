package textextrude

import (
	"github.com/unixpickle/model3d/model2d"
)

// SimplifyRing drops points of a closed ring using Ramer-Douglas-Peucker
// with the given tolerance. The first point of the ring is always kept,
// and a ring is never reduced below three points.
func SimplifyRing(r Ring, tolerance float64) Ring {
	if len(r) <= 3 || tolerance <= 0 {
		return append(Ring{}, r...)
	}

	// Split the ring at the point farthest from the start so that each
	// half is an open polyline with fixed endpoints.
	far := 0
	var farDist float64
	for i, p := range r {
		if d := p.Dist(r[0]); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		return append(Ring{}, r...)
	}
	closed := append(append(Ring{}, r...), r[0])

	keep := make([]bool, len(closed))
	keep[0], keep[far], keep[len(closed)-1] = true, true, true
	simplifyRange(closed, 0, far, tolerance, keep)
	simplifyRange(closed, far, len(closed)-1, tolerance, keep)

	res := make(Ring, 0, len(r))
	for i, p := range closed[:len(closed)-1] {
		if keep[i] {
			res = append(res, p)
		}
	}
	if len(res) < 3 {
		return append(Ring{}, r...)
	}
	return res
}

func simplifyRange(pts Ring, start, end int, tolerance float64, keep []bool) {
	if end-start < 2 {
		return
	}
	seg := model2d.Segment{pts[start], pts[end]}
	idx := -1
	maxDist := tolerance
	for i := start + 1; i < end; i++ {
		if d := seg.Dist(pts[i]); d > maxDist {
			idx, maxDist = i, d
		}
	}
	if idx < 0 {
		return
	}
	keep[idx] = true
	simplifyRange(pts, start, idx, tolerance, keep)
	simplifyRange(pts, idx, end, tolerance, keep)
}
