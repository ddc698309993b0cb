package textextrude

import (
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// TessellateOutline triangulates the filled region of an outline,
// treating nested rings as holes. The result lies in the z=0 plane and
// reuses the ring points as vertices, so every boundary edge of the
// triangulation is an edge of some ring.
//
// Triangles are wound counter-clockwise in the (x, y) plane. The
// returned mesh has no normals.
func TessellateOutline(o Outline) *Mesh {
	// TriangulateMesh wants clockwise outer rings and counter-clockwise
	// holes, which is exactly how OrientRings leaves them.
	segs := model2d.NewMesh()
	for _, ring := range OrientRings(o) {
		for i, p := range ring {
			segs.Add(&model2d.Segment{p, ring[(i+1)%len(ring)]})
		}
	}
	res := NewMesh()
	if segs.NumSegments() == 0 {
		return res
	}

	indices := map[model2d.Coord]int{}
	vertex := func(c model2d.Coord) int {
		c = canonicalZero(c)
		if idx, ok := indices[c]; ok {
			return idx
		}
		idx := len(res.Vertices)
		indices[c] = idx
		res.Vertices = append(res.Vertices, model3d.XYZ(c.X, c.Y, 0))
		return idx
	}
	for _, t := range model2d.TriangulateMesh(segs) {
		a, b, c := t[0], t[1], t[2]
		area := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
		if area == 0 {
			continue
		} else if area < 0 {
			b, c = c, b
		}
		res.Indices = append(res.Indices, vertex(a), vertex(b), vertex(c))
	}
	return res
}

// orientTriangles rewinds every triangle of m so that its signed area in
// the (x, y) plane has the requested sign.
func orientTriangles(m *Mesh, clockwise bool) {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		area := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
		if (area < 0) != clockwise && area != 0 {
			m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
		}
	}
}
