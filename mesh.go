package textextrude

import (
	"github.com/unixpickle/model3d/model3d"
)

// Mesh is an indexed triangle buffer.
// Normals are stored per vertex and Indices has three entries per
// triangle.
type Mesh struct {
	Vertices []model3d.Coord3D
	Normals  []model3d.Coord3D
	Indices  []int
}

// NewMesh creates an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{}
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int {
	return len(m.Vertices)
}

// NumTriangles returns the number of complete index triples.
func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 && len(m.Indices) == 0
}

// Copy creates a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	return &Mesh{
		Vertices: append([]model3d.Coord3D{}, m.Vertices...),
		Normals:  append([]model3d.Coord3D{}, m.Normals...),
		Indices:  append([]int{}, m.Indices...),
	}
}

// AddMesh appends the geometry of other, offsetting its indices by the
// current vertex count. It returns m for chaining.
//
// If only one of the meshes carries normals, the missing normals are
// filled with zero vectors so that Normals stays aligned with Vertices.
func (m *Mesh) AddMesh(other *Mesh) *Mesh {
	offset := len(m.Vertices)
	if len(m.Normals) < offset && len(other.Normals) > 0 {
		m.Normals = append(m.Normals, make([]model3d.Coord3D, offset-len(m.Normals))...)
	}
	m.Vertices = append(m.Vertices, other.Vertices...)
	if len(other.Normals) > 0 || len(m.Normals) > 0 {
		m.Normals = append(m.Normals, other.Normals...)
		if missing := len(m.Vertices) - len(m.Normals); missing > 0 {
			m.Normals = append(m.Normals, make([]model3d.Coord3D, missing)...)
		}
	}
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+offset)
	}
	return m
}

// AddTriangle appends a triangle with its own three vertices, all sharing
// the normal n.
func (m *Mesh) AddTriangle(a, b, c, n model3d.Coord3D) {
	offset := len(m.Vertices)
	m.Vertices = append(m.Vertices, a, b, c)
	m.Normals = append(m.Normals, n, n, n)
	m.Indices = append(m.Indices, offset, offset+1, offset+2)
}

// AddQuad appends the planar quad a, b, c, d as the triangles (a, b, c)
// and (a, c, d). The face normal is derived from the winding.
func (m *Mesh) AddQuad(a, b, c, d model3d.Coord3D) {
	n := b.Sub(a).Cross(c.Sub(a))
	if norm := n.Norm(); norm > 0 {
		n = n.Scale(1 / norm)
	}
	offset := len(m.Vertices)
	m.Vertices = append(m.Vertices, a, b, c, d)
	m.Normals = append(m.Normals, n, n, n, n)
	m.Indices = append(m.Indices,
		offset, offset+1, offset+2,
		offset, offset+2, offset+3,
	)
}

// SetNormals assigns n to every vertex.
func (m *Mesh) SetNormals(n model3d.Coord3D) {
	m.Normals = m.Normals[:0]
	for range m.Vertices {
		m.Normals = append(m.Normals, n)
	}
}

// Translate moves every vertex by offset in place.
func (m *Mesh) Translate(offset model3d.Coord3D) *Mesh {
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Add(offset)
	}
	return m
}

// Scale multiplies every vertex component-wise by s in place.
//
// Normals are transformed by the inverse transpose of the scale and
// renormalized, so a negative component mirrors them as well. A zero
// component collapses geometry and leaves the normals unchanged.
func (m *Mesh) Scale(s model3d.Coord3D) *Mesh {
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Mul(s)
	}
	if s.X == 0 || s.Y == 0 || s.Z == 0 {
		return m
	}
	inv := model3d.XYZ(1/s.X, 1/s.Y, 1/s.Z)
	for i, n := range m.Normals {
		n = n.Mul(inv)
		if norm := n.Norm(); norm > 0 {
			n = n.Scale(1 / norm)
		}
		m.Normals[i] = n
	}
	return m
}

// ModelMesh converts the triangles into a model3d mesh, which merges
// vertices by position. This is useful for checking that the surface
// is closed, e.g. with NeedsRepair().
func (m *Mesh) ModelMesh() *model3d.Mesh {
	res := model3d.NewMesh()
	for i := 0; i+2 < len(m.Indices); i += 3 {
		res.Add(&model3d.Triangle{
			m.Vertices[m.Indices[i]],
			m.Vertices[m.Indices[i+1]],
			m.Vertices[m.Indices[i+2]],
		})
	}
	return res
}
