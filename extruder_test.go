package textextrude

import (
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestExtruderDefaults(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	if e.Text() != "OF" {
		t.Errorf("unexpected default text %q", e.Text())
	}
	if e.Thickness() != 100 {
		t.Errorf("unexpected default thickness %f", e.Thickness())
	}
	e.SetText("hi")
	e.SetThickness(3)
	if e.Text() != "hi" || e.Thickness() != 3 {
		t.Errorf("setters not applied: %q %f", e.Text(), e.Thickness())
	}
}

func TestCharacterMeshSpace(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	m := e.CharacterMesh(' ')
	if m.NumVertices() != 0 || len(m.Indices) != 0 {
		t.Fatalf("expected empty mesh but got %d vertices, %d indices", m.NumVertices(), len(m.Indices))
	}
}

func TestCharacterMeshSquare(t *testing.T) {
	const thickness = 5.0
	e := NewExtruder(fakeProvider{})
	e.SetThickness(thickness)
	m := e.CharacterMesh('A')

	// Four side quads plus two caps of four vertices each.
	if n := m.NumVertices(); n != 4*4+4+4 {
		t.Fatalf("unexpected vertex count %d", n)
	}
	if n := m.NumTriangles(); n != 4*2+2+2 {
		t.Fatalf("unexpected triangle count %d", n)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("normals not aligned: %d vs %d", len(m.Normals), len(m.Vertices))
	}
	if m.ModelMesh().NeedsRepair() {
		t.Fatal("mesh is not closed")
	}

	// Vertices are ordered sides, bottom cap, top cap.
	center := model3d.XYZ(fakeBearing+fakeSize/2, -fakeSize/2, thickness/2)
	for i := 0; i < 16; i++ {
		n := m.Normals[i]
		if n.Z != 0 {
			t.Fatalf("side normal %d has z component: %v", i, n)
		}
		if out := m.Vertices[i].Sub(center); out.Dot(n) <= 0 {
			t.Fatalf("side normal %d points inward: %v", i, n)
		}
	}
	for i := 16; i < 20; i++ {
		if m.Vertices[i].Z != thickness || m.Normals[i] != model3d.XYZ(0, 0, 1) {
			t.Fatalf("bad bottom cap vertex %d: %v %v", i, m.Vertices[i], m.Normals[i])
		}
	}
	for i := 20; i < 24; i++ {
		if m.Vertices[i].Z != 0 || m.Normals[i] != model3d.XYZ(0, 0, -1) {
			t.Fatalf("bad top cap vertex %d: %v %v", i, m.Vertices[i], m.Normals[i])
		}
	}
	checkWindingMatchesNormals(t, m)
}

func TestCharacterMeshHole(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	e.SetThickness(2)
	m := e.CharacterMesh('O')

	var p fakeProvider
	sideQuads := 0
	for _, ring := range p.Outline('O') {
		sideQuads += len(ring)
	}
	tess := p.Tessellation('O')
	if n := m.NumVertices(); n != 4*sideQuads+2*tess.NumVertices() {
		t.Fatalf("unexpected vertex count %d", n)
	}
	if n := m.NumTriangles(); n != 2*sideQuads+2*tess.NumTriangles() {
		t.Fatalf("unexpected triangle count %d", n)
	}
	if m.ModelMesh().NeedsRepair() {
		t.Fatal("mesh is not closed")
	}
	checkWindingMatchesNormals(t, m)

	// The inner wall must face the center of the hole.
	center := model3d.XYZ(fakeBearing+fakeSize/2, -fakeSize/2, 1)
	for i := 16; i < 32; i++ {
		if m.Vertices[i].Sub(center).Dot(m.Normals[i]) >= 0 {
			t.Fatalf("hole wall normal %d points away from the hole: %v", i, m.Normals[i])
		}
	}
}

func TestMeshLayout(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	e.SetText("A A")
	e.SetThickness(1)
	m := e.Mesh()

	single := e.CharacterMesh('A')
	if m.NumVertices() != 2*single.NumVertices() {
		t.Fatalf("expected %d vertices but got %d", 2*single.NumVertices(), m.NumVertices())
	}
	if m.NumTriangles() != 2*single.NumTriangles() {
		t.Fatalf("expected %d triangles but got %d", 2*single.NumTriangles(), m.NumTriangles())
	}
	if m.ModelMesh().NeedsRepair() {
		t.Fatal("mesh is not closed")
	}

	offset := e.CharacterOffset("A A", 2).X
	second := m.Vertices[single.NumVertices():]
	for i, v := range single.Vertices {
		if second[i] != v.Add(model3d.XYZ(offset, 0, 0)) {
			t.Fatalf("vertex %d: expected %v shifted by %f but got %v", i, v, offset, second[i])
		}
	}

	bounds := e.Bounds()
	max := m.ModelMesh().Max()
	if max.X > bounds.Width+1e-9 {
		t.Fatalf("mesh extends to x=%f beyond bounds width %f", max.X, bounds.Width)
	}
}

func TestMeshDefaultText(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	m := e.Mesh()
	if m.IsEmpty() {
		t.Fatal("expected geometry for default text")
	}
	if e.Bounds() != e.StringBoundingBox("OF") {
		t.Fatal("Bounds should measure the current text")
	}
	want := e.CharacterMesh('O').NumVertices() + e.CharacterMesh('F').NumVertices()
	if m.NumVertices() != want {
		t.Fatalf("expected %d vertices but got %d", want, m.NumVertices())
	}
}

func checkWindingMatchesNormals(t *testing.T, m *Mesh) {
	t.Helper()
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(m.Normals[m.Indices[i]]) <= 0 {
			t.Fatalf("triangle %d winding disagrees with normal %v", i/3, m.Normals[m.Indices[i]])
		}
	}
}
