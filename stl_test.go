package textextrude

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestFacetsReversal(t *testing.T) {
	m := &Mesh{
		Vertices: []model3d.Coord3D{
			model3d.XYZ(0, 0, 0),
			model3d.XYZ(1, 0, 0),
			model3d.XYZ(0, 1, 0),
		},
		Normals: []model3d.Coord3D{
			model3d.XYZ(0, 0, 1),
			model3d.XYZ(1, 0, 0),
			model3d.XYZ(0, 1, 0),
		},
		Indices: []int{0, 1, 2, 2, 1},
	}
	facets := Facets(m)
	if len(facets) != 1 {
		t.Fatalf("expected 1 facet but got %d", len(facets))
	}
	f := facets[0]
	if f.Vertices != [3]model3d.Coord3D{m.Vertices[2], m.Vertices[1], m.Vertices[0]} {
		t.Errorf("vertices not reversed: %v", f.Vertices)
	}
	if f.Normal != m.Normals[0] {
		t.Errorf("expected first vertex normal but got %v", f.Normal)
	}
}

func TestFacetsOutward(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	e.SetText("OA")
	e.SetThickness(4)
	m := e.Mesh()
	if err := NormalizeForOutput(m, e.Bounds(), 100); err != nil {
		t.Fatal(err)
	}
	facets := Facets(m)
	if len(facets) != m.NumTriangles() {
		t.Fatalf("expected %d facets but got %d", m.NumTriangles(), len(facets))
	}
	for i, f := range facets {
		v := f.Vertices
		n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
		if n.Dot(f.Normal) <= 0 {
			t.Fatalf("facet %d is not wound counter-clockwise around its normal", i)
		}
	}
}

func TestWriteSTLBinary(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	e.SetText("A ")
	opts := DefaultSTLOptions()
	opts.ASCII = false

	var buf bytes.Buffer
	if err := e.WriteSTL(&buf, opts); err != nil {
		t.Fatal(err)
	}
	tris, err := model3d.ReadSTL(&buf)
	if err != nil {
		t.Fatalf("read STL: %v", err)
	}
	want := e.Mesh().NumTriangles()
	if len(tris) != want {
		t.Fatalf("expected %d triangles but got %d", want, len(tris))
	}

	// The trailing space widens the bounds, so the glyph sits left of
	// center.
	bounds := e.Bounds()
	scale := opts.Width / bounds.Width
	wantMin := (fakeBearing - bounds.Width/2) * scale

	solid := model3d.NewMeshTriangles(tris)
	min, max := solid.Min(), solid.Max()
	if math.Abs(min.X-wantMin) > 1e-3 {
		t.Errorf("expected left edge at %f but got %f", wantMin, min.X)
	}
	if max.X > 0 {
		t.Errorf("glyph should end before the trailing space, max x %f", max.X)
	}
	if solid.NeedsRepair() {
		t.Error("exported solid is not closed")
	}
}

func TestWriteSTLASCII(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	e.SetText("A")
	var buf bytes.Buffer
	if err := e.WriteSTL(&buf, DefaultSTLOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "solid text\n") || !strings.HasSuffix(out, "endsolid text\n") {
		t.Fatalf("unexpected framing:\n%s", out)
	}
	want := e.Mesh().NumTriangles()
	if n := strings.Count(out, "facet normal"); n != want {
		t.Errorf("expected %d facets but got %d", want, n)
	}
	if n := strings.Count(out, "vertex "); n != 3*want {
		t.Errorf("expected %d vertices but got %d", 3*want, n)
	}
}

func TestSaveSTL(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	path := filepath.Join(t.TempDir(), "out.stl")
	if err := e.SaveSTL(path, DefaultSTLOptions()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty STL file")
	}
}

func TestSaveSTLZeroWidth(t *testing.T) {
	e := NewExtruder(fakeProvider{})
	e.SetText("")
	path := filepath.Join(t.TempDir(), "out.stl")
	if err := e.SaveSTL(path, DefaultSTLOptions()); !errors.Is(err, ErrZeroWidth) {
		t.Fatalf("expected ErrZeroWidth but got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no file should be created for empty text")
	}
}
