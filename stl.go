package textextrude

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/unixpickle/model3d/model3d"
)

const stlHeaderSize = 80

// STLOptions controls STL export.
type STLOptions struct {
	// ASCII selects the textual format instead of binary.
	ASCII bool

	// Width is the physical width of the text in millimeters.
	Width float64

	// Name is written into the solid header.
	Name string
}

// DefaultSTLOptions returns ASCII output at 100mm wide.
func DefaultSTLOptions() STLOptions {
	return STLOptions{
		ASCII: true,
		Width: 100,
		Name:  "text",
	}
}

// A Facet is one STL triangle record.
type Facet struct {
	Normal   model3d.Coord3D
	Vertices [3]model3d.Coord3D
}

// Facets reads the index buffer of m three entries at a time and emits
// each triangle with its vertices in reverse storage order, carrying the
// normal of the first stored vertex.
//
// Meshes are built with the opposite winding from STL's right-hand rule
// once mirrored to y-up, hence the reversal. Up to two trailing indices
// that do not form a triangle are ignored.
func Facets(m *Mesh) []Facet {
	res := make([]Facet, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		var n model3d.Coord3D
		if i0 < len(m.Normals) {
			n = m.Normals[i0]
		}
		res = append(res, Facet{
			Normal:   n,
			Vertices: [3]model3d.Coord3D{m.Vertices[i2], m.Vertices[i1], m.Vertices[i0]},
		})
	}
	return res
}

// WriteSTL encodes facets as an ASCII or binary STL solid.
func WriteSTL(w io.Writer, name string, facets []Facet, ascii bool) error {
	if ascii {
		return writeASCIISTL(w, name, facets)
	}
	return writeBinarySTL(w, name, facets)
}

func writeASCIISTL(w io.Writer, name string, facets []Facet) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, f := range facets {
		fmt.Fprintf(bw, "  facet normal %e %e %e\n", f.Normal.X, f.Normal.Y, f.Normal.Z)
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range f.Vertices {
			fmt.Fprintf(bw, "      vertex %e %e %e\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

func writeBinarySTL(w io.Writer, name string, facets []Facet) error {
	bw := bufio.NewWriter(w)
	var header [stlHeaderSize]byte
	copy(header[:], name)
	bw.Write(header[:])

	var record [50]byte
	binary.LittleEndian.PutUint32(record[:4], uint32(len(facets)))
	bw.Write(record[:4])

	putVec := func(b []byte, c model3d.Coord3D) {
		binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(c.X)))
		binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(c.Y)))
		binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(c.Z)))
	}
	for _, f := range facets {
		putVec(record[0:], f.Normal)
		for i, v := range f.Vertices {
			putVec(record[12*(i+1):], v)
		}
		record[48], record[49] = 0, 0
		if _, err := bw.Write(record[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteSTL exports the text mesh, scaled to opts.Width millimeters and
// centered on the origin.
func (e *Extruder) WriteSTL(w io.Writer, opts STLOptions) error {
	bounds := e.Bounds()
	mesh := e.Mesh()
	if err := NormalizeForOutput(mesh, bounds, opts.Width); err != nil {
		return err
	}
	name := opts.Name
	if name == "" {
		name = "text"
	}
	return WriteSTL(w, name, Facets(mesh), opts.ASCII)
}

// SaveSTL writes the text mesh to an STL file.
func (e *Extruder) SaveSTL(filename string, opts STLOptions) (err error) {
	if _, err := outputScale(e.Bounds(), opts.Width); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create STL file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close STL file: %w", closeErr)
		}
	}()
	if err := e.WriteSTL(f, opts); err != nil {
		return fmt.Errorf("write STL file %s: %w", filename, err)
	}
	Logger().Info("saved STL", slog.String("path", filename), slog.Bool("ascii", opts.ASCII))
	return nil
}
