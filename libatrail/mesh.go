package libatrail

import (
	"os"

	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

// Mesh is the ingested polygon soup: opaque vertex coordinate rows and
// faces as cyclic vertex lists (CCW per outward normal). The core never
// interprets the coordinates; only the topology matters.
type Mesh struct {
	Vertices [][]float64
	Faces    [][]int
}

// VertexCount returns the number of mesh vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of mesh faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// LoadMesh reads an ASCII PLY file from disk.
func LoadMesh(pathname string) (*Mesh, error) {
	f, err := os.Open(pathname)
	if err != nil {
		return nil, errors.Wrapf(erdos.ErrInputUnreadable, "%s: %v", pathname, err)
	}
	defer f.Close()

	mesh, err := ParsePLY(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", pathname)
	}
	return mesh, nil
}
