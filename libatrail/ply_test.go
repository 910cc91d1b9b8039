package libatrail_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdos-dna/erdos/erdos"
	"github.com/erdos-dna/erdos/libatrail"
)

const tetraPLY = `ply
format ascii 1.0
comment made by hand
element vertex 4
property float x
property float y
property float z
element face 4
property list uchar int vertex_indices
end_header
0.0 0.0 0.0
1.0 0.0 0.0
0.5 1.0 0.0
0.5 0.5 1.0
3 0 1 2
3 0 2 3
3 0 3 1
3 1 3 2
`

func TestParsePLYTetrahedron(t *testing.T) {
	mesh, err := libatrail.ParsePLY(strings.NewReader(tetraPLY))
	require.NoError(t, err)

	require.Equal(t, 4, mesh.VertexCount())
	require.Equal(t, 4, mesh.FaceCount())
	assert.Equal(t, []float64{0.5, 0.5, 1.0}, mesh.Vertices[3])
	assert.Equal(t, tetraFaces(), mesh.Faces)
}

func TestParsePLYIgnoresUnknownHeaderLines(t *testing.T) {
	ply := strings.Replace(tetraPLY, "comment made by hand",
		"comment made by hand (v2.8, +weird tokens!)\nobj_info whatever 12", 1)
	mesh, err := libatrail.ParsePLY(strings.NewReader(ply))
	require.NoError(t, err)
	assert.Equal(t, 4, mesh.FaceCount())
}

func TestParsePLYNotPLY(t *testing.T) {
	_, err := libatrail.ParsePLY(strings.NewReader("off\n1 2 3\n"))
	assert.ErrorIs(t, err, erdos.ErrNotPLY)

	_, err = libatrail.ParsePLY(strings.NewReader(""))
	assert.ErrorIs(t, err, erdos.ErrNotPLY)
}

func TestParsePLYMalformed(t *testing.T) {
	// Header never ends.
	_, err := libatrail.ParsePLY(strings.NewReader("ply\nelement vertex 4\n"))
	assert.ErrorIs(t, errors.Cause(err), erdos.ErrBadHeader)

	// Missing element declarations.
	_, err = libatrail.ParsePLY(strings.NewReader("ply\nend_header\n"))
	assert.ErrorIs(t, errors.Cause(err), erdos.ErrBadHeader)

	// Fewer vertex rows than declared.
	truncated := strings.SplitAfter(tetraPLY, "0.5 1.0 0.0\n")[0]
	_, err = libatrail.ParsePLY(strings.NewReader(truncated))
	assert.ErrorIs(t, errors.Cause(err), erdos.ErrBadVertexRow)

	// Face row missing indices.
	bad := strings.Replace(tetraPLY, "3 1 3 2", "3 1 3", 1)
	_, err = libatrail.ParsePLY(strings.NewReader(bad))
	assert.ErrorIs(t, errors.Cause(err), erdos.ErrBadFaceRow)
}

func TestLoadMesh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tetra.ply")
	require.NoError(t, writeFile(path, tetraPLY))

	mesh, err := libatrail.LoadMesh(path)
	require.NoError(t, err)
	assert.Equal(t, 4, mesh.VertexCount())

	_, err = libatrail.LoadMesh(filepath.Join(dir, "missing.ply"))
	require.Error(t, err)
	assert.ErrorIs(t, errors.Cause(err), erdos.ErrInputUnreadable)
}

func TestPLYEndToEnd(t *testing.T) {
	mesh, err := libatrail.ParsePLY(strings.NewReader(tetraPLY))
	require.NoError(t, err)

	eg, _ := buildGraph(t, mesh.Faces)
	st := runSerial(t, eg, erdos.Red)
	require.True(t, st.Found)

	trail, err := libatrail.FindATrail(eg, st.TreeVerts, st.Color)
	require.NoError(t, err)
	verifyEulerian(t, eg, trail)
}
