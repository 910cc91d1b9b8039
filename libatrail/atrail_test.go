package libatrail_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdos-dna/erdos/erdos"
	"github.com/erdos-dna/erdos/libatrail"
)

func TestATrailIsEulerian(t *testing.T) {
	for _, tc := range []struct {
		name      string
		faces     [][]int
		wantEdges int
	}{
		{"tetrahedron", tetraFaces(), 6 + 3}, // originals + doubles
		{"cube", cubeFaces(), 12 + 4},
		{"octahedron", octaFaces(), 12},
	} {
		t.Run(tc.name, func(t *testing.T) {
			eg, _ := buildGraph(t, tc.faces)
			require.Equal(t, tc.wantEdges, eg.EdgeCount())

			for _, color := range []int{erdos.Blue, erdos.Red} {
				st := runSerial(t, eg, color)
				require.True(t, st.Found)

				trail, err := libatrail.FindATrail(eg, st.TreeVerts, st.Color)
				require.NoError(t, err)
				verifyEulerian(t, eg, trail)
			}
		})
	}
}

func TestATrailDeterminism(t *testing.T) {
	eg, _ := buildGraph(t, octaFaces())
	st := runSerial(t, eg, erdos.Blue)
	require.True(t, st.Found)

	a, err := libatrail.FindATrail(eg, st.TreeVerts, st.Color)
	require.NoError(t, err)
	b, err := libatrail.FindATrail(eg, st.TreeVerts, st.Color)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestATrailRejectsBadInput(t *testing.T) {
	eg, _ := buildGraph(t, octaFaces())

	_, err := libatrail.FindATrail(eg, []int{0}, 7)
	assert.Error(t, err)

	// No covering-tree vertex on the first face of the color.
	_, err = libatrail.FindATrail(eg, nil, erdos.Blue)
	assert.Error(t, err)
}

func TestCrossingStaplesDeterministic(t *testing.T) {
	eg, _ := buildGraph(t, cubeFaces())
	st := runSerial(t, eg, erdos.Blue)
	require.True(t, st.Found)

	trail, err := libatrail.FindATrail(eg, st.TreeVerts, st.Color)
	require.NoError(t, err)

	a := libatrail.CheckCrossingStaples(eg, trail)
	b := libatrail.CheckCrossingStaples(eg, trail)
	assert.Equal(t, a, b)
}

func TestTrailVerts(t *testing.T) {
	trail := []libatrail.Dart{
		{Tail: 2, Head: 0, ID: 0},
		{Tail: 0, Head: 1, ID: 1},
		{Tail: 1, Head: 2, ID: 2},
	}
	assert.Equal(t, []int{2, 0, 1, 2}, libatrail.TrailVerts(trail))
	assert.Empty(t, libatrail.TrailVerts(nil))
}

func TestTrailFileWriter(t *testing.T) {
	dir := t.TempDir()
	tw := &libatrail.TrailFileWriter{Dir: dir}

	trail := []libatrail.Dart{
		{Tail: 0, Head: 1, ID: 0},
		{Tail: 1, Head: 2, ID: 1},
		{Tail: 2, Head: 0, ID: 2},
	}
	txtPath, ntrailPath, err := tw.Write("tri", 3, erdos.Red, false, trail)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tri_3_1_no_crossing_staples.txt"), txtPath)
	assert.Equal(t, filepath.Join(dir, "tri_3_1_no_crossing_staples.ntrail"), ntrailPath)

	txt, err := os.ReadFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3 1", string(txt))

	ntrail, err := os.ReadFile(ntrailPath)
	require.NoError(t, err)
	assert.Equal(t, "0 1 2 0", string(ntrail))

	// Crossing label shows up in the name.
	txtPath, _, err = tw.Write("tri", 0, erdos.Blue, true, trail)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(txtPath, "tri_0_0_crossing_staples.txt"))
}

func TestEmitterWritesOutputs(t *testing.T) {
	eg, _ := buildGraph(t, octaFaces())
	dir := t.TempDir()

	em := &libatrail.Emitter{
		EG:     eg,
		Shape:  "octa",
		Writer: libatrail.TrailFileWriter{Dir: dir},
	}

	st := runSerial(t, eg, erdos.Blue)
	require.True(t, st.Found)
	em.Emit(st)

	matches, err := filepath.Glob(filepath.Join(dir, "octa_0_0_*_staples.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	fields := strings.Fields(string(data))
	assert.Len(t, fields, eg.EdgeCount()+1)
}
