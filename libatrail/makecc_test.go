package libatrail_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erdos-dna/erdos/libatrail"
)

func TestMakeCCTetrahedron(t *testing.T) {
	cc, err := libatrail.MakeCC(tetraFaces())
	require.NoError(t, err)

	assert.Len(t, cc.Edges, 6)

	// The three faces at BFS level 1 are pairwise adjacent; each pair
	// contributes its single shared edge.
	require.Len(t, cc.DoubleEdges, 3)
	assert.Equal(t, [][2]int{{0, 3}, {2, 3}, {1, 3}}, cc.DoubleEdges)

	// Edge ids are sorted-pair ranks.
	assert.Equal(t, 0, cc.EdgeID(0, 1))
	assert.Equal(t, 0, cc.EdgeID(1, 0))
	assert.Equal(t, 5, cc.EdgeID(3, 2))
	assert.Equal(t, -1, cc.EdgeID(0, 0))
}

func TestMakeCCCube(t *testing.T) {
	cc, err := libatrail.MakeCC(cubeFaces())
	require.NoError(t, err)

	assert.Len(t, cc.Edges, 12)

	// The four side faces sit on one BFS level and form a 4-cycle of
	// adjacencies; the four vertical edges get doubled.
	require.Len(t, cc.DoubleEdges, 4)
	for _, pair := range cc.DoubleEdges {
		assert.Contains(t, [][2]int{{1, 5}, {0, 4}, {2, 6}, {3, 7}}, pair)
	}
}

func TestMakeCCOctahedron(t *testing.T) {
	cc, err := libatrail.MakeCC(octaFaces())
	require.NoError(t, err)

	assert.Len(t, cc.Edges, 12)
	// The octahedron's face graph is already bipartite.
	assert.Empty(t, cc.DoubleEdges)
}

func TestMakeCCRejectsDegenerateInput(t *testing.T) {
	_, err := libatrail.MakeCC(nil)
	assert.Error(t, err)

	// A lone triangle leaves every edge with a single face.
	_, err = libatrail.MakeCC([][]int{{0, 1, 2}})
	assert.Error(t, err)
}

func TestMakeCCDeterminism(t *testing.T) {
	a, err := libatrail.MakeCC(cubeFaces())
	require.NoError(t, err)
	b, err := libatrail.MakeCC(cubeFaces())
	require.NoError(t, err)

	assert.Equal(t, a.Edges, b.Edges)
	assert.Equal(t, a.DoubleEdges, b.DoubleEdges)
	assert.Equal(t, a.FaceAdj, b.FaceAdj)
}
