package libatrail_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erdos-dna/erdos/libatrail"
)

// Closed orientable fixtures: faces CCW per outward normal, so every
// shared edge appears as opposite darts in its two faces.

func tetraFaces() [][]int {
	return [][]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 1},
		{1, 3, 2},
	}
}

func cubeFaces() [][]int {
	return [][]int{
		{4, 5, 6, 7}, // top
		{0, 3, 2, 1}, // bottom
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	}
}

func octaFaces() [][]int {
	return [][]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 4},
		{0, 4, 1},
		{5, 2, 1},
		{5, 3, 2},
		{5, 4, 3},
		{5, 1, 4},
	}
}

func vertexCountOf(faces [][]int) int {
	max := -1
	for _, f := range faces {
		for _, v := range f {
			if v > max {
				max = v
			}
		}
	}
	return max + 1
}

// buildGraph runs the augmentation + rotation + embedding pipeline.
func buildGraph(t *testing.T, faces [][]int) (*libatrail.EmbeddedGraph, *libatrail.CCResult) {
	t.Helper()
	cc, err := libatrail.MakeCC(faces)
	require.NoError(t, err)

	rot, edges, err := libatrail.BuildRotation(vertexCountOf(faces), faces, cc)
	require.NoError(t, err)

	eg, err := libatrail.NewEmbeddedGraph(rot, edges)
	require.NoError(t, err)
	return eg, cc
}

// verifyCoveringTree independently checks the covering-tree definition:
// the incidence graph between the chosen vertices and the color's faces
// spans every face, is connected, and is acyclic.
func verifyCoveringTree(t *testing.T, eg *libatrail.EmbeddedGraph, treeVerts []int, color int) {
	t.Helper()
	colorFaces := eg.ColorFaces(color)
	require.NotEmpty(t, treeVerts)
	require.NotEmpty(t, colorFaces)

	n1 := len(treeVerts)
	nodes := n1 + len(colorFaces)
	adj := make([][]int, nodes)
	edgeCount := 0
	for i, v := range treeVerts {
		for fi, f := range colorFaces {
			if f.ContainsVertex(v) {
				adj[i] = append(adj[i], n1+fi)
				adj[n1+fi] = append(adj[n1+fi], i)
				edgeCount++
			}
		}
	}

	// spanning
	for i, nb := range adj {
		require.NotEmptyf(t, nb, "incidence node %d isolated", i)
	}
	// a connected graph with nodes-1 edges is a tree
	require.Equal(t, nodes-1, edgeCount, "edge count of a tree")

	visited := make([]bool, nodes)
	stack := []int{0}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[v] {
			continue
		}
		visited[v] = true
		for _, nb := range adj[v] {
			if !visited[nb] {
				stack = append(stack, nb)
			}
		}
	}
	for i, ok := range visited {
		require.Truef(t, ok, "incidence node %d unreachable", i)
	}
}

// verifyEulerian checks the A-trail invariants: every undirected edge
// exactly once, consecutive darts chained head-to-tail, closed circuit.
func verifyEulerian(t *testing.T, eg *libatrail.EmbeddedGraph, trail []libatrail.Dart) {
	t.Helper()
	require.Len(t, trail, eg.EdgeCount())

	seen := make([]bool, eg.EdgeCount())
	for _, d := range trail {
		require.False(t, seen[d.ID], "edge %d traversed twice", d.ID)
		seen[d.ID] = true
	}
	for i := 0; i < len(trail); i++ {
		next := trail[(i+1)%len(trail)]
		require.Equalf(t, trail[i].Head, next.Tail, "trail breaks between darts %d and %d", i, i+1)
	}
}

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
