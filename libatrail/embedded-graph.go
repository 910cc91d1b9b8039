package libatrail

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

// EmbeddedGraph is the frozen arena every worker reads: edges and faces
// recovered from the rotation system, the face and vertex adjacency
// graphs, the checkerboard coloring, the BFS vertex ordering, and the
// per-color face incidence indices. All cross references are integer ids.
// Nothing here mutates after NewEmbeddedGraph returns.
type EmbeddedGraph struct {
	vertexCount int
	edges       []Edge
	faces       []Face
	rot         Rotation

	faceAdj   [][]int
	vertexAdj [][]int
	edgeFaces [][2]int // edge id -> bordering face ids

	vertexOrdering []int

	redFaces  []*Face
	blueFaces []*Face

	redFaceVertices  [][]int // vertex -> indices into redFaces
	blueFaceVertices [][]int
}

// NewEmbeddedGraph recovers the full embedding from a rotation system and
// its edge table.
func NewEmbeddedGraph(rot Rotation, edges []Edge) (*EmbeddedGraph, error) {
	eg := &EmbeddedGraph{
		vertexCount: len(rot),
		edges:       edges,
		rot:         rot,
	}

	if err := eg.recoverFaces(); err != nil {
		return nil, err
	}
	eg.buildAdjacency()
	if err := eg.colorDFS(); err != nil {
		return nil, err
	}
	eg.bfs()
	eg.calcColorFaces()

	return eg, nil
}

func (eg *EmbeddedGraph) VertexCount() int        { return eg.vertexCount }
func (eg *EmbeddedGraph) EdgeCount() int          { return len(eg.edges) }
func (eg *EmbeddedGraph) FaceCount() int          { return len(eg.faces) }
func (eg *EmbeddedGraph) Edges() []Edge           { return eg.edges }
func (eg *EmbeddedGraph) Faces() []Face           { return eg.faces }
func (eg *EmbeddedGraph) Rotation() Rotation      { return eg.rot }
func (eg *EmbeddedGraph) VertexOrdering() []int   { return eg.vertexOrdering }
func (eg *EmbeddedGraph) RedFaces() []*Face       { return eg.redFaces }
func (eg *EmbeddedGraph) BlueFaces() []*Face      { return eg.blueFaces }
func (eg *EmbeddedGraph) RedFaceVertices() [][]int { return eg.redFaceVertices }

func (eg *EmbeddedGraph) BlueFaceVertices() [][]int { return eg.blueFaceVertices }

// ColorFaces returns the face list of the given color.
func (eg *EmbeddedGraph) ColorFaces(color int) []*Face {
	if color == erdos.Red {
		return eg.redFaces
	}
	return eg.blueFaces
}

// ColorFaceVertices returns the vertex -> face-index incidence for the
// given color (indices are positions within ColorFaces(color)).
func (eg *EmbeddedGraph) ColorFaceVertices(color int) [][]int {
	if color == erdos.Red {
		return eg.redFaceVertices
	}
	return eg.blueFaceVertices
}

// FacesOfEdge returns the ids of the two faces bordering the given edge.
func (eg *EmbeddedGraph) FacesOfEdge(eid int) [2]int { return eg.edgeFaces[eid] }

// recoverFaces walks every dart with the cyclic-successor rule: cross the
// edge, find it in the far rotation, take the next entry. Each walk traces
// the face to the left of its starting dart; duplicates are dropped by
// edge-set identity.
func (eg *EmbeddedGraph) recoverFaces() error {
	seen := make(map[string]bool)

	for v := 0; v < eg.vertexCount; v++ {
		for _, startEdge := range eg.rot[v] {
			var darts []Dart
			currV := v
			currEdge := startEdge

			for {
				w := eg.edges[currEdge].Other(currV)
				darts = append(darts, Dart{Tail: currV, Head: w, ID: currEdge})
				if len(darts) > 2*len(eg.edges)+1 {
					return errors.Wrapf(erdos.ErrBadRotation, "face walk from (%d, e%d) did not close", v, startEdge)
				}

				slot := -1
				for i, eid := range eg.rot[w] {
					if eid == currEdge {
						slot = i
						break
					}
				}
				if slot < 0 {
					return errors.Wrapf(erdos.ErrBadRotation, "edge %d missing from rotation of %d", currEdge, w)
				}
				currV = w
				currEdge = eg.rot[w][(slot+1)%len(eg.rot[w])]
				if currEdge == startEdge && currV == v {
					break
				}
			}

			key := faceKey(darts)
			if seen[key] {
				continue
			}
			seen[key] = true
			eg.faces = append(eg.faces, Face{
				ID:    len(eg.faces),
				Color: erdos.Uncolored,
				Darts: darts,
			})
		}
	}

	// Face closure invariant: every undirected edge in exactly two faces.
	uses := make([]int, len(eg.edges))
	for fi := range eg.faces {
		for _, d := range eg.faces[fi].Darts {
			uses[d.ID]++
		}
	}
	for eid, n := range uses {
		if n != 2 {
			return errors.Wrapf(erdos.ErrBadRotation, "edge %d recovered in %d faces", eid, n)
		}
	}

	return nil
}

func faceKey(darts []Dart) string {
	ids := make([]int, len(darts))
	for i, d := range darts {
		ids[i] = d.ID
	}
	sort.Ints(ids)
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "%d,", id)
	}
	return b.String()
}

func (eg *EmbeddedGraph) buildAdjacency() {
	eg.edgeFaces = make([][2]int, len(eg.edges))
	for i := range eg.edgeFaces {
		eg.edgeFaces[i] = [2]int{-1, -1}
	}
	for fi := range eg.faces {
		for _, d := range eg.faces[fi].Darts {
			if eg.edgeFaces[d.ID][0] == -1 {
				eg.edgeFaces[d.ID][0] = fi
			} else {
				eg.edgeFaces[d.ID][1] = fi
			}
		}
	}

	eg.faceAdj = make([][]int, len(eg.faces))
	for _, ef := range eg.edgeFaces {
		eg.faceAdj[ef[0]] = append(eg.faceAdj[ef[0]], ef[1])
		eg.faceAdj[ef[1]] = append(eg.faceAdj[ef[1]], ef[0])
	}
	for i := range eg.faceAdj {
		eg.faceAdj[i] = sortedUnique(eg.faceAdj[i])
	}

	eg.vertexAdj = make([][]int, eg.vertexCount)
	for _, e := range eg.edges {
		eg.vertexAdj[e.V1] = append(eg.vertexAdj[e.V1], e.V2)
		eg.vertexAdj[e.V2] = append(eg.vertexAdj[e.V2], e.V1)
	}
	for i := range eg.vertexAdj {
		eg.vertexAdj[i] = sortedUnique(eg.vertexAdj[i])
	}
}

// colorDFS 2-colors the faces from face 0. The CC augmentation guarantees
// the face adjacency graph is bipartite; a violation here means the input
// was not augmented (or is not a closed orientable 2-manifold).
func (eg *EmbeddedGraph) colorDFS() error {
	visited := make([]bool, len(eg.faces))
	var rec func(fid, color int) error
	rec = func(fid, color int) error {
		visited[fid] = true
		eg.faces[fid].Color = color
		for _, nb := range eg.faceAdj[fid] {
			if !visited[nb] {
				if err := rec(nb, 1-color); err != nil {
					return err
				}
			} else if eg.faces[nb].Color == color {
				return errors.Wrapf(erdos.ErrBadFaceColor, "faces %d and %d are adjacent and both %s", fid, nb, erdos.ColorName(color))
			}
		}
		return nil
	}
	return rec(0, erdos.Blue)
}

// bfs fixes the vertex ordering the covering-tree search branches over.
func (eg *EmbeddedGraph) bfs() {
	visited := make([]bool, eg.vertexCount)
	visited[0] = true
	queue := []int{0}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		eg.vertexOrdering = append(eg.vertexOrdering, s)
		for _, nb := range eg.vertexAdj[s] {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}
}

func (eg *EmbeddedGraph) calcColorFaces() {
	for fi := range eg.faces {
		f := &eg.faces[fi]
		if f.Color == erdos.Red {
			eg.redFaces = append(eg.redFaces, f)
		} else {
			eg.blueFaces = append(eg.blueFaces, f)
		}
	}

	eg.redFaceVertices = make([][]int, eg.vertexCount)
	eg.blueFaceVertices = make([][]int, eg.vertexCount)
	for v := 0; v < eg.vertexCount; v++ {
		for i, f := range eg.redFaces {
			if f.ContainsVertex(v) {
				eg.redFaceVertices[v] = append(eg.redFaceVertices[v], i)
			}
		}
		for i, f := range eg.blueFaces {
			if f.ContainsVertex(v) {
				eg.blueFaceVertices[v] = append(eg.blueFaceVertices[v], i)
			}
		}
	}
}
