package libatrail

import (
	"fmt"

	"github.com/erdos-dna/erdos/erdos"
)

// Edge is an undirected mesh edge. Endpoints are stored normalized
// (V1 < V2); identity is the ID alone, so two doubled edges may connect
// the same vertex pair and remain distinct.
type Edge struct {
	V1, V2 int
	ID     int
}

// Other returns the endpoint opposite v.
func (e Edge) Other(v int) int {
	if v == e.V1 {
		return e.V2
	}
	return e.V1
}

func (e Edge) String() string {
	return fmt.Sprintf("Edge %d: (%d, %d)", e.ID, e.V1, e.V2)
}

// Dart is a directed use of an edge: the traversal Tail -> Head.
// Faces and A-trails are dart sequences.
type Dart struct {
	Tail, Head int
	ID         int
}

// Reversed returns the opposite dart of the same edge.
func (d Dart) Reversed() Dart {
	return Dart{Tail: d.Head, Head: d.Tail, ID: d.ID}
}

// Face is a 2-cell of the embedding: a closed walk of darts, oriented so
// successive darts share a vertex (head of one is tail of the next).
type Face struct {
	ID    int
	Color int
	Darts []Dart
}

// ContainsVertex reports whether v lies on the face boundary.
func (f *Face) ContainsVertex(v int) bool {
	for _, d := range f.Darts {
		if d.Tail == v || d.Head == v {
			return true
		}
	}
	return false
}

// dartIndex returns the position of the dart using edge id, or -1.
// Each undirected edge appears in a face at most once.
func (f *Face) dartIndex(eid int) int {
	for i, d := range f.Darts {
		if d.ID == eid {
			return i
		}
	}
	return -1
}

func (f *Face) String() string {
	return fmt.Sprintf("Face %d (%s): %v", f.ID, erdos.ColorName(f.Color), f.Darts)
}

// Rotation is the combinatorial embedding: for each vertex, the cyclic
// order of incident edge ids around it. Doubled edges appear under their
// own ids, so a vertex on a doubled edge lists both ids.
type Rotation [][]int
