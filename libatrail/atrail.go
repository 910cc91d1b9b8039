package libatrail

import (
	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

// FindATrail walks the A-trail determined by a covering tree.
//
// treeVerts are absolute vertex ids (not vertex-ordering indices); color
// is the color the tree covers. The rule: on reaching a covering-tree
// vertex the trail continues backward through the dart cycle of an
// opposite-color face; on reaching any other vertex it continues forward
// through the dart cycle of a target-color face. It switches to the face
// across the current edge only when that changes the face color. The
// emitted darts follow the walk direction, so backward steps emit the
// reversed dart while the internal cursor keeps the face's stored
// orientation.
func FindATrail(eg *EmbeddedGraph, treeVerts []int, color int) ([]Dart, error) {
	if color != erdos.Blue && color != erdos.Red {
		return nil, erdos.ErrBadFaceColor
	}
	inTree := make(map[int]bool, len(treeVerts))
	for _, v := range treeVerts {
		inTree[v] = true
	}

	faces1 := eg.ColorFaces(color)
	if len(faces1) == 0 {
		return nil, errors.Wrap(erdos.ErrNoStartEdge, "no faces of target color")
	}

	// Start on the first dart of the first target-color face whose tail
	// is a covering-tree vertex.
	currF := faces1[0]
	var currE Dart
	found := false
	for _, d := range currF.Darts {
		if inTree[d.Tail] {
			currE = d
			found = true
			break
		}
	}
	if !found {
		return nil, erdos.ErrNoStartEdge
	}

	trail := make([]Dart, 0, eg.EdgeCount())
	trail = append(trail, currE)

	// oppositeFace switches to the other face bordering the edge.
	oppositeFace := func(eid, fid int) *Face {
		ef := eg.FacesOfEdge(eid)
		if ef[0] == fid {
			return &eg.faces[ef[1]]
		}
		return &eg.faces[ef[0]]
	}

	for len(trail) < eg.EdgeCount() {
		if len(trail) > 2*eg.EdgeCount() {
			return nil, erdos.ErrTrailDiverged
		}

		if currF.Color == color {
			if inTree[currE.Head] {
				// Cross at the chosen vertex: wrap backward around the
				// opposing face.
				currF = oppositeFace(currE.ID, currF.ID)
				j := currF.dartIndex(currE.ID)
				if j == 0 {
					j = len(currF.Darts)
				}
				currE = currF.Darts[j-1]
				trail = append(trail, currE.Reversed())
			} else {
				// Turn within the current face.
				j := currF.dartIndex(currE.ID)
				currE = currF.Darts[(j+1)%len(currF.Darts)]
				trail = append(trail, currE)
			}
		} else {
			if inTree[currE.Tail] {
				j := currF.dartIndex(currE.ID)
				if j == 0 {
					j = len(currF.Darts)
				}
				currE = currF.Darts[j-1]
				trail = append(trail, currE.Reversed())
			} else {
				currF = oppositeFace(currE.ID, currF.ID)
				j := currF.dartIndex(currE.ID)
				currE = currF.Darts[(j+1)%len(currF.Darts)]
				trail = append(trail, currE)
			}
		}
	}

	return trail, nil
}

// CheckCrossingStaples labels each vertex's incident edges by the trail's
// traversal direction (1 out of the vertex, 0 into it) and scans the
// rotation cyclically: two equal labels in a row mean the in/out pattern
// does not alternate there, a physical folding defect at that vertex.
// Returns true if any vertex has a crossing staple.
func CheckCrossingStaples(eg *EmbeddedGraph, trail []Dart) bool {
	byID := make([]Dart, eg.EdgeCount())
	for _, d := range trail {
		byID[d.ID] = d
	}

	crossing := false
	for v := 0; v < eg.VertexCount(); v++ {
		rot := eg.rot[v]
		if len(rot) < 2 {
			continue
		}
		labels := make([]int, len(rot))
		for i, eid := range rot {
			if byID[eid].Tail == v {
				labels[i] = 1
			}
		}
		for i := range labels {
			if labels[i] == labels[(i+1)%len(labels)] {
				crossing = true
			}
		}
	}
	return crossing
}
