package libatrail

import (
	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

// BuildRotation produces the rotation system of the augmented mesh: for
// each vertex, the cyclic order of incident edge ids consistent with the
// face orientation, with doubled edges slotted next to their originals.
//
// Edge ids 0..len(cc.Edges)-1 are the sorted-pair ranks; doubled edge d
// (its position in cc.DoubleEdges) gets id len(cc.Edges)+d. The returned
// edge slice is indexed by id and covers originals and doubles.
func BuildRotation(vertexCount int, faces [][]int, cc *CCResult) (Rotation, []Edge, error) {
	// vertex -> containing face indices, in face-list order
	faceList := make([][]int, vertexCount)
	for fid, f := range faces {
		for _, v := range f {
			if v < 0 || v >= vertexCount {
				return nil, nil, errors.Wrapf(erdos.ErrBadFaceRow, "face %d references vertex %d", fid, v)
			}
			faceList[v] = append(faceList[v], fid)
		}
	}

	// edge id -> the two faces bordering it (un-augmented mesh)
	edgeFaces := make([][2]int, len(cc.Edges))
	for i := range edgeFaces {
		edgeFaces[i] = [2]int{-1, -1}
	}
	for fid, f := range faces {
		for i, v := range f {
			w := f[(i+1)%len(f)]
			eid := cc.EdgeID(v, w)
			if edgeFaces[eid][0] == -1 {
				edgeFaces[eid][0] = fid
			} else {
				edgeFaces[eid][1] = fid
			}
		}
	}

	indexOf := func(f []int, v int) int {
		for i, x := range f {
			if x == v {
				return i
			}
		}
		return -1
	}

	adjL := make(Rotation, vertexCount)
	for v := 0; v < vertexCount; v++ {
		if len(faceList[v]) == 0 {
			return nil, nil, errors.Wrapf(erdos.ErrBadRotation, "vertex %d lies on no face", v)
		}

		// Seed with the edge pair around v in its first containing face:
		// the edge arriving at v and the edge leaving it.
		currFid := faceList[v][0]
		face := faces[currFid]
		vInd := indexOf(face, v)
		u := face[(vInd-1+len(face))%len(face)]
		w := face[(vInd+1)%len(face)]
		firstEdge := cc.EdgeID(u, v)
		currEdge := cc.EdgeID(v, w)
		adjL[v] = append(adjL[v], firstEdge, currEdge)

		// Hop across the forward edge to its other face and take the next
		// edge out of v there; repeat until the walk closes on the seed.
		for iter := 0; ; iter++ {
			if iter > len(cc.Edges) {
				return nil, nil, errors.Wrapf(erdos.ErrBadRotation, "rotation walk at vertex %d did not close", v)
			}
			ef := edgeFaces[currEdge]
			if ef[0] == currFid {
				currFid = ef[1]
			} else {
				currFid = ef[0]
			}
			face = faces[currFid]
			vInd = indexOf(face, v)
			w = face[(vInd+1)%len(face)]
			next := cc.EdgeID(v, w)
			if next == firstEdge {
				break
			}
			adjL[v] = append(adjL[v], next)
			currEdge = next
		}
	}

	edges := make([]Edge, len(cc.Edges), len(cc.Edges)+len(cc.DoubleEdges))
	copy(edges, cc.Edges)

	// Doubled edges slot in against their original: immediately after it
	// at u, immediately before it at v. The double and its sibling then
	// bound the new 2-gon with correctly opposed darts.
	for d, pair := range cc.DoubleEdges {
		u, v := pair[0], pair[1]
		orig := cc.EdgeID(u, v)
		id := len(cc.Edges) + d
		edges = append(edges, Edge{V1: u, V2: v, ID: id})

		inserted := false
		for i, eid := range adjL[u] {
			if eid == orig {
				adjL[u] = insertAt(adjL[u], i+1, id)
				inserted = true
				break
			}
		}
		if !inserted {
			return nil, nil, errors.Wrapf(erdos.ErrBadRotation, "double edge (%d, %d): original missing at %d", u, v, u)
		}

		inserted = false
		for i := len(adjL[v]) - 1; i >= 0; i-- {
			if adjL[v][i] == orig {
				adjL[v] = insertAt(adjL[v], i, id)
				inserted = true
				break
			}
		}
		if !inserted {
			return nil, nil, errors.Wrapf(erdos.ErrBadRotation, "double edge (%d, %d): original missing at %d", u, v, v)
		}
	}

	return adjL, edges, nil
}

func insertAt(s []int, i, v int) []int {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
