package libatrail

import (
	"sort"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"

	"github.com/erdos-dna/erdos/erdos"
)

// CCResult is the output of the checkerboard-colorability augmentation:
// the mesh's undirected edge set in sorted-pair order (edge ids are the
// ranks in that order) and the list of edges to insert a second time.
type CCResult struct {
	Edges       []Edge   // normalized (v1 < v2), id == index
	DoubleEdges [][2]int // vertex pairs, in emission order
	FaceAdj     [][]int  // face adjacency of the un-augmented mesh

	edgeIDs *redblacktree.Tree // [2]int -> edge id
}

// EdgeID returns the id assigned to the normalized pair (u, v), or -1.
func (cc *CCResult) EdgeID(u, v int) int {
	if u > v {
		u, v = v, u
	}
	if id, found := cc.edgeIDs.Get([2]int{u, v}); found {
		return id.(int)
	}
	return -1
}

func pairComparator(a, b interface{}) int {
	pa, pb := a.([2]int), b.([2]int)
	if pa[0] != pb[0] {
		return pa[0] - pb[0]
	}
	return pa[1] - pb[1]
}

// MakeCC makes a mesh checkerboard-colorable.
//
// Faces are 2-colored implicitly by BFS level; any two adjacent faces that
// land on the same level break the bipartition, and each edge they share is
// emitted as a doubled edge. Inserting the double splits the shared
// boundary with a 2-gon, which restores bipartiteness of the face graph.
func MakeCC(faces [][]int) (*CCResult, error) {
	if len(faces) == 0 {
		return nil, erdos.ErrEmptyMesh
	}

	// Edge-to-faces map over the normalized vertex pair. The tree keeps
	// pairs sorted, which fixes edge id assignment and doubled-edge
	// emission order.
	edgeToFaces := redblacktree.NewWith(pairComparator)
	for fid, f := range faces {
		for i, v := range f {
			w := f[(i+1)%len(f)]
			key := [2]int{v, w}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			var fids []int
			if prev, found := edgeToFaces.Get(key); found {
				fids = prev.([]int)
			}
			edgeToFaces.Put(key, append(fids, fid))
		}
	}

	cc := &CCResult{
		edgeIDs: redblacktree.NewWith(pairComparator),
	}

	faceAdj := make([][]int, len(faces))
	it := edgeToFaces.Iterator()
	for it.Next() {
		pair := it.Key().([2]int)
		fids := it.Value().([]int)
		if len(fids) != 2 {
			return nil, errors.Wrapf(erdos.ErrNonManifold, "edge (%d, %d) lies in %d faces", pair[0], pair[1], len(fids))
		}
		id := len(cc.Edges)
		cc.Edges = append(cc.Edges, Edge{V1: pair[0], V2: pair[1], ID: id})
		cc.edgeIDs.Put(pair, id)
		faceAdj[fids[0]] = append(faceAdj[fids[0]], fids[1])
		faceAdj[fids[1]] = append(faceAdj[fids[1]], fids[0])
	}
	for i := range faceAdj {
		faceAdj[i] = sortedUnique(faceAdj[i])
	}
	cc.FaceAdj = faceAdj

	// Level-by-level BFS over faces from fid 0. Faces discovered at the
	// same distance share an implicit color; adjacent same-level pairs are
	// the monochromatic adjacencies to repair.
	visited := make([]bool, len(faces))
	visited[0] = true
	level := []int{0}
	var sameLevelPairs [][2]int

	for len(level) > 0 {
		for i := 0; i < len(level); i++ {
			for j := i + 1; j < len(level); j++ {
				if containsInt(faceAdj[level[i]], level[j]) {
					sameLevelPairs = append(sameLevelPairs, [2]int{level[i], level[j]})
				}
			}
		}
		var next []int
		for _, f := range level {
			for _, nb := range faceAdj[f] {
				if !visited[nb] {
					visited[nb] = true
					next = append(next, nb)
				}
			}
		}
		level = next
	}

	// Every edge shared by an offending pair gets doubled; doubling only
	// one of several shared edges would leave the pair adjacent.
	for _, pair := range sameLevelPairs {
		it := edgeToFaces.Iterator()
		for it.Next() {
			fids := it.Value().([]int)
			f1, f2 := fids[0], fids[1]
			if f1 > f2 {
				f1, f2 = f2, f1
			}
			if f1 == pair[0] && f2 == pair[1] {
				cc.DoubleEdges = append(cc.DoubleEdges, it.Key().([2]int))
			}
		}
	}

	return cc, nil
}

func sortedUnique(s []int) []int {
	if len(s) < 2 {
		return s
	}
	sort.Ints(s)
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
