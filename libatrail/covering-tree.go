package libatrail

// The covering-tree membership machinery. For a candidate vertex stack S
// (indices into the BFS vertex ordering) and a target face color c, the
// incidence graph has nodes 0..|S|-1 for the stack vertices and
// |S|..|S|+|F_c|-1 for the color-c faces, with an edge wherever the
// vertex lies on the face. S is a covering tree iff that graph spans all
// its nodes, is connected, and has no cycle.

// buildIncidence constructs the bipartite adjacency. covers reports the
// spanning half of the test: no color face (and no chosen vertex) may be
// isolated.
func (eg *EmbeddedGraph) buildIncidence(stack []int, color int, vOrder []int) (adj [][]int, covers bool) {
	faceVertices := eg.ColorFaceVertices(color)
	colorFaceCount := len(eg.ColorFaces(color))

	n1 := len(stack)
	adj = make([][]int, n1+colorFaceCount)

	for i, si := range stack {
		for _, fIdx := range faceVertices[vOrder[si]] {
			adj[i] = append(adj[i], n1+fIdx)
			adj[n1+fIdx] = append(adj[n1+fIdx], i)
		}
	}

	covers = n1 > 0 && colorFaceCount > 0
	for _, nb := range adj {
		if len(nb) == 0 {
			covers = false
			break
		}
	}
	return adj, covers
}

// testForCycle runs a parent-tracked DFS over every component.
func testForCycle(adj [][]int) bool {
	visited := make([]bool, len(adj))
	for i := range adj {
		if !visited[i] {
			if dfsCycle(adj, i, -1, visited) {
				return true
			}
		}
	}
	return false
}

func dfsCycle(adj [][]int, v, parent int, visited []bool) bool {
	visited[v] = true
	for _, nb := range adj[v] {
		if !visited[nb] {
			if dfsCycle(adj, nb, v, visited) {
				return true
			}
		} else if nb != parent {
			return true
		}
	}
	return false
}

// isConnected checks reachability of every node from start with an
// explicit stack.
func isConnected(adj [][]int, start int) bool {
	if len(adj) == 0 {
		return false
	}
	visited := make([]bool, len(adj))
	stack := []int{start}

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

	for _, ok := range visited {
		if !ok {
			return false
		}
	}
	return true
}

// fullTreeTest evaluates the candidate stack in one pass.
func (eg *EmbeddedGraph) fullTreeTest(stack []int, color int, vOrder []int) (isTree, hasCycle bool) {
	adj, covers := eg.buildIncidence(stack, color, vOrder)
	hasCycle = testForCycle(adj)
	if hasCycle || !covers {
		return false, hasCycle
	}
	// The first stack vertex is node 0.
	return isConnected(adj, 0), hasCycle
}
