package libatrail

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/arcspace/go-arc-sdk/stdlib/task"
	"github.com/plan-systems/klog"

	"github.com/erdos-dna/erdos/erdos"
	"github.com/erdos-dna/erdos/metrics"
)

// DefaultCheckpointInterval is how many branch-and-bound iterations pass
// between checkpoint writes when checkpointing is on.
const DefaultCheckpointInterval = int64(10_000_000)

// SearchOpts configures a covering-tree search run.
type SearchOpts struct {
	Shape              string
	Branches           int    // requested; rounded down to a power of two
	FirstColor         int    // serial mode: color searched first
	UseCheckpoints     bool
	CheckpointFiles    []string
	CheckpointInterval int64
	OutputDir          string

	// OnSolution runs on the finding worker's goroutine before the worker
	// reports its status (trail tracing + output writing hook).
	OnSolution func(status erdos.SearchStatus)
}

// Searcher runs the branch-and-bound covering-tree search over a frozen
// embedded graph.
type Searcher struct {
	eg     *EmbeddedGraph
	vOrder []int
	opts   SearchOpts
}

func NewSearcher(eg *EmbeddedGraph, opts SearchOpts) *Searcher {
	if opts.CheckpointInterval <= 0 {
		opts.CheckpointInterval = DefaultCheckpointInterval
	}
	return &Searcher{
		eg:     eg,
		vOrder: eg.VertexOrdering(),
		opts:   opts,
	}
}

// branchWorker owns all mutable search state for one branch: the vertex
// stack, iteration counter and start time. The embedded graph and vertex
// ordering are shared read-only.
type branchWorker struct {
	eg     *EmbeddedGraph
	vOrder []int

	branch int
	color  int
	floor  int // cursor floor: resume/backtrack never unwinds below it

	stack      []int
	iterations int64
	started    time.Time

	ckptEvery int64
	ckptPath  string

	found  bool
	result []int // stack snapshot (vOrder indices)
}

func (s *Searcher) newWorker(branch, color, floor int) *branchWorker {
	w := &branchWorker{
		eg:        s.eg,
		vOrder:    s.vOrder,
		branch:    branch,
		color:     color,
		floor:     floor,
		started:   time.Now(),
	}
	if s.opts.UseCheckpoints {
		w.ckptEvery = s.opts.CheckpointInterval
		w.ckptPath = filepath.Join(s.opts.OutputDir, fmt.Sprintf("%s_branch%d.checkpoint", s.opts.Shape, branch))
	}
	return w
}

// rest is the test-and-branch body of the branch-and-bound at cursor v:
// evaluate the current stack, then try include-first / exclude-second on
// the next vertex in the BFS ordering. choice is only recorded for
// checkpointing; the push/pop for (v, choice) already happened in the
// caller.
func (w *branchWorker) rest(v, choice int) bool {
	w.iterations++
	if w.ckptEvery > 0 && w.iterations%w.ckptEvery == 0 && v >= w.floor {
		ck := &Checkpoint{
			Stack:  append([]int(nil), w.stack...),
			Cursor: v,
			Choice: choice,
			Color:  w.color,
			Branch: w.branch,
		}
		if err := ck.Save(w.ckptPath); err != nil {
			klog.Warningf("branch %d: checkpoint write failed: %v", w.branch, err)
		} else {
			metrics.CheckpointsWritten.Inc()
		}
		elapsed := time.Since(w.started)
		klog.Infof("branch %d: %d iterations, %s", w.branch, w.iterations, elapsed)
		w.started = time.Now()
	}

	isTree, hasCycle := w.eg.fullTreeTest(w.stack, w.color, w.vOrder)
	if isTree {
		w.found = true
		w.result = append([]int(nil), w.stack...)
		return true
	}
	// Cycles only grow as vertices join, so a cyclic stack prunes the
	// whole subtree.
	if hasCycle || w.eg.VertexCount()-1 <= v {
		return false
	}

	w.stack = append(w.stack, v+1)
	if w.rest(v+1, 1) {
		return true
	}
	w.stack = w.stack[:len(w.stack)-1]
	return w.rest(v+1, 0)
}

// search runs the worker's whole branch from its prefix.
func (w *branchWorker) search() bool {
	return w.rest(w.floor-1, 1)
}

// resume continues a checkpointed search: finish the recorded subtree,
// then unwind the pending exclude siblings of every included ancestor
// above the floor.
func (w *branchWorker) resume(ck *Checkpoint) bool {
	w.stack = append([]int(nil), ck.Stack...)
	if w.rest(ck.Cursor, ck.Choice) {
		return true
	}
	if ck.Choice == 1 {
		w.stack = w.stack[:len(w.stack)-1]
		if w.rest(ck.Cursor, 0) {
			return true
		}
	}
	for j := ck.Cursor - 1; j >= w.floor; j-- {
		if n := len(w.stack); n > 0 && w.stack[n-1] == j {
			w.stack = w.stack[:n-1]
			if w.rest(j, 0) {
				return true
			}
		}
	}
	return false
}

func (w *branchWorker) status() erdos.SearchStatus {
	st := erdos.SearchStatus{
		Branch:     w.branch,
		Color:      w.color,
		Found:      w.found,
		Iterations: w.iterations,
	}
	for _, si := range w.result {
		st.TreeVerts = append(st.TreeVerts, w.vOrder[si])
	}
	return st
}

// RoundDownBranches rounds the requested branch count down to the nearest
// power of two.
func RoundDownBranches(n int) int {
	if n < 1 {
		return 1
	}
	b := 1
	for b*2 <= n {
		b *= 2
	}
	return b
}

// Run executes the search and returns every worker's status, ordered by
// branch. Serial mode (Branches <= 1) searches FirstColor and then, if
// nothing was found, the opposite color. Parallel mode fans out one
// worker per branch with a fixed inclusion prefix.
func (s *Searcher) Run() ([]erdos.SearchStatus, error) {
	if s.opts.UseCheckpoints && len(s.opts.CheckpointFiles) > 0 {
		return s.runResumed()
	}
	branches := RoundDownBranches(s.opts.Branches)
	if branches <= 1 {
		return s.runSerial()
	}
	return s.runParallel(branches)
}

func (s *Searcher) runSerial() ([]erdos.SearchStatus, error) {
	klog.Infof("searching for covering tree (%s) ...", erdos.ColorName(s.opts.FirstColor))
	w := s.newWorker(0, s.opts.FirstColor, 0)
	if !w.search() {
		other := 1 - s.opts.FirstColor
		klog.Infof("searching for covering tree (%s) ...", erdos.ColorName(other))
		w = s.newWorker(0, other, 0)
		w.search()
	}

	st := w.status()
	metrics.SearchIterations.WithLabelValues("0").Add(float64(w.iterations))
	if st.Found {
		metrics.SolutionsFound.WithLabelValues(erdos.ColorName(st.Color)).Inc()
		if s.opts.OnSolution != nil {
			s.opts.OnSolution(st)
		}
	}
	return []erdos.SearchStatus{st}, nil
}

// runParallel fans the search out over branches = 2K workers: worker b
// searches color b mod 2 with the k-bit mask b div 2 (K = 2^k) fixing the
// include/exclude choices for the first k positions of the vertex
// ordering. Workers share nothing mutable; the join is a counted receive
// of one status per worker on the results channel.
func (s *Searcher) runParallel(branches int) ([]erdos.SearchStatus, error) {
	k := 0
	for 1<<(k+1) < branches {
		k++
	}
	if k > s.eg.VertexCount() {
		return nil, erdos.ErrBadBranchCount
	}

	root, err := task.Start(&task.Task{
		Label: "covering-tree-search",
	})
	if err != nil {
		return nil, err
	}
	defer root.Close()

	results := make(chan erdos.SearchStatus, branches)
	for b := 0; b < branches; b++ {
		w := s.newWorker(b, b%2, k)
		mask := b / 2
		for j := 0; j < k; j++ {
			if mask&(1<<j) != 0 {
				w.stack = append(w.stack, j)
			}
		}

		_, err := root.StartChild(&task.Task{
			Label: fmt.Sprintf("branch-%d", b),
			OnRun: func(ctx task.Context) {
				metrics.BranchesActive.Inc()
				defer metrics.BranchesActive.Dec()
				s.runWorker(w)
				results <- w.status()
			},
		})
		if err != nil {
			return nil, err
		}
	}

	statuses := make([]erdos.SearchStatus, branches)
	for i := 0; i < branches; i++ {
		st := <-results
		statuses[st.Branch] = st
	}
	return statuses, nil
}

func (s *Searcher) runResumed() ([]erdos.SearchStatus, error) {
	root, err := task.Start(&task.Task{
		Label: "covering-tree-resume",
	})
	if err != nil {
		return nil, err
	}
	defer root.Close()

	results := make(chan erdos.SearchStatus, len(s.opts.CheckpointFiles))
	workers := 0
	for _, pathname := range s.opts.CheckpointFiles {
		ck, err := LoadCheckpoint(pathname)
		if err != nil {
			klog.Warningf("skipping checkpoint %s: %v", pathname, err)
			continue
		}
		workers++
		w := s.newWorker(ck.Branch, ck.Color, 0)

		_, err = root.StartChild(&task.Task{
			Label: fmt.Sprintf("resume-branch-%d", ck.Branch),
			OnRun: func(ctx task.Context) {
				metrics.BranchesActive.Inc()
				defer metrics.BranchesActive.Dec()
				if w.resume(ck) {
					metrics.SolutionsFound.WithLabelValues(erdos.ColorName(w.color)).Inc()
					if s.opts.OnSolution != nil {
						s.opts.OnSolution(w.status())
					}
				}
				metrics.SearchIterations.WithLabelValues(fmt.Sprint(w.branch)).Add(float64(w.iterations))
				results <- w.status()
			},
		})
		if err != nil {
			return nil, err
		}
	}

	statuses := make([]erdos.SearchStatus, 0, workers)
	for i := 0; i < workers; i++ {
		statuses = append(statuses, <-results)
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Branch < statuses[j].Branch
	})
	return statuses, nil
}

func (s *Searcher) runWorker(w *branchWorker) {
	// A branch whose prefix already fails dies immediately; one whose
	// prefix is already a full covering tree reports it. Both cases fall
	// out of the shared rest() entry test.
	if w.search() {
		metrics.SolutionsFound.WithLabelValues(erdos.ColorName(w.color)).Inc()
		if s.opts.OnSolution != nil {
			s.opts.OnSolution(w.status())
		}
	}
	metrics.SearchIterations.WithLabelValues(fmt.Sprint(w.branch)).Add(float64(w.iterations))
}
