package libatrail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/erdos-dna/erdos/erdos"
	"github.com/erdos-dna/erdos/metrics"
)

// Output file writes from concurrent workers are serialized process-wide.
var sOutputMu sync.Mutex

// TrailVerts flattens a trail to its vertex sequence: the tail of every
// dart, then the final head (0-based).
func TrailVerts(trail []Dart) []int {
	verts := make([]int, 0, len(trail)+1)
	for _, d := range trail {
		verts = append(verts, d.Tail)
	}
	if len(trail) > 0 {
		verts = append(verts, trail[len(trail)-1].Head)
	}
	return verts
}

// TrailFileWriter writes the two output files of a successful worker:
// <shape>_<branch>_<color>_<crossing|no_crossing>_staples.txt (1-based)
// and the matching .ntrail (0-based).
type TrailFileWriter struct {
	Dir string
}

func trailBaseName(shape string, branch, color int, crossing bool) string {
	label := "no_crossing"
	if crossing {
		label = "crossing"
	}
	return fmt.Sprintf("%s_%d_%d_%s_staples", shape, branch, color, label)
}

// Write emits both files and returns their paths.
func (tw *TrailFileWriter) Write(shape string, branch, color int, crossing bool, trail []Dart) (txtPath, ntrailPath string, err error) {
	verts := TrailVerts(trail)
	base := trailBaseName(shape, branch, color, crossing)
	txtPath = filepath.Join(tw.Dir, base+".txt")
	ntrailPath = filepath.Join(tw.Dir, base+".ntrail")

	var oneBased, zeroBased strings.Builder
	for i, v := range verts {
		if i > 0 {
			oneBased.WriteByte(' ')
			zeroBased.WriteByte(' ')
		}
		fmt.Fprintf(&oneBased, "%d", v+1)
		fmt.Fprintf(&zeroBased, "%d", v)
	}

	sOutputMu.Lock()
	defer sOutputMu.Unlock()

	if err = os.WriteFile(txtPath, []byte(oneBased.String()), 0o644); err != nil {
		return "", "", errors.Wrapf(err, "writing %s", txtPath)
	}
	if err = os.WriteFile(ntrailPath, []byte(zeroBased.String()), 0o644); err != nil {
		return "", "", errors.Wrapf(err, "writing %s", ntrailPath)
	}
	metrics.TrailsWritten.Inc()
	return txtPath, ntrailPath, nil
}

// Emitter turns a found covering tree into its A-trail, runs the
// crossing-staple check, writes the output files, and records the route
// in the catalog when one is attached. It runs on the finding worker's
// goroutine.
type Emitter struct {
	EG      *EmbeddedGraph
	Shape   string
	Writer  TrailFileWriter
	Catalog erdos.Catalog // optional
}

// Emit is the Searcher's OnSolution hook.
func (em *Emitter) Emit(status erdos.SearchStatus) {
	trail, err := FindATrail(em.EG, status.TreeVerts, status.Color)
	if err != nil {
		// A failed trace on a verified covering tree means the embedding
		// is corrupt; surface it loudly but keep other workers going.
		klog.Errorf("branch %d: A-trail trace failed: %v", status.Branch, err)
		return
	}
	crossing := CheckCrossingStaples(em.EG, trail)

	txtPath, ntrailPath, err := em.Writer.Write(em.Shape, status.Branch, status.Color, crossing, trail)
	if err != nil {
		klog.Errorf("branch %d: %v", status.Branch, err)
		return
	}
	klog.Infof("branch %d: wrote %s and %s", status.Branch, txtPath, ntrailPath)

	if em.Catalog != nil {
		em.Catalog.TryAddRoute(erdos.RouteRecord{
			Shape:    em.Shape,
			Branch:   status.Branch,
			Color:    status.Color,
			Crossing: crossing,
			Verts:    TrailVerts(trail),
		})
	}
}
