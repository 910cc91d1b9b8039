package erdos

// Face colors. The checkerboard coloring assigns every face one of the two;
// Uncolored only appears transiently during embedded-graph construction.
const (
	Blue      = 0
	Red       = 1
	Uncolored = -1
)

// ColorName returns the color's name, as used in log lines and metric
// labels. Output file names carry the numeric color instead.
func ColorName(color int) string {
	if color == Red {
		return "red"
	}
	return "blue"
}

// SearchStatus reports the outcome of one branch worker.
type SearchStatus struct {
	Branch     int
	Color      int
	Found      bool
	TreeVerts  []int // absolute vertex ids (already mapped through the BFS ordering)
	Iterations int64
}

// RouteRecord is one found scaffold routing, as persisted in the catalog.
type RouteRecord struct {
	Shape    string
	Branch   int
	Color    int
	Crossing bool
	Verts    []int // 0-based trail vertex sequence (tails then final head)
}

// RouteAdder accepts found routings.
type RouteAdder interface {

	// Tries to add the given routing if it isn't already recorded.
	// If true is returned, the route was not present and was added.
	TryAddRoute(rec RouteRecord) bool
}

// Catalog wraps a database of found scaffold routings.
type Catalog interface {
	RouteAdder

	// SelectRoutes fires onHit with every recorded route for the given shape.
	// Enumeration stops early if onHit returns false.
	SelectRoutes(shape string, onHit func(rec RouteRecord) bool) error

	// NumRoutes returns the number of routes recorded in this catalog.
	NumRoutes() int64

	Close() error
}
