package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchIterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erdos_search_iterations_total",
		Help: "Branch-and-bound iterations executed, labelled by branch.",
	}, []string{"branch"})

	SolutionsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "erdos_solutions_total",
		Help: "Covering trees found, labelled by face color.",
	}, []string{"color"})

	CheckpointsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "erdos_checkpoints_written_total",
		Help: "Checkpoint files written by search workers.",
	})

	BranchesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "erdos_branches_active",
		Help: "Search branch workers currently running.",
	})

	TrailsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "erdos_trails_written_total",
		Help: "A-trail output file pairs written.",
	})
)
