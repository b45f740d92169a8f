package meshing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline counters, registered in the default Prometheus registry. The
// server exposes them on /metrics; headless runs just accumulate them.
var (
	metricEnqueued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "meshing",
		Name:      "chunks_enqueued_total",
		Help:      "Dirty chunk positions accepted into the build queue.",
	})
	metricBuilt = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "meshing",
		Name:      "meshes_built_total",
		Help:      "Chunk meshes produced by background workers.",
	})
	metricApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "meshing",
		Name:      "meshes_applied_total",
		Help:      "Completed meshes forwarded to the renderer.",
	})
	metricStale = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "meshing",
		Name:      "meshes_stale_total",
		Help:      "Completed meshes discarded because a newer generation was already applied.",
	})
	metricPanics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "meshing",
		Name:      "build_panics_total",
		Help:      "Mesh builds aborted by a recovered panic.",
	})
)

func init() {
	prometheus.MustRegister(metricEnqueued, metricBuilt, metricApplied, metricStale, metricPanics)
}
