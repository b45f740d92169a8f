package netgame

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "netgame",
		Name:      "connections",
		Help:      "Currently connected clients.",
	})
	metricMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netgame",
		Name:      "messages_received_total",
		Help:      "Well-formed messages received from clients.",
	})
	metricChunksServed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netgame",
		Name:      "chunks_served_total",
		Help:      "Chunk columns sent to clients.",
	})
	metricChunksGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "netgame",
		Name:      "chunks_generated_total",
		Help:      "Chunk columns generated on first request.",
	})
)

func init() {
	prometheus.MustRegister(metricConnections, metricMessages, metricChunksServed, metricChunksGenerated)
}
