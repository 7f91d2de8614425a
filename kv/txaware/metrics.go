package txaware

import "github.com/prometheus/client_golang/prometheus"

var (
	recordCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txaware",
			Subsystem: "changeset",
			Name:      "record_total",
			Help:      "Counter of mutations recorded into change sets.",
		}, []string{"level"})

	lifecycleCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "txaware",
			Subsystem: "lifecycle",
			Name:      "event_total",
			Help:      "Counter of transaction lifecycle events.",
		}, []string{"event"})

	changeKeysHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "txaware",
			Subsystem: "changeset",
			Name:      "change_keys",
			Help:      "Bucketed histogram of change keys reported per transaction.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		})
)

func init() {
	prometheus.MustRegister(recordCounter)
	prometheus.MustRegister(lifecycleCounter)
	prometheus.MustRegister(changeKeysHistogram)
}
