package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "homesync_chat_messages_total",
			Help: "Total number of chat messages handled.",
		},
	)
	dispatcherHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homesync_dispatcher_hits_total",
			Help: "Chat messages answered by a fixed intent rule, by intent.",
		},
		[]string{"intent"},
	)
	pipelineFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "homesync_pipeline_failures_total",
			Help: "Generation pipeline runs that ended in the apology reply.",
		},
	)
	modelCallDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homesync_model_call_duration_seconds",
			Help:    "Language model call latency by pipeline stage.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"stage"},
	)
	inventoryUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homesync_inventory_updates_total",
			Help: "Inventory quantity updates by outcome.",
		},
		[]string{"outcome"},
	)
	exportRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homesync_export_runs_total",
			Help: "Inventory snapshot export runs by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		chatMessagesTotal,
		dispatcherHitsTotal,
		pipelineFailuresTotal,
		modelCallDurationSeconds,
		inventoryUpdatesTotal,
		exportRunsTotal,
	)
}

func IncrementChatMessage() {
	chatMessagesTotal.Inc()
}

func IncrementDispatcherHit(intent string) {
	dispatcherHitsTotal.WithLabelValues(intent).Inc()
}

func IncrementPipelineFailure() {
	pipelineFailuresTotal.Inc()
}

func ObserveModelCall(stage string, elapsed time.Duration) {
	modelCallDurationSeconds.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func IncrementInventoryUpdate(outcome string) {
	inventoryUpdatesTotal.WithLabelValues(outcome).Inc()
}

func IncrementExportRun(outcome string) {
	exportRunsTotal.WithLabelValues(outcome).Inc()
}
