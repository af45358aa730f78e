package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "navtrack"

// Message results.
const (
	ResultAccepted    = "accepted"
	ResultFiltered    = "filtered"
	ResultUnknownNode = "unknown_node"
	ResultInvalid     = "invalid"
)

// Write results.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

var (
	// Registry holds every navtrack collector and is served on /metrics.
	Registry = prometheus.NewRegistry()

	// MessagesTotal counts inbound state reports by outcome.
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound vehicle state reports by result.",
		},
		[]string{"result"}, // accepted/filtered/unknown_node/invalid
	)

	// AnnouncesTotal counts node announcements that changed the directory.
	AnnouncesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announces_total",
			Help:      "Node announcements that changed the node directory.",
		},
	)

	// FlushesTotal counts per-vehicle writes.
	FlushesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushes_total",
			Help:      "Per-vehicle writes by writer and result.",
		},
		[]string{"writer", "result"}, // writer: display/archive/history
	)

	// FlushDuration records how long a whole periodic flush took.
	FlushDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flush_duration_seconds",
			Help:      "Duration of periodic flushes by writer.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"writer"},
	)

	// RotationsTotal counts archive file rotations.
	RotationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Archive file rotations.",
		},
	)

	// UploadsTotal counts uploads of rotated archive files.
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads of rotated archive files by result.",
		},
		[]string{"result"},
	)

	// HeartbeatsTotal counts heartbeats published to tracked vehicles.
	HeartbeatsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heartbeats_total",
			Help:      "Heartbeats published by result.",
		},
		[]string{"result"},
	)

	// BufferedObservations is the number of observations held per buffer.
	BufferedObservations = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffered_observations",
			Help:      "Observations currently held in memory by buffer.",
		},
		[]string{"buffer"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		MessagesTotal,
		AnnouncesTotal,
		FlushesTotal,
		FlushDuration,
		RotationsTotal,
		UploadsTotal,
		HeartbeatsTotal,
		BufferedObservations,
	)
}

// ObserveFlush records the duration of a flush started at start.
func ObserveFlush(writer string, start time.Time) {
	FlushDuration.WithLabelValues(writer).Observe(time.Since(start).Seconds())
}

// Result maps an error to ResultSuccess or ResultFailed.
func Result(err error) string {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}
