package observability

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/pgpextract/internal/protocol/packet"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	packetsWalked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pgpextract",
			Subsystem: "walk",
			Name:      "packets_total",
			Help:      "Packets decoded, by tag and header format.",
		},
		[]string{"tag", "format"},
	)
	bodyBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pgpextract",
			Subsystem: "walk",
			Name:      "body_bytes_total",
			Help:      "Packet body bytes walked.",
		},
	)
	walkRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pgpextract",
			Subsystem: "walk",
			Name:      "runs_total",
			Help:      "Completed walks, by outcome.",
		},
		[]string{"outcome"},
	)
	walkDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pgpextract",
			Subsystem: "walk",
			Name:      "duration_seconds",
			Help:      "Walk duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	artifactsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pgpextract",
			Subsystem: "sink",
			Name:      "artifacts_total",
			Help:      "Artifact writes, by sink and kind.",
		},
		[]string{"sink", "kind", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packetsWalked, bodyBytes, walkRuns, walkDuration, artifactsWritten)
	})
}

func RecordPacket(p packet.Packet) {
	RegisterMetrics()
	packetsWalked.WithLabelValues(strconv.Itoa(int(p.Tag)), p.Format.String()).Inc()
	bodyBytes.Add(float64(len(p.Body)))
}

func RecordArtifact(sink, kind string, success bool) {
	RegisterMetrics()
	artifactsWritten.WithLabelValues(sink, kind, strconv.FormatBool(success)).Inc()
}

func RecordWalk(duration time.Duration, err error) {
	RegisterMetrics()
	walkRuns.WithLabelValues(Outcome(err)).Inc()
	walkDuration.Observe(duration.Seconds())
}

// Outcome maps a walk error to a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, packet.ErrPartialLength):
		return "partial_length"
	case errors.Is(err, packet.ErrReservedLength):
		return "reserved_length"
	case errors.Is(err, packet.ErrTruncated):
		return "truncated"
	case errors.Is(err, packet.ErrMalformed):
		return "malformed"
	default:
		return "sink_error"
	}
}

// WriteTextfile dumps the default registry in the node_exporter textfile
// format.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
