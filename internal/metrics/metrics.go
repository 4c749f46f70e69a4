package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Draw Metrics
var (
	DrawsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrawsResolved,
			Help: HelpTextDrawsResolved,
		},
		[]string{LabelPool},
	)

	PityTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePityTriggers,
			Help: HelpTextPityTriggers,
		},
		[]string{LabelPool, LabelTier},
	)

	AdmissionRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAdmissionRejected,
			Help: HelpTextAdmissionRejected,
		},
		[]string{LabelPool, LabelReason},
	)

	CommitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameCommitDuration,
			Help:    HelpTextCommitDuration,
			Buckets: CommitLatencyBuckets,
		},
	)

	CommitFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCommitFailures,
			Help: HelpTextCommitFailures,
		},
	)

	GrantsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGrantsCommitted,
			Help: HelpTextGrantsCommitted,
		},
		[]string{LabelKind},
	)
)
