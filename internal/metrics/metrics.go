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

	RequestsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRequestsThrottled,
			Help: HelpTextRequestsThrottled,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Reveal Metrics
var (
	RevealSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRevealSessions,
			Help: HelpTextRevealSessions,
		},
		[]string{LabelMode, LabelResult},
	)

	RevealDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameRevealDuration,
			Help:    HelpTextRevealDuration,
			Buckets: RevealDurationBuckets,
		},
		[]string{LabelMode},
	)

	RevealFaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRevealFaults,
			Help: HelpTextRevealFaults,
		},
		[]string{LabelMode, LabelKind},
	)

	SectorMismatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSectorMismatches,
			Help: HelpTextSectorMismatches,
		},
		[]string{LabelPolicy},
	)

	ActiveWidgets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveWidgets,
			Help: HelpTextActiveWidgets,
		},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameProviderRequests,
			Help: HelpTextProviderRequests,
		},
		[]string{LabelResult},
	)

	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEClients,
			Help: HelpTextSSEClients,
		},
	)
)
