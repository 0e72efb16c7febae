package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oaistruct_http_requests_total",
		Help: "Total number of HTTP requests to the structure API",
	}, []string{"method", "path", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "oaistruct_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oaistruct_fetch_total",
		Help: "OAI-PMH GetRecord requests by outcome",
	}, []string{"outcome"})

	StructuresResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oaistruct_structures_resolved_total",
		Help: "Structural elements resolved from fetched records",
	})
)

// Fetch outcomes.
const (
	FetchOK        = "ok"
	FetchTransport = "transport_error"
	FetchMalformed = "malformed_xml"
	FetchOAIError  = "oai_error"
	FetchOther     = "other"
)
