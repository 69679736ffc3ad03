package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatRequests counts chat calls, labeled by provider id and outcome.
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitchat_chat_requests_total",
		Help: "The total number of chat calls sent to a provider",
	}, []string{"provider", "outcome"}) // outcome: success, error

	// ChatDuration measures the round trip of a chat call.
	ChatDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fitchat_chat_duration_seconds",
		Help:    "Time taken by the provider to answer a chat call",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	// ProbeResults counts local server probes, labeled by result.
	ProbeResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitchat_ollama_probes_total",
		Help: "The total number of local Ollama server probes",
	}, []string{"result"}) // result: ok, empty, status, unreachable, error
)
