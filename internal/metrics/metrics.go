package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the counters.
const (
	ResultOK           = "ok"
	ResultNetworkError = "network_error"
	ResultDecodeError  = "decode_error"
	ResultStoreError   = "store_error"
)

// Metrics bundles the collectors the service exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	EnvironmentFetches *prometheus.CounterVec
	ChatRequests       *prometheus.CounterVec
	RequestLatency     *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		EnvironmentFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "environment_fetches_total",
			Help:      "Environmental fetch-and-store calls by outcome.",
		}, []string{"result"}),
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triage",
			Name:      "chat_requests_total",
			Help:      "Chat endpoint calls by mode and outcome.",
		}, []string{"mode", "result"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "triage",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{m.EnvironmentFetches, m.ChatRequests, m.RequestLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveFetch(result string) {
	if m == nil {
		return
	}
	m.EnvironmentFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveChat(mode, result string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(method, route, status).Observe(took.Seconds())
}
