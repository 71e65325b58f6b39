package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mvbot", Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mvbot", Name: "handler_errors_total", Help: "Handler errors",
	})
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvbot", Name: "upstream_requests_total", Help: "Upstream API requests by status code",
	}, []string{"api", "code"})
	UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mvbot", Name: "upstream_request_seconds", Help: "Upstream API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"api"})
	FetchRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mvbot", Name: "fetch_retries_total", Help: "Fetch retry attempts",
	}, []string{"api"})
	UpstreamUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mvbot", Name: "upstream_up", Help: "Last upstream probe result (1 — ok)",
	}, []string{"api"})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, UpstreamRequests, UpstreamLatency, FetchRetries, UpstreamUp)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveUpstream(api string, code int, d time.Duration) {
	UpstreamRequests.WithLabelValues(api, strconv.Itoa(code)).Inc()
	UpstreamLatency.WithLabelValues(api).Observe(d.Seconds())
}

func IncFetchRetry(api string) { FetchRetries.WithLabelValues(api).Inc() }

func SetUpstreamUp(api string, ok bool) {
	v := 0.0
	if ok {
		v = 1.0
	}
	UpstreamUp.WithLabelValues(api).Set(v)
}
