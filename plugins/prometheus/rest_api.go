package prometheus

import (
	echoprometheus "github.com/labstack/echo-contrib/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	restapiHTTPRequestCount  prometheus.Gauge
	restapiHTTPErrorCount    prometheus.Gauge
	restapiHTTPRejectedCount prometheus.Gauge
)

func configureRestAPI() {
	restapiHTTPRequestCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "votereward",
			Subsystem: "restapi",
			Name:      "http_requests",
			Help:      "The amount of handled HTTP requests.",
		},
	)

	restapiHTTPErrorCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "votereward",
			Subsystem: "restapi",
			Name:      "http_request_errors",
			Help:      "The amount of encountered HTTP request errors.",
		},
	)

	restapiHTTPRejectedCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "votereward",
			Subsystem: "restapi",
			Name:      "http_requests_rejected",
			Help:      "The amount of HTTP requests rejected with a client error.",
		},
	)

	registry.MustRegister(restapiHTTPRequestCount)
	registry.MustRegister(restapiHTTPErrorCount)
	registry.MustRegister(restapiHTTPRejectedCount)

	addCollect(collectRestAPI)

	if deps.Echo != nil {
		p := echoprometheus.NewPrometheus("votereward_restapi", nil)
		for _, m := range p.MetricsList {
			registry.MustRegister(m.MetricCollector)
		}
		deps.Echo.Use(p.HandlerFunc)
	}
}

func collectRestAPI() {
	restapiHTTPRequestCount.Set(float64(deps.RestAPIMetrics.HTTPRequestCounter.Load()))
	restapiHTTPErrorCount.Set(float64(deps.RestAPIMetrics.HTTPRequestErrorCounter.Load()))
	restapiHTTPRejectedCount.Set(float64(deps.RestAPIMetrics.HTTPRequestRejectedCounter.Load()))
}
