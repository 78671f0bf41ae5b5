package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	infoApp         *prometheus.GaugeVec
	infoInitialized prometheus.Gauge
	infoNextVoteID  prometheus.Gauge
)

func configureInfo() {
	infoApp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "votereward_info_app",
			Help: "Node software name and version.",
		},
		[]string{"name", "version"},
	)
	infoInitialized = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "votereward_info_registry_initialized",
		Help: "Whether the vote registry is initialized.",
	})
	infoNextVoteID = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "votereward_info_next_vote_id",
		Help: "The id the next created vote gets.",
	})

	infoApp.WithLabelValues(deps.AppInfo.Name, deps.AppInfo.Version).Set(1)

	registry.MustRegister(infoApp)
	registry.MustRegister(infoInitialized)
	registry.MustRegister(infoNextVoteID)

	addCollect(collectInfo)
}

func collectInfo() {
	infoInitialized.Set(0)
	if deps.Registry.IsInitialized() {
		infoInitialized.Set(1)
	}
	infoNextVoteID.Set(float64(deps.Registry.NextID()))
}
