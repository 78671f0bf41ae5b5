package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	databaseSizeBytes prometheus.Gauge
	compactionCount   prometheus.Gauge
	compactionRunning prometheus.Gauge
)

func configureDatabase() {

	databaseSizeBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "votereward",
			Subsystem: "database",
			Name:      "size_bytes",
			Help:      "Database size in bytes.",
		})

	compactionCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "votereward",
			Subsystem: "database",
			Name:      "compaction_count",
			Help:      "The total amount of database compactions.",
		},
	)

	compactionRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "votereward",
		Subsystem: "database",
		Name:      "compaction_running",
		Help:      "Current state of database compaction process.",
	})

	registry.MustRegister(databaseSizeBytes)
	registry.MustRegister(compactionCount)
	registry.MustRegister(compactionRunning)

	addCollect(collectDatabase)
}

func collectDatabase() {
	databaseSizeBytes.Set(0)
	if dbSize, err := deps.Database.Size(); err == nil {
		databaseSizeBytes.Set(float64(dbSize))
	}

	compactionCount.Set(float64(deps.DatabaseMetrics.CompactionCount.Load()))

	compactionRunning.Set(0)
	if deps.Database.CompactionRunning() {
		compactionRunning.Set(1)
	}
}
