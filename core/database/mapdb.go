package database

import (
	"github.com/gohornet/votereward/pkg/database"
	"github.com/gohornet/votereward/pkg/metrics"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

func newMapDB(dbMetrics *metrics.DatabaseMetrics) *database.Database {

	dbEvents := &database.Events{
		DatabaseCompaction: events.NewEvent(database.CompactionCaller),
	}

	return database.New(
		"",
		mapdb.NewMapDB(),
		database.EngineMapDB,
		dbEvents,
		false,
		dbMetrics.CompactionRunning.Load,
	)
}
