package database

import (
	"github.com/gohornet/votereward/pkg/database"
	"github.com/gohornet/votereward/pkg/metrics"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore/pebble"
)

func newPebble(path string, dbMetrics *metrics.DatabaseMetrics) *database.Database {

	dbEvents := &database.Events{
		DatabaseCompaction: events.NewEvent(database.CompactionCaller),
	}

	reportCompactionRunning := func(running bool) {
		dbMetrics.CompactionStateChanged(running)
		dbEvents.DatabaseCompaction.Trigger(running)
	}

	db, err := database.NewPebbleDB(path, reportCompactionRunning, true)
	if err != nil {
		CorePlugin.LogPanicf("pebble database initialization failed: %s", err)
	}

	return database.New(
		path,
		pebble.New(db),
		database.EnginePebble,
		dbEvents,
		true,
		dbMetrics.CompactionRunning.Load,
	)
}
