package database

import (
	"github.com/gohornet/votereward/pkg/utils"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore"
)

type Engine string

const (
	EngineUnknown Engine = "unknown"
	EnginePebble  Engine = "pebble"
	EngineMapDB   Engine = "mapdb"
)

func CompactionCaller(handler interface{}, params ...interface{}) {
	handler.(func(bool))(params[0].(bool))
}

type Events struct {
	DatabaseCompaction *events.Event
}

// New creates a new Database instance.
func New(databaseDirectory string, kvStore kvstore.KVStore, engine Engine, events *Events, compactionSupported bool, compactionRunningFunc func() bool) *Database {
	return &Database{
		databaseDir:           databaseDirectory,
		store:                 kvStore,
		engine:                engine,
		events:                events,
		compactionSupported:   compactionSupported,
		compactionRunningFunc: compactionRunningFunc,
	}
}

// Database holds the underlying KVStore and database specific functions.
type Database struct {
	databaseDir           string
	store                 kvstore.KVStore
	engine                Engine
	events                *Events
	compactionSupported   bool
	compactionRunningFunc func() bool
}

// KVStore returns the underlying KVStore.
func (db *Database) KVStore() kvstore.KVStore {
	return db.store
}

// Engine returns the engine of the database.
func (db *Database) Engine() Engine {
	return db.engine
}

// Events returns the events of the database.
func (db *Database) Events() *Events {
	return db.events
}

// CompactionSupported returns whether the database engine supports compaction.
func (db *Database) CompactionSupported() bool {
	return db.compactionSupported
}

// CompactionRunning returns whether a compaction is running.
func (db *Database) CompactionRunning() bool {
	if db.compactionRunningFunc == nil {
		return false
	}
	return db.compactionRunningFunc()
}

// Size returns the size of the database folder in bytes.
func (db *Database) Size() (int64, error) {
	if db.databaseDir == "" {
		return 0, nil
	}
	return utils.FolderSize(db.databaseDir)
}

// Close flushes and closes the underlying store.
func (db *Database) Close() error {
	if err := db.store.Flush(); err != nil {
		return err
	}
	return db.store.Close()
}
