package shutdown

// Please add the dependencies if you add your own priority here.
// Otherwise investigating deadlocks at shutdown is much more complicated.

const (
	// no dependencies
	PriorityCloseDatabase = iota
	// depends on PriorityCloseDatabase
	PriorityCloseLedger
	// depends on PriorityCloseLedger
	PriorityCloseRegistry
	// depends on PriorityCloseRegistry, triggered by registry events
	PriorityIndexer
	// depends on PriorityCloseRegistry
	PriorityVoteSweeper
	// triggered by registry events
	PriorityMQTTBroker
	// depends on PriorityCloseRegistry
	PriorityRestAPI
	PriorityPrometheus
)
