package indexer

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/utils"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/logger"
)

const (
	dbFileName = "indexer.db"
)

var (
	ErrNotFound = errors.New("not found for given filter")
)

// Indexer keeps a queryable history of votes, submissions and payouts in sqlite.
type Indexer struct {
	*utils.WrappedLogger

	db *gorm.DB
}

// NewIndexer opens the index in the given directory, an empty path keeps it in memory.
func NewIndexer(dbPath string, log *logger.Logger) (*Indexer, error) {

	dsn := "file::memory:"
	if dbPath != "" {
		if err := utils.CreateDirectory(dbPath, 0700); err != nil {
			return nil, err
		}
		dsn = filepath.Join(dbPath, dbFileName)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite does not support concurrent writers, an in-memory database exists per connection.
	sqlDB.SetMaxOpenConns(1)

	// Create the tables and indexes if needed
	if err := db.AutoMigrate(&status{}, &voteRecord{}, &submissionRecord{}, &payoutRecord{}, &sweepFailureRecord{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate indexer tables")
	}

	return &Indexer{
		WrappedLogger: utils.NewWrappedLogger(log),
		db:            db,
	}, nil
}

// in a transaction that also bumps the event counter.
func (i *Indexer) apply(f func(tx *gorm.DB) error) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		if err := f(tx); err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"event_count": gorm.Expr("event_count + 1")}),
		}).Create(&status{ID: 1, EventCount: 1}).Error
	})
}

// ApplyVote stores the latest snapshot of a vote.
func (i *Indexer) ApplyVote(info *vote.VoteInfo) error {
	return i.apply(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(newVoteRecord(info)).Error
	})
}

// ApplySubmission stores an accepted submission.
func (i *Indexer) ApplySubmission(event *vote.SubmissionEvent) error {
	return i.apply(func(tx *gorm.DB) error {
		return tx.Create(&submissionRecord{
			VoteID:    event.VoteID,
			Voter:     event.Submission.Voter.String(),
			OptionIdx: event.Submission.OptionIdx,
			Timestamp: event.Submission.Timestamp,
		}).Error
	})
}

// ApplyPayout stores a transfer out of an escrow.
func (i *Indexer) ApplyPayout(event *vote.PayoutEvent) error {
	return i.apply(func(tx *gorm.DB) error {
		return tx.Create(&payoutRecord{
			VoteID:    event.VoteID,
			Recipient: event.Payout.Recipient.String(),
			Token:     event.Token,
			Kind:      event.Payout.Kind.String(),
			Amount:    event.Payout.Amount,
			Timestamp: event.Payout.Timestamp,
		}).Error
	})
}

// ApplySweepFailure stores a failed finalization of an expired vote.
func (i *Indexer) ApplySweepFailure(failure *vote.SweepFailure) error {
	return i.apply(func(tx *gorm.DB) error {
		return tx.Create(&sweepFailureRecord{
			VoteID: failure.VoteID,
			Error:  failure.Error.Error(),
		}).Error
	})
}

// Attach indexes the events of the registry.
func (i *Indexer) Attach(voteEvents *vote.Events) {
	logOnError := func(what string, err error) {
		if err != nil {
			i.LogErrorf("indexing %s failed: %s", what, err)
		}
	}

	onVote := events.NewClosure(func(info *vote.VoteInfo) {
		logOnError("vote", i.ApplyVote(info))
	})
	voteEvents.VoteCreated.Attach(onVote)
	voteEvents.VoteEdited.Attach(onVote)
	voteEvents.VoteFinalized.Attach(onVote)

	voteEvents.VoteSubmitted.Attach(events.NewClosure(func(event *vote.SubmissionEvent) {
		logOnError("submission", i.ApplySubmission(event))
	}))

	onPayout := events.NewClosure(func(event *vote.PayoutEvent) {
		logOnError("payout", i.ApplyPayout(event))
	})
	voteEvents.RewardPaid.Attach(onPayout)
	voteEvents.EscrowRefunded.Attach(onPayout)

	voteEvents.SweepFailed.Attach(events.NewClosure(func(failure *vote.SweepFailure) {
		logOnError("sweep failure", i.ApplySweepFailure(failure))
	}))
}

// EventCount returns the number of indexed events.
func (i *Indexer) EventCount() (uint64, error) {
	status := &status{}
	if err := i.db.Take(status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return status.EventCount, nil
}

func (i *Indexer) CloseDatabase() error {
	sqlDB, err := i.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
