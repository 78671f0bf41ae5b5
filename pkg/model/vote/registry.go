package vote

import (
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/database"
	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/utils"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/logger"
	"github.com/iotaledger/hive.go/syncutils"
)

const (
	// DBVersion is the version of the vote store layout.
	DBVersion byte = 1
)

// ProtocolConfig holds the process wide settings of the registry.
type ProtocolConfig struct {
	Admin account.Principal
}

// the default options applied to the Registry.
var defaultOptions = []Option{
	WithClock(SystemClock{}),
}

// Options define options for the Registry.
type Options struct {
	logger   *logger.Logger
	clock    Clock
	deployer account.Principal

	autoRevalidation bool
}

// applies the given Option.
func (so *Options) apply(opts ...Option) {
	for _, opt := range opts {
		opt(so)
	}
}

// WithLogger enables logging within the registry.
func WithLogger(logger *logger.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithClock sets the time source of the registry.
func WithClock(clock Clock) Option {
	return func(opts *Options) {
		opts.clock = clock
	}
}

// WithDeployer sets the only principal allowed to initialize the registry.
func WithDeployer(deployer account.Principal) Option {
	return func(opts *Options) {
		opts.deployer = deployer
	}
}

// WithAutoRevalidation lets the registry start on a store that was not shut down properly,
// as long as every escrow balance in the ledger matches the accounting of its vote.
func WithAutoRevalidation(autoRevalidation bool) Option {
	return func(opts *Options) {
		opts.autoRevalidation = autoRevalidation
	}
}

// Option is a function setting a registry option.
type Option func(opts *Options)

// Registry holds all votes and executes every state changing operation on them.
// All operations are serialized by the registry lock, and either commit completely
// (ledger, store and memory) or fail without any observable change.
type Registry struct {
	// lock used to serialize all operations.
	syncutils.RWMutex
	// taken before the operation lock is released, so events are fired in commit order.
	eventsLock syncutils.Mutex
	*utils.WrappedLogger

	// holds the Registry options.
	opts *Options

	store       kvstore.KVStore
	storeHealth *database.StoreHealthTracker
	ledger      Ledger

	config      *ProtocolConfig
	votes       []*Vote
	escrows     map[account.Principal]uint64
	voterLedger *VoterLedger

	Events *Events
}

// NewRegistry creates a new Registry and loads the persisted state from the store.
func NewRegistry(store kvstore.KVStore, ledger Ledger, opts ...Option) (*Registry, error) {

	options := &Options{}
	options.apply(defaultOptions...)
	options.apply(opts...)

	storeHealth, err := database.NewStoreHealthTracker(store, DBVersion)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		WrappedLogger: utils.NewWrappedLogger(options.logger),
		opts:          options,
		store:         store,
		storeHealth:   storeHealth,
		ledger:        ledger,
		escrows:       make(map[account.Principal]uint64),
		Events:        newEvents(),
	}

	if err := r.load(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) load() error {

	corrupted, err := r.storeHealth.IsCorrupted()
	if err != nil {
		return err
	}
	if corrupted {
		if !r.opts.autoRevalidation {
			return ErrVoteCorruptedStorage
		}
		r.LogWarn("vote database was not shut down properly, revalidating escrows against the ledger")
	}

	correctDatabaseVersion, err := r.storeHealth.CheckCorrectDatabaseVersion()
	if err != nil {
		return err
	}
	if !correctDatabaseVersion {
		return errors.New("vote database version mismatch. The database scheme was updated. Please delete the database folder.")
	}

	if r.config, err = r.loadConfig(); err != nil {
		return errors.Wrap(err, "failed to load protocol config")
	}

	nextID, err := r.loadNextID()
	if err != nil {
		return errors.Wrap(err, "failed to load next vote id")
	}

	if r.votes, err = r.loadVotes(nextID); err != nil {
		return errors.Wrap(err, "failed to load votes")
	}
	for _, v := range r.votes {
		r.escrows[v.Escrow()] = v.ID
	}

	if r.voterLedger, err = r.loadVoterLedger(); err != nil {
		return errors.Wrap(err, "failed to load voter ledger")
	}

	if corrupted {
		if err := r.revalidate(); err != nil {
			return err
		}
	}

	r.LogInfof("loaded %d votes, %d voters", len(r.votes), r.voterLedger.VoterCount())

	// Mark the database as corrupted here and as clean when we shut it down
	return r.storeHealth.MarkCorrupted()
}

// revalidate checks that the ledger holds exactly the escrow balance every vote accounts for.
func (r *Registry) revalidate() error {
	for _, v := range r.votes {
		balance, err := r.ledger.Balance(v.Escrow(), v.Token)
		if err != nil {
			return err
		}

		expected := v.Deposited - v.Paid - v.Refunded - v.Withdrawn
		if balance != expected {
			return errors.WithMessagef(ErrVoteCorruptedStorage, "escrow of vote %d holds %d %s, expected %d", v.ID, balance, v.Token, expected)
		}
	}
	return nil
}

// CloseDatabase marks the store as healthy. Closing the store is up to its owner.
func (r *Registry) CloseDatabase() error {
	r.Lock()
	defer r.Unlock()

	var flushError error
	if err := r.storeHealth.MarkHealthy(); err != nil {
		flushError = err
	}
	if err := r.store.Flush(); err != nil {
		flushError = err
	}
	return flushError
}

// execute runs a state changing operation under the registry lock and fires the
// events it collected once the lock is released. Events of different operations
// are never interleaved and keep the order the operations were committed in.
// Event handlers must not call state changing operations of the registry.
func (r *Registry) execute(op func() ([]func(), error)) error {
	r.Lock()
	locked := true
	defer func() {
		if locked {
			r.Unlock()
		}
	}()

	pending, err := op()
	if err != nil {
		return err
	}

	r.eventsLock.Lock()
	defer r.eventsLock.Unlock()

	r.Unlock()
	locked = false

	for _, trigger := range pending {
		trigger()
	}
	return nil
}

// checkNoEscrow refuses escrow accounts as actors, funds leave an escrow only through its vote.
func (r *Registry) checkNoEscrow(principal account.Principal) error {
	if voteID, exists := r.escrows[principal]; exists {
		return errors.WithMessagef(ErrPermissionDenied, "%s is the escrow of vote %d", principal, voteID)
	}
	return nil
}

// isKnownActor tells whether the principal already created, administrates or submitted to a vote.
func (r *Registry) isKnownActor(principal account.Principal) bool {
	if r.config != nil && r.config.Admin == principal {
		return true
	}
	if r.voterLedger.HasAnySubmission(principal) {
		return true
	}
	for _, v := range r.votes {
		if v.Creator == principal {
			return true
		}
	}
	return false
}

func (r *Registry) vote(voteID uint64) (*Vote, error) {
	if voteID >= uint64(len(r.votes)) {
		return nil, errors.WithMessagef(ErrVoteNotFound, "id %d", voteID)
	}
	return r.votes[voteID], nil
}

// commit executes the transfers of an operation and persists its state changes.
// If anything fails, the executed transfers are reverted.
func (r *Registry) commit(mutations kvstore.BatchedMutations, journal *transferJournal, transfers func() error) error {
	if err := transfers(); err != nil {
		mutations.Cancel()
		if revertErr := journal.revert(); revertErr != nil {
			r.LogErrorf("reverting transfers failed, ledger and votes diverged: %s", revertErr)
			return errors.Wrap(revertErr, "reverting transfers failed")
		}
		return err
	}

	if err := mutations.Commit(); err != nil {
		if revertErr := journal.revert(); revertErr != nil {
			r.LogErrorf("reverting transfers failed, ledger and votes diverged: %s", revertErr)
			return errors.Wrap(revertErr, "reverting transfers failed")
		}
		return errors.Wrap(err, "failed to store vote state")
	}
	return nil
}

// Init creates the protocol config with the caller as admin.
// Only the deployer can initialize, and only once.
func (r *Registry) Init(caller account.Principal) error {
	r.Lock()
	defer r.Unlock()

	if r.config != nil {
		return ErrAlreadyInitialized
	}
	if r.opts.deployer.IsNull() || caller != r.opts.deployer {
		return errors.WithMessagef(ErrAlreadyInitialized, "%s is not the deployer", caller)
	}

	config := &ProtocolConfig{Admin: caller}

	mutations := r.store.Batched()
	if err := storeConfig(config, mutations); err != nil {
		mutations.Cancel()
		return err
	}
	if err := storeNextID(0, mutations); err != nil {
		mutations.Cancel()
		return err
	}
	if err := mutations.Commit(); err != nil {
		return errors.Wrap(err, "failed to store protocol config")
	}

	r.config = config
	r.LogInfof("registry initialized, admin %s", caller)
	return nil
}

// IsInitialized tells whether Init was called.
func (r *Registry) IsInitialized() bool {
	r.RLock()
	defer r.RUnlock()
	return r.config != nil
}

// Admin returns the current admin.
func (r *Registry) Admin() (account.Principal, error) {
	r.RLock()
	defer r.RUnlock()

	if r.config == nil {
		return account.NullPrincipal, ErrNotInitialized
	}
	return r.config.Admin, nil
}

// SetAdmin hands the admin role to another principal.
func (r *Registry) SetAdmin(caller account.Principal, newAdmin account.Principal) error {
	return r.execute(func() ([]func(), error) {
		if r.config == nil {
			return nil, ErrNotInitialized
		}
		if caller != r.config.Admin {
			return nil, errors.WithMessagef(ErrPermissionDenied, "%s is not the admin", caller)
		}
		if err := r.checkNoEscrow(newAdmin); err != nil {
			return nil, err
		}

		config := &ProtocolConfig{Admin: newAdmin}

		mutations := r.store.Batched()
		if err := storeConfig(config, mutations); err != nil {
			mutations.Cancel()
			return nil, err
		}
		if err := mutations.Commit(); err != nil {
			return nil, errors.Wrap(err, "failed to store protocol config")
		}

		change := &AdminChange{Previous: r.config.Admin, Admin: newAdmin}
		r.config = config

		r.LogInfof("admin changed from %s to %s", change.Previous, change.Admin)
		return []func(){
			func() { r.Events.AdminChanged.Trigger(change) },
		}, nil
	})
}

// NextID returns the id the next created vote must have.
func (r *Registry) NextID() uint64 {
	r.RLock()
	defer r.RUnlock()
	return uint64(len(r.votes))
}

// IsEscrowAccount tells whether the principal is the escrow of a vote.
func (r *Registry) IsEscrowAccount(principal account.Principal) bool {
	r.RLock()
	defer r.RUnlock()
	_, exists := r.escrows[principal]
	return exists
}

// CreateVote creates a vote funded by the caller. The whole reward pool is moved
// from the caller into the vote's escrow. Afterwards all expired votes are finalized.
func (r *Registry) CreateVote(caller account.Principal, voteID uint64, params *Parameters) error {
	return r.execute(func() ([]func(), error) {
		return r.createVote(caller, voteID, params)
	})
}

func (r *Registry) createVote(caller account.Principal, voteID uint64, params *Parameters) ([]func(), error) {
	if r.config == nil {
		return nil, ErrNotInitialized
	}

	nextID := uint64(len(r.votes))
	if voteID != nextID {
		return nil, errors.WithMessagef(ErrInvalidRequest, "vote id %d, expected %d", voteID, nextID)
	}

	if err := r.checkNoEscrow(caller); err != nil {
		return nil, err
	}

	total, err := params.Validate()
	if err != nil {
		return nil, err
	}

	e := newEscrow(caller, voteID, params.Token)
	if r.isKnownActor(e.principal) {
		return nil, errors.WithMessagef(ErrInvalidRequest, "escrow %s of vote %d is already in use", e.principal, voteID)
	}

	// funds sent to the escrow before the vote existed belong to the reward pool
	prefunded, err := r.ledger.Balance(e.principal, params.Token)
	if err != nil {
		return nil, err
	}

	balance, err := r.ledger.Balance(caller, params.Token)
	if err != nil {
		return nil, err
	}
	if balance < total {
		return nil, errors.WithMessagef(ErrInsufficientBalance, "%s has %d, needs %d", caller, balance, total)
	}

	now := r.opts.clock.Now()

	v := &Vote{
		ID:               voteID,
		Creator:          caller,
		Title:            params.Title,
		StartAt:          params.StartAt,
		EndAt:            params.EndAt,
		Policy:           params.Policy,
		Token:            params.Token,
		RewardPerPerson:  params.RewardPerPerson,
		RewardMaxWinners: params.RewardMaxWinners,
		Options:          optionRecords(params.Options),
		Deposited:        total + prefunded,
		escrow:           e,
	}
	v.rebuildOptionIndex()

	mutations := r.store.Batched()
	if err := storeVote(v, mutations); err != nil {
		mutations.Cancel()
		return nil, err
	}
	if err := storeNextID(nextID+1, mutations); err != nil {
		mutations.Cancel()
		return nil, err
	}

	journal := newTransferJournal(r.ledger, v.Token)
	if err := r.commit(mutations, journal, func() error {
		return journal.deposit(v.escrow, caller, total)
	}); err != nil {
		return nil, err
	}

	r.votes = append(r.votes, v)
	r.escrows[v.Escrow()] = v.ID

	r.LogInfof("vote %d created by %s, escrowed %s %s", v.ID, caller, utils.FormatAmount(total), v.Token)
	if prefunded > 0 {
		r.LogWarnf("escrow of vote %d already held %s %s, added to the reward pool", v.ID, utils.FormatAmount(prefunded), v.Token)
	}

	info := newVoteInfo(v, v.Deposited, now)
	pending := []func(){
		func() { r.Events.VoteCreated.Trigger(info) },
	}

	// the new vote is committed, sweep failures do not affect it.
	return append(pending, r.sweepExpiredVotes(now)...), nil
}

// EditVote replaces the fields of a vote that did not start yet. The difference of the
// reward pool is moved between the caller and the escrow. All tallies are reset.
func (r *Registry) EditVote(caller account.Principal, voteID uint64, params *Parameters) error {
	return r.execute(func() ([]func(), error) {
		return r.editVote(caller, voteID, params)
	})
}

func (r *Registry) editVote(caller account.Principal, voteID uint64, params *Parameters) ([]func(), error) {
	if r.config == nil {
		return nil, ErrNotInitialized
	}

	v, err := r.vote(voteID)
	if err != nil {
		return nil, err
	}

	if caller != v.Creator && caller != r.config.Admin {
		return nil, errors.WithMessagef(ErrPermissionDenied, "%s is neither creator nor admin of vote %d", caller, voteID)
	}
	if err := r.checkNoEscrow(caller); err != nil {
		return nil, err
	}

	now := r.opts.clock.Now()
	if !v.IsEditable(now) {
		return nil, errors.WithMessagef(ErrAlreadyStarted, "vote %d started at %d", voteID, v.StartAt)
	}

	if params.Token != v.Token {
		return nil, errors.WithMessagef(ErrInvalidRequest, "the reward token of vote %d can not change", voteID)
	}

	newTotal, err := params.Validate()
	if err != nil {
		return nil, err
	}
	oldTotal := v.RewardTotal()

	updated := v.Clone()
	updated.Title = params.Title
	updated.StartAt = params.StartAt
	updated.EndAt = params.EndAt
	updated.Policy = params.Policy
	updated.RewardPerPerson = params.RewardPerPerson
	updated.RewardMaxWinners = params.RewardMaxWinners
	updated.Options = optionRecords(params.Options)
	updated.rebuildOptionIndex()

	mutations := r.store.Batched()
	journal := newTransferJournal(r.ledger, v.Token)

	var withdrawal *Payout
	var transfers func() error

	switch {
	case newTotal > oldTotal:
		diff := newTotal - oldTotal
		balance, err := r.ledger.Balance(caller, v.Token)
		if err != nil {
			return nil, err
		}
		if balance < diff {
			return nil, errors.WithMessagef(ErrInsufficientBalance, "%s has %d, needs %d", caller, balance, diff)
		}
		updated.Deposited += diff
		transfers = func() error { return journal.deposit(v.escrow, caller, diff) }

	case newTotal < oldTotal:
		withdrawal = &Payout{
			Recipient: caller,
			Amount:    oldTotal - newTotal,
			Kind:      PayoutKindWithdrawal,
			Timestamp: now,
		}
		if err := storePayout(v.ID, uint64(len(updated.Payouts)), withdrawal, mutations); err != nil {
			mutations.Cancel()
			return nil, err
		}
		updated.applyPayout(withdrawal)
		transfers = func() error { return journal.release(v.escrow, caller, withdrawal.Amount) }

	default:
		transfers = func() error { return nil }
	}

	if err := storeVote(updated, mutations); err != nil {
		mutations.Cancel()
		return nil, err
	}

	if err := r.commit(mutations, journal, transfers); err != nil {
		return nil, err
	}

	r.votes[voteID] = updated

	r.LogInfof("vote %d edited by %s, reward pool %s -> %s %s", voteID, caller, utils.FormatAmount(oldTotal), utils.FormatAmount(newTotal), v.Token)

	info := newVoteInfo(updated, updated.Deposited-updated.Withdrawn, now)
	pending := []func(){
		func() { r.Events.VoteEdited.Trigger(info) },
	}
	if withdrawal != nil {
		payoutEvent := &PayoutEvent{VoteID: voteID, Token: v.Token, Payout: withdrawal}
		pending = append(pending, func() { r.Events.EscrowRefunded.Trigger(payoutEvent) })
	}
	return pending, nil
}

// SubmitVote records the voter's choice. FIFO votes pay the voter right away
// as long as the cap of rewarded voters is not reached.
func (r *Registry) SubmitVote(voter account.Principal, voteID uint64, optionIdx uint64) error {
	return r.execute(func() ([]func(), error) {
		return r.submitVote(voter, voteID, optionIdx)
	})
}

func (r *Registry) submitVote(voter account.Principal, voteID uint64, optionIdx uint64) ([]func(), error) {
	if r.config == nil {
		return nil, ErrNotInitialized
	}

	v, err := r.vote(voteID)
	if err != nil {
		return nil, err
	}

	if err := r.checkNoEscrow(voter); err != nil {
		return nil, err
	}

	if r.voterLedger.HasSubmitted(voter, voteID) {
		return nil, errors.WithMessagef(ErrAlreadyVoted, "%s on vote %d", voter, voteID)
	}

	if optionIdx >= uint64(len(v.Options)) {
		return nil, errors.WithMessagef(ErrInvalidOptionIdx, "%d, vote %d has %d options", optionIdx, voteID, len(v.Options))
	}

	now := r.opts.clock.Now()
	if now < v.StartAt {
		return nil, errors.WithMessagef(ErrInvalidStartTime, "vote %d starts at %d", voteID, v.StartAt)
	}
	if v.Finalized || now > v.EndAt {
		return nil, errors.WithMessagef(ErrInvalidEndTime, "vote %d ended at %d", voteID, v.EndAt)
	}

	submission := &SubmissionRecord{
		Voter:     voter,
		OptionIdx: optionIdx,
		Timestamp: now,
	}

	var payout *Payout
	if v.Policy == RewardPolicyFIFO {
		escrowBalance, err := r.ledger.Balance(v.Escrow(), v.Token)
		if err != nil {
			return nil, err
		}
		payout = FIFOPayout(v, submission, escrowBalance)
	}

	mutations := r.store.Batched()
	journal := newTransferJournal(r.ledger, v.Token)

	// the vote is changed in place, keep what is needed to undo it.
	paid, paidCount, payoutCount := v.Paid, v.PaidCount, len(v.Payouts)
	undo := func() {
		v.removeLastSubmission()
		v.Paid, v.PaidCount, v.Payouts = paid, paidCount, v.Payouts[:payoutCount]
	}

	submissionSeq := uint64(len(v.Submissions))
	v.addSubmission(submission)
	if payout != nil {
		v.applyPayout(payout)
	}

	if err := storeSubmission(voteID, submissionSeq, submission, mutations); err != nil {
		mutations.Cancel()
		undo()
		return nil, err
	}
	if err := storeVoterLedgerEntry(voter, voteID, mutations); err != nil {
		mutations.Cancel()
		undo()
		return nil, err
	}
	if payout != nil {
		if err := storePayout(voteID, uint64(payoutCount), payout, mutations); err != nil {
			mutations.Cancel()
			undo()
			return nil, err
		}
	}
	if err := storeVote(v, mutations); err != nil {
		mutations.Cancel()
		undo()
		return nil, err
	}

	if err := r.commit(mutations, journal, func() error {
		if payout == nil {
			return nil
		}
		return journal.release(v.escrow, voter, payout.Amount)
	}); err != nil {
		undo()
		return nil, err
	}

	r.voterLedger.markSubmitted(voter, voteID)

	submissionEvent := &SubmissionEvent{VoteID: voteID, Submission: submission}
	pending := []func(){
		func() { r.Events.VoteSubmitted.Trigger(submissionEvent) },
	}
	if payout != nil {
		r.LogDebugf("vote %d paid %s %s to %s", voteID, utils.FormatAmount(payout.Amount), v.Token, voter)
		payoutEvent := &PayoutEvent{VoteID: voteID, Token: v.Token, Payout: payout}
		pending = append(pending, func() { r.Events.RewardPaid.Trigger(payoutEvent) })
	}
	return pending, nil
}

// FinalizeVote closes the vote early, distributes the WINNER rewards and refunds
// the remaining escrow to the creator. Only the creator may finalize.
func (r *Registry) FinalizeVote(caller account.Principal, voteID uint64) error {
	return r.execute(func() ([]func(), error) {
		if r.config == nil {
			return nil, ErrNotInitialized
		}

		v, err := r.vote(voteID)
		if err != nil {
			return nil, err
		}

		if caller != v.Creator {
			return nil, errors.WithMessagef(ErrPermissionDenied, "%s is not the creator of vote %d", caller, voteID)
		}
		if v.Finalized {
			return nil, errors.WithMessagef(ErrInvalidState, "vote %d", voteID)
		}

		now := r.opts.clock.Now()
		if now <= v.StartAt {
			return nil, errors.WithMessagef(ErrInvalidStartTime, "vote %d starts at %d", voteID, v.StartAt)
		}

		return r.finalize(v, now)
	})
}

// finalize ends the vote at the given time and drains its escrow.
func (r *Registry) finalize(v *Vote, now uint64) ([]func(), error) {
	if v.Finalized {
		return nil, errors.WithMessagef(ErrInvalidState, "vote %d", v.ID)
	}

	escrowBalance, err := r.ledger.Balance(v.Escrow(), v.Token)
	if err != nil {
		return nil, err
	}

	payouts := FinalizationPayouts(v, escrowBalance, now)

	updated := v.Clone()
	if now < updated.EndAt {
		updated.EndAt = now
	}
	updated.Finalized = true

	mutations := r.store.Batched()
	for _, payout := range payouts {
		if err := storePayout(v.ID, uint64(len(updated.Payouts)), payout, mutations); err != nil {
			mutations.Cancel()
			return nil, err
		}
		updated.applyPayout(payout)
	}
	if err := storeVote(updated, mutations); err != nil {
		mutations.Cancel()
		return nil, err
	}

	journal := newTransferJournal(r.ledger, v.Token)
	if err := r.commit(mutations, journal, func() error {
		for _, payout := range payouts {
			if err := journal.release(v.escrow, payout.Recipient, payout.Amount); err != nil {
				return errors.Wrapf(err, "paying %s failed", payout.Recipient)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	r.votes[v.ID] = updated

	r.LogInfof("vote %d finalized, paid %s to %d voters, refunded %s %s", v.ID, utils.FormatAmount(updated.Paid), updated.PaidCount, utils.FormatAmount(updated.Refunded), v.Token)

	var pending []func()
	for _, payout := range payouts {
		payoutEvent := &PayoutEvent{VoteID: v.ID, Token: v.Token, Payout: payout}
		if payout.Kind == PayoutKindRefund {
			pending = append(pending, func() { r.Events.EscrowRefunded.Trigger(payoutEvent) })
			continue
		}
		pending = append(pending, func() { r.Events.RewardPaid.Trigger(payoutEvent) })
	}

	info := newVoteInfo(updated, 0, now)
	pending = append(pending, func() { r.Events.VoteFinalized.Trigger(info) })
	return pending, nil
}

// sweepExpiredVotes finalizes every vote whose window ended. A failing vote is
// reported and skipped, it does not stop the other votes from being swept.
func (r *Registry) sweepExpiredVotes(now uint64) []func() {
	var pending []func()

	for _, v := range r.votes {
		if !v.IsExpired(now) {
			continue
		}

		finalizeEvents, err := r.finalize(v, now)
		if err != nil {
			r.LogWarnf("sweeping expired vote %d failed: %s", v.ID, err)
			failure := &SweepFailure{VoteID: v.ID, Error: err}
			pending = append(pending, func() { r.Events.SweepFailed.Trigger(failure) })
			continue
		}
		pending = append(pending, finalizeEvents...)
	}

	return pending
}

// SweepExpiredVotes finalizes all expired votes and returns how many were finalized.
func (r *Registry) SweepExpiredVotes() int {
	var finalized int

	_ = r.execute(func() ([]func(), error) {
		now := r.opts.clock.Now()
		before := r.finalizedCount()
		pending := r.sweepExpiredVotes(now)
		finalized = r.finalizedCount() - before
		return pending, nil
	})

	return finalized
}

func (r *Registry) finalizedCount() int {
	var count int
	for _, v := range r.votes {
		if v.Finalized {
			count++
		}
	}
	return count
}
