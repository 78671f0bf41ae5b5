package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/ledger"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

const (
	RewardToken = "0x1::coin::Reward"

	// GenesisTime is the clock value a fresh environment starts at.
	GenesisTime uint64 = 1_000_000
)

var (
	Deployer = account.MustParsePrincipal("0xde910e7")
	Creator  = account.MustParsePrincipal("0xc7ea70")
	Voter1   = account.MustParsePrincipal("0x1001")
	Voter2   = account.MustParsePrincipal("0x1002")
	Voter3   = account.MustParsePrincipal("0x1003")
	Voter4   = account.MustParsePrincipal("0x1004")
)

type VoteTestEnv struct {
	t *testing.T

	Clock  *vote.ManualClock
	Ledger *ledger.Ledger

	store       kvstore.KVStore
	ledgerStore kvstore.KVStore
	registry    *vote.Registry
}

// NewVoteTestEnv creates an initialized registry with the creator funded.
func NewVoteTestEnv(t *testing.T, creatorBalance uint64) *VoteTestEnv {

	env := &VoteTestEnv{
		t:           t,
		Clock:       vote.NewManualClock(GenesisTime),
		store:       mapdb.NewMapDB(),
		ledgerStore: mapdb.NewMapDB(),
	}
	env.Ledger = ledger.New(env.ledgerStore)

	env.registry = env.newRegistry()
	require.NoError(t, env.registry.Init(Deployer))

	if creatorBalance > 0 {
		require.NoError(t, env.Ledger.Mint(Creator, RewardToken, creatorBalance))
	}

	return env
}

func (env *VoteTestEnv) newRegistry() *vote.Registry {
	registry, err := vote.NewRegistry(env.store, env.Ledger, vote.WithClock(env.Clock), vote.WithDeployer(Deployer))
	require.NoError(env.t, err)
	return registry
}

func (env *VoteTestEnv) Registry() *vote.Registry {
	return env.registry
}

// Reload closes the registry cleanly and loads it again from the same store.
func (env *VoteTestEnv) Reload() {
	require.NoError(env.t, env.registry.CloseDatabase())
	env.registry = env.newRegistry()
}

// ReloadUnclean loads the registry again from the same store without closing it first.
func (env *VoteTestEnv) ReloadUnclean(opts ...vote.Option) error {
	options := append([]vote.Option{vote.WithClock(env.Clock), vote.WithDeployer(Deployer)}, opts...)

	registry, err := vote.NewRegistry(env.store, env.Ledger, options...)
	if err != nil {
		return err
	}
	env.registry = registry
	return nil
}

// Mint funds the principal.
func (env *VoteTestEnv) Mint(principal account.Principal, amount uint64) {
	require.NoError(env.t, env.Ledger.Mint(principal, RewardToken, amount))
}

// NewParameters returns parameters for a vote opening in 100s and lasting 1000s.
func (env *VoteTestEnv) NewParameters(policy vote.RewardPolicy, rewardPerPerson uint64, rewardMaxWinners uint64, options ...string) *vote.Parameters {
	now := env.Clock.Now()
	params, err := vote.NewParametersBuilder("test vote", now+100, now+1100).
		Policy(policy).
		Reward(RewardToken, rewardPerPerson, rewardMaxWinners).
		Options(options...).
		Build()
	require.NoError(env.t, err)
	return params
}

// CreateVote creates a vote by the creator and returns its id.
func (env *VoteTestEnv) CreateVote(params *vote.Parameters) uint64 {
	voteID := env.registry.NextID()
	require.NoError(env.t, env.registry.CreateVote(Creator, voteID, params))
	return voteID
}

// StartVote moves the clock to the start of the vote.
func (env *VoteTestEnv) StartVote(voteID uint64) {
	info := env.VoteInfo(voteID)
	env.Clock.Set(info.StartAt)
}

// EndVote moves the clock past the end of the vote.
func (env *VoteTestEnv) EndVote(voteID uint64) {
	info := env.VoteInfo(voteID)
	env.Clock.Set(info.EndAt + 1)
}

func (env *VoteTestEnv) Submit(voter account.Principal, voteID uint64, optionIdx uint64) {
	require.NoError(env.t, env.registry.SubmitVote(voter, voteID, optionIdx))
}

func (env *VoteTestEnv) Finalize(voteID uint64) {
	require.NoError(env.t, env.registry.FinalizeVote(Creator, voteID))
}

func (env *VoteTestEnv) VoteInfo(voteID uint64) *vote.VoteInfo {
	info, err := env.registry.VoteInfo(voteID)
	require.NoError(env.t, err)
	return info
}

func (env *VoteTestEnv) Balance(principal account.Principal) uint64 {
	balance, err := env.Ledger.Balance(principal, RewardToken)
	require.NoError(env.t, err)
	return balance
}

func (env *VoteTestEnv) AssertBalance(principal account.Principal, expected uint64) {
	require.Equal(env.t, expected, env.Balance(principal), "balance of %s", principal)
}

func (env *VoteTestEnv) AssertEscrow(voteID uint64, expected uint64) {
	info := env.VoteInfo(voteID)
	require.Equal(env.t, expected, info.EscrowBalance, "escrow of vote %d", voteID)
	require.Equal(env.t, expected, env.Balance(info.Escrow), "escrow of vote %d in the ledger", voteID)
}

// AssertConservation checks that every unit ever deposited into the escrow is either
// still there or was paid out, refunded or withdrawn.
func (env *VoteTestEnv) AssertConservation(voteID uint64) {
	info := env.VoteInfo(voteID)
	require.Equal(env.t, info.Deposited, info.EscrowBalance+info.Paid+info.Refunded+info.Withdrawn, "conservation of vote %d", voteID)

	payouts, err := env.registry.VotePayouts(voteID)
	require.NoError(env.t, err)

	var paid, refunded, withdrawn uint64
	for _, payout := range payouts {
		switch payout.Kind {
		case vote.PayoutKindReward:
			paid += payout.Amount
		case vote.PayoutKindRefund:
			refunded += payout.Amount
		case vote.PayoutKindWithdrawal:
			withdrawn += payout.Amount
		}
	}
	require.Equal(env.t, info.Paid, paid)
	require.Equal(env.t, info.Refunded, refunded)
	require.Equal(env.t, info.Withdrawn, withdrawn)
}

// AssertSupply checks that no funds were created or destroyed by the registry.
func (env *VoteTestEnv) AssertSupply(principals ...account.Principal) {
	supply, err := env.Ledger.Supply(RewardToken)
	require.NoError(env.t, err)

	var total uint64
	for _, principal := range principals {
		total += env.Balance(principal)
	}
	for _, voteID := range env.registry.VoteIDs() {
		total += env.VoteInfo(voteID).EscrowBalance
	}
	require.Equal(env.t, supply, total)
}
