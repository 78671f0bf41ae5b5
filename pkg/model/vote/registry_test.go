package vote_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/model/vote/test"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

func TestInit(t *testing.T) {
	env := test.NewVoteTestEnv(t, 0)
	registry := env.Registry()

	require.True(t, registry.IsInitialized())
	admin, err := registry.Admin()
	require.NoError(t, err)
	require.Equal(t, test.Deployer, admin)

	require.ErrorIs(t, registry.Init(test.Deployer), vote.ErrAlreadyInitialized)
	require.ErrorIs(t, registry.Init(test.Creator), vote.ErrAlreadyInitialized)
}

func TestOperationsBeforeInit(t *testing.T) {
	store := mapdb.NewMapDB()
	clock := vote.NewManualClock(test.GenesisTime)

	registry, err := vote.NewRegistry(store, newLedger(), vote.WithClock(clock), vote.WithDeployer(test.Deployer))
	require.NoError(t, err)
	require.False(t, registry.IsInitialized())

	params := &vote.Parameters{StartAt: 1, EndAt: 2, Token: test.RewardToken, RewardMaxWinners: 1}
	require.ErrorIs(t, registry.CreateVote(test.Creator, 0, params), vote.ErrNotInitialized)
	require.ErrorIs(t, registry.SubmitVote(test.Voter1, 0, 0), vote.ErrNotInitialized)
	require.ErrorIs(t, registry.SetAdmin(test.Deployer, test.Creator), vote.ErrNotInitialized)

	// only the deployer may initialize
	require.ErrorIs(t, registry.Init(test.Creator), vote.ErrAlreadyInitialized)
	require.NoError(t, registry.Init(test.Deployer))
}

func TestSetAdmin(t *testing.T) {
	env := test.NewVoteTestEnv(t, 0)
	registry := env.Registry()

	var changes []*vote.AdminChange
	registry.Events.AdminChanged.Attach(events.NewClosure(func(change *vote.AdminChange) {
		changes = append(changes, change)
	}))

	require.ErrorIs(t, registry.SetAdmin(test.Creator, test.Creator), vote.ErrPermissionDenied)
	require.NoError(t, registry.SetAdmin(test.Deployer, test.Voter1))

	admin, err := registry.Admin()
	require.NoError(t, err)
	require.Equal(t, test.Voter1, admin)

	// the previous admin lost its rights
	require.ErrorIs(t, registry.SetAdmin(test.Deployer, test.Deployer), vote.ErrPermissionDenied)

	require.Len(t, changes, 1)
	require.Equal(t, test.Deployer, changes[0].Previous)
	require.Equal(t, test.Voter1, changes[0].Admin)
}

func TestCreateVoteEscrowsRewardPool(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1500)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 100, "yes", "no"))
	require.Equal(t, uint64(0), voteID)
	require.Equal(t, uint64(1), env.Registry().NextID())

	env.AssertEscrow(voteID, 1000)
	env.AssertBalance(test.Creator, 500)
	env.AssertConservation(voteID)

	info := env.VoteInfo(voteID)
	require.Equal(t, test.Creator, info.Creator)
	require.Equal(t, []string{"yes", "no"}, info.Options)
	require.Equal(t, []uint64{0, 0}, info.Tallies)
	require.Equal(t, vote.StatusUpcoming, info.Status)
	require.Equal(t, account.EscrowPrincipal(test.Creator, voteID), info.Escrow)
	require.True(t, env.Registry().IsEscrowAccount(info.Escrow))
	require.False(t, env.Registry().IsEscrowAccount(test.Creator))
}

func TestCreateVoteErrors(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)
	registry := env.Registry()
	now := env.Clock.Now()

	valid := func() *vote.Parameters {
		return &vote.Parameters{
			Title:            "valid",
			StartAt:          now + 10,
			EndAt:            now + 20,
			Policy:           vote.RewardPolicyFIFO,
			Token:            test.RewardToken,
			RewardPerPerson:  10,
			RewardMaxWinners: 10,
			Options:          []string{"a", "b"},
		}
	}

	tests := []struct {
		name    string
		caller  account.Principal
		voteID  uint64
		modify  func(p *vote.Parameters)
		wantErr error
	}{
		{"wrong id", test.Creator, 1, nil, vote.ErrInvalidRequest},
		{"zero winners", test.Creator, 0, func(p *vote.Parameters) { p.RewardMaxWinners = 0 }, vote.ErrInvalidRequest},
		{"empty window", test.Creator, 0, func(p *vote.Parameters) { p.EndAt = p.StartAt }, vote.ErrInvalidEndTime},
		{"inverted window", test.Creator, 0, func(p *vote.Parameters) { p.EndAt = p.StartAt - 1 }, vote.ErrInvalidEndTime},
		{"overflowing total", test.Creator, 0, func(p *vote.Parameters) { p.RewardPerPerson = 1 << 63; p.RewardMaxWinners = 2 }, vote.ErrInvalidRequest},
		{"unknown policy", test.Creator, 0, func(p *vote.Parameters) { p.Policy = vote.RewardPolicy(7) }, vote.ErrInvalidRequest},
		{"missing token", test.Creator, 0, func(p *vote.Parameters) { p.Token = "" }, vote.ErrInvalidRequest},
		{"insufficient balance", test.Creator, 0, func(p *vote.Parameters) { p.RewardPerPerson = 101 }, vote.ErrInsufficientBalance},
		{"unfunded caller", test.Voter1, 0, nil, vote.ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid()
			if tt.modify != nil {
				tt.modify(params)
			}
			require.ErrorIs(t, registry.CreateVote(tt.caller, tt.voteID, params), tt.wantErr)

			// nothing changed
			require.Equal(t, uint64(0), registry.NextID())
			env.AssertBalance(test.Creator, 1000)
		})
	}

	require.NoError(t, registry.CreateVote(test.Creator, 0, valid()))
	require.ErrorIs(t, registry.CreateVote(test.Creator, 0, valid()), vote.ErrInvalidRequest)
}

func TestFIFOPaysFirstSubmittersAndRefundsRemainder(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 33, 3, "a", "b"))
	env.AssertEscrow(voteID, 99)

	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Submit(test.Voter2, voteID, 1)

	// paid right away
	env.AssertBalance(test.Voter1, 33)
	env.AssertBalance(test.Voter2, 33)
	env.AssertEscrow(voteID, 33)
	env.AssertConservation(voteID)

	env.Clock.Advance(1)
	env.Finalize(voteID)

	env.AssertBalance(test.Voter1, 33)
	env.AssertBalance(test.Voter2, 33)
	env.AssertBalance(test.Creator, 1000-99+33)
	env.AssertEscrow(voteID, 0)
	env.AssertConservation(voteID)
	env.AssertSupply(test.Creator, test.Voter1, test.Voter2)

	info := env.VoteInfo(voteID)
	require.Equal(t, uint64(66), info.Paid)
	require.Equal(t, uint64(2), info.PaidCount)
	require.Equal(t, uint64(33), info.Refunded)
}

func TestFIFORefundsRemainderWhenRewardPoolIsNotExhausted(t *testing.T) {
	// 100 funded, 99 escrowed, 66 paid: the creator ends with the remaining 34
	env := test.NewVoteTestEnv(t, 100)

	params := env.NewParameters(vote.RewardPolicyFIFO, 33, 3, "a")
	voteID := env.CreateVote(params)
	env.AssertBalance(test.Creator, 1)

	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Submit(test.Voter2, voteID, 0)

	env.Clock.Advance(1)
	env.Finalize(voteID)

	env.AssertBalance(test.Voter1, 33)
	env.AssertBalance(test.Voter2, 33)
	env.AssertBalance(test.Creator, 34)

	payouts, err := env.Registry().VotePayouts(voteID)
	require.NoError(t, err)
	require.Len(t, payouts, 3)
	require.Equal(t, vote.PayoutKindRefund, payouts[2].Kind)
	require.Equal(t, uint64(33), payouts[2].Amount)
	require.Equal(t, test.Creator, payouts[2].Recipient)
}

func TestFIFOCap(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 50, 2, "a", "b"))

	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Clock.Advance(1)
	env.Submit(test.Voter2, voteID, 1)
	env.Clock.Advance(1)
	env.Submit(test.Voter3, voteID, 0)

	env.Clock.Advance(1)
	env.Finalize(voteID)

	env.AssertBalance(test.Voter1, 50)
	env.AssertBalance(test.Voter2, 50)
	env.AssertBalance(test.Voter3, 0)
	env.AssertBalance(test.Creator, 0)
	env.AssertConservation(voteID)

	// the late submission still counts
	info := env.VoteInfo(voteID)
	require.Equal(t, []uint64{2, 1}, info.Tallies)
	require.Equal(t, uint64(3), info.SubmissionCount)
}

func TestWinnerPaysMajorityAtFinalization(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyWinner, 50, 2, "A", "B"))

	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Submit(test.Voter2, voteID, 0)
	env.Submit(test.Voter3, voteID, 1)

	// nothing is paid before finalization
	env.AssertBalance(test.Voter1, 0)
	env.AssertEscrow(voteID, 100)

	env.Clock.Advance(1)
	env.Finalize(voteID)

	env.AssertBalance(test.Voter1, 50)
	env.AssertBalance(test.Voter2, 50)
	env.AssertBalance(test.Voter3, 0)
	env.AssertEscrow(voteID, 0)
	env.AssertConservation(voteID)
}

func TestWinnerTieBreakBySubmissionOrder(t *testing.T) {
	env := test.NewVoteTestEnv(t, 300)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyWinner, 100, 3, "A", "B", "C"))

	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Clock.Advance(1)
	env.Submit(test.Voter2, voteID, 2)
	env.Clock.Advance(1)
	env.Submit(test.Voter3, voteID, 1)
	env.Clock.Advance(1)
	env.Submit(test.Voter4, voteID, 1)

	voter5 := account.MustParsePrincipal("0x1005")
	env.Clock.Advance(1)
	env.Submit(voter5, voteID, 0)

	// A and B are tied with 2 votes, C lost
	env.Clock.Advance(1)
	env.Finalize(voteID)

	env.AssertBalance(test.Voter1, 100)
	env.AssertBalance(test.Voter2, 0)
	env.AssertBalance(test.Voter3, 100)
	env.AssertBalance(test.Voter4, 100)
	env.AssertBalance(voter5, 0)
	env.AssertBalance(test.Creator, 0)
	env.AssertConservation(voteID)
}

func TestWinnerWithoutSubmissionsRefundsEverything(t *testing.T) {
	env := test.NewVoteTestEnv(t, 500)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyWinner, 10, 50, "A", "B"))
	env.AssertBalance(test.Creator, 0)

	env.StartVote(voteID)
	env.Clock.Advance(1)
	env.Finalize(voteID)

	env.AssertBalance(test.Creator, 500)
	env.AssertConservation(voteID)
}

func TestSubmitVoteErrors(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)
	registry := env.Registry()

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a", "b"))
	info := env.VoteInfo(voteID)

	require.ErrorIs(t, registry.SubmitVote(test.Voter1, voteID, 0), vote.ErrInvalidStartTime)
	require.ErrorIs(t, registry.SubmitVote(test.Voter1, voteID+1, 0), vote.ErrVoteNotFound)
	require.ErrorIs(t, registry.SubmitVote(test.Voter1, voteID+1, 0), vote.ErrInvalidRequest)

	// the window is inclusive on both ends
	env.Clock.Set(info.StartAt)
	env.Submit(test.Voter1, voteID, 0)
	require.ErrorIs(t, registry.SubmitVote(test.Voter1, voteID, 1), vote.ErrAlreadyVoted)
	require.ErrorIs(t, registry.SubmitVote(test.Voter2, voteID, 2), vote.ErrInvalidOptionIdx)

	env.Clock.Set(info.EndAt)
	env.Submit(test.Voter2, voteID, 1)

	env.Clock.Set(info.EndAt + 1)
	require.ErrorIs(t, registry.SubmitVote(test.Voter3, voteID, 0), vote.ErrInvalidEndTime)

	// duplicates are reported before the window
	require.ErrorIs(t, registry.SubmitVote(test.Voter1, voteID, 0), vote.ErrAlreadyVoted)

	require.Equal(t, []uint64{1, 1}, env.VoteInfo(voteID).Tallies)
	require.True(t, registry.HasSubmitted(test.Voter1, voteID))
	require.False(t, registry.HasSubmitted(test.Voter3, voteID))
}

func TestSubmitAfterFinalizeFails(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a"))
	env.StartVote(voteID)
	env.Clock.Advance(1)
	env.Finalize(voteID)

	require.ErrorIs(t, env.Registry().SubmitVote(test.Voter1, voteID, 0), vote.ErrInvalidEndTime)
}

func TestEditVote(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)
	registry := env.Registry()

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a", "b"))
	env.AssertBalance(test.Creator, 900)

	var edited []*vote.VoteInfo
	registry.Events.VoteEdited.Attach(events.NewClosure(func(info *vote.VoteInfo) {
		edited = append(edited, info)
	}))

	// growing the pool takes the difference from the editor
	params := env.NewParameters(vote.RewardPolicyWinner, 20, 10, "x", "y", "z")
	require.NoError(t, registry.EditVote(test.Creator, voteID, params))
	env.AssertBalance(test.Creator, 800)
	env.AssertEscrow(voteID, 200)

	info := env.VoteInfo(voteID)
	require.Equal(t, vote.RewardPolicyWinner, info.Policy)
	require.Equal(t, []string{"x", "y", "z"}, info.Options)
	require.Equal(t, []uint64{0, 0, 0}, info.Tallies)

	// shrinking the pool returns the difference to the editor
	params = env.NewParameters(vote.RewardPolicyFIFO, 5, 10, "x")
	require.NoError(t, registry.EditVote(test.Creator, voteID, params))
	env.AssertBalance(test.Creator, 950)
	env.AssertEscrow(voteID, 50)
	env.AssertConservation(voteID)

	require.Len(t, edited, 2)
	require.Equal(t, uint64(50), edited[1].EscrowBalance)

	// the admin may edit and pays the difference
	env.Mint(test.Deployer, 100)
	params = env.NewParameters(vote.RewardPolicyFIFO, 15, 10, "x")
	require.NoError(t, registry.EditVote(test.Deployer, voteID, params))
	env.AssertBalance(test.Deployer, 0)
	env.AssertBalance(test.Creator, 950)
	env.AssertEscrow(voteID, 150)
	env.AssertConservation(voteID)

	// other callers can not
	require.ErrorIs(t, registry.EditVote(test.Voter1, voteID, params), vote.ErrPermissionDenied)

	// not enough funds for the difference
	params = env.NewParameters(vote.RewardPolicyFIFO, 1000, 10, "x")
	require.ErrorIs(t, registry.EditVote(test.Creator, voteID, params), vote.ErrInsufficientBalance)
	env.AssertEscrow(voteID, 150)

	// the token can not change
	params = env.NewParameters(vote.RewardPolicyFIFO, 15, 10, "x")
	params.Token = "0x1::coin::Other"
	require.ErrorIs(t, registry.EditVote(test.Creator, voteID, params), vote.ErrInvalidRequest)

	// invalid parameters
	params = env.NewParameters(vote.RewardPolicyFIFO, 15, 10, "x")
	params.RewardMaxWinners = 0
	require.ErrorIs(t, registry.EditVote(test.Creator, voteID, params), vote.ErrInvalidRequest)

	// once started, nothing can change anymore
	env.StartVote(voteID)
	params = env.NewParameters(vote.RewardPolicyFIFO, 15, 10, "x")
	require.ErrorIs(t, registry.EditVote(test.Creator, voteID, params), vote.ErrAlreadyStarted)
	require.ErrorIs(t, registry.EditVote(test.Deployer, voteID, params), vote.ErrAlreadyStarted)
}

func TestEditVoteKeepsVoterLedger(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)
	registry := env.Registry()

	firstID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a"))
	secondID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a"))

	env.StartVote(firstID)
	env.Submit(test.Voter1, firstID, 0)

	// back to before the start of the second vote
	env.Clock.Set(env.VoteInfo(firstID).StartAt - 1)
	params := env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "b", "c")
	require.NoError(t, registry.EditVote(test.Creator, secondID, params))

	require.Equal(t, []uint64{firstID}, registry.VoterVotes(test.Voter1))
}

func TestFinalizeVote(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)
	registry := env.Registry()

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a"))

	require.ErrorIs(t, registry.FinalizeVote(test.Voter1, voteID), vote.ErrPermissionDenied)
	require.ErrorIs(t, registry.FinalizeVote(test.Deployer, voteID), vote.ErrPermissionDenied)
	require.ErrorIs(t, registry.FinalizeVote(test.Creator, voteID), vote.ErrInvalidStartTime)

	env.StartVote(voteID)
	require.ErrorIs(t, registry.FinalizeVote(test.Creator, voteID), vote.ErrInvalidStartTime)

	env.Submit(test.Voter1, voteID, 0)

	// early termination
	now := env.Clock.Advance(10)
	env.Finalize(voteID)

	info := env.VoteInfo(voteID)
	require.True(t, info.Finalized)
	require.Equal(t, vote.StatusFinalized, info.Status)
	require.Equal(t, now, info.EndAt)
	env.AssertBalance(test.Creator, 90)
	env.AssertConservation(voteID)

	// a second finalization changes nothing
	require.ErrorIs(t, registry.FinalizeVote(test.Creator, voteID), vote.ErrInvalidState)
	env.AssertBalance(test.Creator, 90)
	env.AssertBalance(test.Voter1, 10)

	payouts, err := registry.VotePayouts(voteID)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
}

func TestFinalizeAfterEndKeepsEndTime(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyWinner, 10, 10, "a"))
	endAt := env.VoteInfo(voteID).EndAt

	env.EndVote(voteID)
	require.Equal(t, vote.StatusClosed, env.VoteInfo(voteID).Status)

	env.Finalize(voteID)
	require.Equal(t, endAt, env.VoteInfo(voteID).EndAt)
}

func TestCreateVoteSweepsExpiredVotes(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)
	registry := env.Registry()

	var finalized []uint64
	registry.Events.VoteFinalized.Attach(events.NewClosure(func(info *vote.VoteInfo) {
		finalized = append(finalized, info.ID)
	}))

	expiredID := env.CreateVote(env.NewParameters(vote.RewardPolicyWinner, 10, 10, "a", "b"))
	openID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a"))

	env.StartVote(expiredID)
	env.Submit(test.Voter1, expiredID, 1)

	env.Clock.Set(env.VoteInfo(expiredID).EndAt + 1)
	params := env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a")
	newID := env.CreateVote(params)

	// both windows ended, the new vote is untouched
	require.True(t, env.VoteInfo(expiredID).Finalized)
	require.True(t, env.VoteInfo(openID).Finalized)
	require.False(t, env.VoteInfo(newID).Finalized)
	require.Equal(t, []uint64{expiredID, openID}, finalized)

	env.AssertBalance(test.Voter1, 10)
	env.AssertConservation(expiredID)
	env.AssertConservation(openID)

	// nothing left to sweep
	require.Zero(t, registry.SweepExpiredVotes())
	env.EndVote(newID)
	require.Equal(t, 1, registry.SweepExpiredVotes())
}

func TestSweepFailureIsIsolated(t *testing.T) {
	store := mapdb.NewMapDB()
	clock := vote.NewManualClock(test.GenesisTime)
	failingCreator := account.MustParsePrincipal("0xfa11")

	l := &failingLedger{Ledger: newLedger(), failTo: failingCreator}
	registry, err := vote.NewRegistry(store, l, vote.WithClock(clock), vote.WithDeployer(test.Deployer))
	require.NoError(t, err)
	require.NoError(t, registry.Init(test.Deployer))

	require.NoError(t, l.Mint(failingCreator, test.RewardToken, 100))
	require.NoError(t, l.Mint(test.Creator, test.RewardToken, 100))

	now := clock.Now()
	params := &vote.Parameters{StartAt: now + 1, EndAt: now + 2, Token: test.RewardToken, RewardPerPerson: 10, RewardMaxWinners: 5, Options: []string{"a"}}

	require.NoError(t, registry.CreateVote(failingCreator, 0, params))
	require.NoError(t, registry.CreateVote(test.Creator, 1, params))

	var failures []*vote.SweepFailure
	registry.Events.SweepFailed.Attach(events.NewClosure(func(failure *vote.SweepFailure) {
		failures = append(failures, failure)
	}))

	clock.Set(now + 3)
	later := &vote.Parameters{StartAt: now + 10, EndAt: now + 20, Token: test.RewardToken, RewardPerPerson: 1, RewardMaxWinners: 1}
	require.NoError(t, registry.CreateVote(test.Creator, 2, later))

	require.Len(t, failures, 1)
	require.Equal(t, uint64(0), failures[0].VoteID)

	failedVote, err := registry.VoteInfo(0)
	require.NoError(t, err)
	require.False(t, failedVote.Finalized)
	require.Equal(t, uint64(50), failedVote.EscrowBalance)

	sweptVote, err := registry.VoteInfo(1)
	require.NoError(t, err)
	require.True(t, sweptVote.Finalized)
	require.Zero(t, sweptVote.EscrowBalance)

	balance, err := l.Balance(test.Creator, test.RewardToken)
	require.NoError(t, err)
	require.Equal(t, uint64(99), balance)

	require.Equal(t, uint64(3), registry.NextID())
}

func TestVoteOptionActions(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)
	registry := env.Registry()

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 1, 10, "a", "b"))
	env.StartVote(voteID)

	start := env.Clock.Now()
	env.Submit(test.Voter1, voteID, 1)
	env.Clock.Advance(5)
	env.Submit(test.Voter2, voteID, 0)
	env.Clock.Advance(5)
	env.Submit(test.Voter3, voteID, 1)

	actions, err := registry.VoteOptionActions(voteID, 1)
	require.NoError(t, err)
	require.Equal(t, []account.Principal{test.Voter1, test.Voter3}, actions.Voters)
	require.Equal(t, []uint64{start, start + 10}, actions.Timestamps)

	actions, err = registry.VoteOptionActions(voteID, 0)
	require.NoError(t, err)
	require.Equal(t, []account.Principal{test.Voter2}, actions.Voters)

	_, err = registry.VoteOptionActions(voteID, 2)
	require.ErrorIs(t, err, vote.ErrInvalidOptionIdx)

	_, err = registry.VoteOptionActions(voteID+1, 0)
	require.ErrorIs(t, err, vote.ErrVoteNotFound)
}

func TestVoteIDsByStatus(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)
	registry := env.Registry()

	first := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 1, 1, "a"))
	env.Clock.Advance(500)
	second := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 1, 1, "a"))

	require.Equal(t, []uint64{first, second}, registry.VoteIDs())
	require.Equal(t, []uint64{first}, registry.VoteIDs(vote.StatusOpen))
	require.Equal(t, []uint64{second}, registry.VoteIDs(vote.StatusUpcoming))
	require.Empty(t, registry.VoteIDs(vote.StatusFinalized, vote.StatusClosed))
}

func TestRegistryReload(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)

	fifoID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 2, "a", "b"))
	winnerID := env.CreateVote(env.NewParameters(vote.RewardPolicyWinner, 10, 2, "a", "b"))

	env.StartVote(fifoID)
	env.Submit(test.Voter1, fifoID, 0)
	env.Submit(test.Voter2, fifoID, 1)
	env.Submit(test.Voter1, winnerID, 1)
	env.Clock.Advance(1)
	env.Finalize(fifoID)

	before, err := env.Registry().Vote(winnerID)
	require.NoError(t, err)

	env.Reload()
	registry := env.Registry()

	require.True(t, registry.IsInitialized())
	require.Equal(t, uint64(2), registry.NextID())
	require.ErrorIs(t, registry.SubmitVote(test.Voter1, winnerID, 0), vote.ErrAlreadyVoted)
	require.Equal(t, []uint64{fifoID, winnerID}, registry.VoterVotes(test.Voter1))

	after, err := registry.Vote(winnerID)
	require.NoError(t, err)
	require.Equal(t, before.Submissions, after.Submissions)
	require.Equal(t, before.Tallies(), after.Tallies())
	require.Equal(t, before.Escrow(), after.Escrow())

	fifo := env.VoteInfo(fifoID)
	require.True(t, fifo.Finalized)
	require.Equal(t, uint64(20), fifo.Paid)

	payouts, err := registry.VotePayouts(fifoID)
	require.NoError(t, err)
	require.Len(t, payouts, 2)

	actions, err := registry.VoteOptionActions(winnerID, 1)
	require.NoError(t, err)
	require.Equal(t, []account.Principal{test.Voter1}, actions.Voters)

	env.Submit(test.Voter2, winnerID, 1)
	env.Clock.Advance(1)
	env.Finalize(winnerID)
	env.AssertBalance(test.Voter1, 20)
	env.AssertBalance(test.Voter2, 20)
	env.AssertConservation(winnerID)
}

func TestRegistryDetectsUncleanShutdown(t *testing.T) {
	store := mapdb.NewMapDB()

	_, err := vote.NewRegistry(store, newLedger(), vote.WithDeployer(test.Deployer))
	require.NoError(t, err)

	// not closed
	_, err = vote.NewRegistry(store, newLedger(), vote.WithDeployer(test.Deployer))
	require.ErrorIs(t, err, vote.ErrVoteCorruptedStorage)
}

func TestRegistryAutoRevalidation(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "a", "b"))
	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)

	require.ErrorIs(t, env.ReloadUnclean(), vote.ErrVoteCorruptedStorage)

	// the escrow still matches the accounting
	require.NoError(t, env.ReloadUnclean(vote.WithAutoRevalidation(true)))
	env.AssertEscrow(voteID, 90)

	v, err := env.Registry().Vote(voteID)
	require.NoError(t, err)
	require.NoError(t, env.Ledger.Transfer(v.Escrow(), test.Voter2, test.RewardToken, 1))

	require.ErrorIs(t, env.ReloadUnclean(vote.WithAutoRevalidation(true)), vote.ErrVoteCorruptedStorage)
}

func TestConcurrentDuplicateSubmissions(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)
	registry := env.Registry()

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 100, "a", "b"))
	env.StartVote(voteID)

	const attempts = 20

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(optionIdx uint64) {
			defer wg.Done()
			errs <- registry.SubmitVote(test.Voter1, voteID, optionIdx)
		}(uint64(i % 2))
	}
	wg.Wait()
	close(errs)

	var accepted int
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, vote.ErrAlreadyVoted)
	}
	require.Equal(t, 1, accepted)
	require.Equal(t, uint64(1), env.VoteInfo(voteID).SubmissionCount)
	env.AssertBalance(test.Voter1, 10)
}

func TestEventsAreTriggered(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)
	registry := env.Registry()

	var created, submitted, rewards, refunds int
	registry.Events.VoteCreated.Attach(events.NewClosure(func(info *vote.VoteInfo) { created++ }))
	registry.Events.VoteSubmitted.Attach(events.NewClosure(func(event *vote.SubmissionEvent) { submitted++ }))
	registry.Events.RewardPaid.Attach(events.NewClosure(func(event *vote.PayoutEvent) {
		require.Equal(t, test.RewardToken, event.Token)
		rewards++
	}))
	registry.Events.EscrowRefunded.Attach(events.NewClosure(func(event *vote.PayoutEvent) {
		// handlers may query the registry
		info, err := registry.VoteInfo(event.VoteID)
		require.NoError(t, err)
		require.True(t, info.Finalized)
		refunds++
	}))

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 5, "a"))
	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Submit(test.Voter2, voteID, 0)
	env.Clock.Advance(1)
	env.Finalize(voteID)

	require.Equal(t, 1, created)
	require.Equal(t, 2, submitted)
	require.Equal(t, 2, rewards)
	require.Equal(t, 1, refunds)
}

func TestEscrowAccountsCanNotAct(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1500)
	registry := env.Registry()

	params := env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "yes", "no")
	voteID := env.CreateVote(params)
	escrow := env.VoteInfo(voteID).Escrow
	env.AssertEscrow(voteID, 100)

	// the escrow holds enough to fund another vote of the same size
	require.ErrorIs(t, registry.CreateVote(escrow, registry.NextID(), params), vote.ErrPermissionDenied)
	require.ErrorIs(t, registry.SetAdmin(test.Deployer, escrow), vote.ErrPermissionDenied)

	env.StartVote(voteID)
	require.ErrorIs(t, registry.SubmitVote(escrow, voteID, 0), vote.ErrPermissionDenied)
	require.False(t, registry.HasSubmitted(escrow, voteID))

	require.Equal(t, uint64(1), registry.NextID())
	env.AssertEscrow(voteID, 100)
	env.AssertConservation(voteID)

	// the voters are still paid out of the untouched escrow
	env.Submit(test.Voter1, voteID, 0)
	env.AssertBalance(test.Voter1, 10)
	env.AssertEscrow(voteID, 90)
}

func TestCreateVoteCountsPrefundedEscrow(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1500)
	registry := env.Registry()

	escrow := account.EscrowPrincipal(test.Creator, registry.NextID())
	env.Mint(escrow, 50)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 100, "yes", "no"))
	require.Equal(t, uint64(1050), env.VoteInfo(voteID).Deposited)
	env.AssertEscrow(voteID, 1050)
	env.AssertBalance(test.Creator, 500)
	env.AssertConservation(voteID)

	// the escrow matches the accounting, so a store that was not closed is accepted
	require.NoError(t, env.ReloadUnclean(vote.WithAutoRevalidation(true)))

	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Clock.Advance(1)
	env.Finalize(voteID)

	env.AssertEscrow(voteID, 0)
	env.AssertBalance(test.Voter1, 10)
	env.AssertBalance(test.Creator, 1540)
	env.AssertConservation(voteID)
	env.AssertSupply(test.Creator, test.Voter1)
}

func TestCreateVoteRejectsEscrowInUse(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1500)
	registry := env.Registry()

	params := env.NewParameters(vote.RewardPolicyFIFO, 10, 10, "yes", "no")
	voteID := env.CreateVote(params)

	// the escrow the next vote of the creator would get already voted
	nextEscrow := account.EscrowPrincipal(test.Creator, registry.NextID())
	env.StartVote(voteID)
	env.Submit(nextEscrow, voteID, 0)

	require.ErrorIs(t, registry.CreateVote(test.Creator, registry.NextID(), params), vote.ErrInvalidRequest)
	require.Equal(t, uint64(1), registry.NextID())
	env.AssertBalance(test.Creator, 1400)
	env.AssertConservation(voteID)
}

func TestEventsFollowCommitOrder(t *testing.T) {
	env := test.NewVoteTestEnv(t, 1000)
	registry := env.Registry()

	const voterCount = 50

	var submitted, paid []account.Principal
	registry.Events.VoteSubmitted.Attach(events.NewClosure(func(event *vote.SubmissionEvent) {
		submitted = append(submitted, event.Submission.Voter)
	}))
	registry.Events.RewardPaid.Attach(events.NewClosure(func(event *vote.PayoutEvent) {
		paid = append(paid, event.Payout.Recipient)
	}))

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 1, voterCount, "a", "b"))
	env.StartVote(voteID)

	var wg sync.WaitGroup
	errs := make(chan error, voterCount)
	for i := 0; i < voterCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			voter := account.MustParsePrincipal(fmt.Sprintf("0x%x", 0x2000+i))
			errs <- registry.SubmitVote(voter, voteID, uint64(i%2))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	v, err := registry.Vote(voteID)
	require.NoError(t, err)
	require.Len(t, v.Submissions, voterCount)

	payouts, err := registry.VotePayouts(voteID)
	require.NoError(t, err)
	require.Len(t, payouts, voterCount)
	require.Len(t, submitted, voterCount)
	require.Len(t, paid, voterCount)

	for i, submission := range v.Submissions {
		require.Equal(t, submission.Voter, submitted[i])
		require.Equal(t, payouts[i].Recipient, paid[i])
	}
}
