package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/metrics"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/model/vote/test"
)

func TestVoteMetrics(t *testing.T) {
	env := test.NewVoteTestEnv(t, 100)

	m := &metrics.VoteMetrics{}
	m.Attach(env.Registry().Events)

	voteID := env.CreateVote(env.NewParameters(vote.RewardPolicyFIFO, 10, 5, "a"))
	env.StartVote(voteID)
	env.Submit(test.Voter1, voteID, 0)
	env.Submit(test.Voter2, voteID, 0)
	env.Clock.Advance(1)
	env.Finalize(voteID)

	require.Equal(t, uint64(1), m.VotesCreated.Load())
	require.Equal(t, uint64(2), m.Submissions.Load())
	require.Equal(t, uint64(2), m.RewardsPaid.Load())
	require.Equal(t, uint64(20), m.RewardAmount.Load())
	require.Equal(t, uint64(1), m.Refunds.Load())
	require.Equal(t, uint64(30), m.RefundAmount.Load())
	require.Equal(t, uint64(1), m.VotesFinalized.Load())
	require.Zero(t, m.SweepFailures.Load())
}

func TestDatabaseMetrics(t *testing.T) {
	m := &metrics.DatabaseMetrics{}

	m.CompactionStateChanged(true)
	require.True(t, m.CompactionRunning.Load())
	m.CompactionStateChanged(false)
	require.False(t, m.CompactionRunning.Load())
	m.CompactionStateChanged(true)

	require.Equal(t, uint32(2), m.CompactionCount.Load())
}
