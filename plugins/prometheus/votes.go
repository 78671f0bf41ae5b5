package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gohornet/votereward/pkg/model/vote"
)

var (
	votesCount        *prometheus.GaugeVec
	votesCreated      prometheus.Gauge
	votesEdited       prometheus.Gauge
	votesFinalized    prometheus.Gauge
	voteSubmissions   prometheus.Gauge
	voteRewardsPaid   prometheus.Gauge
	voteRewardAmount  prometheus.Gauge
	voteRefunds       prometheus.Gauge
	voteRefundAmount  prometheus.Gauge
	voteSweepFailures prometheus.Gauge
)

func newVoteGauge(name string, help string) prometheus.Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "votereward",
		Subsystem: "votes",
		Name:      name,
		Help:      help,
	})
	registry.MustRegister(gauge)
	return gauge
}

func configureVotes() {

	votesCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "votereward",
			Subsystem: "votes",
			Name:      "count",
			Help:      "The number of votes per status.",
		},
		[]string{"status"},
	)
	registry.MustRegister(votesCount)

	votesCreated = newVoteGauge("created", "The number of created votes.")
	votesEdited = newVoteGauge("edited", "The number of edits on votes that did not start yet.")
	votesFinalized = newVoteGauge("finalized", "The number of finalized votes.")
	voteSubmissions = newVoteGauge("submissions", "The number of accepted submissions.")
	voteRewardsPaid = newVoteGauge("rewards_paid", "The number of rewards paid to voters.")
	voteRewardAmount = newVoteGauge("reward_amount", "The sum of all rewards paid to voters.")
	voteRefunds = newVoteGauge("refunds", "The number of transfers back to creators or editors.")
	voteRefundAmount = newVoteGauge("refund_amount", "The sum of all refunded amounts.")
	voteSweepFailures = newVoteGauge("sweep_failures", "The number of expired votes a sweep could not finalize.")

	addCollect(collectVotes)
}

func collectVotes() {
	for _, status := range []string{vote.StatusUpcoming, vote.StatusOpen, vote.StatusClosed, vote.StatusFinalized} {
		votesCount.WithLabelValues(status).Set(float64(len(deps.Registry.VoteIDs(status))))
	}

	votesCreated.Set(float64(deps.VoteMetrics.VotesCreated.Load()))
	votesEdited.Set(float64(deps.VoteMetrics.VotesEdited.Load()))
	votesFinalized.Set(float64(deps.VoteMetrics.VotesFinalized.Load()))
	voteSubmissions.Set(float64(deps.VoteMetrics.Submissions.Load()))
	voteRewardsPaid.Set(float64(deps.VoteMetrics.RewardsPaid.Load()))
	voteRewardAmount.Set(float64(deps.VoteMetrics.RewardAmount.Load()))
	voteRefunds.Set(float64(deps.VoteMetrics.Refunds.Load()))
	voteRefundAmount.Set(float64(deps.VoteMetrics.RefundAmount.Load()))
	voteSweepFailures.Set(float64(deps.VoteMetrics.SweepFailures.Load()))
}
