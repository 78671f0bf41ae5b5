package mqtt

import (
	"github.com/gohornet/votereward/pkg/model/vote"
)

// submissionPayload is published on the vote and the voter submission topics.
type submissionPayload struct {
	VoteID uint64 `json:"voteId"`
	*vote.SubmissionRecord
}

// payoutPayload is published on the vote and the recipient payout topics.
type payoutPayload struct {
	VoteID uint64 `json:"voteId"`
	Token  string `json:"token"`
	*vote.Payout
}

func publish(topic string, data interface{}) {
	if err := deps.MQTTBroker.PublishJSON(topic, data); err != nil {
		Plugin.LogWarnf("failed to publish on topic %s: %s", topic, err)
	}
}

func onVoteInfo(info *vote.VoteInfo) {
	publish(topicVotes, info)
	publish(voteTopic(topicVote, info.ID), info)
}

func onSubmission(event *vote.SubmissionEvent) {
	payload := &submissionPayload{VoteID: event.VoteID, SubmissionRecord: event.Submission}
	publish(voteTopic(topicVoteSubmissions, event.VoteID), payload)
	publish(principalTopic(topicVoterSubmissions, event.Submission.Voter.String()), payload)
}

func onPayout(event *vote.PayoutEvent) {
	payload := &payoutPayload{VoteID: event.VoteID, Token: event.Token, Payout: event.Payout}
	publish(voteTopic(topicVotePayouts, event.VoteID), payload)
	publish(principalTopic(topicPrincipalPayouts, event.Payout.Recipient.String()), payload)
}

func onAdminChange(change *vote.AdminChange) {
	publish(topicAdmin, change)
}
