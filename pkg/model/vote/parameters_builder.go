package vote

import (
	"github.com/pkg/errors"
)

// NewParametersBuilder creates a new ParametersBuilder.
func NewParametersBuilder(title string, startAt uint64, endAt uint64) *ParametersBuilder {
	return &ParametersBuilder{
		params: &Parameters{
			Title:   title,
			StartAt: startAt,
			EndAt:   endAt,
			Policy:  RewardPolicyFIFO,
		},
	}
}

// ParametersBuilder is used to easily build up vote Parameters.
type ParametersBuilder struct {
	params *Parameters
	err    error
}

// Policy sets the reward policy.
func (pb *ParametersBuilder) Policy(policy RewardPolicy) *ParametersBuilder {
	if pb.err != nil {
		return pb
	}
	pb.params.Policy = policy
	return pb
}

// PolicyCode sets the reward policy from its wire code.
func (pb *ParametersBuilder) PolicyCode(code uint8) *ParametersBuilder {
	if pb.err != nil {
		return pb
	}
	policy, err := RewardPolicyFromCode(code)
	if err != nil {
		pb.err = err
		return pb
	}
	pb.params.Policy = policy
	return pb
}

// Reward sets the token and the reward parameters.
func (pb *ParametersBuilder) Reward(token string, rewardPerPerson uint64, rewardMaxWinners uint64) *ParametersBuilder {
	if pb.err != nil {
		return pb
	}
	pb.params.Token = token
	pb.params.RewardPerPerson = rewardPerPerson
	pb.params.RewardMaxWinners = rewardMaxWinners
	return pb
}

// Options appends option texts.
func (pb *ParametersBuilder) Options(texts ...string) *ParametersBuilder {
	if pb.err != nil {
		return pb
	}
	pb.params.Options = append(pb.params.Options, texts...)
	return pb
}

// Build builds the Parameters.
func (pb *ParametersBuilder) Build() (*Parameters, error) {
	if pb.err != nil {
		return nil, pb.err
	}

	if _, err := pb.params.Validate(); err != nil {
		return nil, errors.WithMessage(err, "unable to build vote parameters")
	}
	return pb.params, nil
}
