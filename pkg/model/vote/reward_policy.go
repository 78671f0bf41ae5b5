package vote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// RewardPolicy defines who gets paid out of a vote's escrow and when.
type RewardPolicy byte

const (
	// RewardPolicyFIFO pays the first submitters as soon as they submit.
	RewardPolicyFIFO RewardPolicy = 0
	// RewardPolicyWinner pays the first submitters on a most voted option at finalization.
	RewardPolicyWinner RewardPolicy = 1
)

// RewardPolicyFromCode maps a wire code to a RewardPolicy.
func RewardPolicyFromCode(code uint8) (RewardPolicy, error) {
	switch RewardPolicy(code) {
	case RewardPolicyFIFO:
		return RewardPolicyFIFO, nil
	case RewardPolicyWinner:
		return RewardPolicyWinner, nil
	default:
		return 0, errors.WithMessagef(ErrInvalidRequest, "unknown reward policy code: %d", code)
	}
}

// RewardPolicyFromString parses the name of a policy ("fifo", "winner").
func RewardPolicyFromString(s string) (RewardPolicy, error) {
	switch strings.ToLower(s) {
	case "fifo":
		return RewardPolicyFIFO, nil
	case "winner":
		return RewardPolicyWinner, nil
	default:
		return 0, errors.WithMessagef(ErrInvalidRequest, "unknown reward policy: %s", s)
	}
}

// Code returns the wire code of the policy.
func (p RewardPolicy) Code() uint8 {
	return uint8(p)
}

func (p RewardPolicy) String() string {
	switch p {
	case RewardPolicyFIFO:
		return "fifo"
	case RewardPolicyWinner:
		return "winner"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

func (p RewardPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Code())
}

// UnmarshalJSON accepts the wire code as well as the policy name.
func (p *RewardPolicy) UnmarshalJSON(data []byte) error {
	var code uint8
	if err := json.Unmarshal(data, &code); err == nil {
		policy, err := RewardPolicyFromCode(code)
		if err != nil {
			return err
		}
		*p = policy
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return errors.WithMessage(ErrInvalidRequest, "reward policy must be a code or a name")
	}

	policy, err := RewardPolicyFromString(name)
	if err != nil {
		return err
	}
	*p = policy
	return nil
}
