package votes

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/restapi"
)

func getRegistry() *RegistryResponse {
	resp := &RegistryResponse{
		Initialized: deps.Registry.IsInitialized(),
		NextVoteID:  deps.Registry.NextID(),
	}

	if admin, err := deps.Registry.Admin(); err == nil {
		resp.Admin = &admin
	}

	return resp
}

func initRegistry(c echo.Context) (*RegistryResponse, error) {
	caller, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	if err := deps.Registry.Init(caller); err != nil {
		return nil, httpError(err)
	}

	return getRegistry(), nil
}

func setAdmin(c echo.Context) (*RegistryResponse, error) {
	caller, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	request := &SetAdminRequest{}
	if err := restapi.ParseJSONRequest(c, request); err != nil {
		return nil, err
	}

	if request.Admin.IsNull() {
		return nil, errors.WithMessage(restapi.ErrInvalidParameter, "admin not specified")
	}

	if err := deps.Registry.SetAdmin(caller, request.Admin); err != nil {
		return nil, httpError(err)
	}

	return getRegistry(), nil
}

func sweepExpiredVotes(c echo.Context) (*SweepResponse, error) {
	if _, err := restapi.CallerFromContext(c); err != nil {
		return nil, err
	}

	if !deps.Registry.IsInitialized() {
		return nil, httpError(vote.ErrNotInitialized)
	}

	return &SweepResponse{Finalized: deps.Registry.SweepExpiredVotes()}, nil
}

func getVoteIDs(c echo.Context) (*VoteIDsResponse, error) {
	statuses, err := restapi.ParseStatusQueryParam(c, vote.StatusUpcoming, vote.StatusOpen, vote.StatusClosed, vote.StatusFinalized)
	if err != nil {
		return nil, err
	}

	limit, err := restapi.ParseLimitQueryParam(c, deps.RestAPILimitsMaxResults)
	if err != nil {
		return nil, err
	}

	voteIDs := deps.Registry.VoteIDs(statuses...)
	if len(voteIDs) > limit {
		voteIDs = voteIDs[:limit]
	}

	return &VoteIDsResponse{VoteIDs: voteIDs}, nil
}

func createVote(c echo.Context) (*CreateVoteResponse, error) {
	caller, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	request := &CreateVoteRequest{}
	if err := restapi.ParseJSONRequest(c, request); err != nil {
		return nil, err
	}

	voteID := deps.Registry.NextID()
	if request.VoteID != nil {
		voteID = *request.VoteID
	}

	if err := deps.Registry.CreateVote(caller, voteID, &request.Parameters); err != nil {
		return nil, httpError(err)
	}

	c.Response().Header().Set(echo.HeaderLocation, c.Path()+"/"+strconv.FormatUint(voteID, 10))
	return &CreateVoteResponse{VoteID: voteID}, nil
}

func getVoteInfo(c echo.Context) (*vote.VoteInfo, error) {
	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	info, err := deps.Registry.VoteInfo(voteID)
	if err != nil {
		return nil, httpError(err)
	}

	return info, nil
}

func editVote(c echo.Context) (*vote.VoteInfo, error) {
	caller, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	params := &vote.Parameters{}
	if err := restapi.ParseJSONRequest(c, params); err != nil {
		return nil, err
	}

	if err := deps.Registry.EditVote(caller, voteID, params); err != nil {
		return nil, httpError(err)
	}

	return getVoteInfo(c)
}

func submitVote(c echo.Context) (*vote.VoteInfo, error) {
	voter, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	request := &SubmitVoteRequest{}
	if err := restapi.ParseJSONRequest(c, request); err != nil {
		return nil, err
	}

	if err := deps.Registry.SubmitVote(voter, voteID, request.OptionIdx); err != nil {
		return nil, httpError(err)
	}

	return getVoteInfo(c)
}

func finalizeVote(c echo.Context) (*vote.VoteInfo, error) {
	caller, err := restapi.CallerFromContext(c)
	if err != nil {
		return nil, err
	}

	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	if err := deps.Registry.FinalizeVote(caller, voteID); err != nil {
		return nil, httpError(err)
	}

	return getVoteInfo(c)
}

func getVoteOptionActions(c echo.Context) (*vote.OptionActions, error) {
	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	optionIdx, err := restapi.ParseOptionIndexParam(c)
	if err != nil {
		return nil, err
	}

	actions, err := deps.Registry.VoteOptionActions(voteID, optionIdx)
	if err != nil {
		return nil, httpError(err)
	}

	return actions, nil
}

func getVotePayouts(c echo.Context) (*PayoutsResponse, error) {
	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	v, err := deps.Registry.Vote(voteID)
	if err != nil {
		return nil, httpError(err)
	}

	payouts, err := deps.Registry.VotePayouts(voteID)
	if err != nil {
		return nil, httpError(err)
	}

	return &PayoutsResponse{
		VoteID:  voteID,
		Token:   v.Token,
		Payouts: payouts,
	}, nil
}

func getVoterVotes(c echo.Context) (*VoteIDsResponse, error) {
	voter, err := restapi.ParsePrincipalParam(c)
	if err != nil {
		return nil, err
	}

	voteIDs := deps.Registry.VoterVotes(voter)
	if voteIDs == nil {
		voteIDs = []uint64{}
	}

	return &VoteIDsResponse{VoteIDs: voteIDs}, nil
}

func hasSubmitted(c echo.Context) (*SubmittedResponse, error) {
	voter, err := restapi.ParsePrincipalParam(c)
	if err != nil {
		return nil, err
	}

	voteID, err := restapi.ParseVoteIDParam(c)
	if err != nil {
		return nil, err
	}

	return &SubmittedResponse{Submitted: deps.Registry.HasSubmitted(voter, voteID)}, nil
}
