package keeper_test

import (
	"github.com/sharehodl/sharehodl-blockchain/x/governance/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// TestDraftVotingExecutingCompleted walks the full §4.5.2 happy path —
// Draft -> Voting -> Executing -> Completed — mirroring scenarios S5/S6:
// a single signatory signs off (Draft -> Voting), a single Majority vote of
// 60% yes against a 100-unit governance mint tips the proposal straight to
// Executing, and both queued transactions execute once their delays have
// elapsed.
func (suite *KeeperTestSuite) TestDraftVotingExecutingCompleted() {
	governance := key(0x01)
	program := key(0x02)
	governanceMint := key(0x03)
	proposal := key(0x04)
	state := key(0x05)
	escrow := key(0x06)
	votingMint := key(0x07)
	yesMint := key(0x08)
	noMint := key(0x09)
	transaction := key(0x0a)
	transaction2 := key(0x0b)

	signatoryMint := key(0x10)
	sig1Account := key(0x11)

	voter := key(0x20)
	govSource := key(0x21)
	votingAccount := key(0x22)
	yesAccount := key(0x23)
	noAccount := key(0x24)

	err := suite.keeper.CreateGovernance(suite.ctx, keeper.CreateGovernanceParams{
		Governance:               governance,
		Program:                  program,
		GovernanceMint:           governanceMint,
		VoteThreshold:            60,
		MinimumSlotWaitingPeriod: 10,
		TimeLimit:                1000,
		ConsensusAlgorithm:       types.ConsensusMajority,
	})
	suite.Require().NoError(err)

	err = suite.keeper.InitProposal(suite.ctx, keeper.InitProposalParams{
		Proposal:            proposal,
		Governance:          governance,
		State:                state,
		TokenHoldingAccount: escrow,
		VotingMint:          votingMint,
		YesMint:             yesMint,
		NoMint:              noMint,
	})
	suite.Require().NoError(err)

	// Queue two transactions while still in Draft (§4.5.2 Draft): a second
	// pending transaction keeps the proposal in Executing after the first
	// one runs, so a repeat Execute of the first hits AlreadyExecuted
	// rather than the proposal having already completed out from under it.
	err = suite.keeper.AddCustomSingleSignerTransaction(suite.ctx, proposal, transaction, 10, []byte{0xde, 0xad, 0xbe, 0xef}, 4)
	suite.Require().NoError(err)
	err = suite.keeper.AddCustomSingleSignerTransaction(suite.ctx, proposal, transaction2, 0, []byte{0xca, 0xfe}, 2)
	suite.Require().NoError(err)

	// A single signatory: SignProposal immediately tips Draft -> Voting.
	suite.Require().NoError(suite.keeper.AddSignatory(suite.ctx, proposal, signatoryMint, sig1Account, key(0x30), governance))

	votingStartSlot := uint64(100)
	err = suite.keeper.SignProposal(suite.ctx, proposal, signatoryMint, sig1Account, key(0x30), votingStartSlot)
	suite.Require().NoError(err)

	s, found := suite.keeper.GetProposalState(suite.ctx, state)
	suite.Require().True(found)
	suite.Require().Equal(types.ProposalStatusVoting, s.Status)
	suite.Require().Equal(votingStartSlot, s.VotingStartedAt)

	// Governance mint supply of 100, a 60% yes vote tips Majority
	// consensus (S5).
	suite.token.SetSupply(governanceMint, 100)
	suite.token.SetBalance(govSource, 60)
	suite.Require().NoError(suite.keeper.DepositSourceTokens(suite.ctx, proposal, govSource, votingAccount, voter, 60, votingStartSlot+1))

	voteSlot := votingStartSlot + 2
	err = suite.keeper.Vote(suite.ctx, proposal, votingAccount, yesAccount, noAccount, voter, 60, 0, voteSlot)
	suite.Require().NoError(err)

	s, found = suite.keeper.GetProposalState(suite.ctx, state)
	suite.Require().True(found)
	suite.Require().Equal(types.ProposalStatusExecuting, s.Status)
	suite.Require().Equal(voteSlot, s.VotingEndedAt)

	authority := key(0x40)

	// Before the transaction's delay has elapsed: TooEarlyToExecute (S6).
	err = suite.keeper.Execute(suite.ctx, proposal, transaction, authority, nil, s.VotingEndedAt+9)
	suite.Require().ErrorIs(err, types.ErrTooEarlyToExecute)

	// Exactly at the delay: succeeds and marks executed, but the proposal
	// stays Executing because transaction2 hasn't run yet (S6).
	err = suite.keeper.Execute(suite.ctx, proposal, transaction, authority, nil, s.VotingEndedAt+10)
	suite.Require().NoError(err)

	tx, found := suite.keeper.GetTransaction(suite.ctx, transaction)
	suite.Require().True(found)
	suite.Require().True(tx.Executed)

	s, found = suite.keeper.GetProposalState(suite.ctx, state)
	suite.Require().True(found)
	suite.Require().EqualValues(1, s.NumberOfExecutedTransactions)
	suite.Require().Equal(types.ProposalStatusExecuting, s.Status)

	// A second Execute of the same transaction fails (S6).
	err = suite.keeper.Execute(suite.ctx, proposal, transaction, authority, nil, s.VotingEndedAt+10)
	suite.Require().ErrorIs(err, types.ErrAlreadyExecuted)

	// Running the second, already-due transaction completes the proposal.
	err = suite.keeper.Execute(suite.ctx, proposal, transaction2, authority, nil, s.VotingEndedAt+10)
	suite.Require().NoError(err)

	s, found = suite.keeper.GetProposalState(suite.ctx, state)
	suite.Require().True(found)
	suite.Require().EqualValues(2, s.NumberOfExecutedTransactions)
	suite.Require().Equal(types.ProposalStatusCompleted, s.Status)

	suite.Require().Len(suite.dispatcher.calls, 2)
	suite.Require().Equal(program, suite.dispatcher.calls[0].Program)
}

// TestVotingDefeatedOnTimeout checks §4.5.2's timeout rule: a Proposal
// that sits in Voting past governance.TimeLimit without tipping is
// defeated on the next instruction that touches it, since this module
// runs no background sweep.
func (suite *KeeperTestSuite) TestVotingDefeatedOnTimeout() {
	governance := key(0x50)
	governanceMint := key(0x51)
	proposal := key(0x52)
	state := key(0x53)
	escrow := key(0x54)
	votingMint := key(0x55)
	yesMint := key(0x56)
	noMint := key(0x57)

	signatoryMint := key(0x58)
	sigAccount := key(0x59)

	err := suite.keeper.CreateGovernance(suite.ctx, keeper.CreateGovernanceParams{
		Governance:         governance,
		GovernanceMint:     governanceMint,
		TimeLimit:          5,
		ConsensusAlgorithm: types.ConsensusMajority,
	})
	suite.Require().NoError(err)

	err = suite.keeper.InitProposal(suite.ctx, keeper.InitProposalParams{
		Proposal:            proposal,
		Governance:          governance,
		State:                state,
		TokenHoldingAccount: escrow,
		VotingMint:          votingMint,
		YesMint:             yesMint,
		NoMint:              noMint,
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.keeper.AddSignatory(suite.ctx, proposal, signatoryMint, sigAccount, key(0x5a), governance))
	votingStartSlot := uint64(10)
	suite.Require().NoError(suite.keeper.SignProposal(suite.ctx, proposal, signatoryMint, sigAccount, key(0x5a), votingStartSlot))

	// 16 - 10 = 6 > time_limit of 5: the next touch defeats the proposal
	// instead of letting the deposit through.
	suite.token.SetBalance(key(0x60), 10)
	err = suite.keeper.DepositSourceTokens(suite.ctx, proposal, key(0x60), key(0x61), key(0x62), 10, votingStartSlot+6)
	suite.Require().ErrorIs(err, types.ErrNotInVoting)

	s, found := suite.keeper.GetProposalState(suite.ctx, state)
	suite.Require().True(found)
	suite.Require().Equal(types.ProposalStatusDefeated, s.Status)
}
