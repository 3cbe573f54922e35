package keeper_test

import (
	"github.com/sharehodl/sharehodl-blockchain/x/governance/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// TestWithdrawVotingTokens exercises §4.5.3's withdrawal path with distinct
// voting/yes/no source accounts (never the voter's own identity key), the
// regression case for the bug where WithdrawVotingTokens used the bare
// voter key as the Transfer source for the yes/no dumps instead of the
// dedicated accounts Vote itself deposits into.
func (suite *KeeperTestSuite) TestWithdrawVotingTokens() {
	governance := key(0x70)
	governanceMint := key(0x71)
	proposal := key(0x72)
	state := key(0x73)
	escrow := key(0x74)
	votingMint := key(0x75)
	yesMint := key(0x76)
	noMint := key(0x77)

	signatoryMint := key(0x78)
	sigAccount := key(0x79)

	govSource := key(0x80)
	voter := key(0x81)
	votingAccount := key(0x82)
	yesAccount := key(0x83)
	noAccount := key(0x84)
	yesDump := key(0x85)
	noDump := key(0x86)
	governanceDestination := key(0x87)

	suite.Require().NoError(suite.keeper.CreateGovernance(suite.ctx, keeper.CreateGovernanceParams{
		Governance:         governance,
		GovernanceMint:     governanceMint,
		TimeLimit:          1000,
		ConsensusAlgorithm: types.ConsensusSuperMajority,
	}))
	suite.Require().NoError(suite.keeper.InitProposal(suite.ctx, keeper.InitProposalParams{
		Proposal:            proposal,
		Governance:          governance,
		State:                state,
		TokenHoldingAccount: escrow,
		VotingMint:          votingMint,
		YesMint:             yesMint,
		NoMint:              noMint,
	}))
	suite.Require().NoError(suite.keeper.AddSignatory(suite.ctx, proposal, signatoryMint, sigAccount, key(0x8a), governance))
	suite.Require().NoError(suite.keeper.SignProposal(suite.ctx, proposal, signatoryMint, sigAccount, key(0x8a), 10))

	// SuperMajority tips only once the tokens outside the yes column fall
	// below 66% of the governance mint's supply, so a supply much larger
	// than the deposit keeps this proposal in Voting after the vote below.
	suite.token.SetSupply(governanceMint, 1000)
	suite.token.SetBalance(govSource, 100)
	suite.Require().NoError(suite.keeper.DepositSourceTokens(suite.ctx, proposal, govSource, votingAccount, voter, 100, 11))

	// 30 yes / 20 no leaves 50 undecided; 970 of the 1000-supply governance
	// mint stay outside the yes column (0.97), so SuperMajority does not tip.
	suite.Require().NoError(suite.keeper.Vote(suite.ctx, proposal, votingAccount, yesAccount, noAccount, voter, 30, 20, 12))

	s, found := suite.keeper.GetProposalState(suite.ctx, state)
	suite.Require().True(found)
	suite.Require().Equal(types.ProposalStatusVoting, s.Status)

	suite.Require().NoError(suite.keeper.WithdrawVotingTokens(
		suite.ctx, proposal, votingAccount, yesAccount, noAccount, yesDump, noDump, governanceDestination, voter, 13,
	))

	record, found := suite.keeper.GetVoteRecord(suite.ctx, proposal, voter)
	suite.Require().True(found)
	suite.Require().Zero(record.UndecidedAmount)
	suite.Require().Zero(record.YesAmount)
	suite.Require().Zero(record.NoAmount)

	yesDumpBalance, err := suite.token.Balance(suite.ctx, yesDump)
	suite.Require().NoError(err)
	suite.Require().EqualValues(30, yesDumpBalance)

	noDumpBalance, err := suite.token.Balance(suite.ctx, noDump)
	suite.Require().NoError(err)
	suite.Require().EqualValues(20, noDumpBalance)

	// The dedicated yes/no accounts are drained, never the voter's own key.
	yesAccountBalance, err := suite.token.Balance(suite.ctx, yesAccount)
	suite.Require().NoError(err)
	suite.Require().Zero(yesAccountBalance)
	noAccountBalance, err := suite.token.Balance(suite.ctx, noAccount)
	suite.Require().NoError(err)
	suite.Require().Zero(noAccountBalance)
	voterBalance, err := suite.token.Balance(suite.ctx, voter)
	suite.Require().NoError(err)
	suite.Require().Zero(voterBalance)

	governanceDestinationBalance, err := suite.token.Balance(suite.ctx, governanceDestination)
	suite.Require().NoError(err)
	suite.Require().EqualValues(100, governanceDestinationBalance)
}

// TestWithdrawVotingTokensNotAllowedForCommittee confirms governance-only
// scope (§4.5.3): a committee-type proposal's voters can never withdraw.
func (suite *KeeperTestSuite) TestWithdrawVotingTokensNotAllowedForCommittee() {
	governance := key(0x90)
	governanceMint := key(0x91)
	proposal := key(0x92)
	state := key(0x93)
	escrow := key(0x94)
	votingMint := key(0x95)
	yesMint := key(0x96)
	noMint := key(0x97)

	signatoryMint := key(0x98)
	sigAccount := key(0x99)

	govSource := key(0xa0)
	voter := key(0xa1)
	votingAccount := key(0xa2)

	suite.Require().NoError(suite.keeper.CreateGovernance(suite.ctx, keeper.CreateGovernanceParams{
		Governance:         governance,
		GovernanceMint:     governanceMint,
		TimeLimit:          1000,
		ConsensusAlgorithm: types.ConsensusSuperMajority,
		IsCommitteeType:    true,
	}))
	suite.Require().NoError(suite.keeper.InitProposal(suite.ctx, keeper.InitProposalParams{
		Proposal:            proposal,
		Governance:          governance,
		State:                state,
		TokenHoldingAccount: escrow,
		VotingMint:          votingMint,
		YesMint:             yesMint,
		NoMint:              noMint,
	}))
	suite.Require().NoError(suite.keeper.AddSignatory(suite.ctx, proposal, signatoryMint, sigAccount, key(0xa8), governance))
	suite.Require().NoError(suite.keeper.SignProposal(suite.ctx, proposal, signatoryMint, sigAccount, key(0xa8), 10))

	suite.token.SetBalance(govSource, 100)
	suite.Require().NoError(suite.keeper.DepositSourceTokens(suite.ctx, proposal, govSource, votingAccount, voter, 100, 11))

	err := suite.keeper.WithdrawVotingTokens(
		suite.ctx, proposal, votingAccount, key(0xa3), key(0xa4), key(0xa5), key(0xa6), key(0xa7), voter, 12,
	)
	suite.Require().ErrorIs(err, types.ErrWithdrawNotAllowedForCommittee)
}
