package keeper_test

import (
	"github.com/sharehodl/sharehodl-blockchain/x/governance/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// setupVotingProposal drives a fresh Governance/Proposal to Voting and
// deposits depositAmount governance tokens for a single voter, returning
// the keys the caller needs to cast a Vote.
func (suite *KeeperTestSuite) setupVotingProposal(seed byte, algo types.ConsensusAlgorithm, governanceMintSupply, depositAmount uint64) (proposal, state, votingAccount, yesAccount, noAccount, voter types.Key) {
	return suite.setupVotingProposalOf(seed, algo, false, governanceMintSupply, depositAmount)
}

// setupVotingProposalOf is setupVotingProposal with an explicit
// IsCommitteeType, letting tally_test pin evaluateTipping's numerator
// against both Governance and Committee proposals.
func (suite *KeeperTestSuite) setupVotingProposalOf(seed byte, algo types.ConsensusAlgorithm, isCommitteeType bool, governanceMintSupply, depositAmount uint64) (proposal, state, votingAccount, yesAccount, noAccount, voter types.Key) {
	governance := key2(seed, 0x01)
	governanceMint := key2(seed, 0x02)
	proposal = key2(seed, 0x03)
	state = key2(seed, 0x04)
	escrow := key2(seed, 0x05)
	votingMint := key2(seed, 0x06)
	yesMint := key2(seed, 0x07)
	noMint := key2(seed, 0x08)
	signatoryMint := key2(seed, 0x09)
	sigAccount := key2(seed, 0x0a)
	govSource := key2(seed, 0x0b)
	votingAccount = key2(seed, 0x0c)
	yesAccount = key2(seed, 0x0d)
	noAccount = key2(seed, 0x0e)
	voter = key2(seed, 0x0f)

	suite.Require().NoError(suite.keeper.CreateGovernance(suite.ctx, keeper.CreateGovernanceParams{
		Governance:         governance,
		GovernanceMint:     governanceMint,
		TimeLimit:          1000,
		ConsensusAlgorithm: algo,
		IsCommitteeType:    isCommitteeType,
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
	suite.Require().NoError(suite.keeper.AddSignatory(suite.ctx, proposal, signatoryMint, sigAccount, key2(seed, 0x10), governance))
	suite.Require().NoError(suite.keeper.SignProposal(suite.ctx, proposal, signatoryMint, sigAccount, key2(seed, 0x10), 1))

	suite.token.SetSupply(governanceMint, governanceMintSupply)
	suite.token.SetBalance(govSource, depositAmount)
	suite.Require().NoError(suite.keeper.DepositSourceTokens(suite.ctx, proposal, govSource, votingAccount, voter, depositAmount, 2))
	return
}

// TestTippingByConsensusAlgorithm covers §4.5.2's three ConsensusAlgorithm
// tipping rules: Majority tips below 50% no, SuperMajority below 66% no,
// FullConsensus only at exactly 0% no.
func (suite *KeeperTestSuite) TestTippingByConsensusAlgorithm() {
	cases := []struct {
		name    string
		seed    byte
		algo    types.ConsensusAlgorithm
		no      uint64
		wantTip bool
	}{
		{"majority tips under half", 0x01, types.ConsensusMajority, 0, true},
		{"majority does not tip at or above half", 0x02, types.ConsensusMajority, 60, false},
		{"super-majority tips under two-thirds", 0x03, types.ConsensusSuperMajority, 50, true},
		{"super-majority does not tip at or above two-thirds", 0x04, types.ConsensusSuperMajority, 70, false},
		{"full-consensus tips only at exactly zero", 0x05, types.ConsensusFullConsensus, 0, true},
		{"full-consensus does not tip with any no votes", 0x06, types.ConsensusFullConsensus, 1, false},
	}

	for _, tc := range cases {
		tc := tc
		suite.Run(tc.name, func() {
			proposal, state, votingAccount, yesAccount, noAccount, voter := suite.setupVotingProposal(tc.seed, tc.algo, 100, 100)

			yes := uint64(100) - tc.no
			err := suite.keeper.Vote(suite.ctx, proposal, votingAccount, yesAccount, noAccount, voter, yes, tc.no, 3)
			suite.Require().NoError(err)

			s, found := suite.keeper.GetProposalState(suite.ctx, state)
			suite.Require().True(found)
			if tc.wantTip {
				suite.Require().Equal(types.ProposalStatusExecuting, s.Status)
			} else {
				suite.Require().Equal(types.ProposalStatusVoting, s.Status)
			}
		})
	}
}

// TestTippingNumeratorDoesNotBranchByCommitteeType pins evaluateTipping's
// numerator: total_supply minus the yes mint's supply, computed the same
// way for Governance and Committee proposals (only totalVotingSupply's
// denominator branches on IsCommitteeType). For a Committee proposal that
// numerator comes to voting_mint.supply + no.supply.
func (suite *KeeperTestSuite) TestTippingNumeratorDoesNotBranchByCommitteeType() {
	proposal, state, votingAccount, yesAccount, noAccount, voter := suite.setupVotingProposalOf(0x07, types.ConsensusMajority, true, 0, 100)

	// 30 yes / 20 no leaves 50 undecided in the voting mint; total_supply
	// sums all three mints back to the full 100 deposited, and no_remaining
	// is 100 - 30 = 70 (the 50 undecided plus the 20 no).
	err := suite.keeper.Vote(suite.ctx, proposal, votingAccount, yesAccount, noAccount, voter, 30, 20, 3)
	suite.Require().NoError(err)

	// 70/100 = 0.7 is not below Majority's 0.5: the proposal stays in
	// Voting, exactly as a Governance-type proposal with the same yes/no
	// split and total_supply would.
	s, found := suite.keeper.GetProposalState(suite.ctx, state)
	suite.Require().True(found)
	suite.Require().Equal(types.ProposalStatusVoting, s.Status)
}
