package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// consensusThreshold returns the fraction of no_tokens_remaining/total_supply
// below which a proposal tips, per §4.5.2's three ConsensusAlgorithm
// variants. FullConsensus requires an exact 0: it gets a zero threshold
// here, and the caller tests it with ratio.IsZero() instead.
func consensusThreshold(algo types.ConsensusAlgorithm) decimal.Decimal {
	switch algo {
	case types.ConsensusMajority:
		d, err := decimal.New(5, 1) // 0.5
		if err != nil {
			panic(err)
		}
		return d
	case types.ConsensusSuperMajority:
		d, err := decimal.New(66, 2) // 0.66
		if err != nil {
			panic(err)
		}
		return d
	default:
		return decimal.Zero()
	}
}

// totalVotingSupply computes §4.5.2's total_supply: the governance mint's
// supply for governance-type proposals, or voting_mint.supply +
// yes.supply + no.supply for committee-type — preserved verbatim per §5's
// note that the committee-type sum (rather than a yes/no-adjusted figure)
// may be a latent bug in the original source.
func (k Keeper) totalVotingSupply(ctx sdk.Context, governance types.Governance, proposal types.Proposal) (uint64, error) {
	if !governance.IsCommitteeType {
		return k.tokenKeeper.Supply(ctx, governance.GovernanceMint)
	}
	votingSupply, err := k.tokenKeeper.Supply(ctx, proposal.VotingMint)
	if err != nil {
		return 0, err
	}
	yesSupply, err := k.tokenKeeper.Supply(ctx, proposal.YesMint)
	if err != nil {
		return 0, err
	}
	noSupply, err := k.tokenKeeper.Supply(ctx, proposal.NoMint)
	if err != nil {
		return 0, err
	}
	return votingSupply + yesSupply + noSupply, nil
}

// evaluateTipping implements the §4.5.2 Voting tipping check, run after
// every vote: tipped when no_tokens_remaining / total_supply falls (at or)
// below the consensus algorithm's threshold ('=' for FullConsensus, '<'
// otherwise). no_tokens_remaining is total_supply minus the yes mint's
// supply, i.e. every token not in the yes column; for committee-type
// proposals that comes to voting_mint.supply + no.supply.
func (k Keeper) evaluateTipping(ctx sdk.Context, governance types.Governance, proposal types.Proposal) (bool, error) {
	yesSupply, err := k.tokenKeeper.Supply(ctx, proposal.YesMint)
	if err != nil {
		return false, err
	}
	totalSupply, err := k.totalVotingSupply(ctx, governance, proposal)
	if err != nil {
		return false, err
	}
	if totalSupply == 0 {
		return false, nil
	}
	noRemaining := uint64(0)
	if yesSupply < totalSupply {
		noRemaining = totalSupply - yesSupply
	}

	ratio, err := decimal.FromU64(noRemaining).Quo(decimal.FromU64(totalSupply))
	if err != nil {
		return false, err
	}

	if governance.ConsensusAlgorithm == types.ConsensusFullConsensus {
		return ratio.IsZero(), nil
	}
	return ratio.LT(consensusThreshold(governance.ConsensusAlgorithm)), nil
}
