package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// loadVoting loads a Proposal's Governance and ProposalState, applying the
// §4.5.2 voting timeout before returning: a Proposal past its time_limit
// that has not tipped is defeated on the next touch rather than on a
// background sweep, since this module runs no EndBlock loan-style scan.
func (k Keeper) loadVoting(ctx sdk.Context, proposal types.Key, currentSlot uint64) (types.Governance, types.Proposal, types.ProposalState, error) {
	p, found := k.GetProposal(ctx, proposal)
	if !found {
		return types.Governance{}, types.Proposal{}, types.ProposalState{}, types.ErrProposalNotFound
	}
	governance, found := k.GetGovernance(ctx, p.Governance)
	if !found {
		return types.Governance{}, types.Proposal{}, types.ProposalState{}, types.ErrGovernanceNotFound
	}
	s, found := k.GetProposalState(ctx, p.State)
	if !found {
		return types.Governance{}, types.Proposal{}, types.ProposalState{}, types.ErrProposalStateNotFound
	}

	if s.Status == types.ProposalStatusVoting && currentSlot-s.VotingStartedAt > governance.TimeLimit {
		s.Status = types.ProposalStatusDefeated
		if err := k.SetProposalState(ctx, p.State, s); err != nil {
			return types.Governance{}, types.Proposal{}, types.ProposalState{}, err
		}
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeProposalDefeated,
				sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			),
		)
	}
	if s.Status != types.ProposalStatusVoting {
		return types.Governance{}, types.Proposal{}, types.ProposalState{}, types.ErrNotInVoting
	}
	return governance, p, s, nil
}

// CreateEmptyGovernanceVoteRecord pre-registers a voter's zero-balance
// VoteRecord ahead of their first DepositSourceTokens, mirroring the
// governance-type instruction of the same name in §6.1. It moves no
// tokens, and fails if a record already exists for this (proposal, owner)
// pair or the proposal is not in Voting.
func (k Keeper) CreateEmptyGovernanceVoteRecord(ctx sdk.Context, proposal types.Key, voter types.Key, currentSlot uint64) error {
	if _, _, _, err := k.loadVoting(ctx, proposal, currentSlot); err != nil {
		return err
	}
	if _, found := k.GetVoteRecord(ctx, proposal, voter); found {
		return types.ErrAlreadyInUse
	}
	return k.SetVoteRecord(ctx, types.VoteRecord{Proposal: proposal, Owner: voter})
}

// DepositSourceTokens escrows governance tokens and mints an equal amount
// of voting tokens to the voter, creating a VoteRecord on first deposit
// (§4.5.3).
func (k Keeper) DepositSourceTokens(ctx sdk.Context, proposal types.Key, source, votingDestination, voter types.Key, amount uint64, currentSlot uint64) error {
	_, p, _, err := k.loadVoting(ctx, proposal, currentSlot)
	if err != nil {
		return err
	}

	if err := k.tokenKeeper.Transfer(ctx, source, p.TokenHoldingAccount, voter, amount); err != nil {
		return types.ErrTokenTransferFailed
	}
	if err := k.tokenKeeper.MintTo(ctx, p.VotingMint, votingDestination, proposal, amount); err != nil {
		return types.ErrTokenMintToFailed
	}

	record, found := k.GetVoteRecord(ctx, proposal, voter)
	if !found {
		record = types.VoteRecord{Proposal: proposal, Owner: voter}
	}
	record.UndecidedAmount += amount
	if err := k.SetVoteRecord(ctx, record); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSourceTokensDeposited,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyVoter, voter.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, u64s(amount)),
		),
	)
	return nil
}

// Vote burns yes+no of the voter's voting tokens and mints them to the
// proposal's yes/no accounts, then evaluates tipping (§4.5.2, §4.5.3).
func (k Keeper) Vote(ctx sdk.Context, proposal types.Key, votingSource, yesDestination, noDestination, voter types.Key, yes, no uint64, currentSlot uint64) error {
	governance, p, s, err := k.loadVoting(ctx, proposal, currentSlot)
	if err != nil {
		return err
	}
	record, found := k.GetVoteRecord(ctx, proposal, voter)
	if !found {
		return types.ErrVoteRecordNotFound
	}
	total := yes + no
	if total > record.UndecidedAmount {
		return types.ErrInsufficientVotingTokens
	}

	if err := k.tokenKeeper.Burn(ctx, votingSource, p.VotingMint, voter, total); err != nil {
		return types.ErrTokenBurnFailed
	}
	if yes > 0 {
		if err := k.tokenKeeper.MintTo(ctx, p.YesMint, yesDestination, proposal, yes); err != nil {
			return types.ErrTokenMintToFailed
		}
	}
	if no > 0 {
		if err := k.tokenKeeper.MintTo(ctx, p.NoMint, noDestination, proposal, no); err != nil {
			return types.ErrTokenMintToFailed
		}
	}

	record.UndecidedAmount -= total
	record.YesAmount += yes
	record.NoAmount += no
	if err := k.SetVoteRecord(ctx, record); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeVoteCast,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyVoter, voter.String()),
			sdk.NewAttribute(types.AttributeKeyYesAmount, u64s(yes)),
			sdk.NewAttribute(types.AttributeKeyNoAmount, u64s(no)),
		),
	)

	return k.tryTip(ctx, governance, p, s, proposal, currentSlot)
}

// RelinquishVote reverses a prior Vote: burns yes/no voting-escrow tokens
// and credits the amount back to undecided, letting a voter change their
// mind before the proposal tips. Supplements §4.5.3's Vote-only minimum,
// grounded on the original timelock processor's relinquish-vote path.
func (k Keeper) RelinquishVote(ctx sdk.Context, proposal types.Key, yesSource, noSource, votingDestination, voter types.Key, yes, no uint64, currentSlot uint64) error {
	_, p, _, err := k.loadVoting(ctx, proposal, currentSlot)
	if err != nil {
		return err
	}
	record, found := k.GetVoteRecord(ctx, proposal, voter)
	if !found {
		return types.ErrVoteRecordNotFound
	}
	if yes > record.YesAmount || no > record.NoAmount {
		return types.ErrInsufficientVotingTokens
	}

	if yes > 0 {
		if err := k.tokenKeeper.Burn(ctx, yesSource, p.YesMint, voter, yes); err != nil {
			return types.ErrTokenBurnFailed
		}
	}
	if no > 0 {
		if err := k.tokenKeeper.Burn(ctx, noSource, p.NoMint, voter, no); err != nil {
			return types.ErrTokenBurnFailed
		}
	}
	total := yes + no
	if err := k.tokenKeeper.MintTo(ctx, p.VotingMint, votingDestination, proposal, total); err != nil {
		return types.ErrTokenMintToFailed
	}

	record.YesAmount -= yes
	record.NoAmount -= no
	record.UndecidedAmount += total
	if err := k.SetVoteRecord(ctx, record); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeVoteRelinquished,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyVoter, voter.String()),
		),
	)
	return nil
}

// WithdrawVotingTokens burns all of a voter's remaining voting tokens,
// moves the equivalent yes/no tokens to dump accounts, and releases the
// underlying escrowed governance tokens back to the voter. Governance-type
// proposals only (§4.5.3).
func (k Keeper) WithdrawVotingTokens(ctx sdk.Context, proposal types.Key, votingSource, yesSource, noSource, yesDumpDestination, noDumpDestination, governanceDestination, voter types.Key, currentSlot uint64) error {
	governance, p, s, err := k.loadVoting(ctx, proposal, currentSlot)
	if err != nil {
		return err
	}
	if governance.IsCommitteeType {
		return types.ErrWithdrawNotAllowedForCommittee
	}
	_ = s

	record, found := k.GetVoteRecord(ctx, proposal, voter)
	if !found {
		return types.ErrVoteRecordNotFound
	}

	undecided := record.UndecidedAmount
	if undecided > 0 {
		if err := k.tokenKeeper.Burn(ctx, votingSource, p.VotingMint, voter, undecided); err != nil {
			return types.ErrTokenBurnFailed
		}
	}
	if record.YesAmount > 0 {
		if err := k.tokenKeeper.Transfer(ctx, yesSource, yesDumpDestination, voter, record.YesAmount); err != nil {
			return types.ErrTokenTransferFailed
		}
	}
	if record.NoAmount > 0 {
		if err := k.tokenKeeper.Transfer(ctx, noSource, noDumpDestination, voter, record.NoAmount); err != nil {
			return types.ErrTokenTransferFailed
		}
	}

	released := undecided + record.YesAmount + record.NoAmount
	if released > 0 {
		if err := k.tokenKeeper.Transfer(ctx, p.TokenHoldingAccount, governanceDestination, proposal, released); err != nil {
			return types.ErrTokenTransferFailed
		}
	}

	record.UndecidedAmount = 0
	record.YesAmount = 0
	record.NoAmount = 0
	if err := k.SetVoteRecord(ctx, record); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeVotingTokensWithdrawn,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyVoter, voter.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, u64s(released)),
		),
	)
	return nil
}

// tryTip evaluates §4.5.2's tipping rule and transitions Voting →
// Executing when it fires.
func (k Keeper) tryTip(ctx sdk.Context, governance types.Governance, p types.Proposal, s types.ProposalState, proposal types.Key, currentSlot uint64) error {
	tipped, err := k.evaluateTipping(ctx, governance, p)
	if err != nil {
		return err
	}
	if !tipped {
		return nil
	}

	s.Status = types.ProposalStatusExecuting
	s.VotingEndedAt = currentSlot
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProposalTipped,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
		),
	)
	return nil
}

func u64s(v uint64) string {
	return math.NewUint(v).String()
}
