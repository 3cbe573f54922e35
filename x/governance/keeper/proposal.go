package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// =============================================================================
// Signatories (§4.5.4)
// =============================================================================

// AddSignatory mints a signatory token to a new holder and bumps the
// signatories_count, valid only while the Proposal is in Draft.
func (k Keeper) AddSignatory(ctx sdk.Context, proposal types.Key, signatoryMint, signatoryTokenAccount, holder, authority types.Key) error {
	p, s, err := k.requireDraft(ctx, proposal)
	if err != nil {
		return err
	}

	balance, err := k.tokenKeeper.Balance(ctx, signatoryTokenAccount)
	if err != nil {
		return err
	}
	if balance > 0 {
		return types.ErrSignatoryAlreadyExists
	}

	if err := k.tokenKeeper.MintTo(ctx, signatoryMint, signatoryTokenAccount, authority, 1); err != nil {
		return types.ErrTokenMintToFailed
	}

	s.SignatoriesCount++
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSignatoryAdded,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
		),
	)
	return nil
}

// RemoveSignatory burns one signatory token and decrements the count,
// valid only while the Proposal is in Draft.
func (k Keeper) RemoveSignatory(ctx sdk.Context, proposal types.Key, signatoryMint, signatoryTokenAccount, authority types.Key) error {
	p, s, err := k.requireDraft(ctx, proposal)
	if err != nil {
		return err
	}
	if s.SignatoriesCount == 0 {
		return types.ErrInvalidInput
	}

	if err := k.tokenKeeper.Burn(ctx, signatoryTokenAccount, signatoryMint, authority, 1); err != nil {
		return types.ErrTokenBurnFailed
	}

	s.SignatoriesCount--
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSignatoryRemoved,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
		),
	)
	return nil
}

// SignProposal consumes one signatory's sign-off token; once every
// signatory has signed, the Proposal transitions Draft → Voting
// (§4.5.2).
func (k Keeper) SignProposal(ctx sdk.Context, proposal types.Key, signatoryMint, signatoryTokenAccount, signatory types.Key, currentSlot uint64) error {
	p, s, err := k.requireDraft(ctx, proposal)
	if err != nil {
		return err
	}

	balance, err := k.tokenKeeper.Balance(ctx, signatoryTokenAccount)
	if err != nil {
		return err
	}
	if balance == 0 {
		return types.ErrInvalidInput
	}

	if err := k.tokenKeeper.Burn(ctx, signatoryTokenAccount, signatoryMint, signatory, 1); err != nil {
		return types.ErrTokenBurnFailed
	}

	s.SignatoriesSignedOffCount++
	if s.SignatoriesSignedOffCount == s.SignatoriesCount {
		s.Status = types.ProposalStatusVoting
		s.VotingStartedAt = currentSlot
	}
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProposalSigned,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyStatus, s.Status.String()),
		),
	)
	return nil
}

// =============================================================================
// Transactions (§3, §4.5.2 Draft)
// =============================================================================

// AddCustomSingleSignerTransaction queues a new delayed instruction into
// the first free slot of a Draft Proposal's transaction list.
func (k Keeper) AddCustomSingleSignerTransaction(ctx sdk.Context, proposal, transaction types.Key, delaySlots uint64, instruction []byte, instructionEndIndex uint32) error {
	p, s, err := k.requireDraft(ctx, proposal)
	if err != nil {
		return err
	}

	slot := -1
	for i, t := range s.Transactions {
		if t.IsZero() {
			slot = i
			break
		}
	}
	if slot < 0 {
		return types.ErrTransactionSlotFull
	}

	t := types.CustomSingleSignerTransaction{
		DelaySlots:          delaySlots,
		Instruction:         instruction,
		InstructionEndIndex: instructionEndIndex,
	}
	if err := k.SetTransaction(ctx, transaction, t); err != nil {
		return err
	}

	s.Transactions[slot] = transaction
	s.NumberOfTransactions++
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransactionAdded,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyTransaction, transaction.String()),
		),
	)
	return nil
}

// RemoveTransaction clears a queued transaction's slot from a Draft
// Proposal's transaction list.
func (k Keeper) RemoveTransaction(ctx sdk.Context, proposal, transaction types.Key) error {
	p, s, err := k.requireDraft(ctx, proposal)
	if err != nil {
		return err
	}

	found := false
	for i, t := range s.Transactions {
		if t == transaction {
			s.Transactions[i] = types.ZeroKey
			found = true
			break
		}
	}
	if !found {
		return types.ErrTransactionNotFound
	}

	k.DeleteTransaction(ctx, transaction)
	s.NumberOfTransactions--
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransactionRemoved,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyTransaction, transaction.String()),
		),
	)
	return nil
}

// UpdateTransactionDelaySlots changes a queued transaction's delay_slots
// while the owning Proposal is still in Draft.
func (k Keeper) UpdateTransactionDelaySlots(ctx sdk.Context, proposal, transaction types.Key, delaySlots uint64) error {
	if _, _, err := k.requireDraft(ctx, proposal); err != nil {
		return err
	}
	t, found := k.GetTransaction(ctx, transaction)
	if !found {
		return types.ErrTransactionNotFound
	}
	t.DelaySlots = delaySlots
	return k.SetTransaction(ctx, transaction, t)
}

// DeleteProposal marks a Draft Proposal Deleted; no further state
// transitions are possible (§4.5.2).
func (k Keeper) DeleteProposal(ctx sdk.Context, proposal types.Key) error {
	p, s, err := k.requireDraft(ctx, proposal)
	if err != nil {
		return err
	}
	s.Status = types.ProposalStatusDeleted
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProposalDeleted,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
		),
	)
	return nil
}
