package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// Execute dispatches a queued CustomSingleSignerTransaction's opaque
// instruction once its delay has elapsed, marking it executed and
// advancing the Proposal to Completed once every queued transaction has
// run (§4.5.2 Executing).
func (k Keeper) Execute(ctx sdk.Context, proposal, transaction types.Key, authority types.Key, accounts []types.Key, currentSlot uint64) error {
	p, found := k.GetProposal(ctx, proposal)
	if !found {
		return types.ErrProposalNotFound
	}
	governance, found := k.GetGovernance(ctx, p.Governance)
	if !found {
		return types.ErrGovernanceNotFound
	}
	s, found := k.GetProposalState(ctx, p.State)
	if !found {
		return types.ErrProposalStateNotFound
	}
	if s.Status != types.ProposalStatusExecuting {
		return types.ErrNotInExecuting
	}

	t, found := k.GetTransaction(ctx, transaction)
	if !found {
		return types.ErrTransactionNotFound
	}
	if t.Executed {
		return types.ErrAlreadyExecuted
	}
	if currentSlot-s.VotingEndedAt < t.DelaySlots {
		return types.ErrTooEarlyToExecute
	}

	dispatchAccounts := accounts
	hasAuthority := false
	for _, a := range dispatchAccounts {
		if a == authority {
			hasAuthority = true
			break
		}
	}
	if !hasAuthority {
		dispatchAccounts = append(dispatchAccounts, authority)
	}

	if err := k.dispatcher.Dispatch(ctx, authority, governance.Program, dispatchAccounts, t.Instruction); err != nil {
		return types.ErrDispatchFailed
	}

	t.Executed = true
	if err := k.SetTransaction(ctx, transaction, t); err != nil {
		return err
	}

	s.NumberOfExecutedTransactions++
	if s.NumberOfExecutedTransactions == s.NumberOfTransactions {
		s.Status = types.ProposalStatusCompleted
	}
	if err := k.SetProposalState(ctx, p.State, s); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransactionExecuted,
			sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			sdk.NewAttribute(types.AttributeKeyTransaction, transaction.String()),
		),
	)
	if s.Status == types.ProposalStatusCompleted {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeProposalCompleted,
				sdk.NewAttribute(types.AttributeKeyProposal, proposal.String()),
			),
		)
	}
	return nil
}
