package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// Keeper of the governance store. Like x/lending's Keeper, it holds no
// business state of its own beyond the store keys and the injected
// collaborators the core requires: the §6.3 token subsystem and the
// cross-program instruction dispatcher Execute needs (§4.5.2).
type Keeper struct {
	cdc        codec.BinaryCodec
	storeKey   storetypes.StoreKey
	memKey     storetypes.StoreKey
	tokenKeeper types.TokenKeeper
	dispatcher  types.InstructionDispatcher
}

// NewKeeper creates a new governance Keeper instance.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey,
	memKey storetypes.StoreKey,
	tokenKeeper types.TokenKeeper,
	dispatcher types.InstructionDispatcher,
) *Keeper {
	return &Keeper{
		cdc:         cdc,
		storeKey:    storeKey,
		memKey:      memKey,
		tokenKeeper: tokenKeeper,
		dispatcher:  dispatcher,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// =============================================================================
// Record persistence (§3). Every record hydrates from its opaque 32-byte key
// and is re-serialized bit-exact per §6.2, the same pattern x/lending's
// keeper uses for LendingMarket/Reserve/Obligation.
// =============================================================================

func (k Keeper) GetGovernance(ctx sdk.Context, governance types.Key) (types.Governance, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetGovernanceKey(governance))
	if bz == nil {
		return types.Governance{}, false
	}
	var g types.Governance
	if err := g.UnmarshalBinary(bz); err != nil {
		return types.Governance{}, false
	}
	return g, true
}

func (k Keeper) SetGovernance(ctx sdk.Context, governance types.Key, g types.Governance) error {
	bz, err := g.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetGovernanceKey(governance), bz)
	return nil
}

func (k Keeper) GetProposal(ctx sdk.Context, proposal types.Key) (types.Proposal, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetProposalKey(proposal))
	if bz == nil {
		return types.Proposal{}, false
	}
	var p types.Proposal
	if err := p.UnmarshalBinary(bz); err != nil {
		return types.Proposal{}, false
	}
	return p, true
}

func (k Keeper) SetProposal(ctx sdk.Context, proposal types.Key, p types.Proposal) error {
	bz, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetProposalKey(proposal), bz)
	return nil
}

func (k Keeper) GetProposalState(ctx sdk.Context, state types.Key) (types.ProposalState, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetProposalStateKey(state))
	if bz == nil {
		return types.ProposalState{}, false
	}
	var s types.ProposalState
	if err := s.UnmarshalBinary(bz); err != nil {
		return types.ProposalState{}, false
	}
	return s, true
}

func (k Keeper) SetProposalState(ctx sdk.Context, state types.Key, s types.ProposalState) error {
	bz, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetProposalStateKey(state), bz)
	return nil
}

func (k Keeper) GetTransaction(ctx sdk.Context, transaction types.Key) (types.CustomSingleSignerTransaction, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetTransactionKey(transaction))
	if bz == nil {
		return types.CustomSingleSignerTransaction{}, false
	}
	var t types.CustomSingleSignerTransaction
	if err := t.UnmarshalBinary(bz); err != nil {
		return types.CustomSingleSignerTransaction{}, false
	}
	return t, true
}

func (k Keeper) SetTransaction(ctx sdk.Context, transaction types.Key, t types.CustomSingleSignerTransaction) error {
	bz, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetTransactionKey(transaction), bz)
	return nil
}

func (k Keeper) DeleteTransaction(ctx sdk.Context, transaction types.Key) {
	ctx.KVStore(k.storeKey).Delete(types.GetTransactionKey(transaction))
}

func (k Keeper) GetVoteRecord(ctx sdk.Context, proposal, owner types.Key) (types.VoteRecord, bool) {
	bz := ctx.KVStore(k.storeKey).Get(types.GetVoteRecordKey(proposal, owner))
	if bz == nil {
		return types.VoteRecord{}, false
	}
	var v types.VoteRecord
	if err := v.UnmarshalBinary(bz); err != nil {
		return types.VoteRecord{}, false
	}
	return v, true
}

func (k Keeper) SetVoteRecord(ctx sdk.Context, v types.VoteRecord) error {
	bz, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetVoteRecordKey(v.Proposal, v.Owner), bz)
	return nil
}

// =============================================================================
// Genesis iteration helpers, mirroring x/lending/keeper's GetAllReserves et al.
// =============================================================================

type GovernanceRecord struct {
	Key        types.Key
	Governance types.Governance
}

func (k Keeper) GetAllGovernances(ctx sdk.Context) []GovernanceRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, types.GovernancePrefix)
	defer iterator.Close()

	var records []GovernanceRecord
	for ; iterator.Valid(); iterator.Next() {
		key, err := types.KeyFromBytes(iterator.Key()[len(types.GovernancePrefix):])
		if err != nil {
			continue
		}
		var g types.Governance
		if err := g.UnmarshalBinary(iterator.Value()); err != nil {
			continue
		}
		records = append(records, GovernanceRecord{Key: key, Governance: g})
	}
	return records
}

type ProposalRecord struct {
	Key      types.Key
	Proposal types.Proposal
}

func (k Keeper) GetAllProposals(ctx sdk.Context) []ProposalRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, types.ProposalPrefix)
	defer iterator.Close()

	var records []ProposalRecord
	for ; iterator.Valid(); iterator.Next() {
		key, err := types.KeyFromBytes(iterator.Key()[len(types.ProposalPrefix):])
		if err != nil {
			continue
		}
		var p types.Proposal
		if err := p.UnmarshalBinary(iterator.Value()); err != nil {
			continue
		}
		records = append(records, ProposalRecord{Key: key, Proposal: p})
	}
	return records
}

type ProposalStateRecord struct {
	Key   types.Key
	State types.ProposalState
}

func (k Keeper) GetAllProposalStates(ctx sdk.Context) []ProposalStateRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, types.ProposalStatePrefix)
	defer iterator.Close()

	var records []ProposalStateRecord
	for ; iterator.Valid(); iterator.Next() {
		key, err := types.KeyFromBytes(iterator.Key()[len(types.ProposalStatePrefix):])
		if err != nil {
			continue
		}
		var s types.ProposalState
		if err := s.UnmarshalBinary(iterator.Value()); err != nil {
			continue
		}
		records = append(records, ProposalStateRecord{Key: key, State: s})
	}
	return records
}

// =============================================================================
// CreateGovernance (§4.5.1)
// =============================================================================

type CreateGovernanceParams struct {
	Governance               types.Key
	Program                  types.Key
	GovernanceMint           types.Key
	HasCouncilMint           bool
	CouncilMint              types.Key
	VoteThreshold            uint8
	MinimumSlotWaitingPeriod uint64
	TimeLimit                uint64
	ConsensusAlgorithm       types.ConsensusAlgorithm
	IsCommitteeType          bool
	Name                     [types.NameSize]byte
}

// CreateGovernance binds a new Governance to its guarded program (§4.5.1).
// Proof that the guarded program's current upgrade authority signed this
// instruction, and the later out-of-band authority handoff, are host/CPI
// concerns outside this keeper's persisted state.
func (k Keeper) CreateGovernance(ctx sdk.Context, p CreateGovernanceParams) error {
	if _, found := k.GetGovernance(ctx, p.Governance); found {
		return types.ErrAlreadyInUse
	}
	if p.VoteThreshold > 100 {
		return types.ErrInvalidInput
	}

	g := types.Governance{
		Program:                  p.Program,
		GovernanceMint:           p.GovernanceMint,
		HasCouncilMint:           p.HasCouncilMint,
		CouncilMint:              p.CouncilMint,
		VoteThreshold:            p.VoteThreshold,
		MinimumSlotWaitingPeriod: p.MinimumSlotWaitingPeriod,
		TimeLimit:                p.TimeLimit,
		ConsensusAlgorithm:       p.ConsensusAlgorithm,
		IsCommitteeType:          p.IsCommitteeType,
		Name:                     p.Name,
		Count:                    0,
	}
	if err := k.SetGovernance(ctx, p.Governance, g); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeGovernanceCreated,
			sdk.NewAttribute(types.AttributeKeyGovernance, p.Governance.String()),
		),
	)
	return nil
}

// =============================================================================
// InitProposal (§3, §4.5.2 Draft)
// =============================================================================

type InitProposalParams struct {
	Proposal            types.Key
	Governance          types.Key
	State               types.Key
	TokenHoldingAccount types.Key
	VotingMint          types.Key
	YesMint             types.Key
	NoMint              types.Key
	Name                [types.NameSize]byte
	DescLink            [types.DescLinkSize]byte
}

// InitProposal creates a fresh Draft Proposal and its ProposalState under
// an existing Governance, incrementing the Governance's opaque proposal
// counter (§3's Governance.count).
func (k Keeper) InitProposal(ctx sdk.Context, p InitProposalParams) error {
	governance, found := k.GetGovernance(ctx, p.Governance)
	if !found {
		return types.ErrGovernanceNotFound
	}
	if _, found := k.GetProposal(ctx, p.Proposal); found {
		return types.ErrAlreadyInUse
	}

	proposal := types.Proposal{
		Governance:          p.Governance,
		State:               p.State,
		Name:                p.Name,
		DescLink:            p.DescLink,
		TokenHoldingAccount: p.TokenHoldingAccount,
		VotingMint:          p.VotingMint,
		YesMint:             p.YesMint,
		NoMint:              p.NoMint,
	}
	state := types.ProposalState{Status: types.ProposalStatusDraft}

	if err := k.SetProposal(ctx, p.Proposal, proposal); err != nil {
		return err
	}
	if err := k.SetProposalState(ctx, p.State, state); err != nil {
		return err
	}

	governance.Count++
	if err := k.SetGovernance(ctx, p.Governance, governance); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProposalInitialized,
			sdk.NewAttribute(types.AttributeKeyGovernance, p.Governance.String()),
			sdk.NewAttribute(types.AttributeKeyProposal, p.Proposal.String()),
		),
	)
	return nil
}

// requireDraft loads a Proposal's ProposalState and fails unless it is
// still Draft (§4.5.2: signatory/transaction edits are Draft-only).
func (k Keeper) requireDraft(ctx sdk.Context, proposal types.Key) (types.Proposal, types.ProposalState, error) {
	p, found := k.GetProposal(ctx, proposal)
	if !found {
		return types.Proposal{}, types.ProposalState{}, types.ErrProposalNotFound
	}
	s, found := k.GetProposalState(ctx, p.State)
	if !found {
		return types.Proposal{}, types.ProposalState{}, types.ErrProposalStateNotFound
	}
	if s.Status != types.ProposalStatusDraft {
		return types.Proposal{}, types.ProposalState{}, types.ErrNotInDraft
	}
	return p, s, nil
}
