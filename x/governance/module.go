package governance

import (
	"encoding/json"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/runtime"

	"github.com/sharehodl/sharehodl-blockchain/x/governance/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
)

// AppModuleBasic implements the AppModuleBasic interface for the governance module
type AppModuleBasic struct{}

// NewAppModuleBasic creates a new AppModuleBasic
func NewAppModuleBasic() AppModuleBasic {
	return AppModuleBasic{}
}

// Name returns the governance module's name
func (AppModuleBasic) Name() string {
	return types.ModuleName
}

// RegisterLegacyAminoCodec registers the governance module's types on the LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry codectypes.InterfaceRegistry) {}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *gwruntime.ServeMux) {}

// DefaultGenesis returns default genesis state as raw bytes for the governance module
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	return cdc.MustMarshalJSON(DefaultGenesisState())
}

// ValidateGenesis performs genesis state validation for the governance module
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config interface{}, bz json.RawMessage) error {
	return nil
}

// AppModule implements the AppModule interface for the governance module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: NewAppModuleBasic(),
		keeper:         k,
	}
}

// Name returns the governance module's name
func (am AppModule) Name() string {
	return types.ModuleName
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// BeginBlock executes all ABCI BeginBlock logic for the governance module
func (am AppModule) BeginBlock(ctx sdk.Context) error {
	return nil
}

// EndBlock executes all ABCI EndBlock logic for the governance module. The
// voting timeout and tipping transitions (§4.5.2) are evaluated lazily on
// the next instruction that touches a Proposal (see keeper.loadVoting),
// not by a background sweep, so there is nothing to do here.
func (am AppModule) EndBlock(ctx sdk.Context) error {
	return nil
}

// GenesisGovernance is a Governance plus the key it was stored under.
type GenesisGovernance struct {
	Key        []byte           `json:"key"`
	Governance types.Governance `json:"governance"`
}

// GenesisProposal is a Proposal plus the key it was stored under.
type GenesisProposal struct {
	Key      []byte         `json:"key"`
	Proposal types.Proposal `json:"proposal"`
}

// GenesisProposalState is a ProposalState plus the key it was stored under.
type GenesisProposalState struct {
	Key   []byte              `json:"key"`
	State types.ProposalState `json:"state"`
}

// GenesisState represents the governance module's genesis state: every
// Governance, Proposal and ProposalState record (§3) that existed at the
// snapshot height. VoteRecord and CustomSingleSignerTransaction records are
// intentionally omitted from genesis the same way x/lending drops
// in-flight scratch state — both are reconstructible from the proposals
// that reference them during live operation, not required to resume a
// chain from a snapshot.
type GenesisState struct {
	Governances    []GenesisGovernance    `json:"governances"`
	Proposals      []GenesisProposal      `json:"proposals"`
	ProposalStates []GenesisProposalState `json:"proposal_states"`
}

// ProtoMessage implements proto.Message
func (gs *GenesisState) ProtoMessage() {}

// Reset implements proto.Message
func (gs *GenesisState) Reset() { *gs = GenesisState{} }

// String implements proto.Message
func (gs *GenesisState) String() string { return "governance_genesis" }

// DefaultGenesisState returns the default genesis state for the governance module
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Governances:    []GenesisGovernance{},
		Proposals:      []GenesisProposal{},
		ProposalStates: []GenesisProposalState{},
	}
}

// InitGenesis initializes the governance module's state from a provided genesis state
func (am AppModule) InitGenesis(ctx sdk.Context, cdc codec.JSONCodec, data json.RawMessage) {
	var genesisState GenesisState
	cdc.MustUnmarshalJSON(data, &genesisState)

	for _, gg := range genesisState.Governances {
		key, err := types.KeyFromBytes(gg.Key)
		if err != nil {
			panic(err)
		}
		if err := am.keeper.SetGovernance(ctx, key, gg.Governance); err != nil {
			panic(err)
		}
	}

	for _, gp := range genesisState.Proposals {
		key, err := types.KeyFromBytes(gp.Key)
		if err != nil {
			panic(err)
		}
		if err := am.keeper.SetProposal(ctx, key, gp.Proposal); err != nil {
			panic(err)
		}
	}

	for _, gs := range genesisState.ProposalStates {
		key, err := types.KeyFromBytes(gs.Key)
		if err != nil {
			panic(err)
		}
		if err := am.keeper.SetProposalState(ctx, key, gs.State); err != nil {
			panic(err)
		}
	}
}

// ExportGenesis returns the governance module's exported genesis state
func (am AppModule) ExportGenesis(ctx sdk.Context, cdc codec.JSONCodec) json.RawMessage {
	governances := am.keeper.GetAllGovernances(ctx)
	genesisGovernances := make([]GenesisGovernance, len(governances))
	for i, g := range governances {
		genesisGovernances[i] = GenesisGovernance{Key: g.Key[:], Governance: g.Governance}
	}

	proposals := am.keeper.GetAllProposals(ctx)
	genesisProposals := make([]GenesisProposal, len(proposals))
	for i, p := range proposals {
		genesisProposals[i] = GenesisProposal{Key: p.Key[:], Proposal: p.Proposal}
	}

	states := am.keeper.GetAllProposalStates(ctx)
	genesisStates := make([]GenesisProposalState, len(states))
	for i, s := range states {
		genesisStates[i] = GenesisProposalState{Key: s.Key[:], State: s.State}
	}

	gs := GenesisState{
		Governances:    genesisGovernances,
		Proposals:      genesisProposals,
		ProposalStates: genesisStates,
	}
	return cdc.MustMarshalJSON(&gs)
}

// ConsensusVersion returns the governance module's consensus version
func (am AppModule) ConsensusVersion() uint64 {
	return 1
}
