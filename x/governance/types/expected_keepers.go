package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TokenKeeper is the §6.3 token subsystem this module consumes — the same
// five-primitive shape x/lending/types.TokenKeeper expects, implemented by
// x/hodl/keeper on its own store-backed mint/account ledger.
type TokenKeeper interface {
	InitializeMint(ctx sdk.Context, mint Key, authority Key, decimals uint32) error
	InitializeAccount(ctx sdk.Context, account Key, mint Key, owner Key) error
	Transfer(ctx sdk.Context, source, destination, authority Key, amount uint64) error
	MintTo(ctx sdk.Context, mint, destination, authority Key, amount uint64) error
	Burn(ctx sdk.Context, source, mint, authority Key, amount uint64) error
	Supply(ctx sdk.Context, mint Key) (uint64, error)
	Balance(ctx sdk.Context, account Key) (uint64, error)
}

// InstructionDispatcher is the host's cross-program invocation channel
// (§4.5.2 Executing): it runs an opaque instruction against the guarded
// program, signed by the Governance's derived authority.
type InstructionDispatcher interface {
	Dispatch(ctx sdk.Context, authority Key, program Key, accounts []Key, instruction []byte) error
}
