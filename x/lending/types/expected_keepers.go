package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TokenKeeper is the four-plus-one primitive fungible token subsystem
// interface the core requires (§6.3), gated by a derived authority
// computed from a (seed, module) pair the way the teacher's BankKeeper
// calls are gated by a module account.
type TokenKeeper interface {
	InitializeMint(ctx sdk.Context, mint Key, authority Key, decimals uint32) error
	InitializeAccount(ctx sdk.Context, account Key, mint Key, owner Key) error
	Transfer(ctx sdk.Context, source, destination, authority Key, amount uint64) error
	MintTo(ctx sdk.Context, mint, destination, authority Key, amount uint64) error
	Burn(ctx sdk.Context, source, mint, authority Key, amount uint64) error
	Supply(ctx sdk.Context, mint Key) (uint64, error)
	Balance(ctx sdk.Context, account Key) (uint64, error)
}

// MarketKeeper exposes the opaque order-book account regions consumed by
// pkg/orderbook (§6.4): a market-state region yielding base/quote mint and
// bid/ask region keys, plus the bid/ask regions themselves.
type MarketKeeper interface {
	MarketState(ctx sdk.Context, market Key) (baseMint, quoteMint, bids, asks Key, err error)
	BidRegion(ctx sdk.Context, bids Key) ([]byte, error)
	AskRegion(ctx sdk.Context, asks Key) ([]byte, error)
}
