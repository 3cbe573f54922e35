package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/pkg/accountkey"
	"github.com/sharehodl/sharehodl-blockchain/x/hodl/types"
)

// Keeper adapts this module's own account/mint ledger into the lending
// core's TokenKeeper primitives (§6.3). Accounts here are addressed by an
// opaque 32-byte key, the way the original token subsystem addresses them,
// rather than by an sdk.AccAddress: a bank-backed implementation cannot
// represent the per-obligation and per-proposal mints the core creates on
// the fly, so this keeper carries its own store-backed ledger instead of
// delegating to x/bank.
type Keeper struct {
	storeKey storetypes.StoreKey
	memKey   storetypes.StoreKey

	authority string
}

func NewKeeper(
	storeKey, memKey storetypes.StoreKey,
	authority string,
) *Keeper {
	return &Keeper{
		storeKey:  storeKey,
		memKey:    memKey,
		authority: authority,
	}
}

func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) GetAuthority() string { return k.authority }

func (k Keeper) getMint(ctx sdk.Context, mint accountkey.Key) (types.Mint, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.MintKey(mint))
	if bz == nil {
		return types.Mint{}, false
	}
	var m types.Mint
	m.UnmarshalBinary(bz)
	return m, true
}

func (k Keeper) setMint(ctx sdk.Context, mint accountkey.Key, m types.Mint) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.MintKey(mint), m.MarshalBinary())
}

func (k Keeper) getAccount(ctx sdk.Context, account accountkey.Key) (types.Account, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.AccountKey(account))
	if bz == nil {
		return types.Account{}, false
	}
	var a types.Account
	a.UnmarshalBinary(bz)
	return a, true
}

func (k Keeper) setAccount(ctx sdk.Context, account accountkey.Key, a types.Account) {
	store := ctx.KVStore(k.storeKey)
	store.Set(types.AccountKey(account), a.MarshalBinary())
}

// InitializeMint creates a new mint record with zero supply under the
// given authority.
func (k Keeper) InitializeMint(ctx sdk.Context, mint, authority accountkey.Key, decimals uint32) error {
	if _, exists := k.getMint(ctx, mint); exists {
		return types.ErrMintAlreadyInUse
	}
	k.setMint(ctx, mint, types.Mint{Authority: authority, Decimals: decimals})
	return nil
}

// InitializeAccount creates a new zero-balance account under owner for
// mint.
func (k Keeper) InitializeAccount(ctx sdk.Context, account, mint, owner accountkey.Key) error {
	if _, exists := k.getAccount(ctx, account); exists {
		return types.ErrAccountAlreadyInUse
	}
	if _, exists := k.getMint(ctx, mint); !exists {
		return types.ErrMintNotFound
	}
	k.setAccount(ctx, account, types.Account{Mint: mint, Owner: owner})
	return nil
}

// Transfer moves amount from source to destination, both accounts of the
// same mint, gated by authority matching the source account's owner.
func (k Keeper) Transfer(ctx sdk.Context, source, destination, authority accountkey.Key, amount uint64) error {
	src, ok := k.getAccount(ctx, source)
	if !ok {
		return types.ErrAccountNotFound
	}
	dst, ok := k.getAccount(ctx, destination)
	if !ok {
		return types.ErrAccountNotFound
	}
	if src.Mint != dst.Mint {
		return types.ErrMintOwnerMismatch
	}
	if src.Owner != authority {
		return types.ErrInvalidAuthority
	}
	if src.Balance < amount {
		return types.ErrInsufficientBalance
	}
	src.Balance -= amount
	dst.Balance += amount
	k.setAccount(ctx, source, src)
	k.setAccount(ctx, destination, dst)
	return nil
}

// MintTo mints amount of mint into destination, gated by authority
// matching the mint's recorded authority.
func (k Keeper) MintTo(ctx sdk.Context, mint, destination, authority accountkey.Key, amount uint64) error {
	m, ok := k.getMint(ctx, mint)
	if !ok {
		return types.ErrMintNotFound
	}
	if m.Authority != authority {
		return types.ErrInvalidAuthority
	}
	dst, ok := k.getAccount(ctx, destination)
	if !ok {
		return types.ErrAccountNotFound
	}
	if dst.Mint != mint {
		return types.ErrMintOwnerMismatch
	}
	m.Supply += amount
	dst.Balance += amount
	k.setMint(ctx, mint, m)
	k.setAccount(ctx, destination, dst)
	return nil
}

// Burn burns amount of mint out of source, gated by authority matching
// the source account's owner.
func (k Keeper) Burn(ctx sdk.Context, source, mint, authority accountkey.Key, amount uint64) error {
	m, ok := k.getMint(ctx, mint)
	if !ok {
		return types.ErrMintNotFound
	}
	src, ok := k.getAccount(ctx, source)
	if !ok {
		return types.ErrAccountNotFound
	}
	if src.Mint != mint {
		return types.ErrMintOwnerMismatch
	}
	if src.Owner != authority {
		return types.ErrInvalidAuthority
	}
	if src.Balance < amount {
		return types.ErrInsufficientBalance
	}
	src.Balance -= amount
	m.Supply -= amount
	k.setAccount(ctx, source, src)
	k.setMint(ctx, mint, m)
	return nil
}

// Supply returns a mint's current total supply.
func (k Keeper) Supply(ctx sdk.Context, mint accountkey.Key) (uint64, error) {
	m, ok := k.getMint(ctx, mint)
	if !ok {
		return 0, types.ErrMintNotFound
	}
	return m.Supply, nil
}

// Balance returns an account's current balance.
func (k Keeper) Balance(ctx sdk.Context, account accountkey.Key) (uint64, error) {
	a, ok := k.getAccount(ctx, account)
	if !ok {
		return 0, types.ErrAccountNotFound
	}
	return a.Balance, nil
}
