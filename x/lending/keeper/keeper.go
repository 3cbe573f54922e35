package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
	"github.com/sharehodl/sharehodl-blockchain/pkg/orderbook"
	"github.com/sharehodl/sharehodl-blockchain/x/lending/types"
)

// Keeper of the lending store. It holds no business state of its own beyond
// the store keys and the two expected-keeper collaborators the core
// requires (§6.3 token subsystem, §6.4 order-book), the way every keeper in
// this tree is a thin shell around {cdc, storeKey, memKey} plus injected
// interfaces.
type Keeper struct {
	cdc          codec.BinaryCodec
	storeKey     storetypes.StoreKey
	memKey       storetypes.StoreKey
	tokenKeeper  types.TokenKeeper
	marketKeeper types.MarketKeeper
}

// NewKeeper creates a new lending Keeper instance.
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey,
	memKey storetypes.StoreKey,
	tokenKeeper types.TokenKeeper,
	marketKeeper types.MarketKeeper,
) *Keeper {
	return &Keeper{
		cdc:          cdc,
		storeKey:     storeKey,
		memKey:       memKey,
		tokenKeeper:  tokenKeeper,
		marketKeeper: marketKeeper,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// =============================================================================
// Record persistence (§3). Every record hydrates from its opaque 32-byte key
// and is re-serialized bit-exact per §6.2; the keeper never stores a pointer
// from one record to another, only the key.
// =============================================================================

func (k Keeper) GetLendingMarket(ctx sdk.Context, market types.Key) (types.LendingMarket, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetLendingMarketKey(market))
	if bz == nil {
		return types.LendingMarket{}, false
	}
	var m types.LendingMarket
	if err := m.UnmarshalBinary(bz); err != nil {
		return types.LendingMarket{}, false
	}
	return m, true
}

func (k Keeper) SetLendingMarket(ctx sdk.Context, market types.Key, m types.LendingMarket) error {
	bz, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetLendingMarketKey(market), bz)
	return nil
}

func (k Keeper) GetReserve(ctx sdk.Context, reserve types.Key) (types.Reserve, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetReserveKey(reserve))
	if bz == nil {
		return types.Reserve{}, false
	}
	var r types.Reserve
	if err := r.UnmarshalBinary(bz); err != nil {
		return types.Reserve{}, false
	}
	return r, true
}

func (k Keeper) SetReserve(ctx sdk.Context, reserve types.Key, r types.Reserve) error {
	bz, err := r.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetReserveKey(reserve), bz)
	return nil
}

func (k Keeper) GetObligation(ctx sdk.Context, obligation types.Key) (types.Obligation, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetObligationKey(obligation))
	if bz == nil {
		return types.Obligation{}, false
	}
	var o types.Obligation
	if err := o.UnmarshalBinary(bz); err != nil {
		return types.Obligation{}, false
	}
	return o, true
}

func (k Keeper) SetObligation(ctx sdk.Context, obligation types.Key, o types.Obligation) error {
	bz, err := o.MarshalBinary()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.GetObligationKey(obligation), bz)
	return nil
}

// LendingMarketRecord pairs a market's key with its record, for genesis
// export/import where the key can't be recovered from the value alone.
type LendingMarketRecord struct {
	Key    types.Key
	Market types.LendingMarket
}

// ReserveRecord pairs a reserve's key with its record.
type ReserveRecord struct {
	Key     types.Key
	Reserve types.Reserve
}

// ObligationRecord pairs an obligation's key with its record.
type ObligationRecord struct {
	Key        types.Key
	Obligation types.Obligation
}

func (k Keeper) GetAllLendingMarkets(ctx sdk.Context) []LendingMarketRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, types.LendingMarketPrefix)
	defer iterator.Close()

	var records []LendingMarketRecord
	for ; iterator.Valid(); iterator.Next() {
		key, err := types.KeyFromBytes(iterator.Key()[len(types.LendingMarketPrefix):])
		if err != nil {
			continue
		}
		var m types.LendingMarket
		if err := m.UnmarshalBinary(iterator.Value()); err != nil {
			continue
		}
		records = append(records, LendingMarketRecord{Key: key, Market: m})
	}
	return records
}

func (k Keeper) GetAllReserves(ctx sdk.Context) []ReserveRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, types.ReservePrefix)
	defer iterator.Close()

	var records []ReserveRecord
	for ; iterator.Valid(); iterator.Next() {
		key, err := types.KeyFromBytes(iterator.Key()[len(types.ReservePrefix):])
		if err != nil {
			continue
		}
		var r types.Reserve
		if err := r.UnmarshalBinary(iterator.Value()); err != nil {
			continue
		}
		records = append(records, ReserveRecord{Key: key, Reserve: r})
	}
	return records
}

func (k Keeper) GetAllObligations(ctx sdk.Context) []ObligationRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, types.ObligationPrefix)
	defer iterator.Close()

	var records []ObligationRecord
	for ; iterator.Valid(); iterator.Next() {
		key, err := types.KeyFromBytes(iterator.Key()[len(types.ObligationPrefix):])
		if err != nil {
			continue
		}
		var o types.Obligation
		if err := o.UnmarshalBinary(iterator.Value()); err != nil {
			continue
		}
		records = append(records, ObligationRecord{Key: key, Obligation: o})
	}
	return records
}

// =============================================================================
// InitLendingMarket (§4.3.6)
// =============================================================================

func (k Keeper) InitLendingMarket(ctx sdk.Context, market, quoteTokenMint types.Key) error {
	if _, found := k.GetLendingMarket(ctx, market); found {
		return types.ErrAlreadyInUse
	}
	m := types.LendingMarket{IsInitialized: true, QuoteTokenMint: quoteTokenMint}
	if err := k.SetLendingMarket(ctx, market, m); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLendingMarketInitialized,
			sdk.NewAttribute(types.AttributeKeyLendingMarket, market.String()),
		),
	)
	return nil
}

// =============================================================================
// InitReserve (§4.3.6)
// =============================================================================

// InitReserveParams bundles the account references an InitReserve
// instruction carries (the positional account vector of §2's control-flow
// description, made explicit here rather than threaded as bare Key
// arguments).
type InitReserveParams struct {
	Reserve          types.Key
	LendingMarket    types.Key
	LiquiditySupply  types.Key
	LiquidityMint    types.Key
	CollateralSupply types.Key
	CollateralMint   types.Key
	CollateralOutput types.Key
	DexMarket        types.Key
	HasDexMarket     bool
	CurrentSlot      uint64
}

func (k Keeper) InitReserve(ctx sdk.Context, p InitReserveParams) error {
	market, found := k.GetLendingMarket(ctx, p.LendingMarket)
	if !found || !market.IsInitialized {
		return types.ErrLendingMarketNotFound
	}
	if _, found := k.GetReserve(ctx, p.Reserve); found {
		return types.ErrAlreadyInUse
	}
	if p.HasDexMarket && p.LiquidityMint == market.QuoteTokenMint {
		// the liquidity mint IS the quote mint: no order book is needed or
		// permitted, mirroring §3's "absent when the reserve's liquidity
		// mint equals quote_token_mint" invariant.
		return types.ErrInvalidInput
	}
	if !p.HasDexMarket && p.LiquidityMint != market.QuoteTokenMint {
		return types.ErrInvalidInput
	}

	liquiditySupplyAmount, err := k.tokenKeeper.Balance(ctx, p.LiquiditySupply)
	if err != nil {
		return err
	}

	r := types.Reserve{
		LendingMarket:         p.LendingMarket,
		LiquiditySupply:       p.LiquiditySupply,
		LiquidityMint:         p.LiquidityMint,
		CollateralSupply:      p.CollateralSupply,
		CollateralMint:        p.CollateralMint,
		HasDexMarket:          p.HasDexMarket,
		DexMarket:             p.DexMarket,
		CumulativeBorrowRate:  decimal.One(),
		TotalBorrows:          decimal.Zero(),
		BorrowStateUpdateSlot: p.CurrentSlot,
	}

	// §9 Open Questions: the canonical behavior (the later variant) mints
	// initial collateral for whatever liquidity the supply account already
	// holds, rather than leaving collateral supply at zero.
	rate, err := types.NewCollateralExchangeRate(0, decimal.Zero(), liquiditySupplyAmount, p.CurrentSlot, p.CurrentSlot)
	if err != nil {
		return err
	}
	collateralToMint, err := rate.LiquidityToCollateral(liquiditySupplyAmount)
	if err != nil {
		return err
	}
	if collateralToMint > 0 {
		if err := k.tokenKeeper.MintTo(ctx, p.CollateralMint, p.CollateralOutput, p.LendingMarket, collateralToMint); err != nil {
			return types.ErrTokenMintToFailed
		}
	}

	if err := k.SetReserve(ctx, p.Reserve, r); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReserveInitialized,
			sdk.NewAttribute(types.AttributeKeyReserve, p.Reserve.String()),
			sdk.NewAttribute(types.AttributeKeyLendingMarket, p.LendingMarket.String()),
		),
	)
	return nil
}

// =============================================================================
// Deposit / Withdraw (§4.3.6)
// =============================================================================

func (k Keeper) Deposit(ctx sdk.Context, reserveKey types.Key, liquidityAmount uint64, source, destination, collateralOutput types.Key, currentSlot uint64) error {
	r, found := k.GetReserve(ctx, reserveKey)
	if !found {
		return types.ErrReserveNotFound
	}

	liquiditySupplyAmount, err := k.tokenKeeper.Balance(ctx, r.LiquiditySupply)
	if err != nil {
		return err
	}
	if err := r.UpdateCumulativeRate(currentSlot, liquiditySupplyAmount); err != nil {
		return err
	}

	collateralSupply, err := k.tokenKeeper.Supply(ctx, r.CollateralMint)
	if err != nil {
		return err
	}
	rate, err := types.NewCollateralExchangeRate(collateralSupply, r.TotalBorrows, liquiditySupplyAmount, r.BorrowStateUpdateSlot, currentSlot)
	if err != nil {
		return err
	}
	collateralAmount, err := rate.LiquidityToCollateral(liquidityAmount)
	if err != nil {
		return err
	}

	if err := k.tokenKeeper.Transfer(ctx, source, r.LiquiditySupply, reserveKey, liquidityAmount); err != nil {
		return types.ErrTokenTransferFailed
	}
	if err := k.tokenKeeper.MintTo(ctx, r.CollateralMint, collateralOutput, r.LendingMarket, collateralAmount); err != nil {
		return types.ErrTokenMintToFailed
	}

	if err := k.SetReserve(ctx, reserveKey, r); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReserveDeposit,
			sdk.NewAttribute(types.AttributeKeyReserve, reserveKey.String()),
			sdk.NewAttribute(types.AttributeKeyLiquidityAmount, fmt.Sprintf("%d", liquidityAmount)),
			sdk.NewAttribute(types.AttributeKeyCollateralAmount, fmt.Sprintf("%d", collateralAmount)),
		),
	)
	return nil
}

func (k Keeper) Withdraw(ctx sdk.Context, reserveKey types.Key, collateralAmount uint64, source, liquidityOutput types.Key, currentSlot uint64) error {
	r, found := k.GetReserve(ctx, reserveKey)
	if !found {
		return types.ErrReserveNotFound
	}

	liquiditySupplyAmount, err := k.tokenKeeper.Balance(ctx, r.LiquiditySupply)
	if err != nil {
		return err
	}
	if err := r.UpdateCumulativeRate(currentSlot, liquiditySupplyAmount); err != nil {
		return err
	}

	collateralSupply, err := k.tokenKeeper.Supply(ctx, r.CollateralMint)
	if err != nil {
		return err
	}
	rate, err := types.NewCollateralExchangeRate(collateralSupply, r.TotalBorrows, liquiditySupplyAmount, r.BorrowStateUpdateSlot, currentSlot)
	if err != nil {
		return err
	}
	liquidityAmount, err := rate.CollateralToLiquidity(collateralAmount)
	if err != nil {
		return err
	}

	if err := k.tokenKeeper.Transfer(ctx, r.LiquiditySupply, liquidityOutput, reserveKey, liquidityAmount); err != nil {
		return types.ErrTokenTransferFailed
	}
	if err := k.tokenKeeper.Burn(ctx, source, r.CollateralMint, reserveKey, collateralAmount); err != nil {
		return types.ErrTokenBurnFailed
	}

	if err := k.SetReserve(ctx, reserveKey, r); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReserveWithdraw,
			sdk.NewAttribute(types.AttributeKeyReserve, reserveKey.String()),
			sdk.NewAttribute(types.AttributeKeyCollateralAmount, fmt.Sprintf("%d", collateralAmount)),
			sdk.NewAttribute(types.AttributeKeyLiquidityAmount, fmt.Sprintf("%d", liquidityAmount)),
		),
	)
	return nil
}

// =============================================================================
// SetPrice (§4.2, §4.3.6)
// =============================================================================

func (k Keeper) SetPrice(ctx sdk.Context, reserveKey types.Key, currentSlot uint64) error {
	r, found := k.GetReserve(ctx, reserveKey)
	if !found {
		return types.ErrReserveNotFound
	}
	if !r.HasDexMarket {
		return types.ErrInvalidInput
	}

	_, _, bids, asks, err := k.marketKeeper.MarketState(ctx, r.DexMarket)
	if err != nil {
		return err
	}
	bidRegion, err := k.marketKeeper.BidRegion(ctx, bids)
	if err != nil {
		return err
	}
	askRegion, err := k.marketKeeper.AskRegion(ctx, asks)
	if err != nil {
		return err
	}

	// Both regions are the same best-first Level list quoteBorrowAmount
	// walks with orderbook.Fill (§4.4.3); the best price for either side is
	// simply its first level.
	bidLevels, err := orderbook.DecodeLevels(bidRegion)
	if err != nil {
		return err
	}
	askLevels, err := orderbook.DecodeLevels(askRegion)
	if err != nil {
		return err
	}
	if len(bidLevels) == 0 || len(askLevels) == 0 {
		return types.ErrInvalidInput
	}

	r.DexMarketPrice = orderbook.Midpoint(bidLevels[0].Price, askLevels[0].Price)
	r.DexMarketPriceUpdatedSlot = currentSlot

	if err := k.SetReserve(ctx, reserveKey, r); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReservePriceSet,
			sdk.NewAttribute(types.AttributeKeyReserve, reserveKey.String()),
			sdk.NewAttribute(types.AttributeKeyPrice, fmt.Sprintf("%d", r.DexMarketPrice)),
			sdk.NewAttribute(types.AttributeKeySlot, fmt.Sprintf("%d", currentSlot)),
		),
	)
	return nil
}
