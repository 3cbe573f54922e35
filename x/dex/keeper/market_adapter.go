package keeper

import (
	"crypto/sha256"
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/pkg/accountkey"
	"github.com/sharehodl/sharehodl-blockchain/pkg/orderbook"
	"github.com/sharehodl/sharehodl-blockchain/x/dex/types"
)

// This file adapts x/dex's string-symbol order book onto the opaque
// 32-byte account-key interface (types.MarketKeeper in x/lending and
// x/governance) whose Level lists pkg/orderbook's DecodeLevels and fill
// walk consume, grounded on x/dex/keeper/matching_engine.go's
// GetBuyOrders/GetSellOrders and aggregateOrdersByPrice.

// priceScale fixes the micro-unit precision a Level.Price carries; only
// informational (best-price reporting), never used in the Fill quantity
// math itself.
const priceScale = 1_000_000

var marketBindingPrefix = []byte{0x70}

// marketBinding records which dex symbol pair and token mints an opaque
// market/bids/asks key was derived from, so BidRegion/AskRegion/MarketState
// can translate back from a bare key into a GetBuyOrders/GetSellOrders call.
// Stored as JSON, matching the rest of this module's KVStore convention
// (x/dex/keeper/keeper.go marshals every record the same way).
type marketBinding struct {
	BaseSymbol  string
	QuoteSymbol string
	BaseMint    [32]byte
	QuoteMint   [32]byte
}

func deriveKey(parts ...string) accountkey.Key {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	var k accountkey.Key
	copy(k[:], h.Sum(nil))
	return k
}

func (k Keeper) bindingStoreKey(key accountkey.Key) []byte {
	return append(append([]byte{}, marketBindingPrefix...), key[:]...)
}

func (k Keeper) setMarketBinding(ctx sdk.Context, key accountkey.Key, b marketBinding) error {
	bz, err := json.Marshal(b)
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(k.bindingStoreKey(key), bz)
	return nil
}

func (k Keeper) getMarketBinding(ctx sdk.Context, key accountkey.Key) (marketBinding, bool) {
	bz := ctx.KVStore(k.storeKey).Get(k.bindingStoreKey(key))
	if bz == nil {
		return marketBinding{}, false
	}
	var b marketBinding
	if err := json.Unmarshal(bz, &b); err != nil {
		return marketBinding{}, false
	}
	return b, true
}

// RegisterMarket binds an already-created dex Market to the opaque keys a
// LendingMarket's Reserve.DexMarket field references. baseMint/quoteMint
// are the opaque token-mint keys x/lending's TokenKeeper recognizes for the
// base and quote assets of the pair; the dex module itself has no notion
// of these (it addresses assets by string symbol), so the caller supplies
// the binding between the two addressing schemes.
func (k Keeper) RegisterMarket(ctx sdk.Context, baseSymbol, quoteSymbol string, baseMint, quoteMint accountkey.Key) (accountkey.Key, error) {
	if _, found := k.GetMarket(ctx, baseSymbol, quoteSymbol); !found {
		return accountkey.Key{}, types.ErrMarketNotFound
	}

	market := deriveKey("dex-market", baseSymbol, quoteSymbol)
	bids := deriveKey("dex-bids", baseSymbol, quoteSymbol)
	asks := deriveKey("dex-asks", baseSymbol, quoteSymbol)

	binding := marketBinding{
		BaseSymbol:  baseSymbol,
		QuoteSymbol: quoteSymbol,
		BaseMint:    baseMint,
		QuoteMint:   quoteMint,
	}
	for _, key := range []accountkey.Key{market, bids, asks} {
		if err := k.setMarketBinding(ctx, key, binding); err != nil {
			return accountkey.Key{}, err
		}
	}
	return market, nil
}

// MarketState implements types.MarketKeeper: resolves an opaque market key
// back to its base/quote mints and the bids/asks region keys bound to it by
// RegisterMarket.
func (k Keeper) MarketState(ctx sdk.Context, market accountkey.Key) (baseMint, quoteMint, bids, asks accountkey.Key, err error) {
	b, found := k.getMarketBinding(ctx, market)
	if !found {
		return accountkey.Key{}, accountkey.Key{}, accountkey.Key{}, accountkey.Key{}, types.ErrMarketNotFound
	}
	bids = deriveKey("dex-bids", b.BaseSymbol, b.QuoteSymbol)
	asks = deriveKey("dex-asks", b.BaseSymbol, b.QuoteSymbol)
	return b.BaseMint, b.QuoteMint, bids, asks, nil
}

// BidRegion implements types.MarketKeeper: the resting buy side, best price
// first, encoded as a pkg/orderbook Level list.
func (k Keeper) BidRegion(ctx sdk.Context, bids accountkey.Key) ([]byte, error) {
	b, found := k.getMarketBinding(ctx, bids)
	if !found {
		return nil, types.ErrMarketNotFound
	}
	orders := k.GetBuyOrders(ctx, b.BaseSymbol, b.QuoteSymbol)
	return orderbook.EncodeLevels(levelsFromOrders(orders)), nil
}

// AskRegion implements types.MarketKeeper: the resting sell side, best
// price first, encoded as a pkg/orderbook Level list.
func (k Keeper) AskRegion(ctx sdk.Context, asks accountkey.Key) ([]byte, error) {
	b, found := k.getMarketBinding(ctx, asks)
	if !found {
		return nil, types.ErrMarketNotFound
	}
	orders := k.GetSellOrders(ctx, b.BaseSymbol, b.QuoteSymbol)
	return orderbook.EncodeLevels(levelsFromOrders(orders)), nil
}

// levelsFromOrders groups already-sorted, best-first orders by price the
// same way aggregateOrdersByPrice does, preserving the caller's sort order
// since Fill requires levels walked best-first; orders with nothing
// remaining are skipped.
func levelsFromOrders(orders []types.Order) []orderbook.Level {
	levels := make([]orderbook.Level, 0, len(orders))
	index := make(map[string]int)

	for _, order := range orders {
		remaining := order.RemainingQuantity
		if remaining.IsNil() {
			remaining = order.Quantity.Sub(order.FilledQuantity)
		}
		if !remaining.IsPositive() {
			continue
		}

		priceKey := order.Price.String()
		quoteAmount := order.Price.MulInt(remaining).TruncateInt().Uint64()
		if i, ok := index[priceKey]; ok {
			levels[i].BaseQuantity += remaining.Uint64()
			levels[i].QuoteQuantity += quoteAmount
			continue
		}

		index[priceKey] = len(levels)
		levels = append(levels, orderbook.Level{
			Price:         order.Price.MulInt64(priceScale).TruncateInt().Uint64(),
			BaseQuantity:  remaining.Uint64(),
			QuoteQuantity: quoteAmount,
		})
	}
	return levels
}
