package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
	"github.com/sharehodl/sharehodl-blockchain/pkg/orderbook"
	"github.com/sharehodl/sharehodl-blockchain/x/lending/types"
)

// BorrowParams bundles the account references a BorrowReserveLiquidity
// instruction carries (§4.4.1).
type BorrowParams struct {
	Obligation         types.Key
	DepositReserve     types.Key
	BorrowReserve      types.Key
	CollateralAmount   uint64
	Depositor          types.Key // source of the collateral tokens
	LiquidityDestination types.Key
	ObligationTokenMint    types.Key
	ObligationTokenAccount types.Key
	CurrentSlot        uint64
}

// Borrow creates an Obligation against deposit reserve D's collateral,
// lending out liquidity from borrow reserve B (§4.4.1).
func (k Keeper) Borrow(ctx sdk.Context, p BorrowParams) (types.Obligation, error) {
	if _, found := k.GetObligation(ctx, p.Obligation); found {
		return types.Obligation{}, types.ErrAlreadyInUse
	}

	deposit, found := k.GetReserve(ctx, p.DepositReserve)
	if !found {
		return types.Obligation{}, types.ErrReserveNotFound
	}
	borrow, found := k.GetReserve(ctx, p.BorrowReserve)
	if !found {
		return types.Obligation{}, types.ErrReserveNotFound
	}
	if deposit.LendingMarket != borrow.LendingMarket {
		return types.Obligation{}, types.ErrLendingMarketMismatch
	}

	// Step 1: collateral moves into D's collateral supply before anything
	// else is computed, per §4.4.1 step 1.
	if err := k.tokenKeeper.Transfer(ctx, p.Depositor, deposit.CollateralSupply, p.DepositReserve, p.CollateralAmount); err != nil {
		return types.Obligation{}, types.ErrTokenTransferFailed
	}

	// Step 2: advance both reserves to the current slot and capture B's
	// cumulative rate snapshot before issuing the loan.
	depositLiquiditySupply, err := k.tokenKeeper.Balance(ctx, deposit.LiquiditySupply)
	if err != nil {
		return types.Obligation{}, err
	}
	if err := deposit.UpdateCumulativeRate(p.CurrentSlot, depositLiquiditySupply); err != nil {
		return types.Obligation{}, err
	}
	borrowLiquiditySupply, err := k.tokenKeeper.Balance(ctx, borrow.LiquiditySupply)
	if err != nil {
		return types.Obligation{}, err
	}
	if err := borrow.UpdateCumulativeRate(p.CurrentSlot, borrowLiquiditySupply); err != nil {
		return types.Obligation{}, err
	}
	cumulativeBorrowRateB := borrow.CumulativeBorrowRate

	// Step 3: convert collateral into deposit-reserve liquidity units, then
	// walk the order book to price it in borrow-reserve liquidity units.
	depositCollateralSupply, err := k.tokenKeeper.Supply(ctx, deposit.CollateralMint)
	if err != nil {
		return types.Obligation{}, err
	}
	depositRate, err := types.NewCollateralExchangeRate(depositCollateralSupply, deposit.TotalBorrows, depositLiquiditySupply, deposit.BorrowStateUpdateSlot, p.CurrentSlot)
	if err != nil {
		return types.Obligation{}, err
	}
	depositLiquidity, err := depositRate.CollateralToLiquidity(p.CollateralAmount)
	if err != nil {
		return types.Obligation{}, err
	}

	borrowAmountDec, err := k.quoteBorrowAmount(ctx, deposit, borrow, depositLiquidity)
	if err != nil {
		return types.Obligation{}, err
	}
	borrowAmount, err := borrowAmountDec.RoundU64()
	if err != nil {
		return types.Obligation{}, err
	}

	// Step 4: pay out the borrowed liquidity.
	if err := k.tokenKeeper.Transfer(ctx, borrow.LiquiditySupply, p.LiquidityDestination, p.BorrowReserve, borrowAmount); err != nil {
		return types.Obligation{}, types.ErrTokenTransferFailed
	}

	// Step 5.
	if err := borrow.AddBorrow(borrowAmountDec); err != nil {
		return types.Obligation{}, err
	}

	// Step 6: mint the per-obligation receipt tokens.
	if err := k.tokenKeeper.InitializeMint(ctx, p.ObligationTokenMint, p.Obligation, 0); err != nil {
		return types.Obligation{}, types.ErrTokenInitializeMintFailed
	}
	if err := k.tokenKeeper.InitializeAccount(ctx, p.ObligationTokenAccount, p.ObligationTokenMint, p.Depositor); err != nil {
		return types.Obligation{}, types.ErrTokenInitializeAccountFailed
	}
	if err := k.tokenKeeper.MintTo(ctx, p.ObligationTokenMint, p.ObligationTokenAccount, p.Obligation, depositLiquidity); err != nil {
		return types.Obligation{}, types.ErrTokenMintToFailed
	}

	// Step 7.
	obligation := types.Obligation{
		LastUpdateSlot:       p.CurrentSlot,
		CollateralAmount:     p.CollateralAmount,
		CollateralSupply:     p.DepositReserve,
		CumulativeBorrowRate: cumulativeBorrowRateB,
		BorrowAmount:         borrowAmountDec,
		BorrowReserve:        p.BorrowReserve,
		TokenMint:            p.ObligationTokenMint,
	}

	if err := k.SetReserve(ctx, p.DepositReserve, deposit); err != nil {
		return types.Obligation{}, err
	}
	if err := k.SetReserve(ctx, p.BorrowReserve, borrow); err != nil {
		return types.Obligation{}, err
	}
	if err := k.SetObligation(ctx, p.Obligation, obligation); err != nil {
		return types.Obligation{}, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeObligationBorrow,
			sdk.NewAttribute(types.AttributeKeyObligation, p.Obligation.String()),
			sdk.NewAttribute(types.AttributeKeyCollateralAmount, fmt.Sprintf("%d", p.CollateralAmount)),
			sdk.NewAttribute(types.AttributeKeyBorrowAmount, fmt.Sprintf("%d", borrowAmount)),
		),
	)

	return obligation, nil
}

// quoteBorrowAmount prices a Borrow's deposit-side liquidity into
// borrow-side liquidity by walking the order book bound to whichever
// Reserve isn't denominated in the LendingMarket's quote mint (§4.4.3).
func (k Keeper) quoteBorrowAmount(ctx sdk.Context, deposit, borrow types.Reserve, depositLiquidity uint64) (decimal.Decimal, error) {
	market, found := k.GetLendingMarket(ctx, deposit.LendingMarket)
	if !found {
		return decimal.Decimal{}, types.ErrLendingMarketNotFound
	}

	var priceReserve types.Reserve
	var side orderbook.Side
	var inputIsQuote bool
	if deposit.LiquidityMint == market.QuoteTokenMint {
		// D is the quote currency: the feed belongs to B; fill the ASK
		// side, converting base units (deposit_liquidity) into quote units.
		priceReserve = borrow
		side = orderbook.Ask
		inputIsQuote = false
	} else {
		// the feed belongs to D; fill the BID side, converting quote units
		// into base units.
		priceReserve = deposit
		side = orderbook.Bid
		inputIsQuote = true
	}

	if !priceReserve.HasDexMarket {
		return decimal.Decimal{}, types.ErrInvalidInput
	}

	_, _, bids, asks, err := k.marketKeeper.MarketState(ctx, priceReserve.DexMarket)
	if err != nil {
		return decimal.Decimal{}, err
	}
	var region []byte
	if side == orderbook.Bid {
		region, err = k.marketKeeper.BidRegion(ctx, bids)
	} else {
		region, err = k.marketKeeper.AskRegion(ctx, asks)
	}
	if err != nil {
		return decimal.Decimal{}, err
	}

	levels, err := orderbook.DecodeLevels(region)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return orderbook.Fill(levels, depositLiquidity, inputIsQuote)
}

// RepayParams bundles the account references a RepayReserveLiquidity
// instruction carries (§4.4.2).
type RepayParams struct {
	Obligation        types.Key
	LiquidityAmount   uint64
	Repayer           types.Key // source of repaid liquidity
	LiquidityDestination types.Key // R's liquidity_supply
	CollateralDestination types.Key // W's collateral_supply -> caller
	ObligationTokenSource types.Key
	CurrentSlot       uint64
}

// Repay applies a partial or full repayment against an Obligation,
// releasing proportional collateral (§4.4.2).
func (k Keeper) Repay(ctx sdk.Context, p RepayParams) error {
	obligation, found := k.GetObligation(ctx, p.Obligation)
	if !found {
		return types.ErrObligationNotFound
	}

	repayReserve, found := k.GetReserve(ctx, obligation.BorrowReserve)
	if !found {
		return types.ErrReserveNotFound
	}
	withdrawReserve, found := k.GetReserve(ctx, obligation.CollateralSupply)
	if !found {
		return types.ErrReserveNotFound
	}

	// Step 2.
	repayLiquiditySupply, err := k.tokenKeeper.Balance(ctx, repayReserve.LiquiditySupply)
	if err != nil {
		return err
	}
	if err := repayReserve.UpdateCumulativeRate(p.CurrentSlot, repayLiquiditySupply); err != nil {
		return err
	}

	// Step 3: must strictly follow the reserve's rate update in the same
	// instruction (§5's ordering guarantee).
	if err := obligation.AccrueInterest(p.CurrentSlot, repayReserve.CumulativeBorrowRate); err != nil {
		return err
	}

	// Step 4.
	tokenSupply, err := k.tokenKeeper.Supply(ctx, obligation.TokenMint)
	if err != nil {
		return err
	}
	settlement, err := obligation.SettleRepay(p.LiquidityAmount, tokenSupply)
	if err != nil {
		return err
	}

	// Step 5: all side effects, staged after every computation above and
	// before any record is re-packed (§5's stage-then-commit rule).
	if err := k.tokenKeeper.Transfer(ctx, p.Repayer, p.LiquidityDestination, p.Obligation, settlement.RepayAmount); err != nil {
		return types.ErrTokenTransferFailed
	}
	if settlement.CollateralWithdraw > 0 {
		if err := k.tokenKeeper.Transfer(ctx, withdrawReserve.CollateralSupply, p.CollateralDestination, p.Obligation, settlement.CollateralWithdraw); err != nil {
			return types.ErrTokenTransferFailed
		}
	}
	if settlement.TokenBurn > 0 {
		if err := k.tokenKeeper.Burn(ctx, p.ObligationTokenSource, obligation.TokenMint, p.Obligation, settlement.TokenBurn); err != nil {
			return types.ErrTokenBurnFailed
		}
	}

	// Step 6.
	if err := obligation.ApplyRepay(settlement); err != nil {
		return err
	}
	// Step 7.
	if err := repayReserve.SubtractRepay(decimal.FromU64(settlement.RepayAmount)); err != nil {
		return err
	}

	if err := k.SetReserve(ctx, obligation.BorrowReserve, repayReserve); err != nil {
		return err
	}
	if err := k.SetObligation(ctx, p.Obligation, obligation); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeObligationRepay,
			sdk.NewAttribute(types.AttributeKeyObligation, p.Obligation.String()),
			sdk.NewAttribute(types.AttributeKeyRepayAmount, fmt.Sprintf("%d", settlement.RepayAmount)),
			sdk.NewAttribute(types.AttributeKeyCollateralAmount, fmt.Sprintf("%d", settlement.CollateralWithdraw)),
		),
	)
	return nil
}
