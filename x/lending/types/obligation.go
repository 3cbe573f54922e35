package types

import (
	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
)

// AccrueInterest advances an Obligation's borrow_amount and cumulative-rate
// snapshot to currentSlot against the Reserve that lent it (§4.4.2 step 3).
// The caller must have already run reserve.UpdateCumulativeRate(currentSlot,
// ...) in the same handler invocation, per the §5 ordering guarantee.
func (o *Obligation) AccrueInterest(currentSlot uint64, reserveCumulativeBorrowRate decimal.Decimal) error {
	if o.CumulativeBorrowRate.IsZero() {
		o.CumulativeBorrowRate = reserveCumulativeBorrowRate
		o.LastUpdateSlot = currentSlot
		return nil
	}

	rateRatio, err := reserveCumulativeBorrowRate.Quo(o.CumulativeBorrowRate)
	if err != nil {
		return err
	}
	rateDelta, err := rateRatio.Sub(decimal.One())
	if err != nil {
		return err
	}
	yearly, err := o.BorrowAmount.Mul(rateDelta)
	if err != nil {
		return err
	}
	slotsElapsed := currentSlot - o.LastUpdateSlot
	accrued, err := decimal.FromU64(slotsElapsed).Mul(yearly)
	if err != nil {
		return err
	}
	accrued, err = accrued.Quo(decimal.FromU64(SlotsPerYear))
	if err != nil {
		return err
	}
	o.BorrowAmount, err = o.BorrowAmount.Add(accrued)
	if err != nil {
		return err
	}
	o.CumulativeBorrowRate = reserveCumulativeBorrowRate
	o.LastUpdateSlot = currentSlot
	return nil
}

// RepaySettlement is the result of applying a partial repayment to an
// Obligation (§4.4.2 step 4): the amounts to move and the obligation's new
// borrow/collateral balances.
type RepaySettlement struct {
	RepayAmount        uint64
	CollateralWithdraw  uint64
	TokenBurn          uint64
}

// SettleRepay computes the §4.4.2 step-4 proportional repayment: the actual
// liquidity moved, the collateral released, and the receipt tokens burned,
// all proportional to how much of the outstanding borrow_amount is repaid.
// It does not mutate the Obligation; the caller applies the result after
// the token-subsystem side effects succeed (§5's stage-then-commit rule).
func (o Obligation) SettleRepay(liquidityAmount uint64, tokenMintSupply uint64) (RepaySettlement, error) {
	borrowed, err := o.BorrowAmount.RoundU64()
	if err != nil {
		return RepaySettlement{}, err
	}
	repayAmount := liquidityAmount
	if borrowed < repayAmount {
		repayAmount = borrowed
	}

	repayFraction, err := decimal.FromU64(repayAmount).Quo(o.BorrowAmount)
	if err != nil {
		return RepaySettlement{}, err
	}

	collateralWithdrawDec, err := repayFraction.Mul(decimal.FromU64(o.CollateralAmount))
	if err != nil {
		return RepaySettlement{}, err
	}
	collateralWithdraw, err := collateralWithdrawDec.RoundU64()
	if err != nil {
		return RepaySettlement{}, err
	}

	tokenBurnDec, err := repayFraction.Mul(decimal.FromU64(tokenMintSupply))
	if err != nil {
		return RepaySettlement{}, err
	}
	tokenBurn, err := tokenBurnDec.RoundU64()
	if err != nil {
		return RepaySettlement{}, err
	}

	return RepaySettlement{
		RepayAmount:        repayAmount,
		CollateralWithdraw: collateralWithdraw,
		TokenBurn:          tokenBurn,
	}, nil
}

// ApplyRepay mutates the Obligation's borrow_amount/collateral_amount after
// a RepaySettlement's side effects have been carried out (§4.4.2 step 6).
func (o *Obligation) ApplyRepay(settlement RepaySettlement) error {
	borrowAmount, err := o.BorrowAmount.Sub(decimal.FromU64(settlement.RepayAmount))
	if err != nil {
		return err
	}
	o.BorrowAmount = borrowAmount
	if settlement.CollateralWithdraw > o.CollateralAmount {
		return ErrInvalidInput
	}
	o.CollateralAmount -= settlement.CollateralWithdraw
	return nil
}
