package types

import (
	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
)

// SlotsPerYear is the fixed host parameter ticks_per_second / ticks_per_slot
// * seconds_per_day * 365 (§4.3.2). It is a constant of the spec, not a
// runtime-derived value, so the borrow-rate curve is bit-exact across
// implementations.
const SlotsPerYear uint64 = 63_072_000

// StalenessSlots is how many slots may elapse after a price update before
// CurrentMarketPrice refuses to serve it (§3, §4.3.5): stale at >= 5.
const StalenessSlots uint64 = 5

// Borrow-rate curve parameters (§4.3.1), fixed for every Reserve.
var (
	optimalUtilization = mustDecimalFraction(80, 100) // 0.80
	baseRate           = decimal.Zero()                // 0.00
	optimalRate        = mustDecimalFraction(4, 100)    // 0.04
	maxRate            = mustDecimalFraction(30, 100)   // 0.30
)

func mustDecimalFraction(num, den uint64) decimal.Decimal {
	d, err := decimal.FromU64(num).Quo(decimal.FromU64(den))
	if err != nil {
		panic(err)
	}
	return d
}

// Utilization computes U = total_borrows / (total_borrows + liquiditySupply).
// A Reserve with no borrows and no liquidity is 0% utilized.
func Utilization(totalBorrows decimal.Decimal, liquiditySupply uint64) (decimal.Decimal, error) {
	denom, err := totalBorrows.Add(decimal.FromU64(liquiditySupply))
	if err != nil {
		return decimal.Decimal{}, err
	}
	if denom.IsZero() {
		return decimal.Zero(), nil
	}
	return totalBorrows.Quo(denom)
}

// CurrentBorrowRate evaluates the §4.3.1 piecewise curve at the Reserve's
// current utilization against liquiditySupply (the liquidity_supply token
// account's observed balance).
func (r Reserve) CurrentBorrowRate(liquiditySupply uint64) (decimal.Decimal, error) {
	u, err := Utilization(r.TotalBorrows, liquiditySupply)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if u.LT(optimalUtilization) {
		span, err := u.Quo(optimalUtilization)
		if err != nil {
			return decimal.Decimal{}, err
		}
		slope, err := optimalRate.Sub(baseRate)
		if err != nil {
			return decimal.Decimal{}, err
		}
		delta, err := span.Mul(slope)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return baseRate.Add(delta)
	}

	excessUtilization, err := u.Sub(optimalUtilization)
	if err != nil {
		return decimal.Decimal{}, err
	}
	one := decimal.One()
	excessRange, err := one.Sub(optimalUtilization)
	if err != nil {
		return decimal.Decimal{}, err
	}
	span, err := excessUtilization.Quo(excessRange)
	if err != nil {
		return decimal.Decimal{}, err
	}
	slope, err := maxRate.Sub(optimalRate)
	if err != nil {
		return decimal.Decimal{}, err
	}
	delta, err := span.Mul(slope)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return optimalRate.Add(delta)
}

// UpdateCumulativeRate advances cumulative_borrow_rate and total_borrows to
// currentSlot (§4.3.2). Idempotent within a slot: a second call at the same
// currentSlot is a no-op, per the §5 ordering guarantee.
func (r *Reserve) UpdateCumulativeRate(currentSlot uint64, liquiditySupply uint64) error {
	if r.CumulativeBorrowRate.IsZero() {
		r.CumulativeBorrowRate = decimal.One()
		r.BorrowStateUpdateSlot = currentSlot
		return nil
	}
	if r.BorrowStateUpdateSlot == currentSlot {
		return nil
	}

	slotsElapsed := currentSlot - r.BorrowStateUpdateSlot
	rate, err := r.CurrentBorrowRate(liquiditySupply)
	if err != nil {
		return err
	}
	periodRate, err := decimal.FromU64(slotsElapsed).Mul(rate)
	if err != nil {
		return err
	}
	periodRate, err = periodRate.Quo(decimal.FromU64(SlotsPerYear))
	if err != nil {
		return err
	}
	accrued, err := r.TotalBorrows.Mul(periodRate)
	if err != nil {
		return err
	}
	r.TotalBorrows, err = r.TotalBorrows.Add(accrued)
	if err != nil {
		return err
	}
	onePlusPeriodRate, err := decimal.One().Add(periodRate)
	if err != nil {
		return err
	}
	r.CumulativeBorrowRate, err = r.CumulativeBorrowRate.Mul(onePlusPeriodRate)
	if err != nil {
		return err
	}
	r.BorrowStateUpdateSlot = currentSlot
	return nil
}

// AddBorrow advances total_borrows by delta (§4.3.4).
func (r *Reserve) AddBorrow(delta decimal.Decimal) error {
	sum, err := r.TotalBorrows.Add(delta)
	if err != nil {
		return err
	}
	r.TotalBorrows = sum
	return nil
}

// SubtractRepay reduces total_borrows by delta, failing on underflow (§4.3.4).
func (r *Reserve) SubtractRepay(delta decimal.Decimal) error {
	diff, err := r.TotalBorrows.Sub(delta)
	if err != nil {
		return err
	}
	r.TotalBorrows = diff
	return nil
}

// CurrentMarketPrice returns the Reserve's mark-to-market price at
// currentSlot (§4.3.5): 1 if no dex_market is bound, the cached price if
// fresh, or a staleness/unset failure.
func (r Reserve) CurrentMarketPrice(currentSlot uint64) (uint64, error) {
	if !r.HasDexMarket {
		return 1, nil
	}
	if r.DexMarketPriceUpdatedSlot == 0 {
		return 0, ErrReservePriceUnset
	}
	if currentSlot >= r.DexMarketPriceUpdatedSlot+StalenessSlots {
		return 0, ErrReservePriceExpired
	}
	return r.DexMarketPrice, nil
}
