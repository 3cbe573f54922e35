package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
)

func TestAccrueInterestFirstCallSeedsSnapshot(t *testing.T) {
	o := Obligation{BorrowAmount: decimal.FromU64(100)}
	require.NoError(t, o.AccrueInterest(50, decimal.One()))
	require.True(t, o.CumulativeBorrowRate.Cmp(decimal.One()) == 0)
	require.Equal(t, uint64(50), o.LastUpdateSlot)
	// seeding the snapshot doesn't accrue anything yet.
	got, err := o.BorrowAmount.RoundU64()
	require.NoError(t, err)
	require.Equal(t, uint64(100), got)
}

func TestAccrueInterestGrowsWithReserveRate(t *testing.T) {
	o := Obligation{
		BorrowAmount:         decimal.FromU64(100),
		CumulativeBorrowRate: decimal.One(),
		LastUpdateSlot:       0,
	}
	// reserve rate doubled since the obligation's snapshot and a full year
	// elapsed, so the entire 100% annualized delta applies: 100 -> 200.
	two, err := decimal.FromU64(2).Quo(decimal.FromU64(1))
	require.NoError(t, err)
	require.NoError(t, o.AccrueInterest(SlotsPerYear, two))

	got, err := o.BorrowAmount.RoundU64()
	require.NoError(t, err)
	require.Equal(t, uint64(200), got)
	require.True(t, o.CumulativeBorrowRate.Cmp(two) == 0)
	require.Equal(t, SlotsPerYear, o.LastUpdateSlot)
}

func TestAccrueInterestNoRateChangeIsNoOp(t *testing.T) {
	o := Obligation{
		BorrowAmount:         decimal.FromU64(100),
		CumulativeBorrowRate: decimal.One(),
		LastUpdateSlot:       0,
	}
	require.NoError(t, o.AccrueInterest(SlotsPerYear, decimal.One()))
	got, err := o.BorrowAmount.RoundU64()
	require.NoError(t, err)
	require.Equal(t, uint64(100), got)
}

func TestSettleRepayFullRepayment(t *testing.T) {
	o := Obligation{
		BorrowAmount:     decimal.FromU64(100),
		CollateralAmount: 500,
	}
	settlement, err := o.SettleRepay(100, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(100), settlement.RepayAmount)
	require.Equal(t, uint64(500), settlement.CollateralWithdraw)
	require.Equal(t, uint64(1000), settlement.TokenBurn)
}

func TestSettleRepayPartialRepaymentIsProportional(t *testing.T) {
	o := Obligation{
		BorrowAmount:     decimal.FromU64(100),
		CollateralAmount: 500,
	}
	// repaying 25 of 100 borrowed releases a quarter of the collateral and
	// token supply.
	settlement, err := o.SettleRepay(25, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(25), settlement.RepayAmount)
	require.Equal(t, uint64(125), settlement.CollateralWithdraw)
	require.Equal(t, uint64(250), settlement.TokenBurn)
}

func TestSettleRepayCapsAtOutstandingBorrow(t *testing.T) {
	o := Obligation{
		BorrowAmount:     decimal.FromU64(40),
		CollateralAmount: 200,
	}
	// offering more liquidity than is owed only repays what's owed.
	settlement, err := o.SettleRepay(1000, 400)
	require.NoError(t, err)
	require.Equal(t, uint64(40), settlement.RepayAmount)
	require.Equal(t, uint64(200), settlement.CollateralWithdraw)
	require.Equal(t, uint64(400), settlement.TokenBurn)
}

func TestApplyRepayReducesBalances(t *testing.T) {
	o := Obligation{
		BorrowAmount:     decimal.FromU64(100),
		CollateralAmount: 500,
	}
	settlement := RepaySettlement{RepayAmount: 40, CollateralWithdraw: 200, TokenBurn: 400}
	require.NoError(t, o.ApplyRepay(settlement))

	got, err := o.BorrowAmount.RoundU64()
	require.NoError(t, err)
	require.Equal(t, uint64(60), got)
	require.Equal(t, uint64(300), o.CollateralAmount)
}

func TestApplyRepayRejectsCollateralOverdraw(t *testing.T) {
	o := Obligation{
		BorrowAmount:     decimal.FromU64(100),
		CollateralAmount: 50,
	}
	settlement := RepaySettlement{RepayAmount: 40, CollateralWithdraw: 200, TokenBurn: 400}
	err := o.ApplyRepay(settlement)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestIsEmpty(t *testing.T) {
	require.True(t, Obligation{}.IsEmpty())
	require.False(t, Obligation{CollateralAmount: 1}.IsEmpty())
	require.False(t, Obligation{BorrowAmount: decimal.FromU64(1)}.IsEmpty())
}

func TestObligationMarshalBinaryRoundTrip(t *testing.T) {
	o := Obligation{
		LastUpdateSlot:       1,
		CollateralAmount:     2,
		CollateralSupply:     Key{3},
		CumulativeBorrowRate: decimal.One(),
		BorrowAmount:         decimal.FromU64(4),
		BorrowReserve:        Key{5},
		TokenMint:            Key{6},
	}
	buf, err := o.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, buf, ObligationSize)

	var got Obligation
	require.NoError(t, got.UnmarshalBinary(buf))
	require.Equal(t, o, got)
}

func TestCollateralExchangeRateInitialWhenSupplyZero(t *testing.T) {
	rate, err := NewCollateralExchangeRate(0, decimal.FromU64(10), 10, 5, 5)
	require.NoError(t, err)
	got, err := rate.LiquidityToCollateral(1)
	require.NoError(t, err)
	require.Equal(t, uint64(5), got)
}

func TestCollateralExchangeRateRejectsStaleSlot(t *testing.T) {
	_, err := NewCollateralExchangeRate(100, decimal.FromU64(10), 10, 5, 6)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCollateralExchangeRateConversionRoundTrip(t *testing.T) {
	// collateral_supply=200, total_borrows=0, liquidity_supply=100 -> rate=2.
	rate, err := NewCollateralExchangeRate(200, decimal.Zero(), 100, 5, 5)
	require.NoError(t, err)

	collateral, err := rate.LiquidityToCollateral(50)
	require.NoError(t, err)
	require.Equal(t, uint64(100), collateral)

	liquidity, err := rate.CollateralToLiquidity(100)
	require.NoError(t, err)
	require.Equal(t, uint64(50), liquidity)
}
