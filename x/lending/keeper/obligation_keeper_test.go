package keeper_test

import (
	"github.com/sharehodl/sharehodl-blockchain/pkg/orderbook"
	"github.com/sharehodl/sharehodl-blockchain/x/lending/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/lending/types"
)

// setUpSameQuoteMarket seeds a LendingMarket plus a deposit reserve D
// denominated directly in the quote mint (no dex market needed on D's side)
// and a borrow reserve B priced through the mock order book, mirroring the
// "D is the quote currency" branch of quoteBorrowAmount.
func (suite *KeeperTestSuite) setUpSameQuoteMarket() (market, depositReserve, borrowReserve, quoteMint, depositLiquiditySupply, depositCollateralMint, borrowLiquiditySupply types.Key) {
	market = key(1)
	quoteMint = key(2)
	suite.Require().NoError(suite.keeper.InitLendingMarket(suite.ctx, market, quoteMint))

	depositReserve = key(10)
	depositLiquiditySupply = key(11)
	depositCollateralMint = key(13)
	suite.Require().NoError(suite.keeper.InitReserve(suite.ctx, keeper.InitReserveParams{
		Reserve:          depositReserve,
		LendingMarket:    market,
		LiquiditySupply:  depositLiquiditySupply,
		LiquidityMint:    quoteMint,
		CollateralSupply: key(12),
		CollateralMint:   depositCollateralMint,
		CollateralOutput: key(14),
	}))

	borrowReserve = key(20)
	borrowLiquiditySupply = key(21)
	suite.tokenKeeper.SetBalance(borrowLiquiditySupply, 10_000)
	suite.Require().NoError(suite.keeper.InitReserve(suite.ctx, keeper.InitReserveParams{
		Reserve:          borrowReserve,
		LendingMarket:    market,
		LiquiditySupply:  borrowLiquiditySupply,
		LiquidityMint:    key(22), // base asset, priced via the dex market
		CollateralSupply: key(23),
		CollateralMint:   key(24),
		CollateralOutput: key(25),
		DexMarket:        key(30),
		HasDexMarket:     true,
	}))

	// 1 base unit == 2 quote units resting at the best bid.
	suite.marketKeeper.bidLevels = []orderbook.Level{{Price: 2, BaseQuantity: 1000, QuoteQuantity: 2000}}
	suite.marketKeeper.askLevels = []orderbook.Level{{Price: 2, BaseQuantity: 1000, QuoteQuantity: 2000}}
	return
}

func (suite *KeeperTestSuite) TestBorrowPricesThroughOrderBookAndPaysOutLiquidity() {
	market, depositReserve, borrowReserve, quoteMint, depositLiquiditySupply, depositCollateralMint, borrowLiquiditySupply := suite.setUpSameQuoteMarket()
	_ = market

	// seed D's collateral: depositor holds 500 collateral, matching a
	// prior 100-quote-unit deposit at the 5:1 initial collateral rate.
	depositor := key(40)
	suite.tokenKeeper.SetBalance(depositor, 500)
	suite.tokenKeeper.SetSupply(depositCollateralMint, 500)
	suite.tokenKeeper.SetBalance(depositLiquiditySupply, 100)
	_ = quoteMint

	obligation := key(50)
	liquidityDestination := key(51)
	obligationTokenAccount := key(52)

	_, err := suite.keeper.Borrow(suite.ctx, keeper.BorrowParams{
		Obligation:             obligation,
		DepositReserve:         depositReserve,
		BorrowReserve:          borrowReserve,
		CollateralAmount:       500,
		Depositor:              depositor,
		LiquidityDestination:   liquidityDestination,
		ObligationTokenMint:    key(53),
		ObligationTokenAccount: obligationTokenAccount,
		CurrentSlot:            1,
	})
	suite.Require().NoError(err)

	// 500 collateral at the 5:1 rate converts to 100 deposit-liquidity
	// units; the deposit reserve holds the quote mint, so the ASK side fills
	// base->quote at price 2, yielding 100*2 = 200 units paid out from the
	// borrow reserve.
	paidOut, err := suite.tokenKeeper.Balance(suite.ctx, liquidityDestination)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(200), paidOut)

	remainingBorrowLiquidity, err := suite.tokenKeeper.Balance(suite.ctx, borrowLiquiditySupply)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(10_000-200), remainingBorrowLiquidity)

	o, found := suite.keeper.GetObligation(suite.ctx, obligation)
	suite.Require().True(found)
	got, err := o.BorrowAmount.RoundU64()
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(200), got)
}

func (suite *KeeperTestSuite) TestBorrowRejectsDuplicateObligationKey() {
	_, depositReserve, borrowReserve, _, depositLiquiditySupply, depositCollateralMint, _ := suite.setUpSameQuoteMarket()

	depositor := key(40)
	suite.tokenKeeper.SetBalance(depositor, 500)
	suite.tokenKeeper.SetSupply(depositCollateralMint, 500)
	suite.tokenKeeper.SetBalance(depositLiquiditySupply, 100)

	obligation := key(50)
	params := keeper.BorrowParams{
		Obligation:             obligation,
		DepositReserve:         depositReserve,
		BorrowReserve:          borrowReserve,
		CollateralAmount:       100,
		Depositor:              depositor,
		LiquidityDestination:   key(51),
		ObligationTokenMint:    key(53),
		ObligationTokenAccount: key(52),
		CurrentSlot:            1,
	}
	_, err := suite.keeper.Borrow(suite.ctx, params)
	suite.Require().NoError(err)

	_, err = suite.keeper.Borrow(suite.ctx, params)
	suite.Require().ErrorIs(err, types.ErrAlreadyInUse)
}

func (suite *KeeperTestSuite) TestRepayReleasesProportionalCollateral() {
	_, depositReserve, borrowReserve, _, depositLiquiditySupply, depositCollateralMint, borrowLiquiditySupply := suite.setUpSameQuoteMarket()

	depositor := key(40)
	suite.tokenKeeper.SetBalance(depositor, 500)
	suite.tokenKeeper.SetSupply(depositCollateralMint, 500)
	suite.tokenKeeper.SetBalance(depositLiquiditySupply, 100)

	obligation := key(50)
	obligationTokenMint := key(53)
	obligationTokenAccount := key(52)
	_, err := suite.keeper.Borrow(suite.ctx, keeper.BorrowParams{
		Obligation:             obligation,
		DepositReserve:         depositReserve,
		BorrowReserve:          borrowReserve,
		CollateralAmount:       500,
		Depositor:              depositor,
		LiquidityDestination:   key(51),
		ObligationTokenMint:    obligationTokenMint,
		ObligationTokenAccount: obligationTokenAccount,
		CurrentSlot:            1,
	})
	suite.Require().NoError(err)

	repayer := key(60)
	suite.tokenKeeper.SetBalance(repayer, 1000)
	collateralDestination := key(61)

	// obligation owes 200 borrow units; repay half.
	err = suite.keeper.Repay(suite.ctx, keeper.RepayParams{
		Obligation:            obligation,
		LiquidityAmount:       100,
		Repayer:               repayer,
		LiquidityDestination:  borrowLiquiditySupply, // repayment flows back into B's own liquidity pool
		CollateralDestination: collateralDestination,
		ObligationTokenSource: obligationTokenAccount,
		CurrentSlot:           1,
	})
	suite.Require().NoError(err)

	released, err := suite.tokenKeeper.Balance(suite.ctx, collateralDestination)
	suite.Require().NoError(err)
	// releasing half the 500 collateral posted.
	suite.Require().Equal(uint64(250), released)

	o, found := suite.keeper.GetObligation(suite.ctx, obligation)
	suite.Require().True(found)
	suite.Require().Equal(uint64(250), o.CollateralAmount)
	remainingBorrow, err := o.BorrowAmount.RoundU64()
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), remainingBorrow)
}

func (suite *KeeperTestSuite) TestSetPriceUsesOrderBookMidpoint() {
	_, _, borrowReserve, _, _, _, _ := suite.setUpSameQuoteMarket()

	suite.marketKeeper.bidLevels = []orderbook.Level{{Price: 100, BaseQuantity: 1, QuoteQuantity: 100}}
	suite.marketKeeper.askLevels = []orderbook.Level{{Price: 200, BaseQuantity: 1, QuoteQuantity: 200}}

	suite.Require().NoError(suite.keeper.SetPrice(suite.ctx, borrowReserve, 5))

	r, found := suite.keeper.GetReserve(suite.ctx, borrowReserve)
	suite.Require().True(found)
	suite.Require().Equal(uint64(150), r.DexMarketPrice)
	suite.Require().Equal(uint64(5), r.DexMarketPriceUpdatedSlot)
}

func (suite *KeeperTestSuite) TestSetPriceRejectsReserveWithoutDexMarket() {
	_, depositReserve, _, _, _, _, _ := suite.setUpSameQuoteMarket()
	err := suite.keeper.SetPrice(suite.ctx, depositReserve, 5)
	suite.Require().ErrorIs(err, types.ErrInvalidInput)
}
