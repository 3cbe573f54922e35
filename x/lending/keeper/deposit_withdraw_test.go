package keeper_test

import (
	"github.com/sharehodl/sharehodl-blockchain/x/lending/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/lending/types"
)

func (suite *KeeperTestSuite) seedMarket(market, quoteMint types.Key) {
	err := suite.keeper.InitLendingMarket(suite.ctx, market, quoteMint)
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestInitLendingMarketRejectsDuplicate() {
	market, quoteMint := key(1), key(2)
	suite.seedMarket(market, quoteMint)

	err := suite.keeper.InitLendingMarket(suite.ctx, market, quoteMint)
	suite.Require().ErrorIs(err, types.ErrAlreadyInUse)
}

func (suite *KeeperTestSuite) TestInitReserveWithoutDexMarketRequiresQuoteLiquidity() {
	market, quoteMint := key(1), key(2)
	suite.seedMarket(market, quoteMint)

	p := keeper.InitReserveParams{
		Reserve:          key(10),
		LendingMarket:    market,
		LiquiditySupply:  key(11),
		LiquidityMint:    key(99), // not the quote mint, and no dex market
		CollateralSupply: key(12),
		CollateralMint:   key(13),
		CollateralOutput: key(14),
	}
	err := suite.keeper.InitReserve(suite.ctx, p)
	suite.Require().ErrorIs(err, types.ErrInvalidInput)
}

func (suite *KeeperTestSuite) TestInitReserveSeedsReserveAndInitialCollateral() {
	market, quoteMint := key(1), key(2)
	suite.seedMarket(market, quoteMint)

	reserve := key(10)
	liquiditySupply := key(11)
	collateralMint := key(13)
	collateralOutput := key(14)
	suite.tokenKeeper.SetBalance(liquiditySupply, 100)

	p := keeper.InitReserveParams{
		Reserve:          reserve,
		LendingMarket:    market,
		LiquiditySupply:  liquiditySupply,
		LiquidityMint:    quoteMint,
		CollateralSupply: key(12),
		CollateralMint:   collateralMint,
		CollateralOutput: collateralOutput,
	}
	suite.Require().NoError(suite.keeper.InitReserve(suite.ctx, p))

	r, found := suite.keeper.GetReserve(suite.ctx, reserve)
	suite.Require().True(found)
	suite.Require().Equal(market, r.LendingMarket)

	// the initial collateral rate is 5 collateral per liquidity unit, and
	// the supply account already held 100 liquidity.
	bal, err := suite.tokenKeeper.Balance(suite.ctx, collateralOutput)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(500), bal)
}

func (suite *KeeperTestSuite) TestDepositMintsCollateralAndMovesLiquidity() {
	market, quoteMint := key(1), key(2)
	suite.seedMarket(market, quoteMint)

	reserve, liquiditySupply, collateralMint := key(10), key(11), key(13)
	p := keeper.InitReserveParams{
		Reserve:          reserve,
		LendingMarket:    market,
		LiquiditySupply:  liquiditySupply,
		LiquidityMint:    quoteMint,
		CollateralSupply: key(12),
		CollateralMint:   collateralMint,
		CollateralOutput: key(14),
	}
	suite.Require().NoError(suite.keeper.InitReserve(suite.ctx, p))

	source, dest, collateralOut := key(20), key(21), key(22)
	suite.tokenKeeper.SetBalance(source, 1000)

	suite.Require().NoError(suite.keeper.Deposit(suite.ctx, reserve, 100, source, dest, collateralOut, 1))

	liquidityBal, err := suite.tokenKeeper.Balance(suite.ctx, liquiditySupply)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), liquidityBal)

	// collateral supply started empty, so the first deposit mints at the
	// 5:1 initial rate: 100 liquidity -> 500 collateral.
	collateralBal, err := suite.tokenKeeper.Balance(suite.ctx, collateralOut)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(500), collateralBal)
}

func (suite *KeeperTestSuite) TestWithdrawBurnsCollateralAndReturnsLiquidity() {
	market, quoteMint := key(1), key(2)
	suite.seedMarket(market, quoteMint)

	reserve, liquiditySupply, collateralMint := key(10), key(11), key(13)
	p := keeper.InitReserveParams{
		Reserve:          reserve,
		LendingMarket:    market,
		LiquiditySupply:  liquiditySupply,
		LiquidityMint:    quoteMint,
		CollateralSupply: key(12),
		CollateralMint:   collateralMint,
		CollateralOutput: key(14),
	}
	suite.Require().NoError(suite.keeper.InitReserve(suite.ctx, p))

	source, dest, collateralOut := key(20), key(21), key(22)
	suite.tokenKeeper.SetBalance(source, 1000)
	suite.Require().NoError(suite.keeper.Deposit(suite.ctx, reserve, 100, source, dest, collateralOut, 1))

	liquidityOutput := key(23)
	suite.Require().NoError(suite.keeper.Withdraw(suite.ctx, reserve, 500, collateralOut, liquidityOutput, 1))

	liquidityBal, err := suite.tokenKeeper.Balance(suite.ctx, liquidityOutput)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(100), liquidityBal)

	remainingCollateral, err := suite.tokenKeeper.Balance(suite.ctx, collateralOut)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(0), remainingCollateral)
}

func (suite *KeeperTestSuite) TestDepositUnknownReserveFails() {
	err := suite.keeper.Deposit(suite.ctx, key(99), 1, key(1), key(2), key(3), 1)
	suite.Require().ErrorIs(err, types.ErrReserveNotFound)
}
