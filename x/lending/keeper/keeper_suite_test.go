package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cometbfttypes "github.com/cometbft/cometbft/api/cometbft/types/v2"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/suite"

	"github.com/sharehodl/sharehodl-blockchain/pkg/accountkey"
	"github.com/sharehodl/sharehodl-blockchain/pkg/orderbook"
	"github.com/sharehodl/sharehodl-blockchain/x/lending/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/lending/types"
)

// MockTokenKeeper implements types.TokenKeeper against in-memory account
// and mint balances, the way the teacher's MockBankKeeper backs SendCoins
// with a plain map instead of a real bank module.
type MockTokenKeeper struct {
	balances map[types.Key]uint64
	mints    map[types.Key]types.Key // mint -> authority, to record InitializeMint calls
	owners   map[types.Key]types.Key // account -> owner
	supply   map[types.Key]uint64
}

func NewMockTokenKeeper() *MockTokenKeeper {
	return &MockTokenKeeper{
		balances: make(map[types.Key]uint64),
		mints:    make(map[types.Key]types.Key),
		owners:   make(map[types.Key]types.Key),
		supply:   make(map[types.Key]uint64),
	}
}

func (m *MockTokenKeeper) InitializeMint(ctx sdk.Context, mint, authority types.Key, decimals uint32) error {
	m.mints[mint] = authority
	return nil
}

func (m *MockTokenKeeper) InitializeAccount(ctx sdk.Context, account, mint, owner types.Key) error {
	m.owners[account] = owner
	return nil
}

func (m *MockTokenKeeper) Transfer(ctx sdk.Context, source, destination, authority types.Key, amount uint64) error {
	if m.balances[source] < amount {
		return types.ErrInvalidInput
	}
	m.balances[source] -= amount
	m.balances[destination] += amount
	return nil
}

func (m *MockTokenKeeper) MintTo(ctx sdk.Context, mint, destination, authority types.Key, amount uint64) error {
	m.balances[destination] += amount
	m.supply[mint] += amount
	return nil
}

func (m *MockTokenKeeper) Burn(ctx sdk.Context, source, mint, authority types.Key, amount uint64) error {
	if m.balances[source] < amount {
		return types.ErrInvalidInput
	}
	m.balances[source] -= amount
	m.supply[mint] -= amount
	return nil
}

func (m *MockTokenKeeper) Supply(ctx sdk.Context, mint types.Key) (uint64, error) {
	return m.supply[mint], nil
}

func (m *MockTokenKeeper) Balance(ctx sdk.Context, account types.Key) (uint64, error) {
	return m.balances[account], nil
}

// SetBalance seeds an account's balance directly, bypassing Transfer/MintTo.
func (m *MockTokenKeeper) SetBalance(account types.Key, amount uint64) {
	m.balances[account] = amount
}

// SetSupply seeds a mint's recorded supply directly.
func (m *MockTokenKeeper) SetSupply(mint types.Key, amount uint64) {
	m.supply[mint] = amount
}

// MockMarketKeeper implements types.MarketKeeper with a fixed best-first
// Level list per market, the way a dex module would serve
// BidRegion/AskRegion; see x/dex/keeper/market_adapter.go for the real
// implementation this mirrors.
type MockMarketKeeper struct {
	baseMint, quoteMint types.Key
	bids, asks          types.Key
	bidLevels, askLevels []orderbook.Level
}

func (m *MockMarketKeeper) MarketState(ctx sdk.Context, market types.Key) (baseMint, quoteMint, bids, asks types.Key, err error) {
	return m.baseMint, m.quoteMint, m.bids, m.asks, nil
}

func (m *MockMarketKeeper) BidRegion(ctx sdk.Context, bids types.Key) ([]byte, error) {
	return orderbook.EncodeLevels(m.bidLevels), nil
}

func (m *MockMarketKeeper) AskRegion(ctx sdk.Context, asks types.Key) ([]byte, error) {
	return orderbook.EncodeLevels(m.askLevels), nil
}

type KeeperTestSuite struct {
	suite.Suite
	keeper       *keeper.Keeper
	ctx          sdk.Context
	tokenKeeper  *MockTokenKeeper
	marketKeeper *MockMarketKeeper
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (suite *KeeperTestSuite) SetupTest() {
	suite.tokenKeeper = NewMockTokenKeeper()
	suite.marketKeeper = &MockMarketKeeper{}

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	memKey := storetypes.NewMemoryStoreKey(types.MemStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(memKey, storetypes.StoreTypeMemory, nil)
	err := stateStore.LoadLatestVersion()
	suite.Require().NoError(err)

	header := cometbfttypes.Header{Height: 1, Time: time.Unix(0, 0)}
	suite.ctx = sdk.NewContext(stateStore, header, false, log.NewNopLogger())

	suite.keeper = keeper.NewKeeper(nil, storeKey, memKey, suite.tokenKeeper, suite.marketKeeper)
}

// key derives a distinct, deterministic test Key from a seed byte so test
// cases can refer to accounts/mints/reserves by short, readable names.
func key(seed byte) types.Key {
	var k accountkey.Key
	k[0] = seed
	return k
}
