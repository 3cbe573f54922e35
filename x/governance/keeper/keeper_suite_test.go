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
	"github.com/sharehodl/sharehodl-blockchain/x/governance/keeper"
	"github.com/sharehodl/sharehodl-blockchain/x/governance/types"
)

// MockTokenKeeper implements types.TokenKeeper against in-memory account
// and mint balances, mirroring x/lending/keeper's MockTokenKeeper.
type MockTokenKeeper struct {
	balances map[types.Key]uint64
	mints    map[types.Key]types.Key
	owners   map[types.Key]types.Key
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

// MockInstructionDispatcher implements types.InstructionDispatcher,
// recording every dispatched instruction instead of routing it to a real
// cross-program invocation channel, the way MockTokenKeeper stands in for
// x/hodl.
type MockInstructionDispatcher struct {
	calls []DispatchCall
	err   error
}

type DispatchCall struct {
	Authority   types.Key
	Program     types.Key
	Accounts    []types.Key
	Instruction []byte
}

func (m *MockInstructionDispatcher) Dispatch(ctx sdk.Context, authority, program types.Key, accounts []types.Key, instruction []byte) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, DispatchCall{Authority: authority, Program: program, Accounts: accounts, Instruction: instruction})
	return nil
}

type KeeperTestSuite struct {
	suite.Suite
	keeper     *keeper.Keeper
	ctx        sdk.Context
	token      *MockTokenKeeper
	dispatcher *MockInstructionDispatcher
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (suite *KeeperTestSuite) SetupTest() {
	suite.token = NewMockTokenKeeper()
	suite.dispatcher = &MockInstructionDispatcher{}

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

	suite.keeper = keeper.NewKeeper(nil, storeKey, memKey, suite.token, suite.dispatcher)
}

// key derives a distinct, deterministic test Key from a seed byte so test
// cases can refer to accounts/mints/proposals by short, readable names.
func key(seed byte) types.Key {
	var k accountkey.Key
	k[0] = seed
	return k
}

// key2 derives a distinct test Key from two seed bytes, for tables that
// need more distinct accounts than a single byte comfortably names.
func key2(a, b byte) types.Key {
	var k accountkey.Key
	k[0] = a
	k[1] = b
	return k
}
