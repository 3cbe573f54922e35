package types

import (
	"cosmossdk.io/errors"
)

// x/lending module sentinel errors, registered with a stable codespace the
// way every module in this tree does (see x/hodl/types/errors.go).
var (
	ErrAlreadyInUse          = errors.Register(ModuleName, 1, "already in use")
	ErrNotRentExempt         = errors.Register(ModuleName, 2, "account balance below rent-exempt threshold")
	ErrInvalidInput          = errors.Register(ModuleName, 3, "invalid input")
	ErrInvalidInstruction    = errors.Register(ModuleName, 4, "invalid instruction")
	ErrInvalidProgramAddress = errors.Register(ModuleName, 5, "invalid derived program address")

	ErrInvalidOwner           = errors.Register(ModuleName, 10, "invalid account owner")
	ErrInvalidTokenProgram    = errors.Register(ModuleName, 11, "invalid token program")
	ErrInvalidCollateral      = errors.Register(ModuleName, 12, "invalid collateral")
	ErrInvalidDelegate        = errors.Register(ModuleName, 13, "invalid delegate")
	ErrInvalidCloseAuthority  = errors.Register(ModuleName, 14, "invalid close authority")
	ErrInvalidFreezeAuthority = errors.Register(ModuleName, 15, "invalid freeze authority")

	ErrLendingMarketMismatch = errors.Register(ModuleName, 20, "lending market mismatch")
	ErrPoolFull              = errors.Register(ModuleName, 21, "pool full")
	ErrPoolMismatch          = errors.Register(ModuleName, 22, "pool mismatch")

	ErrReservePriceUnset   = errors.Register(ModuleName, 30, "reserve price unset")
	ErrReservePriceExpired = errors.Register(ModuleName, 31, "reserve price expired")

	ErrTokenInitializeMintFailed    = errors.Register(ModuleName, 40, "token initialize_mint failed")
	ErrTokenInitializeAccountFailed = errors.Register(ModuleName, 41, "token initialize_account failed")
	ErrTokenTransferFailed          = errors.Register(ModuleName, 42, "token transfer failed")
	ErrTokenMintToFailed            = errors.Register(ModuleName, 43, "token mint_to failed")
	ErrTokenBurnFailed              = errors.Register(ModuleName, 44, "token burn failed")

	ErrLendingMarketNotFound = errors.Register(ModuleName, 50, "lending market not found")
	ErrReserveNotFound       = errors.Register(ModuleName, 51, "reserve not found")
	ErrObligationNotFound    = errors.Register(ModuleName, 52, "obligation not found")
)

// Event types emitted on every state transition.
const (
	EventTypeLendingMarketInitialized = "lending_market_initialized"
	EventTypeReserveInitialized       = "reserve_initialized"
	EventTypeReserveDeposit           = "reserve_deposit"
	EventTypeReserveWithdraw          = "reserve_withdraw"
	EventTypeObligationBorrow         = "obligation_borrow"
	EventTypeObligationRepay          = "obligation_repay"
	EventTypeReservePriceSet          = "reserve_price_set"
)

// Attribute keys.
const (
	AttributeKeyLendingMarket   = "lending_market"
	AttributeKeyReserve         = "reserve"
	AttributeKeyObligation      = "obligation"
	AttributeKeyLiquidityAmount = "liquidity_amount"
	AttributeKeyCollateralAmount = "collateral_amount"
	AttributeKeyBorrowAmount    = "borrow_amount"
	AttributeKeyRepayAmount     = "repay_amount"
	AttributeKeyPrice           = "price"
	AttributeKeySlot            = "slot"
)
