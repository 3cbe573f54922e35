package types

import (
	"cosmossdk.io/errors"
)

// x/hodl module sentinel errors: the token-primitive adapter's half of the
// §7 TokenInitialize*/Transfer/MintTo/Burn failure vocabulary.
var (
	ErrMintAlreadyInUse     = errors.Register(ModuleName, 1, "mint already initialized")
	ErrMintNotFound         = errors.Register(ModuleName, 2, "mint not found")
	ErrAccountAlreadyInUse  = errors.Register(ModuleName, 3, "account already initialized")
	ErrAccountNotFound      = errors.Register(ModuleName, 4, "account not found")
	ErrInvalidAuthority     = errors.Register(ModuleName, 5, "invalid mint or account authority")
	ErrInsufficientBalance  = errors.Register(ModuleName, 6, "insufficient account balance")
	ErrInvalidAmount        = errors.Register(ModuleName, 7, "invalid amount")
	ErrMintOwnerMismatch    = errors.Register(ModuleName, 8, "account does not belong to mint")
)
