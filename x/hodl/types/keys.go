package types

import "github.com/sharehodl/sharehodl-blockchain/pkg/accountkey"

const (
	// ModuleName defines the module name
	ModuleName = "hodl"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_hodl"
)

// Store key prefixes for the token-primitive ledger: one record per mint,
// one per (mint, owner) account.
var (
	MintPrefix    = []byte{0x01}
	AccountPrefix = []byte{0x02}
)

func MintKey(mint accountkey.Key) []byte {
	return append(append([]byte{}, MintPrefix...), mint[:]...)
}

func AccountKey(account accountkey.Key) []byte {
	return append(append([]byte{}, AccountPrefix...), account[:]...)
}
