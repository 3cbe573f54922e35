package types

import "github.com/sharehodl/sharehodl-blockchain/pkg/accountkey"

// Key is the opaque 32-byte account reference every persistent record uses
// to point at another record or a token account, never a direct pointer
// (§3), mirroring x/lending/types.Key.
type Key = accountkey.Key

// ZeroKey is the all-zero Key, used for unused transaction slots (§3's
// ProposalState.transactions) and as the None sentinel.
var ZeroKey Key

// KeyFromBytes parses a 32-byte account reference.
func KeyFromBytes(b []byte) (Key, error) { return accountkey.FromBytes(b) }

// Module constants
const (
	// ModuleName defines the module name
	ModuleName = "governance"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_governance"
)

// Storage key prefixes. Each persistent record type (§3) lives under its
// own prefix, keyed by its own 32-byte address, the way x/lending prefixes
// every record kind with a single tag byte.
var (
	GovernancePrefix     = []byte{0x01}
	ProposalPrefix       = []byte{0x02}
	ProposalStatePrefix  = []byte{0x03}
	TransactionPrefix    = []byte{0x04}
	VoteRecordPrefix     = []byte{0x05}
)

func GetGovernanceKey(governance Key) []byte {
	return append(append([]byte{}, GovernancePrefix...), governance[:]...)
}

func GetProposalKey(proposal Key) []byte {
	return append(append([]byte{}, ProposalPrefix...), proposal[:]...)
}

func GetProposalStateKey(state Key) []byte {
	return append(append([]byte{}, ProposalStatePrefix...), state[:]...)
}

func GetTransactionKey(transaction Key) []byte {
	return append(append([]byte{}, TransactionPrefix...), transaction[:]...)
}

// GetVoteRecordKey derives a VoteRecord's key from its (proposal, owner)
// pair, since a voter has at most one VoteRecord per proposal (§3).
func GetVoteRecordKey(proposal, owner Key) []byte {
	k := append(append([]byte{}, VoteRecordPrefix...), proposal[:]...)
	return append(k, owner[:]...)
}
