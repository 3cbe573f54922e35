package types

const (
	// ModuleName defines the module name
	ModuleName = "lending"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_lending"
)

// Store key prefixes. Each persistent record type (§3) lives under its own
// prefix, keyed by its own 32-byte address, the way the teacher's modules
// prefix every record kind with a single tag byte.
var (
	LendingMarketPrefix = []byte{0x01}
	ReservePrefix       = []byte{0x02}
	ObligationPrefix    = []byte{0x03}
)

func GetLendingMarketKey(market Key) []byte {
	return append(append([]byte{}, LendingMarketPrefix...), market[:]...)
}

func GetReserveKey(reserve Key) []byte {
	return append(append([]byte{}, ReservePrefix...), reserve[:]...)
}

func GetObligationKey(obligation Key) []byte {
	return append(append([]byte{}, ObligationPrefix...), obligation[:]...)
}
