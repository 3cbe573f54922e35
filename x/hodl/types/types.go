package types

import (
	"encoding/binary"

	"github.com/sharehodl/sharehodl-blockchain/pkg/accountkey"
)

// Mint is a fungible-token mint: its supply and the authority key permitted
// to mint/burn against it. Decimals is carried for completeness even
// though every quantity elsewhere in this tree is an untyped uint64 amount
// (the spec's records never carry fractional token units directly).
type Mint struct {
	Authority accountkey.Key
	Decimals  uint32
	Supply    uint64
}

const mintSize = 32 + 4 + 8

func (m Mint) MarshalBinary() []byte {
	buf := make([]byte, mintSize)
	copy(buf[0:32], m.Authority[:])
	binary.LittleEndian.PutUint32(buf[32:36], m.Decimals)
	binary.LittleEndian.PutUint64(buf[36:44], m.Supply)
	return buf
}

func (m *Mint) UnmarshalBinary(buf []byte) {
	copy(m.Authority[:], buf[0:32])
	m.Decimals = binary.LittleEndian.Uint32(buf[32:36])
	m.Supply = binary.LittleEndian.Uint64(buf[36:44])
}

// Account is a single (mint, owner) balance record, mirroring the SPL
// token-account model the lending core's record layouts assume: accounts
// are addressed by an opaque 32-byte key, not implicitly by their owner.
type Account struct {
	Mint    accountkey.Key
	Owner   accountkey.Key
	Balance uint64
}

const accountSize = 32 + 32 + 8

func (a Account) MarshalBinary() []byte {
	buf := make([]byte, accountSize)
	copy(buf[0:32], a.Mint[:])
	copy(buf[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[64:72], a.Balance)
	return buf
}

func (a *Account) UnmarshalBinary(buf []byte) {
	copy(a.Mint[:], buf[0:32])
	copy(a.Owner[:], buf[32:64])
	a.Balance = binary.LittleEndian.Uint64(buf[64:72])
}
