package types

import (
	"encoding/binary"
	"fmt"

	"github.com/sharehodl/sharehodl-blockchain/pkg/accountkey"
	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
)

// Key is the opaque 32-byte account reference used throughout the
// lending record layouts; shared with x/hodl and x/dex so every keeper
// interface in this tree addresses mints and accounts identically.
type Key = accountkey.Key

// ZeroKey is the absent/unset reference.
var ZeroKey = accountkey.Zero

func KeyFromBytes(b []byte) (Key, error) { return accountkey.FromBytes(b) }

// optKey is the 4-byte tag + 32-byte payload optional-key encoding of §6.2.
const (
	optTagNone = uint32(0)
	optTagSome = uint32(1)
	optKeySize = 4 + 32
)

func putOptKey(buf []byte, k Key, present bool) {
	if present {
		binary.LittleEndian.PutUint32(buf[0:4], optTagSome)
	} else {
		binary.LittleEndian.PutUint32(buf[0:4], optTagNone)
	}
	copy(buf[4:36], k[:])
}

func getOptKey(buf []byte) (Key, bool, error) {
	tag := binary.LittleEndian.Uint32(buf[0:4])
	var k Key
	copy(k[:], buf[4:36])
	switch tag {
	case optTagNone:
		return Key{}, false, nil
	case optTagSome:
		return k, true, nil
	default:
		return Key{}, false, fmt.Errorf("lending: bad optional-key tag %d", tag)
	}
}

// LendingMarket is initialized-once configuration shared by a family of
// Reserves. Once is_initialized is true no field may change.
type LendingMarket struct {
	IsInitialized  bool
	QuoteTokenMint Key
}

const LendingMarketSize = 1 + 32

func (m LendingMarket) MarshalBinary() ([]byte, error) {
	buf := make([]byte, LendingMarketSize)
	if m.IsInitialized {
		buf[0] = 1
	}
	copy(buf[1:33], m.QuoteTokenMint[:])
	return buf, nil
}

func (m *LendingMarket) UnmarshalBinary(buf []byte) error {
	if len(buf) != LendingMarketSize {
		return fmt.Errorf("lending: LendingMarket record must be %d bytes, got %d", LendingMarketSize, len(buf))
	}
	m.IsInitialized = buf[0] != 0
	copy(m.QuoteTokenMint[:], buf[1:33])
	return nil
}

// Reserve is the persistent record of a single asset pool under a
// LendingMarket.
type Reserve struct {
	LendingMarket    Key
	LiquiditySupply  Key
	LiquidityMint    Key
	CollateralSupply Key
	CollateralMint   Key

	HasDexMarket              bool
	DexMarket                 Key
	DexMarketPrice            uint64
	DexMarketPriceUpdatedSlot uint64

	CumulativeBorrowRate  decimal.Decimal
	TotalBorrows          decimal.Decimal
	BorrowStateUpdateSlot uint64
}

// ReserveSize is the bit-exact on-disk width of a Reserve record (§6.2):
// is_initialized(1) + lending_market(32) + liquidity_supply(32) +
// liquidity_mint(32) + collateral_supply(32) + collateral_mint(32) +
// dex_market_option(36) + dex_market_price(8) +
// dex_market_price_updated_slot(8) + cumulative_borrow_rate(16) +
// total_borrows(16) + borrow_state_update_slot(8).
const ReserveSize = 1 + 32 + 32 + 32 + 32 + 32 + optKeySize + 8 + 8 + 16 + 16 + 8

func (r Reserve) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ReserveSize)
	buf[0] = 1 // is_initialized; a Reserve is only ever serialized once live
	off := 1
	for _, k := range []Key{r.LendingMarket, r.LiquiditySupply, r.LiquidityMint, r.CollateralSupply, r.CollateralMint} {
		copy(buf[off:off+32], k[:])
		off += 32
	}
	putOptKey(buf[off:off+optKeySize], r.DexMarket, r.HasDexMarket)
	off += optKeySize
	binary.LittleEndian.PutUint64(buf[off:off+8], r.DexMarketPrice)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:off+8], r.DexMarketPriceUpdatedSlot)
	off += 8
	rateBytes := r.CumulativeBorrowRate.Bytes16()
	copy(buf[off:off+16], rateBytes[:])
	off += 16
	borrowsBytes := r.TotalBorrows.Bytes16()
	copy(buf[off:off+16], borrowsBytes[:])
	off += 16
	binary.LittleEndian.PutUint64(buf[off:off+8], r.BorrowStateUpdateSlot)
	return buf, nil
}

func (r *Reserve) UnmarshalBinary(buf []byte) error {
	if len(buf) != ReserveSize {
		return fmt.Errorf("lending: Reserve record must be %d bytes, got %d", ReserveSize, len(buf))
	}
	off := 1
	keys := make([]*Key, 5)
	keys[0], keys[1], keys[2], keys[3], keys[4] = &r.LendingMarket, &r.LiquiditySupply, &r.LiquidityMint, &r.CollateralSupply, &r.CollateralMint
	for _, k := range keys {
		copy(k[:], buf[off:off+32])
		off += 32
	}
	dexKey, present, err := getOptKey(buf[off : off+optKeySize])
	if err != nil {
		return err
	}
	r.DexMarket, r.HasDexMarket = dexKey, present
	off += optKeySize
	r.DexMarketPrice = binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	r.DexMarketPriceUpdatedSlot = binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	var rateBytes, borrowsBytes [16]byte
	copy(rateBytes[:], buf[off:off+16])
	r.CumulativeBorrowRate = decimal.FromBytes16(rateBytes)
	off += 16
	copy(borrowsBytes[:], buf[off:off+16])
	r.TotalBorrows = decimal.FromBytes16(borrowsBytes)
	off += 16
	r.BorrowStateUpdateSlot = binary.LittleEndian.Uint64(buf[off : off+8])
	return nil
}

// Obligation is the persistent record of a single loan.
type Obligation struct {
	LastUpdateSlot       uint64
	CollateralAmount     uint64
	CollateralSupply     Key
	CumulativeBorrowRate decimal.Decimal
	BorrowAmount         decimal.Decimal
	BorrowReserve        Key
	TokenMint            Key
}

// ObligationSize: last_update_slot(8) + collateral_amount(8) +
// collateral_supply(32) + cumulative_borrow_rate(16) + borrow_amount(16) +
// borrow_reserve(32) + token_mint(32).
const ObligationSize = 8 + 8 + 32 + 16 + 16 + 32 + 32

func (o Obligation) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ObligationSize)
	off := 0
	binary.LittleEndian.PutUint64(buf[off:off+8], o.LastUpdateSlot)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:off+8], o.CollateralAmount)
	off += 8
	copy(buf[off:off+32], o.CollateralSupply[:])
	off += 32
	rateBytes := o.CumulativeBorrowRate.Bytes16()
	copy(buf[off:off+16], rateBytes[:])
	off += 16
	borrowBytes := o.BorrowAmount.Bytes16()
	copy(buf[off:off+16], borrowBytes[:])
	off += 16
	copy(buf[off:off+32], o.BorrowReserve[:])
	off += 32
	copy(buf[off:off+32], o.TokenMint[:])
	return buf, nil
}

func (o *Obligation) UnmarshalBinary(buf []byte) error {
	if len(buf) != ObligationSize {
		return fmt.Errorf("lending: Obligation record must be %d bytes, got %d", ObligationSize, len(buf))
	}
	off := 0
	o.LastUpdateSlot = binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	o.CollateralAmount = binary.LittleEndian.Uint64(buf[off : off+8])
	off += 8
	copy(o.CollateralSupply[:], buf[off:off+32])
	off += 32
	var rateBytes, borrowBytes [16]byte
	copy(rateBytes[:], buf[off:off+16])
	o.CumulativeBorrowRate = decimal.FromBytes16(rateBytes)
	off += 16
	copy(borrowBytes[:], buf[off:off+16])
	o.BorrowAmount = decimal.FromBytes16(borrowBytes)
	off += 16
	copy(o.BorrowReserve[:], buf[off:off+32])
	off += 32
	copy(o.TokenMint[:], buf[off:off+32])
	return nil
}

// IsEmpty reports whether the obligation has been fully unwound (§3:
// destruction is a host concern; the core only leaves a zero state).
func (o Obligation) IsEmpty() bool {
	return o.BorrowAmount.IsZero() && o.CollateralAmount == 0
}

// CollateralExchangeRate is the rate, in collateral tokens per liquidity
// unit, at which a Reserve's collateral mint trades against its liquidity.
// It is a distinct value type (not a free function on Reserve) so the
// §4.3.3 precondition that it was computed in the same slot as the most
// recent cumulative-rate update is enforced once, at construction.
type CollateralExchangeRate struct {
	rate decimal.Decimal
}

// InitialCollateralRate is the rate assigned to a Reserve the first time
// its collateral mint has zero supply: 5 collateral tokens per liquidity
// unit.
var InitialCollateralRate = decimal.FromU64(5)

// NewCollateralExchangeRate computes the §4.3.3 rate for a Reserve whose
// cumulative borrow rate was just advanced in the current slot.
// borrowStateUpdateSlot must equal currentSlot or this fails InvalidInput.
func NewCollateralExchangeRate(collateralSupply uint64, totalBorrows decimal.Decimal, liquiditySupply uint64, borrowStateUpdateSlot, currentSlot uint64) (CollateralExchangeRate, error) {
	if borrowStateUpdateSlot != currentSlot {
		return CollateralExchangeRate{}, ErrInvalidInput
	}
	if collateralSupply == 0 {
		return CollateralExchangeRate{rate: InitialCollateralRate}, nil
	}
	denom, err := totalBorrows.Add(decimal.FromU64(liquiditySupply))
	if err != nil {
		return CollateralExchangeRate{}, err
	}
	rate, err := decimal.FromU64(collateralSupply).Quo(denom)
	if err != nil {
		return CollateralExchangeRate{}, err
	}
	return CollateralExchangeRate{rate: rate}, nil
}

// LiquidityToCollateral converts a liquidity amount into collateral
// tokens: amount * rate.
func (c CollateralExchangeRate) LiquidityToCollateral(amount uint64) (uint64, error) {
	product, err := decimal.FromU64(amount).Mul(c.rate)
	if err != nil {
		return 0, err
	}
	return product.RoundU64()
}

// CollateralToLiquidity converts a collateral amount into liquidity
// units: amount / rate.
func (c CollateralExchangeRate) CollateralToLiquidity(amount uint64) (uint64, error) {
	quotient, err := decimal.FromU64(amount).Quo(c.rate)
	if err != nil {
		return 0, err
	}
	return quotient.RoundU64()
}
