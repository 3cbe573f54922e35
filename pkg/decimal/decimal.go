// Package decimal implements the fixed-point scalar used throughout the
// reserve and obligation accrual math. It is deliberately NOT a float: every
// cross-implementation divergence observed in practice traces back to floats,
// so every operation here is exact integer arithmetic on a 256-bit word.
package decimal

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Scale is the number of fractional digits carried by every Decimal value.
const Scale = 18

var (
	// ErrOverflow is returned when an operation would not fit in 256 bits.
	ErrOverflow = fmt.Errorf("decimal: overflow")
	// ErrNegative is returned when a subtraction would produce a negative result.
	ErrNegative = fmt.Errorf("decimal: negative result")
	// ErrDivideByZero is returned by Quo when the divisor is zero.
	ErrDivideByZero = fmt.Errorf("decimal: divide by zero")
)

var wad = func() *uint256.Int {
	w, overflow := uint256.FromBig(new(big.Int).Exp(big.NewInt(10), big.NewInt(Scale), nil))
	if overflow {
		panic("decimal: wad does not fit in 256 bits")
	}
	return w
}()

// Decimal is a signed-wide fixed-point scalar with Scale fractional digits,
// backed by a 256-bit unsigned integer: raw = value * 10^Scale.
type Decimal struct {
	raw *uint256.Int
}

// Zero returns the Decimal value 0.
func Zero() Decimal {
	return Decimal{raw: new(uint256.Int)}
}

// One returns the Decimal value 1.
func One() Decimal {
	return Decimal{raw: new(uint256.Int).Set(wad)}
}

// FromU64 converts an integer into a Decimal (raw = u * 10^Scale).
func FromU64(u uint64) Decimal {
	raw, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(u), wad)
	if overflow {
		panic(ErrOverflow)
	}
	return Decimal{raw: raw}
}

// New builds a Decimal from an integer v expressed with s fractional digits
// (s must be <= Scale), i.e. raw = v * 10^(Scale-s).
func New(v uint64, s uint) (Decimal, error) {
	if s > Scale {
		return Decimal{}, fmt.Errorf("decimal: scale %d exceeds max %d", s, Scale)
	}
	shift := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(Scale-s)), nil)
	factor, overflow := uint256.FromBig(shift)
	if overflow {
		return Decimal{}, ErrOverflow
	}
	raw, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(v), factor)
	if overflow {
		return Decimal{}, ErrOverflow
	}
	return Decimal{raw: raw}, nil
}

func fromRaw(raw *uint256.Int) Decimal {
	return Decimal{raw: raw}
}

func (d Decimal) ensure() *uint256.Int {
	if d.raw == nil {
		return new(uint256.Int)
	}
	return d.raw
}

// Add returns a + b, failing on 256-bit overflow.
func (a Decimal) Add(b Decimal) (Decimal, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a.ensure(), b.ensure())
	if overflow {
		return Decimal{}, ErrOverflow
	}
	return fromRaw(sum), nil
}

// Sub returns a - b, failing if b > a (no negative Decimal values exist).
func (a Decimal) Sub(b Decimal) (Decimal, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a.ensure(), b.ensure())
	if underflow {
		return Decimal{}, ErrNegative
	}
	return fromRaw(diff), nil
}

// Mul returns a * b = (a.raw * b.raw) / 10^Scale, truncated toward zero.
func (a Decimal) Mul(b Decimal) (Decimal, error) {
	product := new(big.Int).Mul(a.ensure().ToBig(), b.ensure().ToBig())
	product.Quo(product, wad.ToBig())
	raw, overflow := uint256.FromBig(product)
	if overflow {
		return Decimal{}, ErrOverflow
	}
	return fromRaw(raw), nil
}

// Quo returns a / b = (a.raw * 10^Scale) / b.raw, truncated toward zero.
func (a Decimal) Quo(b Decimal) (Decimal, error) {
	if b.ensure().IsZero() {
		return Decimal{}, ErrDivideByZero
	}
	scaled := new(big.Int).Mul(a.ensure().ToBig(), wad.ToBig())
	scaled.Quo(scaled, b.ensure().ToBig())
	raw, overflow := uint256.FromBig(scaled)
	if overflow {
		return Decimal{}, ErrOverflow
	}
	return fromRaw(raw), nil
}

// RoundU64 returns raw / 10^Scale, truncated, failing if the result does not
// fit in a uint64.
func (a Decimal) RoundU64() (uint64, error) {
	q := new(uint256.Int).Div(a.ensure(), wad)
	if !q.IsUint64() {
		return 0, ErrOverflow
	}
	return q.Uint64(), nil
}

// Cmp compares a and b, returning -1, 0 or 1.
func (a Decimal) Cmp(b Decimal) int {
	return a.ensure().Cmp(b.ensure())
}

// LT reports whether a < b.
func (a Decimal) LT(b Decimal) bool { return a.Cmp(b) < 0 }

// LTE reports whether a <= b.
func (a Decimal) LTE(b Decimal) bool { return a.Cmp(b) <= 0 }

// GT reports whether a > b.
func (a Decimal) GT(b Decimal) bool { return a.Cmp(b) > 0 }

// GTE reports whether a >= b.
func (a Decimal) GTE(b Decimal) bool { return a.Cmp(b) >= 0 }

// IsZero reports whether a is exactly zero.
func (a Decimal) IsZero() bool { return a.ensure().IsZero() }

// String renders the decimal value in fixed-point notation.
func (a Decimal) String() string {
	raw := a.ensure().ToBig()
	whole := new(big.Int).Quo(raw, wad.ToBig())
	frac := new(big.Int).Mod(raw, wad.ToBig())
	return fmt.Sprintf("%s.%018s", whole.String(), frac.String())
}

// Bytes16 serializes the low 128 bits of raw, little-endian. The caller
// guarantees every value passed to storage fits in 128 bits, which holds for
// all monetary quantities in this system.
func (a Decimal) Bytes16() [16]byte {
	b32 := a.ensure().Bytes32() // big-endian, 32 bytes
	var out [16]byte
	// low 128 bits are the last 16 bytes of the big-endian encoding; reverse
	// them into little-endian order for the wire format.
	for i := 0; i < 16; i++ {
		out[i] = b32[31-i]
	}
	return out
}

// FromBytes16 deserializes the low 128 bits of raw, little-endian.
func FromBytes16(b [16]byte) Decimal {
	var be [32]byte
	for i := 0; i < 16; i++ {
		be[31-i] = b[i]
	}
	raw := new(uint256.Int).SetBytes(be[:])
	return fromRaw(raw)
}
