package orderbook

import (
	"encoding/binary"

	"github.com/sharehodl/sharehodl-blockchain/pkg/decimal"
)

// Level is one aggregated price level consumed during a §4.4.3 fill walk:
// BaseQuantity and QuoteQuantity are the base- and quote-denominated sizes
// resting at that level, mirroring the shape the matching engine already
// aggregates orders into (x/dex/keeper/matching_engine.go's
// aggregateOrdersByPrice, which groups resting orders by price and sums
// their remaining quantity).
type Level struct {
	Price         uint64
	BaseQuantity  uint64
	QuoteQuantity uint64
}

// levelSize is the fixed wire width of one Level: price(8) + base_qty(8) +
// quote_qty(8).
const levelSize = 24

// EncodeLevels serializes levels little-endian, best-first, as a
// [4-byte count][count * levelSize] byte region. This is the wire format the
// dex market adapter emits for AskRegion/BidRegion so a Borrow handler can
// walk them with DecodeLevels + Fill without holding a live keeper
// reference to x/dex.
func EncodeLevels(levels []Level) []byte {
	buf := make([]byte, 4+len(levels)*levelSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(levels)))
	off := 4
	for _, l := range levels {
		binary.LittleEndian.PutUint64(buf[off:off+8], l.Price)
		binary.LittleEndian.PutUint64(buf[off+8:off+16], l.BaseQuantity)
		binary.LittleEndian.PutUint64(buf[off+16:off+24], l.QuoteQuantity)
		off += levelSize
	}
	return buf
}

// DecodeLevels parses the region EncodeLevels produces.
func DecodeLevels(region []byte) ([]Level, error) {
	if len(region) < 4 {
		return nil, ErrInvalidInput
	}
	count := int(binary.LittleEndian.Uint32(region[0:4]))
	if len(region) != 4+count*levelSize {
		return nil, ErrInvalidInput
	}
	levels := make([]Level, count)
	off := 4
	for i := 0; i < count; i++ {
		levels[i] = Level{
			Price:         binary.LittleEndian.Uint64(region[off : off+8]),
			BaseQuantity:  binary.LittleEndian.Uint64(region[off+8 : off+16]),
			QuoteQuantity: binary.LittleEndian.Uint64(region[off+16 : off+24]),
		}
		off += levelSize
	}
	return levels, nil
}

// Fill walks levels from the best price outward (the caller supplies them
// already ordered best-first for the side in play, per §4.4.3), consuming
// fillQuantity = min(remaining, limiting quantity) per level and
// accumulating fillQuantity * base/quote (or the quote/base reciprocal when
// inputIsQuote is false) into the output. inputIsQuote selects which side
// of each level bounds the fill: true when remaining is denominated in
// quote units (the BID case of §4.4.3, converting quote into base), false
// when remaining is denominated in base units (the ASK case, converting
// base into quote).
func Fill(levels []Level, remaining uint64, inputIsQuote bool) (decimal.Decimal, error) {
	out := decimal.Zero()
	for _, level := range levels {
		if remaining == 0 {
			break
		}
		if level.BaseQuantity == 0 || level.QuoteQuantity == 0 {
			continue
		}

		limiting := level.QuoteQuantity
		numerator, denominator := level.BaseQuantity, level.QuoteQuantity
		if !inputIsQuote {
			limiting = level.BaseQuantity
			numerator, denominator = level.QuoteQuantity, level.BaseQuantity
		}

		fillQuantity := remaining
		if limiting < fillQuantity {
			fillQuantity = limiting
		}

		contribution, err := decimal.FromU64(fillQuantity).Mul(decimal.FromU64(numerator))
		if err != nil {
			return decimal.Decimal{}, err
		}
		contribution, err = contribution.Quo(decimal.FromU64(denominator))
		if err != nil {
			return decimal.Decimal{}, err
		}
		out, err = out.Add(contribution)
		if err != nil {
			return decimal.Decimal{}, err
		}

		remaining -= fillQuantity
	}
	return out, nil
}
