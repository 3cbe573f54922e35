package orderbook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFillSingleLevelExactQuote(t *testing.T) {
	levels := []Level{{Price: 2204, BaseQuantity: 1000, QuoteQuantity: 2_204_000}}
	out, err := Fill(levels, 2_204_000, true)
	require.NoError(t, err)
	got, err := out.RoundU64()
	require.NoError(t, err)
	require.Equal(t, uint64(1000), got)
}

func TestFillWalksMultipleLevels(t *testing.T) {
	levels := []Level{
		{Price: 100, BaseQuantity: 10, QuoteQuantity: 1000},
		{Price: 110, BaseQuantity: 10, QuoteQuantity: 1100},
	}
	// consume all of level one (1000 quote) plus half of level two's quote.
	out, err := Fill(levels, 1550, true)
	require.NoError(t, err)
	got, err := out.RoundU64()
	require.NoError(t, err)
	// 10 base from level one + 5 base from level two (550/1100*10) = 15
	require.Equal(t, uint64(15), got)
}

func TestFillBaseInput(t *testing.T) {
	levels := []Level{{Price: 2204, BaseQuantity: 1000, QuoteQuantity: 2_204_000}}
	out, err := Fill(levels, 1000, false)
	require.NoError(t, err)
	got, err := out.RoundU64()
	require.NoError(t, err)
	require.Equal(t, uint64(2_204_000), got)
}

func TestFillStopsWhenLevelsExhausted(t *testing.T) {
	levels := []Level{{Price: 100, BaseQuantity: 10, QuoteQuantity: 1000}}
	out, err := Fill(levels, 5000, true)
	require.NoError(t, err)
	got, err := out.RoundU64()
	require.NoError(t, err)
	require.Equal(t, uint64(10), got)
}

func TestEncodeDecodeLevelsRoundTrip(t *testing.T) {
	levels := []Level{
		{Price: 100, BaseQuantity: 10, QuoteQuantity: 1000},
		{Price: 110, BaseQuantity: 20, QuoteQuantity: 2200},
	}
	region := EncodeLevels(levels)
	decoded, err := DecodeLevels(region)
	require.NoError(t, err)
	require.Equal(t, levels, decoded)
}
