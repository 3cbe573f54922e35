// Package orderbook reads best bid/ask prices out of an opaque market
// account region supplied by the order-book service. The region is treated
// as untrusted, aliasable memory: every read goes through a scratch copy
// the caller owns, mirroring the defensive copy pattern the matching engine
// uses before mutating order book levels in place
// (x/dex/keeper/matching_engine.go's GetOrderBookAggregated/
// aggregateOrdersByPrice never reads a price list twice off the same
// backing array while mutating it).
package orderbook

import (
	"encoding/binary"
	"fmt"
)

// Side selects which end of the tree to read: Bid wants the maximum key,
// Ask wants the minimum key.
type Side int

const (
	Bid Side = iota
	Ask
)

// ErrInvalidInput is returned for a malformed region or a missing root.
var ErrInvalidInput = fmt.Errorf("orderbook: invalid input")

const (
	headSkip    = 5
	countSkip   = 8
	trailerSize = 7

	nodeSize   = 17
	tagEmpty   = 0
	tagInner   = 1
	tagLeaf    = 2
	rootIndex  = 0
)

// node is one fixed-size slot of the payload's binary-search tree of
// leaves. Inner nodes carry a routing key and left/right child indices;
// leaf nodes carry the 64-bit price.
type node struct {
	tag   byte
	key   uint64
	left  uint32
	right uint32
}

func decodeNode(b []byte) node {
	n := node{tag: b[0]}
	switch n.tag {
	case tagInner:
		n.key = binary.LittleEndian.Uint64(b[1:9])
		n.left = binary.LittleEndian.Uint32(b[9:13])
		n.right = binary.LittleEndian.Uint32(b[13:17])
	case tagLeaf:
		n.key = binary.LittleEndian.Uint64(b[1:9])
	}
	return n
}

// ReadBest copies the payload region of region into scratch, parses it as
// a tree of leaves, and returns the best price for side: the maximum key
// for Bid, the minimum key for Ask. scratch is zeroed before ReadBest
// returns, whether or not it succeeds, so no instruction executing later
// in the same transaction can observe residue of a prior read.
//
// region must be laid out [5-byte skip][8-byte skip][payload][7-byte
// trailer]; scratch must be at least as large as the payload.
func ReadBest(region []byte, scratch []byte, side Side) (price uint64, err error) {
	if len(region) < headSkip+countSkip+trailerSize {
		return 0, ErrInvalidInput
	}
	payload := region[headSkip+countSkip : len(region)-trailerSize]
	if len(scratch) < len(payload) {
		return 0, ErrInvalidInput
	}
	copy(scratch, payload)
	defer zero(scratch)

	return readBestFromScratch(scratch[:len(payload)], side)
}

func readBestFromScratch(scratch []byte, side Side) (uint64, error) {
	if len(scratch) < nodeSize {
		return 0, ErrInvalidInput
	}
	root := decodeNode(scratch[:nodeSize])
	if root.tag == tagEmpty {
		return 0, ErrInvalidInput
	}

	cur := root
	for cur.tag == tagInner {
		var nextIdx uint32
		if side == Bid {
			nextIdx = cur.right
		} else {
			nextIdx = cur.left
		}
		off := int(nextIdx) * nodeSize
		if off < 0 || off+nodeSize > len(scratch) {
			return 0, ErrInvalidInput
		}
		next := decodeNode(scratch[off : off+nodeSize])
		if next.tag == tagEmpty {
			return 0, ErrInvalidInput
		}
		cur = next
	}
	if cur.tag != tagLeaf {
		return 0, ErrInvalidInput
	}
	return cur.key, nil
}

// Midpoint returns (bestBid + bestAsk) / 2, truncated toward zero.
func Midpoint(bestBid, bestAsk uint64) uint64 {
	return (bestBid + bestAsk) / 2
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
