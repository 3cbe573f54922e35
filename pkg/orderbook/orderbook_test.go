package orderbook

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildNode writes one fixed-size tree node into buf at slot index.
func buildNode(buf []byte, index int, n node) {
	off := index * nodeSize
	buf[off] = n.tag
	switch n.tag {
	case tagInner:
		binary.LittleEndian.PutUint64(buf[off+1:off+9], n.key)
		binary.LittleEndian.PutUint32(buf[off+9:off+13], n.left)
		binary.LittleEndian.PutUint32(buf[off+13:off+17], n.right)
	case tagLeaf:
		binary.LittleEndian.PutUint64(buf[off+1:off+9], n.key)
	}
}

// wrapRegion prepends the 13-byte skip and appends the 7-byte trailer the
// real account layout carries around the payload.
func wrapRegion(payload []byte) []byte {
	region := make([]byte, headSkip+countSkip+len(payload)+trailerSize)
	copy(region[headSkip+countSkip:], payload)
	return region
}

// a three-node tree: root inner routing on key 100, left leaf price 90,
// right leaf price 110.
func threeNodeTree() []byte {
	payload := make([]byte, 3*nodeSize)
	buildNode(payload, 0, node{tag: tagInner, key: 100, left: 1, right: 2})
	buildNode(payload, 1, node{tag: tagLeaf, key: 90})
	buildNode(payload, 2, node{tag: tagLeaf, key: 110})
	return payload
}

func TestReadBestBidTakesMaxKey(t *testing.T) {
	payload := threeNodeTree()
	region := wrapRegion(payload)
	scratch := make([]byte, len(payload))

	price, err := ReadBest(region, scratch, Bid)
	require.NoError(t, err)
	require.Equal(t, uint64(110), price)
}

func TestReadBestAskTakesMinKey(t *testing.T) {
	payload := threeNodeTree()
	region := wrapRegion(payload)
	scratch := make([]byte, len(payload))

	price, err := ReadBest(region, scratch, Ask)
	require.NoError(t, err)
	require.Equal(t, uint64(90), price)
}

func TestReadBestSingleLeaf(t *testing.T) {
	payload := make([]byte, nodeSize)
	buildNode(payload, 0, node{tag: tagLeaf, key: 42})
	region := wrapRegion(payload)
	scratch := make([]byte, len(payload))

	bid, err := ReadBest(region, scratch, Bid)
	require.NoError(t, err)
	require.Equal(t, uint64(42), bid)

	ask, err := ReadBest(region, scratch, Ask)
	require.NoError(t, err)
	require.Equal(t, uint64(42), ask)
}

func TestReadBestMissingRootFails(t *testing.T) {
	payload := make([]byte, nodeSize) // all zero => tagEmpty
	region := wrapRegion(payload)
	scratch := make([]byte, len(payload))

	_, err := ReadBest(region, scratch, Bid)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadBestScratchTooSmallFails(t *testing.T) {
	payload := threeNodeTree()
	region := wrapRegion(payload)
	scratch := make([]byte, len(payload)-1)

	_, err := ReadBest(region, scratch, Bid)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadBestRegionTooSmallFails(t *testing.T) {
	region := make([]byte, headSkip+countSkip+trailerSize-1)
	scratch := make([]byte, 0)

	_, err := ReadBest(region, scratch, Bid)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadBestZeroesScratchAfterUse(t *testing.T) {
	payload := threeNodeTree()
	region := wrapRegion(payload)
	scratch := make([]byte, len(payload))

	_, err := ReadBest(region, scratch, Bid)
	require.NoError(t, err)
	for _, b := range scratch {
		require.Equal(t, byte(0), b)
	}
}

func TestMidpointTruncates(t *testing.T) {
	require.Equal(t, uint64(100), Midpoint(90, 110))
	require.Equal(t, uint64(100), Midpoint(91, 110)) // 201/2 truncates to 100
}
