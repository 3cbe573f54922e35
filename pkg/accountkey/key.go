// Package accountkey defines the opaque 32-byte public-key reference
// shared by every persistent record and every keeper interface in this
// tree, so the lending, governance, hodl, and dex adapters all address
// mints and accounts the same way instead of each inventing their own.
package accountkey

import (
	"encoding/hex"
	"fmt"
)

// Key is a 32-byte public-key-shaped reference to a mint, token account,
// or other host-managed record.
type Key [32]byte

// Zero is the absent/unset reference.
var Zero = Key{}

func (k Key) IsZero() bool { return k == Zero }

func (k Key) String() string { return hex.EncodeToString(k[:]) }

func FromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != 32 {
		return k, fmt.Errorf("accountkey: key must be 32 bytes, got %d", len(b))
	}
	copy(k[:], b)
	return k, nil
}
