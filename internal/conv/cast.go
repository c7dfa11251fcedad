package conv

import (
	"math"

	"github.com/hupe1980/topoindex/core"
)

// UIDToIndex converts a 1-based uid into a 0-based slot index.
// The zero uid has no slot.
func UIDToIndex(uid core.EntityUID) (int, bool) {
	if uid == core.InvalidEntityUID {
		return 0, false
	}
	if uint64(uid-1) > uint64(math.MaxInt) {
		return 0, false
	}
	return int(uid - 1), true
}
