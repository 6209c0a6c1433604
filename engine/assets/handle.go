package assets

import "fmt"

// AssetHandle identifies a LoadRegistry slot and encodes a generation for
// stale-handle detection. Handles outlive their slot safely: once the slot
// is removed or reused, lookups with the old handle miss instead of
// returning another load's record.
type AssetHandle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether the handle is the zero value. Generations start at
// one, so the zero handle never matches a live slot.
func (h AssetHandle) IsZero() bool {
	return h.index == 0 && h.generation == 0
}

func (h AssetHandle) String() string {
	return fmt.Sprintf("AssetHandle(%d:%d)", h.index, h.generation)
}
