package assets

// LoadState is the lifecycle of one tracked load. A record transitions
// Loading -> Loaded or Loading -> Failed exactly once and never reverts.
type LoadState uint8

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateFailed
)

// LoadRecord is the per-slot bookkeeping for one raw load. Data is set only
// in LoadStateLoaded, Err only in LoadStateFailed.
type LoadRecord struct {
	Source string
	State  LoadState
	Data   []byte
	Err    string
}

// LoadRegistry is a generational arena of load records. Slots are recycled
// through a free list; every recycle bumps the slot's generation so handles
// issued before the recycle can never observe the new occupant.
type LoadRegistry struct {
	records     []*LoadRecord
	generations []uint32
	free        []uint32
}

func NewLoadRegistry() *LoadRegistry {
	return &LoadRegistry{}
}

// Insert allocates a slot in state Loading and returns its handle.
func (r *LoadRegistry) Insert(source string) AssetHandle {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.records))
		r.records = append(r.records, nil)
		r.generations = append(r.generations, 0)
	}

	r.generations[index]++
	r.records[index] = &LoadRecord{
		Source: source,
		State:  LoadStateLoading,
	}
	return AssetHandle{index: index, generation: r.generations[index]}
}

// Get returns the record for the handle, or nil if the handle is stale,
// out of range, or points at a freed slot. A stale handle is not an error:
// it means the asset is no longer tracked.
func (r *LoadRegistry) Get(h AssetHandle) *LoadRecord {
	if h.index >= uint32(len(r.records)) {
		return nil
	}
	if r.generations[h.index] != h.generation {
		return nil
	}
	return r.records[h.index]
}

// Remove frees the slot and advances its generation, permanently
// invalidating every outstanding handle to it. Returns false for a handle
// that no longer resolves.
func (r *LoadRegistry) Remove(h AssetHandle) bool {
	if r.Get(h) == nil {
		return false
	}
	r.records[h.index] = nil
	r.generations[h.index]++
	r.free = append(r.free, h.index)
	return true
}

// Clear frees every slot and invalidates all outstanding handles at once.
func (r *LoadRegistry) Clear() {
	for i := range r.records {
		if r.records[i] != nil {
			r.records[i] = nil
			r.generations[i]++
			r.free = append(r.free, uint32(i))
		}
	}
}

// Len returns the number of live slots.
func (r *LoadRegistry) Len() int {
	count := 0
	for _, rec := range r.records {
		if rec != nil {
			count++
		}
	}
	return count
}
