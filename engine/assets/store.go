package assets

import (
	"fmt"
	"reflect"
)

var ErrAssetNotFound = fmt.Errorf("asset not found")
var ErrAssetTypeMismatch = fmt.Errorf("asset type mismatch")

// TypedAssetStore holds parsed assets of arbitrary concrete types behind one
// (type, id) keyed lookup. Values are stored once during a successful parse
// and live until the store is dropped; retrieval hands back the stored value
// (slices, maps and pointers share their backing data, so repeated Gets do
// not re-parse or copy pixel buffers).
type TypedAssetStore struct {
	entries map[reflect.Type]map[string]interface{}
	count   int
}

func NewTypedAssetStore() *TypedAssetStore {
	return &TypedAssetStore{
		entries: make(map[reflect.Type]map[string]interface{}),
	}
}

// Len returns the total number of stored entries across all types.
func (s *TypedAssetStore) Len() int {
	return s.count
}

// Has reports whether an entry with the given id exists under any type.
func (s *TypedAssetStore) Has(id string) bool {
	for _, byID := range s.entries {
		if _, ok := byID[id]; ok {
			return true
		}
	}
	return false
}

// StorePut stores value under (type of T, id). Re-inserting the same key
// replaces the value without growing the count.
func StorePut[T any](s *TypedAssetStore, id string, value T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	byID := s.entries[t]
	if byID == nil {
		byID = make(map[string]interface{})
		s.entries[t] = byID
	}
	if _, exists := byID[id]; !exists {
		s.count++
	}
	byID[id] = value
}

// StoreGet retrieves the value stored under (type of T, id). A miss where
// the id exists under some other type reports ErrAssetTypeMismatch, a plain
// miss reports ErrAssetNotFound, so a typo is distinguishable from a parser
// registered with the wrong type.
func StoreGet[T any](s *TypedAssetStore, id string) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()

	if byID, ok := s.entries[t]; ok {
		if v, ok := byID[id]; ok {
			return v.(T), nil
		}
	}

	for other, byID := range s.entries {
		if other == t {
			continue
		}
		if _, ok := byID[id]; ok {
			return zero, fmt.Errorf("asset '%s' is stored as %s, not %s: %w", id, other, t, ErrAssetTypeMismatch)
		}
	}

	return zero, fmt.Errorf("asset '%s': %w", id, ErrAssetNotFound)
}
