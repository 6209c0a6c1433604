package assets

import (
	"strings"

	"github.com/google/uuid"

	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/math"
)

type batchEntry struct {
	handle AssetHandle
	loaded bool
}

// batchParser drives one source through the loader into the store. It
// reports consumed=true once the source's bytes have been parsed and stored.
type batchParser func(h AssetHandle, source string, store *TypedAssetStore) (consumed bool, err error)

// AssetBatch tracks a deduplicated group of source identifiers as one unit:
// every source is loaded through the shared AssetLoader, parsed by the
// parser registered for its file extension (raw bytes when none matches),
// and promoted into the batch's TypedAssetStore. When every source has been
// consumed the combine callback runs exactly once against the full store.
type AssetBatch struct {
	id       uuid.UUID
	loader   *AssetLoader
	entries  map[string]*batchEntry
	total    int
	store    *TypedAssetStore
	parsers  map[string]batchParser
	combined bool
}

// NewAssetBatch starts one tracked load per distinct source identifier.
// Repeated identifiers collapse into a single entry, which is what makes
// batch-level requests idempotent even though AssetLoader.Load is not.
func NewAssetBatch(loader *AssetLoader, sources ...string) *AssetBatch {
	b := &AssetBatch{
		id:      uuid.New(),
		loader:  loader,
		entries: make(map[string]*batchEntry),
		store:   NewTypedAssetStore(),
		parsers: make(map[string]batchParser),
	}
	for _, source := range sources {
		if _, ok := b.entries[source]; ok {
			continue
		}
		b.entries[source] = &batchEntry{handle: loader.Load(source)}
	}
	b.total = len(b.entries)
	core.LogDebug("batch %s created with %d sources", b.id, b.total)
	return b
}

// ID returns the batch identifier used in log lines and completion events.
func (b *AssetBatch) ID() uuid.UUID {
	return b.id
}

// Total returns the number of distinct sources in the batch.
func (b *AssetBatch) Total() int {
	return b.total
}

// Store exposes the batch's typed store, for lookups after completion.
func (b *AssetBatch) Store() *TypedAssetStore {
	return b.store
}

// IsLoaded reports whether every source has been parsed into the store.
func (b *AssetBatch) IsLoaded() bool {
	return b.loadedCount() >= b.total
}

func (b *AssetBatch) loadedCount() int {
	count := 0
	for _, e := range b.entries {
		if e.loaded {
			count++
		}
	}
	return count
}

// Progress returns completion in [0, 1]. A source counts as finished once
// it is parsed into the store, or as soon as its raw bytes have landed even
// if no BatchParse call has consumed them yet; the two never overlap
// because parsing removes the registry slot it reads from.
func (b *AssetBatch) Progress() float32 {
	if b.total == 0 || b.IsLoaded() {
		return 1.0
	}

	finished := 0
	for _, e := range b.entries {
		if e.loaded || b.loader.IsLoaded(e.handle) {
			finished++
		}
	}
	return math.Clamp(float32(finished)/float32(b.total), 0.0, 1.0)
}

// BatchWithParser registers a typed parser for sources whose identifier
// ends in the given extension (without the dot). Parsed values are stored
// under their source identifier. Returns the batch for chaining.
func BatchWithParser[T any](b *AssetBatch, ext string, parser ParserFunc[T]) *AssetBatch {
	b.parsers[strings.ToLower(ext)] = func(h AssetHandle, source string, store *TypedAssetStore) (bool, error) {
		value, ok, err := ParseAsset(b.loader, h, parser, false)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		StorePut(store, source, value)
		return true, nil
	}
	return b
}

// parseRaw is the fallback for extensions with no registered parser.
func parseRaw(_ string, data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func sourceExtension(source string) string {
	idx := strings.LastIndexByte(source, '.')
	if idx < 0 || idx == len(source)-1 {
		return ""
	}
	return strings.ToLower(source[idx+1:])
}

// BatchParse advances the batch one step: every source that has finished
// loading but is not yet in the store is parsed now, fail-fast on the first
// error. Until the batch completes it returns ok=false. On the call that
// consumes the last source, combine runs exactly once against the store and
// its result is returned with ok=true; afterwards the batch is spent and
// further calls return ok=false.
func BatchParse[R any](b *AssetBatch, combine func(*TypedAssetStore) (R, error)) (R, bool, error) {
	var zero R

	if b.combined {
		return zero, false, nil
	}

	for source, e := range b.entries {
		if e.loaded || b.loader.IsLoading(e.handle) {
			continue
		}

		parser, ok := b.parsers[sourceExtension(source)]
		if !ok {
			parser = func(h AssetHandle, source string, store *TypedAssetStore) (bool, error) {
				data, ok, err := ParseAsset(b.loader, h, parseRaw, false)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
				StorePut(store, source, data)
				return true, nil
			}
		}

		consumed, err := parser(e.handle, source, b.store)
		if err != nil {
			return zero, false, err
		}
		if consumed {
			e.loaded = true
		}
	}

	if !b.IsLoaded() {
		return zero, false, nil
	}

	b.combined = true
	core.LogInfo("batch %s complete (%d assets)", b.id, b.total)
	core.EventFire(core.EVENT_CODE_BATCH_COMPLETED, b, core.EventContext{
		Source: b.id.String(),
		U32:    [4]uint32{uint32(b.total)},
	})

	result, err := combine(b.store)
	if err != nil {
		return zero, false, err
	}
	return result, true, nil
}
