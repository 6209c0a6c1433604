package assets

import (
	"errors"
	"fmt"

	"github.com/emberengine/ember/engine/assets/fetch"
	"github.com/emberengine/ember/engine/core"
)

// AssetLoader tracks raw byte loads from request to consumption. It owns
// the load registry and the in-flight operations; all of its methods are
// meant to be called from the frame thread only. Construct one loader and
// pass it to whatever needs to load (there is deliberately no global
// instance).
type AssetLoader struct {
	registry *LoadRegistry
	fetcher  fetch.Fetcher
	loading  []*pendingLoad
}

func NewAssetLoader(fetcher fetch.Fetcher) *AssetLoader {
	return &AssetLoader{
		registry: NewLoadRegistry(),
		fetcher:  fetcher,
	}
}

// Load starts tracking a new load for the given source identifier. Calling
// it twice with the same identifier creates two independent loads;
// deduplication is the batch layer's job.
func (al *AssetLoader) Load(source string) AssetHandle {
	core.LogInfo("loading asset '%s'", source)
	handle := al.registry.Insert(source)
	op := al.fetcher.Fetch(source)
	al.loading = append(al.loading, newPendingLoad(handle, source, op))
	return handle
}

// IsLoaded reports whether the handle's load has resolved with bytes.
// False for stale or unknown handles.
func (al *AssetLoader) IsLoaded(h AssetHandle) bool {
	rec := al.registry.Get(h)
	return rec != nil && rec.State == LoadStateLoaded
}

// IsLoading reports whether the handle's load is still in flight.
// False for stale or unknown handles.
func (al *AssetLoader) IsLoading(h AssetHandle) bool {
	rec := al.registry.Get(h)
	return rec != nil && rec.State == LoadStateLoading
}

// InFlight returns the number of operations not yet resolved.
func (al *AssetLoader) InFlight() int {
	return len(al.loading)
}

// Update polls every in-flight operation once, promotes newly resolved
// states into the registry, and sweeps resolved operations out. The frame
// loop must call this once per frame before anything queries load state;
// extra calls are safe but wasted work.
func (al *AssetLoader) Update() {
	needsSweep := false
	for _, p := range al.loading {
		state, data, errMsg, resolved := p.tryAdvance()
		if !resolved {
			continue
		}
		needsSweep = true

		rec := al.registry.Get(p.handle)
		if rec == nil {
			// Slot was released mid-flight; drop the result on the floor.
			continue
		}

		rec.State = state
		if state == LoadStateFailed {
			rec.Err = errMsg
			core.LogWarn("%s", errMsg)
			core.EventFire(core.EVENT_CODE_ASSET_FAILED, al, core.EventContext{
				Source:  p.source,
				Message: errMsg,
				U32:     [4]uint32{p.handle.index, p.handle.generation},
			})
		} else {
			rec.Data = data
			core.EventFire(core.EVENT_CODE_ASSET_LOADED, al, core.EventContext{
				Source: p.source,
				U32:    [4]uint32{p.handle.index, p.handle.generation},
			})
		}
	}

	if needsSweep {
		remaining := al.loading[:0]
		for _, p := range al.loading {
			if !p.isDone() {
				remaining = append(remaining, p)
			}
		}
		al.loading = remaining
	}

	core.MetricsSetLoadsInFlight(len(al.loading))
}

// Clear drops every in-flight operation and registry slot. Full teardown
// only; it is not a substitute for releasing assets one by one. Operations
// already handed to the fetcher are not cancelled, they resolve into the
// void.
func (al *AssetLoader) Clear() {
	al.loading = nil
	al.registry.Clear()
}

// ParserFunc turns raw bytes into a typed asset. Parsers must be
// deterministic and must not touch the registry.
type ParserFunc[T any] func(source string, data []byte) (T, error)

// ParseAsset consumes the handle's load result through the given parser.
//
//   - still loading, or handle unknown/stale: ok=false, err=nil (retry later)
//   - loaded: runs the parser once; ok=true on success
//   - load failed: returns the wrapped load error
//
// In both terminal cases the registry slot is removed unless keep is true,
// so the first successful result must be captured by the caller: a second
// call behaves as handle unknown. This is a package-level function because
// Go methods cannot introduce type parameters.
func ParseAsset[T any](al *AssetLoader, h AssetHandle, parser ParserFunc[T], keep bool) (T, bool, error) {
	var zero T

	rec := al.registry.Get(h)
	if rec == nil {
		return zero, false, nil
	}

	switch rec.State {
	case LoadStateLoading:
		return zero, false, nil

	case LoadStateFailed:
		if !keep {
			al.registry.Remove(h)
		}
		return zero, false, errors.New(rec.Err)

	case LoadStateLoaded:
		value, err := parser(rec.Source, rec.Data)
		if !keep {
			al.registry.Remove(h)
		}
		if err != nil {
			return zero, false, fmt.Errorf("cannot parse asset '%s': %w", rec.Source, err)
		}
		return value, true, nil
	}

	return zero, false, nil
}
