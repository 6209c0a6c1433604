package assets

import (
	"fmt"

	"github.com/emberengine/ember/engine/assets/fetch"
)

// pendingLoad pairs a registry handle with the deferred operation producing
// its bytes. It lives in the loader's in-flight slice until the operation
// resolves, then gets swept on the same update pass.
type pendingLoad struct {
	handle AssetHandle
	source string
	op     fetch.Operation
	done   bool
}

func newPendingLoad(handle AssetHandle, source string, op fetch.Operation) *pendingLoad {
	return &pendingLoad{
		handle: handle,
		source: source,
		op:     op,
	}
}

// tryAdvance performs exactly one non-blocking poll of the operation.
// While the bytes are still in flight it returns resolved=false. On first
// resolution it marks the load done and returns the terminal state; after
// that it is a no-op. Failure messages are wrapped with the source
// identifier here, once, at the moment of resolution.
func (p *pendingLoad) tryAdvance() (state LoadState, data []byte, errMsg string, resolved bool) {
	if p.done {
		return 0, nil, "", false
	}

	data, done, err := p.op.Poll()
	if !done {
		return 0, nil, "", false
	}

	p.done = true
	if err != nil {
		return LoadStateFailed, nil, fmt.Sprintf("cannot load asset '%s': %s", p.source, err), true
	}
	return LoadStateLoaded, data, "", true
}

func (p *pendingLoad) isDone() bool {
	return p.done
}
