package fetch

import "sync"

// Operation is a single in-flight byte-producing request. Poll performs one
// non-blocking readiness check: done is false while the bytes are still on
// their way, and once done is true the same (data, err) pair is returned on
// every subsequent call. Implementations must never block in Poll; the frame
// loop calls it once per tick.
type Operation interface {
	Poll() (data []byte, done bool, err error)
}

// Fetcher turns a source identifier into an Operation. The file, HTTP and
// in-memory fetchers all hide behind this one shape so the pipeline above
// stays platform-agnostic.
type Fetcher interface {
	Fetch(source string) Operation
}

// AsyncOperation is an Operation backed by a goroutine that calls Complete
// when the bytes (or the error) are available. Used by the file and HTTP
// fetchers; custom fetchers can reuse it as well.
type AsyncOperation struct {
	mu   sync.Mutex
	done bool
	data []byte
	err  error
}

func NewAsyncOperation() *AsyncOperation {
	return &AsyncOperation{}
}

// Complete resolves the operation. The first call wins; later calls are ignored.
func (o *AsyncOperation) Complete(data []byte, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return
	}
	o.data = data
	o.err = err
	o.done = true
}

func (o *AsyncOperation) Poll() ([]byte, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.done {
		return nil, false, nil
	}
	return o.data, true, o.err
}
