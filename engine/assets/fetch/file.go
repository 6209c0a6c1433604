package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrNoWorkers = fmt.Errorf("attempting to create file fetcher with less than 1 worker")
var ErrNegativeQueueSize = fmt.Errorf("attempting to create file fetcher with a negative queue size")

type fileRequest struct {
	path string
	op   *AsyncOperation
}

// FileFetcher reads files from disk on a fixed pool of worker goroutines.
// Fetch never blocks the calling thread; the blocking read happens on a
// worker and the result lands in the returned Operation.
type FileFetcher struct {
	baseDir    string
	numWorkers int
	queue      chan *fileRequest
	wg         sync.WaitGroup
}

func NewFileFetcher(baseDir string, numWorkers int, queueSize int) (*FileFetcher, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if queueSize < 0 {
		return nil, ErrNegativeQueueSize
	}

	ff := &FileFetcher{
		baseDir:    baseDir,
		numWorkers: numWorkers,
		queue:      make(chan *fileRequest, queueSize),
	}

	ff.start()

	return ff, nil
}

func (ff *FileFetcher) start() {
	for i := 0; i < ff.numWorkers; i++ {
		ff.wg.Add(1)
		go func() {
			defer ff.wg.Done()
			for req := range ff.queue {
				data, err := os.ReadFile(filepath.Join(ff.baseDir, req.path))
				req.op.Complete(data, err)
			}
		}()
	}
}

// Fetch enqueues a read for the given path (relative to the base directory)
// and returns immediately. If the queue is full the hand-off happens on a
// separate goroutine so the frame thread is never stalled.
func (ff *FileFetcher) Fetch(source string) Operation {
	op := NewAsyncOperation()
	req := &fileRequest{path: source, op: op}
	select {
	case ff.queue <- req:
	default:
		go func() { ff.queue <- req }()
	}
	return op
}

// Shutdown stops accepting work and waits for the workers to drain.
func (ff *FileFetcher) Shutdown() error {
	close(ff.queue)
	ff.wg.Wait()
	return nil
}
