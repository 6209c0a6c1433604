package fetch

import (
	"errors"
	"fmt"
)

// MemoryFetcher serves byte blobs registered up front. Latency is expressed
// in polls, so tests can observe the Loading state for a deterministic
// number of frames before an operation resolves.
type MemoryFetcher struct {
	files    map[string][]byte
	failures map[string]string
	latency  int
}

func NewMemoryFetcher() *MemoryFetcher {
	return &MemoryFetcher{
		files:    make(map[string][]byte),
		failures: make(map[string]string),
	}
}

// Add registers the bytes returned for the given source.
func (mf *MemoryFetcher) Add(source string, data []byte) {
	mf.files[source] = data
}

// AddFailure makes loads of the given source resolve with the given error message.
func (mf *MemoryFetcher) AddFailure(source string, message string) {
	mf.failures[source] = message
}

// SetLatency sets how many polls an operation stays pending before resolving.
func (mf *MemoryFetcher) SetLatency(polls int) {
	mf.latency = polls
}

func (mf *MemoryFetcher) Fetch(source string) Operation {
	op := &memoryOperation{remaining: mf.latency}
	if msg, ok := mf.failures[source]; ok {
		op.err = errors.New(msg)
	} else if data, ok := mf.files[source]; ok {
		op.data = append([]byte(nil), data...)
	} else {
		op.err = fmt.Errorf("no such source '%s'", source)
	}
	return op
}

type memoryOperation struct {
	remaining int
	done      bool
	data      []byte
	err       error
}

func (o *memoryOperation) Poll() ([]byte, bool, error) {
	if o.done {
		return o.data, true, o.err
	}
	if o.remaining > 0 {
		o.remaining--
		return nil, false, nil
	}
	o.done = true
	return o.data, true, o.err
}
