package fetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPFetcher retrieves assets with GET requests against a base URL. It is
// the network counterpart of FileFetcher and satisfies the same polling
// contract: the request runs on its own goroutine and the Operation simply
// reports readiness.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (hf *HTTPFetcher) Fetch(source string) Operation {
	op := NewAsyncOperation()
	url := hf.baseURL + "/" + strings.TrimPrefix(source, "/")
	go func() {
		resp, err := hf.client.Get(url)
		if err != nil {
			op.Complete(nil, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			op.Complete(nil, fmt.Errorf("unexpected status %s for '%s'", resp.Status, url))
			return
		}

		data, err := io.ReadAll(resp.Body)
		op.Complete(data, err)
	}()
	return op
}
