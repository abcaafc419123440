package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPSource downloads the catalog feed from a supplier URL. Suppliers
// publish the feed on a plain HTTP endpoint refreshed daily, so a small
// retry budget covers transient failures.
type HTTPSource struct {
	client *resty.Client
	url    string
}

// NewHTTPSource creates a source for the given feed URL.
func NewHTTPSource(url string) *HTTPSource {
	client := resty.New().
		SetTimeout(60 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("User-Agent", "matlens-backend/1.0")

	return &HTTPSource{client: client, url: url}
}

func (h *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(h.url)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		resp.RawBody().Close()
		return nil, fmt.Errorf("fetching catalog feed: status %d", resp.StatusCode())
	}
	return resp.RawBody(), nil
}
