// Package exchange defines the adapter contract shared by the per-platform
// P2P market clients.
package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"p2p-price-api/internal/models"
)

// Exchange is implemented by each platform adapter. Fetch issues one upstream
// query per trading side for the given fiat currency, normalizes the ads, and
// always returns a usable snapshot: any failure along the way is folded into
// the snapshot's error field rather than propagated.
type Exchange interface {
	Name() string
	Fetch(ctx context.Context, fiat string, payFilter []string) models.Snapshot
}

// UserAgent is sent on every upstream request. Several of the platforms
// reject requests without a browser-like agent string.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// ReadBody drains a response, enforcing a sane upper bound on the payload and
// turning non-2xx statuses into errors.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
