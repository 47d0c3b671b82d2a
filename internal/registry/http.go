package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

const citizenPath = "/api/v1/citizen"

// HTTPClient talks to the real registry service. The current integration has
// no single-id query, so Lookup fetches the full collection and scans for a
// case-insensitive nik match. The timeout bounds the whole round trip; the
// registry is a slow, failure-prone dependency and a hung call must fail the
// request rather than park it.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Lookup(ctx context.Context, nik id.NationalID) (CitizenRecord, error) {
	citizens, err := c.listAll(ctx)
	if err != nil {
		return CitizenRecord{}, err
	}
	for _, citizen := range citizens {
		if nik.Equal(id.NationalID(citizen.NIK)) {
			return citizen, nil
		}
	}
	return CitizenRecord{}, sentinel.ErrNotFound
}

func (c *HTTPClient) listAll(ctx context.Context) ([]CitizenRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+citizenPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: citizen registry: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: citizen registry returned %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	var citizens []CitizenRecord
	if err := json.NewDecoder(resp.Body).Decode(&citizens); err != nil {
		return nil, fmt.Errorf("%w: decode citizen registry response: %v", sentinel.ErrUnavailable, err)
	}
	return citizens, nil
}
