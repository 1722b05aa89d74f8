// README: HTTP client for the deployment's distance-matrix proxy endpoint.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProxyClient calls GET {baseURL}/api/maps/distancematrix?origin=&destination=
// and expects {"status":"OK","distance":{"value":<meters>}}.
type ProxyClient struct {
	baseURL string
	http    *http.Client
}

func NewProxyClient(baseURL string, client *http.Client) *ProxyClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &ProxyClient{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

type proxyResponse struct {
	Status   string `json:"status"`
	Distance *struct {
		Value int `json:"value"`
	} `json:"distance"`
}

func (c *ProxyClient) DistanceMeters(ctx context.Context, origin, destination string) (int, error) {
	if c.baseURL == "" {
		return 0, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	endpoint := c.baseURL + "/api/maps/distancematrix?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build distance request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("distance request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("distance proxy returned %d: %w", resp.StatusCode, ErrUpstream)
	}
	var body proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode distance response: %w", err)
	}
	if body.Status != "OK" || body.Distance == nil {
		return 0, fmt.Errorf("distance proxy status %q: %w", body.Status, ErrNoRoute)
	}
	return body.Distance.Value, nil
}
