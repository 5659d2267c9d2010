package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cnptia.embrapa.br/climapi/v1/ncep-gfs"

// UpstreamError carries the status and body of a non-success upstream
// response for diagnostics. The raw body is for logs, never for clients.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// Client fetches per-variable forecast data from the ClimAPI NCEP-GFS
// endpoint. Each call is one synchronous request; the upstream offers no
// batching, which is why the bundle service fans out one call per variable.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

func NewClient(token string) *Client {
	base := strings.TrimSpace(os.Getenv("CLIMAPI_BASE_URL"))
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		BaseURL:    base,
		Token:      token,
	}
}

// FetchVariable returns the raw upstream JSON document for one variable at
// (date, longitude, latitude).
func (c *Client) FetchVariable(ctx context.Context, v Variable, date, longitude, latitude string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", c.BaseURL, v, date, longitude, latitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", v, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", v, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("fetch %s: upstream returned invalid JSON", v)
	}
	return json.RawMessage(body), nil
}
