package agritec

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

const defaultBaseURL = "https://api.cnptia.embrapa.br/agritec/v2"

// UpstreamError carries the status and body of a non-success catalog
// response for diagnostics.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("culture catalog returned status %d", e.Status)
}

// Culture is one crop record from the Agritec catalog.
type Culture struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	HarvestSeason  string `json:"harvestSeason"`
	CropType       string `json:"cropType"`
	ZoningEligible bool   `json:"zoningEligible"`
}

// TokenParamName returns the SSM parameter holding the Agritec token. The
// catalog shares the Embrapa token with the climate API.
func TokenParamName() string {
	if v := strings.TrimSpace(os.Getenv("AGRITEC_TOKEN_PARAM")); v != "" {
		return v
	}
	return "/embrapa-api/token"
}

// Client fetches the crop catalog from the Agritec API.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

func NewClient(token string) *Client {
	base := strings.TrimSpace(os.Getenv("AGRITEC_BASE_URL"))
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		BaseURL:    base,
		Token:      token,
	}
}

// ListEligibleCultures fetches the full catalog and keeps only records
// flagged with zoning data, preserving upstream order.
func (c *Client) ListEligibleCultures(ctx context.Context) ([]Culture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/culturas", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cultures: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Data []struct {
			ID            json.Number `json:"id"`
			Nome          string      `json:"nome"`
			Safra         string      `json:"safra"`
			Cultivo       string      `json:"cultivo"`
			HasZoneamento bool        `json:"hasZoneamento"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cultures: %w", err)
	}

	eligible := make([]Culture, 0, len(payload.Data))
	for _, c := range payload.Data {
		if !c.HasZoneamento {
			continue
		}
		eligible = append(eligible, Culture{
			ID:             c.ID.String(),
			Name:           c.Nome,
			HarvestSeason:  c.Safra,
			CropType:       c.Cultivo,
			ZoningEligible: true,
		})
	}
	return eligible, nil
}
