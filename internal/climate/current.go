package climate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// CurrentConditions is the trimmed-down current-weather view returned to
// the front end.
type CurrentConditions struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Weather     string  `json:"weather"`
}

// OpenWeatherKeyParam returns the SSM parameter holding the OpenWeather key.
func OpenWeatherKeyParam() string {
	if v := strings.TrimSpace(os.Getenv("OPENWEATHER_KEY_PARAM")); v != "" {
		return v
	}
	return "weather-api"
}

// CurrentClient fetches current conditions for a single location from
// OpenWeather. Unlike the bundle service, any upstream failure fails the
// whole request; the two endpoints intentionally keep distinct policies.
type CurrentClient struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

func NewCurrentClient(apiKey string) *CurrentClient {
	base := strings.TrimSpace(os.Getenv("OPENWEATHER_BASE_URL"))
	if base == "" {
		base = defaultOpenWeatherURL
	}
	return &CurrentClient{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		BaseURL:    base,
		APIKey:     apiKey,
	}
}

// FetchCurrent returns the current conditions at (latitude, longitude).
func (c *CurrentClient) FetchCurrent(ctx context.Context, latitude, longitude string) (*CurrentConditions, error) {
	values := url.Values{}
	values.Set("lat", latitude)
	values.Set("lon", longitude)
	values.Set("appid", c.APIKey)
	values.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch current weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode current weather: %w", err)
	}

	out := &CurrentConditions{
		Location:    payload.Name,
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
	}
	if len(payload.Weather) > 0 {
		out.Weather = payload.Weather[0].Description
	}
	return out, nil
}
