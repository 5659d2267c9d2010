package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/otaviopl/infra-agricultura-app/internal/climate"
)

// CurrentFetcher fetches current conditions for one location.
type CurrentFetcher interface {
	FetchCurrent(ctx context.Context, latitude, longitude string) (*climate.CurrentConditions, error)
}

// WeatherCurrentHandler serves the single-location current-weather endpoint.
// Any upstream failure fails the whole request; this endpoint deliberately
// does not share the bundle endpoint's per-variable isolation.
type WeatherCurrentHandler struct {
	Secrets    climate.SecretResolver
	NewFetcher func(apiKey string) CurrentFetcher
}

func NewWeatherCurrentHandler(secrets climate.SecretResolver) *WeatherCurrentHandler {
	return &WeatherCurrentHandler{
		Secrets: secrets,
		NewFetcher: func(apiKey string) CurrentFetcher {
			return climate.NewCurrentClient(apiKey)
		},
	}
}

type currentWeatherRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h *WeatherCurrentHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if strings.TrimSpace(req.Body) == "" {
		return errResp(400, "Request body is required.")
	}

	var body currentWeatherRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errResp(400, "Request body must be valid JSON.")
	}
	if body.Latitude == nil || body.Longitude == nil {
		return errResp(400, "Latitude and longitude are required.")
	}

	apiKey, err := h.Secrets.Resolve(ctx, climate.OpenWeatherKeyParam())
	if err != nil {
		log.Printf("openweather key resolution failed: %v", err)
		return errResp(500, "Weather API key is unavailable.")
	}

	lat := strconv.FormatFloat(*body.Latitude, 'f', -1, 64)
	lon := strconv.FormatFloat(*body.Longitude, 'f', -1, 64)

	conditions, err := h.NewFetcher(apiKey).FetchCurrent(ctx, lat, lon)
	if err != nil {
		var ue *climate.UpstreamError
		if errors.As(err, &ue) {
			// Pass the upstream status through, as the front end relies on it.
			log.Printf("openweather returned %d: %s", ue.Status, ue.Body)
			return errResp(ue.Status, "Weather provider request failed.")
		}
		log.Printf("current weather fetch failed: %v", err)
		return errResp(500, "Failed to fetch weather data.")
	}

	return jsonResp(200, conditions)
}
