package handlers

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/otaviopl/infra-agricultura-app/internal/advisory"
	"github.com/otaviopl/infra-agricultura-app/internal/agritec"
	"github.com/otaviopl/infra-agricultura-app/internal/climate"
)

// BundleService aggregates the fixed variable set for one request.
type BundleService interface {
	FetchBundle(ctx context.Context, req climate.BundleRequest) (climate.Bundle, error)
}

// AdvisoryRunner composes a narrative from an already-fetched bundle.
type AdvisoryRunner interface {
	Run(ctx context.Context, bundle climate.Bundle) (string, error)
}

// WeatherBundleHandler serves the multi-variable aggregation endpoint.
type WeatherBundleHandler struct {
	Bundles BundleService
	Advisor AdvisoryRunner
}

func NewWeatherBundleHandler(bundles BundleService, advisor AdvisoryRunner) *WeatherBundleHandler {
	return &WeatherBundleHandler{Bundles: bundles, Advisor: advisor}
}

type bundleWithAdvisory struct {
	Bundle        climate.Bundle `json:"bundle"`
	Advisory      string         `json:"advisory,omitempty"`
	AdvisoryError string         `json:"advisoryError,omitempty"`
}

func (h *WeatherBundleHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	q := req.QueryStringParameters

	bundle, err := h.Bundles.FetchBundle(ctx, climate.BundleRequest{
		Longitude: q["longitude"],
		Latitude:  q["latitude"],
		Date:      q["date"],
	})
	if err != nil {
		switch {
		case errors.Is(err, climate.ErrValidation):
			return errResp(400, "Missing required parameters: longitude, latitude, and date are required.")
		case errors.Is(err, climate.ErrAuthUnavailable):
			log.Printf("bundle token resolution failed: %v", err)
			return errResp(500, "Weather API token is unavailable.")
		default:
			log.Printf("bundle fetch failed: %v", err)
			return errResp(500, "Failed to fetch weather data.")
		}
	}

	if !advisoryRequested(q["advisory"]) || h.Advisor == nil {
		return jsonResp(200, bundle)
	}

	out := bundleWithAdvisory{Bundle: bundle}
	text, err := h.Advisor.Run(ctx, bundle)
	if err != nil {
		// The bundle is already gathered; an advisory failure is reported
		// alongside it, not instead of it.
		log.Printf("advisory composition failed: %v", err)
		out.AdvisoryError = "Advisory narrative is unavailable."
	} else {
		out.Advisory = text
	}
	return jsonResp(200, out)
}

func advisoryRequested(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// CultureLister is the catalog slice the advisory runner needs.
type CultureLister interface {
	ListEligibleCultures(ctx context.Context) ([]agritec.Culture, error)
}

// ComposerRunner wires secret resolution, catalog listing, and model
// composition behind the AdvisoryRunner interface.
type ComposerRunner struct {
	Secrets    climate.SecretResolver
	NewCatalog func(token string) CultureLister
	NewBackend func(ctx context.Context) (advisory.ModelBackend, error)
}

func (r *ComposerRunner) Run(ctx context.Context, bundle climate.Bundle) (string, error) {
	token, err := r.Secrets.Resolve(ctx, agritec.TokenParamName())
	if err != nil {
		return "", err
	}
	cultures, err := r.NewCatalog(token).ListEligibleCultures(ctx)
	if err != nil {
		return "", err
	}

	backend, err := r.NewBackend(ctx)
	if err != nil {
		return "", err
	}
	return advisory.NewComposer(backend).Compose(ctx, advisory.ConditionsFromBundle(bundle), cultures)
}
